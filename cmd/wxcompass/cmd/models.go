package cmd

import (
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/wxcompass/wxcompass/internal/cmd/output"
	"github.com/wxcompass/wxcompass/internal/cmd/table"
	"github.com/wxcompass/wxcompass/pkg/catalog"
)

var modelsFlags struct {
	region  string
	filter  string
	timeout time.Duration
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List active models in one region",
	Long: `Models lists the foundation models currently active in a single
region, after dropping models whose deprecation or withdrawal date has
passed. Unlike compare, a fetch failure here is fatal.`,
	Example: `  # List active chat models in the default region
  wxcompass models

  # Embedding models in Tokyo, as JSON
  wxcompass models --region https://jp-tok.ml.cloud.ibm.com --filter embedding -o json`,
	RunE: runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)

	modelsCmd.Flags().StringVar(&modelsFlags.region, "region",
		"https://us-south.ml.cloud.ibm.com", "Region base URL")
	modelsCmd.Flags().StringVar(&modelsFlags.filter, "filter", "chat",
		"Capability facet: chat or embedding")
	modelsCmd.Flags().DurationVar(&modelsFlags.timeout, "timeout", 0,
		"Request timeout (default 10s)")
}

// modelListing is the machine-readable shape of the models command output.
type modelListing struct {
	Region string   `json:"region" yaml:"region"`
	Count  int      `json:"count" yaml:"count"`
	Models []string `json:"models" yaml:"models"`
}

func runModels(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	filter, err := parseFilter(modelsFlags.filter)
	if err != nil {
		return err
	}

	region, err := catalog.NewRegion(modelsFlags.region)
	if err != nil {
		return err
	}

	fetcher := newFetcher(filter, modelsFlags.timeout)

	set, err := fetcher.FetchRegion(cmd.Context(), region)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	formatter := output.NewFormatter(format)
	switch format {
	case output.FormatTable, output.FormatMarkdown:
		return formatter.Format(os.Stdout, table.ModelsToTableData(region.Code, ids))
	default:
		return formatter.Format(os.Stdout, modelListing{
			Region: region.Code,
			Count:  len(ids),
			Models: ids,
		})
	}
}
