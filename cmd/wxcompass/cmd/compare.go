package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wxcompass/wxcompass/internal/cmd/output"
	"github.com/wxcompass/wxcompass/internal/cmd/table"
	"github.com/wxcompass/wxcompass/internal/config"
	"github.com/wxcompass/wxcompass/pkg/catalog"
	"github.com/wxcompass/wxcompass/pkg/errors"
	"github.com/wxcompass/wxcompass/pkg/logging"
)

var compareFlags struct {
	regions   []string
	reference string
	filter    string
	timeout   time.Duration
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare active models across regions",
	Long: `Compare fetches the foundation-model catalog from every configured
region concurrently, drops models whose deprecation or withdrawal date has
passed, and reconciles the remaining sets against the reference region.

A region that cannot be reached contributes an empty set and the
comparison continues; the failure is logged, not fatal.`,
	Example: `  # Compare the default regions (us-south, eu-de, jp-tok, au-syd)
  wxcompass compare

  # Compare a custom region list against eu-de
  wxcompass compare \
    --region https://us-south.ml.cloud.ibm.com \
    --region https://eu-de.ml.cloud.ibm.com \
    --reference eu-de

  # Embedding models, machine-readable
  wxcompass compare --filter embedding -o json`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringArrayVar(&compareFlags.regions, "region", nil,
		"Region base URL (repeatable; defaults to us-south, eu-de, jp-tok, au-syd)")
	compareCmd.Flags().StringVar(&compareFlags.reference, "reference", "",
		"Reference region short code (defaults to the first region)")
	compareCmd.Flags().StringVar(&compareFlags.filter, "filter", "chat",
		"Capability facet: chat or embedding")
	compareCmd.Flags().DurationVar(&compareFlags.timeout, "timeout", 0,
		"Per-region request timeout (default 10s)")
}

func runCompare(cmd *cobra.Command, _ []string) error {
	// Everything that can be rejected without touching the network is
	// checked first.
	format, err := resolveFormat()
	if err != nil {
		return err
	}

	filter, err := parseFilter(compareFlags.filter)
	if err != nil {
		return err
	}

	regions, err := resolveRegions(compareFlags.regions)
	if err != nil {
		return err
	}

	reference, err := resolveReference(regions, compareFlags.reference)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	fetcher := newFetcher(filter, compareFlags.timeout)

	sets := fetcher.FetchAll(ctx, regions)

	result, err := catalog.Reconcile(sets, reference)
	if err != nil {
		return err
	}

	logging.Ctx(ctx).Info().
		Str("reference", result.Reference).
		Int("intersection", len(result.Intersection)).
		Msg("Reconciliation complete")

	formatter := output.NewFormatter(format)
	switch format {
	case output.FormatTable, output.FormatMarkdown:
		return formatter.Format(os.Stdout, table.ReportSections(result, regions))
	default:
		return formatter.Format(os.Stdout, result)
	}
}

// resolveRegions builds the ordered region list: flags first, then the
// regions key in the config file, then the built-in defaults.
func resolveRegions(flagged []string) ([]catalog.Region, error) {
	urls := flagged
	if len(urls) == 0 {
		urls = config.GetStrings("regions")
	}
	if len(urls) == 0 {
		return catalog.DefaultRegions(), nil
	}
	return catalog.ParseRegions(urls)
}

// resolveReference picks the reference region by short code. An empty code
// means the first configured region.
func resolveReference(regions []catalog.Region, code string) (catalog.Region, error) {
	if code == "" {
		return regions[0], nil
	}
	for _, region := range regions {
		if region.Code == code {
			return region, nil
		}
	}
	return catalog.Region{}, errors.NewValidationError("reference", code,
		"reference region is not in the configured region list")
}

// parseFilter maps the flag value onto a capability facet.
func parseFilter(s string) (catalog.Filter, error) {
	switch s {
	case "chat", "":
		return catalog.FilterTextChat, nil
	case "embedding":
		return catalog.FilterEmbedding, nil
	default:
		return "", errors.NewValidationError("filter", s,
			fmt.Sprintf("invalid filter %q: must be chat or embedding", s))
	}
}

// newFetcher builds a catalog fetcher from the shared command flags.
func newFetcher(filter catalog.Filter, timeout time.Duration) *catalog.Fetcher {
	opts := []catalog.FetcherOption{catalog.WithFilter(filter)}
	if timeout > 0 {
		opts = append(opts, catalog.WithTimeout(timeout))
	}
	return catalog.NewFetcher(opts...)
}
