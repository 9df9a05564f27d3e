package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/wxcompass/wxcompass/internal/cmd/output"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionInfo is the machine-readable shape of the version command output.
type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func runVersion(_ *cobra.Command, _ []string) error {
	info := versionInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		BuiltBy:   BuiltBy,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	format, err := resolveFormat()
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(os.Stdout, info)
	default:
		fmt.Printf("wxcompass %s\n", info.Version)
		fmt.Printf("  commit:  %s\n", info.Commit)
		fmt.Printf("  built:   %s by %s\n", info.Date, info.BuiltBy)
		fmt.Printf("  go:      %s (%s)\n", info.GoVersion, info.Platform)
		return nil
	}
}
