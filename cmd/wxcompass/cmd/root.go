// Package cmd implements the wxcompass command tree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wxcompass/wxcompass/internal/cmd/globals"
	"github.com/wxcompass/wxcompass/internal/cmd/output"
	"github.com/wxcompass/wxcompass/internal/config"
	"github.com/wxcompass/wxcompass/pkg/logging"
)

var (
	configFile  string
	globalFlags *globals.Flags

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
	// BuiltBy is the build system identifier.
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wxcompass",
	Short: "watsonx.ai model catalog comparison",
	Long: `wxcompass polls the IBM watsonx.ai foundation-model catalog across
geographic regions and reports which active models each region is missing
relative to a reference region, which models are unique to a region, and
which are available everywhere.

Models already deprecated or withdrawn as of the run date are excluded
from every comparison.`,
	PersistentPreRunE: setupCommand,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date, builtBy string) {
	Version = version
	Commit = commit
	Date = date
	BuiltBy = builtBy

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.wxcompass.yaml)")
	globalFlags = globals.AddFlags(rootCmd)

	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".wxcompass" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".wxcompass")
	}

	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	viper.SetEnvPrefix("WXCOMPASS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// The credential is read outside the WXCOMPASS prefix
	if err := viper.BindEnv(config.APIKeyEnvVar); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind %s: %v\n", config.APIKeyEnvVar, err)
	}

	if err := viper.ReadInConfig(); err == nil && globalFlags != nil && globalFlags.Verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	configureLogging()
}

// setupCommand is called before any command runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	if globalFlags.Output == "" {
		globalFlags.Output = string(output.DetectFormat(""))
	}

	return nil
}

// configureLogging sets up the logging system based on configuration.
func configureLogging() {
	level := zerolog.InfoLevel
	if globalFlags != nil && globalFlags.Verbose || viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	if globalFlags != nil && globalFlags.Quiet || viper.GetBool("quiet") {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	cfg := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		AddCaller: level <= zerolog.DebugLevel,
		NoColor:   globalFlags != nil && globalFlags.NoColor,
	}

	if cfg.Format == "" {
		cfg.Format = "auto"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}

	logging.Configure(cfg)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		if err := godotenv.Load(envFile); err == nil {
			if globalFlags != nil && globalFlags.Verbose {
				fmt.Fprintf(os.Stderr, "Loaded %s\n", envFile)
			}
		}
	}
}

// resolveFormat validates the requested output format. An unknown format
// is a fatal configuration error, caught before any network activity.
func resolveFormat() (output.Format, error) {
	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return "", err
	}
	if format == "" {
		format = output.DetectFormat("")
	}
	return format, nil
}
