package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wxcompass/wxcompass/internal/config"
	"github.com/wxcompass/wxcompass/pkg/logging"
	"github.com/wxcompass/wxcompass/pkg/watsonx"
)

var chatFlags struct {
	url         string
	projectID   string
	model       string
	maxTokens   int
	temperature float64
	topP        float64
	stop        string
	seed        int
}

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Send a prompt to a watsonx chat model",
	Long: `Chat sends a single user message to the configured foundation model
and prints the reply. The API key is read from the ` + config.APIKeyEnvVar + `
environment variable or the config file.

When no model is given, the first active chat model of the endpoint is
selected; if that lookup fails the built-in granite defaults are used.`,
	Example: `  WATSONX_API_KEY=... wxcompass chat --project-id my-project "What is IBM granite?"

  wxcompass chat --model ibm/granite-3-8b-instruct --max-tokens 200 "Summarize this"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	defaults := watsonx.DefaultConfig()

	chatCmd.Flags().StringVar(&chatFlags.url, "url",
		"https://us-south.ml.cloud.ibm.com", "watsonx API endpoint base URL")
	chatCmd.Flags().StringVar(&chatFlags.projectID, "project-id", "",
		"watsonx project ID")
	chatCmd.Flags().StringVar(&chatFlags.model, "model", "",
		"Model ID (defaults to the first active model of the endpoint)")
	chatCmd.Flags().IntVar(&chatFlags.maxTokens, "max-tokens",
		defaults.MaxTokens, "Maximum tokens to generate")
	chatCmd.Flags().Float64Var(&chatFlags.temperature, "temperature",
		defaults.Temperature, "Sampling temperature (0-2)")
	chatCmd.Flags().Float64Var(&chatFlags.topP, "top-p",
		defaults.TopP, "Nucleus sampling cutoff (0-1)")
	chatCmd.Flags().StringVar(&chatFlags.stop, "stop", "",
		"Stop sequence")
	chatCmd.Flags().IntVar(&chatFlags.seed, "seed", defaults.Seed,
		"Sampling seed")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	apiKey, err := config.APIKey(true)
	if err != nil {
		return err
	}

	cfg := watsonx.DefaultConfig()
	cfg.URL = strings.TrimRight(chatFlags.url, "/")
	cfg.ProjectID = chatFlags.projectID
	cfg.APIKey = apiKey
	cfg.ModelName = chatFlags.model
	cfg.MaxTokens = chatFlags.maxTokens
	cfg.Temperature = chatFlags.temperature
	cfg.TopP = chatFlags.topP
	cfg.StopSequence = chatFlags.stop
	cfg.Seed = chatFlags.seed

	if cfg.ModelName == "" {
		refresher := watsonx.NewOptionsRefresher()
		options := refresher.OnURLChange(ctx, &cfg)
		logging.Ctx(ctx).Debug().
			Strs("options", options).
			Str("model_name", cfg.ModelName).
			Msg("Selected model from endpoint options")
	}

	if !watsonx.IsKnownEndpoint(cfg.URL) {
		logging.Ctx(ctx).Warn().
			Str("endpoint", cfg.URL).
			Msg("Endpoint is not a recognized watsonx region")
	}

	client, err := watsonx.NewClient(cfg)
	if err != nil {
		return err
	}

	reply, err := client.Chat(ctx, []watsonx.Message{
		{Role: "user", Content: strings.Join(args, " ")},
	})
	if err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}
