// Package watsonx provides the chat-model component boundary for host
// orchestration frameworks: a typed, validated configuration, the
// model-option refresh hook, and a thin text-chat client.
package watsonx

import (
	"fmt"

	"github.com/wxcompass/wxcompass/pkg/errors"
)

// Endpoints enumerates the recognized watsonx.ai API endpoints offered to
// the host's endpoint dropdown.
func Endpoints() []string {
	return []string{
		"https://us-south.ml.cloud.ibm.com",
		"https://eu-de.ml.cloud.ibm.com",
		"https://eu-gb.ml.cloud.ibm.com",
		"https://au-syd.ml.cloud.ibm.com",
		"https://jp-tok.ml.cloud.ibm.com",
		"https://ca-tor.ml.cloud.ibm.com",
	}
}

// DefaultModels is the fallback model list used when the live model fetch
// fails.
var DefaultModels = []string{
	"ibm/granite-3-2b-instruct",
	"ibm/granite-3-8b-instruct",
	"ibm/granite-13b-instruct-v2",
}

// Config holds every configurable field the component exposes to its host.
// The host owns serialization and UI rendering; this struct owns defaults
// and validation.
type Config struct {
	// URL is the watsonx API endpoint base URL.
	URL string `json:"url" yaml:"url"`

	// ProjectID is the watsonx project the model runs in.
	ProjectID string `json:"project_id" yaml:"project_id"`

	// APIKey authenticates model invocations. Required.
	APIKey string `json:"api_key" yaml:"api_key"`

	// ModelName is the foundation model to invoke. Required.
	ModelName string `json:"model_name" yaml:"model_name"`

	// MaxTokens caps generation length. 1 to 4096.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// StopSequence stops generation when emitted. Optional.
	StopSequence string `json:"stop_sequence" yaml:"stop_sequence"`

	// Temperature controls randomness. 0 to 2.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopP is the nucleus sampling cutoff. 0 to 1.
	TopP float64 `json:"top_p" yaml:"top_p"`

	// FrequencyPenalty penalizes frequent tokens. -2 to 2.
	FrequencyPenalty float64 `json:"frequency_penalty" yaml:"frequency_penalty"`

	// PresencePenalty penalizes already-present tokens. -2 to 2.
	PresencePenalty float64 `json:"presence_penalty" yaml:"presence_penalty"`

	// Seed makes sampling reproducible.
	Seed int `json:"seed" yaml:"seed"`

	// Logprobs requests log probabilities of output tokens.
	Logprobs bool `json:"logprobs" yaml:"logprobs"`

	// TopLogprobs is the number of most likely tokens returned per
	// position. 1 to 20.
	TopLogprobs int `json:"top_logprobs" yaml:"top_logprobs"`
}

// DefaultConfig returns a Config with the component's default values.
// URL, ProjectID, APIKey and ModelName must still be set by the host.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        1000,
		Temperature:      0.1,
		TopP:             0.9,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.3,
		Seed:             8,
		Logprobs:         true,
		TopLogprobs:      3,
	}
}

// rangeCheck is one numeric field bound.
type rangeCheck struct {
	field string
	value float64
	min   float64
	max   float64
}

// Validate checks required fields and numeric ranges. The first offending
// field is reported in a ValidationError.
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.NewValidationError("url", c.URL, "endpoint URL is required")
	}
	if c.APIKey == "" {
		return errors.NewValidationError("api_key", "", "API key is required")
	}
	if c.ModelName == "" {
		return errors.NewValidationError("model_name", "", "model name is required")
	}

	checks := []rangeCheck{
		{"max_tokens", float64(c.MaxTokens), 1, 4096},
		{"temperature", c.Temperature, 0, 2},
		{"top_p", c.TopP, 0, 1},
		{"frequency_penalty", c.FrequencyPenalty, -2, 2},
		{"presence_penalty", c.PresencePenalty, -2, 2},
		{"top_logprobs", float64(c.TopLogprobs), 1, 20},
	}
	for _, check := range checks {
		if check.value < check.min || check.value > check.max {
			return errors.NewValidationError(check.field, check.value,
				fmt.Sprintf("must be between %g and %g", check.min, check.max))
		}
	}

	return nil
}

// Parameters returns the generation parameters of the chat request body.
func (c Config) Parameters() map[string]any {
	params := map[string]any{
		"max_tokens":        c.MaxTokens,
		"temperature":       c.Temperature,
		"top_p":             c.TopP,
		"frequency_penalty": c.FrequencyPenalty,
		"presence_penalty":  c.PresencePenalty,
		"seed":              c.Seed,
		"logprobs":          c.Logprobs,
	}
	if c.Logprobs {
		params["top_logprobs"] = c.TopLogprobs
	}
	if c.StopSequence != "" {
		params["stop"] = []string{c.StopSequence}
	}
	return params
}

// IsKnownEndpoint reports whether the URL is one of the enumerated
// watsonx endpoints. Hosts use it to flag free-form endpoint input.
func IsKnownEndpoint(url string) bool {
	for _, endpoint := range Endpoints() {
		if url == endpoint {
			return true
		}
	}
	return false
}
