// Package config bridges Viper configuration and process environment.
package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/wxcompass/wxcompass/pkg/errors"
)

// APIKeyEnvVar names the environment variable holding the watsonx
// credential.
const APIKeyEnvVar = "WATSONX_API_KEY"

// GetString is a helper to get string values from Viper.
// It checks both OS environment variables and Viper configuration.
func GetString(key string) string {
	// Check OS env directly first
	osValue := os.Getenv(key)
	viperValue := viper.GetString(key)

	// If Viper doesn't have it but OS does, return OS value
	if viperValue == "" && osValue != "" {
		return osValue
	}
	return viperValue
}

// GetStrings returns a string slice from Viper configuration.
func GetStrings(key string) []string {
	return viper.GetStringSlice(key)
}

// APIKey retrieves the watsonx API key from Viper or the environment.
// When required is true and the key is unset, an error is returned.
func APIKey(required bool) (string, error) {
	apiKey := GetString(APIKeyEnvVar)
	if apiKey == "" && required {
		return "", errors.NewConfigError("auth",
			"environment variable "+APIKeyEnvVar+" not set", errors.ErrAPIKeyRequired)
	}
	return apiKey, nil
}
