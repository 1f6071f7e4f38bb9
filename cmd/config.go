package main

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"
)

const (
	endpointEnvVar    = "SUMMARIZER_API_ENDPOINT"
	defaultConfigFile = "config.yaml"
)

type clientConfig struct {
	APIEndpoint string `yaml:"api_endpoint"`
}

// resolveEndpoint picks the API endpoint in precedence order: the CLI
// flag, the environment variable, then the local config file.
func resolveEndpoint(flagValue, configPath string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	if endpoint := os.Getenv(endpointEnvVar); endpoint != "" {
		return endpoint, nil
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("API endpoint not provided and %s not found; use --api-endpoint, set %s, or create %s", configPath, endpointEnvVar, configPath)
		}
		return "", fmt.Errorf("reading %s: %w", configPath, err)
	}

	var cfg clientConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return "", fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	if cfg.APIEndpoint == "" {
		return "", fmt.Errorf("API endpoint not configured in %s", configPath)
	}
	return cfg.APIEndpoint, nil
}
