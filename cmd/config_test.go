package main

import (
	"os"
	"path/filepath"
	"testing"
)

func withEnv(t *testing.T, key, value string) {
	t.Helper()
	original, had := os.LookupEnv(key)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, original)
		} else {
			os.Unsetenv(key)
		}
	})
	if value == "" {
		os.Unsetenv(key)
	} else {
		os.Setenv(key, value)
	}
}

func TestResolveEndpointFlagWins(t *testing.T) {
	withEnv(t, endpointEnvVar, "https://env.example.com/api/summarize")

	endpoint, err := resolveEndpoint("https://flag.example.com/api/summarize", "does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if endpoint != "https://flag.example.com/api/summarize" {
		t.Errorf("Expected the flag value to win, got %q", endpoint)
	}
}

func TestResolveEndpointEnvBeatsFile(t *testing.T) {
	withEnv(t, endpointEnvVar, "https://env.example.com/api/summarize")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_endpoint: https://file.example.com/api/summarize\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	endpoint, err := resolveEndpoint("", path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if endpoint != "https://env.example.com/api/summarize" {
		t.Errorf("Expected the environment value to win, got %q", endpoint)
	}
}

func TestResolveEndpointFromFile(t *testing.T) {
	withEnv(t, endpointEnvVar, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_endpoint: https://file.example.com/api/summarize\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	endpoint, err := resolveEndpoint("", path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if endpoint != "https://file.example.com/api/summarize" {
		t.Errorf("Expected the config file value, got %q", endpoint)
	}
}

func TestResolveEndpointMissingEverywhere(t *testing.T) {
	withEnv(t, endpointEnvVar, "")

	if _, err := resolveEndpoint("", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error when no endpoint is configured")
	}
}

func TestResolveEndpointEmptyFile(t *testing.T) {
	withEnv(t, endpointEnvVar, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_endpoint: \"\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := resolveEndpoint("", path); err == nil {
		t.Error("Expected an error for a config file without an endpoint")
	}
}
