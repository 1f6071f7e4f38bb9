package server

import (
	"os"
	"strings"

	"bgsummarizer/internal/compare"
)

// DefaultModelID is the baseline model used when SUMMARIZER_MODELS is not
// set.
const DefaultModelID = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// defaultBackendURL targets the Bedrock runtime endpoint in the default
// region.
const defaultBackendURL = "https://bedrock-runtime.us-east-1.amazonaws.com"

// ModelsFromEnvironment reads the comma-separated model identifier list
// from SUMMARIZER_MODELS, trimming whitespace per entry. Falls back to the
// single baseline model when unset or empty.
func ModelsFromEnvironment() []string {
	raw := os.Getenv("SUMMARIZER_MODELS")
	if raw == "" {
		return []string{DefaultModelID}
	}

	var models []string
	for _, entry := range strings.Split(raw, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			models = append(models, entry)
		}
	}
	if len(models) == 0 {
		return []string{DefaultModelID}
	}
	return models
}

// BackendFromEnvironment builds the model invocation backend from
// MODEL_API_BASE_URL and MODEL_API_KEY.
func BackendFromEnvironment() *compare.HTTPBackend {
	baseURL := os.Getenv("MODEL_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBackendURL
	}
	return compare.NewHTTPBackend(baseURL, os.Getenv("MODEL_API_KEY"))
}
