package server

import (
	"time"

	"bgsummarizer/internal/compare"
)

// SummarizeResponse is the success envelope for a comparison batch.
type SummarizeResponse struct {
	TextLength     int              `json:"text_length"`
	ModelsCompared int              `json:"models_compared"`
	Results        []compare.Result `json:"results"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// ModelInfo describes one configured model and its wire-format family.
type ModelInfo struct {
	ID     string `json:"id"`
	Family string `json:"family"`
}

// ModelsResponse represents the response for model listing
type ModelsResponse struct {
	Models []ModelInfo `json:"models"`
	Count  int         `json:"count"`
}
