package main

// Client-side mirror of the comparison envelope, with yaml tags for the
// --format yaml output.

type ComparisonReport struct {
	TextLength     int           `json:"text_length" yaml:"text-length"`
	ModelsCompared int           `json:"models_compared" yaml:"models-compared"`
	Results        []ModelResult `json:"results" yaml:"results"`
}

type ModelResult struct {
	ModelID string       `json:"model_id" yaml:"model-id"`
	Success bool         `json:"success" yaml:"success"`
	Summary string       `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error   string       `json:"error,omitempty" yaml:"error,omitempty"`
	Metrics ModelMetrics `json:"metrics" yaml:"metrics"`
}

type ModelMetrics struct {
	LatencySeconds float64 `json:"latency_seconds" yaml:"latency-seconds"`
	InputTokens    int     `json:"input_tokens" yaml:"input-tokens"`
	OutputTokens   int     `json:"output_tokens" yaml:"output-tokens"`
	OutputLength   int     `json:"output_length" yaml:"output-length"`
}
