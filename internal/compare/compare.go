package compare

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"
)

const (
	// maxInputChars bounds how much extracted text goes into the prompt.
	maxInputChars = 8000

	maxOutputTokens = 1000
	temperature     = 0.7

	// maxParallelInvocations bounds the fan-out over the model list.
	maxParallelInvocations = 4
)

const promptTemplate = `Please analyze this board game information and provide a concise summary including:
- Theme and setting
- Core mechanics
- Number of players
- Type of players who would enjoy this game (e.g., strategy enthusiasts, casual gamers, families, etc.)

Board game information:
%s

Please provide a natural, engaging paragraph summarizing this game.`

// Metrics carries the per-invocation measurements. Token counts are 0 when
// the backend does not report them; latency is always measured, including
// for failures.
type Metrics struct {
	LatencySeconds float64 `json:"latency_seconds"`
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	OutputLength   int     `json:"output_length"`
}

// Result is the outcome of one model invocation. Exactly one of Summary or
// Error is populated, keyed by Success.
type Result struct {
	ModelID string  `json:"model_id"`
	Success bool    `json:"success"`
	Summary string  `json:"summary,omitempty"`
	Error   string  `json:"error,omitempty"`
	Metrics Metrics `json:"metrics"`
}

// Comparator fans extracted text out to a list of models and collects one
// Result per model.
type Comparator struct {
	backend     Backend
	registry    *Registry
	parallelism int
}

// NewComparator creates a Comparator over the given backend with the
// built-in family registry.
func NewComparator(backend Backend) *Comparator {
	return &Comparator{
		backend:     backend,
		registry:    NewRegistry(),
		parallelism: maxParallelInvocations,
	}
}

// Registry exposes the family registry, mainly so callers can report how a
// model ID will be classified.
func (c *Comparator) Registry() *Registry {
	return c.registry
}

// Compare invokes every model in modelIDs and returns one Result per ID in
// the same order. Invocations run concurrently with bounded parallelism; a
// single model's failure never aborts its siblings. Cancelling ctx makes
// still-pending invocations fail with a timeout message instead of hanging
// the batch.
func (c *Comparator) Compare(ctx context.Context, text string, modelIDs []string) []Result {
	results := make([]Result, len(modelIDs))

	sem := make(chan struct{}, c.parallelism)
	var wg sync.WaitGroup
	for i, id := range modelIDs {
		wg.Add(1)
		go func(index int, modelID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[index] = c.invoke(ctx, modelID, text)
		}(i, id)
	}
	wg.Wait()

	return results
}

// invoke runs one model end to end: classify, build payload, call the
// backend, normalize the response. Any fault along the way becomes a
// failure Result carrying the latency measured so far.
func (c *Comparator) invoke(ctx context.Context, modelID, text string) Result {
	start := time.Now()

	fail := func(err error) Result {
		log.Printf("Error invoking model %s: %v", modelID, err)
		return Result{
			ModelID: modelID,
			Success: false,
			Error:   err.Error(),
			Metrics: Metrics{LatencySeconds: roundToTwoDecimals(time.Since(start).Seconds())},
		}
	}

	select {
	case <-ctx.Done():
		return fail(fmt.Errorf("invocation timed out before starting: %v", ctx.Err()))
	default:
	}

	family := c.registry.Classify(modelID)
	body, err := family.BuildRequest(modelID, buildPrompt(text))
	if err != nil {
		return fail(fmt.Errorf("building %s request: %w", family.Name(), err))
	}

	log.Printf("Invoking model: %s (family %s)", modelID, family.Name())
	raw, err := c.backend.Invoke(ctx, modelID, body)
	if err != nil {
		if ctx.Err() != nil {
			return fail(fmt.Errorf("invocation timed out: %v", ctx.Err()))
		}
		return fail(err)
	}

	completion, err := family.ParseResponse(raw)
	if err != nil {
		return fail(fmt.Errorf("parsing %s response: %w", family.Name(), err))
	}

	return Result{
		ModelID: modelID,
		Success: true,
		Summary: strings.TrimSpace(completion.Text),
		Metrics: Metrics{
			LatencySeconds: roundToTwoDecimals(time.Since(start).Seconds()),
			InputTokens:    completion.InputTokens,
			OutputTokens:   completion.OutputTokens,
			OutputLength:   len(completion.Text),
		},
	}
}

func buildPrompt(text string) string {
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}
	return fmt.Sprintf(promptTemplate, text)
}

func roundToTwoDecimals(f float64) float64 {
	return math.Round(f*100) / 100
}
