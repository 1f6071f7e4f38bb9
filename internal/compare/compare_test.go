package compare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// backendFunc adapts a function to the Backend interface for tests.
type backendFunc func(ctx context.Context, modelID string, body []byte) ([]byte, error)

func (f backendFunc) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	return f(ctx, modelID, body)
}

func anthropicBody(text string, inputTokens, outputTokens int) []byte {
	return []byte(fmt.Sprintf(
		`{"content":[{"type":"text","text":%q}],"usage":{"input_tokens":%d,"output_tokens":%d}}`,
		text, inputTokens, outputTokens))
}

func TestCompareOrderAndLength(t *testing.T) {
	modelIDs := []string{
		"anthropic.claude-3-5-sonnet-20241022-v2:0",
		"amazon.titan-text-express-v1",
		"anthropic.claude-3-haiku-20240307-v1:0",
		"meta.llama3-70b-instruct-v1:0",
	}

	backend := backendFunc(func(_ context.Context, modelID string, _ []byte) ([]byte, error) {
		switch {
		case strings.Contains(modelID, "haiku"):
			return nil, errors.New("throttled")
		case strings.Contains(modelID, "anthropic"):
			return anthropicBody("A fine game.", 10, 5), nil
		default:
			return []byte(`{"completion":"Also fine."}`), nil
		}
	})

	results := NewComparator(backend).Compare(context.Background(), "some game text", modelIDs)

	if len(results) != len(modelIDs) {
		t.Fatalf("Expected %d results, got %d", len(modelIDs), len(results))
	}
	for i, result := range results {
		if result.ModelID != modelIDs[i] {
			t.Errorf("Expected result %d for model %q, got %q", i, modelIDs[i], result.ModelID)
		}
	}

	for _, i := range []int{0, 1, 3} {
		if !results[i].Success {
			t.Errorf("Expected result %d to succeed, got error %q", i, results[i].Error)
		}
	}
	if results[2].Success {
		t.Error("Expected result 2 to fail")
	}
}

func TestCompareFailureDoesNotAbortSiblings(t *testing.T) {
	var mu sync.Mutex
	invoked := map[string]bool{}

	backend := backendFunc(func(_ context.Context, modelID string, _ []byte) ([]byte, error) {
		mu.Lock()
		invoked[modelID] = true
		mu.Unlock()
		if modelID == "anthropic.claude-bad" {
			return nil, errors.New("rate limited")
		}
		return anthropicBody("ok", 1, 1), nil
	})

	results := NewComparator(backend).Compare(context.Background(), "text",
		[]string{"anthropic.claude-bad", "anthropic.claude-good"})

	if !invoked["anthropic.claude-good"] {
		t.Error("Expected the second model to be invoked despite the first failing")
	}

	failed := results[0]
	if failed.Success {
		t.Fatal("Expected first result to fail")
	}
	if failed.Error != "rate limited" {
		t.Errorf("Expected error %q, got %q", "rate limited", failed.Error)
	}
	if failed.Metrics.OutputLength != 0 {
		t.Errorf("Expected output length 0 on failure, got %d", failed.Metrics.OutputLength)
	}
	if failed.Metrics.LatencySeconds < 0 {
		t.Errorf("Expected non-negative latency, got %f", failed.Metrics.LatencySeconds)
	}
	if failed.Summary != "" {
		t.Errorf("Expected empty summary on failure, got %q", failed.Summary)
	}

	if !results[1].Success {
		t.Errorf("Expected second result to succeed, got error %q", results[1].Error)
	}
}

func TestCompareSuccessMetrics(t *testing.T) {
	backend := backendFunc(func(_ context.Context, _ string, _ []byte) ([]byte, error) {
		return anthropicBody("  An economic strategy game.  ", 50, 20), nil
	})

	results := NewComparator(backend).Compare(context.Background(), "text",
		[]string{"anthropic.claude-3-5-sonnet-20241022-v2:0"})

	result := results[0]
	if !result.Success {
		t.Fatalf("Expected success, got error %q", result.Error)
	}
	if result.Summary != "An economic strategy game." {
		t.Errorf("Expected trimmed summary, got %q", result.Summary)
	}
	if result.Metrics.InputTokens != 50 || result.Metrics.OutputTokens != 20 {
		t.Errorf("Expected 50/20 tokens, got %d/%d", result.Metrics.InputTokens, result.Metrics.OutputTokens)
	}
	// Output length counts the raw completion, not the trimmed summary.
	if result.Metrics.OutputLength != len("  An economic strategy game.  ") {
		t.Errorf("Expected output length %d, got %d", len("  An economic strategy game.  "), result.Metrics.OutputLength)
	}
	if result.Metrics.LatencySeconds < 0 {
		t.Errorf("Expected non-negative latency, got %f", result.Metrics.LatencySeconds)
	}
}

func TestCompareCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := backendFunc(func(ctx context.Context, _ string, _ []byte) ([]byte, error) {
		return nil, ctx.Err()
	})

	results := NewComparator(backend).Compare(ctx, "text",
		[]string{"anthropic.claude-a", "anthropic.claude-b"})

	for i, result := range results {
		if result.Success {
			t.Errorf("Expected result %d to fail under a cancelled context", i)
		}
		if !strings.Contains(result.Error, "timed out") {
			t.Errorf("Expected a timeout error for result %d, got %q", i, result.Error)
		}
	}
}

func TestComparePromptTruncation(t *testing.T) {
	var captured []byte
	backend := backendFunc(func(_ context.Context, _ string, body []byte) ([]byte, error) {
		captured = body
		return anthropicBody("ok", 1, 1), nil
	})

	longText := strings.Repeat("a", maxInputChars+500)
	NewComparator(backend).Compare(context.Background(), longText, []string{"anthropic.claude-x"})

	var req anthropicRequest
	if err := json.Unmarshal(captured, &req); err != nil {
		t.Fatalf("Expected a valid request payload, got: %v", err)
	}
	content := req.Messages[0].Content
	if !strings.Contains(content, strings.Repeat("a", maxInputChars)) {
		t.Error("Expected the prompt to contain the truncated input text")
	}
	if strings.Contains(content, strings.Repeat("a", maxInputChars+1)) {
		t.Errorf("Expected input text capped at %d characters", maxInputChars)
	}
}

func TestCompareParseFailureBecomesResultError(t *testing.T) {
	backend := backendFunc(func(_ context.Context, _ string, _ []byte) ([]byte, error) {
		return []byte(`{"content":[],"usage":{}}`), nil
	})

	results := NewComparator(backend).Compare(context.Background(), "text", []string{"anthropic.claude-x"})

	result := results[0]
	if result.Success {
		t.Fatal("Expected a parse failure result")
	}
	if !strings.Contains(result.Error, "no content blocks") {
		t.Errorf("Expected a parse error message, got %q", result.Error)
	}
	if result.Metrics.OutputLength != 0 {
		t.Errorf("Expected output length 0, got %d", result.Metrics.OutputLength)
	}
}

func TestCompareEmptyModelList(t *testing.T) {
	backend := backendFunc(func(_ context.Context, _ string, _ []byte) ([]byte, error) {
		t.Error("Backend must not be invoked for an empty model list")
		return nil, nil
	})

	results := NewComparator(backend).Compare(context.Background(), "text", nil)
	if len(results) != 0 {
		t.Errorf("Expected no results, got %d", len(results))
	}
}
