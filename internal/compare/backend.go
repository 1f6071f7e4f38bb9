package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// invokeTimeout covers one model invocation end to end; slow models are
// expected, streaming is not used.
const invokeTimeout = 300 * time.Second

// Backend performs one raw model invocation: payload bytes in, response
// bytes out. The payload shape is the calling family's business.
type Backend interface {
	Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error)
}

// HTTPBackend invokes models over a Bedrock-style runtime endpoint:
// POST {base}/model/{id}/invoke.
type HTTPBackend struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPBackend creates a backend for the given runtime endpoint. apiKey
// may be empty when the endpoint does not require bearer auth.
func NewHTTPBackend(baseURL, apiKey string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: invokeTimeout},
	}
}

func (b *HTTPBackend) Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/model/%s/invoke", b.baseURL, url.PathEscape(modelID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building invocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model endpoint returned status %d: %s", resp.StatusCode, snippet(data))
	}
	return data, nil
}

// snippet keeps backend error bodies short enough for an error message.
func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
