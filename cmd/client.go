package main

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

const (
	fetchTimeout = 30 * time.Second
	apiTimeout   = 300 * time.Second // summarization runs several model calls

	// userAgent mimics a browser; boardgamegeek.com rejects obvious bots.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	expectedHost = "boardgamegeek.com"
)

// Client fetches a board game page and drives it through the summarizer
// API.
type Client struct {
	apiEndpoint string
	fetcher     *http.Client
	api         *http.Client
}

// NewClient creates a client for the given summarize endpoint.
func NewClient(apiEndpoint string, insecureSkipTLSVerify bool) (*Client, error) {
	fetcher := &http.Client{Timeout: fetchTimeout}
	api := &http.Client{Timeout: apiTimeout}

	if insecureSkipTLSVerify {
		fmt.Fprintln(os.Stderr, "\n/!\\ WARNING: Skipping TLS certificate verification. This is insecure and should not be used in production. /!\\")

		defaultTransport, ok := http.DefaultTransport.(*http.Transport)
		if !ok {
			return nil, fmt.Errorf("http.DefaultTransport is not an *http.Transport")
		}
		tr := defaultTransport.Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		fetcher.Transport = tr
		api.Transport = tr
	}

	return &Client{
		apiEndpoint: apiEndpoint,
		fetcher:     fetcher,
		api:         api,
	}, nil
}

// CheckDomain warns (non-fatally) when the page URL is not on the expected
// site.
func (c *Client) CheckDomain(pageURL string) {
	parsed, err := url.Parse(pageURL)
	if err != nil || !strings.Contains(parsed.Host, expectedHost) {
		fmt.Fprintln(os.Stderr, "Warning: URL doesn't appear to be from BoardGameGeek")
	}
}

// FetchPage retrieves the raw HTML for a game page.
func (c *Client) FetchPage(pageURL string) ([]byte, error) {
	fmt.Printf("Fetching HTML from: %s\n", pageURL)

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.fetcher.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error fetching URL: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading page body: %w", err)
	}

	fmt.Printf("Successfully fetched %d characters\n", len(body))
	return body, nil
}

// Summarize posts the HTML to the API and decodes the comparison report. A
// spinner on stderr keeps the long wait visible.
func (c *Client) Summarize(html []byte) (*ComparisonReport, error) {
	fmt.Printf("\nSending HTML to API: %s\n", c.apiEndpoint)

	req, err := http.NewRequest(http.MethodPost, c.apiEndpoint, bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("invalid API endpoint: %w", err)
	}
	req.Header.Set("Content-Type", "text/html")

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Waiting for model comparison"),
		progressbar.OptionSpinnerType(14),
	)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				bar.Add(1)
			}
		}
	}()

	resp, err := c.api.Do(req)
	close(done)
	bar.Finish()
	bar.Clear()
	bar.Close()
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("error calling API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error calling API: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var report ComparisonReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("error decoding API response: %w", err)
	}
	return &report, nil
}
