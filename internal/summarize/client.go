// Package summarize wraps the external document summarization provider.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the summarization provider's REST endpoint. Summaries are
// requested on demand and never stored.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a summarization client. An empty baseURL produces a
// client whose Summarize always fails with ErrNotConfigured.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrNotConfigured is returned when no summarizer URL is configured.
var ErrNotConfigured = fmt.Errorf("summarizer is not configured")

type summarizeRequest struct {
	FileName string `json:"fileName"`
	Content  []byte `json:"content"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

// Summarize sends a document to the provider and returns its summary.
func (cl *Client) Summarize(ctx context.Context, fileName string, content []byte) (string, error) {
	if cl.baseURL == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(summarizeRequest{FileName: fileName, Content: content})
	if err != nil {
		return "", fmt.Errorf("failed to encode summarize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build summarize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cl.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+cl.apiKey)
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summarizer request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read summarizer response: %w", err)
	}

	var parsed summarizeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("invalid summarizer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("summarizer returned %d: %s", resp.StatusCode, parsed.Error)
		}
		return "", fmt.Errorf("summarizer returned status %d", resp.StatusCode)
	}

	return parsed.Summary, nil
}
