// Package remote implements the HTTP client for the hosted analysis function.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eakarsu/parapilot/internal/insights"
)

// Client calls the remote analysis endpoint and normalizes its response into
// an AnalysisSnapshot. It implements insights.RemoteAnalyzer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// NewClient creates a remote analysis client.
func NewClient(baseURL, authToken string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	return &Client{
		baseURL:   baseURL,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// analyzeRequest is the wire shape of POST /analyze.
type analyzeRequest struct {
	Period         string `json:"period"`
	UseCache       bool   `json:"useCache"`
	ForceRecompute bool   `json:"forceRecompute"`
}

// Analyze computes a fresh snapshot for the requested user and period.
func (c *Client) Analyze(ctx context.Context, req insights.RemoteRequest) (*insights.AnalysisSnapshot, error) {
	payload, err := json.Marshal(analyzeRequest{
		Period:         req.PeriodKey.String(),
		ForceRecompute: req.ForceRecompute,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analyze request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read analyze response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyze returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var snapshot insights.AnalysisSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode analyze response: %w", err)
	}

	return &snapshot, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
