// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

package classifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// HTTPClassifier calls an external inference service:
//
//	GET  <base>/health   200 once the models are loaded
//	POST <base>/detect   image bytes in, {"expressions":{...}} out
//
// A response without expressions means no face was found.
type HTTPClassifier struct {
	baseURL    string
	httpClient *http.Client
	loader     *Loader
}

// NewHTTPClassifier creates a classifier for baseURL. Nothing is contacted
// until the first Ensure or Detect.
func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &HTTPClassifier{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	c.loader = NewLoader(c.probe, 3*timeout)
	return c
}

// Ensure waits for the service to report healthy.
func (c *HTTPClassifier) Ensure(ctx context.Context) error {
	return c.loader.Ensure(ctx)
}

// State implements Classifier.
func (c *HTTPClassifier) State() State {
	return c.loader.State()
}

func (c *HTTPClassifier) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("classifier health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("classifier health returned status %d", resp.StatusCode)
	}
	return nil
}

type detectResponse struct {
	Expressions map[string]float64 `json:"expressions"`
}

// Detect implements Classifier.
func (c *HTTPClassifier) Detect(ctx context.Context, frame []byte) (Scores, error) {
	if err := c.loader.Ensure(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect", bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier detect failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier detect returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}
	scores := ParseScores(out.Expressions)
	if len(scores) == 0 {
		return nil, ErrNoFace
	}
	return scores, nil
}
