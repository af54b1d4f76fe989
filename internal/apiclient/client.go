// MoodMeet - Meeting Affect Telemetry and Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodmeet

/*
Package apiclient is a small client for the MoodMeet HTTP API.

It covers what a producer outside the browser needs: create, join and end
a meeting, and append telemetry batches. HTTPSender lets a Syncer flush a
local log over HTTP:

	c := apiclient.New("http://localhost:5001", nil)
	emotions := intsync.New("emotions", src, apiclient.EmotionHTTPSender(c, code))

*Client also implements sync.Appender.
*/
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moodmeet/internal/models"
	intsync "github.com/tomtom215/moodmeet/internal/sync"
)

// DefaultTimeout bounds one request when no http.Client is given.
const DefaultTimeout = 15 * time.Second

var _ intsync.Appender = (*Client)(nil)

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("moodmeet api: status %d", e.Status)
	}
	return fmt.Sprintf("moodmeet api: status %d %s: %s", e.Status, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// AppendResult is the server's count for one batch.
type AppendResult struct {
	Added    int `json:"added"`
	Rejected int `json:"rejected"`
}

// Client talks to one MoodMeet server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL (for example http://localhost:5001).
// A nil hc uses a client with DefaultTimeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: hc}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do sends body as JSON and decodes the envelope's data into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1"+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var env envelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code, apiErr.Message = env.Error.Code, env.Error.Message
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

func meetingPath(code string, rest string) string {
	return "/meetings/" + url.PathEscape(code) + rest
}

// CreateMeeting creates a meeting. Empty values get the server defaults.
func (c *Client) CreateMeeting(ctx context.Context, title, hostName string) (*models.Meeting, error) {
	var m models.Meeting
	body := map[string]string{"title": title, "hostName": hostName}
	if err := c.do(ctx, http.MethodPost, "/meetings", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMeeting returns a meeting with its logs.
func (c *Client) GetMeeting(ctx context.Context, code string) (*models.Meeting, error) {
	var m models.Meeting
	if err := c.do(ctx, http.MethodGet, meetingPath(code, ""), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Join adds a participant. An empty participantID lets the server pick one.
func (c *Client) Join(ctx context.Context, code, name, participantID string) (*models.Meeting, error) {
	var m models.Meeting
	body := map[string]string{"name": name, "participantId": participantID}
	if err := c.do(ctx, http.MethodPut, meetingPath(code, "/join"), body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// End ends the meeting.
func (c *Client) End(ctx context.Context, code string) (*models.Meeting, error) {
	var m models.Meeting
	if err := c.do(ctx, http.MethodPut, meetingPath(code, "/end"), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// PostEmotions appends a batch and returns the server's counts.
func (c *Client) PostEmotions(ctx context.Context, code string, items []models.EmotionSnapshot) (AppendResult, error) {
	var res AppendResult
	err := c.do(ctx, http.MethodPost, meetingPath(code, "/emotions"), map[string]interface{}{"snapshots": items}, &res)
	return res, err
}

// PostTranscript appends a batch and returns the server's counts.
func (c *Client) PostTranscript(ctx context.Context, code string, items []models.TranscriptSegment) (AppendResult, error) {
	var res AppendResult
	err := c.do(ctx, http.MethodPost, meetingPath(code, "/transcript"), map[string]interface{}{"segments": items}, &res)
	return res, err
}

// AppendEmotions implements sync.Appender. Items the server rejects as
// invalid still count as delivered.
func (c *Client) AppendEmotions(ctx context.Context, code string, items []models.EmotionSnapshot) error {
	_, err := c.PostEmotions(ctx, code, items)
	return err
}

// AppendTranscript implements sync.Appender.
func (c *Client) AppendTranscript(ctx context.Context, code string, items []models.TranscriptSegment) error {
	_, err := c.PostTranscript(ctx, code, items)
	return err
}
