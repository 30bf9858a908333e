package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Status mirrors the agent's /status payload.
type Status struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Origin     string    `json:"origin"`
	Fetched    int       `json:"fetched"`
	Parsed     int       `json:"parsed"`
	Applied    bool      `json:"applied"`
	Error      string    `json:"error"`
}

// Run mirrors one entry of the agent's /runs payload.
type Run struct {
	RunID      string    `json:"run_id"`
	Origin     string    `json:"origin"`
	Fetched    int       `json:"fetched"`
	Parsed     int       `json:"parsed"`
	Applied    bool      `json:"applied"`
	Error      string    `json:"error"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Client talks to the agent's dashboard API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return resp, nil
}

// Status returns nil without error when the agent has not finished a cycle yet.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	resp, err := c.get(ctx, "/status", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /status: unexpected status: %s", resp.Status)
	}
	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &st, nil
}

// Runs returns recent refresh runs, newest first. History may be disabled on
// the agent, in which case the list is empty.
func (c *Client) Runs(ctx context.Context, limit int) ([]Run, error) {
	resp, err := c.get(ctx, "/runs", url.Values{"limit": {strconv.Itoa(limit)}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusServiceUnavailable {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET /runs: unexpected status: %s", resp.Status)
	}
	var runs []Run
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

// Logs returns the last tail lines of the agent log.
func (c *Client) Logs(ctx context.Context, tail int) (string, error) {
	resp, err := c.get(ctx, "/logs", url.Values{"tail": {strconv.Itoa(tail)}})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET /logs: unexpected status: %s", resp.Status)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read logs: %w", err)
	}
	return string(b), nil
}
