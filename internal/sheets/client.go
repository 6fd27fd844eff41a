// Package sheets reads and writes key ranges of a spreadsheet through the
// Sheets v4 values API, and acquires the bearer token writes require.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultBaseURL is the public Sheets API.
const DefaultBaseURL = "https://sheets.googleapis.com/v4"

// Client performs range operations against one spreadsheet.
// Reads use the static API key; writes and clears use a bearer token.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	apiKey        string
}

// NewClient creates a client. No timeout is applied to outbound requests;
// callers bound them through the context.
func NewClient(baseURL, spreadsheetID, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient:    &http.Client{},
		baseURL:       baseURL,
		spreadsheetID: spreadsheetID,
		apiKey:        apiKey,
	}
}

// valueRange is the request/response body of the values endpoints.
type valueRange struct {
	Range          string     `json:"range,omitempty"`
	MajorDimension string     `json:"majorDimension,omitempty"`
	Values         [][]string `json:"values"`
}

// ReadRange returns the rows of rng. Missing trailing cells are omitted by the
// API, so rows may be shorter than the range width.
func (c *Client) ReadRange(ctx context.Context, rng string) ([][]string, error) {
	endpoint := c.rangeURL(rng, "") + "?" + url.Values{"key": {c.apiKey}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var vr valueRange
	if err := c.do(req, &vr); err != nil {
		return nil, fmt.Errorf("read range %s: %w", rng, err)
	}
	if vr.Values == nil {
		return [][]string{}, nil
	}
	return vr.Values, nil
}

// WriteRange overwrites rng with rows.
func (c *Client) WriteRange(ctx context.Context, rng string, rows [][]string, token string) error {
	body, err := json.Marshal(valueRange{Range: rng, MajorDimension: "ROWS", Values: rows})
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}

	endpoint := c.rangeURL(rng, "") + "?" + url.Values{"valueInputOption": {"RAW"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("write range %s: %w", rng, err)
	}
	return nil
}

// ClearRange empties every cell in rng.
func (c *Client) ClearRange(ctx context.Context, rng string, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rangeURL(rng, ":clear"), bytes.NewReader([]byte("{}")))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("clear range %s: %w", rng, err)
	}
	return nil
}

func (c *Client) rangeURL(rng, suffix string) string {
	return fmt.Sprintf("%s/spreadsheets/%s/values/%s%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(rng), suffix)
}

func (c *Client) do(req *http.Request, result interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}

	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
