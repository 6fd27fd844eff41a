package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Scryfall API.
	DefaultBaseURL = "https://api.scryfall.com"

	rateLimitDelay = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	baseURL     string
	logger      *slog.Logger
}

// NewClient creates a new Scryfall API client against the public API.
func NewClient() *Client {
	return NewClientWithURL(DefaultBaseURL)
}

// NewClientWithURL creates a client against a custom base URL, such as a
// pass-through proxy or a test server.
func NewClientWithURL(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// Rate limiter: 1 request per 100ms = 10 req/sec
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "MTG-Binder/1.0",
		baseURL:     baseURL,
		logger:      slog.Default(),
	}
}

// SetLogger replaces the logger used for best-effort failures.
func (c *Client) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// GetCard retrieves a printing by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*Card, error) {
	endpoint := fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(id))

	var card Card
	if err := c.doRequest(ctx, endpoint, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}

	return &card, nil
}

// SearchPrintings returns every printing matching query, oldest release first.
// A query with no matches yields an empty slice rather than an error.
func (c *Client) SearchPrintings(ctx context.Context, query string) ([]Card, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("unique", "prints")
	params.Set("order", "released")
	params.Set("dir", "asc")
	next := fmt.Sprintf("%s/cards/search?%s", c.baseURL, params.Encode())

	var cards []Card
	for next != "" {
		var page SearchResult
		if err := c.doRequest(ctx, next, &page); err != nil {
			if IsNotFound(err) {
				return cards, nil
			}
			return nil, fmt.Errorf("failed to search cards with query '%s': %w", query, err)
		}
		cards = append(cards, page.Data...)

		next = ""
		if page.HasMore {
			next = page.NextPage
		}
	}

	return cards, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)

			// Retry on network errors
			if attempt < maxRetries {
				if err := sleep(ctx, backoff); err != nil {
					return err
				}
				backoff = min(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		retry, err := c.handleResponse(resp, endpoint, result)
		if !retry {
			return err
		}
		lastErr = err

		if attempt < maxRetries {
			wait := backoff
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if d, perr := time.ParseDuration(retryAfter + "s"); perr == nil {
					wait = d
				}
			}
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			backoff = min(backoff*2, maxBackoff)
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// handleResponse decodes resp into result. It reports whether the request
// should be retried.
func (c *Client) handleResponse(resp *http.Response, endpoint string, result interface{}) (bool, error) {
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, fmt.Errorf("failed to read response body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return false, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return false, nil

	case http.StatusTooManyRequests:
		return true, fmt.Errorf("rate limited (HTTP 429)")

	case http.StatusNotFound:
		return false, &NotFoundError{URL: endpoint}

	default:
		body, _ := io.ReadAll(resp.Body)

		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			return false, &apiErr
		}

		return false, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
