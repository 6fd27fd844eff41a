package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// MaxBatchSize is the maximum number of cards per batch request (Scryfall limit is 75).
	MaxBatchSize = 75
)

// CardIdentifier represents a card identifier for the /cards/collection endpoint.
type CardIdentifier struct {
	ID              string `json:"id,omitempty"`               // Scryfall ID
	Name            string `json:"name,omitempty"`             // Card name
	Set             string `json:"set,omitempty"`              // Set code (requires collector_number)
	CollectorNumber string `json:"collector_number,omitempty"` // Collector number (requires set)
}

// CollectionRequest is the request body for /cards/collection.
type CollectionRequest struct {
	Identifiers []CardIdentifier `json:"identifiers"`
}

// CollectionResponse is the response from /cards/collection.
type CollectionResponse struct {
	Object   string           `json:"object"`
	NotFound []CardIdentifier `json:"not_found"`
	Data     []Card           `json:"data"`
}

// GetCardsByNames fetches multiple cards by exact name using the batch
// /cards/collection endpoint, in chunks of MaxBatchSize.
func (c *Client) GetCardsByNames(ctx context.Context, names []string) ([]Card, []string, error) {
	if len(names) == 0 {
		return []Card{}, nil, nil
	}

	var allCards []Card
	var allNotFound []string

	for i := 0; i < len(names); i += MaxBatchSize {
		end := min(i+MaxBatchSize, len(names))

		cards, notFound, err := c.fetchCardsByNamesBatch(ctx, names[i:end])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch batch %d-%d: %w", i, end, err)
		}
		allCards = append(allCards, cards...)
		allNotFound = append(allNotFound, notFound...)
	}

	return allCards, allNotFound, nil
}

// LookupColorIdentities maps lowercased card names to their color identity.
// Multi-faced cards are keyed both by full name and by front-face name.
// Lookups are best-effort: a failing chunk is logged and skipped, so the
// result may be partial but never an error.
func (c *Client) LookupColorIdentities(ctx context.Context, names []string) map[string][]string {
	identities := make(map[string][]string, len(names))

	for i := 0; i < len(names); i += MaxBatchSize {
		end := min(i+MaxBatchSize, len(names))

		cards, _, err := c.fetchCardsByNamesBatch(ctx, names[i:end])
		if err != nil {
			c.logger.Warn("Color identity lookup failed for chunk",
				"start", i, "end", end, "error", err)
			continue
		}

		for _, card := range cards {
			identity := card.ColorIdentity
			if identity == nil {
				identity = []string{}
			}
			identities[strings.ToLower(card.Name)] = identity
			if front, _, ok := strings.Cut(card.Name, " // "); ok {
				identities[strings.ToLower(front)] = identity
			}
		}
	}

	return identities
}

// fetchCardsByNamesBatch fetches a single batch of cards by name from /cards/collection.
func (c *Client) fetchCardsByNamesBatch(ctx context.Context, names []string) ([]Card, []string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, nil, fmt.Errorf("rate limiter error: %w", err)
	}

	identifiers := make([]CardIdentifier, len(names))
	for i, name := range names {
		identifiers[i] = CardIdentifier{Name: name}
	}

	cards, notFoundIDs, err := c.doCollectionRequest(ctx, identifiers)
	if err != nil {
		return nil, nil, err
	}

	notFound := make([]string, 0, len(notFoundIDs))
	for _, id := range notFoundIDs {
		if id.Name != "" {
			notFound = append(notFound, id.Name)
		}
	}

	return cards, notFound, nil
}

// doCollectionRequest performs a batch request and returns full identifier info for not-found cards.
func (c *Client) doCollectionRequest(ctx context.Context, identifiers []CardIdentifier) ([]Card, []CardIdentifier, error) {
	jsonBody, err := json.Marshal(CollectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards/collection", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch cards from Scryfall: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("scryfall API returned status %d: %s", resp.StatusCode, string(body))
	}

	var collectionResp CollectionResponse
	if err := json.Unmarshal(body, &collectionResp); err != nil {
		return nil, nil, fmt.Errorf("failed to parse Scryfall response: %w", err)
	}

	return collectionResp.Data, collectionResp.NotFound, nil
}
