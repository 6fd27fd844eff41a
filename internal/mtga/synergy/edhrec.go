// Package synergy fetches commander recommendations from EDHREC and filters
// them against a deck's color identity.
package synergy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// DefaultBaseURL is EDHREC's JSON page root.
const DefaultBaseURL = "https://json.edhrec.com/pages"

// ErrCommanderNotFound is returned when EDHREC has no page for a commander.
var ErrCommanderNotFound = errors.New("commander not found on EDHREC")

// Category tags requested from a commander page, in display order.
var Categories = []struct {
	Tag    string
	Header string
}{
	{"highsynergycards", "High Synergy Cards"},
	{"topcards", "Top Cards"},
	{"newcards", "New Cards"},
	{"gamechangers", "Game Changers"},
	{"creatures", "Creatures"},
	{"instants", "Instants"},
	{"sorceries", "Sorceries"},
	{"utilityartifacts", "Utility Artifacts"},
	{"enchantments", "Enchantments"},
	{"planeswalkers", "Planeswalkers"},
	{"utilitylands", "Utility Lands"},
	{"manaartifacts", "Mana Artifacts"},
	{"lands", "Lands"},
}

// EDHRECClient fetches commander pages from EDHREC's JSON API.
type EDHRECClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewEDHRECClient creates a new EDHREC API client. An empty baseURL uses
// DefaultBaseURL.
func NewEDHRECClient(baseURL string) *EDHRECClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &EDHRECClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// EDHRECCommanderPage represents the response from the commander endpoint.
type EDHRECCommanderPage struct {
	Container *EDHRECContainer `json:"container"`
	NumDecks  int              `json:"num_decks_avg"`
}

// EDHRECContainer holds the main data structure.
type EDHRECContainer struct {
	JSONDict *EDHRECJSONDict `json:"json_dict"`
	Title    string          `json:"title"`
}

// EDHRECJSONDict contains card lists and main card info.
type EDHRECJSONDict struct {
	CardLists []*EDHRECCardList `json:"cardlists"`
	Card      *EDHRECCardInfo   `json:"card"`
}

// EDHRECCardList represents a categorized list of cards.
type EDHRECCardList struct {
	Tag       string            `json:"tag"`
	Header    string            `json:"header"`
	CardViews []*EDHRECCardView `json:"cardviews"`
}

// EDHRECCardView represents a card with synergy information.
type EDHRECCardView struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Sanitized      string  `json:"sanitized"`
	Synergy        float64 `json:"synergy"`
	Inclusion      int     `json:"inclusion"`
	NumDecks       int     `json:"num_decks"`
	PotentialDecks int     `json:"potential_decks"`
}

// EDHRECCardInfo represents the commander being queried.
type EDHRECCardInfo struct {
	Name          string   `json:"name"`
	ColorIdentity []string `json:"color_identity"`
	NumDecks      int      `json:"num_decks"`
}

// CommanderData is the categorized card lists for one commander.
type CommanderData struct {
	Commander     string
	Slug          string
	DecksAnalyzed int
	Lists         map[string][]*EDHRECCardView
}

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// SanitizeCardName converts a card name to EDHREC's URL slug: lowercase,
// punctuation other than hyphens removed, whitespace runs turned into hyphens.
func SanitizeCardName(name string) string {
	sanitized := strings.ToLower(name)
	sanitized = slugStrip.ReplaceAllString(sanitized, "")
	sanitized = strings.TrimSpace(sanitized)
	return slugSpace.ReplaceAllString(sanitized, "-")
}

// GetCommander fetches the commander page for name.
func (c *EDHRECClient) GetCommander(ctx context.Context, name string) (*CommanderData, error) {
	slug := SanitizeCardName(name)
	url := fmt.Sprintf("%s/commanders/%s.json", c.baseURL, slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "MTG-Binder/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch commander data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: %s", ErrCommanderNotFound, name)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var page EDHRECCommanderPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return extractCommanderData(name, slug, &page), nil
}

// extractCommanderData keeps the known category lists of a page.
func extractCommanderData(name, slug string, page *EDHRECCommanderPage) *CommanderData {
	data := &CommanderData{
		Commander:     name,
		Slug:          slug,
		DecksAnalyzed: page.NumDecks,
		Lists:         make(map[string][]*EDHRECCardView),
	}

	if page.Container == nil || page.Container.JSONDict == nil {
		return data
	}

	if card := page.Container.JSONDict.Card; card != nil && card.NumDecks > 0 {
		data.DecksAnalyzed = card.NumDecks
	}

	known := make(map[string]bool, len(Categories))
	for _, cat := range Categories {
		known[cat.Tag] = true
	}
	for _, list := range page.Container.JSONDict.CardLists {
		if known[list.Tag] {
			data.Lists[list.Tag] = list.CardViews
		}
	}

	return data
}
