// Package combos finds Commander Spellbook combos that a deck can assemble.
package combos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

// DefaultBaseURL is the Commander Spellbook backend.
const DefaultBaseURL = "https://backend.commanderspellbook.com"

// maxPages bounds pagination for a single card query.
const maxPages = 50

// SpellbookClient queries combo variants from Commander Spellbook.
type SpellbookClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewSpellbookClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewSpellbookClient(baseURL string) *SpellbookClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &SpellbookClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Variant is one combo as returned by the variants endpoint.
type Variant struct {
	ID                   string       `json:"id"`
	Uses                 []CardUse    `json:"uses"`
	Produces             []Production `json:"produces"`
	EasyPrerequisites    string       `json:"easyPrerequisites"`
	NotablePrerequisites string       `json:"notablePrerequisites"`
	Description          string       `json:"description"`
	Popularity           *int         `json:"popularity"`
	Identity             string       `json:"identity"`
}

// CardUse is a card required by a variant.
type CardUse struct {
	Card UsedCard `json:"card"`
}

// UsedCard identifies a required card.
type UsedCard struct {
	Name                string `json:"name"`
	ImageURIFrontNormal string `json:"imageUriFrontNormal"`
}

// Production is an effect the combo produces.
type Production struct {
	Feature struct {
		Name string `json:"name"`
	} `json:"feature"`
}

// CardNames returns the names of the required cards.
func (v *Variant) CardNames() []string {
	names := make([]string, len(v.Uses))
	for i, u := range v.Uses {
		names[i] = u.Card.Name
	}
	return names
}

// Results returns the names of the produced effects.
func (v *Variant) Results() []string {
	out := make([]string, len(v.Produces))
	for i, p := range v.Produces {
		out[i] = p.Feature.Name
	}
	return out
}

// Prerequisites joins the easy and notable prerequisite text.
func (v *Variant) Prerequisites() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{v.EasyPrerequisites, v.NotablePrerequisites} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

// PopularityScore returns the popularity, or 0 when unknown.
func (v *Variant) PopularityScore() int {
	if v.Popularity == nil {
		return 0
	}
	return *v.Popularity
}

type variantPage struct {
	Count   int       `json:"count"`
	Next    *string   `json:"next"`
	Results []Variant `json:"results"`
}

// Query builds the search string for variants using card, optionally limited
// to combos within identity.
func Query(card string, identity collection.ColorSet) string {
	q := fmt.Sprintf(`card:"%s"`, strings.ReplaceAll(card, `"`, ""))
	if !identity.IsColorless() {
		q += " coloridentity<=" + strings.ToLower(identity.String())
	}
	return q
}

// FindByCard returns every variant that uses card, following the next-page
// cursor until it is exhausted.
func (c *SpellbookClient) FindByCard(ctx context.Context, card string, identity collection.ColorSet) ([]Variant, error) {
	params := url.Values{}
	params.Set("q", Query(card, identity))
	next := fmt.Sprintf("%s/variants/?%s", c.baseURL, params.Encode())

	var variants []Variant
	for page := 0; next != "" && page < maxPages; page++ {
		var result variantPage
		if err := c.get(ctx, next, &result); err != nil {
			return nil, fmt.Errorf("failed to search combos for %s: %w", card, err)
		}

		variants = append(variants, result.Results...)

		next = ""
		if result.Next != nil {
			next = *result.Next
		}
	}

	return variants, nil
}

func (c *SpellbookClient) get(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "MTG-Binder/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
