package synergy

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

// CommanderSource returns categorized lists for a commander.
type CommanderSource interface {
	GetCommander(ctx context.Context, name string) (*CommanderData, error)
}

// IdentityLookup resolves lowercased card names to color identities.
type IdentityLookup interface {
	LookupColorIdentities(ctx context.Context, names []string) map[string][]string
}

// SynergyCard is one recommendation row.
type SynergyCard struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Synergy   float64 `json:"synergy"`   // Percent, -100 to 100
	Inclusion float64 `json:"inclusion"` // Percent of eligible decks
	NumDecks  int     `json:"numDecks"`
}

// Category is one list of recommendations.
type Category struct {
	Tag    string        `json:"tag"`
	Header string        `json:"header"`
	Cards  []SynergyCard `json:"cards"`
}

// Result is the synergy report for a commander.
type Result struct {
	Commander     string     `json:"commander"`
	Slug          string     `json:"slug"`
	DecksAnalyzed int        `json:"decksAnalyzed"`
	Categories    []Category `json:"categories"`
}

// Matcher combines commander pages with color identity filtering.
type Matcher struct {
	source     CommanderSource
	identities IdentityLookup
	logger     *slog.Logger
}

// NewMatcher creates a matcher. identities may be nil when color filtering is
// never requested.
func NewMatcher(source CommanderSource, identities IdentityLookup, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{source: source, identities: identities, logger: logger}
}

// Match fetches recommendations for commander. With colorFilter set, cards
// whose identity is not within identity are dropped; a card the lookup
// cannot resolve counts as colorless.
func (m *Matcher) Match(ctx context.Context, commander string, identity collection.ColorSet, colorFilter bool) (*Result, error) {
	data, err := m.source.GetCommander(ctx, commander)
	if err != nil {
		return nil, err
	}

	var lookup map[string][]string
	if colorFilter && m.identities != nil {
		names := lo.Uniq(lo.FlatMap(lo.Values(data.Lists), func(views []*EDHRECCardView, _ int) []string {
			return lo.Map(views, func(v *EDHRECCardView, _ int) string { return v.Name })
		}))
		lookup = m.identities.LookupColorIdentities(ctx, names)
		m.logger.Debug("Resolved synergy identities", "commander", commander, "requested", len(names), "resolved", len(lookup))
	}

	result := &Result{
		Commander:     commander,
		Slug:          data.Slug,
		DecksAnalyzed: data.DecksAnalyzed,
		Categories:    make([]Category, 0, len(Categories)),
	}

	for _, cat := range Categories {
		views, ok := data.Lists[cat.Tag]
		if !ok {
			continue
		}

		cards := lo.FilterMap(views, func(v *EDHRECCardView, _ int) (SynergyCard, bool) {
			if colorFilter {
				cardIdentity := collection.NewColorSet(lookup[strings.ToLower(v.Name)]...)
				if !cardIdentity.SubsetOf(identity) {
					return SynergyCard{}, false
				}
			}
			return toSynergyCard(v), true
		})

		result.Categories = append(result.Categories, Category{Tag: cat.Tag, Header: cat.Header, Cards: cards})
	}

	return result, nil
}

func toSynergyCard(v *EDHRECCardView) SynergyCard {
	card := SynergyCard{
		ID:       v.ID,
		Name:     v.Name,
		Synergy:  v.Synergy * 100,
		NumDecks: v.NumDecks,
	}
	if v.PotentialDecks > 0 {
		card.Inclusion = float64(v.Inclusion) / float64(v.PotentialDecks) * 100
	}
	return card
}
