package combos

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

// DefaultConcurrency caps simultaneous upstream queries.
const DefaultConcurrency = 3

// Finder returns the combo variants that use a card.
type Finder interface {
	FindByCard(ctx context.Context, card string, identity collection.ColorSet) ([]Variant, error)
}

// Match is a scored combo variant.
type Match struct {
	Variant    Variant  `json:"variant"`
	Owned      int      `json:"owned"`
	Required   int      `json:"required"`
	Ratio      float64  `json:"ratio"`
	Missing    []string `json:"missing"`
	ColorLegal bool     `json:"colorLegal"`
}

// Complete reports whether the deck holds every required card.
func (m Match) Complete() bool { return m.Owned == m.Required }

// Matcher finds and ranks combos for a deck.
type Matcher struct {
	finder      Finder
	concurrency int
	logger      *slog.Logger
}

// NewMatcher creates a matcher with DefaultConcurrency.
func NewMatcher(finder Finder, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{finder: finder, concurrency: DefaultConcurrency, logger: logger}
}

// Match queries combos for each distinct name, dedupes them by variant ID,
// and ranks them by owned count, then coverage ratio, then popularity. With
// colorFilter set, queries are limited to identity and combos outside it are
// dropped. A failed query is logged and skipped; Match fails only when every
// query fails.
func (m *Matcher) Match(ctx context.Context, names []string, identity collection.ColorSet, colorFilter bool) ([]Match, error) {
	names = lo.Uniq(names)
	if len(names) == 0 {
		return []Match{}, nil
	}

	queryIdentity := collection.ColorSet(0)
	if colorFilter {
		queryIdentity = identity
	}

	slots := make([][]Variant, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, name := range names {
		g.Go(func() error {
			variants, err := m.finder.FindByCard(gctx, name, queryIdentity)
			if err != nil {
				m.logger.Warn("Combo lookup failed", "card", name, "error", err)
				errs[i] = err
				return nil
			}
			slots[i] = variants
			return nil
		})
	}
	_ = g.Wait()

	if failed := lo.CountBy(errs, func(err error) bool { return err != nil }); failed == len(names) {
		return nil, errs[0]
	}

	owned := make(map[string]bool, len(names))
	for _, n := range names {
		owned[strings.ToLower(n)] = true
	}

	variants := lo.UniqBy(lo.Flatten(slots), func(v Variant) string { return v.ID })

	matches := make([]Match, 0, len(variants))
	for _, v := range variants {
		match := score(v, owned, identity)
		if colorFilter && !match.ColorLegal {
			continue
		}
		matches = append(matches, match)
	}

	slices.SortStableFunc(matches, compareMatches)
	return matches, nil
}

func score(v Variant, owned map[string]bool, identity collection.ColorSet) Match {
	required := v.CardNames()
	missing := lo.Filter(required, func(name string, _ int) bool {
		return !owned[strings.ToLower(name)]
	})

	m := Match{
		Variant:    v,
		Required:   len(required),
		Owned:      len(required) - len(missing),
		Missing:    missing,
		ColorLegal: collection.ParseColorSet(v.Identity).SubsetOf(identity),
	}
	if m.Required > 0 {
		m.Ratio = float64(m.Owned) / float64(m.Required)
	}
	return m
}

// compareMatches orders by owned desc, ratio desc, popularity desc.
func compareMatches(a, b Match) int {
	if a.Owned != b.Owned {
		return b.Owned - a.Owned
	}
	if a.Ratio != b.Ratio {
		if a.Ratio > b.Ratio {
			return -1
		}
		return 1
	}
	return b.Variant.PopularityScore() - a.Variant.PopularityScore()
}
