// Package views computes read-only projections of the collection: filtering,
// sorting, name aggregation, and type grouping.
package views

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

// Colorless selects cards with an empty color identity in Filter.Color.
const Colorless = "C"

// Filter holds the active predicates. Zero-valued fields are inactive.
// Categories combine with AND; selections within a category combine with OR.
type Filter struct {
	Text       string   `json:"text,omitempty"`
	Color      string   `json:"color,omitempty"`
	Supertypes []string `json:"supertypes,omitempty"`
	Types      []string `json:"types,omitempty"`
	Subtype    string   `json:"subtype,omitempty"`
	ManaValue  *int     `json:"manaValue,omitempty"`
}

// Active reports whether any predicate is set.
func (f Filter) Active() bool {
	return f.Text != "" || f.Color != "" || len(f.Supertypes) > 0 ||
		len(f.Types) > 0 || f.Subtype != "" || f.ManaValue != nil
}

// Match reports whether cc passes every active predicate.
func (f Filter) Match(cc collection.CollectionCard) bool {
	card := &cc.Card
	typeLine := card.TypeLine
	words, subtypes := collection.SplitTypeLine(typeLine)

	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		haystacks := []string{card.Name, card.Oracle(), typeLine}
		if !lo.SomeBy(haystacks, func(s string) bool {
			return strings.Contains(strings.ToLower(s), needle)
		}) {
			return false
		}
	}

	if f.Color != "" {
		identity := collection.IdentityOf(card)
		if strings.EqualFold(f.Color, Colorless) {
			if !identity.IsColorless() {
				return false
			}
		} else if !identity.Contains(strings.ToUpper(f.Color)) {
			return false
		}
	}

	if len(f.Supertypes) > 0 && !lo.Some(words, f.Supertypes) {
		return false
	}

	if len(f.Types) > 0 {
		perm := collection.TypePermutation(typeLine)
		components := strings.Fields(perm)
		if !lo.SomeBy(f.Types, func(t string) bool {
			return t == perm || lo.Contains(components, t)
		}) {
			return false
		}
	}

	if f.Subtype != "" && !strings.Contains(strings.ToLower(subtypes), strings.ToLower(f.Subtype)) {
		return false
	}

	if f.ManaValue != nil && int(math.Round(card.CMC)) != *f.ManaValue {
		return false
	}

	return true
}

// Apply returns the entries of cards that pass f, preserving order.
func Apply(cards collection.Collection, f Filter) collection.Collection {
	if !f.Active() {
		return cards
	}
	return lo.Filter(cards, func(cc collection.CollectionCard, _ int) bool {
		return f.Match(cc)
	})
}
