package views

import (
	"github.com/samber/lo"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

// NameRow aggregates every printing that shares a card name.
type NameRow struct {
	Name     string                      `json:"name"`
	Quantity int                         `json:"quantity"`
	Editions int                         `json:"editions"`
	Entries  []collection.CollectionCard `json:"entries"`
}

// IDs returns the printing identifiers of the row.
func (r NameRow) IDs() []string {
	return lo.Map(r.Entries, func(cc collection.CollectionCard, _ int) string {
		return cc.ID()
	})
}

// InDeck reports whether any printing of the row is in d.
func (r NameRow) InDeck(d collection.Deck) bool {
	return d.Contains(r.IDs()...)
}

// UniqueNames collapses cards by name, ordered by each name's first
// appearance.
func UniqueNames(cards collection.Collection) []NameRow {
	groups := lo.GroupBy(cards, func(cc collection.CollectionCard) string {
		return cc.Name()
	})
	names := lo.Uniq(lo.Map(cards, func(cc collection.CollectionCard, _ int) string {
		return cc.Name()
	}))

	return lo.Map(names, func(name string, _ int) NameRow {
		entries := groups[name]
		qty := lo.SumBy(entries, func(cc collection.CollectionCard) int {
			return cc.Quantity
		})
		return NameRow{
			Name:     name,
			Quantity: qty,
			Editions: len(entries),
			Entries:  entries,
		}
	})
}
