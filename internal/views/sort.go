package views

import (
	"slices"
	"strings"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	SortNone      SortKey = ""
	SortName      SortKey = "name"
	SortPrice     SortKey = "price"
	SortColor     SortKey = "color"
	SortManaValue SortKey = "cmc"
)

// ParseSortKey maps a query value to a SortKey; unknown values sort nothing.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(s)); k {
	case SortName, SortPrice, SortColor, SortManaValue:
		return k
	default:
		return SortNone
	}
}

// Sort returns a sorted copy of cards. Ties keep their input order.
func Sort(cards collection.Collection, key SortKey) collection.Collection {
	out := slices.Clone(cards)

	switch key {
	case SortName:
		slices.SortStableFunc(out, func(a, b collection.CollectionCard) int {
			return strings.Compare(a.Name(), b.Name())
		})
	case SortPrice:
		slices.SortStableFunc(out, func(a, b collection.CollectionCard) int {
			pa, pb := a.Card.Price(), b.Card.Price()
			switch {
			case pa > pb:
				return -1
			case pa < pb:
				return 1
			}
			return 0
		})
	case SortColor:
		slices.SortStableFunc(out, func(a, b collection.CollectionCard) int {
			ca, cb := firstColor(a), firstColor(b)
			switch {
			case ca == cb:
				return 0
			case ca == "":
				return 1
			case cb == "":
				return -1
			}
			return strings.Compare(ca, cb)
		})
	case SortManaValue:
		slices.SortStableFunc(out, func(a, b collection.CollectionCard) int {
			switch {
			case a.Card.CMC < b.Card.CMC:
				return -1
			case a.Card.CMC > b.Card.CMC:
				return 1
			}
			return 0
		})
	}

	return out
}

func firstColor(cc collection.CollectionCard) string {
	if len(cc.Card.ColorIdentity) == 0 {
		return ""
	}
	return cc.Card.ColorIdentity[0]
}
