package views

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

// TypeOrder is the display order of known type permutations.
var TypeOrder = []string{
	"Creature",
	"Artifact Creature",
	"Enchantment Creature",
	"Artifact Enchantment Creature",
	"Planeswalker",
	"Battle",
	"Instant",
	"Sorcery",
	"Artifact",
	"Enchantment",
	"Artifact Enchantment",
	"Land",
	collection.OtherTypes,
}

// DeckCard is a deck entry resolved against the collection.
type DeckCard struct {
	collection.CollectionCard
	DeckQuantity int `json:"deckQuantity"`
}

// TypeGroup is one section of a deck list.
type TypeGroup struct {
	Type  string     `json:"type"`
	Count int        `json:"count"`
	Cards []DeckCard `json:"cards"`
}

// GroupByType partitions a deck's resolvable entries by type permutation.
// Groups follow TypeOrder; unknown permutations come after, alphabetically.
// Cards within a group are sorted by name.
func GroupByType(d collection.Deck, coll collection.Collection) []TypeGroup {
	cards := lo.FilterMap(d.Cards, func(e collection.DeckEntry, _ int) (DeckCard, bool) {
		cc, ok := coll.Get(e.CardID)
		return DeckCard{CollectionCard: cc, DeckQuantity: e.Quantity}, ok
	})

	byType := lo.GroupBy(cards, func(dc DeckCard) string {
		return collection.TypePermutation(dc.Card.TypeLine)
	})

	keys := lo.Keys(byType)
	slices.SortFunc(keys, func(a, b string) int {
		ra, rb := typeRank(a), typeRank(b)
		if ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})

	return lo.Map(keys, func(key string, _ int) TypeGroup {
		group := byType[key]
		slices.SortStableFunc(group, func(a, b DeckCard) int {
			return strings.Compare(a.Name(), b.Name())
		})
		count := lo.SumBy(group, func(dc DeckCard) int {
			return dc.DeckQuantity
		})
		return TypeGroup{Type: key, Count: count, Cards: group}
	})
}

func typeRank(key string) int {
	if i := slices.Index(TypeOrder, key); i >= 0 {
		return i
	}
	return len(TypeOrder)
}
