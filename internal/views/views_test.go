package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
)

func cc(id, name, typeLine string, cmc float64, usd string, identity ...string) collection.CollectionCard {
	card := scryfall.Card{ID: id, Name: name, TypeLine: typeLine, CMC: cmc, ColorIdentity: identity}
	if usd != "" {
		card.Prices.USD = &usd
	}
	return collection.CollectionCard{Card: card, Quantity: 1}
}

func names(cards collection.Collection) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Name()
	}
	return out
}

func testCollection() collection.Collection {
	return collection.Collection{
		cc("1", "Llanowar Elves", "Creature — Elf Druid", 1, "0.25", "G"),
		cc("2", "Sol Ring", "Artifact", 1, "1.50"),
		cc("3", "Korvold, Fae-Cursed King", "Legendary Creature — Dragon Noble", 5, "3.00", "B", "R", "G"),
		cc("4", "Forest", "Basic Land — Forest", 0, "", "G"),
		cc("5", "Steel Overseer", "Artifact Creature — Construct", 3, "0.80"),
		cc("6", "Counterspell", "Instant", 2, "1.00", "U"),
	}
}

func TestFilter_Text(t *testing.T) {
	got := Apply(testCollection(), Filter{Text: "dragon"})
	assert.Equal(t, []string{"Korvold, Fae-Cursed King"}, names(got))
}

func TestFilter_Color(t *testing.T) {
	assert.Equal(t, []string{"Llanowar Elves", "Korvold, Fae-Cursed King", "Forest"},
		names(Apply(testCollection(), Filter{Color: "G"})))
	assert.Equal(t, []string{"Sol Ring", "Steel Overseer"},
		names(Apply(testCollection(), Filter{Color: "C"})))
}

func TestFilter_SupertypesAndTypes(t *testing.T) {
	assert.Equal(t, []string{"Korvold, Fae-Cursed King", "Forest"},
		names(Apply(testCollection(), Filter{Supertypes: []string{"Legendary", "Basic"}})))

	assert.Equal(t, []string{"Sol Ring", "Steel Overseer"},
		names(Apply(testCollection(), Filter{Types: []string{"Artifact"}})))

	assert.Equal(t, []string{"Steel Overseer"},
		names(Apply(testCollection(), Filter{Types: []string{"Artifact Creature"}})))
}

func TestFilter_CombinesWithAnd(t *testing.T) {
	mv := 1
	got := Apply(testCollection(), Filter{Types: []string{"Creature"}, ManaValue: &mv})
	assert.Equal(t, []string{"Llanowar Elves"}, names(got))

	got = Apply(testCollection(), Filter{Subtype: "elf", Color: "G"})
	assert.Equal(t, []string{"Llanowar Elves"}, names(got))
}

func TestFilter_InactiveReturnsInput(t *testing.T) {
	coll := testCollection()
	assert.Equal(t, coll, Apply(coll, Filter{}))
}

func TestSort(t *testing.T) {
	coll := testCollection()

	assert.Equal(t, "Counterspell", Sort(coll, SortName)[0].Name())
	assert.Equal(t, []string{"Korvold, Fae-Cursed King", "Sol Ring", "Counterspell", "Steel Overseer", "Llanowar Elves", "Forest"},
		names(Sort(coll, SortPrice)))
	assert.Equal(t, []string{"Korvold, Fae-Cursed King", "Llanowar Elves", "Forest", "Counterspell", "Sol Ring", "Steel Overseer"},
		names(Sort(coll, SortColor)))
	assert.Equal(t, []string{"Forest", "Llanowar Elves", "Sol Ring", "Counterspell", "Steel Overseer", "Korvold, Fae-Cursed King"},
		names(Sort(coll, SortManaValue)))
	assert.Equal(t, names(coll), names(Sort(coll, SortNone)))
	assert.Equal(t, "Llanowar Elves", coll[0].Name(), "input is not reordered")
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPrice, ParseSortKey("Price"))
	assert.Equal(t, SortNone, ParseSortKey("rarity"))
}

func TestUniqueNames(t *testing.T) {
	forestA := cc("f1", "Forest", "Basic Land — Forest", 0, "", "G")
	forestA.Quantity = 3
	forestB := cc("f2", "Forest", "Basic Land — Forest", 0, "", "G")
	forestB.Quantity = 2
	ring := cc("s", "Sol Ring", "Artifact", 1, "1.50")

	rows := UniqueNames(collection.Collection{forestA, ring, forestB})

	require.Len(t, rows, 2)
	assert.Equal(t, "Forest", rows[0].Name)
	assert.Equal(t, 5, rows[0].Quantity)
	assert.Equal(t, 2, rows[0].Editions)
	assert.Equal(t, []string{"f1", "f2"}, rows[0].IDs())

	deck := collection.Deck{Cards: []collection.DeckEntry{{CardID: "f2", Quantity: 1}}}
	assert.True(t, rows[0].InDeck(deck))
	assert.False(t, rows[1].InDeck(deck))
}

func TestGroupByType(t *testing.T) {
	coll := append(testCollection(),
		cc("7", "Urza's Saga", "Enchantment Land — Urza's Saga", 0, ""),
		cc("8", "Jace Beleren", "Legendary Planeswalker — Jace", 3, "", "U"),
	)
	deck := collection.Deck{Cards: []collection.DeckEntry{
		{CardID: "7", Quantity: 1},
		{CardID: "4", Quantity: 10},
		{CardID: "6", Quantity: 2},
		{CardID: "3", Quantity: 1},
		{CardID: "1", Quantity: 4},
		{CardID: "8", Quantity: 1},
		{CardID: "5", Quantity: 1},
		{CardID: "missing", Quantity: 1},
	}}

	groups := GroupByType(deck, coll)

	types := make([]string, len(groups))
	for i, g := range groups {
		types[i] = g.Type
	}
	assert.Equal(t, []string{"Creature", "Artifact Creature", "Planeswalker", "Instant", "Land", "Enchantment Land"}, types)
	assert.Equal(t, 5, groups[0].Count)
	assert.Equal(t, "Korvold, Fae-Cursed King", groups[0].Cards[0].Name())
	assert.Equal(t, 10, groups[4].Count)
}
