package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
)

func entry(id, name, typeLine string, identity ...string) CollectionCard {
	return CollectionCard{
		Card:     scryfall.Card{ID: id, Name: name, TypeLine: typeLine, ColorIdentity: identity},
		Quantity: 1,
	}
}

func TestCollection_WithReplacesByID(t *testing.T) {
	coll := Collection{entry("a", "Forest", "Basic Land — Forest")}

	updated := coll.With(CollectionCard{Card: scryfall.Card{ID: "a", Name: "Forest"}, Quantity: 4})

	require.Len(t, updated, 1)
	assert.Equal(t, 4, updated[0].Quantity)
	assert.Equal(t, 1, coll[0].Quantity, "receiver must not change")
}

func TestCollection_WithoutAndFindByName(t *testing.T) {
	coll := Collection{
		entry("a", "Forest", "Basic Land — Forest"),
		entry("b", "Forest", "Basic Land — Forest"),
		entry("c", "Island", "Basic Land — Island"),
	}

	assert.Len(t, coll.FindByName("Forest"), 2)
	assert.Equal(t, -1, coll.Without("a").Index("a"))
	assert.Len(t, coll, 3)
}

func TestDeckIdentity_CommanderOnly(t *testing.T) {
	coll := Collection{
		entry("cmd", "Meren of Clan Nel Toth", "Legendary Creature — Human Shaman", "B", "G"),
		entry("bolt", "Lightning Bolt", "Instant", "R"),
	}
	deck := Deck{
		Format:      FormatCommander,
		CommanderID: "cmd",
		Cards:       []DeckEntry{{CardID: "cmd", Quantity: 1}, {CardID: "bolt", Quantity: 1}},
	}

	assert.Equal(t, "BG", DeckIdentity(deck, coll).String())

	deck.Format = FormatStandard
	assert.Equal(t, "BRG", DeckIdentity(deck, coll).String())
}

func TestDeckIdentity_CommanderMissingFallsBackToUnion(t *testing.T) {
	coll := Collection{entry("bolt", "Lightning Bolt", "Instant", "R")}
	deck := Deck{
		Format:      FormatCommander,
		CommanderID: "gone",
		Cards:       []DeckEntry{{CardID: "bolt", Quantity: 1}},
	}

	assert.Equal(t, "R", DeckIdentity(deck, coll).String())
}

func TestDeck_CloneIsIndependent(t *testing.T) {
	d := Deck{ID: "d", Cards: []DeckEntry{{CardID: "a", Quantity: 1}}}
	c := d.Clone()
	c.Cards[0].Quantity = 3

	assert.Equal(t, 1, d.Cards[0].Quantity)
}

func TestDeck_CardNamesDistinct(t *testing.T) {
	coll := Collection{
		entry("a", "Forest", "Basic Land — Forest"),
		entry("b", "Forest", "Basic Land — Forest"),
		entry("c", "Island", "Basic Land — Island"),
	}
	d := Deck{Cards: []DeckEntry{{CardID: "a", Quantity: 1}, {CardID: "b", Quantity: 1}, {CardID: "c", Quantity: 1}, {CardID: "zz", Quantity: 1}}}

	assert.Equal(t, []string{"Forest", "Island"}, d.CardNames(coll))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatCommander, ParseFormat("Commander"))
	assert.Equal(t, FormatStandard, ParseFormat(""))
	assert.Equal(t, FormatStandard, ParseFormat("Modern"))
}
