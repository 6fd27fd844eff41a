// Package collection holds the owned-card and deck model shared by the sync
// controller, the tabular codec and the derived views.
package collection

import (
	"time"

	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
)

// CollectionCard is one owned printing.
type CollectionCard struct {
	Card     scryfall.Card `json:"card"`
	Quantity int           `json:"quantity"`
	AddedAt  time.Time     `json:"added_at"`
}

// ID returns the printing identifier.
func (c CollectionCard) ID() string { return c.Card.ID }

// Name returns the card name.
func (c CollectionCard) Name() string { return c.Card.Name }

// Collection is the ordered set of owned printings, at most one per ID.
// Methods never modify the receiver; mutations return a new Collection.
type Collection []CollectionCard

// Index returns the position of id, or -1.
func (c Collection) Index(id string) int {
	for i := range c {
		if c[i].Card.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the entry for id.
func (c Collection) Get(id string) (CollectionCard, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return CollectionCard{}, false
}

// FindByName returns every entry with the given name, in collection order.
func (c Collection) FindByName(name string) []CollectionCard {
	var found []CollectionCard
	for _, cc := range c {
		if cc.Card.Name == name {
			found = append(found, cc)
		}
	}
	return found
}

// With returns a copy with entry inserted, or replacing the entry of the same ID.
func (c Collection) With(entry CollectionCard) Collection {
	out := make(Collection, len(c), len(c)+1)
	copy(out, c)
	if i := out.Index(entry.ID()); i >= 0 {
		out[i] = entry
		return out
	}
	return append(out, entry)
}

// Without returns a copy with id removed.
func (c Collection) Without(id string) Collection {
	out := make(Collection, 0, len(c))
	for _, cc := range c {
		if cc.Card.ID != id {
			out = append(out, cc)
		}
	}
	return out
}

// Format is a deck's play format.
type Format string

const (
	FormatStandard  Format = "Standard"
	FormatCommander Format = "Commander"
)

// ParseFormat maps stored or user input to a Format, defaulting to Standard.
func ParseFormat(s string) Format {
	if Format(s) == FormatCommander {
		return FormatCommander
	}
	return FormatStandard
}

// DeckEntry references a collection printing with a quantity of at least 1.
type DeckEntry struct {
	CardID   string `json:"cardId"`
	Quantity int    `json:"quantity"`
}

// Deck is a named list of collection printings.
type Deck struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Format      Format      `json:"format"`
	CommanderID string      `json:"commander_id,omitempty"`
	Cards       []DeckEntry `json:"cards"`
}

// Entry returns the entry for cardID.
func (d Deck) Entry(cardID string) (DeckEntry, bool) {
	for _, e := range d.Cards {
		if e.CardID == cardID {
			return e, true
		}
	}
	return DeckEntry{}, false
}

// Contains reports whether any of ids has an entry in the deck.
func (d Deck) Contains(ids ...string) bool {
	for _, id := range ids {
		if _, ok := d.Entry(id); ok {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (d Deck) Clone() Deck {
	out := d
	out.Cards = make([]DeckEntry, len(d.Cards))
	copy(out.Cards, d.Cards)
	return out
}

// CardNames returns the distinct names of the deck's cards that resolve in coll.
func (d Deck) CardNames(coll Collection) []string {
	seen := make(map[string]bool, len(d.Cards))
	names := make([]string, 0, len(d.Cards))
	for _, e := range d.Cards {
		cc, ok := coll.Get(e.CardID)
		if !ok || seen[cc.Name()] {
			continue
		}
		seen[cc.Name()] = true
		names = append(names, cc.Name())
	}
	return names
}

// DeckIdentity resolves a deck's color identity: the commander's for a
// Commander deck with a resolvable commander, otherwise the union of every
// member card's identity.
func DeckIdentity(d Deck, coll Collection) ColorSet {
	if d.Format == FormatCommander && d.CommanderID != "" {
		if cmd, ok := coll.Get(d.CommanderID); ok {
			return IdentityOf(&cmd.Card)
		}
	}

	var identity ColorSet
	for _, e := range d.Cards {
		if cc, ok := coll.Get(e.CardID); ok {
			identity = identity.Union(IdentityOf(&cc.Card))
		}
	}
	return identity
}
