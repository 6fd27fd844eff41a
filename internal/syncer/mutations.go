package syncer

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
)

// DefaultDeckName is used when a deck is created without a name.
const DefaultDeckName = "Untitled Deck"

// AddCard adds one copy of card. An existing printing has its quantity
// incremented; a new printing is inserted with quantity 1.
func (c *Controller) AddCard(card scryfall.Card) collection.CollectionCard {
	c.mu.Lock()
	entry, ok := c.coll.Get(card.ID)
	if ok {
		entry.Quantity++
	} else {
		entry = collection.CollectionCard{Card: card, Quantity: 1, AddedAt: c.now()}
	}
	c.coll = c.coll.With(entry)
	c.mu.Unlock()

	c.changed(true, false)
	return entry
}

// RemoveCard deletes a printing from the collection and from every deck.
func (c *Controller) RemoveCard(cardID string) error {
	c.mu.Lock()
	if c.coll.Index(cardID) < 0 {
		c.mu.Unlock()
		return ErrCardNotFound
	}

	c.coll = c.coll.Without(cardID)

	decks := make([]collection.Deck, len(c.decks))
	for i, d := range c.decks {
		if !d.Contains(cardID) && d.CommanderID != cardID {
			decks[i] = d
			continue
		}
		d = d.Clone()
		d.Cards = removeEntries(d.Cards, cardID)
		if d.CommanderID == cardID {
			d.CommanderID = ""
		}
		decks[i] = d
	}
	c.decks = decks
	c.mu.Unlock()

	c.changed(true, true)
	return nil
}

// SetQuantity adjusts a printing's quantity by delta, never below 1.
func (c *Controller) SetQuantity(cardID string, delta int) (int, error) {
	c.mu.Lock()
	entry, ok := c.coll.Get(cardID)
	if !ok {
		c.mu.Unlock()
		return 0, ErrCardNotFound
	}
	entry.Quantity = max(1, entry.Quantity+delta)
	c.coll = c.coll.With(entry)
	c.mu.Unlock()

	c.changed(true, false)
	return entry.Quantity, nil
}

// SetDeckQuantity adjusts a deck entry by delta. Reaching 0 removes the
// entry; a positive delta on an absent card inserts it.
func (c *Controller) SetDeckQuantity(deckID, cardID string, delta int) (int, error) {
	var qty int
	err := c.updateDeck(deckID, func(d *collection.Deck, coll collection.Collection) error {
		entry, ok := d.Entry(cardID)
		if !ok && coll.Index(cardID) < 0 {
			return ErrCardNotFound
		}

		qty = max(0, entry.Quantity+delta)
		switch {
		case qty == 0:
			d.Cards = removeEntries(d.Cards, cardID)
		case ok:
			for i := range d.Cards {
				if d.Cards[i].CardID == cardID {
					d.Cards[i].Quantity = qty
				}
			}
		default:
			d.Cards = append(d.Cards, collection.DeckEntry{CardID: cardID, Quantity: qty})
		}
		return nil
	})
	return qty, err
}

// ToggleDeckMembership removes every entry matching any of cardIDs, or when
// none is present, adds the first with quantity 1. It reports whether the
// card is in the deck afterwards.
func (c *Controller) ToggleDeckMembership(deckID string, cardIDs ...string) (bool, error) {
	if len(cardIDs) == 0 {
		return false, ErrCardNotFound
	}

	var added bool
	err := c.updateDeck(deckID, func(d *collection.Deck, coll collection.Collection) error {
		if d.Contains(cardIDs...) {
			d.Cards = removeEntries(d.Cards, cardIDs...)
			return nil
		}

		if coll.Index(cardIDs[0]) < 0 {
			return ErrCardNotFound
		}
		d.Cards = append(d.Cards, collection.DeckEntry{CardID: cardIDs[0], Quantity: 1})
		added = true
		return nil
	})
	return added, err
}

// CreateDeck adds an empty deck.
func (c *Controller) CreateDeck(name string, format collection.Format) (collection.Deck, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return collection.Deck{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultDeckName
	}
	if format != collection.FormatCommander {
		format = collection.FormatStandard
	}

	deck := collection.Deck{
		ID:     id.String(),
		Name:   name,
		Format: format,
		Cards:  []collection.DeckEntry{},
	}

	c.mu.Lock()
	decks := make([]collection.Deck, 0, len(c.decks)+1)
	decks = append(decks, c.decks...)
	c.decks = append(decks, deck)
	c.mu.Unlock()

	c.changed(false, true)
	return deck, nil
}

// DeleteDeck removes a deck. The collection is not touched.
func (c *Controller) DeleteDeck(deckID string) error {
	c.mu.Lock()
	idx := c.deckIndex(deckID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrDeckNotFound
	}

	decks := make([]collection.Deck, 0, len(c.decks)-1)
	decks = append(decks, c.decks[:idx]...)
	c.decks = append(decks, c.decks[idx+1:]...)
	c.mu.Unlock()

	c.changed(false, true)
	return nil
}

// RenameDeck sets a deck's name.
func (c *Controller) RenameDeck(deckID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyDeckName
	}
	return c.updateDeck(deckID, func(d *collection.Deck, _ collection.Collection) error {
		d.Name = name
		return nil
	})
}

// SetDeckFormat changes a deck's format. Leaving Commander clears the
// commander.
func (c *Controller) SetDeckFormat(deckID string, format collection.Format) error {
	return c.updateDeck(deckID, func(d *collection.Deck, _ collection.Collection) error {
		d.Format = collection.ParseFormat(string(format))
		if d.Format != collection.FormatCommander {
			d.CommanderID = ""
		}
		return nil
	})
}

// SetCommander sets a Commander deck's commander. An empty cardID clears it.
func (c *Controller) SetCommander(deckID, cardID string) error {
	return c.updateDeck(deckID, func(d *collection.Deck, coll collection.Collection) error {
		if cardID == "" {
			d.CommanderID = ""
			return nil
		}
		if d.Format != collection.FormatCommander {
			return ErrInvalidCommander
		}

		entry, ok := coll.Get(cardID)
		if !ok {
			return ErrCardNotFound
		}
		if !collection.IsLegendaryCreature(&entry.Card) {
			return ErrInvalidCommander
		}
		d.CommanderID = cardID
		return nil
	})
}

// Deck returns a deck by ID.
func (c *Controller) Deck(deckID string) (collection.Deck, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.deckIndex(deckID)
	if idx < 0 {
		return collection.Deck{}, false
	}
	return c.decks[idx], true
}

// updateDeck applies fn to a copy of the deck and swaps it in on success.
func (c *Controller) updateDeck(deckID string, fn func(*collection.Deck, collection.Collection) error) error {
	c.mu.Lock()
	idx := c.deckIndex(deckID)
	if idx < 0 {
		c.mu.Unlock()
		return ErrDeckNotFound
	}

	d := c.decks[idx].Clone()
	if err := fn(&d, c.coll); err != nil {
		c.mu.Unlock()
		return err
	}

	decks := make([]collection.Deck, len(c.decks))
	copy(decks, c.decks)
	decks[idx] = d
	c.decks = decks
	c.mu.Unlock()

	c.changed(false, true)
	return nil
}

// deckIndex must be called with mu held.
func (c *Controller) deckIndex(deckID string) int {
	for i, d := range c.decks {
		if d.ID == deckID {
			return i
		}
	}
	return -1
}

func (c *Controller) changed(collChanged, decksChanged bool) {
	c.notify(collChanged, decksChanged)
	c.scheduleSave()
}

func removeEntries(entries []collection.DeckEntry, cardIDs ...string) []collection.DeckEntry {
	out := make([]collection.DeckEntry, 0, len(entries))
	for _, e := range entries {
		drop := false
		for _, id := range cardIDs {
			if e.CardID == id {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, e)
		}
	}
	return out
}
