// Package tabular maps collection entries and decks to and from the flat
// string rows stored in the spreadsheet.
//
// Collection rows have 8 columns:
//
//	id, name, set name, set code, collector number, quantity, prices JSON, card JSON
//
// Deck rows have 5 columns:
//
//	id, name, format, commander name, entries JSON
package tabular

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
)

const (
	CollectionColumns = 8
	DeckColumns       = 5
)

// cardPayload is the full-payload column: the printing plus the acquisition time.
type cardPayload struct {
	scryfall.Card
	AddedAt *time.Time `json:"added_at,omitempty"`
}

// EncodeCard converts a collection entry into a row.
func EncodeCard(cc collection.CollectionCard) []string {
	prices, _ := json.Marshal(cc.Card.Prices)

	payload := cardPayload{Card: cc.Card}
	if !cc.AddedAt.IsZero() {
		added := cc.AddedAt.UTC()
		payload.AddedAt = &added
	}
	full, _ := json.Marshal(payload)

	return []string{
		cc.Card.ID,
		cc.Card.Name,
		cc.Card.SetName,
		cc.Card.SetCode,
		cc.Card.CollectorNumber,
		strconv.Itoa(cc.Quantity),
		string(prices),
		string(full),
	}
}

// DecodeCard rebuilds a collection entry from the embedded card payload and
// overlays the stored quantity. It returns nil for rows that cannot be used.
func DecodeCard(row []string) *collection.CollectionCard {
	if len(row) < CollectionColumns || row[0] == "" {
		return nil
	}

	var payload cardPayload
	if err := json.Unmarshal([]byte(row[7]), &payload); err != nil {
		return nil
	}
	payload.Card.ID = row[0]

	qty, err := strconv.Atoi(row[5])
	if err != nil || qty < 1 {
		qty = 1
	}

	cc := &collection.CollectionCard{Card: payload.Card, Quantity: qty}
	if payload.AddedAt != nil {
		cc.AddedAt = *payload.AddedAt
	}
	return cc
}

// EncodeDeck converts a deck into a row. The commander is written by card
// name, so coll must be the collection the deck refers to.
func EncodeDeck(d collection.Deck, coll collection.Collection) []string {
	format := d.Format
	if format == "" {
		format = collection.FormatStandard
	}

	commander := ""
	if d.CommanderID != "" {
		if cc, ok := coll.Get(d.CommanderID); ok {
			commander = cc.Name()
		}
	}

	entries := d.Cards
	if entries == nil {
		entries = []collection.DeckEntry{}
	}
	cards, _ := json.Marshal(entries)

	return []string{d.ID, d.Name, string(format), commander, string(cards)}
}

// DecodeDeck rebuilds a deck from a row, resolving the commander name against
// coll. A malformed entries column yields an empty card list; a row without an
// identifier yields nil.
func DecodeDeck(row []string, coll collection.Collection) *collection.Deck {
	if len(row) < 2 || row[0] == "" {
		return nil
	}

	d := &collection.Deck{
		ID:     row[0],
		Name:   row[1],
		Format: collection.FormatStandard,
		Cards:  []collection.DeckEntry{},
	}
	if d.Name == "" {
		d.Name = "Untitled Deck"
	}
	if len(row) > 2 {
		d.Format = collection.ParseFormat(row[2])
	}
	if len(row) > 4 {
		d.Cards = decodeEntries(row[4])
	}
	if len(row) > 3 && d.Format == collection.FormatCommander {
		d.CommanderID = resolveCommander(row[3], *d, coll)
	}

	return d
}

// decodeEntries parses the entries column, merging duplicate card IDs and
// dropping entries without an ID or with a non-positive quantity.
func decodeEntries(raw string) []collection.DeckEntry {
	var parsed []collection.DeckEntry
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return []collection.DeckEntry{}
	}

	entries := make([]collection.DeckEntry, 0, len(parsed))
	index := make(map[string]int, len(parsed))
	for _, e := range parsed {
		if e.CardID == "" || e.Quantity < 1 {
			continue
		}
		if i, ok := index[e.CardID]; ok {
			entries[i].Quantity += e.Quantity
			continue
		}
		index[e.CardID] = len(entries)
		entries = append(entries, e)
	}
	return entries
}

// resolveCommander maps a commander name back to a collection ID. When
// several printings share the name, one that is already in the deck wins,
// then the earliest in collection order.
func resolveCommander(name string, d collection.Deck, coll collection.Collection) string {
	if name == "" {
		return ""
	}

	candidates := coll.FindByName(name)
	if len(candidates) == 0 {
		return ""
	}
	for _, cc := range candidates {
		if d.Contains(cc.ID()) {
			return cc.ID()
		}
	}
	return candidates[0].ID()
}

// EncodeCollection encodes every entry in order.
func EncodeCollection(coll collection.Collection) [][]string {
	rows := make([][]string, 0, len(coll))
	for _, cc := range coll {
		rows = append(rows, EncodeCard(cc))
	}
	return rows
}

// DecodeCollection decodes rows, dropping unusable ones and later duplicates
// of an already-seen ID. It returns the number of dropped rows.
func DecodeCollection(rows [][]string) (collection.Collection, int) {
	coll := make(collection.Collection, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	dropped := 0
	for _, row := range rows {
		cc := DecodeCard(row)
		if cc == nil || seen[cc.ID()] {
			dropped++
			continue
		}
		seen[cc.ID()] = true
		coll = append(coll, *cc)
	}
	return coll, dropped
}

// EncodeDecks encodes every deck in order.
func EncodeDecks(decks []collection.Deck, coll collection.Collection) [][]string {
	rows := make([][]string, 0, len(decks))
	for _, d := range decks {
		rows = append(rows, EncodeDeck(d, coll))
	}
	return rows
}

// DecodeDecks decodes rows against coll and returns the number of dropped rows.
func DecodeDecks(rows [][]string, coll collection.Collection) ([]collection.Deck, int) {
	decks := make([]collection.Deck, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		d := DecodeDeck(row, coll)
		if d == nil {
			dropped++
			continue
		}
		decks = append(decks, *d)
	}
	return decks, dropped
}
