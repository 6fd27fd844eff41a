package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-binder/internal/api/response"
	"github.com/ramonehamilton/mtg-binder/internal/collection"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/combos"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/deckexport"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/synergy"
	"github.com/ramonehamilton/mtg-binder/internal/syncer"
	"github.com/ramonehamilton/mtg-binder/internal/views"
)

// ComboMatcher ranks combos for a list of card names.
type ComboMatcher interface {
	Match(ctx context.Context, names []string, identity collection.ColorSet, colorFilter bool) ([]combos.Match, error)
}

// SynergyMatcher returns commander recommendations.
type SynergyMatcher interface {
	Match(ctx context.Context, commander string, identity collection.ColorSet, colorFilter bool) (*synergy.Result, error)
}

// DeckHandler handles deck requests.
type DeckHandler struct {
	controller Controller
	combos     ComboMatcher
	synergy    SynergyMatcher
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(controller Controller, combos ComboMatcher, synergy SynergyMatcher) *DeckHandler {
	return &DeckHandler{controller: controller, combos: combos, synergy: synergy}
}

// DeckSummary is a deck with its derived identity and size.
type DeckSummary struct {
	collection.Deck
	Identity  string `json:"identity"`
	CardCount int    `json:"cardCount"`
}

func summarize(d collection.Deck, coll collection.Collection) DeckSummary {
	count := 0
	for _, e := range d.Cards {
		count += e.Quantity
	}
	return DeckSummary{
		Deck:      d,
		Identity:  collection.DeckIdentity(d, coll).String(),
		CardCount: count,
	}
}

// GetDecks returns all decks.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()
	out := make([]DeckSummary, len(snap.Decks))
	for i, d := range snap.Decks {
		out[i] = summarize(d, snap.Collection)
	}
	response.Success(w, out)
}

// CreateDeckRequest represents a request to create a deck.
type CreateDeckRequest struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

// CreateDeck creates a new empty deck.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	deck, err := h.controller.CreateDeck(req.Name, collection.ParseFormat(req.Format))
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, deck)
}

// GetDeck returns a single deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deck, coll, ok := h.lookup(r)
	if !ok {
		writeError(w, syncer.ErrDeckNotFound)
		return
	}
	response.Success(w, summarize(deck, coll))
}

// UpdateDeckRequest renames a deck and/or changes its format.
type UpdateDeckRequest struct {
	Name   *string `json:"name,omitempty"`
	Format *string `json:"format,omitempty"`
}

// UpdateDeck applies a rename and/or a format change.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")

	var req UpdateDeckRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	if req.Name != nil {
		if err := h.controller.RenameDeck(deckID, *req.Name); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Format != nil {
		if err := h.controller.SetDeckFormat(deckID, collection.ParseFormat(*req.Format)); err != nil {
			writeError(w, err)
			return
		}
	}

	h.GetDeck(w, r)
}

// DeleteDeck deletes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.DeleteDeck(chi.URLParam(r, "deckID")); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// CommanderRequest selects a commander; an empty cardId clears it.
type CommanderRequest struct {
	CardID string `json:"cardId"`
}

// SetCommander sets or clears the commander.
func (h *DeckHandler) SetCommander(w http.ResponseWriter, r *http.Request) {
	var req CommanderRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	if err := h.controller.SetCommander(chi.URLParam(r, "deckID"), req.CardID); err != nil {
		writeError(w, err)
		return
	}
	h.GetDeck(w, r)
}

// ToggleRequest names the printings of one card.
type ToggleRequest struct {
	CardIDs []string `json:"cardIds"`
}

// ToggleCard adds or removes a card from the deck.
func (h *DeckHandler) ToggleCard(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}
	if len(req.CardIDs) == 0 {
		response.BadRequest(w, errors.New("cardIds is required"))
		return
	}

	inDeck, err := h.controller.ToggleDeckMembership(chi.URLParam(r, "deckID"), req.CardIDs...)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, map[string]bool{"inDeck": inDeck})
}

// SetCardQuantity adjusts a deck entry's quantity.
func (h *DeckHandler) SetCardQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	qty, err := h.controller.SetDeckQuantity(chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID"), req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, map[string]int{"quantity": qty})
}

// GetGroups returns the deck's cards grouped by type.
func (h *DeckHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	deck, coll, ok := h.lookup(r)
	if !ok {
		writeError(w, syncer.ErrDeckNotFound)
		return
	}
	response.Success(w, views.GroupByType(deck, coll))
}

// GetCombos returns combos involving the deck's cards.
// ?colorFilter=false disables the identity restriction.
func (h *DeckHandler) GetCombos(w http.ResponseWriter, r *http.Request) {
	if h.combos == nil {
		response.ServiceUnavailable(w, errors.New("combo lookup is not configured"))
		return
	}
	deck, coll, ok := h.lookup(r)
	if !ok {
		writeError(w, syncer.ErrDeckNotFound)
		return
	}

	matches, err := h.combos.Match(r.Context(), deck.CardNames(coll),
		collection.DeckIdentity(deck, coll), colorFilter(r))
	if err != nil {
		response.BadGateway(w, err)
		return
	}
	response.Success(w, matches)
}

// GetSynergy returns recommendations for the deck's commander.
func (h *DeckHandler) GetSynergy(w http.ResponseWriter, r *http.Request) {
	if h.synergy == nil {
		response.ServiceUnavailable(w, errors.New("synergy lookup is not configured"))
		return
	}
	deck, coll, ok := h.lookup(r)
	if !ok {
		writeError(w, syncer.ErrDeckNotFound)
		return
	}

	commander, ok := coll.Get(deck.CommanderID)
	if deck.CommanderID == "" || !ok {
		response.BadRequest(w, errors.New("deck has no commander"))
		return
	}

	result, err := h.synergy.Match(r.Context(), commander.Name(),
		collection.DeckIdentity(deck, coll), colorFilter(r))
	if errors.Is(err, synergy.ErrCommanderNotFound) {
		response.NotFound(w, err)
		return
	}
	if err != nil {
		response.BadGateway(w, err)
		return
	}
	response.Success(w, result)
}

// ExportDeck renders the deck as a text list (?format=arena|plaintext|mtgo).
func (h *DeckHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	deck, coll, ok := h.lookup(r)
	if !ok {
		writeError(w, syncer.ErrDeckNotFound)
		return
	}

	format := deckexport.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = deckexport.FormatArena
	}
	headers := true
	if raw := r.URL.Query().Get("headers"); raw != "" {
		headers, _ = strconv.ParseBool(raw)
	}

	out, err := deckexport.Export(deck, coll, &deckexport.ExportOptions{Format: format, IncludeHeaders: headers})
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	response.Success(w, out)
}

func (h *DeckHandler) lookup(r *http.Request) (collection.Deck, collection.Collection, bool) {
	deck, ok := h.controller.Deck(chi.URLParam(r, "deckID"))
	if !ok {
		return collection.Deck{}, nil, false
	}
	return deck, h.controller.Snapshot().Collection, true
}

func colorFilter(r *http.Request) bool {
	raw := r.URL.Query().Get("colorFilter")
	if raw == "" {
		return true
	}
	on, err := strconv.ParseBool(raw)
	return err != nil || on
}
