// Package handlers implements the HTTP endpoints over the sync controller
// and the derived views.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ramonehamilton/mtg-binder/internal/api/response"
	"github.com/ramonehamilton/mtg-binder/internal/collection"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
	"github.com/ramonehamilton/mtg-binder/internal/sheets"
	"github.com/ramonehamilton/mtg-binder/internal/syncer"
)

// Controller is the sync controller surface used by the handlers.
type Controller interface {
	Snapshot() syncer.Snapshot
	Status() syncer.Status
	Load(ctx context.Context) error
	Flush(ctx context.Context) error
	ResumeAuthorization(fragment string) (sheets.PendingOperation, error)

	AddCard(card scryfall.Card) collection.CollectionCard
	RemoveCard(cardID string) error
	SetQuantity(cardID string, delta int) (int, error)

	Deck(deckID string) (collection.Deck, bool)
	CreateDeck(name string, format collection.Format) (collection.Deck, error)
	DeleteDeck(deckID string) error
	RenameDeck(deckID, name string) error
	SetDeckFormat(deckID string, format collection.Format) error
	SetCommander(deckID, cardID string) error
	SetDeckQuantity(deckID, cardID string, delta int) (int, error)
	ToggleDeckMembership(deckID string, cardIDs ...string) (bool, error)
}

var _ Controller = (*syncer.Controller)(nil)

// writeError maps controller and upstream errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var (
		apiErr   *sheets.APIError
		redirect *sheets.AuthRedirectError
	)
	switch {
	case errors.Is(err, syncer.ErrDeckNotFound), errors.Is(err, syncer.ErrCardNotFound), scryfall.IsNotFound(err):
		response.NotFound(w, err)
	case errors.Is(err, syncer.ErrInvalidCommander), errors.Is(err, syncer.ErrEmptyDeckName):
		response.BadRequest(w, err)
	case errors.Is(err, syncer.ErrUnconfigured):
		response.ServiceUnavailable(w, err)
	case errors.As(err, &redirect):
		response.Unauthorized(w, err, redirect.URL)
	case sheets.IsAuthorizationRequired(err), sheets.IsUnauthorized(err):
		response.Unauthorized(w, err, "")
	case errors.As(err, &apiErr):
		response.BadGateway(w, err)
	default:
		response.InternalError(w, err)
	}
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
