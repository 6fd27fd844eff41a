package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-binder/internal/api/response"
	"github.com/ramonehamilton/mtg-binder/internal/collection"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
	"github.com/ramonehamilton/mtg-binder/internal/views"
)

// CardSource looks up printings in the card database.
type CardSource interface {
	GetCard(ctx context.Context, id string) (*scryfall.Card, error)
	SearchPrintings(ctx context.Context, query string) ([]scryfall.Card, error)
}

// CollectionHandler handles collection requests.
type CollectionHandler struct {
	controller Controller
	cards      CardSource
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(controller Controller, cards CardSource) *CollectionHandler {
	return &CollectionHandler{controller: controller, cards: cards}
}

// FilterFromQuery reads a views.Filter from query parameters. Multi-select
// values are comma separated.
func FilterFromQuery(r *http.Request) (views.Filter, error) {
	q := r.URL.Query()
	f := views.Filter{
		Text:       q.Get("q"),
		Color:      q.Get("color"),
		Supertypes: splitList(q.Get("supertypes")),
		Types:      splitList(q.Get("types")),
		Subtype:    q.Get("subtype"),
	}

	if raw := q.Get("cmc"); raw != "" {
		mv, err := strconv.Atoi(raw)
		if err != nil {
			return views.Filter{}, errors.New("cmc must be an integer")
		}
		f.ManaValue = &mv
	}
	return f, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// CollectionView is the filtered, sorted collection.
type CollectionView struct {
	Cards   collection.Collection `json:"cards,omitempty"`
	Names   []views.NameRow       `json:"names,omitempty"`
	Entries int                   `json:"entries"`
	Total   int                   `json:"total"`
}

// GetCollection returns the collection after filters, sort, and optional
// name aggregation (?unique=true).
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	filter, err := FilterFromQuery(r)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	snap := h.controller.Snapshot()
	cards := views.Sort(views.Apply(snap.Collection, filter), views.ParseSortKey(r.URL.Query().Get("sort")))

	view := CollectionView{Entries: len(cards)}
	for _, cc := range cards {
		view.Total += cc.Quantity
	}
	if unique, _ := strconv.ParseBool(r.URL.Query().Get("unique")); unique {
		view.Names = views.UniqueNames(cards)
	} else {
		view.Cards = cards
	}

	response.Success(w, view)
}

// AddCardRequest adds a printing by ID, or a full card payload.
type AddCardRequest struct {
	ID   string         `json:"id,omitempty"`
	Card *scryfall.Card `json:"card,omitempty"`
}

// AddCard adds one copy of a printing.
func (h *CollectionHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	var req AddCardRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	card := req.Card
	if card == nil || card.ID == "" {
		if req.ID == "" {
			response.BadRequest(w, errors.New("id or card is required"))
			return
		}
		fetched, err := h.cards.GetCard(r.Context(), req.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		card = fetched
	}

	response.Created(w, h.controller.AddCard(*card))
}

// RemoveCard deletes a printing from the collection and every deck.
func (h *CollectionHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.RemoveCard(chi.URLParam(r, "cardID")); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// QuantityRequest adjusts a quantity by delta.
type QuantityRequest struct {
	Delta int `json:"delta"`
}

// SetQuantity adjusts a printing's quantity.
func (h *CollectionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req QuantityRequest
	if err := decode(r, &req); err != nil {
		response.BadRequest(w, err)
		return
	}

	qty, err := h.controller.SetQuantity(chi.URLParam(r, "cardID"), req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, map[string]int{"quantity": qty})
}

// SearchCards returns every printing matching ?q=, oldest first.
func (h *CollectionHandler) SearchCards(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		response.BadRequest(w, errors.New("q is required"))
		return
	}

	cards, err := h.cards.SearchPrintings(r.Context(), query)
	if err != nil {
		response.BadGateway(w, err)
		return
	}
	response.Success(w, cards)
}
