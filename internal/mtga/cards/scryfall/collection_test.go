package scryfall

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestClient_GetCardsByNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.URL.Path != "/cards/collection" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var req CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		for _, id := range req.Identifiers {
			if id.Name == "" {
				t.Error("Expected name-based identifiers")
			}
		}

		json.NewEncoder(w).Encode(CollectionResponse{
			Object: "list",
			Data: []Card{
				{ID: "id1", Name: "Lightning Bolt", CMC: 1},
				{ID: "id2", Name: "Counterspell", CMC: 2},
			},
			NotFound: []CardIdentifier{{Name: "Nonexistent Card"}},
		})
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)

	cards, notFound, err := client.GetCardsByNames(context.Background(),
		[]string{"Lightning Bolt", "Counterspell", "Nonexistent Card"})
	if err != nil {
		t.Fatalf("GetCardsByNames failed: %v", err)
	}

	if len(cards) != 2 {
		t.Errorf("Expected 2 cards, got %d", len(cards))
	}
	if len(notFound) != 1 || notFound[0] != "Nonexistent Card" {
		t.Errorf("Expected [Nonexistent Card] not found, got %v", notFound)
	}
}

func TestClient_GetCardsByNames_EmptyInput(t *testing.T) {
	client := NewClient()

	cards, notFound, err := client.GetCardsByNames(context.Background(), []string{})
	if err != nil {
		t.Fatalf("Expected no error for empty input, got: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("Expected 0 cards, got %d", len(cards))
	}
	if len(notFound) != 0 {
		t.Errorf("Expected empty notFound, got %d", len(notFound))
	}
}

func TestClient_LookupColorIdentities_ChunksAndKeys(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		var req CollectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if len(req.Identifiers) > MaxBatchSize {
			t.Errorf("Batch of %d exceeds limit %d", len(req.Identifiers), MaxBatchSize)
		}

		resp := CollectionResponse{Object: "list"}
		for _, id := range req.Identifiers {
			if id.Name == "Delver of Secrets" {
				resp.Data = append(resp.Data, Card{Name: "Delver of Secrets // Insectile Aberration", ColorIdentity: []string{"U"}})
				continue
			}
			resp.Data = append(resp.Data, Card{Name: id.Name, ColorIdentity: []string{"G"}})
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	names := make([]string, 0, 100)
	names = append(names, "Delver of Secrets")
	for i := 0; i < 99; i++ {
		names = append(names, "Card "+string(rune('A'+i%26))+string(rune('a'+i/26)))
	}

	client := NewClientWithURL(server.URL)
	identities := client.LookupColorIdentities(context.Background(), names)

	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("Expected 2 chunked calls, got %d", calls)
	}
	if got := identities["delver of secrets"]; len(got) != 1 || got[0] != "U" {
		t.Errorf("Expected front-face key to resolve to [U], got %v", got)
	}
	if _, ok := identities["delver of secrets // insectile aberration"]; !ok {
		t.Error("Expected full-name key to be present")
	}
}

func TestClient_LookupColorIdentities_BestEffort(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(CollectionResponse{Data: []Card{{Name: "Island", ColorIdentity: []string{}}}})
	}))
	defer server.Close()

	names := make([]string, MaxBatchSize+1)
	for i := range names {
		names[i] = "Island"
	}

	client := NewClientWithURL(server.URL)
	identities := client.LookupColorIdentities(context.Background(), names)

	if _, ok := identities["island"]; !ok {
		t.Error("Expected second chunk to populate results after first chunk failed")
	}
}
