package synergy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSanitizeCardName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple card name",
			input:    "Lightning Bolt",
			expected: "lightning-bolt",
		},
		{
			name:     "card name with apostrophe",
			input:    "Sol'kanar the Swamp King",
			expected: "solkanar-the-swamp-king",
		},
		{
			name:     "card name with comma",
			input:    "Korvold, Fae-Cursed King",
			expected: "korvold-fae-cursed-king",
		},
		{
			name:     "collapses whitespace",
			input:    "  Atraxa,   Praetors'  Voice ",
			expected: "atraxa-praetors-voice",
		},
		{
			name:     "already a slug",
			input:    "the-ur-dragon",
			expected: "the-ur-dragon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeCardName(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeCardName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewEDHRECClient(t *testing.T) {
	client := NewEDHRECClient("")
	if client.httpClient == nil {
		t.Error("NewEDHRECClient() returned client with nil httpClient")
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
}

func TestGetCommander_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewEDHRECClient(server.URL)

	_, err := client.GetCommander(context.Background(), "Nobody")
	if !errors.Is(err, ErrCommanderNotFound) {
		t.Errorf("Expected ErrCommanderNotFound, got %v", err)
	}
}

const commanderPageJSON = `{
	"num_decks_avg": 12,
	"container": {
		"json_dict": {
			"card": {
				"name": "Korvold, Fae-Cursed King",
				"color_identity": ["B", "R", "G"],
				"num_decks": 25000
			},
			"cardlists": [
				{
					"tag": "highsynergycards",
					"header": "High Synergy Cards",
					"cardviews": [
						{"id": "1", "name": "Mayhem Devil", "synergy": 0.61, "inclusion": 500, "num_decks": 500, "potential_decks": 1000},
						{"id": "2", "name": "Counterspell", "synergy": 0.1, "inclusion": 10, "num_decks": 10, "potential_decks": 0}
					]
				},
				{
					"tag": "lands",
					"header": "Lands",
					"cardviews": [
						{"id": "3", "name": "Command Tower", "synergy": -0.05, "inclusion": 900, "num_decks": 900, "potential_decks": 1000}
					]
				},
				{
					"tag": "somethingelse",
					"header": "Ignored",
					"cardviews": [{"id": "4", "name": "Island"}]
				}
			]
		}
	}
}`

func TestGetCommander_Success(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(commanderPageJSON))
	}))
	defer server.Close()

	client := NewEDHRECClient(server.URL)

	data, err := client.GetCommander(context.Background(), "Korvold, Fae-Cursed King")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotPath != "/commanders/korvold-fae-cursed-king.json" {
		t.Errorf("path = %q", gotPath)
	}
	if data.DecksAnalyzed != 25000 {
		t.Errorf("DecksAnalyzed = %d, want 25000", data.DecksAnalyzed)
	}
	if len(data.Lists) != 2 {
		t.Errorf("Lists length = %d, want 2", len(data.Lists))
	}
	if _, ok := data.Lists["somethingelse"]; ok {
		t.Error("unknown category should be dropped")
	}
}
