package combos

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

func TestQuery(t *testing.T) {
	assert.Equal(t, `card:"Sol Ring"`, Query("Sol Ring", 0))
	assert.Equal(t, `card:"Korvold, Fae-Cursed King" coloridentity<=brg`,
		Query("Korvold, Fae-Cursed King", collection.NewColorSet("G", "B", "R")))
}

func TestFindByCard_FollowsNext(t *testing.T) {
	var server *httptest.Server
	var queries []string
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "2" {
			_, _ = fmt.Fprint(w, `{"count": 2, "next": null, "results": [{"id": "2-3", "identity": "B"}]}`)
			return
		}
		queries = append(queries, r.URL.Query().Get("q"))
		_, _ = fmt.Fprintf(w, `{"count": 2, "next": "%s/variants/?page=2", "results": [
			{"id": "1-2", "identity": "G", "popularity": 40,
			 "uses": [{"card": {"name": "Llanowar Elves", "imageUriFrontNormal": "https://img/1.jpg"}}],
			 "produces": [{"feature": {"name": "Infinite green mana"}}],
			 "easyPrerequisites": "All cards on the battlefield.",
			 "description": "Tap for mana."}
		]}`, server.URL)
	}))
	defer server.Close()

	client := NewSpellbookClient(server.URL)
	variants, err := client.FindByCard(context.Background(), "Llanowar Elves", collection.NewColorSet("G"))
	require.NoError(t, err)

	require.Len(t, variants, 2)
	assert.Equal(t, []string{`card:"Llanowar Elves" coloridentity<=g`}, queries)
	assert.Equal(t, []string{"Llanowar Elves"}, variants[0].CardNames())
	assert.Equal(t, []string{"Infinite green mana"}, variants[0].Results())
	assert.Equal(t, "All cards on the battlefield.", variants[0].Prerequisites())
	assert.Equal(t, 40, variants[0].PopularityScore())
	assert.Equal(t, 0, variants[1].PopularityScore())
}

func TestFindByCard_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewSpellbookClient(server.URL).FindByCard(context.Background(), "Sol Ring", 0)
	assert.Error(t, err)
}
