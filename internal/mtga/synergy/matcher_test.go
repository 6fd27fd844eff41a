package synergy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

type stubSource struct {
	data *CommanderData
	err  error
}

func (s stubSource) GetCommander(context.Context, string) (*CommanderData, error) {
	return s.data, s.err
}

type stubIdentities map[string][]string

func (s stubIdentities) LookupColorIdentities(_ context.Context, names []string) map[string][]string {
	out := make(map[string][]string)
	for _, n := range names {
		key := strings.ToLower(n)
		if id, ok := s[key]; ok {
			out[key] = id
		}
	}
	return out
}

func testData() *CommanderData {
	return &CommanderData{
		Commander:     "Korvold, Fae-Cursed King",
		Slug:          "korvold-fae-cursed-king",
		DecksAnalyzed: 25000,
		Lists: map[string][]*EDHRECCardView{
			"lands": {
				{ID: "3", Name: "Command Tower", Synergy: -0.05, Inclusion: 900, PotentialDecks: 1000},
			},
			"highsynergycards": {
				{ID: "1", Name: "Mayhem Devil", Synergy: 0.61, Inclusion: 500, PotentialDecks: 1000},
				{ID: "2", Name: "Counterspell", Synergy: 0.1, Inclusion: 10},
				{ID: "5", Name: "Mystery Card", Synergy: 0.2, Inclusion: 1, PotentialDecks: 4},
			},
		},
	}
}

func TestMatcher_ScalesPercentages(t *testing.T) {
	m := NewMatcher(stubSource{data: testData()}, nil, nil)

	result, err := m.Match(context.Background(), "Korvold, Fae-Cursed King", 0, false)
	require.NoError(t, err)

	require.Len(t, result.Categories, 2)
	assert.Equal(t, "highsynergycards", result.Categories[0].Tag)
	assert.Equal(t, "lands", result.Categories[1].Tag)

	devil := result.Categories[0].Cards[0]
	assert.InDelta(t, 61.0, devil.Synergy, 1e-9)
	assert.InDelta(t, 50.0, devil.Inclusion, 1e-9)

	counter := result.Categories[0].Cards[1]
	assert.Zero(t, counter.Inclusion, "no eligible decks reports zero")
	assert.Equal(t, 25000, result.DecksAnalyzed)
}

func TestMatcher_ColorFilter(t *testing.T) {
	identities := stubIdentities{
		"mayhem devil":  {"B", "R"},
		"counterspell":  {"U"},
		"command tower": {},
	}
	m := NewMatcher(stubSource{data: testData()}, identities, nil)

	result, err := m.Match(context.Background(), "Korvold", collection.NewColorSet("B", "R", "G"), true)
	require.NoError(t, err)

	var got []string
	for _, cat := range result.Categories {
		for _, c := range cat.Cards {
			got = append(got, c.Name)
		}
	}
	assert.Equal(t, []string{"Mayhem Devil", "Mystery Card", "Command Tower"}, got)
}

func TestMatcher_SourceError(t *testing.T) {
	m := NewMatcher(stubSource{err: errors.New("down")}, nil, nil)

	_, err := m.Match(context.Background(), "Korvold", 0, false)
	assert.Error(t, err)
}
