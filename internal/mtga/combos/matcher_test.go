package combos

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

type stubFinder struct {
	mu       sync.Mutex
	byCard   map[string][]Variant
	failing  map[string]bool
	delay    time.Duration
	inflight atomic.Int32
	peak     atomic.Int32
}

func (f *stubFinder) FindByCard(_ context.Context, card string, _ collection.ColorSet) ([]Variant, error) {
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[card] {
		return nil, errors.New("upstream down")
	}
	return f.byCard[card], nil
}

func variant(id, identity string, popularity int, cards ...string) Variant {
	v := Variant{ID: id, Identity: identity, Popularity: &popularity}
	for _, c := range cards {
		v.Uses = append(v.Uses, CardUse{Card: UsedCard{Name: c}})
	}
	return v
}

func ids(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Variant.ID
	}
	return out
}

func TestMatch_FullyOwnedSortsFirst(t *testing.T) {
	partial := variant("abc", "", 9999, "A", "B", "C")
	full := variant("ab", "", 1, "A", "B")
	finder := &stubFinder{byCard: map[string][]Variant{
		"A": {partial, full},
		"B": {full, partial},
	}}

	matches, err := NewMatcher(finder, nil).Match(context.Background(), []string{"A", "B"}, 0, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"ab", "abc"}, ids(matches), "deduped and ranked by coverage before popularity")
	assert.True(t, matches[0].Complete())
	assert.InDelta(t, 2.0/3.0, matches[1].Ratio, 1e-9)
	assert.Equal(t, []string{"C"}, matches[1].Missing)
}

func TestMatch_PopularityBreaksTies(t *testing.T) {
	finder := &stubFinder{byCard: map[string][]Variant{
		"A": {variant("low", "", 5, "A", "X"), variant("high", "", 50, "A", "Y")},
	}}

	matches, err := NewMatcher(finder, nil).Match(context.Background(), []string{"A"}, 0, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"high", "low"}, ids(matches))
}

func TestMatch_ColorFilter(t *testing.T) {
	finder := &stubFinder{byCard: map[string][]Variant{
		"A": {
			variant("golgari", "BG", 1, "A"),
			variant("izzet", "UR", 1, "A"),
			variant("colorless", "C", 1, "A"),
		},
	}}
	m := NewMatcher(finder, nil)
	identity := collection.NewColorSet("B", "G")

	filtered, err := m.Match(context.Background(), []string{"A"}, identity, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"golgari", "colorless"}, ids(filtered))

	all, err := m.Match(context.Background(), []string{"A"}, identity, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, match := range all {
		assert.Equal(t, match.Variant.ID != "izzet", match.ColorLegal)
	}
}

func TestMatch_BoundedConcurrency(t *testing.T) {
	finder := &stubFinder{byCard: map[string][]Variant{}, delay: 20 * time.Millisecond}
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}

	_, err := NewMatcher(finder, nil).Match(context.Background(), names, 0, false)
	require.NoError(t, err)

	assert.LessOrEqual(t, finder.peak.Load(), int32(DefaultConcurrency))
}

func TestMatch_PartialFailureIsSkipped(t *testing.T) {
	finder := &stubFinder{
		byCard:  map[string][]Variant{"A": {variant("a", "", 1, "A")}},
		failing: map[string]bool{"B": true},
	}

	matches, err := NewMatcher(finder, nil).Match(context.Background(), []string{"A", "B"}, 0, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(matches))

	finder.failing["A"] = true
	_, err = NewMatcher(finder, nil).Match(context.Background(), []string{"A", "B"}, 0, false)
	assert.Error(t, err)
}
