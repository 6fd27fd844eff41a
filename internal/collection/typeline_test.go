package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
)

func TestTypePermutation(t *testing.T) {
	tests := []struct {
		typeLine string
		want     string
	}{
		{"Legendary Artifact Creature — Equipment", "Artifact Creature"},
		{"Land", "Land"},
		{"Basic Land — Island", "Land"},
		{"Basic Snow Land — Forest", "Land"},
		{"Instant", "Instant"},
		{"Artifact Enchantment", "Artifact Enchantment"},
		{"Legendary", "Other"},
		{"", "Other"},
		{"Creature — Human Wizard // Creature — Human Insect", "Creature"},
	}

	for _, tt := range tests {
		t.Run(tt.typeLine, func(t *testing.T) {
			assert.Equal(t, tt.want, TypePermutation(tt.typeLine))
		})
	}
}

func TestSplitTypeLine(t *testing.T) {
	words, sub := SplitTypeLine("Legendary Creature — Elf Druid")
	assert.Equal(t, []string{"Legendary", "Creature"}, words)
	assert.Equal(t, "Elf Druid", sub)

	words, sub = SplitTypeLine("Sorcery")
	assert.Equal(t, []string{"Sorcery"}, words)
	assert.Empty(t, sub)
}

func TestIsLegendaryCreature(t *testing.T) {
	assert.True(t, IsLegendaryCreature(&scryfall.Card{TypeLine: "Legendary Creature — Elf Druid"}))
	assert.False(t, IsLegendaryCreature(&scryfall.Card{TypeLine: "Legendary Artifact — Equipment"}))
	assert.False(t, IsLegendaryCreature(&scryfall.Card{TypeLine: "Creature — Elf"}))
}

func TestColorSet(t *testing.T) {
	bg := NewColorSet("B", "G")
	assert.True(t, NewColorSet("G").SubsetOf(bg))
	assert.False(t, NewColorSet("R").SubsetOf(bg))
	assert.True(t, NewColorSet().SubsetOf(bg))
	assert.Equal(t, []string{"W", "U", "B", "R", "G"}, ParseColorSet("gbrwu").Letters())
	assert.True(t, ParseColorSet("C").IsColorless())
}
