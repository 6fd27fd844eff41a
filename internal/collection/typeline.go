package collection

import (
	"strings"

	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
)

// OtherTypes is the permutation key for cards without a main type.
const OtherTypes = "Other"

const subtypeSeparator = "—"

var supertypes = map[string]bool{
	"Legendary": true,
	"Basic":     true,
	"Snow":      true,
	"World":     true,
	"Ongoing":   true,
	"Host":      true,
	"Elite":     true,
}

// IsSupertype reports whether word is a supertype.
func IsSupertype(word string) bool {
	return supertypes[word]
}

// SplitTypeLine separates the words before the subtype separator from the
// subtype text after it. Only the front face of "A // B" lines is considered.
// Example: "Legendary Creature — Elf Druid" -> ["Legendary", "Creature"], "Elf Druid"
func SplitTypeLine(typeLine string) ([]string, string) {
	front, _, _ := strings.Cut(typeLine, " // ")
	head, tail, _ := strings.Cut(front, subtypeSeparator)
	return strings.Fields(head), strings.TrimSpace(tail)
}

// TypePermutation returns the main types of a type line in their original
// order, with supertypes and subtypes removed.
// "Legendary Artifact Creature — Equipment" -> "Artifact Creature"
func TypePermutation(typeLine string) string {
	words, _ := SplitTypeLine(typeLine)

	main := make([]string, 0, len(words))
	for _, w := range words {
		if !supertypes[w] {
			main = append(main, w)
		}
	}
	if len(main) == 0 {
		return OtherTypes
	}
	return strings.Join(main, " ")
}

// IsLegendaryCreature reports whether the printing may lead a Commander deck.
func IsLegendaryCreature(card *scryfall.Card) bool {
	words, _ := SplitTypeLine(card.FrontTypeLine())

	var legendary, creature bool
	for _, w := range words {
		switch w {
		case "Legendary":
			legendary = true
		case "Creature":
			creature = true
		}
	}
	return legendary && creature
}
