package collection

import (
	"strings"

	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
)

// Colors lists the five colors in canonical WUBRG order.
var Colors = []string{"W", "U", "B", "R", "G"}

// ColorSet is a set over the five colors, stored as a bitmask.
type ColorSet uint8

func colorBit(letter string) ColorSet {
	switch strings.ToUpper(letter) {
	case "W":
		return 1 << 0
	case "U":
		return 1 << 1
	case "B":
		return 1 << 2
	case "R":
		return 1 << 3
	case "G":
		return 1 << 4
	}
	return 0
}

// NewColorSet builds a set from color letters. Unknown letters (including
// "C" for colorless) are ignored.
func NewColorSet(letters ...string) ColorSet {
	var s ColorSet
	for _, l := range letters {
		s |= colorBit(l)
	}
	return s
}

// ParseColorSet reads a compact identity string such as "BG" or "wubrg".
func ParseColorSet(s string) ColorSet {
	var set ColorSet
	for _, r := range s {
		set |= colorBit(string(r))
	}
	return set
}

// IdentityOf returns the color identity of a printing.
func IdentityOf(card *scryfall.Card) ColorSet {
	return NewColorSet(card.ColorIdentity...)
}

func (s ColorSet) Union(o ColorSet) ColorSet { return s | o }

func (s ColorSet) Contains(letter string) bool {
	b := colorBit(letter)
	return b != 0 && s&b == b
}

// SubsetOf reports whether every color of s is also in o.
func (s ColorSet) SubsetOf(o ColorSet) bool { return s&^o == 0 }

func (s ColorSet) IsColorless() bool { return s == 0 }

// Letters returns the colors in WUBRG order.
func (s ColorSet) Letters() []string {
	letters := make([]string, 0, len(Colors))
	for _, c := range Colors {
		if s.Contains(c) {
			letters = append(letters, c)
		}
	}
	return letters
}

func (s ColorSet) String() string {
	return strings.Join(s.Letters(), "")
}
