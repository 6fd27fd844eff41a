package scryfall

import (
	"strconv"
	"strings"
)

// Shape distinguishes single-faced printings from ones that carry card_faces.
type Shape int

const (
	SingleFaced Shape = iota
	MultiFaced
)

// Shape reports whether the printing has multiple faces.
func (c *Card) Shape() Shape {
	if len(c.CardFaces) > 0 {
		return MultiFaced
	}
	return SingleFaced
}

// Faces returns the ordered faces of the printing. A single-faced printing
// yields one synthetic face built from the top-level fields.
func (c *Card) Faces() []CardFace {
	if c.Shape() == MultiFaced {
		return c.CardFaces
	}
	return []CardFace{{
		Name:       c.Name,
		ManaCost:   c.ManaCost,
		TypeLine:   c.TypeLine,
		OracleText: c.OracleText,
		Colors:     c.Colors,
		ImageURIs:  c.ImageURIs,
	}}
}

// Price returns the USD price, falling back to the foil price. Missing or
// unparseable prices are 0.
func (c *Card) Price() float64 {
	for _, p := range []*string{c.Prices.USD, c.Prices.USDFoil} {
		if p == nil || *p == "" {
			continue
		}
		if v, err := strconv.ParseFloat(*p, 64); err == nil {
			return v
		}
	}
	return 0
}

// PriceText returns the raw price string used by Price, or "" when none.
func (c *Card) PriceText() string {
	if c.Prices.USD != nil && *c.Prices.USD != "" {
		return *c.Prices.USD
	}
	if c.Prices.USDFoil != nil {
		return *c.Prices.USDFoil
	}
	return ""
}

// ImageURL returns the front image: the top-level normal image when present,
// otherwise the first face's.
func (c *Card) ImageURL() string {
	if c.ImageURIs != nil && c.ImageURIs.Normal != "" {
		return c.ImageURIs.Normal
	}
	return c.FaceImageURL(0)
}

// FaceImageURL returns the normal image of face i, or "".
func (c *Card) FaceImageURL(i int) string {
	if i < 0 || i >= len(c.CardFaces) {
		return ""
	}
	if img := c.CardFaces[i].ImageURIs; img != nil {
		return img.Normal
	}
	return ""
}

// Oracle returns the rules text. Multi-faced printings without top-level text
// join each face as "Name\nText", separated by a blank line.
func (c *Card) Oracle() string {
	if c.Shape() == SingleFaced || c.OracleText != "" {
		return c.OracleText
	}

	blocks := make([]string, 0, len(c.CardFaces))
	for _, face := range c.CardFaces {
		blocks = append(blocks, face.Name+"\n"+face.OracleText)
	}
	return strings.Join(blocks, "\n\n")
}

// FrontTypeLine returns the type line of the front face.
func (c *Card) FrontTypeLine() string {
	if c.TypeLine != "" {
		front, _, _ := strings.Cut(c.TypeLine, " // ")
		return front
	}
	if len(c.CardFaces) > 0 {
		return c.CardFaces[0].TypeLine
	}
	return ""
}

// PurchaseURL returns the purchase link for vendor (e.g. "tcgplayer"), or "".
func (c *Card) PurchaseURL(vendor string) string {
	return c.PurchaseURIs[vendor]
}
