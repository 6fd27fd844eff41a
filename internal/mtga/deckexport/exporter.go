// Package deckexport renders decks as text lists other tools can import.
package deckexport

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
)

// ExportFormat represents the format to export the deck in.
type ExportFormat string

const (
	FormatArena     ExportFormat = "arena"     // "4 Lightning Bolt (M21) 123"
	FormatPlainText ExportFormat = "plaintext" // "4x Lightning Bolt"
	FormatMTGO      ExportFormat = "mtgo"      // "4 Lightning Bolt", commander as "SB:"
)

// ExportOptions controls deck export behavior.
type ExportOptions struct {
	Format         ExportFormat
	IncludeHeaders bool // Include section headers (Commander, Deck)
}

// DeckExport represents an exported deck.
type DeckExport struct {
	Content  string       `json:"content"`
	Format   ExportFormat `json:"format"`
	Filename string       `json:"filename"`
}

// line is one resolved deck entry.
type line struct {
	quantity int
	card     collection.CollectionCard
}

// Export renders deck against coll. Entries that no longer resolve are
// skipped. The commander, when set, is listed apart from the main deck.
func Export(deck collection.Deck, coll collection.Collection, options *ExportOptions) (*DeckExport, error) {
	if options == nil {
		options = &ExportOptions{Format: FormatArena, IncludeHeaders: true}
	}

	commander, main := resolve(deck, coll)

	var content, filename string
	switch options.Format {
	case FormatArena:
		content = exportArena(commander, main, options)
		filename = fmt.Sprintf("%s.txt", sanitizeFilename(deck.Name))
	case FormatPlainText:
		content = exportPlainText(deck, commander, main, options)
		filename = fmt.Sprintf("%s.txt", sanitizeFilename(deck.Name))
	case FormatMTGO:
		content = exportMTGO(commander, main)
		filename = fmt.Sprintf("%s.dek", sanitizeFilename(deck.Name))
	default:
		return nil, fmt.Errorf("unsupported export format: %s", options.Format)
	}

	return &DeckExport{
		Content:  content,
		Format:   options.Format,
		Filename: filename,
	}, nil
}

func resolve(deck collection.Deck, coll collection.Collection) (*line, []line) {
	var commander *line
	main := make([]line, 0, len(deck.Cards))
	for _, e := range deck.Cards {
		cc, ok := coll.Get(e.CardID)
		if !ok {
			continue
		}
		if deck.Format == collection.FormatCommander && e.CardID == deck.CommanderID {
			commander = &line{quantity: e.Quantity, card: cc}
			continue
		}
		main = append(main, line{quantity: e.Quantity, card: cc})
	}

	// A commander outside the deck list is still exported.
	if commander == nil && deck.Format == collection.FormatCommander && deck.CommanderID != "" {
		if cc, ok := coll.Get(deck.CommanderID); ok {
			commander = &line{quantity: 1, card: cc}
		}
	}
	return commander, main
}

func arenaLine(l line) string {
	s := fmt.Sprintf("%d %s", l.quantity, l.card.Name())
	if l.card.Card.SetCode != "" && l.card.Card.CollectorNumber != "" {
		s += fmt.Sprintf(" (%s) %s", strings.ToUpper(l.card.Card.SetCode), l.card.Card.CollectorNumber)
	}
	return s
}

func exportArena(commander *line, main []line, options *ExportOptions) string {
	var sb strings.Builder

	if commander != nil {
		if options.IncludeHeaders {
			sb.WriteString("Commander\n")
		}
		sb.WriteString(arenaLine(*commander))
		sb.WriteString("\n\n")
	}

	if options.IncludeHeaders {
		sb.WriteString("Deck\n")
	}
	for _, l := range main {
		sb.WriteString(arenaLine(l))
		sb.WriteString("\n")
	}

	return sb.String()
}

func exportPlainText(deck collection.Deck, commander *line, main []line, options *ExportOptions) string {
	var sb strings.Builder

	if options.IncludeHeaders {
		sb.WriteString(fmt.Sprintf("// %s\n", deck.Name))
		sb.WriteString(fmt.Sprintf("// Format: %s\n", deck.Format))
		if commander != nil {
			sb.WriteString(fmt.Sprintf("// Commander: %s\n", commander.card.Name()))
		}
		sb.WriteString("\n")
	} else if commander != nil {
		sb.WriteString(fmt.Sprintf("%dx %s\n", commander.quantity, commander.card.Name()))
	}

	for _, l := range main {
		sb.WriteString(fmt.Sprintf("%dx %s\n", l.quantity, l.card.Name()))
	}

	return sb.String()
}

func exportMTGO(commander *line, main []line) string {
	var sb strings.Builder

	for _, l := range main {
		sb.WriteString(fmt.Sprintf("%d %s\n", l.quantity, l.card.Name()))
	}

	if commander != nil {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("SB: %d %s\n", commander.quantity, commander.card.Name()))
	}

	return sb.String()
}

// sanitizeFilename removes invalid characters from filename.
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if len(result) > 100 {
		result = result[:100]
	}
	if result == "" {
		result = "deck"
	}
	return result
}
