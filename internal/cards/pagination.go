package cards

import (
	"fmt"
	"strings"

	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/style"
	"github.com/pdiddy/cardpress/pkg/types"
)

// Separator is what follows a card.
type Separator int

const (
	SeparatorNone Separator = iota
	SeparatorPageBreak
	SeparatorDivider
)

func (s Separator) String() string {
	switch s {
	case SeparatorPageBreak:
		return "page-break"
	case SeparatorDivider:
		return "divider"
	}
	return "none"
}

// ruleWidth is the number of glyphs in a rule divider.
const ruleWidth = 70

// NextSeparator decides what follows card index (1-based) of total. The
// last card is followed by nothing; every cadence-th card by a page break;
// any other card by a divider. cadence <= 0 means types.DefaultCadence.
func NextSeparator(index, total, cadence int) Separator {
	if cadence <= 0 {
		cadence = types.DefaultCadence
	}
	switch {
	case index >= total:
		return SeparatorNone
	case index%cadence == 0:
		return SeparatorPageBreak
	default:
		return SeparatorDivider
	}
}

// writeSeparator appends sep to doc.
func writeSeparator(doc *docx.Document, sep Separator, divider types.DividerStyle, reg *style.Registry) error {
	switch sep {
	case SeparatorNone:
		return nil
	case SeparatorPageBreak:
		doc.AddPageBreak()
		return nil
	}

	switch divider {
	case types.DividerBlank:
		doc.AddParagraph().AddRun("\n")
		doc.AddParagraph()
	case "", types.DividerRule:
		s, err := reg.Style(style.RoleSeparator)
		if err != nil {
			return err
		}
		writeStyled(doc.AddParagraph(), "\n"+strings.Repeat("═", ruleWidth)+"\n", s)
	default:
		return fmt.Errorf("unknown divider style %q", divider)
	}
	return nil
}

// EstimatePages is the page count of n cards: one page per cadence cards,
// plus the title page when there is one.
func EstimatePages(n int, cfg types.RenderConfig) int {
	cadence := cfg.Cadence
	if cadence <= 0 {
		cadence = types.DefaultCadence
	}
	pages := (n + cadence - 1) / cadence
	if cfg.TitlePage {
		pages++
	}
	return pages
}
