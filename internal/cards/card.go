// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cards renders item names as branded cards and assembles them
// into a paginated document.
//
// A card is a one-row, two-column table: the left cell holds the brand
// header block, the right cell holds the item name. The table carries a
// golden outer border and the left cell a divider on its right edge. Every
// card is followed by an empty spacer paragraph.
package cards

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/style"
	"github.com/pdiddy/cardpress/pkg/types"
)

// Name layout modes.
const (
	ModeSingle  = types.NameSingle
	ModePerWord = types.NamePerWord
)

// DefaultWidths are the header and name column widths: 2.5in and 4in.
var DefaultWidths = [2]docx.Twips{docx.Inches(2.5), docx.Inches(4.0)}

var errBlankName = errors.New("name is blank")

// Renderer writes cards into a document. Its fields are fixed for the
// lifetime of an assembly, so every card in a document looks the same.
type Renderer struct {
	Styles *style.Registry
	Brand  types.Brand
	Mode   types.NameMode

	// Widths overrides DefaultWidths when non-zero.
	Widths [2]docx.Twips
}

// Render appends one card for name, followed by a spacer paragraph. The
// card is built detached from doc and appended only once it is complete;
// on error doc is unchanged and the error is a *RenderError.
func (r *Renderer) Render(doc *docx.Document, name string) error {
	fail := func(stage string, err error) error {
		return &RenderError{Name: name, Stage: stage, Err: err}
	}

	if strings.TrimSpace(name) == "" {
		return fail(StageValidate, errBlankName)
	}
	if err := docx.ValidText(name); err != nil {
		return fail(StageValidate, err)
	}
	mode := r.Mode
	switch mode {
	case "":
		mode = ModeSingle
	case ModeSingle, ModePerWord:
	default:
		return fail(StageValidate, fmt.Errorf("unknown name mode %q", mode))
	}

	reg := r.Styles
	if reg == nil {
		reg = style.Default()
	}
	widths := r.Widths
	if widths == ([2]docx.Twips{}) {
		widths = DefaultWidths
	}

	t, err := doc.NewTable(1, 2)
	if err != nil {
		return fail(StageValidate, err)
	}
	t.SetFixedLayout()
	if err := t.SetColumnWidths(widths[0], widths[1]); err != nil {
		return fail(StageValidate, err)
	}
	left, _ := t.Cell(0, 0)
	right, _ := t.Cell(0, 1)

	if err := RenderHeader(left, reg, r.Brand); err != nil {
		return fail(StageHeader, err)
	}

	divider, err := reg.Border(style.RoleDividerBorder)
	if err != nil {
		return fail(StageBorder, err)
	}
	if err := ApplyCellDivider(left, SideRight, divider); err != nil {
		return fail(StageBorder, err)
	}

	if err := renderName(right, reg, mode, name); err != nil {
		return fail(StageName, err)
	}

	outer, err := reg.Border(style.RoleOuterBorder)
	if err != nil {
		return fail(StageBorder, err)
	}
	if err := ApplyOuterBorder(t, outer); err != nil {
		return fail(StageBorder, err)
	}

	doc.AppendTable(t)
	doc.AddParagraph()
	return nil
}

func renderName(c *docx.Cell, reg *style.Registry, mode types.NameMode, name string) error {
	if mode == ModePerWord {
		s, err := reg.Style(style.RoleItemNameWord)
		if err != nil {
			return err
		}
		renderWords(c, s, name)
		return nil
	}

	s, err := reg.Style(style.RoleItemName)
	if err != nil {
		return err
	}
	p := c.Clear()
	writeStyled(p, name, s)
	p.SetSpacing(s.SpaceBefore, s.SpaceAfter)
	return nil
}

// renderWords writes the upper-cased name one word per paragraph. Every
// line has no space after it except the last; only the first line has
// space before it.
func renderWords(c *docx.Cell, s style.Style, name string) {
	words := strings.Fields(cases.Upper(language.Und).String(name))

	lineStyle := s
	lineStyle.SpaceBefore = 0
	lineStyle.SpaceAfter = 0

	p := c.Clear()
	for i, w := range words {
		if i > 0 {
			p = c.AddParagraph()
		}
		writeStyled(p, w, lineStyle)
		p.SetSpaceAfter(0)
		if i == 0 {
			p.SetSpaceBefore(docx.Points(s.SpaceBefore))
		}
		if i == len(words)-1 {
			p.SetSpaceAfter(docx.Points(s.SpaceAfter))
		}
	}
}
