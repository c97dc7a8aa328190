package cards

import (
	"fmt"
	"strings"

	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/style"
	"github.com/pdiddy/cardpress/pkg/types"
)

// headerLine is one paragraph of the header block.
type headerLine struct {
	role style.Role
	text string
}

func headerLines(brand types.Brand) []headerLine {
	return []headerLine{
		// The icon keeps its trailing line break.
		{style.RoleLogo, brand.Icon + "\n"},
		{style.RoleBrandName, brand.Name},
		{style.RoleBrandSubtitle, brand.Subtitle},
		{style.RoleRating, ratingLine(brand)},
		{style.RoleURL, brand.URL},
	}
}

func ratingLine(brand types.Brand) string {
	if brand.RatingCount <= 0 || brand.Rating == "" {
		return ""
	}
	glyphs := make([]string, brand.RatingCount)
	for i := range glyphs {
		glyphs[i] = brand.Rating
	}
	return strings.Join(glyphs, " ")
}

// RenderHeader clears c and writes the five header paragraphs: icon, brand
// name, subtitle, rating and URL.
func RenderHeader(c *docx.Cell, reg *style.Registry, brand types.Brand) error {
	lines := headerLines(brand)
	styles := make([]style.Style, len(lines))
	for i, l := range lines {
		s, err := reg.Style(l.role)
		if err != nil {
			return err
		}
		if err := docx.ValidText(l.text); err != nil {
			return fmt.Errorf("%s line: %w", l.role, err)
		}
		styles[i] = s
	}

	p := c.Clear()
	for i, l := range lines {
		if i > 0 {
			p = c.AddParagraph()
		}
		writeStyled(p, l.text, styles[i])
	}
	return nil
}

// writeStyled formats p with s (alignment and any non-zero spacing) and
// adds text as one run carrying s's character formatting.
func writeStyled(p *docx.Paragraph, text string, s style.Style) *docx.Run {
	if s.Align != "" {
		p.SetAlign(docx.Justification(s.Align))
	}
	if s.SpaceBefore > 0 {
		p.SetSpaceBefore(docx.Points(s.SpaceBefore))
	}
	if s.SpaceAfter > 0 {
		p.SetSpaceAfter(docx.Points(s.SpaceAfter))
	}
	r := p.AddRun(text)
	applyRun(r, s)
	return r
}

func applyRun(r *docx.Run, s style.Style) {
	if s.Font != "" {
		r.SetFont(s.Font)
	}
	if s.Bold {
		r.SetBold(true)
	}
	if s.Italic {
		r.SetItalic(true)
	}
	if s.Color != nil {
		r.SetColor(s.Color.Hex())
	}
	if s.Size > 0 {
		r.SetSize(s.Size)
	}
}
