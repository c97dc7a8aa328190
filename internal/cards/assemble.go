package cards

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/internal/style"
	"github.com/pdiddy/cardpress/pkg/types"
)

// Assembler turns an item list into a card document.
type Assembler struct {
	Config types.RenderConfig
	Styles *style.Registry
	Brand  types.Brand
}

// NewAssembler returns an Assembler with the default styles and brand.
func NewAssembler(cfg types.RenderConfig) *Assembler {
	return &Assembler{Config: cfg, Styles: style.Default(), Brand: types.DefaultBrand()}
}

// MarginsFor resolves the margin profile and per-side overrides of cfg.
func MarginsFor(cfg types.RenderConfig) (docx.Margins, error) {
	var m docx.Margins
	switch cfg.MarginProfile {
	case "", types.MarginsWide:
		m = docx.Margins{Top: docx.Inches(0.75), Right: docx.Inches(1), Bottom: docx.Inches(0.75), Left: docx.Inches(1)}
	case types.MarginsNarrow:
		m = docx.Margins{Top: docx.Inches(0.5), Right: docx.Inches(0.75), Bottom: docx.Inches(0.5), Left: docx.Inches(0.75)}
	default:
		return m, fmt.Errorf("unknown margin profile %q", cfg.MarginProfile)
	}

	o := cfg.Margins
	for _, side := range []struct {
		name string
		in   float64
		dst  *docx.Twips
	}{
		{"top", o.Top, &m.Top},
		{"right", o.Right, &m.Right},
		{"bottom", o.Bottom, &m.Bottom},
		{"left", o.Left, &m.Left},
	} {
		if side.in < 0 {
			return m, fmt.Errorf("%s margin must not be negative, got %g", side.name, side.in)
		}
		if side.in > 0 {
			*side.dst = docx.Inches(side.in)
		}
	}
	return m, nil
}

// Build renders every item as a card in a new document. An empty or
// all-blank list fails with *InvalidInputError before any document
// exists; a card that cannot be rendered fails the whole build with
// *RenderError.
func (a *Assembler) Build(items []string) (*docx.Document, error) {
	if len(items) == 0 {
		return nil, &InvalidInputError{Reason: ReasonNoItems}
	}
	if allBlank(items) {
		return nil, &InvalidInputError{Reason: ReasonAllBlank}
	}

	reg := a.Styles
	if reg == nil {
		reg = style.Default()
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	cfg := a.Config
	margins, err := MarginsFor(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Divider {
	case "", types.DividerRule, types.DividerBlank:
	default:
		return nil, fmt.Errorf("unknown divider style %q", cfg.Divider)
	}

	logger := logging.GetLogger("cards")
	start := time.Now()

	doc := docx.New()
	doc.Meta.Title = titleOf(cfg)
	doc.SetMargins(margins)

	if cfg.TitlePage {
		if err := writeTitlePage(doc, reg, cfg); err != nil {
			return nil, fmt.Errorf("writing title page: %w", err)
		}
	}

	r := &Renderer{Styles: reg, Brand: a.Brand, Mode: cfg.NameMode}
	total := len(items)
	for i, name := range items {
		index := i + 1
		if err := r.Render(doc, name); err != nil {
			var re *RenderError
			if errors.As(err, &re) {
				re.Index = index
			}
			logger.Debug().Err(err).Int("index", index).Msg("card failed")
			return nil, err
		}
		sep := NextSeparator(index, total, cfg.Cadence)
		if err := writeSeparator(doc, sep, cfg.Divider, reg); err != nil {
			return nil, &RenderError{Index: index, Name: name, Stage: StageBorder, Err: err}
		}
	}

	logger.Info().
		Int("items", total).
		Int("pages", EstimatePages(total, cfg)).
		Str("mode", string(r.Mode)).
		Dur("elapsed", time.Since(start)).
		Msg("document assembled")
	return doc, nil
}

// Assemble builds the document and writes it to w.
func (a *Assembler) Assemble(items []string, w io.Writer) error {
	doc, err := a.Build(items)
	if err != nil {
		return err
	}
	if err := doc.Save(w); err != nil {
		return &SerializationError{Dest: "stream", Err: err}
	}
	return nil
}

// AssembleFile builds the document and writes it to path. On failure no
// file is left at path.
func (a *Assembler) AssembleFile(items []string, path string) error {
	doc, err := a.Build(items)
	if err != nil {
		return err
	}
	if err := doc.SaveFile(path); err != nil {
		return &SerializationError{Dest: path, Err: err}
	}
	return nil
}

// ReadCards returns the item name of every card table in doc, in order.
// A card's name is the text of its right cell's non-empty paragraphs
// joined by single spaces.
func ReadCards(doc *docx.Document) []string {
	var names []string
	for _, t := range doc.Tables() {
		if t.Rows() != 1 || t.Cols() != 2 {
			continue
		}
		cell, err := t.Cell(0, 1)
		if err != nil {
			continue
		}
		var parts []string
		for _, p := range cell.Paragraphs() {
			if text := p.Text(); strings.TrimSpace(text) != "" {
				parts = append(parts, text)
			}
		}
		names = append(names, strings.Join(parts, " "))
	}
	return names
}

func allBlank(items []string) bool {
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			return false
		}
	}
	return true
}

func titleOf(cfg types.RenderConfig) string {
	if cfg.Title != "" {
		return cfg.Title
	}
	return types.DefaultRenderConfig().Title
}

// writeTitlePage writes the heading, subtitle, three blank lines and a page
// break.
func writeTitlePage(doc *docx.Document, reg *style.Registry, cfg types.RenderConfig) error {
	titleStyle, err := reg.Style(style.RoleTitle)
	if err != nil {
		return err
	}
	subStyle, err := reg.Style(style.RoleTitleSubtitle)
	if err != nil {
		return err
	}
	subtitle := cfg.Subtitle
	if subtitle == "" {
		subtitle = types.DefaultRenderConfig().Subtitle
	}
	title := titleOf(cfg)
	for _, s := range []string{title, subtitle} {
		if err := docx.ValidText(s); err != nil {
			return err
		}
	}

	heading, err := doc.AddHeading(title, 1)
	if err != nil {
		return err
	}
	if titleStyle.Align != "" {
		heading.SetAlign(docx.Justification(titleStyle.Align))
	}
	for _, r := range heading.Runs() {
		applyRun(r, titleStyle)
	}
	writeStyled(doc.AddParagraph(), subtitle, subStyle)
	doc.AddParagraph().AddRun(strings.Repeat("\n", 3))
	doc.AddPageBreak()
	return nil
}
