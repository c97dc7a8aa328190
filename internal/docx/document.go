// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx builds and reads WordprocessingML (DOCX) documents.
//
// Paragraphs, runs, tables and cells are thin wrappers over a beevik/etree
// element tree. Anything the wrappers do not cover (border colors, widths,
// layout flags) is reached through Props, which edits the property
// containers of the markup directly.
package docx

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
)

const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsCP = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC = "http://purl.org/dc/elements/1.1/"
	nsDT = "http://purl.org/dc/terms/"
	nsXS = "http://www.w3.org/2001/XMLSchema-instance"
	nsEP = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
)

// US Letter, the page size new documents use.
var (
	letterWidth  = Inches(8.5)
	letterHeight = Inches(11)
)

// Metadata is written to docProps/core.xml.
type Metadata struct {
	Title   string
	Subject string
	Creator string
	Created time.Time
}

// Margins are the four page margins.
type Margins struct {
	Top    Twips
	Right  Twips
	Bottom Twips
	Left   Twips
}

// Document is an in-memory WordprocessingML document.
type Document struct {
	Meta Metadata

	xml  *etree.Document
	body *etree.Element
}

// New creates an empty US Letter document with one-inch margins.
func New() *Document {
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := x.CreateElement(wTag("document"))
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	body := root.CreateElement(wTag("body"))

	d := &Document{
		Meta: Metadata{Creator: "cardpress", Created: time.Now().UTC()},
		xml:  x,
		body: body,
	}

	sect := d.sectionProps()
	sect.Set("pgSz", A("w", letterWidth.String()), A("h", letterHeight.String()))
	d.SetMargins(Margins{Top: Inches(1), Right: Inches(1), Bottom: Inches(1), Left: Inches(1)})
	sect.Set("cols", A("space", Inches(0.5).String()))
	sect.Set("docGrid", A("linePitch", "360"))
	return d
}

// sectionProps returns the body-level w:sectPr, which must stay the last
// child of the body.
func (d *Document) sectionProps() *Props {
	el := d.body.SelectElement("sectPr")
	if el == nil {
		el = d.body.CreateElement(wTag("sectPr"))
	}
	return &Props{el: el, order: schemaOrder["sectPr"]}
}

// SectionProps exposes the section properties for direct editing.
func (d *Document) SectionProps() *Props {
	return d.sectionProps()
}

// SetMargins sets the page margins. Header and footer distances are kept at
// half an inch.
func (d *Document) SetMargins(m Margins) {
	d.sectionProps().Set("pgMar",
		A("top", m.Top.String()),
		A("right", m.Right.String()),
		A("bottom", m.Bottom.String()),
		A("left", m.Left.String()),
		A("header", Inches(0.5).String()),
		A("footer", Inches(0.5).String()),
		A("gutter", "0"),
	)
}

// Margins returns the page margins.
func (d *Document) Margins() Margins {
	pgMar := d.sectionProps().Get("pgMar")
	if pgMar == nil {
		return Margins{}
	}
	return Margins{
		Top:    parseTwips(pgMar.SelectAttrValue("top", "")),
		Right:  parseTwips(pgMar.SelectAttrValue("right", "")),
		Bottom: parseTwips(pgMar.SelectAttrValue("bottom", "")),
		Left:   parseTwips(pgMar.SelectAttrValue("left", "")),
	}
}

// insertBlock adds a block-level element to the end of the body, ahead of
// the section properties.
func (d *Document) insertBlock(el *etree.Element) {
	if sect := d.body.SelectElement("sectPr"); sect != nil {
		d.body.InsertChildAt(sect.Index(), el)
		return
	}
	d.body.AddChild(el)
}

// AddParagraph appends an empty paragraph.
func (d *Document) AddParagraph() *Paragraph {
	p := newParagraphElement()
	d.insertBlock(p)
	return &Paragraph{el: p}
}

// AddHeading appends a heading paragraph. Level 0 uses the Title style,
// levels 1-9 use Heading1..Heading9.
func (d *Document) AddHeading(text string, level int) (*Paragraph, error) {
	if level < 0 || level > 9 {
		return nil, fmt.Errorf("heading level %d out of range 0..9", level)
	}
	p := d.AddParagraph()
	if level == 0 {
		p.SetStyle("Title")
	} else {
		p.SetStyle(fmt.Sprintf("Heading%d", level))
	}
	p.AddRun(text)
	return p, nil
}

// AddPageBreak appends a paragraph holding a page break.
func (d *Document) AddPageBreak() *Paragraph {
	p := d.AddParagraph()
	p.AddBreak("page")
	return p
}

// NewTable builds a rows x cols table that is not yet part of the
// document. Nothing in the document changes until AppendTable is called.
func (d *Document) NewTable(rows, cols int) (*Table, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("table needs at least one row and column, got %dx%d", rows, cols)
	}
	return &Table{el: newTableElement(rows, cols)}, nil
}

// AppendTable appends a table built with NewTable.
func (d *Document) AppendTable(t *Table) {
	d.insertBlock(t.el)
}

// AddTable builds and appends a rows x cols table.
func (d *Document) AddTable(rows, cols int) (*Table, error) {
	t, err := d.NewTable(rows, cols)
	if err != nil {
		return nil, err
	}
	d.AppendTable(t)
	return t, nil
}

// BlockKind identifies a body-level node.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockTable
)

// Block is one body-level node in document order.
type Block struct {
	Kind      BlockKind
	Paragraph *Paragraph
	Table     *Table
}

// Blocks returns the body's paragraphs and tables in document order.
func (d *Document) Blocks() []Block {
	var out []Block
	for _, el := range d.body.ChildElements() {
		switch el.Tag {
		case "p":
			out = append(out, Block{Kind: BlockParagraph, Paragraph: &Paragraph{el: el}})
		case "tbl":
			out = append(out, Block{Kind: BlockTable, Table: &Table{el: el}})
		}
	}
	return out
}

// Paragraphs returns the body-level paragraphs, excluding those inside
// tables.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Blocks() {
		if b.Kind == BlockParagraph {
			out = append(out, b.Paragraph)
		}
	}
	return out
}

// Tables returns the body-level tables.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.Blocks() {
		if b.Kind == BlockTable {
			out = append(out, b.Table)
		}
	}
	return out
}
