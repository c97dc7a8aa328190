package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Table wraps a w:tbl element.
type Table struct {
	el *etree.Element
}

// newTableElement builds a rows x cols table in which every cell holds one
// empty paragraph.
func newTableElement(rows, cols int) *etree.Element {
	tbl := etree.NewElement(wTag("tbl"))
	tblPr := tbl.CreateElement(wTag("tblPr"))
	tblPr.CreateElement(wTag("tblW")).CreateAttr(wTag("w"), "0")
	tblPr.SelectElement("tblW").CreateAttr(wTag("type"), "auto")
	look := tblPr.CreateElement(wTag("tblLook"))
	look.CreateAttr(wTag("val"), "04A0")

	grid := tbl.CreateElement(wTag("tblGrid"))
	for c := 0; c < cols; c++ {
		grid.CreateElement(wTag("gridCol"))
	}
	for r := 0; r < rows; r++ {
		tr := tbl.CreateElement(wTag("tr"))
		for c := 0; c < cols; c++ {
			tc := tr.CreateElement(wTag("tc"))
			tcPr := tc.CreateElement(wTag("tcPr"))
			w := tcPr.CreateElement(wTag("tcW"))
			w.CreateAttr(wTag("w"), "0")
			w.CreateAttr(wTag("type"), "auto")
			tc.AddChild(newParagraphElement())
		}
	}
	return tbl
}

// Element exposes the underlying w:tbl element.
func (t *Table) Element() *etree.Element {
	return t.el
}

// Props returns the table properties (w:tblPr), creating them if needed.
func (t *Table) Props() *Props {
	return propsOf(t.el, "tblPr")
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return len(t.el.SelectElements("tr"))
}

// Cols returns the number of cells in the first row.
func (t *Table) Cols() int {
	tr := t.el.SelectElement("tr")
	if tr == nil {
		return 0
	}
	return len(tr.SelectElements("tc"))
}

// Cell returns the cell at row r, column c (both zero-based).
func (t *Table) Cell(r, c int) (*Cell, error) {
	rows := t.el.SelectElements("tr")
	if r < 0 || r >= len(rows) {
		return nil, fmt.Errorf("row %d out of range (table has %d rows)", r, len(rows))
	}
	cells := rows[r].SelectElements("tc")
	if c < 0 || c >= len(cells) {
		return nil, fmt.Errorf("column %d out of range (row has %d cells)", c, len(cells))
	}
	return &Cell{el: cells[c]}, nil
}

// Cells returns every cell row by row.
func (t *Table) Cells() [][]*Cell {
	var out [][]*Cell
	for _, tr := range t.el.SelectElements("tr") {
		var row []*Cell
		for _, tc := range tr.SelectElements("tc") {
			row = append(row, &Cell{el: tc})
		}
		out = append(out, row)
	}
	return out
}

// SetFixedLayout stops the consuming application from resizing columns to
// fit their content.
func (t *Table) SetFixedLayout() {
	t.Props().Set("tblLayout", A("type", "fixed"))
}

// FixedLayout reports whether the table uses a fixed layout.
func (t *Table) FixedLayout() bool {
	tblPr := t.el.SelectElement("tblPr")
	if tblPr == nil {
		return false
	}
	l := tblPr.SelectElement("tblLayout")
	return l != nil && l.SelectAttrValue("type", "") == "fixed"
}

// SetColumnWidths fixes the width of each column: the grid columns, every
// cell's w:tcW and the overall table width.
func (t *Table) SetColumnWidths(widths ...Twips) error {
	if len(widths) != t.Cols() {
		return fmt.Errorf("got %d widths for %d columns", len(widths), t.Cols())
	}

	grid := t.el.SelectElement("tblGrid")
	if grid == nil {
		grid = etree.NewElement(wTag("tblGrid"))
		t.el.InsertChildAt(t.Props().Element().Index()+1, grid)
	}
	for _, gc := range grid.SelectElements("gridCol") {
		grid.RemoveChild(gc)
	}
	var total Twips
	for _, w := range widths {
		grid.CreateElement(wTag("gridCol")).CreateAttr(wTag("w"), w.String())
		total += w
	}

	for _, row := range t.Cells() {
		for i, cell := range row {
			if i < len(widths) {
				cell.Props().Set("tcW", A("w", widths[i].String()), A("type", "dxa"))
			}
		}
	}
	t.Props().Set("tblW", A("w", total.String()), A("type", "dxa"))
	return nil
}

// ColumnWidths returns the grid column widths.
func (t *Table) ColumnWidths() []Twips {
	grid := t.el.SelectElement("tblGrid")
	if grid == nil {
		return nil
	}
	var out []Twips
	for _, gc := range grid.SelectElements("gridCol") {
		out = append(out, parseTwips(gc.SelectAttrValue("w", "")))
	}
	return out
}

// Cell wraps a w:tc element.
type Cell struct {
	el *etree.Element
}

// Element exposes the underlying w:tc element.
func (c *Cell) Element() *etree.Element {
	return c.el
}

// Props returns the cell properties (w:tcPr), creating them if needed.
func (c *Cell) Props() *Props {
	return propsOf(c.el, "tcPr")
}

// Clear removes all content and leaves a single empty paragraph, which a
// cell must always contain.
func (c *Cell) Clear() *Paragraph {
	for _, child := range c.el.ChildElements() {
		if child.Tag != "tcPr" {
			c.el.RemoveChild(child)
		}
	}
	p := newParagraphElement()
	c.el.AddChild(p)
	return &Paragraph{el: p}
}

// Paragraphs returns the cell's paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, p := range c.el.SelectElements("p") {
		out = append(out, &Paragraph{el: p})
	}
	return out
}

// FirstParagraph returns the first paragraph, adding one if the cell has none.
func (c *Cell) FirstParagraph() *Paragraph {
	if p := c.el.SelectElement("p"); p != nil {
		return &Paragraph{el: p}
	}
	return c.AddParagraph()
}

// AddParagraph appends a paragraph to the cell.
func (c *Cell) AddParagraph() *Paragraph {
	p := newParagraphElement()
	c.el.AddChild(p)
	return &Paragraph{el: p}
}

// Text returns the cell's paragraph texts joined by newlines.
func (c *Cell) Text() string {
	var parts []string
	for _, p := range c.Paragraphs() {
		parts = append(parts, p.Text())
	}
	return strings.Join(parts, "\n")
}
