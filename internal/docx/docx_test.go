// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnits(t *testing.T) {
	assert.Equal(t, Twips(1440), Inches(1))
	assert.Equal(t, Twips(3600), Inches(2.5))
	assert.Equal(t, Twips(1200), Points(60))
	assert.InDelta(t, 0.75, Inches(0.75).Inches(), 1e-9)
	assert.InDelta(t, 80.0, Points(80).Points(), 1e-9)
	assert.Equal(t, "720", Inches(0.5).String())
}

func TestPropsSetReplaces(t *testing.T) {
	d := New()
	p := d.AddParagraph()
	r := p.AddRun("x")

	r.SetSize(12)
	r.SetSize(18)
	rPr := r.Props().Element()
	assert.Len(t, rPr.SelectElements("sz"), 1)
	assert.Equal(t, 18.0, r.Size())

	r.SetBold(true)
	r.SetBold(true)
	assert.Len(t, rPr.SelectElements("b"), 1)
	assert.True(t, r.Bold())
	r.SetBold(false)
	assert.False(t, r.Bold())
}

func TestPropsSchemaOrder(t *testing.T) {
	d := New()
	r := d.AddParagraph().AddRun("x")

	// Set out of schema order; the container must come out ordered.
	r.SetSize(10)
	r.SetColor("ff0000")
	r.SetBold(true)
	r.SetFont("Arial")

	var tags []string
	for _, c := range r.Props().Element().ChildElements() {
		tags = append(tags, c.Tag)
	}
	assert.Equal(t, []string{"rFonts", "b", "color", "sz", "szCs"}, tags)
	assert.Equal(t, "FF0000", r.Color())
	assert.Equal(t, "Arial", r.Font())
}

func TestParagraphProperties(t *testing.T) {
	d := New()
	p := d.AddParagraph()
	p.SetAlign(JustifyCenter)
	p.SetSpaceBefore(Points(60))
	p.SetSpaceAfter(0)
	p.SetSpaceBefore(Points(80))

	assert.Equal(t, JustifyCenter, p.Align())
	before, after := p.Spacing()
	assert.Equal(t, Points(80), before)
	assert.Equal(t, Twips(0), after)

	// spacing precedes jc in pPr.
	kids := p.Props().Element().ChildElements()
	require.Len(t, kids, 2)
	assert.Equal(t, "spacing", kids[0].Tag)
	assert.Equal(t, "jc", kids[1].Tag)
}

func TestAddRunLineBreaks(t *testing.T) {
	d := New()
	p := d.AddParagraph()
	p.AddRun("🏨\n")
	p.AddRun("line one\nline two")

	assert.Equal(t, "🏨\nline one\nline two", p.Text())
}

func TestPageBreak(t *testing.T) {
	d := New()
	p := d.AddPageBreak()
	assert.True(t, p.IsPageBreak())
	assert.Equal(t, "", p.Text())
	assert.False(t, d.AddParagraph().IsPageBreak())
}

func TestAddHeading(t *testing.T) {
	d := New()
	h, err := d.AddHeading("Food Items Catalog", 1)
	require.NoError(t, err)
	assert.Equal(t, "Heading1", h.Style())
	assert.Equal(t, "Food Items Catalog", h.Text())

	title, err := d.AddHeading("Cover", 0)
	require.NoError(t, err)
	assert.Equal(t, "Title", title.Style())

	_, err = d.AddHeading("x", 10)
	assert.Error(t, err)
}

func TestMargins(t *testing.T) {
	d := New()
	assert.Equal(t, Margins{Top: 1440, Right: 1440, Bottom: 1440, Left: 1440}, d.Margins())

	m := Margins{Top: Inches(0.75), Right: Inches(1), Bottom: Inches(0.75), Left: Inches(1)}
	d.SetMargins(m)
	assert.Equal(t, m, d.Margins())
	assert.Len(t, d.SectionProps().Element().SelectElements("pgMar"), 1)
}

func TestBlocksKeepSectionLast(t *testing.T) {
	d := New()
	d.AddParagraph().AddRun("a")
	_, err := d.AddTable(1, 2)
	require.NoError(t, err)
	d.AddParagraph().AddRun("b")

	kids := d.body.ChildElements()
	require.Len(t, kids, 4)
	assert.Equal(t, "sectPr", kids[3].Tag)

	blocks := d.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, BlockParagraph, blocks[0].Kind)
	assert.Equal(t, BlockTable, blocks[1].Kind)
	assert.Equal(t, BlockParagraph, blocks[2].Kind)
	assert.Len(t, d.Paragraphs(), 2)
	assert.Len(t, d.Tables(), 1)
}

func TestNewTableIsDetached(t *testing.T) {
	d := New()
	tbl, err := d.NewTable(1, 2)
	require.NoError(t, err)
	assert.Empty(t, d.Tables())

	d.AppendTable(tbl)
	assert.Len(t, d.Tables(), 1)

	_, err = d.NewTable(0, 2)
	assert.Error(t, err)
}

func TestTableGeometry(t *testing.T) {
	d := New()
	tbl, err := d.AddTable(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Rows())
	assert.Equal(t, 2, tbl.Cols())

	require.NoError(t, tbl.SetColumnWidths(Inches(2.5), Inches(4)))
	tbl.SetFixedLayout()
	assert.True(t, tbl.FixedLayout())
	assert.Equal(t, []Twips{3600, 5760}, tbl.ColumnWidths())

	right, err := tbl.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "5760", right.Props().Get("tcW").SelectAttrValue("w", ""))

	assert.Error(t, tbl.SetColumnWidths(Inches(1)))
	_, err = tbl.Cell(0, 2)
	assert.Error(t, err)
	_, err = tbl.Cell(1, 0)
	assert.Error(t, err)
}

func TestCellClear(t *testing.T) {
	d := New()
	tbl, err := d.AddTable(1, 1)
	require.NoError(t, err)
	cell, err := tbl.Cell(0, 0)
	require.NoError(t, err)

	cell.FirstParagraph().AddRun("old")
	cell.AddParagraph().AddRun("older")
	cell.Props().Set("vAlign", A("val", "center"))

	p := cell.Clear()
	p.AddRun("new")
	assert.Len(t, cell.Paragraphs(), 1)
	assert.Equal(t, "new", cell.Text())
	assert.NotNil(t, cell.Props().Get("vAlign"))
}

func TestSaveReadRoundTrip(t *testing.T) {
	d := New()
	d.Meta.Title = "Catalog"
	d.SetMargins(Margins{Top: Inches(0.5), Right: Inches(0.75), Bottom: Inches(0.5), Left: Inches(0.75)})
	d.AddParagraph().AddRun("heading text")
	tbl, err := d.AddTable(1, 2)
	require.NoError(t, err)
	cell, err := tbl.Cell(0, 1)
	require.NoError(t, err)
	cell.FirstParagraph().AddRun("PANEER TIKKA")
	d.AddPageBreak()

	var buf bytes.Buffer
	require.NoError(t, d.Save(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, partContentTypes, names[0])
	for _, want := range []string{partRootRels, partDocument, partDocumentRels, partStyles, partCore, partApp} {
		assert.Contains(t, names, want)
	}

	got, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, "Catalog", got.Meta.Title)
	assert.Equal(t, d.Margins(), got.Margins())

	blocks := got.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, "heading text", blocks[0].Paragraph.Text())
	gotCell, err := blocks[1].Table.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, "PANEER TIKKA", gotCell.Text())
	assert.True(t, blocks[2].Paragraph.IsPageBreak())
}

func TestSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")

	d := New()
	d.AddParagraph().AddRun("hello")
	require.NoError(t, d.SaveFile(path))

	got, err := Open(path)
	require.NoError(t, err)
	require.Len(t, got.Paragraphs(), 1)
	assert.Equal(t, "hello", got.Paragraphs()[0].Text())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestSaveFileMissingDir(t *testing.T) {
	d := New()
	err := d.SaveFile(filepath.Join(t.TempDir(), "missing", "out.docx"))
	assert.Error(t, err)
}

func TestReadRejectsNonDocx(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a zip")), 9)
	assert.ErrorIs(t, err, ErrNotDocx)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("hello.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, ErrNotDocx)
}

func TestValidText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"ascii", "Paneer Tikka", true},
		{"emoji", "🏨 ⭐", true},
		{"tab and newline", "a\tb\nc", true},
		{"nul", "a\x00b", false},
		{"vertical tab", "a\vb", false},
		{"invalid utf8", "a\xffb", false},
		{"noncharacter", "a\uFFFEb", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidText(tt.in)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
