package docx

import (
	"strings"

	"github.com/beevik/etree"
)

// Justification is a paragraph alignment value (w:jc).
type Justification string

const (
	JustifyLeft   Justification = "left"
	JustifyCenter Justification = "center"
	JustifyRight  Justification = "right"
)

// Paragraph wraps a w:p element.
type Paragraph struct {
	el *etree.Element
}

func newParagraphElement() *etree.Element {
	return etree.NewElement(wTag("p"))
}

// Element exposes the underlying w:p element.
func (p *Paragraph) Element() *etree.Element {
	return p.el
}

// Props returns the paragraph properties (w:pPr), creating them if needed.
func (p *Paragraph) Props() *Props {
	return propsOf(p.el, "pPr")
}

// AddRun appends a run holding text. Newlines in text become line breaks.
func (p *Paragraph) AddRun(text string) *Run {
	r := etree.NewElement(wTag("r"))
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement(wTag("br"))
		}
		if line == "" {
			continue
		}
		t := r.CreateElement(wTag("t"))
		t.CreateAttr("xml:space", "preserve")
		t.SetText(line)
	}
	p.el.AddChild(r)
	return &Run{el: r}
}

// AddBreak appends a run holding a single break of the given type
// ("" for a line break, "page" for a page break).
func (p *Paragraph) AddBreak(kind string) *Run {
	r := p.el.CreateElement(wTag("r"))
	br := r.CreateElement(wTag("br"))
	if kind != "" {
		br.CreateAttr(wTag("type"), kind)
	}
	return &Run{el: r}
}

// Runs returns the paragraph's direct runs in order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, r := range p.el.SelectElements("r") {
		runs = append(runs, &Run{el: r})
	}
	return runs
}

// SetStyle sets the paragraph style id (w:pStyle).
func (p *Paragraph) SetStyle(id string) {
	p.Props().Set("pStyle", A("val", id))
}

// Style returns the paragraph style id, or "".
func (p *Paragraph) Style() string {
	if pPr := p.el.SelectElement("pPr"); pPr != nil {
		if s := pPr.SelectElement("pStyle"); s != nil {
			return s.SelectAttrValue("val", "")
		}
	}
	return ""
}

// SetAlign sets the paragraph justification.
func (p *Paragraph) SetAlign(j Justification) {
	p.Props().Set("jc", A("val", string(j)))
}

// Align returns the paragraph justification, or "" when unset.
func (p *Paragraph) Align() Justification {
	if pPr := p.el.SelectElement("pPr"); pPr != nil {
		if jc := pPr.SelectElement("jc"); jc != nil {
			return Justification(jc.SelectAttrValue("val", ""))
		}
	}
	return ""
}

// SetSpaceBefore sets the space above the paragraph.
func (p *Paragraph) SetSpaceBefore(t Twips) {
	p.Props().Child("spacing").CreateAttr(wTag("before"), t.String())
}

// SetSpaceAfter sets the space below the paragraph.
func (p *Paragraph) SetSpaceAfter(t Twips) {
	p.Props().Child("spacing").CreateAttr(wTag("after"), t.String())
}

// SetSpacing sets the space above and below the paragraph, in points.
func (p *Paragraph) SetSpacing(before, after float64) {
	p.SetSpaceBefore(Points(before))
	p.SetSpaceAfter(Points(after))
}

// Spacing returns the space before and after the paragraph.
func (p *Paragraph) Spacing() (before, after Twips) {
	pPr := p.el.SelectElement("pPr")
	if pPr == nil {
		return 0, 0
	}
	s := pPr.SelectElement("spacing")
	if s == nil {
		return 0, 0
	}
	return parseTwips(s.SelectAttrValue("before", "")), parseTwips(s.SelectAttrValue("after", ""))
}

// IsPageBreak reports whether the paragraph holds a page break.
func (p *Paragraph) IsPageBreak() bool {
	for _, br := range p.el.FindElements(".//br") {
		if br.SelectAttrValue("type", "") == "page" {
			return true
		}
	}
	return false
}

// Text returns the paragraph's text: w:t content in document order, tabs
// as "\t" and line breaks as "\n". Page and column breaks contribute
// nothing.
func (p *Paragraph) Text() string {
	var b strings.Builder
	collectText(p.el, &b)
	return b.String()
}

func collectText(el *etree.Element, b *strings.Builder) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "pPr", "rPr":
			continue
		case "t":
			b.WriteString(child.Text())
		case "tab":
			b.WriteByte('\t')
		case "cr":
			b.WriteByte('\n')
		case "br":
			switch child.SelectAttrValue("type", "") {
			case "", "textWrapping":
				b.WriteByte('\n')
			}
		default:
			collectText(child, b)
		}
	}
}
