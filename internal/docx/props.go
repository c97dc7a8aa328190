package docx

import (
	"github.com/beevik/etree"
)

// Attr is a WordprocessingML attribute. Keys are local names; the "w"
// prefix is added when the attribute is written.
type Attr struct {
	Key   string
	Value string
}

// A is shorthand for building an Attr.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Props is a handle on a properties container (w:pPr, w:rPr, w:tblPr,
// w:tcPr, w:sectPr or a border group such as w:tblBorders). It is the
// escape hatch to the underlying markup: any property element can be
// created, replaced or removed through it, and children are kept in the
// order the schema requires.
type Props struct {
	el    *etree.Element
	order []string
}

// schemaOrder lists the child sequence of each properties container.
var schemaOrder = map[string][]string{
	"pPr": {
		"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr", "widowControl",
		"numPr", "suppressLineNumbers", "pBdr", "shd", "tabs", "suppressAutoHyphens",
		"kinsoku", "wordWrap", "overflowPunct", "topLinePunct", "autoSpaceDE", "autoSpaceDN",
		"bidi", "adjustRightInd", "snapToGrid", "spacing", "ind", "contextualSpacing",
		"mirrorIndents", "suppressOverlap", "jc", "textDirection", "textAlignment",
		"textboxTightWrap", "outlineLvl", "divId", "cnfStyle", "rPr", "sectPr", "pPrChange",
	},
	"rPr": {
		"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike", "dstrike",
		"outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid", "vanish",
		"webHidden", "color", "spacing", "w", "kern", "position", "sz", "szCs", "highlight",
		"u", "effect", "bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em", "lang",
		"eastAsianLayout", "specVanish", "oMath",
	},
	"tblPr": {
		"tblStyle", "tblpPr", "tblOverlap", "bidiVisual", "tblStyleRowBandSize",
		"tblStyleColBandSize", "tblW", "jc", "tblCellSpacing", "tblInd", "tblBorders",
		"shd", "tblLayout", "tblCellMar", "tblLook",
	},
	"tcPr": {
		"cnfStyle", "tcW", "gridSpan", "hMerge", "vMerge", "tcBorders", "shd", "noWrap",
		"tcMar", "textDirection", "tcFitText", "vAlign", "hideMark",
	},
	"sectPr": {
		"headerReference", "footerReference", "footnotePr", "endnotePr", "type", "pgSz",
		"pgMar", "paperSrc", "pgBorders", "lnNumType", "pgNumType", "cols", "formProt",
		"vAlign", "noEndnote", "titlePg", "textDirection", "bidi", "rtlGutter", "docGrid",
		"printerSettings",
	},
	"tblBorders": {"top", "left", "start", "bottom", "right", "end", "insideH", "insideV"},
	"tcBorders":  {"top", "left", "start", "bottom", "right", "end", "insideH", "insideV", "tl2br", "tr2bl"},
	"pBdr":       {"top", "left", "bottom", "right", "between", "bar"},
}

// propsOf returns the properties container tag under parent, creating it as
// the first child when absent.
func propsOf(parent *etree.Element, tag string) *Props {
	el := parent.SelectElement(tag)
	if el == nil {
		el = etree.NewElement(wTag(tag))
		parent.InsertChildAt(0, el)
	}
	return &Props{el: el, order: schemaOrder[tag]}
}

// Element exposes the container element itself.
func (p *Props) Element() *etree.Element {
	return p.el
}

// Get returns the child with the given local name, or nil.
func (p *Props) Get(tag string) *etree.Element {
	return p.el.SelectElement(tag)
}

// Child returns the child with the given local name, creating it in schema
// position when absent.
func (p *Props) Child(tag string) *etree.Element {
	if c := p.el.SelectElement(tag); c != nil {
		return c
	}
	c := etree.NewElement(wTag(tag))
	insertOrdered(p.el, c, p.order)
	return c
}

// Group returns a nested properties container such as w:tblBorders,
// creating it in schema position when absent.
func (p *Props) Group(tag string) *Props {
	return &Props{el: p.Child(tag), order: schemaOrder[tag]}
}

// Set replaces any existing children named tag with a single new element
// carrying attrs. Calling Set twice leaves exactly one element.
func (p *Props) Set(tag string, attrs ...Attr) *etree.Element {
	p.Remove(tag)
	c := etree.NewElement(wTag(tag))
	for _, a := range attrs {
		c.CreateAttr(wTag(a.Key), a.Value)
	}
	insertOrdered(p.el, c, p.order)
	return c
}

// Remove deletes every child named tag.
func (p *Props) Remove(tag string) {
	for _, c := range p.el.SelectElements(tag) {
		p.el.RemoveChild(c)
	}
}

// Val returns the w:val attribute of the child named tag, or "".
func (p *Props) Val(tag string) string {
	c := p.el.SelectElement(tag)
	if c == nil {
		return ""
	}
	return c.SelectAttrValue("val", "")
}

// insertOrdered inserts child into parent before the first existing sibling
// that the schema places after it. Unknown tags are appended.
func insertOrdered(parent, child *etree.Element, order []string) {
	pos := indexOf(order, child.Tag)
	if pos < 0 {
		parent.AddChild(child)
		return
	}
	for i, tok := range parent.Child {
		sib, ok := tok.(*etree.Element)
		if !ok {
			continue
		}
		if sp := indexOf(order, sib.Tag); sp > pos {
			parent.InsertChildAt(i, child)
			return
		}
	}
	parent.AddChild(child)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func wTag(local string) string {
	return "w:" + local
}
