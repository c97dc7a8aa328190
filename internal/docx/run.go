package docx

import (
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Run wraps a w:r element.
type Run struct {
	el *etree.Element
}

// Element exposes the underlying w:r element.
func (r *Run) Element() *etree.Element {
	return r.el
}

// Props returns the run properties (w:rPr), creating them if needed.
func (r *Run) Props() *Props {
	return propsOf(r.el, "rPr")
}

// SetBold turns bold on or off.
func (r *Run) SetBold(on bool) {
	r.setToggle("b", on)
}

// SetItalic turns italic on or off.
func (r *Run) SetItalic(on bool) {
	r.setToggle("i", on)
}

func (r *Run) setToggle(tag string, on bool) {
	if on {
		r.Props().Set(tag)
		return
	}
	r.Props().Remove(tag)
}

// SetSize sets the font size in points.
func (r *Run) SetSize(pt float64) {
	half := strconv.Itoa(int(math.Round(pt * 2)))
	p := r.Props()
	p.Set("sz", A("val", half))
	p.Set("szCs", A("val", half))
}

// SetFont sets the font family for every script slot.
func (r *Run) SetFont(name string) {
	r.Props().Set("rFonts",
		A("ascii", name), A("hAnsi", name), A("cs", name), A("eastAsia", name))
}

// SetColor sets the text color from six hex digits.
func (r *Run) SetColor(hex string) {
	r.Props().Set("color", A("val", strings.ToUpper(hex)))
}

// Bold reports whether the run is bold.
func (r *Run) Bold() bool {
	return r.toggle("b")
}

// Italic reports whether the run is italic.
func (r *Run) Italic() bool {
	return r.toggle("i")
}

func (r *Run) toggle(tag string) bool {
	rPr := r.el.SelectElement("rPr")
	if rPr == nil {
		return false
	}
	el := rPr.SelectElement(tag)
	if el == nil {
		return false
	}
	switch el.SelectAttrValue("val", "true") {
	case "0", "false", "off":
		return false
	}
	return true
}

// Size returns the font size in points, or 0 when unset.
func (r *Run) Size() float64 {
	v := r.prop("sz", "val")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return float64(n) / 2
}

// Font returns the ASCII font family, or "".
func (r *Run) Font() string {
	return r.prop("rFonts", "ascii")
}

// Color returns the text color hex, or "".
func (r *Run) Color() string {
	return r.prop("color", "val")
}

func (r *Run) prop(tag, attr string) string {
	rPr := r.el.SelectElement("rPr")
	if rPr == nil {
		return ""
	}
	el := rPr.SelectElement(tag)
	if el == nil {
		return ""
	}
	return el.SelectAttrValue(attr, "")
}

// Text returns the run's text.
func (r *Run) Text() string {
	var b strings.Builder
	collectText(r.el, &b)
	return b.String()
}
