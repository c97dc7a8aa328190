package cards

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pdiddy/cardpress/internal/docx"
	"github.com/pdiddy/cardpress/internal/style"
)

// Side is one edge of a table cell.
type Side string

const (
	SideTop    Side = "top"
	SideLeft   Side = "left"
	SideBottom Side = "bottom"
	SideRight  Side = "right"
)

// outerSides are the w:tblBorders children written by ApplyOuterBorder, in
// schema order.
var outerSides = []string{"top", "left", "bottom", "right", "insideH", "insideV"}

func borderAttrs(b style.Border) []docx.Attr {
	return []docx.Attr{
		docx.A("val", "single"),
		docx.A("sz", strconv.Itoa(b.Width)),
		docx.A("space", "0"),
		docx.A("color", b.Color.Hex()),
	}
}

// ApplyOuterBorder draws b on all four outer edges and both inside grid
// lines of t. Any previous table borders are replaced.
func ApplyOuterBorder(t *docx.Table, b style.Border) error {
	if t.Rows() < 1 || t.Cols() < 1 {
		return errors.New("table has no cells")
	}
	tblPr := t.Props()
	tblPr.Remove("tblBorders")
	borders := tblPr.Group("tblBorders")
	attrs := borderAttrs(b)
	for _, side := range outerSides {
		borders.Set(side, attrs...)
	}
	return nil
}

// ApplyCellDivider draws b on one side of c. Other sides of the cell and
// the table borders are left alone.
func ApplyCellDivider(c *docx.Cell, side Side, b style.Border) error {
	switch side {
	case SideTop, SideLeft, SideBottom, SideRight:
	default:
		return fmt.Errorf("unknown cell side %q", side)
	}
	c.Props().Group("tcBorders").Set(string(side), borderAttrs(b)...)
	return nil
}
