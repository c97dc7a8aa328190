package docx

import (
	"math"
	"strconv"
)

// Twips is a length in twentieths of a point, the unit WordprocessingML
// uses for page geometry, widths and paragraph spacing.
type Twips int

const (
	twipsPerInch  = 1440
	twipsPerPoint = 20
)

// Inches converts inches to twips.
func Inches(in float64) Twips {
	return Twips(math.Round(in * twipsPerInch))
}

// Points converts points to twips.
func Points(pt float64) Twips {
	return Twips(math.Round(pt * twipsPerPoint))
}

// Inches returns the length in inches.
func (t Twips) Inches() float64 {
	return float64(t) / twipsPerInch
}

// Points returns the length in points.
func (t Twips) Points() float64 {
	return float64(t) / twipsPerPoint
}

func (t Twips) String() string {
	return strconv.Itoa(int(t))
}

func parseTwips(s string) Twips {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return Twips(n)
}
