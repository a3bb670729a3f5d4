package wordml

import "math"

// WordprocessingML measures most distances in twentieths of a point, font
// sizes in half points and drawings in English Metric Units.
const (
	TwipsPerPt = 20
	EMUPerPt   = 12700
)

// Twips converts points to twips.
func Twips(pt float64) int { return int(math.Round(pt * TwipsPerPt)) }

// HalfPoints converts a font size in points to half points.
func HalfPoints(pt float64) int { return int(math.Round(pt * 2)) }

// EMU converts points to English Metric Units.
func EMU(pt float64) int64 { return int64(math.Round(pt * EMUPerPt)) }

// LineTwips converts a line spacing multiple to the 240ths used by w:spacing/@w:line.
func LineTwips(multiple float64) int { return int(math.Round(multiple * 240)) }
