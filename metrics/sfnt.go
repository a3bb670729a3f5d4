package metrics

import (
	"fmt"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// measuredRanges are the glyph ranges sampled from a font file.
var measuredRanges = []struct{ lo, hi rune }{
	{0x0020, 0x007e}, // ASCII
	{0x00a0, 0x00ff}, // Latin-1
	{0x0400, 0x045f}, // Cyrillic
	{0x2013, 0x2014},
	{0x201c, 0x201d},
	{0x2026, 0x2026},
	{0x2116, 0x2116},
}

// ppem of 1000 makes 26.6 advances come out in 1/1000 em.
var calibrationPPEM = fixed.I(1000)

// FamilyFromSFNT measures a TrueType/OpenType font and returns a metric
// table entry for it. An empty name uses the family name stored in the font.
func FamilyFromSFNT(name string, data []byte) (Family, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return Family{}, fmt.Errorf("parse font: %w", err)
	}
	var buf sfnt.Buffer
	if name == "" {
		name, err = f.Name(&buf, sfnt.NameIDFamily)
		if err != nil {
			return Family{}, fmt.Errorf("read family name: %w", err)
		}
	}

	widths := map[string]float64{}
	var asciiSum float64
	var asciiCount int
	fixedPitch := true
	firstASCII := -1.0
	for _, rg := range measuredRanges {
		for r := rg.lo; r <= rg.hi; r++ {
			idx, err := f.GlyphIndex(&buf, r)
			if err != nil || idx == 0 {
				continue
			}
			adv, err := f.GlyphAdvance(&buf, idx, calibrationPPEM, font.HintingNone)
			if err != nil {
				return Family{}, fmt.Errorf("advance of %q: %w", r, err)
			}
			w := math.Round(float64(adv) / 64)
			widths[string(r)] = w
			if r < 0x7f {
				asciiSum += w
				asciiCount++
				if firstASCII < 0 {
					firstASCII = w
				} else if w != firstASCII {
					fixedPitch = false
				}
			}
		}
	}
	if asciiCount == 0 {
		return Family{}, fmt.Errorf("font %q has no ASCII glyphs", name)
	}

	m, err := f.Metrics(&buf, calibrationPPEM, font.HintingNone)
	if err != nil {
		return Family{}, fmt.Errorf("read metrics: %w", err)
	}
	fam := Family{
		Name:       name,
		Scale:      1,
		AvgWidth:   math.Round(asciiSum / float64(asciiCount)),
		LineHeight: math.Round(float64(m.Height)/64) / 1000,
	}
	if fixedPitch {
		fam.Base = BaseMono
		fam.Monospace = true
		fam.AvgWidth = firstASCII
	} else {
		fam.Widths = widths
	}
	return fam, nil
}
