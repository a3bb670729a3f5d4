package metrics

import (
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Model is a table-driven Measurer. It is immutable after construction and
// safe for concurrent use.
type Model struct {
	styles   StyleFactors
	families map[string]*family
	names    []string
	fallback *family
}

var _ Measurer = (*Model)(nil)

type family struct {
	spec  Family
	scale float64
	table map[rune]float64
}

var defaultModel = sync.OnceValue(func() *Model {
	m, err := NewModel(DefaultCalibration())
	if err != nil {
		panic(err)
	}
	return m
})

// Default returns the model built from DefaultCalibration.
func Default() *Model { return defaultModel() }

// Model builds a Model from the calibration.
func (c Calibration) Model() (*Model, error) { return NewModel(c) }

// NewModel validates the calibration and builds the lookup tables.
func NewModel(c Calibration) (*Model, error) {
	c.fillDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		styles:   c.Styles,
		families: make(map[string]*family, len(c.Families)),
	}
	for _, spec := range c.Families {
		fam := &family{spec: spec, scale: spec.Scale, table: map[rune]float64{}}
		if fam.scale == 0 {
			fam.scale = 1
		}
		for r, w := range baseTables[spec.Base] {
			fam.table[r] = w
		}
		for glyph, w := range spec.Widths {
			r, _ := utf8.DecodeRuneInString(glyph)
			fam.table[r] = w
		}
		m.families[normalizeName(spec.Name)] = fam
		m.names = append(m.names, spec.Name)
		for _, a := range spec.Aliases {
			m.families[normalizeName(a)] = fam
		}
	}
	if c.Default != "" {
		m.fallback = m.families[normalizeName(c.Default)]
	}
	if m.fallback == nil {
		m.fallback = m.firstProportional(c)
	}
	sort.Strings(m.names)
	return m, nil
}

func (m *Model) firstProportional(c Calibration) *family {
	for _, spec := range c.Families {
		if !spec.Monospace {
			return m.families[normalizeName(spec.Name)]
		}
	}
	return m.families[normalizeName(c.Families[0].Name)]
}

// Families lists the canonical family names known to the model.
func (m *Model) Families() []string {
	return append([]string(nil), m.names...)
}

// Known reports whether name resolves to a calibrated family rather than
// the fallback.
func (m *Model) Known(name string) bool {
	_, ok := m.families[normalizeName(name)]
	return ok
}

func (m *Model) lookup(name string) *family {
	if fam, ok := m.families[normalizeName(name)]; ok {
		return fam
	}
	return m.fallback
}

// Width sums glyph advances of the NFC-normalized text.
func (m *Model) Width(text string, f Font) float64 {
	mustValid(f)
	if text == "" {
		return 0
	}
	fam := m.lookup(f.Family)
	var units float64
	for _, r := range norm.NFC.String(text) {
		units += fam.advance(r)
	}
	w := units * f.Size / 1000
	if !fam.spec.Monospace {
		w *= m.styles.factor(f.Style())
	}
	return w
}

// LineHeight is the vertical space of one single-spaced line.
func (m *Model) LineHeight(f Font) float64 {
	mustValid(f)
	return f.Size * m.lookup(f.Family).spec.LineHeight
}

// IsMonospace depends on the family only.
func (m *Model) IsMonospace(f Font) bool {
	return m.lookup(f.Family).spec.Monospace
}

// Advance returns the fixed-pitch advance for monospace families and the
// average glyph width otherwise.
func (m *Model) Advance(f Font) float64 {
	mustValid(f)
	fam := m.lookup(f.Family)
	w := fam.spec.AvgWidth * f.Size / 1000
	if fam.spec.Monospace {
		return w
	}
	return w * fam.scale * m.styles.factor(f.Style())
}

func (f *family) advance(r rune) float64 {
	switch {
	case r == '\t':
		return 4 * f.advance(' ')
	case unicode.In(r, unicode.Mn, unicode.Me):
		return 0
	case unicode.IsControl(r):
		return 0
	}
	wide := isWide(r)
	if f.spec.Monospace {
		if wide {
			return 2 * f.spec.AvgWidth
		}
		return f.spec.AvgWidth
	}
	if w, ok := f.table[r]; ok {
		return w * f.scale
	}
	if wide {
		return 1000
	}
	return f.spec.AvgWidth * f.scale
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
