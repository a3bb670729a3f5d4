package metrics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCalibration wraps every validation failure of a Calibration.
var ErrInvalidCalibration = errors.New("invalid calibration")

// Calibration is the data behind a Model: style factors and per-family
// metrics tuned against the target word processor.
type Calibration struct {
	// Default names the family used for unknown font names.
	Default  string       `yaml:"default"`
	Styles   StyleFactors `yaml:"styles"`
	Families []Family     `yaml:"families"`
}

// StyleFactors multiply the advance of proportional glyphs. Each
// combination is calibrated on its own; BoldItalic is not Bold*Italic.
type StyleFactors struct {
	Regular    float64 `yaml:"regular"`
	Bold       float64 `yaml:"bold"`
	Italic     float64 `yaml:"italic"`
	BoldItalic float64 `yaml:"bold_italic"`
}

func (s StyleFactors) factor(st Style) float64 {
	switch st {
	case StyleBold:
		return s.Bold
	case StyleItalic:
		return s.Italic
	case StyleBoldItalic:
		return s.BoldItalic
	default:
		return s.Regular
	}
}

// Family is one metric table entry.
type Family struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases,omitempty"`
	// Base selects a built-in width table (serif, sans or mono).
	Base  string  `yaml:"base,omitempty"`
	Scale float64 `yaml:"scale,omitempty"`
	// AvgWidth is used for glyphs missing from the table. For fixed-pitch
	// families it is the advance of every glyph.
	AvgWidth   float64 `yaml:"avg_width"`
	Monospace  bool    `yaml:"monospace,omitempty"`
	LineHeight float64 `yaml:"line_height"`
	// Widths overrides single glyphs, keyed by the glyph itself.
	Widths map[string]float64 `yaml:"widths,omitempty"`
}

func defaultStyles() StyleFactors {
	return StyleFactors{Regular: 1, Bold: 1.04, Italic: 1, BoldItalic: 1.027}
}

// DefaultCalibration returns the built-in families.
func DefaultCalibration() Calibration {
	return Calibration{
		Default: "Arial",
		Styles:  defaultStyles(),
		Families: []Family{
			{
				Name:       "Times New Roman",
				Aliases:    []string{"Times", "Times-Roman", "Liberation Serif", "serif"},
				Base:       BaseSerif,
				Scale:      1,
				AvgWidth:   500,
				LineHeight: 1.15,
			},
			{
				Name:       "Arial",
				Aliases:    []string{"Helvetica", "Liberation Sans", "sans-serif"},
				Base:       BaseSans,
				Scale:      1,
				AvgWidth:   556,
				LineHeight: 1.149,
			},
			{
				Name:       "Calibri",
				Aliases:    []string{"Carlito"},
				Base:       BaseSans,
				Scale:      0.9,
				AvgWidth:   556,
				LineHeight: 1.2207,
			},
			{
				Name:       "Courier New",
				Aliases:    []string{"Courier", "Liberation Mono", "monospace"},
				Base:       BaseMono,
				AvgWidth:   600,
				Monospace:  true,
				LineHeight: 1.1328,
			},
			{
				Name:       "Consolas",
				Base:       BaseMono,
				AvgWidth:   550,
				Monospace:  true,
				LineHeight: 1.1641,
			},
		},
	}
}

// LoadCalibration decodes a YAML calibration. Missing style factors are
// taken from the defaults.
func LoadCalibration(r io.Reader) (Calibration, error) {
	var c Calibration
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return Calibration{}, fmt.Errorf("%w: %v", ErrInvalidCalibration, err)
	}
	c.fillDefaults()
	if err := c.Validate(); err != nil {
		return Calibration{}, err
	}
	return c, nil
}

// Encode writes the calibration as YAML.
func (c Calibration) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// WithDefaults returns a copy with missing style factors and scales filled in.
func (c Calibration) WithDefaults() Calibration {
	c.fillDefaults()
	return c
}

func (c *Calibration) fillDefaults() {
	c.Families = append([]Family(nil), c.Families...)
	def := defaultStyles()
	if c.Styles.Regular == 0 {
		c.Styles.Regular = def.Regular
	}
	if c.Styles.Bold == 0 {
		c.Styles.Bold = def.Bold
	}
	if c.Styles.Italic == 0 {
		c.Styles.Italic = def.Italic
	}
	if c.Styles.BoldItalic == 0 {
		c.Styles.BoldItalic = def.BoldItalic
	}
	for i := range c.Families {
		if c.Families[i].Scale == 0 {
			c.Families[i].Scale = 1
		}
	}
}

// Validate checks the calibration for values a Model cannot use.
func (c Calibration) Validate() error {
	if len(c.Families) == 0 {
		return fmt.Errorf("%w: no families", ErrInvalidCalibration)
	}
	for _, v := range []float64{c.Styles.Regular, c.Styles.Bold, c.Styles.Italic, c.Styles.BoldItalic} {
		if v <= 0 {
			return fmt.Errorf("%w: style factors must be positive", ErrInvalidCalibration)
		}
	}
	names := map[string]bool{}
	for _, f := range c.Families {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: family without name", ErrInvalidCalibration)
		}
		if _, ok := baseTables[f.Base]; f.Base != "" && !ok {
			return fmt.Errorf("%w: family %q: unknown base table %q", ErrInvalidCalibration, f.Name, f.Base)
		}
		if f.AvgWidth <= 0 || f.LineHeight <= 0 {
			return fmt.Errorf("%w: family %q: avg_width and line_height must be positive", ErrInvalidCalibration, f.Name)
		}
		for glyph, w := range f.Widths {
			if utf8.RuneCountInString(glyph) != 1 {
				return fmt.Errorf("%w: family %q: width key %q is not a single glyph", ErrInvalidCalibration, f.Name, glyph)
			}
			if w < 0 {
				return fmt.Errorf("%w: family %q: negative width for %q", ErrInvalidCalibration, f.Name, glyph)
			}
		}
		names[normalizeName(f.Name)] = true
		for _, a := range f.Aliases {
			names[normalizeName(a)] = true
		}
	}
	if c.Default != "" && !names[normalizeName(c.Default)] {
		return fmt.Errorf("%w: default family %q is not defined", ErrInvalidCalibration, c.Default)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
