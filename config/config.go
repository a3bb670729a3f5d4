// Package config holds the page, style and layout policy settings of a
// render. Values are kept as written (lengths like "20mm" or "14pt") and
// resolved by the layout package.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/docflow/metrics"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Style names used by the layout engine.
const (
	StyleBody             = "Body"
	StyleCode             = "Code"
	StyleCaption          = "Caption"
	StyleFormulaContent   = "Formula Content"
	StyleFormulaNumbering = "Formula Numbering"
	StyleTableText        = "Table Text"
	StyleImage            = "Image"
)

// HeadingStyle returns the style name of a heading level.
func HeadingStyle(level int) string { return fmt.Sprintf("Heading%d", level) }

// Config is the complete render configuration.
type Config struct {
	Page        Page                 `yaml:"page"`
	Styles      map[string]Style     `yaml:"styles"`
	Layout      Layout               `yaml:"layout"`
	Captions    Captions             `yaml:"captions"`
	Calibration *metrics.Calibration `yaml:"calibration,omitempty"`
}

// Page describes the paper and margins.
type Page struct {
	Size        string `yaml:"size"`
	Orientation string `yaml:"orientation"`
	Width       string `yaml:"width,omitempty"`
	Height      string `yaml:"height,omitempty"`
	// Margin follows CSS order: top right bottom left, 1 to 4 values.
	Margin string `yaml:"margin"`
}

// Style is a named set of properties that may extend another style.
type Style struct {
	Extends string            `yaml:"extends,omitempty"`
	Props   map[string]string `yaml:",inline"`
}

// Layout holds the pagination policy constants.
type Layout struct {
	ListingOffset        string  `yaml:"listing_offset"`
	EquationHeight       string  `yaml:"equation_height"`
	EquationNumberWidth  string  `yaml:"equation_number_width"`
	CellMargin           string  `yaml:"cell_margin"`
	MinLinesAfterHeading int     `yaml:"min_lines_after_heading"`
	WidowLines           int     `yaml:"widow_lines"`
	ImageDPI             float64 `yaml:"image_dpi"`
}

// Captions are the words used in numbered captions and SEQ fields.
type Captions struct {
	Figure       string `yaml:"figure"`
	Table        string `yaml:"table"`
	Listing      string `yaml:"listing"`
	Equation     string `yaml:"equation"`
	Continuation string `yaml:"continuation"`
	Separator    string `yaml:"separator"`
}

// Default returns an A4 setup with the usual thesis formatting.
func Default() *Config {
	return &Config{
		Page: Page{
			Size:        "A4",
			Orientation: "portrait",
			Margin:      "20mm 10mm 20mm 30mm",
		},
		Styles: map[string]Style{
			StyleBody: {Props: map[string]string{
				"font":               "Times New Roman",
				"size":               "14pt",
				"first-line-indent":  "1.25cm",
				"line-spacing":       "1.5",
				"align":              "both",
				"widow-control":      "true",
				"contextual-spacing": "false",
			}},
			StyleCode: {Props: map[string]string{
				"font":              "Courier New",
				"size":              "12pt",
				"first-line-indent": "0",
				"line-spacing":      "1",
				"align":             "left",
			}},
			StyleCaption: {Extends: StyleBody, Props: map[string]string{
				"first-line-indent": "0",
				"align":             "center",
				"spacing-after":     "6pt",
			}},
			StyleTableText: {Extends: StyleBody, Props: map[string]string{
				"first-line-indent": "0",
				"line-spacing":      "1",
				"align":             "left",
			}},
			StyleFormulaContent: {Extends: StyleBody, Props: map[string]string{
				"first-line-indent": "0",
				"line-spacing":      "1",
				"align":             "center",
			}},
			StyleFormulaNumbering: {Extends: StyleFormulaContent, Props: map[string]string{
				"align": "right",
			}},
			StyleImage: {Extends: StyleBody, Props: map[string]string{
				"first-line-indent": "0",
				"line-spacing":      "1",
				"align":             "center",
				"keep-with-next":    "true",
			}},
			HeadingStyle(1): {Extends: StyleBody, Props: map[string]string{
				"size":           "16pt",
				"bold":           "true",
				"spacing-before": "12pt",
				"spacing-after":  "12pt",
				"keep-with-next": "true",
				"line-spacing":   "1",
			}},
			HeadingStyle(2): {Extends: HeadingStyle(1), Props: map[string]string{
				"size": "14pt",
			}},
			HeadingStyle(3): {Extends: HeadingStyle(2), Props: map[string]string{
				"italic": "true",
			}},
		},
		Layout: Layout{
			ListingOffset:        "14pt",
			EquationHeight:       "50pt",
			EquationNumberWidth:  "30pt",
			CellMargin:           "5.4pt",
			MinLinesAfterHeading: 2,
			WidowLines:           2,
			ImageDPI:             96,
		},
		Captions: Captions{
			Figure:       "Figure",
			Table:        "Table",
			Listing:      "Listing",
			Equation:     "Equation",
			Continuation: "Continuation of listing",
			Separator:    " – ",
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Styles present in the input
// replace the default style of the same name.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if cfg.Calibration != nil {
		c := cfg.Calibration.WithDefaults()
		cfg.Calibration = &c
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var pageSizes = map[string]bool{"A3": true, "A4": true, "A5": true, "LETTER": true}

// Validate checks the values that do not need unit resolution.
func (c *Config) Validate() error {
	custom := c.Page.Width != "" || c.Page.Height != ""
	if custom && (c.Page.Width == "" || c.Page.Height == "") {
		return fmt.Errorf("%w: page width and height must be set together", ErrInvalid)
	}
	if !custom && !pageSizes[strings.ToUpper(c.Page.Size)] {
		return fmt.Errorf("%w: unsupported page size %q", ErrInvalid, c.Page.Size)
	}
	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: unknown orientation %q", ErrInvalid, c.Page.Orientation)
	}
	if n := len(strings.Fields(c.Page.Margin)); n > 4 {
		return fmt.Errorf("%w: margin takes at most 4 values, got %d", ErrInvalid, n)
	}
	if _, ok := c.Styles[StyleBody]; !ok {
		return fmt.Errorf("%w: style %s is required", ErrInvalid, StyleBody)
	}
	if c.Layout.MinLinesAfterHeading < 0 {
		return fmt.Errorf("%w: min_lines_after_heading must not be negative", ErrInvalid)
	}
	if c.Layout.WidowLines < 1 {
		return fmt.Errorf("%w: widow_lines must be at least 1", ErrInvalid)
	}
	if c.Layout.ImageDPI <= 0 {
		return fmt.Errorf("%w: image_dpi must be positive", ErrInvalid)
	}
	if c.Calibration != nil {
		if err := c.Calibration.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

// Measurer returns the metrics model of the configured calibration.
func (c *Config) Measurer() (*metrics.Model, error) {
	if c.Calibration == nil {
		return metrics.Default(), nil
	}
	return metrics.NewModel(*c.Calibration)
}
