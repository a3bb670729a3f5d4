package metrics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSize is returned by Font.Validate for non-positive sizes.
var ErrInvalidSize = errors.New("font size must be positive")

// Font describes a text style for measurement. Size is in points.
type Font struct {
	Family string  `json:"family" yaml:"family"`
	Bold   bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty" yaml:"italic,omitempty"`
	Size   float64 `json:"size" yaml:"size"`
}

// Validate reports whether the font can be measured.
func (f Font) Validate() error {
	if f.Size <= 0 {
		return fmt.Errorf("%w: %q %gpt", ErrInvalidSize, f.Family, f.Size)
	}
	return nil
}

// Style returns the bold/italic combination of the font.
func (f Font) Style() Style {
	switch {
	case f.Bold && f.Italic:
		return StyleBoldItalic
	case f.Bold:
		return StyleBold
	case f.Italic:
		return StyleItalic
	default:
		return StyleRegular
	}
}

func (f Font) String() string {
	var b strings.Builder
	b.WriteString(f.Family)
	if s := f.Style(); s != StyleRegular {
		b.WriteByte(' ')
		b.WriteString(s.String())
	}
	fmt.Fprintf(&b, " %gpt", f.Size)
	return b.String()
}

// Style is one of the four calibrated weight/slant combinations.
type Style int

const (
	StyleRegular Style = iota
	StyleBold
	StyleItalic
	StyleBoldItalic
)

func (s Style) String() string {
	switch s {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleBoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// Measurer estimates text geometry without rasterizing glyphs.
// All distances are in points.
type Measurer interface {
	Width(text string, f Font) float64
	LineHeight(f Font) float64
	IsMonospace(f Font) bool
	// Advance is the per-character width used when breaking text in
	// fixed-pitch mode.
	Advance(f Font) float64
}

func mustValid(f Font) {
	if err := f.Validate(); err != nil {
		panic(err)
	}
}
