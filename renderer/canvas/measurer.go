package canvasrenderer

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/docflow/fonts"
	"github.com/ByLCY/docflow/metrics"
)

// asciiSample is averaged for the advance of proportional faces.
const asciiSample = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// Measurer measures text with real font outlines. It satisfies
// metrics.Measurer and serves as a reference for calibrated models.
type Measurer struct {
	fonts map[string]Resource

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
	monospace    map[string]bool
}

var _ metrics.Measurer = (*Measurer)(nil)

// NewMeasurer returns a measurer over the given faces; families without a
// face use the Go fonts.
func NewMeasurer(faces map[string]Resource) *Measurer {
	m := &Measurer{
		fonts:        map[string]Resource{},
		fontFamilies: map[string]*canvas.FontFamily{},
		monospace:    map[string]bool{},
	}
	for name, res := range faces {
		if name == "" {
			continue
		}
		m.fonts[strings.ToLower(name)] = res
	}
	return m
}

// Width returns the advance of text in points.
func (m *Measurer) Width(text string, f metrics.Font) float64 {
	if text == "" {
		return 0
	}
	return toPt(m.mustFace(f).TextWidth(text))
}

// LineHeight returns the font's ascent+descent+line gap in points.
func (m *Measurer) LineHeight(f metrics.Font) float64 {
	return toPt(m.mustFace(f).Metrics().LineHeight)
}

// IsMonospace reports whether the narrowest and widest Latin glyphs share
// an advance.
func (m *Measurer) IsMonospace(f metrics.Font) bool {
	key := strings.ToLower(f.Family)
	m.fontMu.Lock()
	mono, ok := m.monospace[key]
	m.fontMu.Unlock()
	if ok {
		return mono
	}
	face := m.mustFace(metrics.Font{Family: f.Family, Size: 10})
	mono = face.TextWidth("i") == face.TextWidth("W")
	m.fontMu.Lock()
	m.monospace[key] = mono
	m.fontMu.Unlock()
	return mono
}

func (m *Measurer) Advance(f metrics.Font) float64 {
	if m.IsMonospace(f) {
		return m.Width("0", f)
	}
	return m.Width(asciiSample, f) / float64(len(asciiSample))
}

func (m *Measurer) mustFace(f metrics.Font) *canvas.FontFace {
	face, err := m.face(f, canvas.Black)
	if err != nil {
		panic(err)
	}
	return face
}

func (m *Measurer) face(f metrics.Font, col color.Color) (*canvas.FontFace, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	family, err := m.ensureFontFamily(f.Family)
	if err != nil {
		return nil, err
	}
	return family.Face(f.Size, col, fontStyle(f.Style()), canvas.FontNormal), nil
}

// ensureFontFamily loads all four styles of a family once. A configured
// face without style variants is registered under every style.
func (m *Measurer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	key := strings.ToLower(name)
	m.fontMu.Lock()
	defer m.fontMu.Unlock()

	if family, ok := m.fontFamilies[key]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(name)
	for _, st := range []metrics.Style{metrics.StyleRegular, metrics.StyleBold, metrics.StyleItalic, metrics.StyleBoldItalic} {
		data, err := m.loadFontBytes(key, st)
		if err != nil {
			return nil, err
		}
		if err := family.LoadFont(data, 0, fontStyle(st)); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
	}
	m.fontFamilies[key] = family
	return family, nil
}

func (m *Measurer) loadFontBytes(key string, st metrics.Style) ([]byte, error) {
	res, ok := m.fonts[key]
	switch {
	case !ok:
		return fonts.Builtin(looksMonospace(key), st), nil
	case len(res.Bytes) > 0:
		return res.Bytes, nil
	case strings.HasPrefix(res.Path, "builtin:"):
		return fonts.Load(res.Path)
	}
	data, err := os.ReadFile(res.Path)
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
	}
	return data, nil
}

// looksMonospace picks Go Mono for families that are conventionally
// fixed-pitch when no face is configured.
func looksMonospace(family string) bool {
	for _, hint := range []string{"mono", "courier", "consolas", "code"} {
		if strings.Contains(family, hint) {
			return true
		}
	}
	return false
}

func fontStyle(st metrics.Style) canvas.FontStyle {
	switch st {
	case metrics.StyleBold:
		return canvas.FontBold
	case metrics.StyleItalic:
		return canvas.FontRegular | canvas.FontItalic
	case metrics.StyleBoldItalic:
		return canvas.FontBold | canvas.FontItalic
	default:
		return canvas.FontRegular
	}
}
