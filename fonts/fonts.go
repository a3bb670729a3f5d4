// Package fonts serves the Go font family bundled with golang.org/x/image.
// The preview renderer and the calibrate command use it when no TrueType
// file is configured for a family.
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/docflow/metrics"
)

var (
	proportional = [...][]byte{
		metrics.StyleRegular:    goregular.TTF,
		metrics.StyleBold:       gobold.TTF,
		metrics.StyleItalic:     goitalic.TTF,
		metrics.StyleBoldItalic: gobolditalic.TTF,
	}
	mono = [...][]byte{
		metrics.StyleRegular:    gomono.TTF,
		metrics.StyleBold:       gomonobold.TTF,
		metrics.StyleItalic:     gomonoitalic.TTF,
		metrics.StyleBoldItalic: gomonobolditalic.TTF,
	}
)

// Builtin returns the TrueType data of the Go font matching style.
func Builtin(monospace bool, style metrics.Style) []byte {
	if style < metrics.StyleRegular || style > metrics.StyleBoldItalic {
		style = metrics.StyleRegular
	}
	if monospace {
		return mono[style]
	}
	return proportional[style]
}

// Load returns a built-in face by name, e.g. "go-regular" or
// "builtin:go-mono-bold".
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "builtin:"))
	monospace := strings.HasPrefix(key, "go-mono")
	rest := strings.TrimPrefix(strings.TrimPrefix(key, "go-mono"), "go")
	rest = strings.TrimPrefix(rest, "-")
	style, ok := map[string]metrics.Style{
		"":            metrics.StyleRegular,
		"regular":     metrics.StyleRegular,
		"bold":        metrics.StyleBold,
		"italic":      metrics.StyleItalic,
		"bold-italic": metrics.StyleBoldItalic,
	}[rest]
	if !ok || !strings.HasPrefix(key, "go") {
		return nil, fmt.Errorf("unknown built-in font %q", name)
	}
	return Builtin(monospace, style), nil
}
