package metrics_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/docflow/metrics"
)

func TestLoadCalibration(t *testing.T) {
	src := `
default: Body Serif
styles:
  bold: 1.1
families:
  - name: Body Serif
    base: serif
    avg_width: 500
    line_height: 1.2
    widths:
      "x": 1000
  - name: Code
    base: mono
    monospace: true
    avg_width: 500
    line_height: 1.1
`
	c, err := metrics.LoadCalibration(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Styles.Regular)
	assert.Equal(t, 1.1, c.Styles.Bold)
	assert.Equal(t, 1.027, c.Styles.BoldItalic)

	m, err := c.Model()
	require.NoError(t, err)

	f := metrics.Font{Family: "body serif", Size: 10}
	assert.InDelta(t, 10, m.Width("x", f), 1e-9)
	assert.InDelta(t, 12, m.LineHeight(f), 1e-9)
	assert.InDelta(t, 11, m.Width("x", metrics.Font{Family: "Body Serif", Bold: true, Size: 10}), 1e-9)
	// unknown families use the configured default
	assert.InDelta(t, 10, m.Width("x", metrics.Font{Family: "Nope", Size: 10}), 1e-9)
	assert.True(t, m.IsMonospace(metrics.Font{Family: "code", Size: 10}))
}

func TestLoadCalibrationRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty":        `default: x`,
		"unknown base": "families:\n  - {name: A, base: gothic, avg_width: 500, line_height: 1}\n",
		"zero height":  "families:\n  - {name: A, avg_width: 500}\n",
		"wide key":     "families:\n  - {name: A, avg_width: 500, line_height: 1, widths: {ab: 3}}\n",
		"bad default":  "default: B\nfamilies:\n  - {name: A, avg_width: 500, line_height: 1}\n",
		"not yaml":     "families: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := metrics.LoadCalibration(strings.NewReader(src))
			assert.ErrorIs(t, err, metrics.ErrInvalidCalibration)
		})
	}
}

func TestDefaultCalibrationEncodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, metrics.DefaultCalibration().Encode(&buf))

	back, err := metrics.LoadCalibration(&buf)
	require.NoError(t, err)
	assert.Len(t, back.Families, len(metrics.DefaultCalibration().Families))
}

func TestFamilyFromSFNT(t *testing.T) {
	mono, err := metrics.FamilyFromSFNT("", gomono.TTF)
	require.NoError(t, err)
	assert.NotEmpty(t, mono.Name)
	assert.True(t, mono.Monospace)
	assert.Greater(t, mono.AvgWidth, 0.0)
	assert.Greater(t, mono.LineHeight, 1.0)

	regular, err := metrics.FamilyFromSFNT("Go Regular", goregular.TTF)
	require.NoError(t, err)
	assert.Equal(t, "Go Regular", regular.Name)
	assert.False(t, regular.Monospace)
	assert.Greater(t, regular.Widths["W"], regular.Widths["i"])

	c := metrics.DefaultCalibration()
	c.Families = append(c.Families, mono, regular)
	m, err := c.Model()
	require.NoError(t, err)
	assert.True(t, m.IsMonospace(metrics.Font{Family: mono.Name, Size: 10}))
	assert.InDelta(t, 2*m.Width("i", metrics.Font{Family: mono.Name, Size: 10}),
		m.Width("iW", metrics.Font{Family: mono.Name, Size: 10}), 1e-9)
}

func TestFamilyFromSFNTRejectsGarbage(t *testing.T) {
	_, err := metrics.FamilyFromSFNT("x", []byte("not a font"))
	assert.Error(t, err)
}
