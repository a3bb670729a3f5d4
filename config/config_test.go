package config_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/metrics"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Times New Roman", cfg.Styles[config.StyleBody].Props["font"])
	assert.Equal(t, config.StyleBody, cfg.Styles[config.StyleCaption].Extends)
	assert.Equal(t, "Heading2", config.HeadingStyle(2))

	m, err := cfg.Measurer()
	require.NoError(t, err)
	assert.Same(t, metrics.Default(), m)
}

func TestParseOverridesDefaults(t *testing.T) {
	src := `
page:
  size: A5
  orientation: landscape
  margin: 15mm
styles:
  Body:
    font: Arial
    size: 12pt
layout:
  widow_lines: 3
captions:
  figure: Рисунок
`
	cfg, err := config.Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "A5", cfg.Page.Size)
	assert.Equal(t, "landscape", cfg.Page.Orientation)
	assert.Equal(t, "15mm", cfg.Page.Margin)
	assert.Equal(t, map[string]string{"font": "Arial", "size": "12pt"}, cfg.Styles[config.StyleBody].Props)
	// Styles not mentioned keep their defaults.
	assert.Equal(t, "Courier New", cfg.Styles[config.StyleCode].Props["font"])
	assert.Equal(t, 3, cfg.Layout.WidowLines)
	assert.Equal(t, 2, cfg.Layout.MinLinesAfterHeading)
	assert.Equal(t, "Рисунок", cfg.Captions.Figure)
	assert.Equal(t, "Table", cfg.Captions.Table)
}

func TestParseEmptyInput(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParseCalibration(t *testing.T) {
	src := `
calibration:
  default: Mono
  styles:
    bold: 1.1
  families:
    - name: Mono
      base: mono
      avg_width: 600
      monospace: true
      line_height: 1.2
`
	cfg, err := config.Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.NotNil(t, cfg.Calibration)
	assert.Equal(t, 1.0, cfg.Calibration.Styles.Regular)
	assert.Equal(t, 1.1, cfg.Calibration.Styles.Bold)

	m, err := cfg.Measurer()
	require.NoError(t, err)
	assert.True(t, m.IsMonospace(metrics.Font{Family: "anything", Size: 10}))
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":    "pages: {}\n",
		"page size":        "page: {size: B7}\n",
		"orientation":      "page: {orientation: sideways}\n",
		"half custom size": "page: {width: 100mm}\n",
		"margin values":    "page: {margin: 1mm 2mm 3mm 4mm 5mm}\n",
		"widow lines":      "layout: {widow_lines: 0}\n",
		"negative heading": "layout: {min_lines_after_heading: -1}\n",
		"image dpi":        "layout: {image_dpi: 0}\n",
		"calibration":      "calibration: {families: []}\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse(strings.NewReader(src))
			assert.ErrorIs(t, err, config.ErrInvalid)
		})
	}
}

func TestParseCustomPage(t *testing.T) {
	cfg, err := config.Parse(strings.NewReader("page: {size: '', width: 100mm, height: 150mm}\n"))
	require.NoError(t, err)
	assert.Equal(t, "100mm", cfg.Page.Width)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(t.TempDir() + "/missing.yaml")
	assert.Error(t, err)
}
