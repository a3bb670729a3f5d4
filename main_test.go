package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/docflow/metrics"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "note.dfl")
	require.NoError(t, os.WriteFile(input, []byte(`doc Note v1 {
  page A5 {
    heading 1 "Hello ${name}"
    "Body text."
  }
}
`), 0o644))
	data := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(data, []byte("name: Ada\n"), 0o644))

	out, err := execute(t, "render", input,
		"--data", data,
		"--preview", filepath.Join(dir, "out", "note.pdf"),
		"--debug", filepath.Join(dir, "out", "note.json"))
	require.NoError(t, err, out)

	for _, name := range []string{"note.docx", "out/note.pdf", "out/note.json"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
	assert.Contains(t, out, "note.docx")

	debug, err := os.ReadFile(filepath.Join(dir, "out", "note.json"))
	require.NoError(t, err)
	assert.Contains(t, string(debug), "Hello Ada")
}

func TestRenderCommandErrors(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.dfl"))
	assert.Error(t, err)

	_, err = execute(t, "render")
	assert.Error(t, err)
}

func TestCalibrateBuiltin(t *testing.T) {
	out, err := execute(t, "calibrate", "--name", "Go Mono", "builtin:go-mono")
	require.NoError(t, err)

	c, err := metrics.LoadCalibration(strings.NewReader(out))
	require.NoError(t, err)
	names := make([]string, 0, len(c.Families))
	for _, f := range c.Families {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "Go Mono")
	assert.Contains(t, names, "Times New Roman")
}

func TestWithFamilyReplacesByName(t *testing.T) {
	c := metrics.DefaultCalibration()
	n := len(c.Families)
	c = withFamily(c, metrics.Family{Name: "arial", Aliases: []string{"Go"}, AvgWidth: 520, LineHeight: 1.1})
	require.Len(t, c.Families, n)
	for _, f := range c.Families {
		if f.Name == "arial" {
			assert.Contains(t, f.Aliases, "Helvetica")
			assert.Contains(t, f.Aliases, "Go")
			assert.Equal(t, 520.0, f.AvgWidth)
			return
		}
	}
	t.Fatalf("replaced family not found")
}

func TestMeasureCommand(t *testing.T) {
	out, err := execute(t, "measure", "Hello", "--font", "Courier New", "--size", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "model")
	assert.Contains(t, out, "outline")
	assert.Contains(t, out, "mono true")
}
