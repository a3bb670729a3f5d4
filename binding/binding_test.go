package binding_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/docflow/binding"
)

const sampleYAML = `
user:
  name: Ada
project:
  authors:
    - Alice
    - Bob
  version: 3
`

func TestInterpolate(t *testing.T) {
	data, err := binding.ParseData([]byte(sampleYAML))
	require.NoError(t, err)

	cases := map[string]string{
		"Hello, ${user.name}!":                   "Hello, Ada!",
		"${ project.authors[1] } wrote it":       "Bob wrote it",
		"v${project.version}":                    "v3",
		"missing ${user.email} stays":            "missing ${user.email} stays",
		"out of range ${project.authors[5]}":     "out of range ${project.authors[5]}",
		"no placeholders":                        "no placeholders",
		"${user.name} and ${project.authors[0]}": "Ada and Alice",
	}
	for in, want := range cases {
		assert.Equal(t, want, binding.Interpolate(in, data), in)
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	assert.Equal(t, "${user.name}", binding.Interpolate("${user.name}", nil))
}

func TestLoadDataJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user": {"name": "Grace"}, "n": [1, 2]}`), 0o644))

	data, err := binding.LoadData(path)
	require.NoError(t, err)
	v, ok := binding.Lookup(data, "user.name")
	require.True(t, ok)
	assert.Equal(t, "Grace", v)
	assert.Equal(t, "2", binding.Interpolate("${n[1]}", data))
}

func TestLoadDataErrors(t *testing.T) {
	_, err := binding.LoadData(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	_, err = binding.ParseData([]byte("user: [unclosed"))
	assert.Error(t, err)
}

func TestInterpolateDefaults(t *testing.T) {
	data := map[string]any{"user": map[string]string{"name": "Lin"}}
	assert.Equal(t, "Lin", binding.Interpolate("${user.name|anon}", data))
	assert.Equal(t, "anon", binding.Interpolate("${user.email|anon}", data))
	assert.Equal(t, "[]", binding.Interpolate("[${user.email|}]", data))
	assert.Equal(t, "n/a", binding.Interpolate("${x|n/a}", nil))
}

func TestLookupTypedContainers(t *testing.T) {
	type point struct{ X int }
	data := map[string]any{
		"rows":  [][]int{{1, 2}, {3, 4}},
		"label": map[string]*point{"p": {X: 7}},
	}
	v, ok := binding.Lookup(data, "rows[1][0]")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = binding.Lookup(data, "label.p")
	require.True(t, ok)
	assert.Equal(t, &point{X: 7}, v)

	for _, bad := range []string{"", "rows[x]", "rows[0", "label.q", "rows.a", "label[0]", "a..b"} {
		_, ok := binding.Lookup(data, bad)
		assert.False(t, ok, bad)
	}
}
