package omml_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/docflow/omml"
	"github.com/ByLCY/docflow/wordml"
)

func convert(t *testing.T, src string) *wordml.Math {
	t.Helper()
	el, err := omml.Plain{}.Convert(src)
	require.NoError(t, err)
	m, ok := el.(*wordml.Math)
	require.True(t, ok, "got %T", el)
	return m
}

func TestConvertScripts(t *testing.T) {
	m := convert(t, `E = mc^2`)
	want := []wordml.Element{
		&wordml.MathRun{Text: "E=m"},
		&wordml.MathScript{
			Base: []wordml.Element{&wordml.MathRun{Text: "c"}},
			Sup:  []wordml.Element{&wordml.MathRun{Text: "2"}},
		},
	}
	if diff := cmp.Diff(want, m.Children); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}

	out, err := wordml.Marshal(convert(t, `x_{i}^{2}`))
	require.NoError(t, err)
	assert.Contains(t, out, "<m:sSubSup>")
}

func TestConvertFractionAndSymbols(t *testing.T) {
	assert.Equal(t, "a+b/2", wordml.PlainText(convert(t, `\frac{a+b}{2}`)))
	assert.Equal(t, "α≤β", wordml.PlainText(convert(t, `\alpha \leq \beta`)))
	assert.Equal(t, "(x)", wordml.PlainText(convert(t, `\left( x \right)`)))
	assert.Equal(t, "if n", wordml.PlainText(convert(t, `\text{if n}`)))

	root := convert(t, `\sqrt[3]{x}`)
	require.Len(t, root.Children, 1)
	rad, ok := root.Children[0].(*wordml.MathRadical)
	require.True(t, ok)
	assert.Equal(t, "3", wordml.PlainText(&wordml.Math{Children: rad.Degree}))
}

func TestConvertErrors(t *testing.T) {
	cases := map[string]error{
		`\frac{a`:    omml.ErrSyntax,
		`a}`:         omml.ErrSyntax,
		`\sqrt[3{x}`: omml.ErrSyntax,
		`\text x`:    omml.ErrSyntax,
		`\foo`:       omml.ErrUnsupportedCommand,
		`x^`:         omml.ErrSyntax,
	}
	for src, want := range cases {
		_, err := omml.Plain{}.Convert(src)
		assert.ErrorIs(t, err, want, "source %q", src)
	}
}

func TestConvertBracketsAndNesting(t *testing.T) {
	assert.Equal(t, "[a,b]", wordml.PlainText(convert(t, `[a, b]`)))
	assert.Equal(t, "x]", wordml.PlainText(convert(t, `x]`)))

	root := convert(t, `\sqrt[n]{\frac{1}{2}}`)
	require.Len(t, root.Children, 1)
	rad, ok := root.Children[0].(*wordml.MathRadical)
	require.True(t, ok, "got %T", root.Children[0])
	want := &wordml.MathRadical{
		Degree: []wordml.Element{&wordml.MathRun{Text: "n"}},
		Base: []wordml.Element{&wordml.MathFraction{
			Num: []wordml.Element{&wordml.MathRun{Text: "1"}},
			Den: []wordml.Element{&wordml.MathRun{Text: "2"}},
		}},
	}
	if diff := cmp.Diff(want, rad); diff != "" {
		t.Fatalf("radical mismatch (-want +got):\n%s", diff)
	}

	frac := convert(t, `\dfrac12`)
	require.Len(t, frac.Children, 1)
	assert.IsType(t, &wordml.MathFraction{}, frac.Children[0])

	plain := convert(t, `\sqrt{x}`)
	assert.Empty(t, plain.Children[0].(*wordml.MathRadical).Degree)

	assert.Empty(t, convert(t, "  ").Children)

	_, err := omml.Plain{}.Convert(`\fraction{a}`)
	assert.ErrorIs(t, err, omml.ErrUnsupportedCommand)
}
