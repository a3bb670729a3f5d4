package wordml_test

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/docflow/wordml"
)

func TestUnits(t *testing.T) {
	assert.Equal(t, 280, wordml.Twips(14))
	assert.Equal(t, 28, wordml.HalfPoints(14))
	assert.Equal(t, 21, wordml.HalfPoints(10.5))
	assert.Equal(t, int64(12700), wordml.EMU(1))
	assert.Equal(t, 360, wordml.LineTwips(1.5))
}

func TestParagraphMarshal(t *testing.T) {
	p := wordml.NewParagraph("Body", &wordml.Run{Text: " spaced ", Bold: true, Size: 14})
	p.Props.PageBreakBefore = true
	p.Props.FirstLineIndent = 35.4
	off := false
	p.Props.WidowControl = &off

	out, err := wordml.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, out, `<w:pStyle w:val="Body">`)
	assert.Contains(t, out, `<w:pageBreakBefore>`)
	assert.Contains(t, out, `<w:widowControl w:val="false">`)
	assert.Contains(t, out, `w:firstLine="708"`)
	assert.Contains(t, out, `<w:b>`)
	assert.Contains(t, out, `<w:sz w:val="28">`)
	assert.Contains(t, out, `<w:t xml:space="preserve"> spaced </w:t>`)
}

func TestFieldAndBookmark(t *testing.T) {
	p := wordml.NewParagraph("Formula Numbering",
		&wordml.Run{Text: "("},
		&wordml.BookmarkStart{ID: 3, Name: "eq1"},
		&wordml.FieldSimple{Instr: `SEQ Equation \* ARABIC`, Children: []wordml.Element{&wordml.Run{Text: "?"}}},
		&wordml.BookmarkEnd{ID: 3},
		&wordml.Run{Text: ")"},
	)
	out, err := wordml.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, out, `w:instr=" SEQ Equation \* ARABIC "`)
	assert.Contains(t, out, `<w:bookmarkStart w:id="3" w:name="eq1">`)
	assert.Equal(t, "(?)", wordml.PlainText(p))
}

func TestDocumentIsWellFormed(t *testing.T) {
	doc := &wordml.Document{
		Body: []wordml.Element{
			wordml.NewParagraph("Heading1", &wordml.Run{Text: "Intro"}),
			wordml.PageBreak{},
			wordml.Group{
				wordml.NewParagraph("Caption", &wordml.Run{Text: "Table 1"}),
				&wordml.Table{
					Widths:  []float64{100, 200},
					Borders: true,
					Rows: []*wordml.TableRow{{
						Header: true,
						Cells:  []*wordml.TableCell{{Width: 100}, {Width: 200, Children: []wordml.Element{wordml.NewParagraph("", &wordml.Run{Text: "x"})}}},
					}},
				},
			},
			wordml.NewParagraph("", &wordml.Math{Children: []wordml.Element{
				&wordml.MathFraction{
					Num: []wordml.Element{&wordml.MathRun{Text: "a"}},
					Den: []wordml.Element{&wordml.MathScript{Base: []wordml.Element{&wordml.MathRun{Text: "b"}}, Sup: []wordml.Element{&wordml.MathRun{Text: "2"}}}},
				},
			}}),
			&wordml.Drawing{ID: 1, Name: "fig", RelID: "rId5", Width: 100, Height: 50},
		},
		Section: wordml.Section{Width: 595.28, Height: 841.89, Top: 56.69, Right: 28.35, Bottom: 56.69, Left: 85.04},
	}

	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))

	dec := xml.NewDecoder(&buf)
	counts := map[string]int{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		if se, ok := tok.(xml.StartElement); ok {
			counts[se.Name.Space+":"+se.Name.Local]++
		}
	}
	assert.Equal(t, 1, counts["http://schemas.openxmlformats.org/wordprocessingml/2006/main:body"])
	assert.Equal(t, 1, counts["http://schemas.openxmlformats.org/wordprocessingml/2006/main:tbl"])
	assert.Equal(t, 1, counts["http://schemas.openxmlformats.org/officeDocument/2006/math:f"])
	assert.Equal(t, 1, counts["http://schemas.openxmlformats.org/wordprocessingml/2006/main:sectPr"])
	assert.Equal(t, 1, counts["http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing:inline"])
}

func TestPlainTextOfTable(t *testing.T) {
	tbl := &wordml.Table{Rows: []*wordml.TableRow{
		{Cells: []*wordml.TableCell{
			{Children: []wordml.Element{wordml.NewParagraph("", &wordml.Run{Text: "a"})}},
			{Children: []wordml.Element{wordml.NewParagraph("", &wordml.Run{Text: "b"})}},
		}},
	}}
	assert.Equal(t, "a\tb\n", wordml.PlainText(tbl))
}

func TestStylesPart(t *testing.T) {
	on := true
	styles := wordml.Styles{
		{Name: "Body", Default: true, Font: "Times New Roman", Size: 14, Props: wordml.ParagraphProps{
			Align: "both", WidowControl: &on, LineSpacing: 1.5, FirstLineIndent: 35.4,
		}},
		{Name: "Formula Content", Size: 14, Italic: true, Props: wordml.ParagraphProps{
			Style: "ignored", Align: "center", LineExact: 12,
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, styles.Write(&buf))
	out := buf.String()

	assert.Contains(t, out, `<w:styles xmlns:w=`)
	assert.Contains(t, out, `<w:style w:type="paragraph" w:styleId="Body" w:default="1">`)
	assert.Contains(t, out, `<w:style w:type="paragraph" w:styleId="FormulaContent">`)
	assert.Contains(t, out, `<w:name w:val="Formula Content">`)
	assert.Contains(t, out, `w:line="360" w:lineRule="auto"`)
	assert.Contains(t, out, `w:line="240" w:lineRule="exact"`)
	assert.Contains(t, out, `<w:sz w:val="28">`)
	assert.NotContains(t, out, "w:pStyle")
}
