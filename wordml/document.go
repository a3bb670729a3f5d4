package wordml

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

var namespaces = []xml.Attr{
	attr("xmlns:w", "http://schemas.openxmlformats.org/wordprocessingml/2006/main"),
	attr("xmlns:m", "http://schemas.openxmlformats.org/officeDocument/2006/math"),
	attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships"),
	attr("xmlns:wp", "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"),
	attr("xmlns:a", "http://schemas.openxmlformats.org/drawingml/2006/main"),
	attr("xmlns:pic", "http://schemas.openxmlformats.org/drawingml/2006/picture"),
}

// Section describes the page of the single document section, in points.
type Section struct {
	Width, Height            float64
	Top, Right, Bottom, Left float64
}

// Document is the w:document part.
type Document struct {
	Body    []Element
	Section Section
}

func (d *Document) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "w:document", namespaces, func() error {
		return wrap(e, "w:body", nil, func() error {
			if err := encodeAll(e, d.Body); err != nil {
				return err
			}
			return d.Section.encode(e)
		})
	})
}

func (s Section) encode(e *xml.Encoder) error {
	return wrap(e, "w:sectPr", nil, func() error {
		size := []xml.Attr{
			attr("w:w", strconv.Itoa(Twips(s.Width))),
			attr("w:h", strconv.Itoa(Twips(s.Height))),
		}
		if s.Width > s.Height {
			size = append(size, attr("w:orient", "landscape"))
		}
		if err := empty(e, "w:pgSz", size...); err != nil {
			return err
		}
		return empty(e, "w:pgMar",
			attr("w:top", strconv.Itoa(Twips(s.Top))),
			attr("w:right", strconv.Itoa(Twips(s.Right))),
			attr("w:bottom", strconv.Itoa(Twips(s.Bottom))),
			attr("w:left", strconv.Itoa(Twips(s.Left))),
			attr("w:header", "708"),
			attr("w:footer", "708"),
			attr("w:gutter", "0"))
	})
}

// Write serialises the document with an XML header.
func (d *Document) Write(w io.Writer) error { return WritePart(w, d) }

// WritePart serialises a package part with an XML header.
func WritePart(w io.Writer, part any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(part); err != nil {
		return err
	}
	return enc.Close()
}

// Marshal renders a single element, mostly for inspection and tests.
func Marshal(el Element) (string, error) {
	var b strings.Builder
	enc := xml.NewEncoder(&b)
	if err := enc.Encode(el); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// PlainText collects the visible text of an element tree.
func PlainText(el Element) string {
	var b strings.Builder
	collectText(&b, el)
	return b.String()
}

func collectText(b *strings.Builder, el Element) {
	switch v := el.(type) {
	case *Run:
		b.WriteString(v.Text)
	case *MathRun:
		b.WriteString(v.Text)
	case *Paragraph:
		for _, c := range v.Children {
			collectText(b, c)
		}
	case *FieldSimple:
		for _, c := range v.Children {
			collectText(b, c)
		}
	case *Math:
		for _, c := range v.Children {
			collectText(b, c)
		}
	case *MathFraction:
		for _, c := range v.Num {
			collectText(b, c)
		}
		b.WriteByte('/')
		for _, c := range v.Den {
			collectText(b, c)
		}
	case *MathScript:
		for _, group := range [][]Element{v.Base, v.Sub, v.Sup} {
			for _, c := range group {
				collectText(b, c)
			}
		}
	case *MathRadical:
		for _, c := range v.Base {
			collectText(b, c)
		}
	case Group:
		for i, c := range v {
			if i > 0 {
				b.WriteByte('\n')
			}
			collectText(b, c)
		}
	case *Table:
		for _, row := range v.Rows {
			for i, cell := range row.Cells {
				if i > 0 {
					b.WriteByte('\t')
				}
				for _, c := range cell.Children {
					collectText(b, c)
				}
			}
			b.WriteByte('\n')
		}
	}
}
