package wordml

import (
	"encoding/xml"
	"io"
)

// StyleDef is a resolved paragraph style. Inheritance is already
// flattened, so no w:basedOn is written.
type StyleDef struct {
	Name    string
	Default bool
	Font    string
	Size    float64
	Bold    bool
	Italic  bool
	Props   ParagraphProps
}

// Styles is the w:styles part.
type Styles []StyleDef

func (s Styles) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "w:styles", namespaces[:1], func() error {
		for _, def := range s {
			if err := def.encode(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d StyleDef) encode(e *xml.Encoder) error {
	attrs := []xml.Attr{attr("w:type", "paragraph"), attr("w:styleId", StyleID(d.Name))}
	if d.Default {
		attrs = append(attrs, attr("w:default", "1"))
	}
	return wrap(e, "w:style", attrs, func() error {
		if err := empty(e, "w:name", val(d.Name)); err != nil {
			return err
		}
		if err := empty(e, "w:qFormat"); err != nil {
			return err
		}
		props := d.Props
		props.Style = ""
		if err := props.encode(e); err != nil {
			return err
		}
		return encodeRunProps(e, d.Font, d.Size, d.Bold, d.Italic)
	})
}

// Write serialises the styles part with an XML header.
func (s Styles) Write(w io.Writer) error { return WritePart(w, s) }
