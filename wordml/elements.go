// Package wordml builds the WordprocessingML objects handed to the word
// processor. Elements write themselves with encoding/xml and use the
// conventional w:, m:, wp:, a: and pic: prefixes declared on the document.
package wordml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Element is one serialisable document object.
type Element interface {
	xml.Marshaler
}

// ParagraphProps mirrors the w:pPr fields the layout engine controls.
// Distances are in points.
type ParagraphProps struct {
	Style             string
	Align             string
	KeepNext          bool
	KeepLines         bool
	PageBreakBefore   bool
	WidowControl      *bool
	ContextualSpacing bool
	SpacingBefore     float64
	SpacingAfter      float64
	LineSpacing       float64 // multiple of single spacing, 0 keeps the style value
	LineExact         float64 // exact line height, overrides LineSpacing
	FirstLineIndent   float64
	LeftIndent        float64
}

// Paragraph is a w:p.
type Paragraph struct {
	Props    ParagraphProps
	Children []Element
}

// StyleID derives a style identifier from a display name by dropping
// spaces, the way word processors do.
func StyleID(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

// NewParagraph returns a paragraph in the given style.
func NewParagraph(style string, children ...Element) *Paragraph {
	return &Paragraph{Props: ParagraphProps{Style: style}, Children: children}
}

func (p *Paragraph) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "w:p", nil, func() error {
		if err := p.Props.encode(e); err != nil {
			return err
		}
		return encodeAll(e, p.Children)
	})
}

func (pp ParagraphProps) encode(e *xml.Encoder) error {
	return wrap(e, "w:pPr", nil, func() error {
		if pp.Style != "" {
			if err := empty(e, "w:pStyle", val(pp.Style)); err != nil {
				return err
			}
		}
		flags := []struct {
			on   bool
			name string
		}{
			{pp.KeepNext, "w:keepNext"},
			{pp.KeepLines, "w:keepLines"},
			{pp.PageBreakBefore, "w:pageBreakBefore"},
		}
		for _, f := range flags {
			if f.on {
				if err := empty(e, f.name); err != nil {
					return err
				}
			}
		}
		if pp.WidowControl != nil {
			if err := empty(e, "w:widowControl", val(strconv.FormatBool(*pp.WidowControl))); err != nil {
				return err
			}
		}
		if pp.SpacingBefore != 0 || pp.SpacingAfter != 0 || pp.LineSpacing != 0 || pp.LineExact != 0 {
			attrs := []xml.Attr{
				attr("w:before", strconv.Itoa(Twips(pp.SpacingBefore))),
				attr("w:after", strconv.Itoa(Twips(pp.SpacingAfter))),
			}
			switch {
			case pp.LineExact != 0:
				attrs = append(attrs, attr("w:line", strconv.Itoa(Twips(pp.LineExact))), attr("w:lineRule", "exact"))
			case pp.LineSpacing != 0:
				attrs = append(attrs, attr("w:line", strconv.Itoa(LineTwips(pp.LineSpacing))), attr("w:lineRule", "auto"))
			}
			if err := empty(e, "w:spacing", attrs...); err != nil {
				return err
			}
		}
		if pp.FirstLineIndent != 0 || pp.LeftIndent != 0 {
			if err := empty(e, "w:ind",
				attr("w:left", strconv.Itoa(Twips(pp.LeftIndent))),
				attr("w:firstLine", strconv.Itoa(Twips(pp.FirstLineIndent)))); err != nil {
				return err
			}
		}
		if pp.ContextualSpacing {
			if err := empty(e, "w:contextualSpacing"); err != nil {
				return err
			}
		}
		if pp.Align != "" {
			return empty(e, "w:jc", val(pp.Align))
		}
		return nil
	})
}

// Run is a w:r with a single text node.
type Run struct {
	Text   string
	Font   string
	Size   float64
	Bold   bool
	Italic bool
}

func (r *Run) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "w:r", nil, func() error {
		if err := encodeRunProps(e, r.Font, r.Size, r.Bold, r.Italic); err != nil {
			return err
		}
		return textNode(e, "w:t", r.Text)
	})
}

func encodeRunProps(e *xml.Encoder, font string, size float64, bold, italic bool) error {
	if font == "" && size <= 0 && !bold && !italic {
		return nil
	}
	return wrap(e, "w:rPr", nil, func() error {
		if font != "" {
			if err := empty(e, "w:rFonts", attr("w:ascii", font), attr("w:hAnsi", font), attr("w:cs", font)); err != nil {
				return err
			}
		}
		if bold {
			if err := empty(e, "w:b"); err != nil {
				return err
			}
		}
		if italic {
			if err := empty(e, "w:i"); err != nil {
				return err
			}
		}
		if size > 0 {
			return empty(e, "w:sz", val(strconv.Itoa(HalfPoints(size))))
		}
		return nil
	})
}

// FieldSimple is a w:fldSimple such as a SEQ counter.
type FieldSimple struct {
	Instr    string
	Children []Element
}

func (f *FieldSimple) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "w:fldSimple", []xml.Attr{attr("w:instr", " "+strings.TrimSpace(f.Instr)+" ")}, func() error {
		return encodeAll(e, f.Children)
	})
}

// BookmarkStart opens a named bookmark.
type BookmarkStart struct {
	ID   int
	Name string
}

func (b *BookmarkStart) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return empty(e, "w:bookmarkStart", attr("w:id", strconv.Itoa(b.ID)), attr("w:name", b.Name))
}

// BookmarkEnd closes the bookmark with the same ID.
type BookmarkEnd struct {
	ID int
}

func (b *BookmarkEnd) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return empty(e, "w:bookmarkEnd", attr("w:id", strconv.Itoa(b.ID)))
}

// PageBreak is an empty paragraph holding a page break.
type PageBreak struct{}

func (PageBreak) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "w:p", nil, func() error {
		return wrap(e, "w:r", nil, func() error {
			return empty(e, "w:br", attr("w:type", "page"))
		})
	})
}

// Group emits its children in sequence without a wrapper.
type Group []Element

func (g Group) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return encodeAll(e, g)
}

// Table is a w:tbl with fixed column widths in points.
type Table struct {
	Style   string
	Widths  []float64
	Borders bool
	Rows    []*TableRow
}

// TableRow is a w:tr.
type TableRow struct {
	Header    bool
	CantSplit bool
	// Height is an exact row height; zero lets the content decide.
	Height float64
	Cells  []*TableCell
}

// TableCell is a w:tc. Cells must contain at least one paragraph.
type TableCell struct {
	Width    float64
	VAlign   string
	Children []Element
}

func (t *Table) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "w:tbl", nil, func() error {
		err := wrap(e, "w:tblPr", nil, func() error {
			if t.Style != "" {
				if err := empty(e, "w:tblStyle", val(t.Style)); err != nil {
					return err
				}
			}
			if err := empty(e, "w:tblLayout", attr("w:type", "fixed")); err != nil {
				return err
			}
			if !t.Borders {
				return nil
			}
			return wrap(e, "w:tblBorders", nil, func() error {
				for _, side := range []string{"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV"} {
					if err := empty(e, side, val("single"), attr("w:sz", "4"), attr("w:space", "0"), attr("w:color", "auto")); err != nil {
						return err
					}
				}
				return nil
			})
		})
		if err != nil {
			return err
		}
		err = wrap(e, "w:tblGrid", nil, func() error {
			for _, w := range t.Widths {
				if err := empty(e, "w:gridCol", attr("w:w", strconv.Itoa(Twips(w)))); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, row := range t.Rows {
			if err := row.encode(e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *TableRow) encode(e *xml.Encoder) error {
	return wrap(e, "w:tr", nil, func() error {
		if r.Header || r.CantSplit || r.Height > 0 {
			err := wrap(e, "w:trPr", nil, func() error {
				if r.CantSplit {
					if err := empty(e, "w:cantSplit"); err != nil {
						return err
					}
				}
				if r.Height > 0 {
					if err := empty(e, "w:trHeight", val(strconv.Itoa(Twips(r.Height))), attr("w:hRule", "exact")); err != nil {
						return err
					}
				}
				if r.Header {
					return empty(e, "w:tblHeader")
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		for _, c := range r.Cells {
			err := wrap(e, "w:tc", nil, func() error {
				err := wrap(e, "w:tcPr", nil, func() error {
					if err := empty(e, "w:tcW", attr("w:w", strconv.Itoa(Twips(c.Width))), attr("w:type", "dxa")); err != nil {
						return err
					}
					if c.VAlign != "" {
						return empty(e, "w:vAlign", val(c.VAlign))
					}
					return nil
				})
				if err != nil {
					return err
				}
				children := c.Children
				if len(children) == 0 {
					children = []Element{&Paragraph{}}
				}
				return encodeAll(e, children)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Drawing is an inline picture sized in points. RelID refers to the image
// part relationship created by the packager.
type Drawing struct {
	ID     int
	Name   string
	RelID  string
	Width  float64
	Height float64
}

func (d *Drawing) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	cx, cy := strconv.FormatInt(EMU(d.Width), 10), strconv.FormatInt(EMU(d.Height), 10)
	id := strconv.Itoa(d.ID)
	return wrap(e, "w:r", nil, func() error {
		return wrap(e, "w:drawing", nil, func() error {
			return wrap(e, "wp:inline", nil, func() error {
				if err := empty(e, "wp:extent", attr("cx", cx), attr("cy", cy)); err != nil {
					return err
				}
				if err := empty(e, "wp:docPr", attr("id", id), attr("name", d.Name)); err != nil {
					return err
				}
				return wrap(e, "a:graphic", nil, func() error {
					return wrap(e, "a:graphicData", []xml.Attr{attr("uri", "http://schemas.openxmlformats.org/drawingml/2006/picture")}, func() error {
						return wrap(e, "pic:pic", nil, func() error {
							err := wrap(e, "pic:nvPicPr", nil, func() error {
								if err := empty(e, "pic:cNvPr", attr("id", id), attr("name", d.Name)); err != nil {
									return err
								}
								return empty(e, "pic:cNvPicPr")
							})
							if err != nil {
								return err
							}
							err = wrap(e, "pic:blipFill", nil, func() error {
								if err := empty(e, "a:blip", attr("r:embed", d.RelID)); err != nil {
									return err
								}
								return wrap(e, "a:stretch", nil, func() error { return empty(e, "a:fillRect") })
							})
							if err != nil {
								return err
							}
							return wrap(e, "pic:spPr", nil, func() error {
								err := wrap(e, "a:xfrm", nil, func() error {
									if err := empty(e, "a:off", attr("x", "0"), attr("y", "0")); err != nil {
										return err
									}
									return empty(e, "a:ext", attr("cx", cx), attr("cy", cy))
								})
								if err != nil {
									return err
								}
								return wrap(e, "a:prstGeom", []xml.Attr{attr("prst", "rect")}, func() error {
									return empty(e, "a:avLst")
								})
							})
						})
					})
				})
			})
		})
	})
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func val(v string) xml.Attr { return attr("w:val", v) }

func wrap(e *xml.Encoder, name string, attrs []xml.Attr, body func() error) error {
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

func empty(e *xml.Encoder, name string, attrs ...xml.Attr) error {
	return wrap(e, name, attrs, func() error { return nil })
}

func textNode(e *xml.Encoder, name, text string) error {
	var attrs []xml.Attr
	if strings.TrimSpace(text) != text {
		attrs = append(attrs, attr("xml:space", "preserve"))
	}
	return wrap(e, name, attrs, func() error {
		return e.EncodeToken(xml.CharData(text))
	})
}

func encodeAll(e *xml.Encoder, els []Element) error {
	for _, el := range els {
		if el == nil {
			continue
		}
		if err := e.Encode(el); err != nil {
			return err
		}
	}
	return nil
}
