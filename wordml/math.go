package wordml

import "encoding/xml"

// Math is an m:oMath zone placed inside a paragraph.
type Math struct {
	Children []Element
}

func (m *Math) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "m:oMath", nil, func() error { return encodeAll(e, m.Children) })
}

// MathRun is literal math text.
type MathRun struct {
	Text string
}

func (r *MathRun) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "m:r", nil, func() error { return textNode(e, "m:t", r.Text) })
}

// MathFraction is m:f.
type MathFraction struct {
	Num, Den []Element
}

func (f *MathFraction) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "m:f", nil, func() error {
		if err := wrap(e, "m:num", nil, func() error { return encodeAll(e, f.Num) }); err != nil {
			return err
		}
		return wrap(e, "m:den", nil, func() error { return encodeAll(e, f.Den) })
	})
}

// MathScript attaches a superscript, a subscript or both to a base.
type MathScript struct {
	Base, Sup, Sub []Element
}

func (s *MathScript) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	name := "m:sSubSup"
	switch {
	case len(s.Sub) == 0:
		name = "m:sSup"
	case len(s.Sup) == 0:
		name = "m:sSub"
	}
	return wrap(e, name, nil, func() error {
		if err := wrap(e, "m:e", nil, func() error { return encodeAll(e, s.Base) }); err != nil {
			return err
		}
		if len(s.Sub) > 0 {
			if err := wrap(e, "m:sub", nil, func() error { return encodeAll(e, s.Sub) }); err != nil {
				return err
			}
		}
		if len(s.Sup) > 0 {
			return wrap(e, "m:sup", nil, func() error { return encodeAll(e, s.Sup) })
		}
		return nil
	})
}

// MathRadical is m:rad; an empty Degree hides the index.
type MathRadical struct {
	Degree, Base []Element
}

func (r *MathRadical) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return wrap(e, "m:rad", nil, func() error {
		if len(r.Degree) == 0 {
			err := wrap(e, "m:radPr", nil, func() error { return empty(e, "m:degHide", attr("m:val", "1")) })
			if err != nil {
				return err
			}
		}
		if err := wrap(e, "m:deg", nil, func() error { return encodeAll(e, r.Degree) }); err != nil {
			return err
		}
		return wrap(e, "m:e", nil, func() error { return encodeAll(e, r.Base) })
	})
}
