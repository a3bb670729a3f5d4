package layout

import (
	"strings"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/linebreak"
	"github.com/ByLCY/docflow/wordml"
)

// Listing 是代码清单：单格表格，每行源码一个段落。按源码行跨页拆分，
// 续页部分是新的表格，前面加“续”题注。
type Listing struct {
	env     *Env
	style   ParagraphStyle
	source  []string
	number  *Numbered
	caption string
}

// NewListing 创建代码清单。number 为空表示不编号。
func NewListing(env *Env, source string, number *Numbered, caption string) *Listing {
	source = strings.TrimRight(strings.ReplaceAll(source, "\r\n", "\n"), "\n")
	return &Listing{
		env:     env,
		style:   env.Settings.Style(config.StyleCode),
		source:  strings.Split(source, "\n"),
		number:  number,
		caption: caption,
	}
}

func (*Listing) sealed() {}

// textWidth 扣除左侧预留的边距后的可用宽度。
func (l *Listing) textWidth(maxWidth float64) float64 {
	return max(maxWidth-l.env.Settings.ListingOffset, 0)
}

// units 返回每行源码的高度及折行后的文字。
func (l *Listing) units(maxWidth float64) ([]float64, [][]string) {
	lh := l.style.LineHeight(l.env.Measurer)
	w := l.textWidth(maxWidth)
	heights := make([]float64, len(l.source))
	texts := make([][]string, len(l.source))
	for i, src := range l.source {
		runs := []linebreak.Run{{Text: src}}
		lines := l.env.Breaker.Lines(runs, w, l.style.Font, l.style.FirstLineIndent, true)
		heights[i] = l.style.SpacingBefore + float64(len(lines))*lh + l.style.SpacingAfter
		texts[i] = linebreak.Texts(runs, lines)
	}
	return heights, texts
}

func (l *Listing) captionBlock() (textBlock, bool) {
	if l.number == nil && l.caption == "" {
		return textBlock{}, false
	}
	st := l.env.Settings.Style(config.StyleCaption)
	st.KeepWithNext = true
	var inlines []Inline
	if l.number != nil {
		inlines = l.number.caption(l.env.Settings.Captions.Separator, l.caption)
	} else {
		inlines = []Inline{Text(l.caption)}
	}
	return textBlock{env: l.env, style: st, inlines: inlines}, true
}

// continuationBlock 是续页表格前的题注；未编号时用空段落隔开两张表格。
func (l *Listing) continuationBlock() textBlock {
	st := l.env.Settings.Style(config.StyleCaption)
	st.KeepWithNext = true
	var inlines []Inline
	if l.number != nil {
		inlines = []Inline{Text(l.env.Settings.Captions.Continuation + " "), l.number.reference()}
	}
	return textBlock{env: l.env, style: st, inlines: inlines}
}

func (l *Listing) EstimateHeight(maxWidth float64) float64 {
	heights, _ := l.units(maxWidth)
	h := sum(heights)
	if cb, ok := l.captionBlock(); ok {
		h += cb.height(maxWidth)
	}
	return h
}

func (l *Listing) LeadHeight(lines int, maxWidth float64) float64 {
	var h float64
	if cb, ok := l.captionBlock(); ok {
		h += cb.height(maxWidth)
	}
	lh := l.style.LineHeight(l.env.Measurer)
	_, texts := l.units(maxWidth)
	for _, t := range texts {
		if lines <= 0 {
			break
		}
		n := min(lines, len(t))
		h += l.style.SpacingBefore + float64(n)*lh
		lines -= n
	}
	return h
}

func (l *Listing) Render(_ *Fragment, state State) ([]Fragment, error) {
	heights, texts := l.units(state.Width)
	var head float64
	cb, hasCaption := l.captionBlock()
	if hasCaption {
		head = cb.height(state.Width)
	}
	cont := l.continuationBlock()
	chunks := splitUnits(heights, head, cont.height(state.Width), 0, state, 1, 1)

	frags := make([]Fragment, len(chunks))
	for i, c := range chunks {
		var lines []string
		for _, t := range texts[c.start:c.end] {
			lines = append(lines, t...)
		}
		var obj wordml.Group
		brk := c.brk
		switch {
		case i > 0:
			obj = append(obj, cont.paragraph())
			brk = BreakExplicit
		case hasCaption:
			obj = append(obj, cb.paragraph())
		}
		obj = append(obj, l.table(state.Width, l.source[c.start:c.end]))
		frags[i] = Fragment{Object: obj, Height: c.height, Break: brk, Lines: lines, Style: l.style.Name}
	}
	return frags, nil
}

func (l *Listing) table(maxWidth float64, source []string) *wordml.Table {
	cell := &wordml.TableCell{Width: maxWidth}
	for _, src := range source {
		p := &wordml.Paragraph{Props: l.style.Props()}
		p.Props.LeftIndent = l.env.Settings.ListingOffset
		p.Children = []wordml.Element{&wordml.Run{Text: src}}
		cell.Children = append(cell.Children, p)
	}
	return &wordml.Table{
		Widths:  []float64{maxWidth},
		Borders: true,
		Rows:    []*wordml.TableRow{{CantSplit: true, Cells: []*wordml.TableCell{cell}}},
	}
}
