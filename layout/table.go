package layout

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/linebreak"
	"github.com/ByLCY/docflow/wordml"
)

// Table 是不可拆分的表格。行高取各单元格折行后的最大高度，
// 放不下时整体移到下一页，并在前面写入分页。
type Table struct {
	env     *Env
	rows    [][]string
	header  bool
	widths  []float64
	number  *Numbered
	caption string
}

// NewTable 创建表格。widths 为各列所占比例，为空时平均分配；
// header 表示第一行是表头。
func NewTable(env *Env, rows [][]string, widths []float64, header bool, number *Numbered, caption string) (*Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("表格没有行")
	}
	cols := lo.Max(lo.Map(rows, func(r []string, _ int) int { return len(r) }))
	if cols == 0 {
		return nil, fmt.Errorf("表格没有列")
	}
	if len(widths) == 0 {
		widths = repeat(1, cols)
	}
	if len(widths) != cols {
		return nil, fmt.Errorf("表格有 %d 列，但给出了 %d 个列宽", cols, len(widths))
	}
	total := lo.Sum(widths)
	for _, w := range widths {
		if w <= 0 {
			return nil, fmt.Errorf("列宽必须为正数")
		}
	}
	fractions := lo.Map(widths, func(w float64, _ int) float64 { return w / total })
	return &Table{env: env, rows: rows, header: header, widths: fractions, number: number, caption: caption}, nil
}

func (*Table) sealed() {}

func (t *Table) style() ParagraphStyle { return t.env.Settings.Style(config.StyleTableText) }

func (t *Table) columnWidths(maxWidth float64) []float64 {
	return lo.Map(t.widths, func(f float64, _ int) float64 { return f * maxWidth })
}

// rowHeights 用折行器逐格计算行高。
func (t *Table) rowHeights(maxWidth float64) []float64 {
	st := t.style()
	lh := st.LineHeight(t.env.Measurer)
	cols := t.columnWidths(maxWidth)
	margin := t.env.Settings.CellMargin
	mono := t.env.Measurer.IsMonospace(st.Font)
	return lo.Map(t.rows, func(row []string, r int) float64 {
		font := st.Font
		font.Bold = font.Bold || (t.header && r == 0)
		var h float64
		for i, cell := range row {
			w := max(cols[i]-2*margin, 0)
			n := t.env.Breaker.CountLines([]linebreak.Run{{Text: cell}}, w, font, st.FirstLineIndent, mono)
			h = max(h, st.SpacingBefore+float64(n)*lh+st.SpacingAfter)
		}
		if len(row) < len(cols) {
			h = max(h, st.SpacingBefore+lh+st.SpacingAfter)
		}
		return h
	})
}

func (t *Table) captionBlock() (textBlock, bool) {
	if t.number == nil && t.caption == "" {
		return textBlock{}, false
	}
	st := t.env.Settings.Style(config.StyleCaption)
	st.KeepWithNext = true
	inlines := []Inline{Text(t.caption)}
	if t.number != nil {
		inlines = t.number.caption(t.env.Settings.Captions.Separator, t.caption)
	}
	return textBlock{env: t.env, style: st, inlines: inlines}, true
}

func (t *Table) EstimateHeight(maxWidth float64) float64 {
	h := lo.Sum(t.rowHeights(maxWidth))
	if cb, ok := t.captionBlock(); ok {
		h += cb.height(maxWidth)
	}
	return h
}

func (t *Table) LeadHeight(_ int, maxWidth float64) float64 { return t.EstimateHeight(maxWidth) }

func (t *Table) Render(_ *Fragment, state State) ([]Fragment, error) {
	h := t.EstimateHeight(state.Width)
	f := Fragment{
		Object: t.object(state.Width),
		Height: h,
		Lines:  lo.Map(t.rows, func(r []string, _ int) string { return strings.Join(r, " | ") }),
		Style:  config.StyleTableText,
	}
	if h > state.Remaining+fitEpsilon && !state.AtPageTop {
		f.Break = BreakExplicit
	}
	return []Fragment{f}, nil
}

func (t *Table) object(maxWidth float64) wordml.Group {
	var out wordml.Group
	if cb, ok := t.captionBlock(); ok {
		out = append(out, cb.paragraph())
	}
	cols := t.columnWidths(maxWidth)
	tbl := &wordml.Table{Widths: cols, Borders: true}
	props := t.style().Props()
	for i, row := range t.rows {
		r := &wordml.TableRow{Header: t.header && i == 0, CantSplit: true}
		for j := range cols {
			p := &wordml.Paragraph{Props: props}
			// 除最后一行外都与下一行同页，防止表格被拆开。
			p.Props.KeepNext = i < len(t.rows)-1
			if j < len(row) {
				p.Children = []wordml.Element{&wordml.Run{Text: row[j], Bold: t.header && i == 0}}
			}
			r.Cells = append(r.Cells, &wordml.TableCell{Width: cols[j], Children: []wordml.Element{p}})
		}
		tbl.Rows = append(tbl.Rows, r)
	}
	return append(out, tbl)
}
