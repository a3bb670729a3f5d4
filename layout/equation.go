package layout

import (
	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/metrics"
	"github.com/ByLCY/docflow/wordml"
)

// Equation 是两格表格（公式 | 编号），高度固定为名义高度，从不跨页。
type Equation struct {
	env    *Env
	math   wordml.Element
	number *Numbered
	source string
}

// NewEquation 创建公式。math 为公式转换器的输出，number 为空时不编号。
func NewEquation(env *Env, math wordml.Element, number *Numbered, source string) *Equation {
	return &Equation{env: env, math: math, number: number, source: source}
}

func (*Equation) sealed() {}

func (e *Equation) EstimateHeight(float64) float64 { return e.env.Settings.EquationHeight }

func (e *Equation) LeadHeight(_ int, maxWidth float64) float64 { return e.EstimateHeight(maxWidth) }

// Render 在剩余高度不足时把剩余空间作为占位一并计入片段高度，
// 由 Pipeline 消耗掉本页后在下一页顶部放置名义高度。
func (e *Equation) Render(_ *Fragment, state State) ([]Fragment, error) {
	h := e.env.Settings.EquationHeight
	f := Fragment{
		Object: e.table(state.Width),
		Height: h,
		Lines:  []string{e.source},
		Style:  config.StyleFormulaContent,
	}
	if h > state.Remaining+fitEpsilon && !state.AtPageTop {
		f.Height += state.Remaining
		f.Overflow = true
	}
	return []Fragment{f}, nil
}

func (e *Equation) table(maxWidth float64) *wordml.Table {
	s := e.env.Settings
	total := maxWidth + 2*s.CellMargin
	numW := s.EquationNumberWidth
	content := &wordml.Paragraph{
		Props:    s.Style(config.StyleFormulaContent).Props(),
		Children: []wordml.Element{e.math},
	}
	num := &wordml.Paragraph{Props: s.Style(config.StyleFormulaNumbering).Props()}
	if e.number != nil {
		num.Children = append(num.Children, &wordml.Run{Text: "("})
		num.Children = append(num.Children, elementsOf(e.number.field(), metrics.Font{})...)
		num.Children = append(num.Children, &wordml.Run{Text: ")"})
	}
	return &wordml.Table{
		Widths: []float64{total - numW, numW},
		Rows: []*wordml.TableRow{{
			CantSplit: true,
			Height:    s.EquationHeight,
			Cells: []*wordml.TableCell{
				{Width: total - numW, VAlign: "center", Children: []wordml.Element{content}},
				{Width: numW, VAlign: "center", Children: []wordml.Element{num}},
			},
		}},
	}
}
