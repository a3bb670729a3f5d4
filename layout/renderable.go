package layout

import (
	"math"

	"github.com/ByLCY/docflow/linebreak"
	"github.com/ByLCY/docflow/metrics"
	"github.com/ByLCY/docflow/wordml"
)

// Renderable 是可以估算并输出自身的内容块。实现集合是封闭的：
// Paragraph、Listing、Equation、Table、Image、Heading。
type Renderable interface {
	// EstimateHeight 返回整块在给定宽度下的高度，不产生副作用。
	EstimateHeight(maxWidth float64) float64
	// LeadHeight 返回前 lines 行的高度，供标题的“与下段同页”判断使用。
	LeadHeight(lines int, maxWidth float64) float64
	// Render 根据当前页状态生成片段。它只读取 state，不修改页面状态。
	Render(prev *Fragment, state State) ([]Fragment, error)

	sealed()
}

// Fragment 是放置（部分）渲染对象得到的输出及其占用高度。
type Fragment struct {
	// Object 为输出文档中的元素；同一段落的续页片段为空。
	Object wordml.Element
	Height float64
	// Break 表示放置前需要换页。BreakExplicit 会在输出文档中写入分页。
	Break BreakKind
	// Overflow 表示 Height 中包含把剩余空间推到下一页的占位高度。
	Overflow bool
	Lines    []string
	Style    string
}

// Env 是渲染对象共享的只读环境。
type Env struct {
	Settings Settings
	Measurer metrics.Measurer
	Breaker  *linebreak.Breaker
}

// NewEnv 创建共享环境。
func NewEnv(s Settings, m metrics.Measurer) *Env {
	return &Env{Settings: s, Measurer: m, Breaker: linebreak.New(m)}
}

// Inline 是段落中的一段文字。Element 为空时按 Run 生成 w:r；
// 编号、交叉引用等占位元素通过 Element 输出，Run 只用于测量。
type Inline struct {
	Run     linebreak.Run
	Element wordml.Element
}

// Text 返回一段继承段落字体的文字。
func Text(s string) Inline { return Inline{Run: linebreak.Run{Text: s}} }

// Styled 返回加粗或倾斜的文字。
func Styled(s string, bold, italic bool) Inline {
	return Inline{Run: linebreak.Run{Text: s, Font: metrics.Font{Bold: bold, Italic: italic}}}
}

// Code 返回使用指定等宽字体的文字。
func Code(s, family string) Inline {
	return Inline{Run: linebreak.Run{Text: s, Font: metrics.Font{Family: family}}}
}

func runsOf(inlines []Inline) []linebreak.Run {
	runs := make([]linebreak.Run, len(inlines))
	for i, in := range inlines {
		runs[i] = in.Run
	}
	return runs
}

func elementsOf(inlines []Inline, base metrics.Font) []wordml.Element {
	out := make([]wordml.Element, 0, len(inlines))
	for _, in := range inlines {
		if in.Element != nil {
			out = append(out, in.Element)
			continue
		}
		f := in.Run.Font
		r := &wordml.Run{Text: in.Run.Text, Bold: f.Bold && !base.Bold, Italic: f.Italic && !base.Italic}
		if f.Family != "" && f.Family != base.Family {
			r.Font = f.Family
		}
		if f.Size > 0 && f.Size != base.Size {
			r.Size = f.Size
		}
		out = append(out, r)
	}
	return out
}

// textBlock 是按某一样式排版的一段文字，段落、标题与题注共用。
type textBlock struct {
	env     *Env
	style   ParagraphStyle
	inlines []Inline
}

func (b textBlock) lines(maxWidth float64) []linebreak.Line {
	mono := b.env.Measurer.IsMonospace(b.style.Font)
	return b.env.Breaker.Lines(runsOf(b.inlines), maxWidth, b.style.Font, b.style.FirstLineIndent, mono)
}

func (b textBlock) lineHeight() float64 { return b.style.LineHeight(b.env.Measurer) }

func (b textBlock) height(maxWidth float64) float64 {
	n := len(b.lines(maxWidth))
	return b.style.SpacingBefore + float64(n)*b.lineHeight() + b.style.SpacingAfter
}

func (b textBlock) texts(lines []linebreak.Line) []string {
	return linebreak.Texts(runsOf(b.inlines), lines)
}

func (b textBlock) paragraph() *wordml.Paragraph {
	return &wordml.Paragraph{Props: b.style.Props(), Children: elementsOf(b.inlines, b.style.Font)}
}

// chunk 是放在同一页上的一段连续单元 [start, end)。
type chunk struct {
	start, end int
	height     float64
	brk        BreakKind
}

// splitUnits 按页切分高度为 units 的连续内容。head 是首段前的附加高度（段前距、题注），
// cont 是续页开头的附加高度，tail 是末尾附加高度（段后距，页底放不下时截断）。
// minHead 与 minTail 是孤行控制要求的首、末段最少单元数。
func splitUnits(units []float64, head, cont, tail float64, st State, minHead, minTail int) []chunk {
	n := len(units)
	if n == 0 {
		return []chunk{{0, 0, head + tail, BreakNone}}
	}
	avail, atTop := st.Remaining, st.AtPageTop
	extra, brk := head, BreakNone
	var out []chunk
	for i := 0; i < n; {
		rest := sum(units[i:])
		if extra+rest+tail <= avail+fitEpsilon {
			return append(out, chunk{i, n, extra + rest + tail, brk})
		}
		if extra+rest <= avail+fitEpsilon {
			return append(out, chunk{i, n, math.Max(avail, extra+rest), brk})
		}
		k, acc := 0, extra
		for i+k < n && acc+units[i+k] <= avail+fitEpsilon {
			acc += units[i+k]
			k++
		}
		raw := k
		if i == 0 && k < minHead {
			k = 0
		}
		if left := n - i - k; k > 0 && left < minTail {
			k = max(n-i-minTail, 0)
			if i == 0 && k < minHead {
				k = 0
			}
		}
		if k == 0 {
			if !atTop {
				brk, avail, atTop = BreakNatural, st.Height, true
				if i > 0 {
					extra = cont
				}
				continue
			}
			k = max(raw, 1)
		}
		out = append(out, chunk{i, i + k, extra + sum(units[i:i+k]), brk})
		i += k
		brk, avail, atTop, extra = BreakNatural, st.Height, true, cont
	}
	return out
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
