package layout

// Paragraph 是可按行跨页拆分的正文段落。
type Paragraph struct {
	text textBlock
}

// NewParagraph 创建段落。
func NewParagraph(env *Env, style ParagraphStyle, inlines ...Inline) *Paragraph {
	return &Paragraph{text: textBlock{env: env, style: style, inlines: inlines}}
}

func (*Paragraph) sealed() {}

// Style 返回段落样式。
func (p *Paragraph) Style() ParagraphStyle { return p.text.style }

// Lines 返回段落在给定宽度下的行数。
func (p *Paragraph) Lines(maxWidth float64) int { return len(p.text.lines(maxWidth)) }

func (p *Paragraph) EstimateHeight(maxWidth float64) float64 { return p.text.height(maxWidth) }

func (p *Paragraph) LeadHeight(lines int, maxWidth float64) float64 {
	n := min(lines, p.Lines(maxWidth))
	return p.text.style.SpacingBefore + float64(n)*p.text.lineHeight()
}

// spacingBefore 在上一片段同样式且启用上下文间距时返回 0。
func (p *Paragraph) spacingBefore(prev *Fragment) float64 {
	st := p.text.style
	if st.ContextualSpacing && prev != nil && prev.Style == st.Name {
		return 0
	}
	return st.SpacingBefore
}

func (p *Paragraph) widowLines() int {
	if !p.text.style.WidowControl {
		return 1
	}
	return max(p.text.env.Settings.WidowLines, 1)
}

// Render 按行拆分段落：当前页放不下的行成为下一页的续段片段。
// 输出文档中段落只有一个对象，由字处理软件自行断页。
func (p *Paragraph) Render(prev *Fragment, state State) ([]Fragment, error) {
	lines := p.text.lines(state.Width)
	texts := p.text.texts(lines)
	lh := p.text.lineHeight()
	widow := p.widowLines()
	chunks := splitUnits(repeat(lh, len(lines)), p.spacingBefore(prev), 0, p.text.style.SpacingAfter, state, widow, widow)

	frags := make([]Fragment, len(chunks))
	for i, c := range chunks {
		frags[i] = Fragment{
			Height: c.height,
			Break:  c.brk,
			Lines:  texts[c.start:c.end],
			Style:  p.text.style.Name,
		}
	}
	frags[0].Object = p.text.paragraph()
	return frags, nil
}
