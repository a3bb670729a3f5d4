package layout

// Heading 是不可拆分的标题。启用“与下段同页”时，若本页放不下标题加上
// 后续内容的前几行，标题整体移到下一页并在其前写入分页。
type Heading struct {
	text  textBlock
	level int
}

// NewHeading 创建标题，style 通常为 HeadingN。
func NewHeading(env *Env, level int, style ParagraphStyle, inlines ...Inline) *Heading {
	return &Heading{text: textBlock{env: env, style: style, inlines: inlines}, level: level}
}

func (*Heading) sealed() {}

// Level 返回标题级别。
func (h *Heading) Level() int { return h.level }

func (h *Heading) EstimateHeight(maxWidth float64) float64 { return h.text.height(maxWidth) }

func (h *Heading) LeadHeight(_ int, maxWidth float64) float64 { return h.EstimateHeight(maxWidth) }

func (h *Heading) Render(_ *Fragment, state State) ([]Fragment, error) {
	lines := h.text.lines(state.Width)
	height := h.EstimateHeight(state.Width)
	need := height
	if h.text.style.KeepWithNext {
		need += state.NextLead
	}
	f := Fragment{
		Object: h.text.paragraph(),
		Height: height,
		Lines:  h.text.texts(lines),
		Style:  h.text.style.Name,
	}
	if need > state.Remaining+fitEpsilon && !state.AtPageTop {
		f.Break = BreakExplicit
	}
	return []Fragment{f}, nil
}
