package layout

import (
	"fmt"

	"github.com/flanksource/commons/logger"
)

// Pipeline 按文档顺序单遍放置渲染对象，不回溯已做出的分页决定。
type Pipeline struct {
	env *Env
	log logger.Logger

	breaks map[int]bool

	tracker  *Tracker
	result   *Result
	page     *Page
	prev     *Fragment
	pending  BreakKind
	warnings []Warning
}

// NewPipeline 创建编排器。log 为空时使用 "layout" 日志器。
func NewPipeline(env *Env, log logger.Logger) *Pipeline {
	if log == nil {
		log = logger.GetLogger("layout")
	}
	return &Pipeline{env: env, log: log, breaks: map[int]bool{}}
}

// BreakBefore 要求在指定序号的块之前强制分页（文档中的 break 命令）。
func (p *Pipeline) BreakBefore(blocks ...int) {
	for _, i := range blocks {
		p.breaks[i] = true
	}
}

// kindOf 对封闭的渲染对象集合做穷尽匹配。
func kindOf(r Renderable) Kind {
	switch r.(type) {
	case *Paragraph:
		return KindParagraph
	case *Listing:
		return KindListing
	case *Equation:
		return KindEquation
	case *Table:
		return KindTable
	case *Image:
		return KindImage
	case *Heading:
		return KindHeading
	default:
		panic(fmt.Sprintf("layout: 未知的渲染对象 %T", r))
	}
}

// Run 放置全部渲染对象并返回分页结果。
func (p *Pipeline) Run(blocks []Renderable) (*Result, error) {
	geo := p.env.Settings.Geometry
	p.tracker = NewTracker(geo)
	p.result = &Result{Geometry: geo, Styles: p.env.Settings.Styles}
	p.page = &Page{Number: 1}
	p.prev = nil
	p.pending = BreakNone
	p.warnings = nil

	for i, b := range blocks {
		kind := kindOf(b)
		if p.breaks[i] && !p.tracker.AtPageTop() {
			p.newPage(BreakExplicit)
			p.pending = BreakExplicit
		}
		st := p.tracker.State()
		if kind == KindHeading {
			st.NextLead = p.nextLead(blocks[i+1:], st.Width)
		}
		frags, err := b.Render(p.prev, st)
		if err != nil {
			return nil, fmt.Errorf("块 #%d（%s）：%w", i, kind, err)
		}
		for _, f := range frags {
			p.place(i, kind, f)
			p.prev = &f
		}
	}
	p.result.Pages = append(p.result.Pages, *p.page)
	p.result.Warnings = p.warnings
	p.log.Debugf("分页完成：%d 个块，%d 页，%d 条警告", len(blocks), len(p.result.Pages), len(p.warnings))
	return p.result, nil
}

// nextLead 计算标题之后需要同页的高度：连续的标题全部计入，
// 再加上第一个非标题块的前若干行。
func (p *Pipeline) nextLead(rest []Renderable, width float64) float64 {
	lines := p.env.Settings.MinLinesAfterHeading
	var h float64
	for _, b := range rest {
		if kindOf(b) != KindHeading {
			return h + b.LeadHeight(lines, width)
		}
		h += b.EstimateHeight(width)
	}
	return h
}

// fits 容忍 fitEpsilon 以内的累加舍入误差；Tracker.CanFit 本身是精确比较，
// 超出部分由 Consume 截为 0。
func (p *Pipeline) fits(h float64) bool { return p.tracker.CanFit(h - fitEpsilon) }

func (p *Pipeline) newPage(kind BreakKind) {
	p.result.Pages = append(p.result.Pages, *p.page)
	p.tracker.ResetToFullPage()
	p.page = &Page{Number: p.tracker.Page(), Break: kind}
}

func (p *Pipeline) consume(h float64) {
	p.tracker.Consume(h)
	p.page.Used = p.tracker.Geometry().Height() - p.tracker.Remaining()
}

func (p *Pipeline) place(block int, kind Kind, f Fragment) {
	pl := Placement{Block: block, Kind: kind, Style: f.Style, Lines: f.Lines, Object: f.Object}
	// 已在页首时无需换页，也不在输出中写入分页。
	if f.Break != BreakNone && !p.tracker.AtPageTop() {
		p.newPage(f.Break)
		pl.Break = f.Break
	}
	if p.pending != BreakNone {
		pl.Break, p.pending = p.pending, BreakNone
	}

	if f.Overflow {
		push := p.tracker.Remaining()
		p.consume(push)
		p.newPage(BreakOverflow)
		f.Height -= push
	}
	if !p.fits(f.Height) && !p.tracker.AtPageTop() {
		p.newPage(BreakNatural)
	}

	pl.Top = p.tracker.Geometry().Height() - p.tracker.Remaining()
	pl.Height = f.Height
	p.page.Placements = append(p.page.Placements, pl)

	if p.fits(f.Height) {
		p.consume(min(f.Height, p.tracker.Remaining()))
		return
	}
	p.oversized(block, kind, f.Height)
}

// oversized 放置高于整页的片段：照常输出，超出部分顺延到后续页面。
func (p *Pipeline) oversized(block int, kind Kind, h float64) {
	full := p.tracker.Geometry().Height()
	w := Warning{
		Block:   block,
		Kind:    kind,
		Page:    p.tracker.Page(),
		Height:  h,
		Message: fmt.Sprintf("高度 %.1fpt 超过整页可用高度 %.1fpt，内容将溢出到下一页", h, full),
	}
	p.warnings = append(p.warnings, w)
	p.log.Warnf("%s", w)

	excess := h - p.tracker.Remaining()
	p.consume(p.tracker.Remaining())
	for excess > fitEpsilon {
		p.newPage(BreakOverflow)
		step := min(excess, full)
		p.consume(step)
		excess -= step
	}
}
