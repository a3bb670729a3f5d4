package layout

import "fmt"

// fitEpsilon 吸收行高累加产生的浮点误差。
const fitEpsilon = 1e-6

// State 是 Tracker 的只读快照，渲染对象只能读取它。
type State struct {
	Remaining float64 `json:"remaining"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Page      int     `json:"page"`
	AtPageTop bool    `json:"atPageTop"`
	// NextLead 是后续内容前几行的高度，标题用它判断是否与下文同页。
	NextLead float64 `json:"nextLead"`
}

// Tracker 记录当前页剩余的可用高度。只有 Pipeline 会修改它。
type Tracker struct {
	geo       Geometry
	remaining float64
	page      int
}

// NewTracker 创建位于第一页顶部的 Tracker。版心尺寸必须为正。
func NewTracker(g Geometry) *Tracker {
	if g.Width() <= 0 || g.Height() <= 0 {
		panic(fmt.Sprintf("layout: 版心尺寸无效 %gx%g", g.Width(), g.Height()))
	}
	return &Tracker{geo: g, remaining: g.Height(), page: 1}
}

// Remaining 返回当前页剩余高度。
func (t *Tracker) Remaining() float64 { return t.remaining }

// Page 返回当前页码（从 1 开始）。
func (t *Tracker) Page() int { return t.page }

// Geometry 返回页面几何信息。
func (t *Tracker) Geometry() Geometry { return t.geo }

// AtPageTop 表示当前页尚未放置任何内容。
func (t *Tracker) AtPageTop() bool { return t.remaining == t.geo.Height() }

// CanFit 当且仅当 h ≤ 剩余高度时返回 true。
func (t *Tracker) CanFit(h float64) bool { return h <= t.remaining }

// Consume 扣减剩余高度。h 为负或超过剩余高度属于调用方错误。
func (t *Tracker) Consume(h float64) {
	if h < 0 {
		panic(fmt.Sprintf("layout: 消耗高度为负 %g", h))
	}
	if h > t.remaining+fitEpsilon {
		panic(fmt.Sprintf("layout: 消耗高度 %g 超过剩余高度 %g", h, t.remaining))
	}
	t.remaining -= h
	if t.remaining < 0 {
		t.remaining = 0
	}
}

// ResetToFullPage 在分页后恢复整页高度。
func (t *Tracker) ResetToFullPage() {
	t.remaining = t.geo.Height()
	t.page++
}

// State 返回当前快照。
func (t *Tracker) State() State {
	return State{
		Remaining: t.remaining,
		Width:     t.geo.Width(),
		Height:    t.geo.Height(),
		Page:      t.page,
		AtPageTop: t.AtPageTop(),
	}
}
