package layout

import (
	"github.com/ByLCY/docflow/linebreak"
	"github.com/ByLCY/docflow/numbering"
	"github.com/ByLCY/docflow/wordml"
)

// Numbered 是公式、图、表、代码清单的编号。对象先以占位符输出，
// 整篇文档登记完成后由 numbering.Registry 统一赋值。
type Numbered struct {
	category string
	label    string
	bookmark int
	slot     *numbering.Slot
}

var _ numbering.Target = (*Numbered)(nil)

// NewNumbered 创建编号。label 非空时编号外包一个同名书签，bookmark 为书签 ID。
func NewNumbered(category, label string, bookmark int) *Numbered {
	return &Numbered{category: category, label: label, bookmark: bookmark, slot: numbering.NewSlot()}
}

func (n *Numbered) Category() string         { return n.category }
func (n *Numbered) Label() string            { return n.label }
func (n *Numbered) AssignNumber(v int) error { return n.slot.Assign(v) }

// Number 返回已分配的编号。
func (n *Numbered) Number() (int, bool) { return n.slot.Number() }

// field 返回 SEQ 域及其书签。测量时按占位符宽度计算。
func (n *Numbered) field() []Inline {
	seq := Inline{
		Run:     linebreak.Run{Text: numbering.Placeholder},
		Element: n.slot.Field(n.category),
	}
	if n.label == "" {
		return []Inline{seq}
	}
	return []Inline{
		{Element: &wordml.BookmarkStart{ID: n.bookmark, Name: n.label}},
		seq,
		{Element: &wordml.BookmarkEnd{ID: n.bookmark}},
	}
}

// reference 返回显示同一编号的普通文字，不会让计数器再次递增。
func (n *Numbered) reference() Inline {
	return Inline{Run: linebreak.Run{Text: numbering.Placeholder}, Element: n.slot.Run()}
}

// caption 返回“类别 编号 分隔符 文字”形式的题注内容。
func (n *Numbered) caption(separator, text string) []Inline {
	out := []Inline{Text(n.category + " ")}
	out = append(out, n.field()...)
	if text != "" {
		out = append(out, Text(separator+text))
	}
	return out
}
