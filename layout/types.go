package layout

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ByLCY/docflow/wordml"
)

// 该文件定义分页结果，供 docx 输出、预览渲染与调试 JSON 共用。所有长度单位均为 pt。

// Result 保存分页后的页面、警告与文档级信息。
type Result struct {
	Geometry Geometry                  `json:"geometry"`
	Pages    []Page                    `json:"pages"`
	Warnings []Warning                 `json:"warnings,omitempty"`
	Meta     DocumentMeta              `json:"meta"`
	Styles   map[string]ParagraphStyle `json:"styles"`
	Media    []Media                   `json:"media,omitempty"`
	// Numbers 记录带标签对象的最终编号，供交叉引用使用。
	Numbers map[string]int `json:"numbers,omitempty"`
}

// Margin 页边距（pt）。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Geometry 描述纸张尺寸与边距，可用区域由二者推导。
type Geometry struct {
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	Margin     Margin  `json:"margin"`
}

// Width 返回版心宽度。
func (g Geometry) Width() float64 { return g.PageWidth - g.Margin.Left - g.Margin.Right }

// Height 返回版心高度。
func (g Geometry) Height() float64 { return g.PageHeight - g.Margin.Top - g.Margin.Bottom }

// Section 转换为 docx 的节属性。
func (g Geometry) Section() wordml.Section {
	return wordml.Section{
		Width:  g.PageWidth,
		Height: g.PageHeight,
		Top:    g.Margin.Top,
		Right:  g.Margin.Right,
		Bottom: g.Margin.Bottom,
		Left:   g.Margin.Left,
	}
}

// BreakKind 说明一页是如何开始的，或片段前是否需要分页。
type BreakKind int

const (
	BreakNone     BreakKind = iota
	BreakNatural            // 当前页放不下，内容自然流到下一页
	BreakExplicit           // 布局策略要求分页，输出文档中会写入分页
	BreakOverflow           // 公式等原子块把剩余空间当作占位推到下一页
)

var breakNames = map[BreakKind]string{
	BreakNone:     "none",
	BreakNatural:  "natural",
	BreakExplicit: "explicit",
	BreakOverflow: "overflow",
}

func (b BreakKind) String() string {
	if s, ok := breakNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BreakKind(%d)", int(b))
}

var breakKinds = lo.Invert(breakNames)

func (b BreakKind) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText 读回调试 JSON 中的分页名称。
func (b *BreakKind) UnmarshalText(text []byte) error {
	kind, ok := breakKinds[string(text)]
	if !ok {
		return fmt.Errorf("未知的分页类型 %q", text)
	}
	*b = kind
	return nil
}

// Kind 标识渲染对象的种类。
type Kind string

const (
	KindParagraph Kind = "paragraph"
	KindListing   Kind = "listing"
	KindEquation  Kind = "equation"
	KindTable     Kind = "table"
	KindImage     Kind = "image"
	KindHeading   Kind = "heading"
)

// Page 记录一页上按顺序放置的片段。
type Page struct {
	Number     int         `json:"number"`
	Break      BreakKind   `json:"break"`
	Used       float64     `json:"used"`
	Placements []Placement `json:"placements"`
}

// Placement 是放到某一页上的一个片段。Top 相对版心顶部。
type Placement struct {
	Block  int            `json:"block"`
	Kind   Kind           `json:"kind"`
	Top    float64        `json:"top"`
	Height float64        `json:"height"`
	Break  BreakKind      `json:"break,omitempty"`
	Style  string         `json:"style,omitempty"`
	Lines  []string       `json:"lines,omitempty"`
	Object wordml.Element `json:"-"`
}

// Warning 是不影响输出的布局问题，例如超过整页高度的块。
type Warning struct {
	Block   int     `json:"block"`
	Kind    Kind    `json:"kind"`
	Page    int     `json:"page"`
	Height  float64 `json:"height"`
	Message string  `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("第 %d 页，块 #%d（%s）：%s", w.Page, w.Block, w.Kind, w.Message)
}

// DocumentMeta 保存文档元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Keywords []string `json:"keywords"`
	Creator  string   `json:"creator"`
}

// Media 是嵌入文档的图片数据。
type Media struct {
	RelID string `json:"relId"`
	Name  string `json:"name"`
	Src   string `json:"src"`
	// Format 为 image.DecodeConfig 识别出的格式名，如 png、jpeg。
	Format string `json:"format"`
	Data   []byte `json:"-"`
}
