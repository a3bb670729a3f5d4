package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/docflow/config"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestDefaultSettings(t *testing.T) {
	s, err := NewSettings(nil)
	if err != nil {
		t.Fatalf("默认配置应当有效: %v", err)
	}
	g := s.Geometry
	if !near(g.PageWidth, 210*MmToPt) || !near(g.PageHeight, 297*MmToPt) {
		t.Fatalf("A4 尺寸错误：%gx%g", g.PageWidth, g.PageHeight)
	}
	if !near(g.Width(), 170*MmToPt) || !near(g.Height(), 257*MmToPt) {
		t.Fatalf("版心尺寸错误：%gx%g", g.Width(), g.Height())
	}
	if s.EquationHeight != 50 || s.EquationNumberWidth != 30 {
		t.Fatalf("公式常量错误：%g/%g", s.EquationHeight, s.EquationNumberWidth)
	}

	b := s.Style(config.StyleBody)
	if b.Font.Family != "Times New Roman" || b.Font.Size != 14 {
		t.Fatalf("正文字体错误：%+v", b.Font)
	}
	if !near(b.FirstLineIndent, 12.5*MmToPt) || b.LineSpacing.Factor != 1.5 || !b.WidowControl {
		t.Fatalf("正文样式错误：%+v", b)
	}
	caption := s.Style(config.StyleCaption)
	if caption.Font.Family != "Times New Roman" || caption.FirstLineIndent != 0 || caption.Align != "center" {
		t.Fatalf("题注应继承正文字体并覆盖缩进与对齐：%+v", caption)
	}
	h3 := s.Style(config.HeadingStyle(3))
	if !h3.Font.Bold || !h3.Font.Italic || h3.Font.Size != 14 || !h3.KeepWithNext {
		t.Fatalf("三级标题应沿继承链合并属性：%+v", h3)
	}
	if s.Style("Missing").Name != config.StyleBody {
		t.Fatalf("未定义的样式应退回正文样式")
	}
}

func TestStyleInheritanceErrors(t *testing.T) {
	cases := map[string]struct {
		styles map[string]config.Style
		want   string
	}{
		"循环": {map[string]config.Style{
			config.StyleBody: {Props: map[string]string{"size": "12pt"}},
			"A":              {Extends: "B"},
			"B":              {Extends: "A"},
		}, "循环"},
		"未定义父样式": {map[string]config.Style{
			config.StyleBody: {Props: map[string]string{"size": "12pt"}},
			"A":              {Extends: "Nope"},
		}, "未定义"},
		"未知属性": {map[string]config.Style{
			config.StyleBody: {Props: map[string]string{"colour": "red"}},
		}, "未知属性"},
		"无效字号": {map[string]config.Style{
			config.StyleBody: {Props: map[string]string{"size": "0pt"}},
		}, "size"},
		"无效对齐": {map[string]config.Style{
			config.StyleBody: {Props: map[string]string{"align": "diagonal"}},
		}, "align"},
	}
	for name, tc := range cases {
		_, err := resolveParagraphStyles(tc.styles)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s：期望包含 %q 的错误，实际 %v", name, tc.want, err)
		}
	}
}

func TestResolveMargin(t *testing.T) {
	cases := []struct {
		in   string
		want Margin
	}{
		{"", Margin{20 * MmToPt, 20 * MmToPt, 20 * MmToPt, 20 * MmToPt}},
		{"10pt", Margin{10, 10, 10, 10}},
		{"10pt 20pt", Margin{10, 20, 10, 20}},
		{"10pt 20pt 30pt", Margin{10, 20, 30, 20}},
		{"10pt 20pt 30pt 40pt", Margin{10, 20, 30, 40}},
	}
	for _, tc := range cases {
		got, err := resolveMargin(strings.Fields(tc.in))
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if !near(got.Top, tc.want.Top) || !near(got.Right, tc.want.Right) ||
			!near(got.Bottom, tc.want.Bottom) || !near(got.Left, tc.want.Left) {
			t.Fatalf("%q: 期望 %+v，实际 %+v", tc.in, tc.want, got)
		}
	}
	for _, bad := range []string{"abc", "-5pt", "1pt 2pt 3pt 4pt 5pt"} {
		if _, err := resolveMargin(strings.Fields(bad)); err == nil {
			t.Fatalf("%q 应当报错", bad)
		}
	}
}

func TestResolveGeometry(t *testing.T) {
	g, err := resolveGeometry(config.Page{Size: "a5", Orientation: "landscape", Margin: "10mm"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if !near(g.PageWidth, 210*MmToPt) || !near(g.PageHeight, 148*MmToPt) {
		t.Fatalf("横向 A5 应交换宽高：%gx%g", g.PageWidth, g.PageHeight)
	}

	g, err = resolveGeometry(config.Page{Width: "100mm", Height: "50mm", Margin: "5mm"})
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if !near(g.Width(), 90*MmToPt) || !near(g.Height(), 40*MmToPt) {
		t.Fatalf("自定义纸张版心错误：%gx%g", g.Width(), g.Height())
	}

	for name, p := range map[string]config.Page{
		"未知尺寸": {Size: "B9"},
		"边距过大": {Size: "A4", Margin: "150mm"},
	} {
		if _, err := resolveGeometry(p); err == nil {
			t.Fatalf("%s：应当报错", name)
		}
	}
}

func TestSettingsRejectWideOffsets(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.ListingOffset = "200mm"
	if _, err := NewSettings(cfg); err == nil {
		t.Fatalf("超过版心宽度的偏移量应当报错")
	}
	cfg = config.Default()
	cfg.Layout.EquationHeight = "0"
	if _, err := NewSettings(cfg); err == nil {
		t.Fatalf("公式高度为 0 应当报错")
	}
}
