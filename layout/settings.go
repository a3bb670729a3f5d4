package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/metrics"
	"github.com/ByLCY/docflow/wordml"
)

// ParagraphStyle 是解析后的段落样式，长度单位为 pt。
type ParagraphStyle struct {
	Name              string         `json:"name"`
	Font              metrics.Font   `json:"font"`
	FirstLineIndent   float64        `json:"firstLineIndent"`
	SpacingBefore     float64        `json:"spacingBefore"`
	SpacingAfter      float64        `json:"spacingAfter"`
	LineSpacing       LineHeightSpec `json:"lineSpacing"`
	Align             string         `json:"align"`
	WidowControl      bool           `json:"widowControl"`
	ContextualSpacing bool           `json:"contextualSpacing"`
	KeepWithNext      bool           `json:"keepWithNext"`
}

// LineHeight 返回一行占用的高度（含行距）。
func (s ParagraphStyle) LineHeight(m metrics.Measurer) float64 {
	return s.LineSpacing.Resolve(m.LineHeight(s.Font))
}

// Props 返回引用该样式的段落属性。
func (s ParagraphStyle) Props() wordml.ParagraphProps {
	return wordml.ParagraphProps{Style: wordml.StyleID(s.Name), KeepNext: s.KeepWithNext}
}

// Settings 是从配置解析出的排版参数。
type Settings struct {
	Geometry             Geometry                  `json:"geometry"`
	Styles               map[string]ParagraphStyle `json:"styles"`
	ListingOffset        float64                   `json:"listingOffset"`
	EquationHeight       float64                   `json:"equationHeight"`
	EquationNumberWidth  float64                   `json:"equationNumberWidth"`
	CellMargin           float64                   `json:"cellMargin"`
	MinLinesAfterHeading int                       `json:"minLinesAfterHeading"`
	WidowLines           int                       `json:"widowLines"`
	ImageDPI             float64                   `json:"imageDpi"`
	Captions             config.Captions           `json:"captions"`
}

// NewSettings 解析配置中的长度与样式。
func NewSettings(cfg *config.Config) (Settings, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	geo, err := resolveGeometry(cfg.Page)
	if err != nil {
		return Settings{}, err
	}
	styles, err := resolveParagraphStyles(cfg.Styles)
	if err != nil {
		return Settings{}, err
	}
	s := Settings{
		Geometry:             geo,
		Styles:               styles,
		MinLinesAfterHeading: cfg.Layout.MinLinesAfterHeading,
		WidowLines:           cfg.Layout.WidowLines,
		ImageDPI:             cfg.Layout.ImageDPI,
		Captions:             cfg.Captions,
	}
	for _, f := range []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"listing_offset", cfg.Layout.ListingOffset, &s.ListingOffset},
		{"equation_height", cfg.Layout.EquationHeight, &s.EquationHeight},
		{"equation_number_width", cfg.Layout.EquationNumberWidth, &s.EquationNumberWidth},
		{"cell_margin", cfg.Layout.CellMargin, &s.CellMargin},
	} {
		v, err := parsePT(f.raw)
		if err != nil {
			return Settings{}, fmt.Errorf("layout.%s: %w", f.name, err)
		}
		if v < 0 {
			return Settings{}, fmt.Errorf("layout.%s 不能为负数", f.name)
		}
		*f.dst = v
	}
	if s.EquationHeight <= 0 {
		return Settings{}, fmt.Errorf("layout.equation_height 必须为正数")
	}
	if s.ListingOffset >= geo.Width() || s.EquationNumberWidth >= geo.Width() {
		return Settings{}, fmt.Errorf("layout: 偏移量超过版心宽度 %gpt", geo.Width())
	}
	return s, nil
}

// Style 返回指定样式；未定义时退回正文样式。
func (s Settings) Style(name string) ParagraphStyle {
	if st, ok := s.Styles[name]; ok {
		return st
	}
	return s.Styles[config.StyleBody]
}

// resolveStyles 展开 extends 继承链。未写 extends 的样式隐式继承正文样式。
func resolveStyles(styles map[string]config.Style) (map[string]map[string]string, error) {
	resolved := map[string]map[string]string{}
	visiting := map[string]bool{}

	var dfs func(name string) (map[string]string, error)
	dfs = func(name string) (map[string]string, error) {
		if props, ok := resolved[name]; ok {
			return props, nil
		}
		style, ok := styles[name]
		if !ok {
			return nil, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return nil, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		parent := style.Extends
		if parent == "" && name != config.StyleBody {
			parent = config.StyleBody
		}
		props := map[string]string{}
		if parent != "" {
			inherited, err := dfs(parent)
			if err != nil {
				return nil, err
			}
			for k, v := range inherited {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		resolved[name] = props
		delete(visiting, name)
		return props, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func resolveParagraphStyles(styles map[string]config.Style) (map[string]ParagraphStyle, error) {
	if _, ok := styles[config.StyleBody]; !ok {
		return nil, fmt.Errorf("缺少正文样式 %s", config.StyleBody)
	}
	flat, err := resolveStyles(styles)
	if err != nil {
		return nil, err
	}
	out := make(map[string]ParagraphStyle, len(flat))
	for name, props := range flat {
		st, err := parseParagraphStyle(name, props)
		if err != nil {
			return nil, err
		}
		out[name] = st
	}
	return out, nil
}

var alignAliases = map[string]string{
	"left":    "left",
	"start":   "left",
	"right":   "right",
	"end":     "right",
	"center":  "center",
	"middle":  "center",
	"both":    "both",
	"justify": "both",
}

func parseParagraphStyle(name string, props map[string]string) (ParagraphStyle, error) {
	st := ParagraphStyle{
		Name:        name,
		Font:        metrics.Font{Size: 12},
		LineSpacing: LineHeightSpec{Kind: LineHeightFactor, Factor: 1},
		Align:       "left",
	}
	for key, raw := range props {
		v := strings.TrimSpace(raw)
		var err error
		switch key {
		case "font":
			st.Font.Family = v
		case "size":
			st.Font.Size, err = parsePT(v)
			if err == nil && st.Font.Size <= 0 {
				err = fmt.Errorf("字号必须为正数")
			}
		case "bold":
			st.Font.Bold, err = strconv.ParseBool(v)
		case "italic":
			st.Font.Italic, err = strconv.ParseBool(v)
		case "first-line-indent":
			st.FirstLineIndent, err = parsePT(v)
		case "spacing-before":
			st.SpacingBefore, err = parsePT(v)
		case "spacing-after":
			st.SpacingAfter, err = parsePT(v)
		case "line-spacing":
			st.LineSpacing, err = ParseLineHeight(v)
		case "align":
			a, ok := alignAliases[strings.ToLower(v)]
			if !ok {
				err = fmt.Errorf("未知的对齐方式")
			}
			st.Align = a
		case "widow-control":
			st.WidowControl, err = strconv.ParseBool(v)
		case "contextual-spacing":
			st.ContextualSpacing, err = strconv.ParseBool(v)
		case "keep-with-next":
			st.KeepWithNext, err = strconv.ParseBool(v)
		default:
			return ParagraphStyle{}, fmt.Errorf("style %s：未知属性 %s", name, key)
		}
		if err != nil {
			return ParagraphStyle{}, fmt.Errorf("style %s：属性 %s=%q 无效：%w", name, key, raw, err)
		}
	}
	if st.SpacingBefore < 0 || st.SpacingAfter < 0 {
		return ParagraphStyle{}, fmt.Errorf("style %s：段间距不能为负数", name)
	}
	return st, nil
}

// pagePresets 以毫米记录常用纸张尺寸（纵向）。
var pagePresets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"LETTER": {215.9, 279.4},
}

func resolveGeometry(p config.Page) (Geometry, error) {
	var width, height float64
	if p.Width != "" || p.Height != "" {
		w, err := parsePT(p.Width)
		if err != nil {
			return Geometry{}, err
		}
		h, err := parsePT(p.Height)
		if err != nil {
			return Geometry{}, err
		}
		width, height = w, h
	} else {
		base, ok := pagePresets[strings.ToUpper(p.Size)]
		if !ok {
			return Geometry{}, fmt.Errorf("暂不支持的纸张尺寸：%s", p.Size)
		}
		width, height = base[0]*MmToPt, base[1]*MmToPt
	}
	if strings.EqualFold(p.Orientation, "landscape") && width < height {
		width, height = height, width
	}
	margin, err := resolveMargin(strings.Fields(p.Margin))
	if err != nil {
		return Geometry{}, err
	}
	g := Geometry{PageWidth: width, PageHeight: height, Margin: margin}
	if g.Width() <= 0 || g.Height() <= 0 {
		return Geometry{}, fmt.Errorf("页边距过大：版心为 %.1fx%.1fpt", g.Width(), g.Height())
	}
	return g, nil
}

// resolveMargin 按 CSS 规则解析 1 到 4 个边距值；为空时四边均为 20mm。
func resolveMargin(values []string) (Margin, error) {
	if len(values) == 0 {
		d := 20 * MmToPt
		return Margin{Top: d, Right: d, Bottom: d, Left: d}, nil
	}
	if len(values) > 4 {
		return Margin{}, fmt.Errorf("margin 最多 4 个值，实际 %d 个", len(values))
	}
	vals := make([]float64, len(values))
	for i, raw := range values {
		v, err := parsePT(raw)
		if err != nil {
			return Margin{}, fmt.Errorf("margin：%w", err)
		}
		if v < 0 {
			return Margin{}, fmt.Errorf("margin 不能为负数：%s", raw)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		v := vals[0]
		return Margin{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}, nil
	case 3:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}, nil
	default:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}, nil
	}
}
