package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/metrics"
)

// stubMeasurer 是测试用的度量：每个字符宽为字号的一半，行高等于字号。
// 字体族为 Mono 时视为等宽。
type stubMeasurer struct{}

func (stubMeasurer) Width(text string, f metrics.Font) float64 {
	return float64(utf8.RuneCountInString(text)) * f.Size / 2
}
func (stubMeasurer) LineHeight(f metrics.Font) float64 { return f.Size }
func (stubMeasurer) IsMonospace(f metrics.Font) bool   { return f.Family == "Mono" }
func (stubMeasurer) Advance(f metrics.Font) float64    { return f.Size / 2 }

func stubStyle(name string) ParagraphStyle {
	return ParagraphStyle{
		Name:        name,
		Font:        metrics.Font{Family: "Serif", Size: 10},
		LineSpacing: LineHeightSpec{Kind: LineHeightFactor, Factor: 1},
		Align:       "left",
	}
}

// stubEnv 返回版心 100pt 宽、lines×10pt 高的环境。10pt 字号下每行 20 个字符。
func stubEnv(lines int) *Env {
	styles := map[string]ParagraphStyle{}
	for _, name := range []string{
		config.StyleBody, config.StyleCaption, config.StyleTableText,
		config.StyleFormulaContent, config.StyleFormulaNumbering, config.StyleImage,
	} {
		styles[name] = stubStyle(name)
	}
	code := stubStyle(config.StyleCode)
	code.Font.Family = "Mono"
	styles[config.StyleCode] = code
	heading := stubStyle(config.HeadingStyle(1))
	heading.KeepWithNext = true
	styles[heading.Name] = heading

	s := Settings{
		Geometry:             Geometry{PageWidth: 100, PageHeight: float64(lines) * 10},
		Styles:               styles,
		EquationHeight:       20,
		EquationNumberWidth:  10,
		MinLinesAfterHeading: 2,
		WidowLines:           2,
		ImageDPI:             72,
		Captions:             config.Default().Captions,
	}
	return NewEnv(s, stubMeasurer{})
}

// words 返回 n 个 19 字符的单词，在 100pt 宽度下每个单词独占一行。
func words(n int) string {
	return strings.TrimSpace(strings.Repeat(strings.Repeat("x", 19)+" ", n))
}

func body(env *Env, lines int) *Paragraph {
	return NewParagraph(env, env.Settings.Style(config.StyleBody), Text(words(lines)))
}

func runPipeline(env *Env, blocks ...Renderable) (*Result, error) {
	return NewPipeline(env, nil).Run(blocks)
}
