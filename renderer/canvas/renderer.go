package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/layout"
	"github.com/ByLCY/docflow/renderer"
	"github.com/ByLCY/docflow/wordml"
)

const outlineWidth = 0.2

var kindColors = map[layout.Kind]string{
	layout.KindParagraph: "#9e9e9e",
	layout.KindHeading:   "#1565c0",
	layout.KindListing:   "#2e7d32",
	layout.KindEquation:  "#6a1b9a",
	layout.KindTable:     "#ef6c00",
	layout.KindImage:     "#00838f",
}

// Renderer draws a paginated result as a PDF preview via
// github.com/tdewolff/canvas. Every placement is drawn at the position the
// pipeline computed, so the preview shows where the estimator expects
// page breaks to fall.
type Renderer struct {
	*Measurer
	outline bool
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the preview renderer.
type Options struct {
	// Fonts maps a family name to a TrueType face. Unknown families use
	// the Go fonts.
	Fonts map[string]Resource
	// Outline draws placement boxes and page annotations.
	Outline bool
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a preview renderer with the built-in fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected fonts.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{Measurer: NewMeasurer(opts.Fonts), outline: opts.Outline}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}

	g := result.Geometry
	w, h := toMm(g.PageWidth), toMm(g.PageHeight)
	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	r.applyMeta(writer, result.Meta)
	for i, page := range result.Pages {
		if i > 0 {
			writer.NewPage(w, h)
		}
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

		if err := r.drawPage(ctx, result, page); err != nil {
			return nil, fmt.Errorf("第 %d 页: %w", page.Number, err)
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) applyMeta(writer *pdf.PDF, meta layout.DocumentMeta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, result *layout.Result, page layout.Page) error {
	g := result.Geometry
	if r.outline {
		label := fmt.Sprintf("%d · %s · %.1f/%.1fpt", page.Number, page.Break, page.Used, g.Height())
		if err := r.drawLine(ctx, label, r.style(result, config.StyleCaption), g.Margin.Left, g.Margin.Top/2, g.Width(), "left"); err != nil {
			return err
		}
		r.drawBox(ctx, g.Margin.Left, g.Margin.Top, g.Width(), g.Height(), canvas.Hex("#e0e0e0"))
	}

	for _, pl := range page.Placements {
		top := g.Margin.Top + pl.Top
		if r.outline {
			r.drawBox(ctx, g.Margin.Left, top, g.Width(), pl.Height, canvas.Hex(kindColors[pl.Kind]))
		}
		var err error
		switch pl.Kind {
		case layout.KindImage:
			err = r.drawImage(ctx, result, pl, top)
		case layout.KindEquation:
			st := r.style(result, pl.Style)
			mid := top + (pl.Height-st.LineHeight(r))/2
			err = r.drawLines(ctx, pl.Lines, st, g.Margin.Left, mid, g.Width(), top+pl.Height, false)
		default:
			st := r.style(result, pl.Style)
			indent := pl.Kind == layout.KindParagraph && pl.Object != nil
			err = r.drawLines(ctx, pl.Lines, st, g.Margin.Left, top+st.SpacingBefore, g.Width(), top+pl.Height, indent)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// drawLines 逐行绘制文字，超出 bottom 的行不再绘制。坐标单位为 pt。
func (r *Renderer) drawLines(ctx *canvas.Context, lines []string, st layout.ParagraphStyle, x, y, width, bottom float64, indent bool) error {
	lh := st.LineHeight(r)
	for i, line := range lines {
		if y+lh > bottom+1e-6 {
			break
		}
		lx, lw := x, width
		if indent && i == 0 {
			lx += st.FirstLineIndent
			lw -= st.FirstLineIndent
		}
		if err := r.drawLine(ctx, line, st, lx, y, lw, st.Align); err != nil {
			return err
		}
		y += lh
	}
	return nil
}

func (r *Renderer) drawLine(ctx *canvas.Context, text string, st layout.ParagraphStyle, x, y, width float64, align string) error {
	face, err := r.face(st.Font, color.RGBA{R: 30, G: 30, B: 30, A: 255})
	if err != nil {
		return err
	}
	var textAlign canvas.TextAlign
	anchor := x
	switch align {
	case "center":
		textAlign = canvas.Center
		anchor = x + width/2
	case "right", "end":
		textAlign = canvas.Right
		anchor = x + width
	default:
		textAlign = canvas.Left
	}
	// 基线位置：行顶部加上字体上升部（均为 mm）。
	baseline := toMm(y) + face.Metrics().Ascent
	ctx.DrawText(toMm(anchor), baseline, canvas.NewTextLine(face, text, textAlign))
	return nil
}

// drawImage 绘制图片及其题注；图片数据取自结果中的媒体列表。
func (r *Renderer) drawImage(ctx *canvas.Context, result *layout.Result, pl layout.Placement, top float64) error {
	g := result.Geometry
	st := r.style(result, pl.Style)
	group, _ := pl.Object.(wordml.Group)
	var drawing *wordml.Drawing
	for _, el := range group {
		if p, ok := el.(*wordml.Paragraph); ok && len(p.Children) > 0 {
			if d, ok := p.Children[0].(*wordml.Drawing); ok {
				drawing = d
				break
			}
		}
	}
	if drawing == nil {
		return nil
	}
	var data []byte
	for _, m := range result.Media {
		if m.RelID == drawing.RelID {
			data = m.Data
		}
	}
	y := top + st.SpacingBefore
	if len(data) > 0 {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("解码图片 %s 失败: %w", drawing.Name, err)
		}
		x := g.Margin.Left
		if st.Align == "center" {
			x += (g.Width() - drawing.Width) / 2
		}
		dpmm := float64(img.Bounds().Dx()) / toMm(drawing.Width)
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(toMm(x), toMm(y), img, canvas.DPMM(dpmm))
	}
	if len(pl.Lines) < 2 {
		return nil
	}
	caption := r.style(result, config.StyleCaption)
	y += drawing.Height + st.SpacingAfter + caption.SpacingBefore
	return r.drawLines(ctx, pl.Lines[1:], caption, g.Margin.Left, y, g.Width(), top+pl.Height, false)
}

func (r *Renderer) drawBox(ctx *canvas.Context, x, y, w, h float64, stroke color.Color) {
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(stroke)
	ctx.SetStrokeWidth(outlineWidth)
	ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(w), toMm(h)))
}

func (r *Renderer) style(result *layout.Result, name string) layout.ParagraphStyle {
	if st, ok := result.Styles[name]; ok {
		return st
	}
	return result.Styles[config.StyleBody]
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
