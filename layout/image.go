package layout

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/wordml"
)

// Image 是不可拆分的图片段落，题注在图片下方。尺寸取自图片头信息或显式指定，
// 超出版心时按比例缩小。
type Image struct {
	env           *Env
	media         Media
	id            int
	width, height float64
	number        *Numbered
	caption       string
}

// NewImage 读取图片尺寸并创建图片块。width、height 为 0 时按 DPI 使用原始尺寸，
// 只给出其中一个时保持宽高比。media.Format 会被填写为识别出的格式。
func NewImage(env *Env, media *Media, id int, width, height float64, number *Numbered, caption string) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(media.Data))
	if err != nil {
		return nil, fmt.Errorf("无法识别图片 %s：%w", media.Src, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("图片 %s 尺寸为 0", media.Src)
	}
	media.Format = format
	dpi := env.Settings.ImageDPI
	w0, h0 := float64(cfg.Width)*72/dpi, float64(cfg.Height)*72/dpi
	switch {
	case width > 0 && height > 0:
	case width > 0:
		height = width * h0 / w0
	case height > 0:
		width = height * w0 / h0
	default:
		width, height = w0, h0
	}
	img := &Image{env: env, media: *media, id: id, width: width, height: height, number: number, caption: caption}
	img.fit()
	return img, nil
}

func (*Image) sealed() {}

// Size 返回最终尺寸（pt）。
func (i *Image) Size() (width, height float64) { return i.width, i.height }

// fit 按版心宽度以及整页高度（扣除题注）等比缩小。
func (i *Image) fit() {
	geo := i.env.Settings.Geometry
	if i.width > geo.Width() {
		i.height *= geo.Width() / i.width
		i.width = geo.Width()
	}
	st := i.style()
	room := geo.Height() - st.SpacingBefore - st.SpacingAfter
	if cb, ok := i.captionBlock(); ok {
		room -= cb.height(geo.Width())
	}
	if room > 0 && i.lineHeight() > room {
		scale := room / i.lineHeight()
		i.width *= scale
		i.height *= scale
	}
}

func (i *Image) style() ParagraphStyle { return i.env.Settings.Style(config.StyleImage) }

// lineHeight 图片所在行的高度：倍数行距会同样放大图片行。
func (i *Image) lineHeight() float64 { return i.style().LineSpacing.Resolve(i.height) }

func (i *Image) captionBlock() (textBlock, bool) {
	if i.number == nil && i.caption == "" {
		return textBlock{}, false
	}
	inlines := []Inline{Text(i.caption)}
	if i.number != nil {
		inlines = i.number.caption(i.env.Settings.Captions.Separator, i.caption)
	}
	return textBlock{env: i.env, style: i.env.Settings.Style(config.StyleCaption), inlines: inlines}, true
}

func (i *Image) EstimateHeight(maxWidth float64) float64 {
	st := i.style()
	h := st.SpacingBefore + i.lineHeight() + st.SpacingAfter
	if cb, ok := i.captionBlock(); ok {
		h += cb.height(maxWidth)
	}
	return h
}

func (i *Image) LeadHeight(_ int, maxWidth float64) float64 { return i.EstimateHeight(maxWidth) }

func (i *Image) Render(_ *Fragment, state State) ([]Fragment, error) {
	h := i.EstimateHeight(state.Width)
	pic := &wordml.Paragraph{Props: i.style().Props()}
	pic.Props.KeepNext = true
	pic.Children = []wordml.Element{&wordml.Drawing{
		ID:     i.id,
		Name:   i.media.Name,
		RelID:  i.media.RelID,
		Width:  i.width,
		Height: i.height,
	}}
	obj := wordml.Group{pic}
	lines := []string{fmt.Sprintf("[%s %.0fx%.0fpt]", i.media.Name, i.width, i.height)}
	if cb, ok := i.captionBlock(); ok {
		obj = append(obj, cb.paragraph())
		lines = append(lines, cb.texts(cb.lines(state.Width))...)
	}
	f := Fragment{Object: obj, Height: h, Lines: lines, Style: config.StyleImage}
	if h > state.Remaining+fitEpsilon && !state.AtPageTop {
		f.Break = BreakExplicit
	}
	return []Fragment{f}, nil
}
