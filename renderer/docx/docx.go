// Package docx 将分页结果打包为 .docx 文件（Office Open XML）。
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/layout"
	"github.com/ByLCY/docflow/renderer"
	"github.com/ByLCY/docflow/wordml"
)

const (
	relsNS         = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNS = "http://schemas.openxmlformats.org/package/2006/content-types"
	officeRel      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	packageRel     = "http://schemas.openxmlformats.org/package/2006/relationships/"
)

var mediaTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// Renderer 输出 docx 包。分页结果中的自然分页与溢出分页交给文字处理软件重现，
// 只有显式分页会写入文档。
type Renderer struct {
	now func() time.Time
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建 docx 渲染器。
func NewRenderer() *Renderer { return &Renderer{now: time.Now} }

type part struct {
	name string
	data []byte
}

// Render 生成 docx 文件内容。
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	now := r.now().UTC()

	doc := &wordml.Document{Body: Body(result), Section: result.Geometry.Section()}
	var parts []part
	add := func(name string, v any) error {
		var buf bytes.Buffer
		if err := wordml.WritePart(&buf, v); err != nil {
			return fmt.Errorf("生成 %s 失败: %w", name, err)
		}
		parts = append(parts, part{name: name, data: buf.Bytes()})
		return nil
	}
	media := mediaParts(result.Media)

	for _, p := range []struct {
		name string
		v    any
	}{
		{"[Content_Types].xml", contentTypes(result.Media)},
		{"_rels/.rels", packageRels()},
		{"docProps/core.xml", coreProps(result.Meta, now)},
		{"docProps/app.xml", appProps(result.Meta.Creator, len(result.Pages))},
		{"word/document.xml", doc},
		{"word/styles.xml", Styles(result.Styles)},
		{"word/_rels/document.xml.rels", documentRels(result.Media)},
	} {
		if err := add(p.name, p.v); err != nil {
			return nil, err
		}
	}
	parts = append(parts, media...)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return nil, fmt.Errorf("写入 %s 失败: %w", p.name, err)
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, fmt.Errorf("写入 %s 失败: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("写入 docx 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Body 按页面顺序收集文档对象。续页片段没有对象；显式分页的片段
// 在首段落上设置 pageBreakBefore，首元素不是段落时插入分页段落。
func Body(result *layout.Result) []wordml.Element {
	var out []wordml.Element
	for _, page := range result.Pages {
		for _, pl := range page.Placements {
			if pl.Object == nil {
				continue
			}
			if pl.Break == layout.BreakExplicit {
				out = append(out, withPageBreak(pl.Object)...)
				continue
			}
			out = append(out, pl.Object)
		}
	}
	return out
}

func withPageBreak(el wordml.Element) []wordml.Element {
	switch v := el.(type) {
	case *wordml.Paragraph:
		p := *v
		p.Props.PageBreakBefore = true
		return []wordml.Element{&p}
	case wordml.Group:
		if len(v) > 0 {
			if first := withPageBreak(v[0]); len(first) == 1 {
				return []wordml.Element{append(wordml.Group{first[0]}, v[1:]...)}
			}
		}
	}
	return []wordml.Element{wordml.PageBreak{}, el}
}

// Styles 把解析后的段落样式写成 styles.xml，正文样式为默认样式并排在最前。
func Styles(styles map[string]layout.ParagraphStyle) wordml.Styles {
	names := lo.Keys(styles)
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case a == config.StyleBody:
			return -1
		case b == config.StyleBody:
			return 1
		}
		return strings.Compare(a, b)
	})
	return lo.Map(names, func(name string, _ int) wordml.StyleDef {
		return styleDef(styles[name])
	})
}

func styleDef(st layout.ParagraphStyle) wordml.StyleDef {
	widow := st.WidowControl
	props := wordml.ParagraphProps{
		Align:             st.Align,
		KeepNext:          st.KeepWithNext,
		WidowControl:      &widow,
		ContextualSpacing: st.ContextualSpacing,
		SpacingBefore:     st.SpacingBefore,
		SpacingAfter:      st.SpacingAfter,
		FirstLineIndent:   st.FirstLineIndent,
	}
	switch st.LineSpacing.Kind {
	case layout.LineHeightAbsolute:
		props.LineExact = st.LineSpacing.Len.ToPT()
	default:
		props.LineSpacing = lo.Ternary(st.LineSpacing.Factor > 0, st.LineSpacing.Factor, 1)
	}
	return wordml.StyleDef{
		Name:    st.Name,
		Default: st.Name == config.StyleBody,
		Font:    st.Font.Family,
		Size:    st.Font.Size,
		Bold:    st.Font.Bold,
		Italic:  st.Font.Italic,
		Props:   props,
	}
}

func mediaName(i int, m layout.Media) string {
	return fmt.Sprintf("media/image%d.%s", i+1, lo.Ternary(m.Format == "", "png", m.Format))
}

func mediaParts(media []layout.Media) []part {
	return lo.Map(media, func(m layout.Media, i int) part {
		return part{name: "word/" + mediaName(i, m), data: m.Data}
	})
}
