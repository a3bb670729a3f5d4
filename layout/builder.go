package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/ByLCY/docflow/binding"
	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/dsl"
	"github.com/ByLCY/docflow/linebreak"
	"github.com/ByLCY/docflow/metrics"
	"github.com/ByLCY/docflow/numbering"
	"github.com/ByLCY/docflow/wordml"
)

// Build 把 DSL 文档转换为渲染对象，单遍分页，再为公式、图、表与代码清单编号。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	page := firstPage(doc)
	if page == nil {
		return nil, fmt.Errorf("文档中缺少 page 段落")
	}

	cfg, err := documentConfig(doc, page, opts.Config)
	if err != nil {
		return nil, err
	}
	settings, err := NewSettings(cfg)
	if err != nil {
		return nil, err
	}
	env := NewEnv(settings, opts.Measurer)

	b := &builder{env: env, opts: opts, data: data, registry: numbering.NewRegistry()}
	if err := b.collect(page.Block); err != nil {
		return nil, err
	}

	pipeline := NewPipeline(env, opts.Logger)
	pipeline.BreakBefore(b.breaks...)
	res, err := pipeline.Run(b.blocks)
	if err != nil {
		return nil, err
	}

	numbers, err := b.registry.Assign()
	if err != nil {
		return nil, err
	}
	for _, r := range b.refs {
		n, err := b.registry.Lookup(r.label)
		if err != nil {
			return nil, fmt.Errorf("第 %d 行 ref：%w", r.line, err)
		}
		r.run.Text = strconv.Itoa(n)
	}

	res.Numbers = numbers
	res.Meta = collectMeta(doc, data)
	res.Media = b.media
	if opts.Debug.OmitLines {
		for i := range res.Pages {
			for j := range res.Pages[i].Placements {
				res.Pages[i].Placements[j].Lines = nil
			}
		}
	}
	return res, nil
}

// builder 把 page 段落中的命令依次转换为渲染对象。
type builder struct {
	env      *Env
	opts     BuildOptions
	data     any
	registry *numbering.Registry

	blocks    []Renderable
	breaks    []int
	refs      []*pendingRef
	media     []Media
	bookmarks int
	breakNext bool
}

// pendingRef 是尚未解析的交叉引用；编号分配后写入 run。
type pendingRef struct {
	label string
	line  int
	run   *wordml.Run
}

func (b *builder) add(r Renderable) {
	if b.breakNext {
		b.breaks = append(b.breaks, len(b.blocks))
		b.breakNext = false
	}
	b.blocks = append(b.blocks, r)
}

func (b *builder) text(s string) string { return binding.Interpolate(s, b.data) }

func (b *builder) collect(block *dsl.Block) error {
	if block == nil {
		return nil
	}
	for _, stmt := range block.Statements {
		var err error
		switch {
		case stmt.Text != nil:
			b.add(NewParagraph(b.env, b.env.Settings.Style(config.StyleBody), Text(b.text(string(stmt.Text.Value)))))
		case stmt.Command != nil:
			err = b.command(stmt.Command)
		case stmt.Assignment != nil:
			err = fmt.Errorf("page 段落中不支持赋值语句 %s", stmt.Assignment.Key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) command(cmd *dsl.Command) error {
	var err error
	switch cmd.Name {
	case "heading":
		err = b.heading(cmd)
	case "paragraph", "p":
		err = b.paragraph(cmd)
	case "listing":
		err = b.listing(cmd)
	case "equation":
		err = b.equation(cmd)
	case "table":
		err = b.table(cmd)
	case "image":
		err = b.image(cmd)
	case "break":
		b.breakNext = true
	default:
		err = fmt.Errorf("未知命令")
	}
	if err != nil {
		return fmt.Errorf("第 %d 行 %s：%w", cmd.Pos.Line, cmd.Name, err)
	}
	return nil
}

func (b *builder) heading(cmd *dsl.Command) error {
	pos, _ := dsl.SplitArgs(cmd.Args)
	if len(pos) == 0 {
		return fmt.Errorf("缺少标题级别")
	}
	level, err := strconv.Atoi(pos[0])
	if err != nil || level < 1 {
		return fmt.Errorf("标题级别 %q 无效", pos[0])
	}
	name := config.HeadingStyle(level)
	style, ok := b.env.Settings.Styles[name]
	if !ok {
		return fmt.Errorf("style %s 未定义", name)
	}
	inlines, err := b.content(pos[1:], cmd)
	if err != nil {
		return err
	}
	b.add(NewHeading(b.env, level, style, inlines...))
	return nil
}

func (b *builder) paragraph(cmd *dsl.Command) error {
	style := b.env.Settings.Style(config.StyleBody)
	var rest []string
	for i, a := range cmd.Args {
		if i == 0 && a.Type == "Ident" {
			st, ok := b.env.Settings.Styles[a.Value]
			if !ok {
				return fmt.Errorf("style %s 未定义", a.Value)
			}
			style = st
			continue
		}
		rest = append(rest, a.Value)
	}
	inlines, err := b.content(rest, cmd)
	if err != nil {
		return err
	}
	b.add(NewParagraph(b.env, style, inlines...))
	return nil
}

// content 合并命令参数中的文字与块中的行内内容。
func (b *builder) content(args []string, cmd *dsl.Command) ([]Inline, error) {
	var out []Inline
	if len(args) > 0 {
		out = append(out, Text(b.text(strings.Join(args, " "))))
	}
	more, err := b.inlines(cmd.Block, metrics.Font{})
	if err != nil {
		return nil, err
	}
	return append(out, more...), nil
}

// inlines 解析 bold、italic、code、ref 等行内命令，可以嵌套。
func (b *builder) inlines(block *dsl.Block, font metrics.Font) ([]Inline, error) {
	if block == nil {
		return nil, nil
	}
	var out []Inline
	for _, stmt := range block.Statements {
		switch {
		case stmt.Text != nil:
			out = append(out, Inline{Run: runOf(b.text(string(stmt.Text.Value)), font)})
		case stmt.Command != nil:
			cmd := stmt.Command
			f := font
			switch cmd.Name {
			case "bold", "b":
				f.Bold = true
			case "italic", "i":
				f.Italic = true
			case "code":
				f.Family = b.env.Settings.Style(config.StyleCode).Font.Family
			case "ref":
				pos, _ := dsl.SplitArgs(cmd.Args)
				if len(pos) != 1 {
					return nil, fmt.Errorf("第 %d 行 ref：需要一个标签", cmd.Pos.Line)
				}
				out = append(out, b.ref(pos[0], cmd.Pos.Line))
				continue
			default:
				return nil, fmt.Errorf("第 %d 行：未知的行内命令 %s", cmd.Pos.Line, cmd.Name)
			}
			for _, a := range cmd.Args {
				out = append(out, Inline{Run: runOf(b.text(a.Value), f)})
			}
			nested, err := b.inlines(cmd.Block, f)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		}
	}
	return out, nil
}

func runOf(s string, f metrics.Font) linebreak.Run {
	return linebreak.Run{Text: s, Font: f}
}

// ref 生成指向书签的 REF 域，显示文字在编号分配后填入。
func (b *builder) ref(label string, line int) Inline {
	r := &pendingRef{label: label, line: line, run: &wordml.Run{Text: numbering.Placeholder}}
	b.refs = append(b.refs, r)
	return Inline{
		Run: linebreak.Run{Text: numbering.Placeholder},
		Element: &wordml.FieldSimple{
			Instr:    fmt.Sprintf(`REF %s \h`, label),
			Children: []wordml.Element{r.run},
		},
	}
}

// number 按参数创建编号并登记。defaultOn 为 false 时只有给出 label 或 caption 才编号。
func (b *builder) number(category string, named map[string]string, defaultOn bool) (*Numbered, error) {
	on := defaultOn || named["label"] != "" || named["caption"] != ""
	if v, ok := named["number"]; ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("number=%q 无效", v)
		}
		on = parsed
	}
	if !on {
		if named["label"] != "" {
			return nil, fmt.Errorf("未编号的对象不能带 label")
		}
		return nil, nil
	}
	var id int
	if named["label"] != "" {
		b.bookmarks++
		id = b.bookmarks
	}
	n := NewNumbered(category, named["label"], id)
	if err := b.registry.Register(n); err != nil {
		return nil, err
	}
	return n, nil
}

var numberedKeys = []string{"label", "caption", "number"}

func (b *builder) listing(cmd *dsl.Command) error {
	pos, named := dsl.SplitArgs(cmd.Args, numberedKeys...)
	source := strings.Join(append(pos, blockLines(cmd.Block)...), "\n")
	n, err := b.number(b.env.Settings.Captions.Listing, named, false)
	if err != nil {
		return err
	}
	b.add(NewListing(b.env, b.text(source), n, b.text(named["caption"])))
	return nil
}

func (b *builder) equation(cmd *dsl.Command) error {
	pos, named := dsl.SplitArgs(cmd.Args, numberedKeys...)
	source := strings.TrimSpace(strings.Join(append(pos, blockLines(cmd.Block)...), " "))
	if source == "" {
		return fmt.Errorf("公式为空")
	}
	source = b.text(source)
	math, err := b.opts.Converter.Convert(source)
	if err != nil {
		return err
	}
	n, err := b.number(b.env.Settings.Captions.Equation, named, true)
	if err != nil {
		return err
	}
	b.add(NewEquation(b.env, math, n, source))
	return nil
}

func (b *builder) table(cmd *dsl.Command) error {
	_, named := dsl.SplitArgs(cmd.Args, append(numberedKeys, "widths")...)
	var rows [][]string
	var header bool
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			row := stmt.Command
			if row == nil || (row.Name != "row" && row.Name != "header") {
				return fmt.Errorf("表格中只允许 header 与 row")
			}
			if row.Name == "header" {
				if len(rows) > 0 {
					return fmt.Errorf("第 %d 行：header 必须是第一行", row.Pos.Line)
				}
				header = true
			}
			cells := lo.Map(row.Args, func(a *dsl.Lexeme, _ int) string { return b.text(a.Value) })
			cells = append(cells, lo.Map(blockLines(row.Block), func(s string, _ int) string { return b.text(s) })...)
			rows = append(rows, cells)
		}
	}
	widths, err := parseWidths(named["widths"])
	if err != nil {
		return err
	}
	n, err := b.number(b.env.Settings.Captions.Table, named, false)
	if err != nil {
		return err
	}
	t, err := NewTable(b.env, rows, widths, header, n, b.text(named["caption"]))
	if err != nil {
		return err
	}
	b.add(t)
	return nil
}

func (b *builder) image(cmd *dsl.Command) error {
	pos, named := dsl.SplitArgs(cmd.Args, append(numberedKeys, "width", "height")...)
	if len(pos) != 1 {
		return fmt.Errorf("需要一个图片路径")
	}
	src := b.text(pos[0])
	path := src
	if !filepath.IsAbs(path) && b.opts.BaseDir != "" {
		path = filepath.Join(b.opts.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取图片失败：%w", err)
	}
	var size [2]float64
	for i, key := range []string{"width", "height"} {
		if raw, ok := named[key]; ok {
			v, err := parsePT(raw)
			if err != nil || v <= 0 {
				return fmt.Errorf("%s=%q 无效", key, raw)
			}
			size[i] = v
		}
	}
	n, err := b.number(b.env.Settings.Captions.Figure, named, false)
	if err != nil {
		return err
	}
	id := len(b.media) + 1
	media := &Media{RelID: fmt.Sprintf("rIdImg%d", id), Name: filepath.Base(src), Src: src, Data: data}
	img, err := NewImage(b.env, media, id, size[0], size[1], n, b.text(named["caption"]))
	if err != nil {
		return err
	}
	b.media = append(b.media, *media)
	b.add(img)
	return nil
}

// documentConfig 把 styles 段落与 page 头部的设置合并到配置副本上。
func documentConfig(doc *dsl.Document, page *dsl.PageSection, base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.Styles = make(map[string]config.Style, len(base.Styles))
	for k, v := range base.Styles {
		cfg.Styles[k] = v
	}

	for _, section := range doc.Sections {
		if section.Styles == nil || section.Styles.Block == nil {
			continue
		}
		for _, stmt := range section.Styles.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "style" {
				return nil, fmt.Errorf("styles 段落中只允许 style 命令")
			}
			name, st, err := parseStyleCommand(stmt.Command)
			if err != nil {
				return nil, err
			}
			if prev, ok := cfg.Styles[name]; ok {
				merged := lo.Assign(prev.Props, st.Props)
				if st.Extends == "" {
					st.Extends = prev.Extends
				}
				st.Props = merged
			}
			cfg.Styles[name] = st
		}
	}

	if err := applyPageSpec(&cfg.Page, page.Spec); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parseStyleCommand 解析 `style Name [extends Parent] { key: value }`。
func parseStyleCommand(cmd *dsl.Command) (string, config.Style, error) {
	pos, named := dsl.SplitArgs(cmd.Args, "extends")
	if len(pos) != 1 {
		return "", config.Style{}, fmt.Errorf("第 %d 行 style：需要一个样式名", cmd.Pos.Line)
	}
	st := config.Style{Extends: named["extends"], Props: map[string]string{}}
	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			if stmt.Assignment == nil {
				return "", config.Style{}, fmt.Errorf("style %s：只允许 key: value", pos[0])
			}
			st.Props[stmt.Assignment.Key] = stmt.Assignment.Value.Text()
		}
	}
	return pos[0], st, nil
}

// applyPageSpec 处理 `page A4 landscape margin 20mm 10mm`。
// 尺寸为 default 时沿用配置中的纸张。
func applyPageSpec(p *config.Page, spec dsl.PageSpec) error {
	if !strings.EqualFold(spec.Size, "default") {
		p.Size = spec.Size
		p.Width, p.Height = "", ""
	}
	for i := 0; i < len(spec.Params); i++ {
		v := spec.Params[i].Value
		switch strings.ToLower(v) {
		case "portrait", "landscape":
			p.Orientation = strings.ToLower(v)
		case "margin":
			var vals []string
			for i+1 < len(spec.Params) && spec.Params[i+1].Type == "Number" {
				i++
				vals = append(vals, spec.Params[i].Value)
			}
			if len(vals) == 0 {
				return fmt.Errorf("page：margin 缺少数值")
			}
			p.Margin = strings.Join(vals, " ")
		default:
			return fmt.Errorf("page：未知参数 %s", v)
		}
	}
	return nil
}

func collectMeta(doc *dsl.Document, data any) DocumentMeta {
	meta := DocumentMeta{
		Creator: "docflow",
	}
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			val := stmt.Assignment.Value
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = binding.Interpolate(val.Text(), data)
			case "author":
				meta.Author = binding.Interpolate(val.Text(), data)
			case "subject":
				meta.Subject = binding.Interpolate(val.Text(), data)
			case "creator":
				meta.Creator = val.Text()
			case "keywords":
				meta.Keywords = val.List()
			}
		}
	}
	return meta
}

func firstPage(doc *dsl.Document) *dsl.PageSection {
	for _, section := range doc.Sections {
		if section.Page != nil {
			return section.Page
		}
	}
	return nil
}

// blockLines 返回块中的文字语句，每条一行。
func blockLines(block *dsl.Block) []string {
	if block == nil {
		return nil
	}
	var out []string
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			out = append(out, string(stmt.Text.Value))
		}
	}
	return out
}

// parseWidths 解析 "1 2" 或 "30% 70%" 形式的列宽比例。
func parseWidths(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	fields := strings.Fields(raw)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := parsePT(strings.TrimSuffix(f, "%"))
		if err != nil {
			return nil, fmt.Errorf("widths：%w", err)
		}
		out[i] = v
	}
	return out, nil
}
