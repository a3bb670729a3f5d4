package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/flanksource/commons/logger"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ByLCY/docflow/binding"
	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/dsl"
	"github.com/ByLCY/docflow/layout"
	"github.com/ByLCY/docflow/renderer"
	canvasrenderer "github.com/ByLCY/docflow/renderer/canvas"
	"github.com/ByLCY/docflow/renderer/docx"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type renderOptions struct {
	input     string
	output    string
	config    string
	data      string
	preview   string
	debug     string
	omitLines bool
	outline   bool
	fonts     map[string]string
}

func newRenderCommand() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render <input.dfl>",
		Short: "排版文档并输出 docx",
		Example: `  docflow render report.dfl --data report.yaml
  docflow render report.dfl --config thesis.yaml --out build/report.docx --preview build/report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = args[0]
			if opts.output == "" {
				opts.output = strings.TrimSuffix(opts.input, filepath.Ext(opts.input)) + ".docx"
			}
			res, err := run(opts)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), opts, res)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "out", "o", "", "docx 输出路径（默认与输入同名）")
	flags.StringVarP(&opts.config, "config", "c", "", "YAML 配置文件")
	flags.StringVarP(&opts.data, "data", "d", "", "绑定到文档的 YAML/JSON 数据文件")
	flags.StringVar(&opts.preview, "preview", "", "PDF 预览输出路径")
	flags.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径")
	flags.BoolVar(&opts.omitLines, "omit-lines", false, "调试 JSON 中不输出行文字")
	flags.BoolVar(&opts.outline, "outline", true, "预览中绘制块边框与页信息")
	flags.StringToStringVar(&opts.fonts, "font", nil, "预览使用的字体文件，如 \"Times New Roman=/usr/share/fonts/times.ttf\"")
	return cmd
}

// run 串联解析、布局与渲染。
func run(opts renderOptions) (*layout.Result, error) {
	cfg := config.Default()
	if opts.config != "" {
		var err error
		if cfg, err = config.Load(opts.config); err != nil {
			return nil, err
		}
	}
	var data any
	if opts.data != "" {
		var err error
		if data, err = binding.LoadData(opts.data); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return nil, fmt.Errorf("无法打开文档 %s: %w", opts.input, err)
	}
	defer file.Close()
	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析文档失败: %w", err)
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Config:  cfg,
		BaseDir: filepath.Dir(opts.input),
		Logger:  logger.GetLogger("layout"),
		Debug:   layout.DebugOptions{OmitLines: opts.omitLines},
	})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	logger.Debugf("%s: %d 页，%d 条警告", opts.input, len(result.Pages), len(result.Warnings))

	if opts.debug != "" {
		if err := writeDebug(result, opts.debug); err != nil {
			return nil, err
		}
	}
	if err := writeOutput(docx.NewRenderer(), result, opts.output); err != nil {
		return nil, err
	}
	if opts.preview != "" {
		faces := lo.MapValues(opts.fonts, func(path string, _ string) canvasrenderer.Resource {
			return canvasrenderer.Resource{Path: path}
		})
		preview := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Fonts: faces, Outline: opts.outline})
		if err := writeOutput(preview, result, opts.preview); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func writeOutput(r renderer.Renderer, result *layout.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	data, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 %s 失败: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("写入 %s 失败: %w", debugPath, err)
	}
	return nil
}

func printSummary(w io.Writer, opts renderOptions, res *layout.Result) {
	fmt.Fprintf(w, "%s %s\n", okStyle.Render("✓"), titleStyle.Render(opts.output))
	for _, page := range res.Pages {
		fmt.Fprintf(w, "  %s %d 个块 %s\n",
			titleStyle.Render(fmt.Sprintf("第 %d 页", page.Number)),
			len(page.Placements),
			dimStyle.Render(fmt.Sprintf("%s, %.1fpt", page.Break, page.Used)))
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("!"), warn)
	}
	if opts.preview != "" {
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("✓"), titleStyle.Render(opts.preview))
	}
}
