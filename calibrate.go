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

	"github.com/ByLCY/docflow/config"
	"github.com/ByLCY/docflow/fonts"
	"github.com/ByLCY/docflow/metrics"
	canvasrenderer "github.com/ByLCY/docflow/renderer/canvas"
)

func newCalibrateCommand() *cobra.Command {
	var (
		names  []string
		base   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "calibrate <font.ttf|builtin:go-regular>...",
		Short: "从 TrueType 字体生成度量表",
		Long: `测量字体文件中的字形宽度与行高，生成可写入配置 calibration 段落的 YAML。
已有同名字体族会被替换，其余字体族保持不变。`,
		Example: `  docflow calibrate /usr/share/fonts/truetype/msttcorefonts/Times_New_Roman.ttf
  docflow calibrate --name "Go" builtin:go-regular --out calibration.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := baseCalibration(base)
			if err != nil {
				return err
			}
			for i, src := range args {
				data, err := readFace(src)
				if err != nil {
					return err
				}
				name := ""
				if i < len(names) {
					name = names[i]
				}
				fam, err := metrics.FamilyFromSFNT(name, data)
				if err != nil {
					return fmt.Errorf("%s: %w", src, err)
				}
				logger.Infof("%s: %s（平均宽度 %.0f，行高 %.4f）", src, fam.Name, fam.AvgWidth, fam.LineHeight)
				c = withFamily(c, fam)
			}
			if err := c.Validate(); err != nil {
				return err
			}
			if output == "" {
				return c.Encode(cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("创建 %s 失败: %w", output, err)
			}
			defer f.Close()
			return c.Encode(f)
		},
	}
	cmd.Flags().StringSliceVar(&names, "name", nil, "按顺序覆盖字体族名称（默认取字体内的名称）")
	cmd.Flags().StringVarP(&base, "config", "c", "", "以该配置的 calibration 为基础")
	cmd.Flags().StringVarP(&output, "out", "o", "", "YAML 输出路径（默认标准输出）")
	return cmd
}

func baseCalibration(path string) (metrics.Calibration, error) {
	if path == "" {
		return metrics.DefaultCalibration(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return metrics.Calibration{}, err
	}
	if cfg.Calibration == nil {
		return metrics.DefaultCalibration(), nil
	}
	return *cfg.Calibration, nil
}

// withFamily 替换同名字体族，或追加到末尾。
func withFamily(c metrics.Calibration, fam metrics.Family) metrics.Calibration {
	c = c.WithDefaults()
	_, idx, found := lo.FindIndexOf(c.Families, func(f metrics.Family) bool {
		return strings.EqualFold(f.Name, fam.Name)
	})
	if found {
		fam.Aliases = lo.Uniq(append(c.Families[idx].Aliases, fam.Aliases...))
		c.Families[idx] = fam
		return c
	}
	c.Families = append(c.Families, fam)
	return c
}

func readFace(src string) ([]byte, error) {
	if strings.HasPrefix(src, "builtin:") {
		return fonts.Load(src)
	}
	data, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return nil, fmt.Errorf("读取字体 %s 失败: %w", src, err)
	}
	return data, nil
}

func newMeasureCommand() *cobra.Command {
	var (
		font     metrics.Font
		cfgPath  string
		facePath string
	)
	cmd := &cobra.Command{
		Use:   "measure <text>",
		Short: "比较度量模型与真实字形的文字宽度",
		Example: `  docflow measure "Hello, world" --font "Times New Roman" --size 14
  docflow measure "Hello" --font Arial --bold --face /usr/share/fonts/arialbd.ttf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := font.Validate(); err != nil {
				return err
			}
			cfg := config.Default()
			if cfgPath != "" {
				var err error
				if cfg, err = config.Load(cfgPath); err != nil {
					return err
				}
			}
			model, err := cfg.Measurer()
			if err != nil {
				return err
			}
			var faces map[string]canvasrenderer.Resource
			if facePath != "" {
				faces = map[string]canvasrenderer.Resource{font.Family: {Path: facePath}}
			}
			printMeasure(cmd.OutOrStdout(), args[0], font, model, canvasrenderer.NewMeasurer(faces))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&font.Family, "font", "Times New Roman", "字体族")
	flags.Float64Var(&font.Size, "size", 14, "字号（pt）")
	flags.BoolVar(&font.Bold, "bold", false, "加粗")
	flags.BoolVar(&font.Italic, "italic", false, "倾斜")
	flags.StringVarP(&cfgPath, "config", "c", "", "YAML 配置文件（使用其中的 calibration）")
	flags.StringVar(&facePath, "face", "", "参照用的字体文件（默认使用 Go 字体）")
	return cmd
}

func printMeasure(w io.Writer, text string, font metrics.Font, model, outline metrics.Measurer) {
	label := lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("8"))
	fmt.Fprintf(w, "%s\n", titleStyle.Render(fmt.Sprintf("%q  %s", text, font)))
	for _, row := range []struct {
		name string
		m    metrics.Measurer
	}{{"model", model}, {"outline", outline}} {
		fmt.Fprintf(w, "%s width %8.2fpt  line %6.2fpt  mono %t\n",
			label.Render(row.name), row.m.Width(text, font), row.m.LineHeight(font), row.m.IsMonospace(font))
	}
	if ref := outline.Width(text, font); ref > 0 {
		ratio := model.Width(text, font) / ref
		style := lo.Ternary(ratio > 0.97 && ratio < 1.03, okStyle, warnStyle)
		fmt.Fprintf(w, "%s %s\n", label.Render("ratio"), style.Render(fmt.Sprintf("%.3f", ratio)))
	}
}
