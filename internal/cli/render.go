package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/render"
	"github.com/roboco-io/lessonplan/internal/template"
)

var (
	renderOutput    string
	renderDialect   string
	renderLayout    string
	renderFont      string
	renderFontSize  int
	renderNoHeader  bool
	renderNoTrailer bool
)

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "按模板版式生成 .docx",
	Long: `解析教案后按模板版式重新生成 .docx 文档。

输入可以是 .docx/.txt 原始文档，也可以是 parse 命令输出的 .json/.yaml 结构文件。
原始文档中"示例图片"之后的内容和嵌入的图片会原样附在正文之后。

未指定 -o 时，输出到配置项 render.output_dir，文件名为 <名称>-<时间戳>.docx。

示例:
  lessonplan render 教案.docx
  lessonplan render 教案.yaml -o 教案-新.docx
  lessonplan render 教案.txt --dialect SY002 --font 宋体`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "输出文件路径")
	renderCmd.Flags().StringVarP(&renderDialect, "dialect", "d", "", "指定解析模板 (SY001-SY005)")
	renderCmd.Flags().StringVar(&renderLayout, "layout", "", "按另一模板的版式输出 (SY001-SY005)")
	renderCmd.Flags().StringVar(&renderFont, "font", "", "字体 (默认取配置 render.font)")
	renderCmd.Flags().IntVar(&renderFontSize, "font-size", 0, "字号，单位半磅 (默认取配置 render.font_size)")
	renderCmd.Flags().BoolVar(&renderNoHeader, "no-header", false, "不输出文档编号和作者")
	renderCmd.Flags().BoolVar(&renderNoTrailer, "no-trailer", false, "不附加示例图片及之后的内容")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	path := args[0]
	opts := render.Options{
		Font:     firstNonEmpty(renderFont, cfg.Render.Font),
		FontSize: renderFontSize,
		Logger:   log,
	}
	if opts.FontSize <= 0 {
		opts.FontSize = cfg.Render.FontSize
	}
	if renderLayout != "" {
		id := model.DialectID(strings.ToUpper(renderLayout))
		if _, err := template.Lookup(id); err != nil {
			return err
		}
		opts.Dialect = id
	}

	var s *model.Structure
	if isStructureFile(path) {
		var err error
		if s, err = loadStructure(path); err != nil {
			return err
		}
	} else {
		src, err := loadSource(path)
		if err != nil {
			return err
		}
		res, err := template.ParseDocument(src.Text, template.Options{
			Dialect: src.dialectFor(renderDialect),
			Logger:  log,
		})
		if err != nil {
			return fmt.Errorf("文档解析失败: %w", err)
		}
		s = res.Structure
		if !renderNoHeader {
			opts.Header = render.Detect(s.TemplateID, src.Text, src.Markup)
		}
		if !renderNoTrailer {
			opts.Trailer = render.Trailer(src.Text)
			opts.Images = src.Images
		}
	}

	data, err := render.Bytes(s, opts)
	if err != nil {
		return fmt.Errorf("文档生成失败: %w", err)
	}

	out := renderOutput
	if out == "" {
		dir := cfg.Render.OutputDir
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
		out = filepath.Join(dir, render.OutputName(path, time.Now()))
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("文件保存失败: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "生成完成: %s (%s %s)\n", out, s.TemplateID, template.Name(s.TemplateID))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
