package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roboco-io/lessonplan/internal/validate"
)

var (
	checkDialect string
	checkStyle   bool
	checkFormat  string
	checkJobs    int
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "检查教案格式",
	Long: `按模板规则检查教案格式，报告错误和警告。

有错误的文档判定为不合格；警告仅供参考。
多个文件并行检查，并发数取 --jobs 或配置项 check.concurrency。
任一文件不合格时命令以非零状态退出。

示例:
  lessonplan check 教案.docx
  lessonplan check *.docx --style
  lessonplan check 教案.txt --dialect SY001 --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkDialect, "dialect", "d", "", "指定模板 (SY001-SY005)，跳过自动识别")
	checkCmd.Flags().BoolVar(&checkStyle, "style", false, "同时检查排版（空行、空格、标点）")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "输出格式 (text, json, yaml)")
	checkCmd.Flags().IntVarP(&checkJobs, "jobs", "j", 0, "并发数 (默认取配置 check.concurrency)")

	rootCmd.AddCommand(checkCmd)
}

// checkResult is the outcome for one file.
type checkResult struct {
	File   string           `json:"file" yaml:"file"`
	Report *validate.Report `json:"report,omitempty" yaml:"report,omitempty"`
	Style  []validate.Issue `json:"style,omitempty" yaml:"style,omitempty"`
	Error  string           `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r checkResult) ok() bool {
	return r.Error == "" && r.Report != nil && r.Report.IsValid
}

func runCheck(cmd *cobra.Command, args []string) error {
	jobs := checkJobs
	if jobs <= 0 {
		jobs = cfg.Check.Concurrency
	}
	results := checkFiles(cmd.Context(), args, jobs)

	if checkFormat == "text" {
		printCheck(cmd.OutOrStdout(), results)
	} else {
		data, err := encode(results, checkFormat)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	failed := 0
	for _, r := range results {
		if !r.ok() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d 个文件未通过检查", failed)
	}
	return nil
}

// checkFiles validates every path with at most jobs documents in flight.
// Results keep the order of paths.
func checkFiles(ctx context.Context, paths []string, jobs int) []checkResult {
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs <= 0 {
		jobs = 1
	}
	v := validate.New(validate.Options{Logger: log})
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(v, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for i := range results {
			if results[i].File == "" {
				results[i] = checkResult{File: paths[i], Error: err.Error()}
			}
		}
	}
	return results
}

func checkFile(v *validate.Validator, path string) checkResult {
	res := checkResult{File: path}
	src, err := loadSource(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Report = v.Text(src.Text, src.dialectFor(checkDialect))
	if checkStyle {
		res.Style = validate.Style(src.Text)
	}
	log.Debug("checked", "file", path, "valid", res.Report.IsValid,
		"errors", len(res.Report.Errors), "warnings", len(res.Report.Warnings))
	return res
}

func printCheck(w io.Writer, results []checkResult) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if r.Error != "" {
			fmt.Fprintf(w, "✗ %s\n  %s\n", r.File, r.Error)
			continue
		}
		rep := r.Report
		mark := "✓"
		if !rep.IsValid {
			mark = "✗"
		}
		fmt.Fprintf(w, "%s %s [%s %s] 错误 %d，警告 %d\n",
			mark, r.File, rep.TemplateID, rep.TemplateName, len(rep.Errors), len(rep.Warnings))
		for _, is := range rep.Errors {
			fmt.Fprintf(w, "  错误 %s\n", formatIssue(is))
		}
		for _, is := range rep.Warnings {
			fmt.Fprintf(w, "  警告 %s\n", formatIssue(is))
		}
		for _, is := range r.Style {
			fmt.Fprintf(w, "  排版 %s\n", formatIssue(is))
		}
	}
}

func formatIssue(is validate.Issue) string {
	s := is.Description
	if is.Field != "" {
		s = is.Field + "：" + s
	}
	if is.Line > 0 {
		s = fmt.Sprintf("第%d行 %s", is.Line, s)
	}
	if is.Content != "" {
		s += "「" + is.Content + "」"
	}
	return s
}
