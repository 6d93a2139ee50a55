package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roboco-io/lessonplan/internal/template"
)

var identifyJSON bool

var identifyCmd = &cobra.Command{
	Use:   "identify <file>...",
	Short: "识别教案模板",
	Long: `识别文档属于哪一种教案模板。

按优先级依次判断：SY004 绘本剧、SY005 食育、SY002 体适能、SY003 主题活动、
SY001 节庆活动。都不匹配时使用 SY001 并标记为"默认"。

示例:
  lessonplan identify 教案.docx
  lessonplan identify a.docx b.txt --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIdentify,
}

func init() {
	identifyCmd.Flags().BoolVar(&identifyJSON, "json", false, "以 JSON 格式输出")

	rootCmd.AddCommand(identifyCmd)
}

type identifyResult struct {
	File string `json:"file"`
	template.Identification
	Error string `json:"error,omitempty"`
}

func runIdentify(cmd *cobra.Command, args []string) error {
	results := make([]identifyResult, 0, len(args))
	for _, path := range args {
		res := identifyResult{File: path}
		src, err := loadSource(path)
		if err != nil {
			res.Error = err.Error()
		} else if src.Dialect != "" {
			res.Identification = template.Identification{Info: template.Info{ID: src.Dialect, Name: template.Name(src.Dialect)}}
		} else {
			res.Identification = template.Identify(src.Text)
		}
		results = append(results, res)
	}

	if identifyJSON {
		data, err := encode(results, "json")
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintln(w, "文件\t模板\t名称\t备注")
	for _, r := range results {
		switch {
		case r.Error != "":
			fmt.Fprintf(w, "%s\t-\t-\t%s\n", r.File, r.Error)
		case r.Fallback:
			fmt.Fprintf(w, "%s\t%s\t%s\t默认\n", r.File, r.ID, r.Name)
		default:
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", r.File, r.ID, r.Name)
		}
	}
	return nil
}
