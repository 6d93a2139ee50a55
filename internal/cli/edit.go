package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/validate"
)

var (
	editOps      []string
	editOutput   string
	editFormat   string
	editValidate bool
)

var editCmd = &cobra.Command{
	Use:   "edit <structure.json|yaml>",
	Short: "按路径修改结构文件",
	Long: `按路径修改 parse 命令输出的结构文件。操作按给出的顺序依次执行。

路径示例: sections.0.fields.2  sections.1.segments.0.method.items.1

操作 (--op "<动作> <路径>[=<参数>]"):
  set <路径>=<值>            修改字段值、标题、时长、条目内容等
  override <路径>=<文本>     以原文覆盖列表或文本（\n 表示换行）
  clear <路径>               取消覆盖
  insert <路径>=<序号>       在列表中插入空条目
  delete <路径>=<序号>       删除列表条目
  add-segment <路径>         在环节区块末尾新增环节
  delete-segment <路径>      删除环节
  add-step <路径>=<标题>     新增教学步骤
  add-game <路径>=<标题>     在步骤中新增游戏
  add-point <路径>=<内容>    在游戏中新增要点（内容可带编号或符号前缀）

示例:
  lessonplan edit 教案.json --op "set sections.0.fields.1.value=端午节"
  lessonplan edit 教案.yaml --op "add-segment sections.1" -o 新教案.yaml --validate`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringArrayVar(&editOps, "op", nil, "编辑操作，可重复")
	editCmd.Flags().StringVarP(&editOutput, "output", "o", "", "输出文件路径 (默认: stdout)")
	editCmd.Flags().StringVarP(&editFormat, "format", "f", "", "输出格式 (json, yaml；默认与输入相同)")
	editCmd.Flags().BoolVar(&editValidate, "validate", false, "修改后检查格式")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !isStructureFile(path) {
		return fmt.Errorf("edit 只接受 .json/.yaml 结构文件: %s", path)
	}
	s, err := loadStructure(path)
	if err != nil {
		return err
	}

	e := model.NewEditor(s)
	for _, op := range editOps {
		if err := applyOp(e, op); err != nil {
			return fmt.Errorf("操作 %q 失败: %w", op, err)
		}
		log.Debug("edit applied", "op", op)
	}

	format := editFormat
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	data, err := encode(e.Structure(), format)
	if err != nil {
		return err
	}
	if err := writeOutput(editOutput, data); err != nil {
		return err
	}

	if editValidate {
		rep := validate.New(validate.Options{Logger: log}).Structure(e.Structure())
		printCheck(cmd.ErrOrStderr(), []checkResult{{File: path, Report: rep}})
	}
	return nil
}

// applyOp runs one "<verb> <path>[=<arg>]" operation.
func applyOp(e *model.Editor, op string) error {
	verb, rest, _ := strings.Cut(strings.TrimSpace(op), " ")
	path, arg, hasArg := strings.Cut(strings.TrimSpace(rest), "=")
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: 缺少路径", model.ErrInvalidPath)
	}

	index := func() (int, error) {
		if !hasArg {
			return 0, fmt.Errorf("缺少序号")
		}
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return 0, fmt.Errorf("无效的序号: %s", arg)
		}
		return n, nil
	}

	switch verb {
	case "set":
		return e.SetValue(path, arg)
	case "override":
		return e.SetOverride(path, strings.ReplaceAll(arg, `\n`, "\n"))
	case "clear":
		return e.ClearOverride(path)
	case "insert":
		n, err := index()
		if err != nil {
			return err
		}
		return e.InsertItem(path, n)
	case "delete":
		n, err := index()
		if err != nil {
			return err
		}
		return e.DeleteItem(path, n)
	case "add-segment":
		_, err := e.AddSegment(path)
		return err
	case "delete-segment":
		return e.DeleteSegment(path)
	case "add-step":
		_, err := e.AddStep(path, arg)
		return err
	case "add-game":
		_, err := e.AddGame(path, arg)
		return err
	case "add-point":
		prefix, content, ok := classify.MatchPoint(arg)
		if !ok {
			prefix, content = "￮", strings.TrimSpace(arg)
		}
		return e.AddPoint(path, prefix, content)
	default:
		return fmt.Errorf("未知操作: %s", verb)
	}
}
