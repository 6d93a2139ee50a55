package validate

import (
	"regexp"

	"github.com/roboco-io/lessonplan/internal/model"
)

// FieldRule is a basic-information field the dialect expects. A missing
// required field is an error, a missing optional one a warning.
type FieldRule struct {
	Name     string
	Required bool
}

// Rules is the rule table of one dialect. Exactly one body kind is set.
type Rules struct {
	Fields []FieldRule

	// Segments checks "环节N：" units; Division adds the 主/助教分工 sub-field.
	Segments bool
	Division bool

	// Steps checks teaching steps and their games.
	Steps bool

	// Process checks the picture-book phases.
	Process bool
}

var dialectRules = map[model.DialectID]Rules{
	model.SY001: {
		Fields: []FieldRule{
			{Name: "节日", Required: true},
			{Name: "活动名称", Required: true},
			{Name: "材料"},
		},
		Segments: true,
		Division: true,
	},
	model.SY002: {
		Fields: []FieldRule{
			{Name: "课程编号", Required: true},
			{Name: "课程目标", Required: true},
			{Name: "课程材料", Required: true},
		},
		Steps: true,
	},
	model.SY003: {
		Fields: []FieldRule{
			{Name: "课程名称", Required: true},
			{Name: "物资准备"},
			{Name: "注意事项"},
		},
		Segments: true,
	},
	model.SY004: {
		Fields: []FieldRule{
			{Name: "绘本名称", Required: true},
			{Name: "课时"},
			{Name: "教学目标", Required: true},
			{Name: "教学准备", Required: true},
			{Name: "绘本简介", Required: true},
		},
		Process: true,
	},
	model.SY005: {
		Fields: []FieldRule{
			{Name: "课程编号", Required: true},
			{Name: "课程目标", Required: true},
			{Name: "课程材料"},
		},
		Steps: true,
	},
}

func rulesFor(id model.DialectID) (Rules, bool) {
	r, ok := dialectRules[id]
	return r, ok
}

// Line shapes checked inside a segment.
var (
	strictTitle     = regexp.MustCompile(`环节\d+[：:]`)
	spacedDuration  = regexp.MustCompile(`\d+\s+分钟`)
	numberedItem    = regexp.MustCompile(`^\d+[.。、．]`)
	strictNumbering = regexp.MustCompile(`^\d+\.\s`)
	terminalStop    = regexp.MustCompile(`[。.]$`)
)

// subField is a labelled block inside a segment.
type subField int

const (
	subMethod subField = iota
	subDivision
	subGuidance
)

var subFieldLabels = []struct {
	kind    subField
	name    string
	pattern *regexp.Regexp
}{
	{subMethod, "操作方法", regexp.MustCompile(`^操作方法\s*[：:]`)},
	{subDivision, "主/助教分工", regexp.MustCompile(`^主\s*/\s*助教分工\s*[：:]`)},
	{subGuidance, "教师指导语", regexp.MustCompile(`^教师指导语\s*[：:]`)},
}

// Messages shared by the segment rules.
const (
	msgTitle        = "环节标题格式应为\"环节X：标题内容\"（X为数字）"
	msgTime         = "每个环节应标注时间（如：10分钟）"
	msgTimeSpace    = "时间标注格式建议：数字和\"分钟\"之间不应有空格（如：10分钟）"
	msgTimeX        = "时间尚未填写（x分钟），请填写具体分钟数"
	msgNumbering    = "序号格式应为\"数字. 空格\"（如：1. ）"
	msgMethodStop   = "操作方法每项应以句号结尾"
	msgMethodItems  = "操作方法应使用数字序号（1. 2. 3.），每项以句号结尾，至少应包含1项"
	msgGuideItems   = "教师指导语应使用数字序号（1. 2. 3.），至少应包含1项"
	msgNoSegments   = "缺少环节流程，至少应包含1个环节"
	msgCompleteness = "每个环节应包含：%s"
)
