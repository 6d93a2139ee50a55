package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/template"
)

const wellFormedFestival = `节日	春节
活动名称	写春联
材料	红纸、毛笔
环节1：学古诗	10分钟
•操作方法：
1. 朗读。
2. 背诵。
•主/助教分工：
主教带读
助教巡视
•教师指导语：
1. 大声读`

func categories(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Category
	}
	return out
}

func TestText_PlaceholderDurationIsOnlyAWarning(t *testing.T) {
	text := "节日\txxxx\n活动名称\tx\n环节1：学古诗\tx分钟\n•操作方法：\n1. 做A。\n2. 做B。\n•主/助教分工：\n主教做C\n•教师指导语：\n1. 说D\n"

	r := Text(text, model.SY001)
	assert.True(t, r.IsValid)
	assert.Empty(t, r.Errors)
	assert.Equal(t, model.SY001, r.TemplateID)
	assert.Equal(t, "节庆活动方案", r.TemplateName)

	assert.Contains(t, categories(r.Warnings), CategoryTime)
	for _, w := range r.Warnings {
		assert.Equal(t, SeverityWarning, w.Severity)
	}
}

func TestText_WellFormed(t *testing.T) {
	r := Text(wellFormedFestival, model.SY001)
	assert.True(t, r.IsValid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestText_MissingSubFields(t *testing.T) {
	text := "节日：春节\n活动名称：写春联\n环节1：学古诗 10 分钟\n•操作方法：\n1、朗读\n"

	r := Text(text, model.SY001)
	assert.False(t, r.IsValid)
	assert.Equal(t, []string{CategoryDivision, CategoryGuidance, CategoryValidation}, categories(r.Errors))

	completeness := r.Errors[2]
	assert.Equal(t, "环节1", completeness.Content)
	assert.Contains(t, completeness.Description, "主/助教分工")

	warnings := categories(r.Warnings)
	assert.Contains(t, warnings, CategoryTime)
	assert.Contains(t, warnings, CategoryMethod)
	for _, w := range r.Warnings {
		if w.Category == CategoryMethod {
			assert.Equal(t, 5, w.Line)
			assert.Equal(t, "1、朗读", w.Content)
		}
	}
}

func TestText_MethodWithoutNumberedItems(t *testing.T) {
	text := "节日：春节\n活动名称：写春联\n环节1：学古诗\t5分钟\n•操作方法：\n自由活动\n•主/助教分工：\n主教带领\n•教师指导语：\n1. 说规则"

	r := Text(text, model.SY001)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, CategoryMethod, r.Errors[0].Category)
	assert.Equal(t, 3, r.Errors[0].Line)
}

func TestText_NoSegments(t *testing.T) {
	r := Text("节日：春节\n活动名称：写春联", model.SY001)
	assert.Equal(t, []string{CategorySegment}, categories(r.Errors))
}

func TestText_EmptySegmentTitle(t *testing.T) {
	text := "课程名称：认识秋天\n环节1：\n\nx分钟\n•操作方法：\n1. 看。\n•教师指导语：\n1. 说"

	r := Text(text, model.SY003)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, CategoryTitle, r.Errors[0].Category)
	assert.Equal(t, "环节1：", r.Errors[0].Content)
	assert.Equal(t, 2, r.Errors[0].Line)
}

func TestText_StopMarkerEndsLastSegment(t *testing.T) {
	text := wellFormedFestival + "\n示例图片\n•操作方法：\n1、不检查"
	r := Text(text, model.SY001)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestText_Steps(t *testing.T) {
	text := "课程编号：TS-1\n课程目标：\n1. 平衡\n课程材料：\n1. 皮球\n教学步骤：\n1. 热身\n2. 游戏\n游戏1：跳\n3. 结束整理\na.引导整理："

	r := Text(text, model.SY002)
	assert.True(t, r.IsValid)
	assert.Equal(t, []string{CategorySteps, CategoryGame, CategoryGame}, categories(r.Warnings))
	assert.Equal(t, 7, r.Warnings[0].Line)
	assert.Equal(t, 9, r.Warnings[1].Line)
}

func TestText_NoSteps(t *testing.T) {
	r := Text("课程编号：SY-1\n课程目标：\n1. 认识蔬菜", model.SY005)
	assert.Equal(t, []string{CategorySteps}, categories(r.Errors))
	assert.Contains(t, categories(r.Warnings), CategoryBasicInfo)
}

func TestText_Process(t *testing.T) {
	text := "绘本名称：好饿的毛毛虫\n教学目标\n1. 认识星期\n教学准备\n1. 绘本\n绘本简介\n毛毛虫长大了\n导入环节\n出示玩偶\n拓展环节\n拓展方式1：表演"

	r := Text(text, model.SY004)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, CategoryProcess, r.Errors[0].Category)
	assert.Equal(t, "精读环节", r.Errors[0].Field)

	assert.Equal(t, []string{CategoryBasicInfo, CategoryProcess}, categories(r.Warnings))
	assert.Equal(t, "课时", r.Warnings[0].Field)
	assert.Equal(t, "拓展方式1", r.Warnings[1].Field)
	assert.Equal(t, 11, r.Warnings[1].Line)
}

func TestText_DialectHandling(t *testing.T) {
	r := Text(wellFormedFestival, "")
	assert.Equal(t, model.SY001, r.TemplateID)

	r = Text(wellFormedFestival, "sy001")
	assert.Equal(t, model.SY001, r.TemplateID)
	assert.True(t, r.IsValid)

	r = Text(wellFormedFestival, "SY009")
	assert.False(t, r.IsValid)
	assert.Equal(t, []string{CategoryTemplate}, categories(r.Errors))

	r = Text("   ", model.SY001)
	assert.False(t, r.IsValid)
	assert.Equal(t, []string{CategoryTemplate}, categories(r.Errors))
}

func TestStructure(t *testing.T) {
	res, err := template.ParseDocument(wellFormedFestival, template.Options{})
	require.NoError(t, err)

	r := Structure(res.Structure)
	assert.True(t, r.IsValid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestStructure_OverrideIsValidatedVerbatim(t *testing.T) {
	res, err := template.ParseDocument(wellFormedFestival, template.Options{})
	require.NoError(t, err)

	text := "自由书写"
	res.Structure.Sections[1].Segments[0].Method.Override = &text

	r := Structure(res.Structure)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, CategoryMethod, r.Errors[0].Category)
}

func TestFlatten(t *testing.T) {
	res, err := template.ParseDocument(wellFormedFestival, template.Options{})
	require.NoError(t, err)

	flat := Flatten(res.Structure)
	assert.Contains(t, flat, "节日\t春节")
	assert.Contains(t, flat, "环节流程\t环节1：学古诗\t10分钟")
	assert.Contains(t, flat, "• 操作方法：\n1. 朗读。\n2. 背诵。")
}

func TestHasRealContent(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"x", false},
		{"xxxx", false},
		{"XX xX", false},
		{"是", false},
		{"1. 2.", false},
		{"春节", true},
		{"xx春节xx", true},
		{"lead does C", true},
		{"TS-003", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, HasRealContent(tt.value))
		})
	}
}

func TestStyle(t *testing.T) {
	text := "第一行\n\n\n\n  缩进的中文\n中文,标点\n中文 中文\nabc。def\n\u00a0"

	issues := Style(text)
	assert.Equal(t, []string{
		CategoryFormat,
		CategoryFormat,
		CategoryPunctuation,
		CategoryPunctuation,
		CategorySpace,
		CategorySpecial,
	}, categories(issues))
	assert.Equal(t, 4, issues[0].Line)
	assert.Equal(t, 5, issues[1].Line)
	assert.Equal(t, 1, issues[2].Count)
}

func TestStyle_Clean(t *testing.T) {
	assert.Empty(t, Style(wellFormedFestival))
}
