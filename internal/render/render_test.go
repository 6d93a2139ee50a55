package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/lessonplan/internal/ir"
	"github.com/roboco-io/lessonplan/internal/model"
)

func festivalPlan() *model.Structure {
	s := model.New(model.SY001, "节庆活动方案")
	s.AddSection(model.Section{Kind: model.SectionBasicInfo, Fields: []model.Field{
		{Name: "节日", Value: "春节"},
		{Name: "活动名称", Value: "写春联"},
	}})
	s.AddSection(model.Section{Kind: model.SectionSegments, Segments: []model.Segment{
		{
			Number:   1,
			Title:    "学古诗",
			Time:     "10",
			Method:   model.ListContent{Items: []model.Item{{1, "朗读。"}, {2, "背诵。"}}},
			Division: &model.TextContent{Value: "主教带读\n助教巡视"},
			Guidance: model.ListContent{Items: []model.Item{{1, "大声读"}}},
		},
		{Number: 2, Title: "做游戏"},
	}})
	return s
}

func firstTable(t *testing.T, doc *ir.Document) *ir.TableBlock {
	t.Helper()
	for _, b := range doc.Content {
		if b.Type == ir.BlockTypeTable {
			return b.Table
		}
	}
	t.Fatal("no table rendered")
	return nil
}

func TestStrategyFor(t *testing.T) {
	assert.Equal(t, StrategyTabular, StrategyFor(model.SY001))
	assert.Equal(t, StrategyParagraph, StrategyFor(model.SY002))
	assert.Equal(t, StrategyTabular, StrategyFor(model.SY003))
	assert.Equal(t, StrategyFourColumn, StrategyFor(model.SY004))
	assert.Equal(t, StrategyParagraph, StrategyFor(model.SY005))
}

func TestRender_Tabular(t *testing.T) {
	doc := Render(festivalPlan(), DefaultOptions())

	assert.Equal(t, DefaultFont, doc.Style.Font)
	assert.Equal(t, DefaultFontSize, doc.Style.FontSize)

	table := firstTable(t, doc)
	assert.Equal(t, []int{1515, 5737, 1028}, table.Grid)
	assert.Equal(t, ir.TableBorders{Color: "DEE0E3", OuterSize: 6, InnerSize: 3}, table.Borders)
	assert.Equal(t, ir.CellMargins{Top: 60, Bottom: 30, Left: 120, Right: 120}, table.Margins)

	// 2 basic rows, 4 rows for the first segment, 3 for the second which
	// has no division.
	require.Len(t, table.Rows, 9)

	basic := table.Rows[0]
	assert.Equal(t, "节日", basic.Cells[0].Text())
	assert.Equal(t, 2, basic.Cells[1].ColSpan)
	assert.Equal(t, 6765, basic.Cells[1].Width)

	header := table.Rows[2]
	assert.Equal(t, ir.VMergeRestart, header.Cells[0].VMerge)
	assert.Equal(t, "环节流程", header.Cells[0].Text())
	assert.Equal(t, "环节1：学古诗", header.Cells[1].Text())
	assert.Equal(t, "10分钟", header.Cells[2].Text())

	for _, row := range table.Rows[3:] {
		assert.Equal(t, ir.VMergeContinue, row.Cells[0].VMerge)
	}
	assert.Equal(t, "• 操作方法：\n1. 朗读。\n2. 背诵。", table.Rows[3].Cells[1].Text())
	assert.Equal(t, "主/助教分工：\n主教带读\n助教巡视", table.Rows[4].Cells[1].Text())
	assert.Equal(t, "• 教师指导语：\n1. 大声读", table.Rows[5].Cells[1].Text())

	// An empty duration renders as an empty cell, empty lists as one empty paragraph.
	assert.Equal(t, "", table.Rows[6].Cells[2].Text())
	assert.Equal(t, "• 操作方法：\n", table.Rows[7].Cells[1].Text())
}

func TestRender_OverrideWins(t *testing.T) {
	s := festivalPlan()
	text := "自由书写第一行\n\n  第二行  "
	seg := &s.Sections[1].Segments[0]
	seg.Method.Override = &text

	table := firstTable(t, Render(s, Options{}))
	assert.Equal(t, "• 操作方法：\n自由书写第一行\n第二行", table.Rows[3].Cells[1].Text())
}

func TestRender_BasicOnlyTable(t *testing.T) {
	s := festivalPlan()
	s.Sections[1].Segments = nil

	table := firstTable(t, Render(s, Options{}))
	assert.Len(t, table.Grid, 2)
	assert.Equal(t, 8280, table.Grid[0]+table.Grid[1])
	assert.Equal(t, 2, table.Borders.OuterSize)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "写春联", table.Rows[1].Cells[1].Text())
}

func TestRender_Paragraph(t *testing.T) {
	s := model.New(model.SY002, "体适能")
	s.AddSection(model.Section{Kind: model.SectionBasicInfo, Fields: []model.Field{
		{Name: "课程编号", Value: "TS-003"},
		{Name: "课程目标", List: true, Items: []model.Item{{1, "提高平衡能力"}, {2, "学会等待"}}},
	}})
	s.AddSection(model.Section{Kind: model.SectionTeachingSteps, Steps: []model.Step{
		{Number: 1, Title: "热身", Games: []model.Game{
			{Number: 1, Title: "小兔跳", Points: []model.Point{{Prefix: "•", Content: "双脚并拢"}, {Content: "无前缀"}}, Guidance: "跳起来"},
		}},
		{Number: 2, Title: "结束整理", Games: []model.Game{{Tag: "a", Title: "引导整理"}}},
	}})

	doc := Render(s, Options{})
	assert.Equal(t, []string{
		"课程编号：TS-003",
		"课程目标：",
		"1、 提高平衡能力",
		"2、 学会等待",
		"教学步骤：",
		"1. 热身",
		"游戏1：小兔跳",
		"• 双脚并拢",
		"￮ 无前缀",
		"￮ 指导语：跳起来",
		"",
		"2. 结束整理",
		"a.引导整理：",
		"￮ 指导语：",
		"",
	}, doc.Lines())

	first := doc.Content[0].Paragraph
	require.Len(t, first.Runs, 2)
	assert.True(t, first.Runs[0].Style.Bold)
	assert.False(t, first.Runs[1].Style.Bold)
}

func TestRender_FourColumn(t *testing.T) {
	s := model.New(model.SY004, "绘本剧")
	s.AddSection(model.Section{Kind: model.SectionBasicInfo, Fields: []model.Field{
		{Name: "绘本名称", Value: "好饿的毛毛虫"},
		{Name: "教学目标", List: true, Items: []model.Item{{1, "认识星期"}}},
	}})
	s.AddSection(model.Section{Kind: model.SectionProcess, Phases: []model.Phase{
		{Kind: model.PhaseImport, Title: "导入环节", Content: "出示玩偶"},
		{Kind: model.PhaseReading, Title: "精读环节", Readings: []model.ReadingItem{{Title: "1.观察封面", Content: "有什么？"}}},
		{Kind: model.PhaseExtension, Title: "拓展环节", Extensions: []model.Extension{
			{Number: 1, Title: "角色扮演", List: model.ListContent{Items: []model.Item{{1, "分配角色"}}}},
			{Number: 2, Title: "美工"},
		}},
	}})

	table := firstTable(t, Render(s, Options{}))
	assert.Equal(t, []int{1545, 4320, 1200, 1215}, table.Grid)
	assert.Equal(t, 2, table.Borders.OuterSize)
	assert.Equal(t, 1, table.Borders.InnerSize)

	require.Len(t, table.Rows, 8)
	row := table.Rows[0]
	require.Len(t, row.Cells, 4)
	assert.Equal(t, "好饿的毛毛虫", row.Cells[1].Text())
	assert.Equal(t, "课时", row.Cells[2].Text())
	assert.Equal(t, "", row.Cells[3].Text())

	// 教学准备 and 绘本简介 rows are present even without fields.
	assert.Equal(t, "教学准备", table.Rows[2].Cells[0].Text())
	assert.Equal(t, 3, table.Rows[2].Cells[1].ColSpan)
	assert.Equal(t, 6735, table.Rows[2].Cells[1].Width)
	assert.Equal(t, "绘本简介", table.Rows[3].Cells[0].Text())

	assert.Equal(t, "教学过程\n导入环节", table.Rows[4].Cells[0].Text())
	assert.Equal(t, "1.观察封面\n有什么？", table.Rows[5].Cells[1].Text())

	assert.Equal(t, ir.VMergeRestart, table.Rows[6].Cells[0].VMerge)
	assert.Equal(t, "拓展方式1: 角色扮演\n1. 分配角色", table.Rows[6].Cells[1].Text())
	assert.Equal(t, ir.VMergeContinue, table.Rows[7].Cells[0].VMerge)
}

func TestRender_HeaderAndTrailer(t *testing.T) {
	opts := Options{
		Header:  Header{Number: "JQ001-春节", Author: "作  者：王老师"},
		Trailer: Trailer("环节1：a\n示例图片\n\n  图一说明  \n"),
		Images:  []*ir.ImageBlock{ir.NewImage("empty"), nil},
	}
	doc := Render(festivalPlan(), opts)

	lines := doc.Lines()
	assert.Equal(t, "JQ001-春节", lines[0])
	assert.Equal(t, "作  者：王老师", lines[1])
	assert.Equal(t, []string{"示例图片", "图一说明"}, lines[len(lines)-2:])
	assert.Empty(t, doc.Images())
	assert.Equal(t, "JQ001-春节", doc.Metadata.Title)
	assert.Equal(t, "SY001", doc.Metadata.Subject)
}

func TestTrailer_NoMarker(t *testing.T) {
	assert.Empty(t, Trailer("节日：春节\n环节1：学古诗"))
}

func TestRender_DialectOverride(t *testing.T) {
	doc := Render(festivalPlan(), Options{Dialect: model.SY002})
	for _, b := range doc.Content {
		assert.NotEqual(t, ir.BlockTypeTable, b.Type)
	}
	assert.True(t, strings.HasPrefix(doc.PlainText(), "节日：春节"))
}
