package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
)

func TestParser_Parse(t *testing.T) {
	text := `食育课程
课程编号：SY-12
课程目标：
2. 认识蔬菜
4. 愿意品尝
课程材料：
教学步骤：
1. 认识蔬菜
游戏1：猜猜我是谁
• 摸一摸
指导语：这是什么蔬菜？`

	p := New()
	require.True(t, p.Identify(text))

	doc, err := p.Parse(text, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, model.SY005, doc.TemplateID)

	obj, ok := doc.Field("课程目标")
	require.True(t, ok)
	assert.Equal(t, []model.Item{{Number: 1, Content: "认识蔬菜"}, {Number: 2, Content: "愿意品尝"}}, obj.Items)
	assert.Equal(t, "1. 认识蔬菜\n2. 愿意品尝", obj.Value)

	mat, ok := doc.Field("课程材料")
	require.True(t, ok)
	assert.False(t, mat.List, "an empty list falls back to a scalar field")
	assert.Equal(t, "", mat.Value)

	steps := doc.Sections[1].Steps
	require.Len(t, steps, 1)
	require.Len(t, steps[0].Games, 1)
	assert.Equal(t, []model.Point{{Prefix: "•", Content: "摸一摸"}}, steps[0].Games[0].Points)
	assert.Equal(t, "这是什么蔬菜？", steps[0].Games[0].Guidance)
}

func TestParser_Identify(t *testing.T) {
	p := New()
	assert.True(t, p.Identify("食育"))
	assert.False(t, p.Identify("体适能\n课程编号"))
}
