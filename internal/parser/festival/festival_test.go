package festival

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
)

const sample = `节日	xxxx
活动名称	x
环节1：学古诗	x分钟
•操作方法：
1. 做A。
2. 做B。
•主/助教分工：
主教做C
•教师指导语：
1. 说D`

func TestParser_Identify(t *testing.T) {
	p := New()
	assert.True(t, p.Identify(sample))
	assert.True(t, p.Identify("环节流程"))
	assert.False(t, p.Identify("课程编号：A01"))
}

func TestParser_Parse(t *testing.T) {
	doc, err := New().Parse(sample, parser.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, model.SY001, doc.TemplateID)
	assert.Equal(t, Name, doc.TemplateName)
	assert.NotEmpty(t, doc.ID)
	require.Len(t, doc.Sections, 2)

	basic := doc.Sections[0]
	assert.Equal(t, model.SectionBasicInfo, basic.Kind)
	require.Len(t, basic.Fields, 2)
	assert.Equal(t, "节日", basic.Fields[0].Name)
	assert.Equal(t, "xxxx", basic.Fields[0].Value)
	assert.Equal(t, "活动名称", basic.Fields[1].Name)
	assert.Equal(t, "x", basic.Fields[1].Value)

	segs := doc.Sections[1].Segments
	require.Len(t, segs, 1)
	assert.Equal(t, "学古诗", segs[0].Title)
	assert.Equal(t, "x", segs[0].Time)
	assert.Equal(t, "主教做C", segs[0].Division.Value)
}

func TestParser_IgnoresTextAfterStopMarker(t *testing.T) {
	text := sample + "\n示例图片\n环节2：不解析\t5分钟\n材料：剪刀"
	doc, err := New().Parse(text, parser.Options{})
	require.NoError(t, err)

	assert.Len(t, doc.Sections[1].Segments, 1)
	_, ok := doc.Field("材料")
	assert.False(t, ok)
}
