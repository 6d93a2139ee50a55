package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStructure() *Structure {
	s := New(SY001, "节庆活动方案")
	s.AddSection(Section{
		Kind:  SectionBasicInfo,
		Title: "基本信息",
		Fields: []Field{
			{Name: "节日", Value: "春节"},
			{Name: "活动目标", List: true, Items: []Item{{1, "了解春节"}, {2, "体验习俗"}}},
		},
	})
	s.AddSection(Section{
		Kind:  SectionSegments,
		Title: "环节流程",
		Segments: []Segment{{
			Number:   1,
			Title:    "学古诗",
			Time:     "10",
			Method:   ListContent{Items: []Item{{1, "做A。"}, {2, "做B。"}}},
			Division: &TextContent{Value: "主教做C"},
			Guidance: ListContent{Items: []Item{{1, "说D"}}},
		}},
	})
	return s
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    Path
		wantErr bool
	}{
		{
			in:   "sections.1.segments.0.method.items.2",
			want: Path{{"sections", 1}, {"segments", 0}, {"method", -1}, {"items", 2}},
		},
		{
			in:   "sections.0.fields.1.value",
			want: Path{{"sections", 0}, {"fields", 1}, {"value", -1}},
		},
		{in: "", wantErr: true},
		{in: "sections..1", wantErr: true},
		{in: "1.sections", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePath(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPath))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, got.String())
		})
	}
}

func TestEditor_SetValue(t *testing.T) {
	s := sampleStructure()
	ed := NewEditor(s)

	require.NoError(t, ed.SetValue("sections.0.fields.0", "元宵节"))
	require.NoError(t, ed.SetValue("sections.1.segments.0.title", "唱儿歌"))
	require.NoError(t, ed.SetValue("sections.1.segments.0.time", "15"))
	require.NoError(t, ed.SetValue("sections.1.segments.0.division", "助教做E"))
	require.NoError(t, ed.SetValue("sections.1.segments.0.method.items.1", "做F。"))

	seg := s.Sections[1].Segments[0]
	assert.Equal(t, "元宵节", s.Sections[0].Fields[0].Value)
	assert.Equal(t, "唱儿歌", seg.Title)
	assert.Equal(t, "15", seg.Time)
	assert.Equal(t, "助教做E", seg.Division.Value)
	assert.Equal(t, "做F。", seg.Method.Items[1].Content)

	err := ed.SetValue("sections.1.segments.3.title", "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
	err = ed.SetValue("sections.1.segments.0.method", "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestEditor_InsertDeleteRenumbers(t *testing.T) {
	s := sampleStructure()
	ed := NewEditor(s)
	path := "sections.1.segments.0.method"

	require.NoError(t, ed.InsertItem(path, 1))
	require.NoError(t, ed.SetValue(path+".items.1", "新增。"))

	items := s.Sections[1].Segments[0].Method.Items
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, i+1, it.Number)
	}
	assert.Equal(t, "新增。", items[1].Content)
	assert.Equal(t, "做B。", items[2].Content)

	require.NoError(t, ed.DeleteItem(path, 0))
	items = s.Sections[1].Segments[0].Method.Items
	assert.Equal(t, []Item{{1, "新增。"}, {2, "做B。"}}, items)
}

func TestEditor_DeleteLastItemLeavesPlaceholder(t *testing.T) {
	s := sampleStructure()
	ed := NewEditor(s)
	path := "sections.1.segments.0.guidance"

	require.NoError(t, ed.DeleteItem(path, 0))
	assert.Equal(t, Placeholder(), s.Sections[1].Segments[0].Guidance.Items)

	assert.ErrorIs(t, ed.DeleteItem(path, 5), ErrInvalidPath)
}

func TestEditor_OverrideWins(t *testing.T) {
	s := sampleStructure()
	ed := NewEditor(s)
	path := "sections.1.segments.0.method"

	require.NoError(t, ed.SetOverride(path, "先观察\n2. 再讨论"))

	method := s.Sections[1].Segments[0].Method
	res, ok := method.Resolve().(Overridden)
	require.True(t, ok)
	assert.Equal(t, []string{"先观察", "2. 再讨论"}, res.Lines())
	assert.Equal(t, []Item{{1, "先观察"}, {2, "再讨论"}}, method.Items)

	require.NoError(t, ed.SetOverride(path, ""))
	res, ok = s.Sections[1].Segments[0].Method.Resolve().(Overridden)
	require.True(t, ok, "an empty override still wins")
	assert.Equal(t, "", res.Text)

	require.NoError(t, ed.ClearOverride(path))
	_, ok = s.Sections[1].Segments[0].Method.Resolve().(Derived)
	assert.True(t, ok)
}

func TestEditor_FieldOverride(t *testing.T) {
	s := sampleStructure()
	ed := NewEditor(s)

	require.NoError(t, ed.SetOverride("sections.0.fields.1", "1. 认识灯笼\n猜灯谜"))
	f := s.Sections[0].Fields[1]
	require.NotNil(t, f.Override)
	assert.Equal(t, []Item{{1, "认识灯笼"}, {2, "猜灯谜"}}, f.Items)
}

func TestEditor_AddSegment(t *testing.T) {
	t.Run("dialect with division", func(t *testing.T) {
		s := sampleStructure()
		idx, err := NewEditor(s).AddSegment("sections.1")
		require.NoError(t, err)

		seg := s.Sections[1].Segments[idx]
		assert.Equal(t, 2, seg.Number)
		assert.Len(t, seg.Method.Items, 3)
		assert.Len(t, seg.Guidance.Items, 3)
		assert.NotNil(t, seg.Division)
	})

	t.Run("dialect without division", func(t *testing.T) {
		s := sampleStructure()
		s.TemplateID = SY003
		idx, err := NewEditor(s).AddSegment("sections.1")
		require.NoError(t, err)
		assert.Nil(t, s.Sections[1].Segments[idx].Division)
	})

	t.Run("wrong section", func(t *testing.T) {
		_, err := NewEditor(sampleStructure()).AddSegment("sections.0")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})
}

func TestEditor_DeleteSegmentRenumbers(t *testing.T) {
	s := sampleStructure()
	ed := NewEditor(s)
	_, err := ed.AddSegment("sections.1")
	require.NoError(t, err)
	_, err = ed.AddSegment("sections.1")
	require.NoError(t, err)

	require.NoError(t, ed.DeleteSegment("sections.1.segments.0"))
	segs := s.Sections[1].Segments
	require.Len(t, segs, 2)
	assert.Equal(t, 1, segs[0].Number)
	assert.Equal(t, 2, segs[1].Number)
}

func TestEditor_Steps(t *testing.T) {
	s := New(SY002, "体适能")
	s.AddSection(Section{Kind: SectionTeachingSteps, Title: "教学步骤", Steps: []Step{}})
	ed := NewEditor(s)

	si, err := ed.AddStep("sections.0", "热身")
	require.NoError(t, err)
	gi, err := ed.AddGame("sections.0.steps.0", "小兔跳")
	require.NoError(t, err)
	require.NoError(t, ed.AddPoint("sections.0.steps.0.games.0", "￮", "双脚跳"))
	require.NoError(t, ed.SetValue("sections.0.steps.0.games.0.guidance", "跳得真棒"))

	game := s.Sections[0].Steps[si].Games[gi]
	assert.Equal(t, 1, game.Number)
	assert.Equal(t, []Point{{"￮", "双脚跳"}}, game.Points)
	assert.Equal(t, "跳得真棒", game.Guidance)

	s.Sections[0].Steps[0].Games = append(s.Sections[0].Steps[0].Games, Game{Tag: "a", Title: "引导整理"})
	err = ed.AddPoint("sections.0.steps.0.games.1", "•", "x")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestStructure_Clone(t *testing.T) {
	s := sampleStructure()
	c := s.Clone()

	NewEditor(c).SetValue("sections.1.segments.0.method.items.0", "改动")
	*c.Sections[1].Segments[0].Division = TextContent{Value: "改动"}

	assert.Equal(t, "做A。", s.Sections[1].Segments[0].Method.Items[0].Content)
	assert.Equal(t, "主教做C", s.Sections[1].Segments[0].Division.Value)
	assert.Equal(t, s.ID, c.ID)
}

func TestItemsFromText(t *testing.T) {
	assert.Equal(t, Placeholder(), ItemsFromText("  \n"))
	assert.Equal(t, []Item{{1, "甲"}, {2, "乙"}}, ItemsFromText("3、甲\n\n乙"))
}
