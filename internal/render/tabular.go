package render

import (
	"fmt"

	"github.com/roboco-io/lessonplan/internal/ir"
	"github.com/roboco-io/lessonplan/internal/model"
)

// Tabular column grid in DXA: category label, content, duration.
const (
	colLabel    = 1515
	colContent  = 5737
	colDuration = 1028
	colSpan     = colContent + colDuration
)

// tabular draws basic info and the procedure in one three-column table. The
// first column of the procedure rows is one vertically merged category cell.
func (r *renderer) tabular(s *model.Structure) {
	var fields []model.Field
	if sec, ok := s.Section(model.SectionBasicInfo); ok {
		fields = sec.Fields
	}
	var segments []model.Segment
	if sec, ok := s.Section(model.SectionSegments); ok {
		segments = sec.Segments
	}
	var steps []model.Step
	if sec, ok := s.Section(model.SectionTeachingSteps); ok {
		steps = sec.Steps
	}

	if len(segments) == 0 && len(steps) == 0 {
		r.basicTable(fields)
		return
	}

	t := ir.NewTable(colLabel, colContent, colDuration)
	t.Borders = ir.TableBorders{Color: borderColor, OuterSize: 6, InnerSize: 3}
	t.Margins = cellMargins

	for _, f := range fields {
		t.AddRow(
			labelCell(colLabel, f.Name),
			ir.NewCell(colSpan, paragraphs(r.fieldLines(f))...).Span(2),
		)
	}

	cat := &category{label: "环节流程"}
	for _, seg := range segments {
		r.segmentRows(t, cat, seg)
	}
	cat = &category{label: "教学步骤"}
	for _, st := range steps {
		t.AddRow(cat.cell(), ir.NewCell(colSpan, r.stepParagraphs(st)...).Span(2))
	}

	r.doc.AddTable(t)
}

// category hands out the merged first-column cell: the label on its first
// row, continuation cells afterwards.
type category struct {
	label   string
	started bool
}

func (c *category) cell() ir.Cell {
	if !c.started {
		c.started = true
		return labelCell(colLabel, c.label).Merge(ir.VMergeRestart)
	}
	cell := ir.NewCell(colLabel, ir.NewParagraph("")).Merge(ir.VMergeContinue)
	cell.VAlign = "center"
	return cell
}

func (r *renderer) segmentRows(t *ir.TableBlock, cat *category, seg model.Segment) {
	duration := ""
	if seg.Time != "" {
		duration = seg.Time + "分钟"
	}
	t.AddRow(
		cat.cell(),
		ir.NewCell(colContent, ir.NewBoldParagraph(fmt.Sprintf("环节%d：%s", seg.Number, seg.Title))),
		ir.NewCell(colDuration, centered(ir.NewBoldParagraph(duration))),
	)

	method := append([]*ir.Paragraph{ir.NewBoldParagraph("• 操作方法：")}, paragraphs(r.listLines(seg.Method))...)
	t.AddRow(cat.cell(), ir.NewCell(colSpan, method...).Span(2))

	if seg.Division != nil {
		division := append([]*ir.Paragraph{ir.NewBoldParagraph("主/助教分工：")}, paragraphs(splitLines(seg.Division.Resolve()))...)
		t.AddRow(cat.cell(), ir.NewCell(colSpan, division...).Span(2))
	}

	guidance := append([]*ir.Paragraph{ir.NewBoldParagraph("• 教师指导语：")}, paragraphs(r.listLines(seg.Guidance))...)
	t.AddRow(cat.cell(), ir.NewCell(colSpan, guidance...).Span(2))
}

// stepParagraphs lays out a teaching step inside one table cell.
func (r *renderer) stepParagraphs(st model.Step) []*ir.Paragraph {
	out := []*ir.Paragraph{ir.NewBoldParagraph(fmt.Sprintf("%d. %s", st.Number, st.Title))}
	for _, g := range st.Games {
		out = append(out, gameParagraphs(g)...)
	}
	return out
}

// basicTable is the fallback for a plan without a procedure: a two-column
// label/value table.
func (r *renderer) basicTable(fields []model.Field) {
	if len(fields) == 0 {
		return
	}
	const total = colLabel + colSpan
	labelW, valueW := total*3/10, total-total*3/10

	t := ir.NewTable(labelW, valueW)
	t.Borders = ir.TableBorders{Color: borderColor, OuterSize: 2, InnerSize: 1}
	t.Margins = cellMargins
	for _, f := range fields {
		t.AddRow(
			ir.NewCell(labelW, ir.NewParagraph(f.Name)),
			ir.NewCell(valueW, paragraphs(r.fieldLines(f))...),
		)
	}
	r.doc.AddTable(t)
}
