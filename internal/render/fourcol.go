package render

import (
	"fmt"

	"github.com/roboco-io/lessonplan/internal/ir"
	"github.com/roboco-io/lessonplan/internal/model"
)

// Four-column grid in DXA: two label/value pairs per row.
const (
	fcLabel      = 1545
	fcValue      = 4320
	fcLabel2     = 1200
	fcValue2     = 1215
	fcSpan       = fcValue + fcLabel2 + fcValue2
	fcSpanColumn = 3
)

// fourColumn draws the picture-book layout: book name and hours on the first
// row, full-width rows for the lists and the synopsis, then one row per
// process phase.
func (r *renderer) fourColumn(s *model.Structure) {
	field := func(name string) model.Field {
		if f, ok := s.Field(name); ok {
			return *f
		}
		return model.Field{Name: name}
	}

	t := ir.NewTable(fcLabel, fcValue, fcLabel2, fcValue2)
	t.Borders = ir.TableBorders{Color: borderColor, OuterSize: 2, InnerSize: 1}
	t.Margins = cellMargins

	t.AddRow(
		labelCell(fcLabel, "绘本名称"),
		ir.NewCell(fcValue, ir.NewParagraph(field("绘本名称").Value)),
		labelCell(fcLabel2, "课时"),
		ir.NewCell(fcValue2, ir.NewParagraph(field("课时").Value)),
	)
	for _, name := range []string{"教学目标", "教学准备", "绘本简介"} {
		t.AddRow(
			labelCell(fcLabel, name),
			ir.NewCell(fcSpan, paragraphs(r.fieldLines(field(name)))...).Span(fcSpanColumn),
		)
	}

	if sec, ok := s.Section(model.SectionProcess); ok {
		for _, ph := range sec.Phases {
			r.phaseRows(t, ph)
		}
	}

	r.doc.AddTable(t)
}

func (r *renderer) phaseRows(t *ir.TableBlock, ph model.Phase) {
	switch ph.Kind {
	case model.PhaseImport:
		t.AddRow(
			labelCell(fcLabel, "教学过程", "导入环节"),
			ir.NewCell(fcSpan, paragraphs(splitLines(ph.Content))...).Span(fcSpanColumn),
		)

	case model.PhaseReading:
		var ps []*ir.Paragraph
		for _, it := range ph.Readings {
			ps = append(ps, ir.NewBoldParagraph(it.Title))
			for _, l := range splitLines(it.Content) {
				ps = append(ps, ir.NewParagraph(l))
			}
		}
		if len(ps) == 0 {
			ps = paragraphs(nil)
		}
		t.AddRow(
			labelCell(fcLabel, "教学过程", "精读环节"),
			ir.NewCell(fcSpan, ps...).Span(fcSpanColumn),
		)

	case model.PhaseExtension:
		if len(ph.Extensions) == 0 {
			t.AddRow(labelCell(fcLabel, "拓展环节"), ir.NewCell(fcSpan, paragraphs(nil)...).Span(fcSpanColumn))
			return
		}
		for i, ext := range ph.Extensions {
			first := ir.NewCell(fcLabel, ir.NewParagraph("")).Merge(ir.VMergeContinue)
			first.VAlign = "center"
			if i == 0 {
				first = labelCell(fcLabel, "拓展环节").Merge(ir.VMergeRestart)
			}
			ps := []*ir.Paragraph{ir.NewBoldParagraph(fmt.Sprintf("拓展方式%d: %s", ext.Number, ext.Title))}
			ps = append(ps, paragraphs(r.listLines(ext.List))...)
			t.AddRow(first, ir.NewCell(fcSpan, ps...).Span(fcSpanColumn))
		}
	}
}
