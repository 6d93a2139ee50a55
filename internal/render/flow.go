package render

import (
	"fmt"
	"strings"

	"github.com/roboco-io/lessonplan/internal/ir"
	"github.com/roboco-io/lessonplan/internal/model"
)

// defaultPointPrefix is used for points that lost their prefix in editing.
const defaultPointPrefix = "￮"

// flow draws a plan as free paragraphs: labelled fields, then the teaching
// steps with their games.
func (r *renderer) flow(s *model.Structure) {
	if sec, ok := s.Section(model.SectionBasicInfo); ok {
		for _, f := range sec.Fields {
			r.flowField(f)
		}
	}

	sec, ok := s.Section(model.SectionTeachingSteps)
	if !ok || len(sec.Steps) == 0 {
		return
	}
	r.add(spaced(ir.NewBoldParagraph("教学步骤："), 200))
	for _, st := range sec.Steps {
		r.add(spaced(ir.NewBoldParagraph(fmt.Sprintf("%d. %s", st.Number, st.Title)), 100))
		for _, g := range st.Games {
			for _, p := range gameParagraphs(g) {
				r.add(spaced(p, 100))
			}
		}
		r.add(spaced(ir.NewParagraph(""), 200))
	}
}

// flowField writes a list field as a label paragraph followed by one
// paragraph per line, and a scalar field as one "label：value" paragraph.
func (r *renderer) flowField(f model.Field) {
	if f.List || len(f.Items) > 0 {
		r.add(spaced(ir.NewBoldParagraph(f.Name+"："), 100))
		for _, l := range r.fieldLines(f) {
			r.add(spaced(ir.NewParagraph(l), 100))
		}
		return
	}

	value := f.Value
	if f.Override != nil {
		value = *f.Override
	}
	p := ir.NewParagraph("")
	p.AddRun(f.Name+"：", ir.TextStyle{Bold: true})
	if v := strings.Join(splitLines(value), " "); v != "" {
		p.AddRun(v, ir.TextStyle{})
	}
	r.add(spaced(p, 200))
}

// gameParagraphs lays out one game: its header, points and guidance. Closing
// sub-items always carry a guidance line, even an empty one.
func gameParagraphs(g model.Game) []*ir.Paragraph {
	var out []*ir.Paragraph
	switch {
	case g.IsClosing():
		out = append(out, ir.NewBoldParagraph(fmt.Sprintf("%s.%s：", g.Tag, g.Title)))
	case g.Title != "":
		out = append(out, ir.NewBoldParagraph(fmt.Sprintf("游戏%d：%s", g.Number, g.Title)))
	}

	for _, pt := range g.Points {
		if pt.Content == "" {
			continue
		}
		prefix := pt.Prefix
		if prefix == "" {
			prefix = defaultPointPrefix
		}
		out = append(out, ir.NewParagraph(prefix+" "+pt.Content))
	}

	if g.Guidance != "" || g.IsClosing() {
		out = append(out, ir.NewParagraph(defaultPointPrefix+" 指导语："+g.Guidance))
	}
	return out
}

func (r *renderer) add(p *ir.Paragraph) {
	r.doc.AddParagraph(p)
}

func spaced(p *ir.Paragraph, after int) *ir.Paragraph {
	p.Style.SpacingAfter = after
	return p
}
