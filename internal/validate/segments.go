package validate

import (
	"fmt"
	"strings"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/model"
)

// block is the text of one labelled sub-field: the label line and the lines
// up to the next label or the end of the segment.
type block struct {
	line  int // 1-based line of the label
	lines []sourceLine
}

type sourceLine struct {
	n    int
	text string
}

func (b *block) content() string {
	parts := make([]string, len(b.lines))
	for i, l := range b.lines {
		parts[i] = l.text
	}
	return strings.Join(parts, "\n")
}

// segmentBlocks splits lines[from:to] into sub-field blocks. The first
// occurrence of a label wins.
func segmentBlocks(lines []string, from, to int) map[subField]*block {
	out := make(map[subField]*block)
	var cur *block
	for i := from; i < to; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		stripped := classify.StripBullet(line)
		matched := false
		for _, l := range subFieldLabels {
			loc := l.pattern.FindStringIndex(stripped)
			if loc == nil {
				continue
			}
			matched = true
			if _, seen := out[l.kind]; seen {
				cur = nil
				break
			}
			cur = &block{line: i + 1}
			out[l.kind] = cur
			if rest := strings.TrimSpace(stripped[loc[1]:]); rest != "" {
				cur.lines = append(cur.lines, sourceLine{n: i + 1, text: rest})
			}
			break
		}
		if !matched && cur != nil {
			cur.lines = append(cur.lines, sourceLine{n: i + 1, text: line})
		}
	}
	return out
}

func (c *checker) segments() {
	sec, _ := c.doc.Section(model.SectionSegments)
	if sec == nil || len(sec.Segments) == 0 {
		c.report.errorf(CategorySegment, "", 0, msgNoSegments)
		return
	}

	required := []string{"操作方法", "教师指导语"}
	if c.rules.Division {
		required = []string{"操作方法", "主/助教分工", "教师指导语"}
	}

	var incomplete []string
	for i, seg := range sec.Segments {
		from := seg.Line - 1
		to := c.stop
		if i+1 < len(sec.Segments) {
			to = sec.Segments[i+1].Line - 1
		}
		if !c.segment(seg, from, to) {
			incomplete = append(incomplete, fmt.Sprintf("环节%d", seg.Number))
		}
	}

	if len(incomplete) > 0 {
		issue := c.report.errorf(CategoryValidation, "环节完整性", 0, msgCompleteness, strings.Join(required, "、"))
		issue.Content = strings.Join(incomplete, "、")
	}
}

// segment checks one unit whose header is lines[from] and whose body runs to
// lines[to]. It reports whether every required sub-field label is present.
func (c *checker) segment(seg model.Segment, from, to int) bool {
	header := strings.TrimSpace(c.lines[from])
	line := from + 1
	field := fmt.Sprintf("环节%d", seg.Number)

	if seg.Title == "" || !strictTitle.MatchString(header) {
		c.report.errorf(CategoryTitle, field, line, msgTitle).Content = excerpt(header)
	}

	switch {
	case seg.Time == "":
		c.report.errorf(CategoryTime, field, line, msgTime)
	case strings.EqualFold(seg.Time, "x"):
		c.report.warnf(CategoryTime, field, line, msgTimeX)
	}
	for i := from; i < from+3 && i < to; i++ {
		if spacedDuration.MatchString(c.lines[i]) {
			c.report.warnf(CategoryTime, field, i+1, msgTimeSpace).Content = excerpt(c.lines[i])
			break
		}
	}

	blocks := segmentBlocks(c.lines, from+1, to)
	complete := true

	if b, ok := blocks[subMethod]; ok {
		c.numberedList(CategoryMethod, field, line, b, true, msgMethodItems)
	} else {
		c.report.errorf(CategoryMethod, field, line, "缺少\"操作方法\"字段")
		complete = false
	}

	if c.rules.Division {
		if b, ok := blocks[subDivision]; ok {
			if !HasRealContent(b.content()) {
				c.report.warnf(CategoryDivision, field, b.line, "\"主/助教分工\"未填写内容（只有占位符）")
			}
		} else {
			c.report.errorf(CategoryDivision, field, line, "缺少\"主/助教分工\"字段")
			complete = false
		}
	}

	if b, ok := blocks[subGuidance]; ok {
		c.numberedList(CategoryGuidance, field, line, b, false, msgGuideItems)
	} else {
		c.report.errorf(CategoryGuidance, field, line, "缺少\"教师指导语\"字段")
		complete = false
	}
	return complete
}

// numberedList checks the numbered lines of a block: at least one item, the
// "N. " numbering form and, for method items, a terminal full stop.
func (c *checker) numberedList(category, field string, line int, b *block, terminal bool, missing string) {
	count := 0
	for _, l := range b.lines {
		if !numberedItem.MatchString(l.text) {
			continue
		}
		if _, ok := classify.MatchNumbered(l.text); ok {
			count++
		}
		if !strictNumbering.MatchString(l.text) {
			c.report.warnf(category, field, l.n, "第%d行：%s", l.n, msgNumbering).Content = excerpt(l.text)
		}
		if terminal && !terminalStop.MatchString(l.text) {
			c.report.warnf(category, field, l.n, "第%d行：%s", l.n, msgMethodStop).Content = excerpt(l.text)
		}
	}
	if count < 1 {
		c.report.errorf(category, field, line, "%s", missing)
	}
}

func (c *checker) steps() {
	sec, _ := c.doc.Section(model.SectionTeachingSteps)
	if sec == nil || len(sec.Steps) == 0 {
		c.report.errorf(CategorySteps, "教学步骤", 0, "缺少教学步骤，至少应包含1个步骤")
		return
	}
	for _, st := range sec.Steps {
		field := fmt.Sprintf("%d. %s", st.Number, st.Title)
		line := c.findLine(fmt.Sprintf("%d.", st.Number), st.Title)
		if len(st.Games) == 0 {
			if !strings.Contains(st.Title, "结束整理") {
				c.report.warnf(CategorySteps, field, line, "步骤\"%s\"没有游戏或活动", st.Title)
			}
			continue
		}
		for _, g := range st.Games {
			switch {
			case g.IsClosing():
				if strings.TrimSpace(g.Guidance) == "" {
					c.report.warnf(CategoryGame, field, line, "\"%s\"缺少指导语", g.Title)
				}
			case len(g.Points) == 0 && strings.TrimSpace(g.Guidance) == "":
				c.report.warnf(CategoryGame, field, c.findLine(fmt.Sprintf("游戏%d", g.Number), g.Title),
					"游戏%d\"%s\"没有要点和指导语", g.Number, g.Title)
			}
		}
	}
}

var phaseOrder = []struct {
	kind model.PhaseKind
	name string
}{
	{model.PhaseImport, "导入环节"},
	{model.PhaseReading, "精读环节"},
	{model.PhaseExtension, "拓展环节"},
}

func (c *checker) process() {
	var phases []model.Phase
	if sec, ok := c.doc.Section(model.SectionProcess); ok {
		phases = sec.Phases
	}
	for _, want := range phaseOrder {
		ph, ok := findPhase(phases, want.kind)
		if !ok {
			c.report.errorf(CategoryProcess, want.name, 0, "缺少\"%s\"", want.name)
			continue
		}
		if want.kind != model.PhaseExtension {
			continue
		}
		if len(ph.Extensions) == 0 {
			c.report.warnf(CategoryProcess, want.name, c.findLine(want.name), "\"拓展环节\"没有拓展方式")
		}
		for _, ext := range ph.Extensions {
			if len(ext.List.Items) == 0 && ext.List.Override == nil {
				name := fmt.Sprintf("拓展方式%d", ext.Number)
				c.report.warnf(CategoryProcess, name, c.findLine(name), "\"%s\"没有具体内容", name)
			}
		}
	}
}

func findPhase(phases []model.Phase, kind model.PhaseKind) (model.Phase, bool) {
	for _, ph := range phases {
		if ph.Kind == kind {
			return ph, true
		}
	}
	return model.Phase{}, false
}

// findLine returns the 1-based line before the stop marker that contains
// every part, or 0.
func (c *checker) findLine(parts ...string) int {
	for i := 0; i < c.stop; i++ {
		ok := true
		for _, p := range parts {
			if !strings.Contains(c.lines[i], p) {
				ok = false
				break
			}
		}
		if ok {
			return i + 1
		}
	}
	return 0
}
