package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/model"
)

// CommonLabels end a next-line field lookup in every dialect.
var CommonLabels = []string{"课程编号", "课程目标", "课程材料", "教学步骤", "环节流程", "活动名称", "节日", "绘本", "食育"}

var commonLabelPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(CommonLabels))
	for i, l := range CommonLabels {
		out[i] = regexp.MustCompile(`^` + regexp.QuoteMeta(l) + `[：:]?`)
	}
	return out
}()

// FieldSpec names a basic-information field and the pattern of its label.
type FieldSpec struct {
	Name    string
	pattern *regexp.Regexp
	start   *regexp.Regexp
	colon   *regexp.Regexp
}

// Label builds a FieldSpec whose label is the literal name.
func Label(name string) FieldSpec {
	return LabelPattern(name, regexp.QuoteMeta(name))
}

// LabelPattern builds a FieldSpec whose label matches expr, e.g. `节\s*日`.
func LabelPattern(name, expr string) FieldSpec {
	return FieldSpec{
		Name:    name,
		pattern: regexp.MustCompile(expr),
		start:   regexp.MustCompile(`^\s*(?:` + expr + `)[：:]?`),
		colon:   regexp.MustCompile(`(?:` + expr + `)\s*[：:]\s*(.+)`),
	}
}

// Matches reports whether the label occurs anywhere in line.
func (s FieldSpec) Matches(line string) bool {
	return s.pattern.MatchString(line)
}

// StartsLine reports whether line begins with the label.
func (s FieldSpec) StartsLine(line string) bool {
	return s.start.MatchString(line)
}

// Boundary builds an anchored pattern matching any of the labels at line start.
func Boundary(labels ...string) *regexp.Regexp {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = regexp.QuoteMeta(l)
	}
	return regexp.MustCompile(`^\s*(?:` + strings.Join(quoted, "|") + `)`)
}

// ExtractField finds the value of spec. The first line mentioning the label
// wins; its value is, in order of precedence, the text after a colon, the
// table cell after the label cell, or the next line. The next line is not
// used when it is blank or starts with a sibling or common label.
func ExtractField(lines []string, spec FieldSpec, siblings []FieldSpec) (model.Field, bool) {
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if !spec.Matches(line) {
			continue
		}
		f := model.Field{Name: spec.Name, Line: i + 1}

		if m := spec.colon.FindStringSubmatch(line); m != nil {
			f.Value = cutCell(m[1])
			return f, true
		}

		if strings.Contains(line, "\t") {
			cells := strings.Split(line, "\t")
			for k, c := range cells {
				if spec.Matches(c) && k+1 < len(cells) {
					f.Value = strings.TrimSpace(cells[k+1])
					return f, true
				}
			}
		}

		if i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next != "" && !isLabel(next, siblings) {
				f.Value = next
			}
		}
		return f, true
	}
	return model.Field{Name: spec.Name}, false
}

func cutCell(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func isLabel(line string, siblings []FieldSpec) bool {
	for _, s := range siblings {
		if s.StartsLine(line) {
			return true
		}
	}
	for _, re := range commonLabelPatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// labelRemainder returns what follows the label on its own line: the text
// after a colon or the next table cell.
func labelRemainder(line string, spec FieldSpec) string {
	if m := spec.colon.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(m[1])
	}
	cells := strings.Split(line, "\t")
	for k, c := range cells {
		if spec.Matches(c) && k+1 < len(cells) {
			return strings.TrimSpace(strings.Join(cells[k+1:], "\t"))
		}
	}
	return ""
}

// ParseNumberedList collects the numbered items following the label of spec
// until boundary or a stop marker. Unnumbered lines continue the previous
// item. Items are renumbered from 1 and Value holds them joined with sep.
// The boolean reports whether the label was found; the list may be empty.
func ParseNumberedList(lines []string, spec FieldSpec, boundary *regexp.Regexp, sep string) (model.Field, bool) {
	start := findLabel(lines, spec)
	f := model.Field{Name: spec.Name, List: true}
	if start < 0 {
		return f, false
	}
	f.Line = start + 1

	var items []model.Item
	add := func(t string) {
		if classify.IsBareNumber(t) {
			return
		}
		if n, ok := classify.MatchNumbered(t); ok {
			items = append(items, model.Item{Content: n.Content})
			return
		}
		if len(items) > 0 {
			items[len(items)-1].Content += "\n" + t
			return
		}
		items = append(items, model.Item{Content: t})
	}

	if rem := labelRemainder(strings.TrimSpace(lines[start]), spec); rem != "" {
		add(rem)
	}
	for _, l := range lines[start+1:] {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		if classify.IsStopMarker(t) || boundary.MatchString(t) {
			break
		}
		add(t)
	}

	f.Items = model.Renumber(items)
	f.Value = JoinItems(f.Items, sep)
	return f, true
}

// ParseTextArea collects the label's inline remainder and the lines after it
// until boundary or a stop marker, joined with newlines.
func ParseTextArea(lines []string, spec FieldSpec, boundary *regexp.Regexp) (model.Field, bool) {
	if i := findLabel(lines, spec); i >= 0 {
		line := strings.TrimSpace(lines[i])
		var parts []string
		if rem := labelRemainder(line, spec); rem != "" {
			parts = append(parts, rem)
		}
		for _, next := range lines[i+1:] {
			t := strings.TrimSpace(next)
			if t == "" {
				continue
			}
			if classify.IsStopMarker(t) || boundary.MatchString(t) {
				break
			}
			parts = append(parts, t)
		}
		return model.Field{Name: spec.Name, Value: strings.Join(parts, "\n"), Line: i + 1}, true
	}
	return model.Field{Name: spec.Name}, false
}

// findLabel prefers a line that starts with the label over one that merely
// mentions it.
func findLabel(lines []string, spec FieldSpec) int {
	for i, l := range lines {
		if spec.StartsLine(l) {
			return i
		}
	}
	for i, l := range lines {
		if spec.Matches(l) {
			return i
		}
	}
	return -1
}

// JoinItems formats items one per line as "N<sep> content".
func JoinItems(items []model.Item, sep string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%d%s %s", it.Number, sep, it.Content)
	}
	return strings.Join(lines, "\n")
}

// IdentifyAll reports whether every pattern matches text.
func IdentifyAll(text string, patterns ...*regexp.Regexp) bool {
	for _, p := range patterns {
		if !p.MatchString(text) {
			return false
		}
	}
	return true
}

// BasicSection wraps fields in the basic information section.
func BasicSection(fields []model.Field) model.Section {
	if fields == nil {
		fields = []model.Field{}
	}
	return model.Section{Kind: model.SectionBasicInfo, Title: "基本信息", Fields: fields}
}

// ExtractFields runs ExtractField for every spec, keeping the fields whose
// label occurs in lines. Each spec's siblings are the other specs.
func ExtractFields(lines []string, specs []FieldSpec) []model.Field {
	var out []model.Field
	for _, spec := range specs {
		if f, ok := ExtractField(lines, spec, specs); ok {
			out = append(out, f)
		}
	}
	return out
}
