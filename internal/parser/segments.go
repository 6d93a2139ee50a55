package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/model"
)

// SegmentOptions configures the flat-procedure grammar.
type SegmentOptions struct {
	// Division enables the 主/助教分工 sub-field.
	Division bool
}

var segmentHeader = regexp.MustCompile(`环节(\d+)\s*[：:]`)

// collectTarget is the sub-field free lines are currently collected into.
type collectTarget int

const (
	targetNone collectTarget = iota
	targetMethod
	targetDivision
	targetGuidance
)

type segmentLabel struct {
	target  collectTarget
	pattern *regexp.Regexp
}

// segmentLabels are tried against a line with its bullet removed.
var segmentLabels = []segmentLabel{
	{targetMethod, regexp.MustCompile(`^操作方法\s*[：:]?`)},
	{targetDivision, regexp.MustCompile(`^主\s*/\s*助教分工\s*[：:]?`)},
	{targetGuidance, regexp.MustCompile(`^教师指导语\s*[：:]?`)},
}

type segmentBuilder struct {
	seg      model.Segment
	target   collectTarget
	division []string
}

func (b *segmentBuilder) add(line string, divisionEnabled bool) {
	switch b.target {
	case targetMethod:
		b.seg.Method.Items = appendItem(b.seg.Method.Items, line)
	case targetGuidance:
		b.seg.Guidance.Items = appendItem(b.seg.Guidance.Items, line)
	case targetDivision:
		if divisionEnabled {
			b.division = append(b.division, line)
		}
	}
}

func (b *segmentBuilder) finish(divisionEnabled bool) model.Segment {
	s := b.seg
	s.Method.Items = model.Renumber(s.Method.Items)
	s.Guidance.Items = model.Renumber(s.Guidance.Items)
	if divisionEnabled {
		s.Division = &model.TextContent{Value: strings.Join(b.division, "\n")}
	}
	return s
}

// appendItem adds a numbered line, or auto-numbers a plain one.
func appendItem(items []model.Item, line string) []model.Item {
	if n, ok := classify.MatchNumbered(line); ok {
		return append(items, model.Item{Content: n.Content})
	}
	return append(items, model.Item{Content: line})
}

// ScanSegments parses "环节N：" segments from lines, stopping at the first
// stop marker. Line numbers in the result are 1-based indexes into lines.
func ScanSegments(lines []string, opts SegmentOptions) []model.Segment {
	stop := classify.StopIndex(lines)
	segments := make([]model.Segment, 0)
	var cur *segmentBuilder

	flush := func() {
		if cur != nil {
			segments = append(segments, cur.finish(opts.Division))
			cur = nil
		}
	}

	for i := 0; i < stop; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		if loc := segmentHeader.FindStringSubmatchIndex(line); loc != nil {
			flush()
			cur = &segmentBuilder{seg: newSegment(lines, stop, i, line, loc)}
			continue
		}
		if cur == nil || classify.IsDuration(line) {
			continue
		}

		if target, rest, ok := matchSegmentLabel(line); ok {
			cur.target = target
			if rest != "" && !classify.IsBareNumber(rest) {
				cur.add(rest, opts.Division)
			}
			continue
		}
		if classify.IsBareNumber(line) {
			continue
		}
		cur.add(line, opts.Division)
	}
	flush()
	return segments
}

func matchSegmentLabel(line string) (collectTarget, string, bool) {
	stripped := classify.StripBullet(line)
	for _, l := range segmentLabels {
		if loc := l.pattern.FindStringIndex(stripped); loc != nil {
			return l.target, strings.TrimSpace(stripped[loc[1]:]), true
		}
	}
	return targetNone, "", false
}

// newSegment reads number, title and duration from a header line. The title
// runs to the next tab; the duration comes from the rest of the header line
// or one of the two lines after it.
func newSegment(lines []string, stop, i int, line string, loc []int) model.Segment {
	seg := model.Segment{Line: i + 1}
	seg.Number, _ = strconv.Atoi(line[loc[2]:loc[3]])

	rest := line[loc[1]:]
	title := rest
	if k := strings.IndexByte(title, '\t'); k >= 0 {
		title = title[:k]
	}
	title = strings.TrimSpace(title)
	if classify.IsDuration(title) {
		title = ""
	}
	seg.Title = title

	if d, ok := classify.FindDuration(rest); ok {
		seg.Time = d
		return seg
	}
	for j := i + 1; j < i+3 && j < stop; j++ {
		next := lines[j]
		if segmentHeader.MatchString(next) {
			break
		}
		if d, ok := classify.FindDuration(next); ok {
			seg.Time = d
			break
		}
	}
	return seg
}
