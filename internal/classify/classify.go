// Package classify recognises the line shapes shared by every lesson-plan dialect:
// stop markers, numbered items, bullet items, labels and durations.
package classify

import (
	"regexp"
	"strconv"
	"strings"
)

// BulletGlyphs lists the recognised bullet glyphs in match order.
var BulletGlyphs = []string{"￮", "•", "·", "-", "—", "○", "●", "▪", "▫", "→"}

var (
	stopMarker    = regexp.MustCompile(`示例图片|示例|图片`)
	numbered      = regexp.MustCompile(`^(\d+)([.。、．])\s*(.*)$`)
	durationLine  = regexp.MustCompile(`^([xX]|\d+)\s*分钟$`)
	durationInner = regexp.MustCompile(`(\d+|[xX])\s*分钟`)
)

// IsStopMarker reports whether line begins the example/illustration tail of a
// document. Nothing from that line on is parsed.
func IsStopMarker(line string) bool {
	return stopMarker.MatchString(line)
}

// StopIndex returns the index of the first stop-marker line, or len(lines).
func StopIndex(lines []string) int {
	for i, l := range lines {
		if IsStopMarker(l) {
			return i
		}
	}
	return len(lines)
}

// Numbered is a line of the form "N. content".
type Numbered struct {
	Number    int
	Separator string
	Content   string
}

// Prefix returns the marker as written, e.g. "1、".
func (n Numbered) Prefix() string {
	return strconv.Itoa(n.Number) + n.Separator
}

// MatchNumbered matches a numbered item with non-empty content.
func MatchNumbered(line string) (Numbered, bool) {
	m := numbered.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Numbered{}, false
	}
	content := strings.TrimSpace(m[3])
	if content == "" {
		return Numbered{}, false
	}
	n, _ := strconv.Atoi(m[1])
	return Numbered{Number: n, Separator: m[2], Content: content}, true
}

// IsBareNumber reports whether line is a number marker with nothing after it.
// Such lines are dropped rather than treated as free text.
func IsBareNumber(line string) bool {
	m := numbered.FindStringSubmatch(strings.TrimSpace(line))
	return m != nil && strings.TrimSpace(m[3]) == ""
}

// MatchBullet matches a line that starts with one of BulletGlyphs.
func MatchBullet(line string) (glyph, content string, ok bool) {
	line = strings.TrimSpace(line)
	for _, g := range BulletGlyphs {
		if strings.HasPrefix(line, g) {
			return g, strings.TrimSpace(strings.TrimPrefix(line, g)), true
		}
	}
	return "", "", false
}

// MatchPoint matches a numbered item first and a bullet second, returning the
// marker exactly as written.
func MatchPoint(line string) (prefix, content string, ok bool) {
	if n, ok := MatchNumbered(line); ok {
		return n.Prefix(), n.Content, true
	}
	return MatchBullet(line)
}

// LabelPattern builds a pattern matching label at line start, tolerating
// whitespace between its characters and an optional trailing colon.
func LabelPattern(label string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`^\s*`)
	for i, r := range []rune(label) {
		if i > 0 {
			b.WriteString(`\s*`)
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	b.WriteString(`\s*[：:]?`)
	return regexp.MustCompile(b.String())
}

// StripBullet removes one leading bullet glyph, if any.
func StripBullet(line string) string {
	if _, content, ok := MatchBullet(line); ok {
		return content
	}
	return strings.TrimSpace(line)
}

// IsDuration reports whether the whole line is a duration such as "10分钟" or "x分钟".
func IsDuration(line string) bool {
	return durationLine.MatchString(strings.TrimSpace(line))
}

// FindDuration returns the minutes (or "x") of the first duration in s.
func FindDuration(s string) (string, bool) {
	m := durationInner.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
