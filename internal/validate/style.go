package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roboco-io/lessonplan/internal/parser"
)

// Style categories.
const (
	CategoryFormat      = "format"
	CategoryPunctuation = "punctuation"
	CategorySpace       = "space"
	CategorySpecial     = "special"
)

// maxBlankLines is the longest run of blank lines tolerated.
const maxBlankLines = 2

var (
	hanChar          = regexp.MustCompile(`\p{Han}`)
	leadingSpace     = regexp.MustCompile(`^[ \x{3000}]+`)
	mixedPunctuation = regexp.MustCompile(`[，。；：！？][a-zA-Z]|[a-zA-Z][，。；：！？]`)
	halfWidthBefore  = regexp.MustCompile(`[,!?;:]\p{Han}`)
	spaceBetweenHan  = regexp.MustCompile(`\p{Han} +\p{Han}`)
)

// Style runs dialect-independent typography checks over text. Every finding
// is a warning.
func Style(text string) []Issue {
	var issues []Issue
	warn := func(category string, line, count int, format string, args ...any) {
		issues = append(issues, Issue{
			Category:    category,
			Description: fmt.Sprintf(format, args...),
			Line:        line,
			Count:       count,
			Severity:    SeverityWarning,
		})
	}

	blank := 0
	for i, line := range parser.Lines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blank++
			if blank == maxBlankLines+1 {
				warn(CategoryFormat, i+1, 0, "第 %d 行附近存在过多空行", i+1)
			}
			continue
		}
		blank = 0

		if leadingSpace.MatchString(line) && hanChar.MatchString(trimmed) {
			warn(CategoryFormat, i+1, 0, "第 %d 行：中文段落行首不应有空格", i+1)
		}
	}

	if n := len(mixedPunctuation.FindAllString(text, -1)); n > 0 {
		warn(CategoryPunctuation, 0, n, "发现中英文标点混用情况")
	}
	if n := len(halfWidthBefore.FindAllString(text, -1)); n > 0 {
		warn(CategoryPunctuation, 0, n, "发现半角标点符号，建议使用全角标点")
	}
	if n := len(spaceBetweenHan.FindAllString(text, -1)); n > 0 {
		warn(CategorySpace, 0, n, "发现中文之间有空格，建议去除")
	}
	if strings.ContainsRune(text, '\u00a0') {
		warn(CategorySpecial, 0, 0, "发现不换行空格（&nbsp;），建议使用普通空格")
	}
	return issues
}
