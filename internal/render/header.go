package render

import (
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/roboco-io/lessonplan/internal/model"
)

// Header is the document number and author line printed above the body.
type Header struct {
	Number string `json:"number,omitempty"`
	Author string `json:"author,omitempty"`
}

// IsZero reports whether h has nothing to print.
func (h Header) IsZero() bool {
	return h.Number == "" && h.Author == ""
}

var (
	numberLine   = regexp.MustCompile(`^[A-Z]+\d+-.+`)
	authorLine   = regexp.MustCompile(`作\s*者\s*：`)
	markupNumber = regexp.MustCompile(`[A-Z]{2}\d{3}`)
	markupPara   = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	markupText   = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
)

const (
	numberScan = 5
	authorScan = 10
)

// FromText looks for a document number among the first five non-blank lines
// and an author line among the first ten.
func FromText(text string) Header {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	var h Header
	for i := 0; i < len(lines) && i < numberScan; i++ {
		if numberLine.MatchString(lines[i]) {
			h.Number = lines[i]
			break
		}
	}
	for i := 0; i < len(lines) && i < authorScan; i++ {
		if authorLine.MatchString(lines[i]) {
			h.Author = lines[i]
			break
		}
	}
	return h
}

// FromMarkup reads the paragraphs of document.xml that precede the first
// table: a paragraph holding a two-letter, three-digit code is the number and
// one mentioning 作者 is the author.
func FromMarkup(markup string) Header {
	if i := strings.Index(markup, "<w:tbl>"); i >= 0 {
		markup = markup[:i]
	}
	var h Header
	for _, para := range markupPara.FindAllString(markup, -1) {
		var b strings.Builder
		for _, m := range markupText.FindAllStringSubmatch(para, -1) {
			b.WriteString(m[1])
		}
		text := strings.TrimSpace(html.UnescapeString(b.String()))
		switch {
		case text == "":
		case markupNumber.MatchString(text):
			h.Number = text
		case strings.Contains(text, "作者"):
			h.Author = text
		}
	}
	return h
}

// Detect recovers the header for a dialect. The picture-book dialect reads
// raw markup when it is available; every other case reads plain text.
func Detect(id model.DialectID, text, markup string) Header {
	if id == model.SY004 && markup != "" {
		return FromMarkup(markup)
	}
	return FromText(text)
}

// FromFilename splits "NUMBER-NAME.docx" at the first dash. Without a dash the
// number is "-" and the whole base name is the name.
func FromFilename(name string) (number, title string) {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if i := strings.Index(base, "-"); i > 0 {
		number = strings.TrimSpace(base[:i])
		title = strings.TrimSpace(base[i+1:])
	}
	if number == "" {
		number = "-"
	}
	if title == "" {
		title = base
	}
	return number, title
}

// OutputName returns "<name>-<unix millis>.docx" for a source file name, or
// "edited-document-<unix millis>.docx" when there is no source name.
func OutputName(source string, now time.Time) string {
	ts := now.UnixMilli()
	if source == "" {
		return fmt.Sprintf("edited-document-%d.docx", ts)
	}
	_, title := FromFilename(source)
	return fmt.Sprintf("%s-%d.docx", title, ts)
}
