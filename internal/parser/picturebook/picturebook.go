// Package picturebook parses 绘本剧 (SY004) lesson plans: book details,
// objective and preparation lists, a synopsis and a three-phase process.
package picturebook

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
)

// Name is the display name of the dialect.
const Name = "绘本剧"

var identity = regexp.MustCompile(`绘本名称|课时|教学目标|教学准备|绘本简介|导入环节|精读环节|拓展环节`)

var (
	BookName    = parser.Label("绘本名称")
	Hours       = parser.Label("课时")
	Objectives  = parser.Label("教学目标")
	Preparation = parser.Label("教学准备")
	Synopsis    = parser.Label("绘本简介")
)

var (
	listBoundary = parser.Boundary("教学目标", "教学准备", "绘本简介", "导入环节", "精读环节", "拓展环节", "教学过程", "阅读测评")
	textBoundary = parser.Boundary("教学目标", "教学准备", "导入环节", "精读环节", "拓展环节", "教学过程", "阅读测评")
)

var (
	phaseHeader   = regexp.MustCompile(`^(?:教学过程\s*)?(导入环节|精读环节|拓展环节)`)
	sectionWords  = regexp.MustCompile(`导入环节|精读环节|拓展环节|教学过程|阅读测评`)
	readingTitle  = regexp.MustCompile(`^(\d+)\.|正文精读P(\d+)|观察封面|前环衬页|扉页介绍`)
	extensionLine = regexp.MustCompile(`拓展方式(\d+)\s*[：:]\s*(.*)`)
	extensionSkip = regexp.MustCompile(`拓展方式|阅读测评|教学过程|导入环节|精读环节`)
)

var phaseKinds = map[string]model.PhaseKind{
	"导入环节": model.PhaseImport,
	"精读环节": model.PhaseReading,
	"拓展环节": model.PhaseExtension,
}

// Parser parses SY004 documents.
type Parser struct{}

// New creates a new SY004 parser.
func New() *Parser {
	return &Parser{}
}

func (p *Parser) ID() model.DialectID { return model.SY004 }

func (p *Parser) Name() string { return Name }

func (p *Parser) Identify(text string) bool {
	return identity.MatchString(text)
}

// Parse implements parser.Parser.
func (p *Parser) Parse(text string, opts parser.Options) (*model.Structure, error) {
	log := logger.OrNop(opts.Logger)
	lines := parser.Lines(text)
	body := lines[:classify.StopIndex(lines)]
	specs := []parser.FieldSpec{BookName, Hours, Objectives, Preparation, Synopsis}
	sep := model.ListSeparator(model.SY004)

	var fields []model.Field
	for _, spec := range []parser.FieldSpec{BookName, Hours} {
		if f, ok := parser.ExtractField(body, spec, specs); ok {
			fields = append(fields, f)
		}
	}
	for _, spec := range []parser.FieldSpec{Objectives, Preparation} {
		if f, ok := parser.ParseNumberedList(body, spec, listBoundary, sep); ok {
			fields = append(fields, f)
		}
	}
	if f, ok := parser.ParseTextArea(body, Synopsis, textBoundary); ok {
		fields = append(fields, f)
	}

	doc := model.New(model.SY004, Name)
	doc.AddSection(parser.BasicSection(fields))
	doc.AddSection(model.Section{
		Kind:   model.SectionProcess,
		Title:  "教学过程",
		Phases: ScanProcess(body),
	})

	log.Debug("parsed picture-book plan", "fields", len(fields), "phases", len(doc.Sections[1].Phases))
	return doc, nil
}

// ScanProcess splits lines into import, reading and extension phases.
func ScanProcess(lines []string) []model.Phase {
	phases := make([]model.Phase, 0, 3)
	var cur *model.Phase

	flush := func() {
		if cur != nil {
			for i := range cur.Extensions {
				cur.Extensions[i].List.Items = model.Renumber(cur.Extensions[i].List.Items)
			}
			phases = append(phases, *cur)
			cur = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if classify.IsStopMarker(line) {
			break
		}
		if m := phaseHeader.FindStringSubmatch(line); m != nil {
			flush()
			cur = &model.Phase{Kind: phaseKinds[m[1]], Title: m[1]}
			continue
		}
		if cur == nil {
			continue
		}

		switch cur.Kind {
		case model.PhaseImport:
			if !sectionWords.MatchString(line) {
				cur.Content = appendLine(cur.Content, line)
			}
		case model.PhaseReading:
			if readingTitle.MatchString(line) {
				cur.Readings = append(cur.Readings, model.ReadingItem{Title: line})
			} else if n := len(cur.Readings); n > 0 && !sectionWords.MatchString(line) {
				cur.Readings[n-1].Content = appendLine(cur.Readings[n-1].Content, line)
			}
		case model.PhaseExtension:
			addExtensionLine(cur, line)
		}
	}
	flush()
	return phases
}

func addExtensionLine(ph *model.Phase, line string) {
	if m := extensionLine.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		ph.Extensions = append(ph.Extensions, model.Extension{
			Number: n,
			Title:  strings.TrimSpace(m[2]),
			List:   model.ListContent{Items: []model.Item{}},
		})
		return
	}
	if len(ph.Extensions) == 0 || classify.IsBareNumber(line) {
		return
	}
	ext := &ph.Extensions[len(ph.Extensions)-1]
	if num, ok := classify.MatchNumbered(line); ok {
		ext.List.Items = append(ext.List.Items, model.Item{Content: num.Content})
		return
	}
	if extensionSkip.MatchString(line) {
		return
	}
	if k := len(ext.List.Items); k > 0 {
		ext.List.Items[k-1].Content = appendLine(ext.List.Items[k-1].Content, line)
		return
	}
	ext.List.Items = append(ext.List.Items, model.Item{Content: line})
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	return s + "\n" + line
}
