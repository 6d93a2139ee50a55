// Package fitness parses 体适能 (SY002) lesson plans: a course number, numbered
// objective and material lists, then teaching steps that contain games.
package fitness

import (
	"regexp"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
)

// Name is the display name of the dialect.
const Name = "体适能"

var (
	identity = regexp.MustCompile(`体适能|课程编号|课程目标|课程材料|教学步骤`)
	excluded = regexp.MustCompile(`节\s*日|活动名称|绘本|食育`)

	// listBoundary ends a numbered list field.
	listBoundary = parser.Boundary("课程编号", "课程目标", "课程材料", "教学步骤")
)

var (
	CourseNumber = parser.Label("课程编号")
	Objectives   = parser.Label("课程目标")
	Materials    = parser.Label("课程材料")
)

// Parser parses SY002 documents.
type Parser struct{}

// New creates a new SY002 parser.
func New() *Parser {
	return &Parser{}
}

func (p *Parser) ID() model.DialectID { return model.SY002 }

func (p *Parser) Name() string { return Name }

// Identify matches course keywords unless the text carries another
// dialect's marker.
func (p *Parser) Identify(text string) bool {
	return identity.MatchString(text) && !excluded.MatchString(text)
}

// Parse implements parser.Parser.
func (p *Parser) Parse(text string, opts parser.Options) (*model.Structure, error) {
	log := logger.OrNop(opts.Logger)
	lines := parser.Lines(text)
	body := lines[:classify.StopIndex(lines)]
	specs := []parser.FieldSpec{CourseNumber, Objectives, Materials}
	sep := model.ListSeparator(model.SY002)

	var fields []model.Field
	if f, ok := parser.ExtractField(body, CourseNumber, specs); ok {
		fields = append(fields, f)
	}
	for _, spec := range []parser.FieldSpec{Objectives, Materials} {
		if f, ok := parser.ParseNumberedList(body, spec, listBoundary, sep); ok {
			fields = append(fields, f)
		}
	}

	doc := model.New(model.SY002, Name)
	doc.AddSection(parser.BasicSection(fields))
	doc.AddSection(model.Section{
		Kind:  model.SectionTeachingSteps,
		Title: "教学步骤",
		Steps: parser.ScanSteps(body),
	})

	log.Debug("parsed fitness plan", "fields", len(fields), "steps", len(doc.Sections[1].Steps))
	return doc, nil
}
