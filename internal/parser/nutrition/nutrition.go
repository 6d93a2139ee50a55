// Package nutrition parses 食育 (SY005) lesson plans. The layout follows the
// fitness dialect; lists keep "." numbering and a material list without items
// falls back to a scalar value.
package nutrition

import (
	"regexp"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
)

const Name = "食育"

var (
	identity     = regexp.MustCompile(`食育|课程编号|课程目标|课程材料|教学步骤`)
	excluded     = regexp.MustCompile(`节\s*日|活动名称|绘本|体适能`)
	listBoundary = parser.Boundary("课程编号", "课程目标", "课程材料", "教学步骤")
)

var (
	CourseNumber = parser.Label("课程编号")
	Objectives   = parser.Label("课程目标")
	Materials    = parser.Label("课程材料")
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) ID() model.DialectID { return model.SY005 }

func (p *Parser) Name() string { return Name }

func (p *Parser) Identify(text string) bool {
	return identity.MatchString(text) && !excluded.MatchString(text)
}

func (p *Parser) Parse(text string, opts parser.Options) (*model.Structure, error) {
	log := logger.OrNop(opts.Logger)
	lines := parser.Lines(text)
	body := lines[:classify.StopIndex(lines)]
	specs := []parser.FieldSpec{CourseNumber, Objectives, Materials}
	sep := model.ListSeparator(model.SY005)

	var fields []model.Field
	if f, ok := parser.ExtractField(body, CourseNumber, specs); ok {
		fields = append(fields, f)
	}
	if f, ok := parser.ParseNumberedList(body, Objectives, listBoundary, sep); ok {
		fields = append(fields, f)
	}
	if f, ok := parser.ParseNumberedList(body, Materials, listBoundary, sep); ok && len(f.Items) > 0 {
		fields = append(fields, f)
	} else if f, ok := parser.ExtractField(body, Materials, specs); ok {
		log.Debug("material list has no items, using scalar value")
		fields = append(fields, f)
	}

	doc := model.New(model.SY005, Name)
	doc.AddSection(parser.BasicSection(fields))
	doc.AddSection(model.Section{
		Kind:  model.SectionTeachingSteps,
		Title: "教学步骤",
		Steps: parser.ScanSteps(body),
	})

	log.Debug("parsed nutrition plan", "fields", len(fields), "steps", len(doc.Sections[1].Steps))
	return doc, nil
}
