// Package theme parses 主题活动 (SY003) lesson plans. Segments carry method and
// guidance but no division.
package theme

import (
	"regexp"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
)

const Name = "主题活动"

var (
	identity  = regexp.MustCompile(`课程名称|物资准备|注意事项|环节流程`)
	festivals = regexp.MustCompile(`节\s*日|活动名称`)
)

var Fields = []parser.FieldSpec{
	parser.Label("课程名称"),
	parser.Label("物资准备"),
	parser.Label("注意事项"),
}

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) ID() model.DialectID { return model.SY003 }

func (p *Parser) Name() string { return Name }

// Identify excludes texts with festival markers, which belong to SY001.
func (p *Parser) Identify(text string) bool {
	return identity.MatchString(text) && !festivals.MatchString(text)
}

func (p *Parser) Parse(text string, opts parser.Options) (*model.Structure, error) {
	log := logger.OrNop(opts.Logger)
	lines := parser.Lines(text)
	body := lines[:classify.StopIndex(lines)]

	doc := model.New(model.SY003, Name)
	doc.AddSection(parser.BasicSection(parser.ExtractFields(body, Fields)))
	doc.AddSection(model.Section{
		Kind:     model.SectionSegments,
		Title:    "环节流程",
		Segments: parser.ScanSegments(body, parser.SegmentOptions{}),
	})

	log.Debug("parsed theme plan", "segments", len(doc.Sections[1].Segments))
	return doc, nil
}
