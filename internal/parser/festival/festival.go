// Package festival parses 节庆活动方案 (SY001) lesson plans: basic information
// followed by numbered segments with method, division and guidance.
package festival

import (
	"regexp"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
)

// Name is the display name of the dialect.
const Name = "节庆活动方案"

var identity = regexp.MustCompile(`节\s*日|环节流程|环节\d+`)

// Fields are the basic information fields in document order.
var Fields = []parser.FieldSpec{
	parser.LabelPattern("节日", `节\s*日`),
	parser.Label("活动名称"),
	parser.LabelPattern("材料", `材\s*料`),
}

// Parser parses SY001 documents.
type Parser struct{}

// New creates a new SY001 parser.
func New() *Parser {
	return &Parser{}
}

func (p *Parser) ID() model.DialectID { return model.SY001 }

func (p *Parser) Name() string { return Name }

// Identify matches a festival keyword or any segment header.
func (p *Parser) Identify(text string) bool {
	return identity.MatchString(text)
}

// Parse implements parser.Parser.
func (p *Parser) Parse(text string, opts parser.Options) (*model.Structure, error) {
	log := logger.OrNop(opts.Logger)
	lines := parser.Lines(text)
	body := lines[:classify.StopIndex(lines)]

	doc := model.New(model.SY001, Name)
	doc.AddSection(parser.BasicSection(parser.ExtractFields(body, Fields)))
	doc.AddSection(model.Section{
		Kind:     model.SectionSegments,
		Title:    "环节流程",
		Segments: parser.ScanSegments(body, parser.SegmentOptions{Division: true}),
	})

	log.Debug("parsed festival plan", "fields", len(doc.Sections[0].Fields), "segments", len(doc.Sections[1].Segments))
	return doc, nil
}
