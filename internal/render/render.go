// Package render lays out a lesson-plan Structure as a word-processing
// document. Each dialect is drawn with one of three strategies: a three-column
// table, free paragraphs, or the picture-book four-column table.
package render

import (
	"strconv"
	"strings"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/docx"
	"github.com/roboco-io/lessonplan/internal/ir"
	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
)

const (
	// DefaultFont is the run font of every rendered document.
	DefaultFont = "微软雅黑"
	// DefaultFontSize is 五号 (10.5pt) in half-points.
	DefaultFontSize = 21

	borderColor = "DEE0E3"
)

var cellMargins = ir.CellMargins{Top: 60, Bottom: 30, Left: 120, Right: 120}

// Options controls rendering.
type Options struct {
	// Dialect overrides the structure's own template id when set.
	Dialect model.DialectID
	// Header is printed above the body when non-empty.
	Header Header
	// Trailer holds source lines from the stop marker on; see Trailer.
	Trailer []string
	// Images are appended after the trailer.
	Images   []*ir.ImageBlock
	Font     string
	FontSize int
	Logger   *logger.Logger
}

// DefaultOptions returns the default render options.
func DefaultOptions() Options {
	return Options{
		Font:     DefaultFont,
		FontSize: DefaultFontSize,
		Logger:   logger.Nop(),
	}
}

// Strategy names a layout family.
type Strategy string

const (
	StrategyTabular    Strategy = "tabular"
	StrategyParagraph  Strategy = "paragraph"
	StrategyFourColumn Strategy = "four-column"
)

// StrategyFor returns the layout used for a dialect.
func StrategyFor(id model.DialectID) Strategy {
	switch id {
	case model.SY004:
		return StrategyFourColumn
	case model.SY002, model.SY005:
		return StrategyParagraph
	default:
		return StrategyTabular
	}
}

type renderer struct {
	doc *ir.Document
	id  model.DialectID
	sep string
	log *logger.Logger
}

// Render lays out s. Missing fields and sub-fields render as empty cells or
// paragraphs; Render never rejects a structure.
func Render(s *model.Structure, opts Options) *ir.Document {
	id := opts.Dialect
	if id == "" {
		id = s.TemplateID
	}
	if opts.Font == "" {
		opts.Font = DefaultFont
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}

	r := &renderer{
		doc: ir.NewDocument(),
		id:  id,
		sep: model.ListSeparator(id),
		log: logger.OrNop(opts.Logger),
	}
	r.doc.Style = ir.DocumentStyle{Font: opts.Font, FontSize: opts.FontSize}
	r.doc.Metadata = ir.Metadata{
		Title:   firstNonEmpty(opts.Header.Number, s.TemplateName),
		Subject: string(id),
		Creator: "lessonplan",
	}

	r.header(opts.Header)
	strategy := StrategyFor(id)
	switch strategy {
	case StrategyFourColumn:
		r.fourColumn(s)
	case StrategyParagraph:
		r.flow(s)
	default:
		r.tabular(s)
	}
	r.trailer(opts.Trailer, opts.Images)

	r.log.Debug("rendered structure", "dialect", id, "strategy", strategy, "blocks", len(r.doc.Content))
	return r.doc
}

// Bytes renders s straight to a .docx package.
func Bytes(s *model.Structure, opts Options) ([]byte, error) {
	return docx.Bytes(Render(s, opts))
}

// Trailer returns the non-blank source lines from the first stop marker on.
// The marker line itself is included so that re-parsing the rendered output
// stops at the same place.
func Trailer(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	var out []string
	for _, l := range lines[classify.StopIndex(lines):] {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func (r *renderer) header(h Header) {
	if h.Number != "" {
		p := ir.NewBoldParagraph(h.Number)
		p.Style.SpacingAfter = 200
		r.doc.AddParagraph(p)
	}
	if h.Author != "" {
		p := ir.NewParagraph(h.Author)
		p.Style.SpacingAfter = 400
		r.doc.AddParagraph(p)
	}
}

func (r *renderer) trailer(lines []string, images []*ir.ImageBlock) {
	for _, l := range lines {
		p := ir.NewParagraph(l)
		p.Style.SpacingAfter = 200
		r.doc.AddParagraph(p)
	}
	for _, img := range images {
		if img != nil && img.HasData() {
			r.doc.AddImage(img)
		}
	}
}

// fieldLines resolves a basic field: override text, else its items, else
// its scalar value.
func (r *renderer) fieldLines(f model.Field) []string {
	if f.Override != nil {
		return splitLines(*f.Override)
	}
	if len(f.Items) > 0 {
		return r.itemLines(f.Items)
	}
	return splitLines(f.Value)
}

// listLines resolves list content: override lines win over derived items.
func (r *renderer) listLines(c model.ListContent) []string {
	switch res := c.Resolve().(type) {
	case model.Overridden:
		return splitLines(res.Text)
	case model.Derived:
		return r.itemLines(res.Items)
	}
	return nil
}

func (r *renderer) itemLines(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, strings.TrimRight(strconv.Itoa(it.Number)+r.sep+" "+it.Content, " "))
	}
	return out
}

// splitLines returns the trimmed non-blank lines of s.
func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// paragraphs turns lines into plain paragraphs; no lines yields one empty
// paragraph.
func paragraphs(lines []string) []*ir.Paragraph {
	if len(lines) == 0 {
		return []*ir.Paragraph{ir.NewParagraph("")}
	}
	out := make([]*ir.Paragraph, len(lines))
	for i, l := range lines {
		out[i] = ir.NewParagraph(l)
	}
	return out
}

func centered(p *ir.Paragraph) *ir.Paragraph {
	p.Style.Alignment = "center"
	return p
}

func labelCell(width int, labels ...string) ir.Cell {
	ps := make([]*ir.Paragraph, len(labels))
	for i, l := range labels {
		ps[i] = centered(ir.NewBoldParagraph(l))
	}
	c := ir.NewCell(width, ps...)
	c.VAlign = "center"
	return c
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
