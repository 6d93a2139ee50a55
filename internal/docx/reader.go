package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roboco-io/lessonplan/internal/ir"
)

const (
	partDocument = "word/document.xml"
	partDocRels  = "word/_rels/document.xml.rels"
	partCore     = "docProps/core.xml"
	mediaPrefix  = "word/media/"
)

// Reader reads a .docx package.
type Reader struct {
	zr   *zip.Reader
	rels map[string]string // relationship id -> part name
}

// Open opens the .docx file at path. Binary .doc files yield ErrLegacyFormat
// and anything else that is not a zip package yields ErrUnsupportedFormat.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return NewReader(data)
}

// NewReader reads a .docx package held in memory.
func NewReader(data []byte) (*Reader, error) {
	if err := formatError(DetectFormatFromBytes(data)); err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	r := &Reader{zr: zr, rels: make(map[string]string)}
	if r.file(partDocument) == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrUnsupportedFormat, partDocument)
	}
	if err := r.parseRelationships(); err != nil {
		return nil, err
	}
	return r, nil
}

// RawMarkup returns the main document part as XML text.
func (r *Reader) RawMarkup() (string, error) {
	data, err := r.readPart(partDocument)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PlainText returns the NFC-normalised text of the document body, flattened
// one line per paragraph or single-paragraph table row.
func (r *Reader) PlainText() (string, error) {
	doc, err := r.Parse()
	if err != nil {
		return "", err
	}
	return norm.NFC.String(doc.PlainText()), nil
}

// Parse reads the document body into IR.
func (r *Reader) Parse() (*ir.Document, error) {
	doc := ir.NewDocument()
	doc.Metadata = r.metadata()

	f := r.file(partDocument)
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", partDocument, err)
	}
	defer rc.Close()

	if err := r.parseBody(doc, xml.NewDecoder(rc)); err != nil {
		return nil, err
	}
	return doc, nil
}

// Images returns every media part in the package with its decoded size.
func (r *Reader) Images() ([]*ir.ImageBlock, error) {
	var images []*ir.ImageBlock
	for _, f := range r.zr.File {
		if !strings.HasPrefix(f.Name, mediaPrefix) {
			continue
		}
		data, err := r.readPart(f.Name)
		if err != nil {
			return nil, err
		}
		images = append(images, newImageBlock(path.Base(f.Name), f.Name, data))
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Path < images[j].Path })
	return images, nil
}

func newImageBlock(id, name string, data []byte) *ir.ImageBlock {
	img := ir.NewImage(id)
	img.Path = name
	img.OrigName = path.Base(name)
	img.Format = ir.FormatFromName(name)
	img.Data = data
	if w, h, format, ok := imageSize(data); ok {
		img.SetDimensions(w, h)
		img.Format = format
	}
	return img
}

func (r *Reader) file(name string) *zip.File {
	for _, f := range r.zr.File {
		if strings.EqualFold(f.Name, name) {
			return f
		}
	}
	return nil
}

func (r *Reader) readPart(name string) ([]byte, error) {
	f := r.file(name)
	if f == nil {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

type relationships struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func (r *Reader) parseRelationships() error {
	if r.file(partDocRels) == nil {
		return nil
	}
	data, err := r.readPart(partDocRels)
	if err != nil {
		return err
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return fmt.Errorf("failed to parse relationships: %w", err)
	}
	for _, rel := range rels.Items {
		target := strings.TrimPrefix(rel.Target, "/")
		if !strings.HasPrefix(target, "word/") {
			target = path.Join("word", target)
		}
		r.rels[rel.ID] = target
	}
	return nil
}

type coreProperties struct {
	Title       string `xml:"title"`
	Subject     string `xml:"subject"`
	Creator     string `xml:"creator"`
	Description string `xml:"description"`
	Created     string `xml:"created"`
}

func (r *Reader) metadata() ir.Metadata {
	data, err := r.readPart(partCore)
	if err != nil {
		return ir.Metadata{}
	}
	var core coreProperties
	if err := xml.Unmarshal(data, &core); err != nil {
		return ir.Metadata{}
	}
	return ir.Metadata{
		Title:       core.Title,
		Author:      core.Creator,
		Subject:     core.Subject,
		Description: core.Description,
		Creator:     core.Creator,
		Created:     core.Created,
	}
}

// skipped elements hold content that is either duplicated elsewhere or not
// part of the body flow.
var skipped = map[string]bool{
	"txbxContent": true,
	"Fallback":    true,
}

// tableContext tracks one open table; nested tables stack.
type tableContext struct {
	table *ir.TableBlock
	row   *ir.Row
	cell  *ir.Cell
}

type bodyState struct {
	doc     *ir.Document
	tables  []*tableContext
	para    *ir.Paragraph
	run     *ir.Run
	inPPr   bool
	inRPr   bool
	pending []*ir.ImageBlock
	skip    int // depth inside text boxes and fallback markup
}

func (s *bodyState) top() *tableContext {
	if len(s.tables) == 0 {
		return nil
	}
	return s.tables[len(s.tables)-1]
}

func (s *bodyState) write(text string) {
	switch {
	case s.run != nil:
		s.run.Text += text
	case s.para != nil:
		s.para.AddRun(text, ir.TextStyle{})
	}
}

// parseBody walks document.xml and builds paragraphs, tables and images.
func (r *Reader) parseBody(doc *ir.Document, decoder *xml.Decoder) error {
	s := &bodyState{doc: doc}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("XML parse error: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if skipped[t.Name.Local] {
				s.skip++
				continue
			}
			if s.skip > 0 {
				continue
			}
			switch t.Name.Local {
			case "p":
				s.para = ir.NewParagraph("")
			case "pPr":
				s.inPPr = true
			case "jc":
				if s.inPPr && s.para != nil {
					s.para.Style.Alignment = attr(t, "val")
				}
			case "r":
				if s.para != nil {
					s.run = &ir.Run{}
				}
			case "rPr":
				s.inRPr = true
			case "b":
				if s.inRPr && s.run != nil {
					s.run.Style.Bold = toggle(t)
				}
			case "i":
				if s.inRPr && s.run != nil {
					s.run.Style.Italic = toggle(t)
				}
			case "u":
				if s.inRPr && s.run != nil {
					s.run.Style.Underline = attr(t, "val") != "none"
				}
			case "t":
				text, _ := readElementText(decoder)
				s.write(text)
			case "tab":
				if !s.inPPr {
					s.write("\t")
				}
			case "br", "cr":
				if attr(t, "type") != "page" {
					s.write("\n")
				}
			case "blip":
				if target, ok := r.rels[attr(t, "embed")]; ok {
					if data, err := r.readPart(target); err == nil {
						s.pending = append(s.pending, newImageBlock(attr(t, "embed"), target, data))
					}
				}
			case "tbl":
				s.tables = append(s.tables, &tableContext{table: ir.NewTable()})
			case "gridCol":
				if ctx := s.top(); ctx != nil {
					ctx.table.Grid = append(ctx.table.Grid, atoi(attr(t, "w")))
				}
			case "tr":
				if ctx := s.top(); ctx != nil {
					ctx.row = &ir.Row{}
				}
			case "tc":
				if ctx := s.top(); ctx != nil {
					ctx.cell = &ir.Cell{ColSpan: 1}
				}
			case "tcW":
				if ctx := s.top(); ctx != nil && ctx.cell != nil {
					ctx.cell.Width = atoi(attr(t, "w"))
				}
			case "gridSpan":
				if ctx := s.top(); ctx != nil && ctx.cell != nil {
					if n := atoi(attr(t, "val")); n > 0 {
						ctx.cell.ColSpan = n
					}
				}
			case "vMerge":
				if ctx := s.top(); ctx != nil && ctx.cell != nil {
					if attr(t, "val") == "restart" {
						ctx.cell.VMerge = ir.VMergeRestart
					} else {
						ctx.cell.VMerge = ir.VMergeContinue
					}
				}
			case "vAlign":
				if ctx := s.top(); ctx != nil && ctx.cell != nil {
					ctx.cell.VAlign = attr(t, "val")
				}
			}

		case xml.EndElement:
			if skipped[t.Name.Local] {
				s.skip--
				continue
			}
			if s.skip > 0 {
				continue
			}
			switch t.Name.Local {
			case "pPr":
				s.inPPr = false
			case "rPr":
				s.inRPr = false
			case "r":
				if s.run != nil && s.para != nil && s.run.Text != "" {
					s.para.AddRun(s.run.Text, s.run.Style)
				}
				s.run = nil
			case "p":
				s.endParagraph()
			case "tc":
				if ctx := s.top(); ctx != nil && ctx.cell != nil && ctx.row != nil {
					ctx.row.Cells = append(ctx.row.Cells, *ctx.cell)
					ctx.cell = nil
				}
			case "tr":
				if ctx := s.top(); ctx != nil && ctx.row != nil {
					ctx.table.Rows = append(ctx.table.Rows, *ctx.row)
					ctx.row = nil
				}
			case "tbl":
				s.endTable()
			}
		}
	}

	return nil
}

func (s *bodyState) endParagraph() {
	p := s.para
	s.para = nil
	if p == nil {
		return
	}
	if ctx := s.top(); ctx != nil && ctx.cell != nil {
		ctx.cell.Paragraphs = append(ctx.cell.Paragraphs, p)
		s.pending = nil
		return
	}
	s.doc.AddParagraph(p)
	for _, img := range s.pending {
		s.doc.AddImage(img)
	}
	s.pending = nil
}

// endTable closes the innermost table. A nested table is folded into the
// enclosing cell as paragraphs.
func (s *bodyState) endTable() {
	if len(s.tables) == 0 {
		return
	}
	done := s.tables[len(s.tables)-1]
	s.tables = s.tables[:len(s.tables)-1]

	parent := s.top()
	if parent == nil {
		s.doc.AddTable(done.table)
		return
	}
	if parent.cell == nil {
		return
	}
	for _, row := range done.table.Rows {
		for _, c := range row.Cells {
			parent.cell.Paragraphs = append(parent.cell.Paragraphs, c.Paragraphs...)
		}
	}
}

// readElementText reads text content until the current element ends.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder

	for {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}

		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			return text.String(), nil
		}
	}
}

func attr(e xml.StartElement, local string) string {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// toggle reads an on/off property such as <w:b/> or <w:b w:val="0"/>.
func toggle(e xml.StartElement) bool {
	switch attr(e, "val") {
	case "0", "false", "off":
		return false
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
