// Package ir defines the layout representation shared by the document reader,
// the renderer and the validator. The reader turns a .docx package into IR,
// the renderer turns a lesson-plan Structure into IR, and the writer turns IR
// back into a .docx package.
package ir

import "strings"

// Document is one word-processing document: core properties, run defaults
// and body blocks in order.
type Document struct {
	Version  string        `json:"version"`
	Metadata Metadata      `json:"metadata"`
	Style    DocumentStyle `json:"style"`
	Content  []Block       `json:"content"`
}

// Metadata mirrors docProps/core.xml.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Description string `json:"description,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Created     string `json:"created,omitempty"`
}

// DocumentStyle holds document-wide run defaults.
type DocumentStyle struct {
	Font     string `json:"font,omitempty"`
	FontSize int    `json:"font_size,omitempty"` // half-points
}

// BlockType tags a Block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
	BlockTypeImage     BlockType = "image"
)

// Block is a body element. Exactly one of the pointers matching Type is set.
type Block struct {
	Type      BlockType   `json:"type"`
	Paragraph *Paragraph  `json:"paragraph,omitempty"`
	Table     *TableBlock `json:"table,omitempty"`
	Image     *ImageBlock `json:"image,omitempty"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Version: "1.0"}
}

func (d *Document) add(b Block) { d.Content = append(d.Content, b) }

// AddParagraph appends p.
func (d *Document) AddParagraph(p *Paragraph) {
	d.add(Block{Type: BlockTypeParagraph, Paragraph: p})
}

// AddTable appends t.
func (d *Document) AddTable(t *TableBlock) { d.add(Block{Type: BlockTypeTable, Table: t}) }

// AddImage appends img.
func (d *Document) AddImage(img *ImageBlock) { d.add(Block{Type: BlockTypeImage, Image: img}) }

// Lines flattens the document to logical text lines: one per paragraph, and
// for tables one per row when every cell holds a single paragraph (cells
// joined by tabs), otherwise one per cell paragraph in reading order.
// Line breaks inside a paragraph start new lines.
func (d *Document) Lines() []string {
	var lines []string
	for _, b := range d.Content {
		switch b.Type {
		case BlockTypeParagraph:
			lines = append(lines, strings.Split(b.Paragraph.Text, "\n")...)
		case BlockTypeTable:
			lines = append(lines, b.Table.lines()...)
		}
	}
	return lines
}

// PlainText returns Lines joined with newlines.
func (d *Document) PlainText() string {
	return strings.Join(d.Lines(), "\n")
}

// Images returns the image blocks in document order.
func (d *Document) Images() []*ImageBlock {
	var out []*ImageBlock
	for _, b := range d.Content {
		if b.Type == BlockTypeImage {
			out = append(out, b.Image)
		}
	}
	return out
}
