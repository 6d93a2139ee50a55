package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/roboco-io/lessonplan/internal/ir"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	relStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relImage  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// media is an image part scheduled for the package.
type media struct {
	relID string
	name  string
	img   *ir.ImageBlock
}

// Writer serialises IR into a .docx package.
type Writer struct {
	doc    *ir.Document
	media  []media
	nextID int
}

// NewWriter prepares a writer for doc.
func NewWriter(doc *ir.Document) *Writer {
	return &Writer{doc: doc, nextID: 1}
}

// Bytes renders doc into a .docx package in memory.
func Bytes(doc *ir.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewWriter(doc).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders doc into a .docx file at path, creating parent
// directories as needed.
func WriteFile(path string, doc *ir.Document) error {
	data, err := Bytes(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// WriteTo writes the package to out.
func (w *Writer) WriteTo(out io.Writer) error {
	body := w.body()

	zw := zip.NewWriter(out)
	parts := []struct {
		name string
		data string
	}{
		{"[Content_Types].xml", w.contentTypes()},
		{"_rels/.rels", rootRels},
		{"docProps/core.xml", w.coreProperties()},
		{"word/_rels/document.xml.rels", w.documentRels()},
		{"word/styles.xml", w.styles()},
		{partDocument, body},
	}
	for _, p := range parts {
		if err := writePart(zw, p.name, []byte(p.data)); err != nil {
			return err
		}
	}
	for _, m := range w.media {
		if err := writePart(zw, "word/"+m.name, m.img.Data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish package: %w", err)
	}
	return nil
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

const rootRels = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

func (w *Writer) contentTypes() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	seen := make(map[string]bool)
	for _, m := range w.media {
		ext := strings.TrimPrefix(filepath.Ext(m.name), ".")
		if seen[ext] {
			continue
		}
		seen[ext] = true
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, ext, embeddable[m.img.Format])
	}
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func (w *Writer) coreProperties() string {
	md := w.doc.Metadata
	created := md.Created
	if created == "" {
		created = time.Now().UTC().Format(time.RFC3339)
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, escape(md.Title))
	fmt.Fprintf(&b, `<dc:subject>%s</dc:subject>`, escape(md.Subject))
	fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, escape(firstNonEmpty(md.Author, md.Creator)))
	fmt.Fprintf(&b, `<dc:description>%s</dc:description>`, escape(md.Description))
	fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, escape(created))
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

func (w *Writer) documentRels() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	fmt.Fprintf(&b, `<Relationship Id="rIdStyles" Type="%s" Target="styles.xml"/>`, relStyles)
	for _, m := range w.media {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, m.relID, relImage, m.name)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (w *Writer) styles() string {
	font := escape(w.doc.Style.Font)
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:styles xmlns:w="%s"><w:docDefaults><w:rPrDefault><w:rPr>`, nsW)
	if font != "" {
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:eastAsia="%s" w:cs="%s"/>`, font, font, font, font)
	}
	if w.doc.Style.FontSize > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, w.doc.Style.FontSize, w.doc.Style.FontSize)
	}
	b.WriteString(`<w:lang w:val="zh-CN" w:eastAsia="zh-CN"/></w:rPr></w:rPrDefault>`)
	b.WriteString(`<w:pPrDefault><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr></w:pPrDefault>`)
	b.WriteString(`</w:docDefaults>`)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>`)
	b.WriteString(`</w:styles>`)
	return b.String()
}

// body renders document.xml and collects the media parts it references.
func (w *Writer) body() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<w:document xmlns:w="%s" xmlns:r="%s" xmlns:wp="%s" xmlns:a="%s" xmlns:pic="%s"><w:body>`,
		nsW, nsR, nsWP, nsA, nsPic)

	last := ir.BlockTypeParagraph
	for _, block := range w.doc.Content {
		switch block.Type {
		case ir.BlockTypeParagraph:
			writeParagraph(&b, block.Paragraph)
		case ir.BlockTypeTable:
			writeTable(&b, block.Table)
		case ir.BlockTypeImage:
			if !w.writeImage(&b, block.Image) {
				continue
			}
		default:
			continue
		}
		last = block.Type
	}
	// A body must not end with a table.
	if last == ir.BlockTypeTable {
		b.WriteString(`<w:p/>`)
	}

	b.WriteString(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800" w:header="851" w:footer="992" w:gutter="0"/>` +
		`</w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func writeParagraph(b *strings.Builder, p *ir.Paragraph) {
	b.WriteString(`<w:p>`)
	st := p.Style
	if st.Alignment != "" || st.SpacingBefore > 0 || st.SpacingAfter > 0 {
		b.WriteString(`<w:pPr>`)
		if st.SpacingBefore > 0 || st.SpacingAfter > 0 {
			fmt.Fprintf(b, `<w:spacing w:before="%d" w:after="%d"/>`, st.SpacingBefore, st.SpacingAfter)
		}
		if st.Alignment != "" {
			fmt.Fprintf(b, `<w:jc w:val="%s"/>`, escape(st.Alignment))
		}
		b.WriteString(`</w:pPr>`)
	}
	if len(p.Runs) == 0 {
		writeRun(b, ir.Run{Text: p.Text})
	}
	for _, r := range p.Runs {
		writeRun(b, r)
	}
	b.WriteString(`</w:p>`)
}

func writeRun(b *strings.Builder, r ir.Run) {
	if r.Text == "" {
		return
	}
	b.WriteString(`<w:r>`)
	st := r.Style
	if st.Bold || st.Italic || st.Underline || st.Size > 0 {
		b.WriteString(`<w:rPr>`)
		if st.Bold {
			b.WriteString(`<w:b/><w:bCs/>`)
		}
		if st.Italic {
			b.WriteString(`<w:i/>`)
		}
		if st.Underline {
			b.WriteString(`<w:u w:val="single"/>`)
		}
		if st.Size > 0 {
			fmt.Fprintf(b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, st.Size, st.Size)
		}
		b.WriteString(`</w:rPr>`)
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.WriteString(`<w:br/>`)
		}
		for j, seg := range strings.Split(line, "\t") {
			if j > 0 {
				b.WriteString(`<w:tab/>`)
			}
			if seg != "" {
				fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escape(seg))
			}
		}
	}
	b.WriteString(`</w:r>`)
}

func writeTable(b *strings.Builder, t *ir.TableBlock) {
	total := 0
	for _, w := range t.Grid {
		total += w
	}

	b.WriteString(`<w:tbl><w:tblPr>`)
	fmt.Fprintf(b, `<w:tblW w:w="%d" w:type="dxa"/>`, total)
	if bd := t.Borders; bd.Color != "" {
		b.WriteString(`<w:tblBorders>`)
		for _, side := range []string{"top", "left", "bottom", "right"} {
			fmt.Fprintf(b, `<w:%s w:val="single" w:sz="%d" w:space="0" w:color="%s"/>`, side, bd.OuterSize, escape(bd.Color))
		}
		for _, side := range []string{"insideH", "insideV"} {
			fmt.Fprintf(b, `<w:%s w:val="single" w:sz="%d" w:space="0" w:color="%s"/>`, side, bd.InnerSize, escape(bd.Color))
		}
		b.WriteString(`</w:tblBorders>`)
	}
	b.WriteString(`<w:tblLayout w:type="fixed"/>`)
	if m := t.Margins; m != (ir.CellMargins{}) {
		fmt.Fprintf(b, `<w:tblCellMar><w:top w:w="%d" w:type="dxa"/><w:left w:w="%d" w:type="dxa"/>`+
			`<w:bottom w:w="%d" w:type="dxa"/><w:right w:w="%d" w:type="dxa"/></w:tblCellMar>`,
			m.Top, m.Left, m.Bottom, m.Right)
	}
	b.WriteString(`</w:tblPr><w:tblGrid>`)
	for _, w := range t.Grid {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, w)
	}
	b.WriteString(`</w:tblGrid>`)

	for _, row := range t.Rows {
		b.WriteString(`<w:tr>`)
		for _, c := range row.Cells {
			writeCell(b, c)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func writeCell(b *strings.Builder, c ir.Cell) {
	b.WriteString(`<w:tc><w:tcPr>`)
	if c.Width > 0 {
		fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="dxa"/>`, c.Width)
	}
	if c.ColSpan > 1 {
		fmt.Fprintf(b, `<w:gridSpan w:val="%d"/>`, c.ColSpan)
	}
	switch c.VMerge {
	case ir.VMergeRestart:
		b.WriteString(`<w:vMerge w:val="restart"/>`)
	case ir.VMergeContinue:
		b.WriteString(`<w:vMerge/>`)
	}
	if c.VAlign != "" {
		fmt.Fprintf(b, `<w:vAlign w:val="%s"/>`, escape(c.VAlign))
	}
	b.WriteString(`</w:tcPr>`)
	// Every cell needs at least one paragraph.
	if len(c.Paragraphs) == 0 {
		b.WriteString(`<w:p/>`)
	}
	for _, p := range c.Paragraphs {
		writeParagraph(b, p)
	}
	b.WriteString(`</w:tc>`)
}

// writeImage places an inline picture. Images without data or in a format
// Word cannot show are skipped.
func (w *Writer) writeImage(b *strings.Builder, img *ir.ImageBlock) bool {
	if !img.HasData() {
		return false
	}
	width, height, format, ok := imageSize(img.Data)
	if !ok {
		format = img.Format
		width, height = img.Width, img.Height
	}
	if !Embeddable(format) {
		return false
	}
	img.Format = format

	id := w.nextID
	w.nextID++
	m := media{
		relID: "rIdImage" + strconv.Itoa(id),
		name:  fmt.Sprintf("media/image%d.%s", id, extension(format)),
		img:   img,
	}
	w.media = append(w.media, m)

	cx, cy := extent(width, height)
	name := escape(firstNonEmpty(img.OrigName, fmt.Sprintf("image%d", id)))
	fmt.Fprintf(b, `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing>`+
		`<wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="%s" descr="%s"/>`+
		`<a:graphic><a:graphicData uri="%s"><pic:pic>`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, id, name, escape(img.Alt), nsPic, id, name, m.relID, cx, cy)
	return true
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
