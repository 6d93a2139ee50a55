package docx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/lessonplan/internal/ir"
)

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleDocument(t *testing.T) *ir.Document {
	doc := ir.NewDocument()
	doc.Metadata.Title = "春节 & 元宵"
	doc.Style = ir.DocumentStyle{Font: "微软雅黑", FontSize: 21}
	doc.AddParagraph(ir.NewBoldParagraph("节庆活动方案"))

	table := ir.NewTable(1515, 5737, 1028)
	table.Borders = ir.TableBorders{Color: "DEE0E3", OuterSize: 6, InnerSize: 3}
	table.Margins = ir.CellMargins{Top: 60, Bottom: 30, Left: 120, Right: 120}
	table.AddRow(ir.NewCell(1515, ir.NewBoldParagraph("节日")), ir.NewCell(6765, ir.NewParagraph("春节")).Span(2))
	table.AddRow(
		ir.NewCell(1515, ir.NewBoldParagraph("环节流程")).Merge(ir.VMergeRestart),
		ir.NewCell(5737, ir.NewBoldParagraph("环节1：学古诗")),
		ir.NewCell(1028, ir.NewParagraph("10分钟")),
	)
	table.AddRow(
		ir.NewCell(1515).Merge(ir.VMergeContinue),
		ir.NewCell(6765, ir.NewParagraph("• 操作方法："), ir.NewParagraph("1. 朗读<古诗>")).Span(2),
	)
	doc.AddTable(table)

	doc.AddParagraph(ir.NewParagraph("示例图片"))
	img := ir.NewImage("photo")
	img.Data = samplePNG(t, 20, 10)
	doc.AddImage(img)
	return doc
}

func TestWriteAndRead_RoundTrip(t *testing.T) {
	data, err := Bytes(sampleDocument(t))
	require.NoError(t, err)

	r, err := NewReader(data)
	require.NoError(t, err)

	text, err := r.PlainText()
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"节庆活动方案",
		"节日\t春节",
		"环节流程\t环节1：学古诗\t10分钟",
		"",
		"• 操作方法：",
		"1. 朗读<古诗>",
		"示例图片",
		"",
	}, "\n"), text)

	doc, err := r.Parse()
	require.NoError(t, err)
	assert.Equal(t, "春节 & 元宵", doc.Metadata.Title)

	var table *ir.TableBlock
	for _, b := range doc.Content {
		if b.Type == ir.BlockTypeTable {
			table = b.Table
		}
	}
	require.NotNil(t, table)
	assert.Equal(t, []int{1515, 5737, 1028}, table.Grid)
	assert.Equal(t, 2, table.Rows[0].Cells[1].ColSpan)
	assert.Equal(t, ir.VMergeRestart, table.Rows[1].Cells[0].VMerge)
	assert.Equal(t, ir.VMergeContinue, table.Rows[2].Cells[0].VMerge)
	assert.True(t, table.Rows[1].Cells[1].Paragraphs[0].Runs[0].Style.Bold)

	images := doc.Images()
	require.Len(t, images, 1)
	assert.Equal(t, 20, images[0].Width)
	assert.Equal(t, 10, images[0].Height)
	assert.Equal(t, "png", images[0].Format)
}

func TestWriter_PackageParts(t *testing.T) {
	data, err := Bytes(sampleDocument(t))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"word/document.xml",
		"word/styles.xml",
		"word/_rels/document.xml.rels",
		"word/media/image1.png",
	} {
		assert.True(t, names[want], "missing part %s", want)
	}

	r, err := NewReader(data)
	require.NoError(t, err)
	markup, err := r.RawMarkup()
	require.NoError(t, err)
	assert.Contains(t, markup, `w:color="DEE0E3"`)
	assert.Contains(t, markup, `<w:gridSpan w:val="2"/>`)
	assert.Contains(t, markup, `<w:top w:w="60" w:type="dxa"/>`)

	images, err := r.Images()
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "word/media/image1.png", images[0].Path)
}

func TestWriter_SkipsUnusableImages(t *testing.T) {
	doc := ir.NewDocument()
	doc.AddImage(ir.NewImage("empty"))
	broken := ir.NewImage("broken")
	broken.Data = []byte("not an image")
	doc.AddImage(broken)

	data, err := Bytes(doc)
	require.NoError(t, err)

	r, err := NewReader(data)
	require.NoError(t, err)
	images, err := r.Images()
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "plan.docx")
	require.NoError(t, WriteFile(path, sampleDocument(t)))

	r, err := Open(path)
	require.NoError(t, err)
	text, err := r.PlainText()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "节庆活动方案"))
}

func TestNewReader_Formats(t *testing.T) {
	_, err := NewReader([]byte("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	// A compound file header that mscfb cannot read is not a Word binary.
	ole := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...)
	_, err = NewReader(ole)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("hello.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = NewReader(buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"plan.docx": FormatDOCX,
		"PLAN.DOC":  FormatDOC,
		"plan.txt":  FormatText,
		"plan.pdf":  FormatUnknown,
	}
	for path, want := range tests {
		assert.Equal(t, want, DetectFormat(path), path)
	}
}

func TestDetectFormatFromFile(t *testing.T) {
	dir := t.TempDir()

	docxPath := filepath.Join(dir, "a.docx")
	require.NoError(t, WriteFile(docxPath, ir.NewDocument()))
	f, err := DetectFormatFromFile(docxPath)
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, f)

	txtPath := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("节日：春节"), 0644))
	f, err = DetectFormatFromFile(txtPath)
	require.NoError(t, err)
	assert.Equal(t, FormatUnknown, f)

	_, err = DetectFormatFromFile(filepath.Join(dir, "missing.docx"))
	assert.Error(t, err)
}

func TestExtent(t *testing.T) {
	cx, cy := extent(100, 50)
	assert.Equal(t, int64(100*emuPerPixel), cx)
	assert.Equal(t, int64(50*emuPerPixel), cy)

	cx, cy = extent(4000, 2000)
	assert.Equal(t, int64(maxImageWidth), cx)
	assert.Equal(t, int64(maxImageWidth/2), cy)
}
