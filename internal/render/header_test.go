package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roboco-io/lessonplan/internal/model"
)

func TestFromText(t *testing.T) {
	text := "\n\nJQ001-春节写春联\n\n作  者：王老师\n节日\t春节"
	h := FromText(text)
	assert.Equal(t, "JQ001-春节写春联", h.Number)
	assert.Equal(t, "作  者：王老师", h.Author)
}

func TestFromText_ScanWindow(t *testing.T) {
	text := "a\nb\nc\nd\ne\nAB12-too-late\n作者：李老师"
	h := FromText(text)
	assert.Empty(t, h.Number)
	assert.Equal(t, "作者：李老师", h.Author)
	assert.True(t, Header{}.IsZero())
	assert.False(t, h.IsZero())
}

func TestFromMarkup(t *testing.T) {
	markup := `<w:body>` +
		`<w:p><w:r><w:t>HB</w:t></w:r><w:r><w:t xml:space="preserve">001 好饿的毛毛虫</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>作者：张&amp;王</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>作者：表格里</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`</w:body>`

	h := FromMarkup(markup)
	assert.Equal(t, "HB001 好饿的毛毛虫", h.Number)
	assert.Equal(t, "作者：张&王", h.Author)
}

func TestDetect(t *testing.T) {
	text := "JQ001-绘本\n作者：文本"
	markup := `<w:p><w:r><w:t>作者：标记</w:t></w:r></w:p>`

	assert.Equal(t, "作者：标记", Detect(model.SY004, text, markup).Author)
	assert.Equal(t, "作者：文本", Detect(model.SY004, text, "").Author)
	assert.Equal(t, "作者：文本", Detect(model.SY001, text, markup).Author)
}

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		number string
		title  string
	}{
		{"JQ001-春节.docx", "JQ001", "春节"},
		{"/tmp/in/TS003-平衡-进阶.docx", "TS003", "平衡-进阶"},
		{"无编号.docx", "-", "无编号"},
		{"-开头.docx", "-", "-开头"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, title := FromFilename(tt.name)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.title, title)
		})
	}
}

func TestOutputName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "春节-1700000000123.docx", OutputName("JQ001-春节.docx", now))
	assert.Equal(t, "edited-document-1700000000123.docx", OutputName("", now))
}
