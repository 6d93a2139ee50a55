package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roboco-io/lessonplan/internal/docx"
	"github.com/roboco-io/lessonplan/internal/ir"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/template"
)

// source is one input document reduced to what the commands need.
type source struct {
	Path   string
	Text   string
	Markup string
	Images []*ir.ImageBlock
	// Dialect is recorded by documents this tool rendered.
	Dialect model.DialectID
}

// loadSource reads a .docx or .txt file. The content is sniffed so that a
// renamed legacy .doc still yields docx.ErrLegacyFormat.
func loadSource(path string) (*source, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("找不到文件: %s", path)
	}

	format := docx.DetectFormat(path)
	if format != docx.FormatText {
		sniffed, err := docx.DetectFormatFromFile(path)
		if err != nil {
			return nil, err
		}
		switch {
		case sniffed == docx.FormatDOC:
			return nil, docx.ErrLegacyFormat
		case sniffed == docx.FormatDOCX:
			format = docx.FormatDOCX
		case format == docx.FormatDOC:
			return nil, docx.ErrLegacyFormat
		default:
			return nil, fmt.Errorf("%w: %s", docx.ErrUnsupportedFormat, filepath.Ext(path))
		}
	}

	src := &source{Path: path}
	if format == docx.FormatText {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取文件失败: %w", err)
		}
		src.Text = norm.NFC.String(strings.TrimPrefix(string(data), "\ufeff"))
		return src, nil
	}

	r, err := docx.Open(path)
	if err != nil {
		return nil, err
	}
	doc, err := r.Parse()
	if err != nil {
		return nil, fmt.Errorf("文档解析失败: %w", err)
	}
	src.Text = norm.NFC.String(doc.PlainText())
	if src.Markup, err = r.RawMarkup(); err != nil {
		return nil, err
	}
	if src.Images, err = r.Images(); err != nil {
		return nil, err
	}
	if doc.Metadata.Creator == "lessonplan" {
		if _, err := template.Lookup(model.DialectID(doc.Metadata.Subject)); err == nil {
			src.Dialect = model.DialectID(doc.Metadata.Subject)
		}
	}
	log.Debug("source loaded", "path", path, "format", format, "chars", len(src.Text), "images", len(src.Images))
	return src, nil
}

// dialectFor picks the forced dialect: the flag wins over what a rendered
// document recorded about itself.
func (s *source) dialectFor(flag string) model.DialectID {
	if flag != "" {
		return model.DialectID(strings.ToUpper(flag))
	}
	return s.Dialect
}

// isStructureFile reports whether path holds a serialised Structure.
func isStructureFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// loadStructure reads a Structure written by the parse command.
func loadStructure(path string) (*model.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	var s model.Structure
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &s)
	} else {
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("结构文件解析失败: %w", err)
	}
	if _, err := template.Lookup(s.TemplateID); err != nil {
		return nil, err
	}
	return &s, nil
}

// encode serialises v as JSON or YAML.
func encode(v any, format string) ([]byte, error) {
	switch format {
	case "json", "":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("不支持的输出格式: %s", format)
	}
}

// writeOutput writes data to path, or to stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("文件保存失败: %w", err)
	}
	return nil
}
