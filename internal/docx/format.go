// Package docx reads and writes WordprocessingML (.docx) packages through the
// layout IR.
package docx

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/richardlehane/mscfb"
)

var (
	// ErrLegacyFormat is returned for binary Word 97-2003 (.doc) files.
	ErrLegacyFormat = errors.New("legacy .doc format is not supported; save the file as .docx")
	// ErrUnsupportedFormat is returned for anything that is not a .docx package.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Format represents a source document format.
type Format string

const (
	FormatDOCX    Format = "docx"
	FormatDOC     Format = "doc"
	FormatText    Format = "txt"
	FormatUnknown Format = "unknown"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFormat detects the file format from its extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return FormatDOCX
	case ".doc":
		return FormatDOC
	case ".txt", ".text":
		return FormatText
	default:
		return FormatUnknown
	}
}

// DetectFormatFromBytes detects the format from the leading bytes. Compound
// files are only reported as FormatDOC when they carry a WordDocument stream.
func DetectFormatFromBytes(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatDOCX
	case bytes.HasPrefix(data, oleMagic):
		if isWordBinary(bytes.NewReader(data)) {
			return FormatDOC
		}
	}
	return FormatUnknown
}

// DetectFormatFromFile sniffs the content of the file at path.
func DetectFormatFromFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	head := make([]byte, len(oleMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("failed to read file: %w", err)
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, zipMagic):
		return FormatDOCX, nil
	case bytes.HasPrefix(head, oleMagic):
		if isWordBinary(f) {
			return FormatDOC, nil
		}
	}
	return FormatUnknown, nil
}

// isWordBinary reports whether r is a compound file holding a Word binary
// document stream.
func isWordBinary(r io.ReaderAt) bool {
	doc, err := mscfb.New(r)
	if err != nil {
		return false
	}
	for _, entry := range doc.File {
		if entry.Name == "WordDocument" {
			return true
		}
	}
	return false
}

// formatError maps a sniffed format to the error reported for it.
func formatError(f Format) error {
	switch f {
	case FormatDOCX:
		return nil
	case FormatDOC:
		return ErrLegacyFormat
	default:
		return ErrUnsupportedFormat
	}
}
