// Package parser defines the dialect parser contract and the line-oriented
// extraction toolkit every dialect is assembled from.
package parser

import (
	"strings"

	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
)

// Parser turns the plain text of one lesson-plan dialect into a Structure.
type Parser interface {
	// ID returns the dialect identifier (e.g. "SY001").
	ID() model.DialectID

	// Name returns the dialect's display name.
	Name() string

	// Identify reports whether text looks like this dialect.
	Identify(text string) bool

	// Parse builds the structural model from text. Text after the first stop
	// marker never enters the model.
	Parse(text string, opts Options) (*model.Structure, error)
}

// Options contains options for parsing.
type Options struct {
	Logger *logger.Logger
}

// DefaultOptions returns the default parsing options.
func DefaultOptions() Options {
	return Options{Logger: logger.Nop()}
}

// Lines splits text into lines, normalising CRLF.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// NonEmpty returns the trimmed, non-blank lines.
func NonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
