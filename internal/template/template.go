// Package template identifies the dialect of a lesson plan and dispatches
// parsing to the matching dialect parser.
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
	"github.com/roboco-io/lessonplan/internal/parser/festival"
	"github.com/roboco-io/lessonplan/internal/parser/fitness"
	"github.com/roboco-io/lessonplan/internal/parser/nutrition"
	"github.com/roboco-io/lessonplan/internal/parser/picturebook"
	"github.com/roboco-io/lessonplan/internal/parser/theme"
)

var (
	// ErrUnknownDialect is returned when a forced dialect id is not supported.
	ErrUnknownDialect = errors.New("unknown dialect")
	// ErrEmptyText is returned when there is nothing to parse.
	ErrEmptyText = errors.New("empty document text")
)

// priority is the identification order. The last entry is also the fallback.
var priority = []parser.Parser{
	picturebook.New(),
	nutrition.New(),
	fitness.New(),
	theme.New(),
	festival.New(),
}

// Fallback is the dialect used when no identity predicate matches.
const Fallback = model.SY001

// Info describes a supported dialect.
type Info struct {
	ID   model.DialectID `json:"id"`
	Name string          `json:"name"`
}

// Identification is the outcome of Identify.
type Identification struct {
	Info
	// Fallback is set when no dialect matched and the default was chosen.
	Fallback bool `json:"fallback"`
}

// Result is the outcome of ParseDocument.
type Result struct {
	Structure *model.Structure `json:"structure"`
	Template  Info             `json:"template"`
	Fallback  bool             `json:"fallback"`
}

// Options controls ParseDocument.
type Options struct {
	// Dialect forces a dialect instead of identifying one.
	Dialect model.DialectID
	Logger  *logger.Logger
}

// Supported lists the dialects in identification order.
func Supported() []Info {
	out := make([]Info, len(priority))
	for i, p := range priority {
		out[i] = Info{ID: p.ID(), Name: p.Name()}
	}
	return out
}

// Lookup returns the parser for id.
func Lookup(id model.DialectID) (parser.Parser, error) {
	for _, p := range priority {
		if p.ID() == model.DialectID(strings.ToUpper(string(id))) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDialect, id)
}

// Name returns the display name of id, or id itself when unknown.
func Name(id model.DialectID) string {
	if p, err := Lookup(id); err == nil {
		return p.Name()
	}
	return string(id)
}

// Identify picks the first dialect, in priority order, whose identity
// predicate accepts text.
func Identify(text string) Identification {
	for _, p := range priority {
		if p.Identify(text) {
			return Identification{Info: Info{ID: p.ID(), Name: p.Name()}}
		}
	}
	p, _ := Lookup(Fallback)
	return Identification{Info: Info{ID: p.ID(), Name: p.Name()}, Fallback: true}
}

// ParseDocument identifies (or uses the forced) dialect and parses text.
func ParseDocument(text string, opts Options) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	log := logger.OrNop(opts.Logger)

	var (
		p        parser.Parser
		fallback bool
		err      error
	)
	if opts.Dialect != "" {
		p, err = Lookup(opts.Dialect)
		if err != nil {
			return nil, err
		}
	} else {
		id := Identify(text)
		fallback = id.Fallback
		p, _ = Lookup(id.ID)
		if fallback {
			log.Warn("no dialect matched, using fallback", "dialect", id.ID)
		}
	}

	doc, err := p.Parse(text, parser.Options{Logger: log.With("dialect", p.ID())})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.ID(), err)
	}
	return &Result{
		Structure: doc,
		Template:  Info{ID: p.ID(), Name: p.Name()},
		Fallback:  fallback,
	}, nil
}
