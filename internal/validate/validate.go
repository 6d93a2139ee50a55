// Package validate checks a lesson plan against the format rules of its
// dialect and reports errors, which block a valid verdict, and warnings,
// which are informational.
package validate

import (
	"fmt"
	"strings"

	"github.com/roboco-io/lessonplan/internal/classify"
	"github.com/roboco-io/lessonplan/internal/logger"
	"github.com/roboco-io/lessonplan/internal/model"
	"github.com/roboco-io/lessonplan/internal/parser"
	"github.com/roboco-io/lessonplan/internal/render"
	"github.com/roboco-io/lessonplan/internal/template"
)

// Severity of an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue categories.
const (
	CategoryTemplate   = "template"
	CategoryBasicInfo  = "basic_info"
	CategorySegment    = "segment"
	CategoryTitle      = "segment_title"
	CategoryTime       = "time"
	CategoryMethod     = "method"
	CategoryDivision   = "division"
	CategoryGuidance   = "guidance"
	CategoryValidation = "validation"
	CategorySteps      = "teaching_steps"
	CategoryGame       = "game"
	CategoryProcess    = "process"
)

// Issue is one finding. Line is 1-based and zero when the issue has no
// single source line.
type Issue struct {
	Category    string   `json:"category" yaml:"category"`
	Field       string   `json:"field,omitempty" yaml:"field,omitempty"`
	Description string   `json:"description" yaml:"description"`
	Line        int      `json:"line,omitempty" yaml:"line,omitempty"`
	Content     string   `json:"content,omitempty" yaml:"content,omitempty"`
	Count       int      `json:"count,omitempty" yaml:"count,omitempty"`
	Severity    Severity `json:"severity" yaml:"severity"`
}

// Report is the outcome of validating one document.
type Report struct {
	TemplateID   model.DialectID `json:"templateId" yaml:"templateId"`
	TemplateName string          `json:"templateName" yaml:"templateName"`
	IsValid      bool            `json:"isValid" yaml:"isValid"`
	Errors       []Issue         `json:"errors" yaml:"errors"`
	Warnings     []Issue         `json:"warnings" yaml:"warnings"`
}

func newReport(id model.DialectID) *Report {
	return &Report{
		TemplateID:   id,
		TemplateName: template.Name(id),
		Errors:       []Issue{},
		Warnings:     []Issue{},
	}
}

func (r *Report) errorf(category, field string, line int, format string, args ...any) *Issue {
	r.Errors = append(r.Errors, Issue{
		Category:    category,
		Field:       field,
		Description: fmt.Sprintf(format, args...),
		Line:        line,
		Severity:    SeverityError,
	})
	return &r.Errors[len(r.Errors)-1]
}

func (r *Report) warnf(category, field string, line int, format string, args ...any) *Issue {
	r.Warnings = append(r.Warnings, Issue{
		Category:    category,
		Field:       field,
		Description: fmt.Sprintf(format, args...),
		Line:        line,
		Severity:    SeverityWarning,
	})
	return &r.Warnings[len(r.Warnings)-1]
}

func (r *Report) finish() *Report {
	r.IsValid = len(r.Errors) == 0
	return r
}

// Options controls a Validator.
type Options struct {
	Logger *logger.Logger
}

// Validator applies the dialect rule tables.
type Validator struct {
	log *logger.Logger
}

// New creates a Validator.
func New(opts Options) *Validator {
	return &Validator{log: logger.OrNop(opts.Logger)}
}

// Text validates plain text as the given dialect. An empty dialect is
// identified from the text.
func Text(text string, id model.DialectID) *Report {
	return New(Options{}).Text(text, id)
}

// Structure validates a structural model through its flattened text.
func Structure(s *model.Structure) *Report {
	return New(Options{}).Structure(s)
}

// Flatten re-serialises s to plain text with the layout it would be rendered
// in. Override text is reproduced verbatim.
func Flatten(s *model.Structure) string {
	return render.Render(s, render.Options{}).PlainText()
}

// Structure validates s as its own dialect.
func (v *Validator) Structure(s *model.Structure) *Report {
	return v.Text(Flatten(s), s.TemplateID)
}

// Text validates text as dialect id.
func (v *Validator) Text(text string, id model.DialectID) *Report {
	if id == "" {
		id = template.Identify(text).ID
	}
	id = model.DialectID(strings.ToUpper(string(id)))

	report := newReport(id)
	rules, ok := rulesFor(id)
	if !ok {
		report.errorf(CategoryTemplate, "", 0, "不支持的模板：%s", id)
		return report.finish()
	}

	res, err := template.ParseDocument(text, template.Options{Dialect: id, Logger: v.log})
	if err != nil {
		report.errorf(CategoryTemplate, "", 0, "文档内容为空")
		return report.finish()
	}

	lines := parser.Lines(text)
	c := &checker{
		report: report,
		rules:  rules,
		doc:    res.Structure,
		lines:  lines,
		stop:   classify.StopIndex(lines),
	}
	c.basicInfo()
	switch {
	case rules.Segments:
		c.segments()
	case rules.Steps:
		c.steps()
	case rules.Process:
		c.process()
	}

	v.log.Debug("validated plan", "dialect", id, "errors", len(report.Errors), "warnings", len(report.Warnings))
	return report.finish()
}

type checker struct {
	report *Report
	rules  Rules
	doc    *model.Structure
	lines  []string
	stop   int
}

func (c *checker) basicInfo() {
	for _, rule := range c.rules.Fields {
		f, ok := c.doc.Field(rule.Name)
		if !ok {
			if rule.Required {
				c.report.errorf(CategoryBasicInfo, rule.Name, 0, "缺少\"%s\"字段", rule.Name)
			} else {
				c.report.warnf(CategoryBasicInfo, rule.Name, 0, "缺少\"%s\"字段", rule.Name)
			}
			continue
		}
		if !HasRealContent(fieldText(f)) {
			c.report.warnf(CategoryBasicInfo, rule.Name, f.Line, "\"%s\"字段未填写内容（只有占位符）", rule.Name)
		}
	}
}

func fieldText(f *model.Field) string {
	if f.Override != nil {
		return *f.Override
	}
	if len(f.Items) > 0 {
		parts := make([]string, len(f.Items))
		for i, it := range f.Items {
			parts[i] = it.Content
		}
		return strings.Join(parts, "\n")
	}
	return f.Value
}

// excerpt trims s to at most 30 runes for issue content.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > 30 {
		return string(r[:30])
	}
	return s
}
