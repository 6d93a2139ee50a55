package ir

// Paragraph is one w:p. Text always equals the concatenated
// run texts when runs are present.
type Paragraph struct {
	Text  string         `json:"text"`
	Runs  []Run          `json:"runs,omitempty"`
	Style ParagraphStyle `json:"style"`
}

// Run is one w:r.
type Run struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style,omitempty"`
}

// ParagraphStyle contains paragraph-level layout.
type ParagraphStyle struct {
	Alignment     string `json:"alignment,omitempty"`      // left, center, right, both
	SpacingBefore int    `json:"spacing_before,omitempty"` // twentieths of a point
	SpacingAfter  int    `json:"spacing_after,omitempty"`
}

// TextStyle contains character-level styling.
type TextStyle struct {
	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`
	Size      int  `json:"size,omitempty"` // half-points, 0 = document default
}

// NewParagraph returns a paragraph of unstyled text. The writer emits it as
// a single run.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{Text: text}
}

// NewBoldParagraph creates a paragraph holding one bold run.
func NewBoldParagraph(text string) *Paragraph {
	p := NewParagraph("")
	p.AddRun(text, TextStyle{Bold: true})
	return p
}

// AddRun appends a run and keeps Text in step.
func (p *Paragraph) AddRun(text string, style TextStyle) {
	p.Runs = append(p.Runs, Run{Text: text, Style: style})
	p.Text += text
}

// IsEmpty reports whether the paragraph holds no text.
func (p *Paragraph) IsEmpty() bool {
	return p.Text == ""
}
