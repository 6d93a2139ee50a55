// Package model defines the structural model of a parsed lesson plan.
// A Structure is produced by a dialect parser, edited through an Editor and
// consumed by the renderer and the validator.
package model

import "github.com/google/uuid"

// DialectID identifies one lesson-plan dialect.
type DialectID string

const (
	SY001 DialectID = "SY001" // 节庆活动方案
	SY002 DialectID = "SY002" // 体适能
	SY003 DialectID = "SY003" // 主题活动
	SY004 DialectID = "SY004" // 绘本剧
	SY005 DialectID = "SY005" // 食育
)

// SectionKind tags which payload a Section carries.
type SectionKind string

const (
	SectionBasicInfo     SectionKind = "basic_info"
	SectionSegments      SectionKind = "segments"
	SectionTeachingSteps SectionKind = "teaching_steps"
	SectionProcess       SectionKind = "process"
)

// Structure is the parsed form of one lesson plan.
type Structure struct {
	ID           string    `json:"id" yaml:"id"`
	TemplateID   DialectID `json:"templateId" yaml:"templateId"`
	TemplateName string    `json:"templateName" yaml:"templateName"`
	Sections     []Section `json:"sections" yaml:"sections"`
}

// Section is a tagged variant. Only the slice matching Kind is populated.
type Section struct {
	Kind     SectionKind `json:"type" yaml:"type"`
	Title    string      `json:"title" yaml:"title"`
	Fields   []Field     `json:"fields,omitempty" yaml:"fields,omitempty"`
	Segments []Segment   `json:"segments,omitempty" yaml:"segments,omitempty"`
	Steps    []Step      `json:"steps,omitempty" yaml:"steps,omitempty"`
	Phases   []Phase     `json:"phases,omitempty" yaml:"phases,omitempty"`
}

// Field is one labelled entry of the basic information section.
type Field struct {
	Name     string  `json:"name" yaml:"name"`
	Value    string  `json:"value" yaml:"value"`
	List     bool    `json:"list,omitempty" yaml:"list,omitempty"`
	Items    []Item  `json:"items,omitempty" yaml:"items,omitempty"`
	Override *string `json:"rawValue,omitempty" yaml:"rawValue,omitempty"`
	Line     int     `json:"line,omitempty" yaml:"line,omitempty"`
}

// Item is a numbered entry.
type Item struct {
	Number  int    `json:"number" yaml:"number"`
	Content string `json:"content" yaml:"content"`
}

// Segment is one numbered part of a flat procedure.
type Segment struct {
	Number   int          `json:"number" yaml:"number"`
	Title    string       `json:"title" yaml:"title"`
	Time     string       `json:"time" yaml:"time"`
	Line     int          `json:"line,omitempty" yaml:"line,omitempty"`
	Method   ListContent  `json:"method" yaml:"method"`
	Division *TextContent `json:"division,omitempty" yaml:"division,omitempty"`
	Guidance ListContent  `json:"guidance" yaml:"guidance"`
}

// Step is a top-level teaching step of a nested-activity plan.
type Step struct {
	Number int    `json:"number" yaml:"number"`
	Title  string `json:"title" yaml:"title"`
	Games  []Game `json:"games" yaml:"games"`
}

// Game is an activity inside a step. Closing sub-items carry Tag "a" or "b"
// instead of a number and hold guidance only.
type Game struct {
	Number   int     `json:"number,omitempty" yaml:"number,omitempty"`
	Tag      string  `json:"tag,omitempty" yaml:"tag,omitempty"`
	Title    string  `json:"title" yaml:"title"`
	Points   []Point `json:"points,omitempty" yaml:"points,omitempty"`
	Guidance string  `json:"guidance" yaml:"guidance"`
}

// IsClosing reports whether g is one of the lettered closing sub-items.
func (g Game) IsClosing() bool { return g.Tag != "" }

// Point is a bullet or numbered line inside a game. Prefix is kept verbatim.
type Point struct {
	Prefix  string `json:"prefix" yaml:"prefix"`
	Content string `json:"content" yaml:"content"`
}

// PhaseKind names a picture-book process phase.
type PhaseKind string

const (
	PhaseImport    PhaseKind = "import"
	PhaseReading   PhaseKind = "reading"
	PhaseExtension PhaseKind = "extension"
)

// Phase is one block of a phased process.
type Phase struct {
	Kind       PhaseKind     `json:"type" yaml:"type"`
	Title      string        `json:"title" yaml:"title"`
	Content    string        `json:"content,omitempty" yaml:"content,omitempty"`
	Readings   []ReadingItem `json:"items,omitempty" yaml:"items,omitempty"`
	Extensions []Extension   `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// ReadingItem is a titled reading activity.
type ReadingItem struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// Extension is a numbered extension approach with its own list.
type Extension struct {
	Number int         `json:"number" yaml:"number"`
	Title  string      `json:"title" yaml:"title"`
	List   ListContent `json:"list" yaml:"list"`
}

// New returns an empty structure for the dialect with a fresh identity.
func New(id DialectID, name string) *Structure {
	return &Structure{
		ID:           uuid.NewString(),
		TemplateID:   id,
		TemplateName: name,
		Sections:     make([]Section, 0, 2),
	}
}

// Section returns the first section of the given kind.
func (s *Structure) Section(kind SectionKind) (*Section, bool) {
	for i := range s.Sections {
		if s.Sections[i].Kind == kind {
			return &s.Sections[i], true
		}
	}
	return nil, false
}

// AddSection appends a section and returns a pointer to it.
func (s *Structure) AddSection(sec Section) *Section {
	s.Sections = append(s.Sections, sec)
	return &s.Sections[len(s.Sections)-1]
}

// Field returns the named field of the basic information section.
func (s *Structure) Field(name string) (*Field, bool) {
	sec, ok := s.Section(SectionBasicInfo)
	if !ok {
		return nil, false
	}
	for i := range sec.Fields {
		if sec.Fields[i].Name == name {
			return &sec.Fields[i], true
		}
	}
	return nil, false
}

// Content returns the list view of a list field.
func (f *Field) Content() ListContent {
	return ListContent{Items: f.Items, Override: f.Override}
}

// Clone returns a deep copy of s.
func (s *Structure) Clone() *Structure {
	out := *s
	out.Sections = make([]Section, len(s.Sections))
	for i, sec := range s.Sections {
		c := Section{Kind: sec.Kind, Title: sec.Title}
		if sec.Fields != nil {
			c.Fields = make([]Field, len(sec.Fields))
			for j, f := range sec.Fields {
				f.Items = cloneItems(f.Items)
				f.Override = cloneString(f.Override)
				c.Fields[j] = f
			}
		}
		if sec.Segments != nil {
			c.Segments = make([]Segment, len(sec.Segments))
			for j, seg := range sec.Segments {
				seg.Method = seg.Method.clone()
				seg.Guidance = seg.Guidance.clone()
				if seg.Division != nil {
					d := *seg.Division
					d.Override = cloneString(d.Override)
					seg.Division = &d
				}
				c.Segments[j] = seg
			}
		}
		if sec.Steps != nil {
			c.Steps = make([]Step, len(sec.Steps))
			for j, st := range sec.Steps {
				games := make([]Game, len(st.Games))
				for k, g := range st.Games {
					g.Points = append([]Point(nil), g.Points...)
					games[k] = g
				}
				st.Games = games
				c.Steps[j] = st
			}
		}
		if sec.Phases != nil {
			c.Phases = make([]Phase, len(sec.Phases))
			for j, ph := range sec.Phases {
				ph.Readings = append([]ReadingItem(nil), ph.Readings...)
				exts := make([]Extension, len(ph.Extensions))
				for k, e := range ph.Extensions {
					e.List = e.List.clone()
					exts[k] = e
				}
				if ph.Extensions == nil {
					exts = nil
				}
				ph.Extensions = exts
				c.Phases[j] = ph
			}
		}
		out.Sections[i] = c
	}
	return &out
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	return append([]Item(nil), items...)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
