package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPath is returned when a path does not address a node of the structure.
var ErrInvalidPath = errors.New("invalid path")

// PathElem is one step of a Path: a key, optionally followed by an index.
type PathElem struct {
	Key   string
	Index int // -1 when the element has no index
}

// Path addresses a node inside a Structure, e.g.
// "sections.1.segments.0.method.items.2".
type Path []PathElem

// ParsePath parses a dotted path. Indices follow the collection key they select.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	parts := strings.Split(s, ".")
	var p Path
	for i := 0; i < len(parts); i++ {
		key := parts[i]
		if key == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
		if _, err := strconv.Atoi(key); err == nil {
			return nil, fmt.Errorf("%w: index without key in %q", ErrInvalidPath, s)
		}
		elem := PathElem{Key: key, Index: -1}
		if i+1 < len(parts) {
			if n, err := strconv.Atoi(parts[i+1]); err == nil {
				if n < 0 {
					return nil, fmt.Errorf("%w: negative index in %q", ErrInvalidPath, s)
				}
				elem.Index = n
				i++
			}
		}
		p = append(p, elem)
	}
	return p, nil
}

// String formats p back to dotted form.
func (p Path) String() string {
	var b strings.Builder
	for i, e := range p {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(e.Key)
		if e.Index >= 0 {
			b.WriteByte('.')
			b.WriteString(strconv.Itoa(e.Index))
		}
	}
	return b.String()
}

// target is the node a path resolved to. Exactly one pointer is set, plus
// attr when the path ends in an attribute name.
type target struct {
	section *Section
	field   *Field
	segment *Segment
	list    *ListContent
	text    *TextContent
	step    *Step
	game    *Game
	point   *Point
	phase   *Phase
	ext     *Extension
	reading *ReadingItem
	item    *Item
	attr    string
}

// Editor applies path-addressed edits to a structure it owns.
// Callers that need the original intact should pass a Clone.
type Editor struct {
	doc *Structure
}

// NewEditor returns an editor over doc.
func NewEditor(doc *Structure) *Editor {
	return &Editor{doc: doc}
}

// Structure returns the edited structure.
func (e *Editor) Structure() *Structure {
	return e.doc
}

func (e *Editor) resolve(path string) (*target, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	bad := func() error { return fmt.Errorf("%w: %s", ErrInvalidPath, path) }

	if p[0].Key != "sections" || p[0].Index < 0 || p[0].Index >= len(e.doc.Sections) {
		return nil, bad()
	}
	t := &target{section: &e.doc.Sections[p[0].Index]}

	for _, el := range p[1:] {
		switch {
		case el.Key == "fields" && t.section != nil && t.field == nil:
			if el.Index < 0 || el.Index >= len(t.section.Fields) {
				return nil, bad()
			}
			t.field = &t.section.Fields[el.Index]
		case el.Key == "segments" && t.section != nil && t.segment == nil:
			if el.Index < 0 || el.Index >= len(t.section.Segments) {
				return nil, bad()
			}
			t.segment = &t.section.Segments[el.Index]
		case el.Key == "steps" && t.section != nil && t.step == nil:
			if el.Index < 0 || el.Index >= len(t.section.Steps) {
				return nil, bad()
			}
			t.step = &t.section.Steps[el.Index]
		case el.Key == "games" && t.step != nil && t.game == nil:
			if el.Index < 0 || el.Index >= len(t.step.Games) {
				return nil, bad()
			}
			t.game = &t.step.Games[el.Index]
		case el.Key == "points" && t.game != nil && t.point == nil:
			if el.Index < 0 || el.Index >= len(t.game.Points) {
				return nil, bad()
			}
			t.point = &t.game.Points[el.Index]
		case el.Key == "phases" && t.section != nil && t.phase == nil:
			if el.Index < 0 || el.Index >= len(t.section.Phases) {
				return nil, bad()
			}
			t.phase = &t.section.Phases[el.Index]
		case el.Key == "extensions" && t.phase != nil && t.ext == nil:
			if el.Index < 0 || el.Index >= len(t.phase.Extensions) {
				return nil, bad()
			}
			t.ext = &t.phase.Extensions[el.Index]
		case el.Key == "readings" && t.phase != nil && t.reading == nil:
			if el.Index < 0 || el.Index >= len(t.phase.Readings) {
				return nil, bad()
			}
			t.reading = &t.phase.Readings[el.Index]
		case (el.Key == "method" || el.Key == "guidance") && t.segment != nil && t.list == nil && t.text == nil:
			if el.Key == "method" {
				t.list = &t.segment.Method
			} else {
				t.list = &t.segment.Guidance
			}
		case el.Key == "division" && t.segment != nil && t.list == nil && t.text == nil:
			if t.segment.Division == nil {
				return nil, bad()
			}
			t.text = t.segment.Division
		case el.Key == "list" && t.ext != nil && t.list == nil:
			t.list = &t.ext.List
		case el.Key == "items" && t.item == nil && el.Index >= 0:
			items := t.items()
			if items == nil || el.Index >= len(*items) {
				return nil, bad()
			}
			t.item = &(*items)[el.Index]
		case el.Index < 0 && t.attr == "":
			t.attr = el.Key
		default:
			return nil, bad()
		}
	}
	return t, nil
}

// items returns the item slice of the deepest list-like node.
func (t *target) items() *[]Item {
	switch {
	case t.list != nil:
		return &t.list.Items
	case t.field != nil:
		return &t.field.Items
	}
	return nil
}

// SetValue replaces a scalar at path: a field value, a division, an item's
// content, or a named attribute such as title, time, guidance or content.
func (e *Editor) SetValue(path, value string) error {
	t, err := e.resolve(path)
	if err != nil {
		return err
	}
	switch {
	case t.item != nil:
		t.item.Content = value
	case t.text != nil:
		t.text.Value = value
	case t.point != nil && (t.attr == "" || t.attr == "content"):
		t.point.Content = value
	case t.point != nil && t.attr == "prefix":
		t.point.Prefix = value
	case t.game != nil && t.attr == "title":
		t.game.Title = value
	case t.game != nil && t.attr == "guidance":
		t.game.Guidance = value
	case t.step != nil && t.attr == "title":
		t.step.Title = value
	case t.ext != nil && t.attr == "title":
		t.ext.Title = value
	case t.reading != nil && t.attr == "title":
		t.reading.Title = value
	case t.reading != nil && t.attr == "content":
		t.reading.Content = value
	case t.phase != nil && t.attr == "content":
		t.phase.Content = value
	case t.segment != nil && t.attr == "title":
		t.segment.Title = value
	case t.segment != nil && t.attr == "time":
		t.segment.Time = value
	case t.field != nil && (t.attr == "" || t.attr == "value"):
		t.field.Value = value
	default:
		return fmt.Errorf("%w: %s is not a scalar", ErrInvalidPath, path)
	}
	return nil
}

// SetOverride stores text typed by the user for the list or text at path.
// For lists the items are re-derived from the text as well.
func (e *Editor) SetOverride(path, text string) error {
	t, err := e.resolve(path)
	if err != nil {
		return err
	}
	if t.attr != "" || t.item != nil {
		return fmt.Errorf("%w: %s cannot hold an override", ErrInvalidPath, path)
	}
	v := text
	switch {
	case t.list != nil:
		t.list.Override = &v
		t.list.Items = ItemsFromText(text)
	case t.text != nil:
		t.text.Override = &v
	case t.field != nil:
		t.field.Override = &v
		if t.field.List {
			t.field.Items = ItemsFromText(text)
		} else {
			t.field.Value = text
		}
	default:
		return fmt.Errorf("%w: %s cannot hold an override", ErrInvalidPath, path)
	}
	return nil
}

// ClearOverride drops the override at path so rendering falls back to items.
func (e *Editor) ClearOverride(path string) error {
	t, err := e.resolve(path)
	if err != nil {
		return err
	}
	switch {
	case t.list != nil:
		t.list.Override = nil
	case t.text != nil:
		t.text.Override = nil
	case t.field != nil:
		t.field.Override = nil
	default:
		return fmt.Errorf("%w: %s cannot hold an override", ErrInvalidPath, path)
	}
	return nil
}

// InsertItem inserts an empty item at index at (clamped to the list bounds)
// and renumbers the list.
func (e *Editor) InsertItem(path string, at int) error {
	t, err := e.resolve(path)
	if err != nil {
		return err
	}
	items := t.items()
	if items == nil || t.item != nil {
		return fmt.Errorf("%w: %s is not a list", ErrInvalidPath, path)
	}
	if at < 0 {
		at = 0
	}
	if at > len(*items) {
		at = len(*items)
	}
	list := append((*items)[:at:at], Item{})
	list = append(list, (*items)[at:]...)
	*items = Renumber(list)
	return nil
}

// DeleteItem removes the item at index at. A list never becomes empty: the
// last deletion leaves a single placeholder item.
func (e *Editor) DeleteItem(path string, at int) error {
	t, err := e.resolve(path)
	if err != nil {
		return err
	}
	items := t.items()
	if items == nil || t.item != nil {
		return fmt.Errorf("%w: %s is not a list", ErrInvalidPath, path)
	}
	if at < 0 || at >= len(*items) {
		return fmt.Errorf("%w: item %d out of range", ErrInvalidPath, at)
	}
	list := append((*items)[:at:at], (*items)[at+1:]...)
	if len(list) == 0 {
		list = Placeholder()
	}
	*items = Renumber(list)
	return nil
}

// AddSegment appends a new segment with empty method and guidance items to
// the segments section at path. A division is created only for dialects that
// have one.
func (e *Editor) AddSegment(path string) (int, error) {
	t, err := e.resolve(path)
	if err != nil {
		return 0, err
	}
	if t.section == nil || t.section.Kind != SectionSegments || t.attr != "" || t.segment != nil {
		return 0, fmt.Errorf("%w: %s is not a segments section", ErrInvalidPath, path)
	}
	seg := Segment{
		Number:   len(t.section.Segments) + 1,
		Time:     "x",
		Method:   ListContent{Items: EmptyItems(3)},
		Guidance: ListContent{Items: EmptyItems(3)},
	}
	if HasDivision(e.doc.TemplateID) {
		seg.Division = &TextContent{}
	}
	t.section.Segments = append(t.section.Segments, seg)
	return len(t.section.Segments) - 1, nil
}

// DeleteSegment removes the segment at path and renumbers the rest.
func (e *Editor) DeleteSegment(path string) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	t, err := e.resolve(path)
	if err != nil {
		return err
	}
	if t.segment == nil || t.attr != "" || t.list != nil || t.text != nil {
		return fmt.Errorf("%w: %s is not a segment", ErrInvalidPath, path)
	}
	idx := p[len(p)-1].Index
	segs := t.section.Segments
	segs = append(segs[:idx:idx], segs[idx+1:]...)
	for i := range segs {
		segs[i].Number = i + 1
	}
	t.section.Segments = segs
	return nil
}

// AddStep appends a step with the given title to the steps section at path.
func (e *Editor) AddStep(path, title string) (int, error) {
	t, err := e.resolve(path)
	if err != nil {
		return 0, err
	}
	if t.section == nil || t.section.Kind != SectionTeachingSteps || t.step != nil || t.attr != "" {
		return 0, fmt.Errorf("%w: %s is not a steps section", ErrInvalidPath, path)
	}
	t.section.Steps = append(t.section.Steps, Step{
		Number: len(t.section.Steps) + 1,
		Title:  title,
		Games:  []Game{},
	})
	return len(t.section.Steps) - 1, nil
}

// AddGame appends a numbered game to the step at path.
func (e *Editor) AddGame(path, title string) (int, error) {
	t, err := e.resolve(path)
	if err != nil {
		return 0, err
	}
	if t.step == nil || t.game != nil || t.attr != "" {
		return 0, fmt.Errorf("%w: %s is not a step", ErrInvalidPath, path)
	}
	n := 0
	for _, g := range t.step.Games {
		if !g.IsClosing() && g.Number > n {
			n = g.Number
		}
	}
	t.step.Games = append(t.step.Games, Game{Number: n + 1, Title: title})
	return len(t.step.Games) - 1, nil
}

// AddPoint appends a point to the game at path.
func (e *Editor) AddPoint(path, prefix, content string) error {
	t, err := e.resolve(path)
	if err != nil {
		return err
	}
	if t.game == nil || t.point != nil || t.attr != "" {
		return fmt.Errorf("%w: %s is not a game", ErrInvalidPath, path)
	}
	if t.game.IsClosing() {
		return fmt.Errorf("%w: closing item %s holds guidance only", ErrInvalidPath, path)
	}
	t.game.Points = append(t.game.Points, Point{Prefix: prefix, Content: content})
	return nil
}

// HasDivision reports whether segments of the dialect carry a division sub-field.
func HasDivision(id DialectID) bool {
	return id == SY001
}

// ListSeparator is the marker written after item numbers in the dialect's
// numbered fields.
func ListSeparator(id DialectID) string {
	if id == SY002 {
		return "、"
	}
	return "."
}
