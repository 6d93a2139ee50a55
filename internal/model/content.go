package model

import (
	"regexp"
	"strings"
)

// ListContent is a numbered list that a user may override with free text.
type ListContent struct {
	Items    []Item  `json:"items" yaml:"items"`
	Override *string `json:"rawValue,omitempty" yaml:"rawValue,omitempty"`
}

// TextContent is a scalar value that a user may override with free text.
type TextContent struct {
	Value    string  `json:"value" yaml:"value"`
	Override *string `json:"rawValue,omitempty" yaml:"rawValue,omitempty"`
}

// Resolution is the render-time view of a list: either Derived or Overridden.
type Resolution interface {
	resolution()
}

// Derived is content built from structured items.
type Derived struct {
	Items []Item
}

// Overridden is content the user typed verbatim.
type Overridden struct {
	Text string
}

func (Derived) resolution()    {}
func (Overridden) resolution() {}

// Lines splits the override text into lines.
func (o Overridden) Lines() []string {
	return strings.Split(o.Text, "\n")
}

// Resolve picks the override when one is present, even when it is empty.
func (c ListContent) Resolve() Resolution {
	if c.Override != nil {
		return Overridden{Text: *c.Override}
	}
	return Derived{Items: c.Items}
}

// Resolve returns the effective text of c.
func (c TextContent) Resolve() string {
	if c.Override != nil {
		return *c.Override
	}
	return c.Value
}

// Renumber rewrites item numbers contiguously from 1.
func Renumber(items []Item) []Item {
	for i := range items {
		items[i].Number = i + 1
	}
	return items
}

// Placeholder is the single empty item a list holds after its last item is removed.
func Placeholder() []Item {
	return []Item{{Number: 1, Content: ""}}
}

// EmptyItems returns n empty, numbered items.
func EmptyItems(n int) []Item {
	items := make([]Item, n)
	return Renumber(items)
}

var numberedLine = regexp.MustCompile(`^\d+[.。、．]\s*`)

// ItemsFromText derives items from typed text: one item per non-blank line,
// with any leading number marker removed. An empty text yields the placeholder.
func ItemsFromText(text string) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, Item{Content: numberedLine.ReplaceAllString(line, "")})
	}
	if len(items) == 0 {
		return Placeholder()
	}
	return Renumber(items)
}

func (c ListContent) clone() ListContent {
	return ListContent{Items: cloneItems(c.Items), Override: cloneString(c.Override)}
}
