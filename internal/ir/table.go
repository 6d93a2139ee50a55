package ir

import "strings"

// VMerge is the vertical merge state of a cell.
type VMerge string

const (
	VMergeNone     VMerge = ""
	VMergeRestart  VMerge = "restart"
	VMergeContinue VMerge = "continue"
)

// TableBlock represents a table with a fixed column grid.
type TableBlock struct {
	Grid    []int        `json:"grid"` // column widths in DXA
	Rows    []Row        `json:"rows"`
	Borders TableBorders `json:"borders"`
	Margins CellMargins  `json:"margins"`
}

// TableBorders describes the table border lines.
type TableBorders struct {
	Color     string `json:"color,omitempty"`      // hex RGB
	OuterSize int    `json:"outer_size,omitempty"` // eighths of a point
	InnerSize int    `json:"inner_size,omitempty"`
}

// CellMargins are the default cell paddings in DXA.
type CellMargins struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Row is a table row.
type Row struct {
	Cells []Cell `json:"cells"`
}

// Cell represents a single cell in a table.
type Cell struct {
	Paragraphs []*Paragraph `json:"paragraphs"`
	Width      int          `json:"width,omitempty"`    // DXA
	ColSpan    int          `json:"col_span,omitempty"` // grid columns covered
	VMerge     VMerge       `json:"v_merge,omitempty"`
	VAlign     string       `json:"v_align,omitempty"` // top, center, bottom
}

// NewTable creates a table over the given column grid.
func NewTable(grid ...int) *TableBlock {
	return &TableBlock{
		Grid: grid,
		Rows: make([]Row, 0),
	}
}

// NewCell creates a one-column cell holding paragraphs.
func NewCell(width int, paragraphs ...*Paragraph) Cell {
	return Cell{Paragraphs: paragraphs, Width: width, ColSpan: 1}
}

// Span sets the number of grid columns the cell covers.
func (c Cell) Span(n int) Cell {
	c.ColSpan = n
	return c
}

// Merge sets the vertical merge state.
func (c Cell) Merge(m VMerge) Cell {
	c.VMerge = m
	return c
}

// AddRow appends a row built from cells.
func (t *TableBlock) AddRow(cells ...Cell) {
	t.Rows = append(t.Rows, Row{Cells: cells})
}

// Text returns the cell's paragraphs joined with newlines.
func (c Cell) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text
	}
	return strings.Join(parts, "\n")
}

func (t *TableBlock) lines() []string {
	var lines []string
	for _, row := range t.Rows {
		single := true
		for _, c := range row.Cells {
			if len(c.Paragraphs) > 1 || strings.Contains(c.Text(), "\n") {
				single = false
				break
			}
		}
		if single {
			cells := make([]string, len(row.Cells))
			for i, c := range row.Cells {
				cells[i] = c.Text()
			}
			lines = append(lines, strings.Join(cells, "\t"))
			continue
		}
		for _, c := range row.Cells {
			for _, p := range c.Paragraphs {
				lines = append(lines, strings.Split(p.Text, "\n")...)
			}
		}
	}
	return lines
}
