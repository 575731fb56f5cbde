package grid

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Kind describes the shape of a cell value
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindDate     // calendar date without a meaningful time of day
	KindDateTime // date with a time of day
)

// Value is a single cell as read from a source sheet.
// Text always holds the displayed representation; Time is set for date kinds.
type Value struct {
	Kind Kind
	Text string
	Time time.Time
}

// Text returns a text cell value
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{Kind: KindText, Text: s}
}

// Date returns a pure date cell value
func Date(year int, month time.Month, day int) Value {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Value{Kind: KindDate, Text: t.Format("2006-01-02"), Time: t}
}

// DateTime returns a date-with-time cell value
func DateTime(t time.Time) Value {
	return Value{Kind: KindDateTime, Text: t.Format("2006-01-02 15:04:05"), Time: t}
}

// IsEmpty reports whether the cell carries nothing
func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// String returns the displayed text of the cell
func (v Value) String() string {
	return v.Text
}

// Grid is a read-only, 1-indexed view over a worksheet.
// Cells outside the populated area are empty.
type Grid interface {
	Cell(row, col int) Value
	// Rows returns the index of the last populated row.
	Rows() int
}

// Memory is an in-memory Grid, used by the HTML reader and in tests
type Memory struct {
	cells map[[2]int]Value
	rows  int
}

// NewMemory creates an empty in-memory grid
func NewMemory() *Memory {
	return &Memory{cells: make(map[[2]int]Value)}
}

// Set stores v at (row, col). Both coordinates are 1-indexed.
func (m *Memory) Set(row, col int, v Value) {
	if row < 1 || col < 1 {
		return
	}
	if v.IsEmpty() {
		delete(m.cells, [2]int{row, col})
		return
	}
	m.cells[[2]int{row, col}] = v
	if row > m.rows {
		m.rows = row
	}
}

// SetText is a shorthand for Set(row, col, Text(s))
func (m *Memory) SetText(row, col int, s string) {
	m.Set(row, col, Text(s))
}

// Cell implements Grid
func (m *Memory) Cell(row, col int) Value {
	return m.cells[[2]int{row, col}]
}

// Rows implements Grid
func (m *Memory) Rows() int {
	return m.rows
}

// CellName formats a 1-indexed coordinate the way spreadsheets do (B12)
func CellName(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Sprintf("R%dC%d", row, col)
	}
	return name
}
