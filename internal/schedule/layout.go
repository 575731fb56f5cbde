package schedule

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

// Progression is a run of week blocks: First, First+height, ... (Count blocks)
type Progression struct {
	First int `yaml:"first" json:"first"`
	Count int `yaml:"count" json:"count"`
}

// Session is a half-day slot inside a week block
type Session struct {
	Name         string `yaml:"name" json:"name"`
	Offset       int    `yaml:"offset" json:"offset"` // rows below the block's first row
	DefaultStart string `yaml:"default_start" json:"default_start"`
	DefaultEnd   string `yaml:"default_end" json:"default_end"`
}

// Layout describes where week blocks and sessions live in the source grid.
// All coordinates are 1-indexed.
type Layout struct {
	AnchorColumn    int           `yaml:"anchor_column" json:"anchor_column"`
	BlockHeight     int           `yaml:"block_height" json:"block_height"`
	BlockStarts     []Progression `yaml:"block_starts" json:"block_starts"`
	FirstDayColumn  int           `yaml:"first_day_column" json:"first_day_column"`
	Days            int           `yaml:"days" json:"days"`
	ColumnsPerDay   int           `yaml:"columns_per_day" json:"columns_per_day"`
	Sessions        []Session     `yaml:"sessions" json:"sessions"`
	LinesPerSession int           `yaml:"lines_per_session" json:"lines_per_session"`
}

// DefaultLayout returns the layout of the reference schedule template:
// 9-row week blocks starting at rows 3..129 and 155..254, five days of two
// columns each in B..K, morning on the first row and afternoon four rows below.
func DefaultLayout() Layout {
	return Layout{
		AnchorColumn: 1,
		BlockHeight:  9,
		BlockStarts: []Progression{
			{First: 3, Count: 15},
			{First: 155, Count: 12},
		},
		FirstDayColumn: 2,
		Days:           5,
		ColumnsPerDay:  2,
		Sessions: []Session{
			{Name: "morning", Offset: 0, DefaultStart: "07:00", DefaultEnd: "13:00"},
			{Name: "afternoon", Offset: 4, DefaultStart: "13:00", DefaultEnd: "19:00"},
		},
		LinesPerSession: 4,
	}
}

// Validate checks that the layout describes a usable grid
func (l Layout) Validate() error {
	var errs []error
	if l.AnchorColumn < 1 {
		errs = append(errs, fmt.Errorf("anchor_column must be >= 1, got %d", l.AnchorColumn))
	}
	if l.BlockHeight < 1 {
		errs = append(errs, fmt.Errorf("block_height must be >= 1, got %d", l.BlockHeight))
	}
	if len(l.BlockStarts) == 0 {
		errs = append(errs, errors.New("block_starts must not be empty"))
	}
	for i, p := range l.BlockStarts {
		if p.First < 1 || p.Count < 0 {
			errs = append(errs, fmt.Errorf("block_starts[%d] invalid: first=%d count=%d", i, p.First, p.Count))
		}
	}
	if l.FirstDayColumn < 1 {
		errs = append(errs, fmt.Errorf("first_day_column must be >= 1, got %d", l.FirstDayColumn))
	}
	if l.Days < 1 || l.Days > 7 {
		errs = append(errs, fmt.Errorf("days must be between 1 and 7, got %d", l.Days))
	}
	if l.ColumnsPerDay < 1 {
		errs = append(errs, fmt.Errorf("columns_per_day must be >= 1, got %d", l.ColumnsPerDay))
	}
	if l.LinesPerSession < 1 {
		errs = append(errs, fmt.Errorf("lines_per_session must be >= 1, got %d", l.LinesPerSession))
	}
	if len(l.Sessions) == 0 {
		errs = append(errs, errors.New("sessions must not be empty"))
	}
	for _, s := range l.Sessions {
		if s.Offset < 0 {
			errs = append(errs, fmt.Errorf("session %q: offset must be >= 0", s.Name))
		}
		if _, err := event.NewTimeRange(s.DefaultStart, s.DefaultEnd); err != nil {
			errs = append(errs, fmt.Errorf("session %q default range: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// StartRows returns the first row of every week block: the union of all
// progressions in declaration order, without duplicates.
func (l Layout) StartRows() []int {
	rows := make([]int, 0)
	seen := make(map[int]bool)
	for _, p := range l.BlockStarts {
		for i := 0; i < p.Count; i++ {
			row := p.First + l.BlockHeight*i
			if seen[row] {
				continue
			}
			seen[row] = true
			rows = append(rows, row)
		}
	}
	return rows
}

// DayColumns returns the number of data columns in a block
func (l Layout) DayColumns() int {
	return l.Days * l.ColumnsPerDay
}

// DayOffset maps a data column to its weekday offset from the anchor
func (l Layout) DayOffset(col int) int {
	return (col - l.FirstDayColumn) / l.ColumnsPerDay
}
