package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/edt2ics/internal/event"
	"github.com/pfrederiksen/edt2ics/internal/grid"
)

// ErrBlockOutsideGrid is returned when the layout places a week block below
// the last populated row of the grid
var ErrBlockOutsideGrid = errors.New("week block is outside the grid")

// Result is the output of a schedule walk
type Result struct {
	Events      []event.Event
	Diagnostics []event.Diagnostic
	Weeks       int
}

// Walker extracts events from a week-block grid
type Walker struct {
	layout   Layout
	year     int
	defaults []event.TimeRange // per session, same index as layout.Sessions
}

// NewWalker creates a Walker. year > 0 overrides the year of every anchor.
func NewWalker(layout Layout, year int) (*Walker, error) {
	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	defaults := make([]event.TimeRange, len(layout.Sessions))
	for i, s := range layout.Sessions {
		r, err := event.NewTimeRange(s.DefaultStart, s.DefaultEnd)
		if err != nil {
			return nil, fmt.Errorf("session %q: %w", s.Name, err)
		}
		defaults[i] = r
	}

	return &Walker{layout: layout, year: year, defaults: defaults}, nil
}

// Walk visits every week block, day column and session in that order and
// returns the events in visiting order. An unresolvable week anchor aborts
// the walk; per-cell anomalies are reported as diagnostics.
func (w *Walker) Walk(g grid.Grid) (*Result, error) {
	res := &Result{
		Events:      make([]event.Event, 0),
		Diagnostics: make([]event.Diagnostic, 0),
	}

	l := w.layout
	last := g.Rows()
	for _, row := range l.StartRows() {
		if row > last {
			return nil, fmt.Errorf("%w: block at row %d, last populated row is %d",
				ErrBlockOutsideGrid, row, last)
		}
		anchorCell := grid.CellName(row, l.AnchorColumn)
		monday, err := event.ResolveWeekAnchor(g.Cell(row, l.AnchorColumn), w.year)
		if err != nil {
			return nil, fmt.Errorf("week block at %s: %w", anchorCell, err)
		}
		res.Weeks++

		for col := l.FirstDayColumn; col < l.FirstDayColumn+l.DayColumns(); col++ {
			day := monday.AddDate(0, 0, l.DayOffset(col))

			for si, s := range l.Sessions {
				sessionRow := row + s.Offset
				text := w.sessionText(g, sessionRow, col)
				if text == "" {
					continue
				}

				source := grid.CellName(sessionRow, col)
				evt, diag := w.buildEvent(day, text, si, source)
				if diag != nil {
					res.Diagnostics = append(res.Diagnostics, *diag)
				}
				res.Events = append(res.Events, evt)
			}
		}
	}

	return res, nil
}

// sessionText joins the non-empty cells of a session's stacked lines
func (w *Walker) sessionText(g grid.Grid, row, col int) string {
	lines := make([]string, 0, w.layout.LinesPerSession)
	for i := 0; i < w.layout.LinesPerSession; i++ {
		v := g.Cell(row+i, col)
		if v.IsEmpty() {
			continue
		}
		lines = append(lines, v.String())
	}
	return strings.Join(lines, "\n")
}

// buildEvent extracts the time range from text. A missing, unparseable or
// inverted range is replaced by the session default and the description is
// marked as having unspecified hours.
func (w *Walker) buildEvent(day time.Time, text string, session int, source string) (event.Event, *event.Diagnostic) {
	r, diag := extractRange(text, source)
	description := text
	if diag != nil {
		r = w.defaults[session]
		description += event.MissingTimeMarker
		diag.Message += fmt.Sprintf(", using %s default %s", w.layout.Sessions[session].Name, r)
	}
	return event.NewEvent(day, r.Start(), r.End(), description, source), diag
}

// extractRange finds and validates the time range of an entry
func extractRange(text, source string) (event.TimeRange, *event.Diagnostic) {
	r, ok := event.ExtractTimeRange(text)
	if !ok {
		return r, &event.Diagnostic{
			Kind:        event.DiagMissingTimeRange,
			Source:      source,
			Message:     "no time range found",
			Description: text,
		}
	}

	if err := r.Validate(); err != nil {
		kind := event.DiagInvalidTimeRange
		if errors.Is(err, event.ErrInvertedRange) {
			kind = event.DiagInvertedTimeRange
		}
		return r, &event.Diagnostic{
			Kind:        kind,
			Source:      source,
			Message:     err.Error(),
			Description: text,
		}
	}

	return r, nil
}
