package schedule

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

// DefaultWeekFilePattern matches the weekly export files ("s12.txt")
const DefaultWeekFilePattern = "s*.txt"

// ErrNoInputFiles is returned when a week file pattern matches nothing
var ErrNoInputFiles = errors.New("no week files found")

// Delimited reads tab-separated weekly exports. Each file holds one week:
// the first field is a "DD-mois" token for Monday, every following
// non-empty field is one entry with an embedded time range.
type Delimited struct {
	Year        int
	DaysPerWeek int
}

// NewDelimited creates a reader; days <= 0 means a five-day week.
// Week files carry no year, so year <= 0 falls back to event.DefaultYear.
func NewDelimited(year, days int) *Delimited {
	if days <= 0 {
		days = 5
	}
	if year <= 0 {
		year = event.DefaultYear
	}
	return &Delimited{Year: year, DaysPerWeek: days}
}

// FindWeekFiles lists files in dir matching pattern, sorted by name so that
// repeated runs see the weeks in the same order.
func FindWeekFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultWeekFilePattern
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("listing week files: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInputFiles, filepath.Join(dir, pattern))
	}
	sort.Strings(matches)
	return matches, nil
}

// ParseFiles reads every file in order and concatenates their events
func (d *Delimited) ParseFiles(paths []string) (*Result, error) {
	res := &Result{
		Events:      make([]event.Event, 0),
		Diagnostics: make([]event.Diagnostic, 0),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading week file: %w", err)
		}

		week, err := d.ParseWeek(filepath.Base(path), string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res.Events = append(res.Events, week.Events...)
		res.Diagnostics = append(res.Diagnostics, week.Diagnostics...)
		res.Weeks += week.Weeks
	}

	return res, nil
}

// ParseWeek parses the content of one week file. name is only used to label
// event sources. Entries without a usable time range are skipped with a
// diagnostic and do not consume a weekday.
func (d *Delimited) ParseWeek(name, content string) (*Result, error) {
	fields := strings.Split(content, "\t")

	monday, err := event.ParseFrenchDate(fields[0], d.Year)
	if err != nil {
		return nil, fmt.Errorf("week date: %w", err)
	}

	res := &Result{
		Events:      make([]event.Event, 0),
		Diagnostics: make([]event.Diagnostic, 0),
		Weeks:       1,
	}

	day := 0
	for i := 1; i < len(fields); i++ {
		entry := strings.TrimSpace(fields[i])
		if entry == "" {
			continue
		}

		source := fmt.Sprintf("%s#%d", name, i)
		r, diag := extractRange(entry, source)
		if diag != nil {
			diag.Message += ", entry skipped"
			res.Diagnostics = append(res.Diagnostics, *diag)
			continue
		}

		res.Events = append(res.Events, event.NewEvent(monday.AddDate(0, 0, day), r.Start(), r.End(), entry, source))

		day++
		if day >= d.DaysPerWeek {
			day = 0
		}
	}

	return res, nil
}
