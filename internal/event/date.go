package event

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/pfrederiksen/edt2ics/internal/grid"
)

// DefaultYear is the year schedule dates are normalized to
const DefaultYear = 2025

var (
	ErrUnsupportedAnchor = errors.New("unsupported week anchor value")
	ErrUnknownMonth      = errors.New("unknown month abbreviation")
	ErrInvalidDate       = errors.New("invalid date")
)

// frenchMonths maps French month abbreviations to month numbers.
// Keys are stored folded, without the abbreviation dot.
var frenchMonths = func() map[string]time.Month {
	table := map[string]time.Month{
		"janv.": time.January,
		"févr.": time.February,
		"mars":  time.March,
		"avr.":  time.April,
		"mai":   time.May,
		"juin":  time.June,
		"juil.": time.July,
		"août":  time.August,
		"sept.": time.September,
		"oct.":  time.October,
		"nov.":  time.November,
		"déc.":  time.December,
	}
	folded := make(map[string]time.Month, len(table))
	for k, v := range table {
		folded[foldMonth(k)] = v
	}
	return folded
}()

// foldMonth normalizes case and Unicode composition so that "Févr.", "févr"
// and a decomposed "févr." all resolve to the same key.
func foldMonth(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	s = cases.Fold().String(s)
	return strings.TrimSuffix(s, ".")
}

// ResolveWeekAnchor converts the anchor cell of a week block into a calendar day.
//
// Supported cell shapes are a date-time value, a date value, or text in
// YYYY-MM-DD form; anything else is ErrUnsupportedAnchor. When year > 0 the
// year component is replaced by year.
func ResolveWeekAnchor(v grid.Value, year int) (time.Time, error) {
	var d time.Time
	switch v.Kind {
	case grid.KindDate, grid.KindDateTime:
		d = v.Time
	case grid.KindText:
		t, err := time.Parse("2006-1-2", strings.TrimSpace(v.Text))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrUnsupportedAnchor, v.Text)
		}
		d = t
	default:
		return time.Time{}, fmt.Errorf("%w: empty cell", ErrUnsupportedAnchor)
	}

	y, m, day := d.Date()
	return ForceYear(time.Date(y, m, day, 0, 0, 0, 0, time.UTC), year)
}

// ForceYear replaces the year of d. A day that does not exist in the target
// year (29 February) is an error rather than a silent roll-over.
// A year <= 0 leaves d unchanged.
func ForceYear(d time.Time, year int) (time.Time, error) {
	if year <= 0 {
		return d, nil
	}
	return date(year, d.Month(), d.Day())
}

// ParseFrenchDate parses a "DD-<mois>" token such as "12-mars" or "3-févr."
func ParseFrenchDate(token string, year int) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(token), "-")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("%w: %q is not DD-mois", ErrInvalidDate, token)
	}

	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day in %q", ErrInvalidDate, token)
	}

	month, ok := frenchMonths[foldMonth(parts[1])]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownMonth, parts[1])
	}

	return date(year, month, day)
}

func date(year int, month time.Month, day int) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return t, nil
}
