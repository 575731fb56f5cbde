package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"02/01/2006",
	"2/1/2006",
}

// ParseDate parses an ISO date (2025-09-01) or a French numeric date
// (01/09/2025) into midnight UTC.
func ParseDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q. Use 2025-09-01 or 01/09/2025", input)
}

// ParseDateRange parses "FROM..TO" into inclusive bounds. Either side may be
// omitted ("2025-09-01.." or "..2025-12-19"); a single date selects that day.
func ParseDateRange(input string) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	left, right, isRange := strings.Cut(input, "..")
	if !isRange {
		d, err := ParseDate(input)
		if err != nil {
			return nil, nil, err
		}
		return &d, &d, nil
	}

	var from, to *time.Time
	if strings.TrimSpace(left) != "" {
		d, err := ParseDate(left)
		if err != nil {
			return nil, nil, err
		}
		from = &d
	}
	if strings.TrimSpace(right) != "" {
		d, err := ParseDate(right)
		if err != nil {
			return nil, nil, err
		}
		to = &d
	}

	if from == nil && to == nil {
		return nil, nil, fmt.Errorf("date range %q has no bounds", input)
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}

	return from, to, nil
}

// ParseCategories splits a comma separated list of tags, dropping blanks
// and duplicates.
func ParseCategories(input string) []event.Tag {
	tags := make([]event.Tag, 0)
	seen := make(map[string]bool)
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		key := strings.ToUpper(part)
		if part == "" || seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, event.Tag(part))
	}
	return tags
}
