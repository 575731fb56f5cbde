// Package filter narrows the exported events.
//
// A Filter combines an inclusive date window with a set of categories:
//
//	f := filter.NewFilter()
//	f.DateFrom, f.DateTo, _ = filter.ParseDateRange("2025-09-01..2025-10-31")
//	f.Categories = filter.ParseCategories("A1,IR")
//
//	kept := f.Apply(events, classifier)
//
// Events outside the window, or whose category is not listed, are dropped.
// An empty filter keeps everything.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

// Filter represents export filtering criteria
type Filter struct {
	// Inclusive calendar-day bounds, midnight UTC
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Categories to keep, compared case-insensitively with classifier tags
	Categories []event.Tag `json:"categories,omitempty"`
}

// NewFilter creates an empty filter that matches every event
func NewFilter() *Filter {
	return &Filter{Categories: []event.Tag{}}
}

// IsEmpty reports whether the filter has no active criteria
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.DateFrom == nil && f.DateTo == nil && len(f.Categories) == 0)
}

// Validate checks that the window is not inverted
func (f *Filter) Validate() error {
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return fmt.Errorf("date window starts %s after it ends %s",
			f.DateFrom.Format("2006-01-02"), f.DateTo.Format("2006-01-02"))
	}
	return nil
}

// MatchesDate reports whether the event day falls inside the window
func (f *Filter) MatchesDate(e event.Event) bool {
	if f.DateFrom != nil && e.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && e.Date.After(*f.DateTo) {
		return false
	}
	return true
}

// MatchesTag reports whether tag is one of the selected categories
func (f *Filter) MatchesTag(tag event.Tag) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if strings.EqualFold(string(c), string(tag)) {
			return true
		}
	}
	return false
}

// Matches checks the event against every active criterion. The classifier
// is only consulted when categories are selected.
func (f *Filter) Matches(e event.Event, c *event.Classifier) bool {
	if f.IsEmpty() {
		return true
	}
	if !f.MatchesDate(e) {
		return false
	}
	if len(f.Categories) > 0 {
		if c == nil {
			c = event.DefaultClassifier()
		}
		tag, _ := c.Classify(e.Description)
		return f.MatchesTag(tag)
	}
	return true
}

// Apply returns the matching events in their original order. An empty
// filter returns events unchanged.
func (f *Filter) Apply(events []event.Event, c *event.Classifier) []event.Event {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]event.Event, 0, len(events))
	for _, e := range events {
		if f.Matches(e, c) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "From: 2025-09-01 | To: 2025-10-31 | Categories: A1, IR"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, "From: "+f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		parts = append(parts, "To: "+f.DateTo.Format("2006-01-02"))
	}
	if len(f.Categories) > 0 {
		names := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			names[i] = string(c)
		}
		parts = append(parts, "Categories: "+strings.Join(names, ", "))
	}

	return strings.Join(parts, " | ")
}
