package event

import (
	"crypto/sha1"
	"fmt"
	"time"
)

// Event represents one class session extracted from a schedule
type Event struct {
	Date        time.Time `json:"date"`       // calendar day, midnight UTC
	StartTime   string    `json:"start_time"` // "H:MM" or "HH:MM"
	EndTime     string    `json:"end_time"`
	Description string    `json:"description"`
	Source      string    `json:"source,omitempty"` // cell or file the event was read from
}

// NewEvent creates an Event on the calendar day of date
func NewEvent(date time.Time, startTime, endTime, description, source string) Event {
	y, m, d := date.Date()
	return Event{
		Date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		StartTime:   startTime,
		EndTime:     endTime,
		Description: description,
		Source:      source,
	}
}

// GenerateID creates a deterministic ID for an event based on its content
func GenerateID(e Event) string {
	h := sha1.New()
	h.Write([]byte(e.DateString() + "|" + e.StartTime + "|" + e.EndTime + "|" + e.Description))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// DateString returns the event day as YYYY-MM-DD
func (e Event) DateString() string {
	return e.Date.Format("2006-01-02")
}

// Start combines the event day and start time in loc
func (e Event) Start(loc *time.Location) (time.Time, error) {
	return e.at(e.StartTime, loc)
}

// End combines the event day and end time in loc
func (e Event) End(loc *time.Location) (time.Time, error) {
	return e.at(e.EndTime, loc)
}

func (e Event) at(clock string, loc *time.Location) (time.Time, error) {
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := e.Date.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, loc), nil
}

// String is used in debug logs; newlines are flattened to tabs
func (e Event) String() string {
	return fmt.Sprintf("Event(date=%s, start=%s, end=%s, description=%s)",
		e.DateString(), e.StartTime, e.EndTime, flatten(e.Description))
}

func flatten(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == '\n' {
			out[i] = '\t'
		}
	}
	return string(out)
}
