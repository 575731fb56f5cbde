package event

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MissingTimeMarker is appended to a description whose time range had to be guessed
const MissingTimeMarker = "(HEURES NON SPECIFIEES)"

var (
	ErrInvalidClock  = errors.New("invalid time of day")
	ErrInvertedRange = errors.New("start time is not before end time")
)

// timeRangePattern matches "8h-10h", "8h30 - 10h", "14H/16H15", "9h 15 / 11h"
var timeRangePattern = regexp.MustCompile(`(\d{1,2})[hH]\s?(\d{1,2})?\s*[-/]\s*(\d{1,2})[hH]\s?(\d{1,2})?`)

// TimeRange is an interval as written in the source text.
// Hours are kept as found (no zero padding); empty minutes become "00".
type TimeRange struct {
	StartHour   string
	StartMinute string
	EndHour     string
	EndMinute   string
}

// ExtractTimeRange returns the first time range embedded in text
func ExtractTimeRange(text string) (TimeRange, bool) {
	m := timeRangePattern.FindStringSubmatch(text)
	if m == nil {
		return TimeRange{}, false
	}
	return TimeRange{
		StartHour:   m[1],
		StartMinute: orZero(m[2]),
		EndHour:     m[3],
		EndMinute:   orZero(m[4]),
	}, true
}

func orZero(s string) string {
	if s == "" {
		return "00"
	}
	return s
}

// NewTimeRange builds a range from two "HH:MM" clocks, e.g. session defaults
func NewTimeRange(start, end string) (TimeRange, error) {
	sh, sm, ok := strings.Cut(start, ":")
	if !ok {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidClock, start)
	}
	eh, em, ok := strings.Cut(end, ":")
	if !ok {
		return TimeRange{}, fmt.Errorf("%w: %q", ErrInvalidClock, end)
	}
	r := TimeRange{StartHour: sh, StartMinute: sm, EndHour: eh, EndMinute: em}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

// Start returns the start clock as "{hour}:{minute}"
func (r TimeRange) Start() string {
	return r.StartHour + ":" + r.StartMinute
}

// End returns the end clock as "{hour}:{minute}"
func (r TimeRange) End() string {
	return r.EndHour + ":" + r.EndMinute
}

// String formats the range as "8:00-10:30"
func (r TimeRange) String() string {
	return r.Start() + "-" + r.End()
}

// Validate checks that both ends are real clock times and start < end
func (r TimeRange) Validate() error {
	start, err := ParseClock(r.Start())
	if err != nil {
		return err
	}
	end, err := ParseClock(r.End())
	if err != nil {
		return err
	}
	if start.Minutes() >= end.Minutes() {
		return fmt.Errorf("%w: %s", ErrInvertedRange, r)
	}
	return nil
}

// Clock is a time of day
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "H:MM", "HH:MM" or "H:M"
func ParseClock(s string) (Clock, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hs) == 0 || len(hs) > 2 || len(ms) == 0 || len(ms) > 2 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(ms)
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// Minutes returns the number of minutes since midnight
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String formats the clock zero-padded ("08:05")
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
