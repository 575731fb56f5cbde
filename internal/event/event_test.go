package event

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateID(t *testing.T) {
	day := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	a := NewEvent(day, "8:00", "10:30", "A1 Analyse", "B3")
	b := NewEvent(day, "8:00", "10:30", "A1 Analyse", "C7")
	c := NewEvent(day, "8:00", "10:30", "A2 Analyse", "B3")

	id1 := GenerateID(a)
	if id1 != GenerateID(a) {
		t.Error("GenerateID should be deterministic")
	}
	if len(id1) != 40 { // SHA1 produces 40 hex characters
		t.Errorf("expected ID length of 40, got %d", len(id1))
	}
	if id1 != GenerateID(b) {
		t.Error("source location should not change the ID")
	}
	if id1 == GenerateID(c) {
		t.Error("different descriptions should produce different IDs")
	}
}

func TestNewEvent(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	evt := NewEvent(time.Date(2025, time.March, 3, 17, 45, 0, 0, paris), "8:00", "10:30", "A1 Analyse", "B3")

	if evt.DateString() != "2025-03-03" {
		t.Errorf("DateString() = %q, want 2025-03-03", evt.DateString())
	}
	if evt.Date.Location() != time.UTC || evt.Date.Hour() != 0 {
		t.Errorf("Date should be midnight UTC, got %v", evt.Date)
	}

	start, err := evt.Start(paris)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if want := time.Date(2025, time.March, 3, 8, 0, 0, 0, paris); !start.Equal(want) {
		t.Errorf("Start() = %v, want %v", start, want)
	}

	end, err := evt.End(paris)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if end.Hour() != 10 || end.Minute() != 30 {
		t.Errorf("End() = %v, want 10:30", end)
	}
}

func TestEvent_StartInvalidClock(t *testing.T) {
	evt := NewEvent(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), "25:00", "26:00", "x", "")
	if _, err := evt.Start(nil); err == nil {
		t.Error("expected error for an invalid clock")
	}
}

func TestEvent_String(t *testing.T) {
	evt := NewEvent(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), "8:00", "10:00", "A1 Analyse\nAmphi 2", "")
	s := evt.String()
	if strings.Contains(s, "\n") {
		t.Errorf("String() should not contain newlines: %q", s)
	}
	if !strings.Contains(s, "A1 Analyse\tAmphi 2") {
		t.Errorf("String() = %q", s)
	}
}
