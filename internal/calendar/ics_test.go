package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

var (
	testStamp = time.Date(2024, 8, 30, 12, 0, 0, 0, time.UTC)
	cest      = time.FixedZone("CEST", 2*60*60)
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleEvents() []event.Event {
	return []event.Event{
		event.NewEvent(day(2025, 9, 2), "8:00", "10:00", "A1 Algo", "B3"),
		event.NewEvent(day(2025, 9, 2), "13:30", "15:30", "IR Reseaux", "C7"),
		event.NewEvent(day(2025, 9, 3), "7:00", "13:00", "Sport(HEURES NON SPECIFIEES)", "D3"),
	}
}

func TestGenerateICS(t *testing.T) {
	out, err := GenerateICS(sampleEvents(), Options{Name: "EDT", Location: cest, Stamp: testStamp})
	if err != nil {
		t.Fatalf("GenerateICS() error = %v", err)
	}

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + DefaultProductID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"X-WR-CALNAME:EDT",
		"BEGIN:VEVENT",
		"DTSTAMP:20240830T120000Z",
		"DTSTART:20250902T060000Z",
		"DTEND:20250902T080000Z",
		"SUMMARY:A1 Algo",
		"DTSTART:20250902T113000Z",
		"SUMMARY:Sport(HEURES NON SPECIFIEES)",
		"END:VEVENT",
		"END:VCALENDAR",
	}
	for _, field := range requiredFields {
		if !strings.Contains(out, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if !strings.Contains(out, "\r\n") {
		t.Error("ICS should use \\r\\n line endings")
	}
	if bare := strings.Count(out, "\n") - strings.Count(out, "\r\n"); bare != 0 {
		t.Errorf("ICS has %d bare \\n line endings", bare)
	}
	if got := strings.Count(out, "BEGIN:VEVENT"); got != 3 {
		t.Errorf("VEVENT count = %d, want 3", got)
	}
}

func TestGenerateICS_Deterministic(t *testing.T) {
	opts := Options{Location: cest, Stamp: testStamp}

	first, err := GenerateICS(sampleEvents(), opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := GenerateICS(sampleEvents(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("same events and stamp should serialize identically")
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	out, err := GenerateICS(nil, Options{Stamp: testStamp})
	if err != nil {
		t.Fatalf("GenerateICS() error = %v", err)
	}
	if !strings.Contains(out, "BEGIN:VCALENDAR") || !strings.Contains(out, "END:VCALENDAR") {
		t.Error("empty input should still produce a calendar")
	}
	if strings.Contains(out, "BEGIN:VEVENT") {
		t.Error("empty input should produce no events")
	}
}

func TestGenerateICS_InvalidClock(t *testing.T) {
	events := []event.Event{event.NewEvent(day(2025, 9, 2), "25:00", "26:00", "A1 Algo", "B3")}
	if _, err := GenerateICS(events, Options{Stamp: testStamp}); err == nil {
		t.Error("expected error for out-of-range clock")
	}
}

func TestGenerateICS_MultilineSummary(t *testing.T) {
	events := []event.Event{event.NewEvent(day(2025, 9, 2), "8:00", "10:00", "A1 Algo\nSalle 12", "B3")}
	out, err := GenerateICS(events, Options{Stamp: testStamp})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `SUMMARY:A1 Algo\nSalle 12`) {
		t.Errorf("newline in summary should be escaped, got:\n%s", out)
	}
}

func TestBuild_RoundTrip(t *testing.T) {
	out, err := GenerateICS(sampleEvents(), Options{Location: cest, Stamp: testStamp})
	if err != nil {
		t.Fatal(err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ParseCalendar() error = %v", err)
	}
	parsed := cal.Events()
	if len(parsed) != 3 {
		t.Fatalf("parsed %d events, want 3", len(parsed))
	}

	summary := parsed[1].GetProperty(ics.ComponentPropertySummary)
	if summary == nil || summary.Value != "IR Reseaux" {
		t.Errorf("second summary = %v, want IR Reseaux", summary)
	}
	start, err := parsed[1].GetStartAt()
	if err != nil {
		t.Fatalf("GetStartAt() error = %v", err)
	}
	want := time.Date(2025, 9, 2, 13, 30, 0, 0, cest)
	if !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
}

func TestBuild_DuplicateEventsGetDistinctUIDs(t *testing.T) {
	e := event.NewEvent(day(2025, 9, 2), "8:00", "10:00", "A1 Algo", "B3")
	cal, err := Build([]event.Event{e, e}, Options{Stamp: testStamp})
	if err != nil {
		t.Fatal(err)
	}

	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	first := events[0].GetProperty(ics.ComponentPropertyUniqueId)
	second := events[1].GetProperty(ics.ComponentPropertyUniqueId)
	if first == nil || second == nil {
		t.Fatal("events should carry a UID")
	}
	if first.Value == second.Value {
		t.Errorf("duplicate events share UID %s", first.Value)
	}
}

func TestEventUID(t *testing.T) {
	id := event.GenerateID(sampleEvents()[0])

	if eventUID(id, 1) != eventUID(id, 1) {
		t.Error("eventUID should be stable")
	}
	if eventUID(id, 1) == eventUID(id, 2) {
		t.Error("occurrences should produce different UIDs")
	}
	if !strings.HasSuffix(eventUID(id, 1), "@edt2ics") {
		t.Errorf("eventUID() = %s, want @edt2ics suffix", eventUID(id, 1))
	}
}
