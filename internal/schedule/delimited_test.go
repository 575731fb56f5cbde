package schedule

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

func TestDelimited_ParseWeek(t *testing.T) {
	content := strings.Join([]string{
		"10-mars",
		"A1 Analyse 8h - 10h",
		"",
		"B2 TP\nSalle 12\n13h30 - 17h",
		"sans horaire",
		"C1 Algèbre 9h - 11h",
		"IR 8h - 9h",
		"IDG 10h - 12h",
		"A0 Anglais 8h - 9h\n",
	}, "\t")

	d := NewDelimited(2025, 5)
	res, err := d.ParseWeek("s1.txt", content)
	if err != nil {
		t.Fatalf("ParseWeek() error = %v", err)
	}

	want := []struct {
		date, start, end, prefix string
	}{
		{"2025-03-10", "8:00", "10:00", "A1"},
		{"2025-03-11", "13:30", "17:00", "B2"},
		{"2025-03-12", "9:00", "11:00", "C1"},
		{"2025-03-13", "8:00", "9:00", "IR"},
		{"2025-03-14", "10:00", "12:00", "IDG"},
		{"2025-03-10", "8:00", "9:00", "A0"}, // day counter wraps after five entries
	}
	if len(res.Events) != len(want) {
		t.Fatalf("got %d events, want %d", len(res.Events), len(want))
	}
	for i, w := range want {
		e := res.Events[i]
		if e.DateString() != w.date || e.StartTime != w.start || e.EndTime != w.end {
			t.Errorf("event %d = %s %s-%s, want %s %s-%s", i, e.DateString(), e.StartTime, e.EndTime, w.date, w.start, w.end)
		}
		if !strings.HasPrefix(e.Description, w.prefix) {
			t.Errorf("event %d description = %q, want prefix %q", i, e.Description, w.prefix)
		}
	}

	if got := res.Events[1].Description; got != "B2 TP\nSalle 12\n13h30 - 17h" {
		t.Errorf("multi-line entry = %q", got)
	}
	if got := res.Events[5].Description; got != "A0 Anglais 8h - 9h" {
		t.Errorf("entries should be trimmed, got %q", got)
	}
	if res.Events[0].Source != "s1.txt#1" {
		t.Errorf("source = %q, want s1.txt#1", res.Events[0].Source)
	}

	if len(res.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want 1", res.Diagnostics)
	}
	diag := res.Diagnostics[0]
	if diag.Kind != event.DiagMissingTimeRange || diag.Source != "s1.txt#4" {
		t.Errorf("diagnostic = %+v", diag)
	}
	if res.Weeks != 1 {
		t.Errorf("Weeks = %d, want 1", res.Weeks)
	}
}

func TestDelimited_ParseWeekInvertedRangeSkipped(t *testing.T) {
	d := NewDelimited(2025, 0)
	res, err := d.ParseWeek("s2.txt", "17-mars\tA1 12h - 10h\tA2 8h - 9h")
	if err != nil {
		t.Fatalf("ParseWeek() error = %v", err)
	}
	if len(res.Events) != 1 || res.Events[0].DateString() != "2025-03-17" {
		t.Fatalf("events = %v, want a single Monday event", res.Events)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Kind != event.DiagInvertedTimeRange {
		t.Errorf("diagnostics = %v", res.Diagnostics)
	}
}

func TestDelimited_ParseWeekUnknownMonth(t *testing.T) {
	d := NewDelimited(2025, 5)
	_, err := d.ParseWeek("s3.txt", "12-march\tA1 8h - 10h")
	if !errors.Is(err, event.ErrUnknownMonth) {
		t.Errorf("ParseWeek() error = %v, want ErrUnknownMonth", err)
	}
}

func TestFindWeekFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"s2.txt", "s10.txt", "s1.txt", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("1-janv."), 0600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := FindWeekFiles(dir, "")
	if err != nil {
		t.Fatalf("FindWeekFiles() error = %v", err)
	}

	want := []string{"s1.txt", "s10.txt", "s2.txt"}
	if len(files) != len(want) {
		t.Fatalf("FindWeekFiles() = %v, want %v", files, want)
	}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Errorf("files[%d] = %s, want %s", i, filepath.Base(files[i]), name)
		}
	}

	if _, err := FindWeekFiles(t.TempDir(), "s*.txt"); !errors.Is(err, ErrNoInputFiles) {
		t.Errorf("empty dir error = %v, want ErrNoInputFiles", err)
	}
}

func TestDelimited_ParseFiles(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"s1.txt": "3-févr.\tA1 8h - 10h\tB1 9h - 10h",
		"s2.txt": "10-févr.\tC1 8h - 10h",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := FindWeekFiles(dir, DefaultWeekFilePattern)
	if err != nil {
		t.Fatalf("FindWeekFiles() error = %v", err)
	}

	res, err := NewDelimited(2025, 5).ParseFiles(paths)
	if err != nil {
		t.Fatalf("ParseFiles() error = %v", err)
	}
	if res.Weeks != 2 {
		t.Errorf("Weeks = %d, want 2", res.Weeks)
	}

	got := make([]string, 0, len(res.Events))
	for _, e := range res.Events {
		got = append(got, e.DateString())
	}
	want := "2025-02-03 2025-02-04 2025-02-10"
	if strings.Join(got, " ") != want {
		t.Errorf("dates = %v, want %s", got, want)
	}
}

func TestDelimited_ParseFilesMissing(t *testing.T) {
	_, err := NewDelimited(2025, 5).ParseFiles([]string{filepath.Join(t.TempDir(), "s9.txt")})
	if err == nil {
		t.Error("expected error for a missing file")
	}
}
