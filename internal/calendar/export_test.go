package calendar

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/edt2ics/internal/event"
	"github.com/pfrederiksen/edt2ics/internal/storage"
)

type failingWriter struct{}

func (failingWriter) WriteCalendar(base, tag, content string) (string, error) {
	return "", errors.New("disk full")
}

func TestExporter_Export(t *testing.T) {
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	events := append(sampleEvents(),
		event.NewEvent(day(2025, 9, 4), "8:00", "10:00", "A1 Projet", "B11"),
		event.NewEvent(day(2025, 9, 4), "8:00", "10:00", "B0 Anglais", "D11"),
	)

	x := NewExporter(store, "EDT", nil, Options{Name: "EDT", Stamp: testStamp})
	docs, partition, err := x.Export(events)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := []struct {
		tag    event.Tag
		file   string
		events int
	}{
		{"", "EDT.ics", 5},
		{"A1", "EDT_A1.ics", 2},
		{event.TagIR, "EDT_IR.ics", 1},
		{event.TagOther, "EDT_OTHER.ics", 1},
		{event.TagTC, "EDT_TC.ics", 1},
	}
	if len(docs) != len(want) {
		t.Fatalf("got %d documents, want %d: %+v", len(docs), len(want), docs)
	}
	for i, w := range want {
		if docs[i].Tag != w.tag {
			t.Errorf("docs[%d].Tag = %q, want %q", i, docs[i].Tag, w.tag)
		}
		if filepath.Base(docs[i].Path) != w.file {
			t.Errorf("docs[%d].Path = %s, want %s", i, docs[i].Path, w.file)
		}
		if docs[i].Events != w.events {
			t.Errorf("docs[%d].Events = %d, want %d", i, docs[i].Events, w.events)
		}

		data, err := os.ReadFile(docs[i].Path)
		if err != nil {
			t.Fatalf("reading %s: %v", w.file, err)
		}
		if got := strings.Count(string(data), "BEGIN:VEVENT"); got != w.events {
			t.Errorf("%s has %d events, want %d", w.file, got, w.events)
		}
	}

	if partition.Len() != len(events) {
		t.Errorf("partition holds %d events, want %d", partition.Len(), len(events))
	}
	if len(partition.Diagnostics) != 1 {
		t.Errorf("expected one unknown category diagnostic, got %d", len(partition.Diagnostics))
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), "EDT_IR.ics"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "X-WR-CALNAME:EDT - IR") {
		t.Error("category calendar should be named after its tag")
	}
}

func TestExporter_DryRun(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.New(dir)
	if err != nil {
		t.Fatal(err)
	}

	x := NewExporter(store, "EDT", event.DefaultClassifier(), Options{Stamp: testStamp})
	x.SetDryRun(true)
	docs, _, err := x.Export(sampleEvents())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(docs) != 4 {
		t.Errorf("got %d documents, want 4", len(docs))
	}
	for _, d := range docs {
		if d.Path != "" {
			t.Errorf("dry run should not report a path, got %s", d.Path)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d files", len(entries))
	}
}

func TestExporter_NilWriter(t *testing.T) {
	x := NewExporter(nil, "EDT", nil, Options{Stamp: testStamp})
	x.SetDryRun(false)
	if _, _, err := x.Export(sampleEvents()); err != nil {
		t.Errorf("nil writer should behave like a dry run, got %v", err)
	}
}

func TestExporter_WriteError(t *testing.T) {
	x := NewExporter(failingWriter{}, "EDT", nil, Options{Stamp: testStamp})
	if _, _, err := x.Export(sampleEvents()); err == nil {
		t.Error("expected write error")
	}
}
