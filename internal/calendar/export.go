package calendar

import (
	"fmt"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

// Writer persists a serialized calendar document
type Writer interface {
	WriteCalendar(base, tag, content string) (string, error)
}

// Document describes one generated calendar file
type Document struct {
	Tag    event.Tag `json:"tag,omitempty"` // empty for the document with every event
	Path   string    `json:"path,omitempty"`
	Events int       `json:"events"`
}

// Exporter writes the full calendar plus one calendar per category
type Exporter struct {
	writer     Writer
	base       string
	classifier *event.Classifier
	opts       Options
	dryRun     bool
}

// NewExporter creates an Exporter. A nil writer behaves like a dry run.
func NewExporter(w Writer, base string, classifier *event.Classifier, opts Options) *Exporter {
	if classifier == nil {
		classifier = event.DefaultClassifier()
	}
	return &Exporter{
		writer:     w,
		base:       base,
		classifier: classifier,
		opts:       opts.withDefaults(),
		dryRun:     w == nil,
	}
}

// SetDryRun disables writing; documents are still generated
func (x *Exporter) SetDryRun(dryRun bool) {
	x.dryRun = dryRun || x.writer == nil
}

// Export generates <base>.ics with every event, then <base>_<TAG>.ics for
// each tag observed in events. The partition is returned so callers can
// report category counts and diagnostics.
func (x *Exporter) Export(events []event.Event) ([]Document, *event.Partition, error) {
	docs := make([]Document, 0)

	all, err := x.write("", x.opts.Name, events)
	if err != nil {
		return nil, nil, err
	}
	docs = append(docs, all)

	partition := x.classifier.Partition(events)
	for _, tag := range partition.Tags {
		name := string(tag)
		if x.opts.Name != "" {
			name = x.opts.Name + " - " + name
		}
		doc, err := x.write(tag, name, partition.Groups[tag])
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, doc)
	}

	return docs, partition, nil
}

func (x *Exporter) write(tag event.Tag, name string, events []event.Event) (Document, error) {
	opts := x.opts
	opts.Name = name

	content, err := GenerateICS(events, opts)
	if err != nil {
		if tag == "" {
			return Document{}, fmt.Errorf("generating calendar: %w", err)
		}
		return Document{}, fmt.Errorf("generating %s calendar: %w", tag, err)
	}

	doc := Document{Tag: tag, Events: len(events)}
	if x.dryRun {
		return doc, nil
	}

	path, err := x.writer.WriteCalendar(x.base, string(tag), content)
	if err != nil {
		return Document{}, err
	}
	doc.Path = path
	return doc, nil
}
