package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/edt2ics/internal/pipeline"
	"github.com/pfrederiksen/edt2ics/internal/storage"
)

// OutputFormat specifies the summary format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteSummary writes the run report in the specified format
func WriteSummary(w io.Writer, report *pipeline.Report, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText:
		return writeText(w, report, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, report *pipeline.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func writeText(w io.Writer, report *pipeline.Report, verbose bool) error {
	fmt.Fprintf(w, "Read %d weeks from %s (%s)\n", report.Weeks, report.Input, report.Format)
	fmt.Fprintf(w, "Extracted %d events, exported %d\n", report.Extracted, report.Exported)

	if report.DryRun {
		fmt.Fprintln(w, "\nCalendars (dry run, nothing written):")
	} else {
		fmt.Fprintln(w, "\nCalendars:")
	}
	for _, doc := range report.Documents {
		name := storage.CalendarFileName(report.Base, string(doc.Tag))
		if doc.Path != "" {
			name = filepath.Base(doc.Path)
		}
		fmt.Fprintf(w, "  %-24s %4d %s\n", name, doc.Events, plural(doc.Events, "event"))
	}
	if report.ReportPath != "" {
		fmt.Fprintf(w, "\nReport: %s\n", report.ReportPath)
	}

	if verbose && len(report.Events) > 0 {
		fmt.Fprintln(w, "\nEvents:")
		for _, e := range report.Events {
			fmt.Fprintf(w, "  %s %5s-%-5s  %s\n", e.DateString(), e.StartTime, e.EndTime, oneLine(e.Description))
			fmt.Fprintf(w, "       Source: %s\n", e.Source)
		}
	}

	if n := report.Warnings(); n > 0 {
		fmt.Fprintf(w, "\nWarnings (%d):\n", n)
		for _, d := range report.Diagnostics {
			fmt.Fprintf(w, "  %-8s %-20s %s\n", d.Source, d.Kind, d.Message)
			if verbose && d.Description != "" {
				fmt.Fprintf(w, "           %s\n", oneLine(d.Description))
			}
		}
	}

	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// oneLine joins multi-line cell text for single-line display
func oneLine(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " / ")), " ")
}
