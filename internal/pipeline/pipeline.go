package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/edt2ics/internal/calendar"
	"github.com/pfrederiksen/edt2ics/internal/config"
	"github.com/pfrederiksen/edt2ics/internal/event"
	"github.com/pfrederiksen/edt2ics/internal/filter"
	"github.com/pfrederiksen/edt2ics/internal/grid"
	"github.com/pfrederiksen/edt2ics/internal/logger"
	"github.com/pfrederiksen/edt2ics/internal/schedule"
	"github.com/pfrederiksen/edt2ics/internal/storage"
)

// Options configures a single conversion run
type Options struct {
	Config *config.Config
	Filter *filter.Filter

	DryRun      bool      // generate documents without writing them
	WriteReport bool      // also write <base>_report.json
	Stamp       time.Time // DTSTAMP; zero means now

	Logger  *logger.Logger  // nil uses logger.Default()
	Metrics *logger.Metrics // nil uses a private tracker
}

// CategoryCount is the number of exported events in one category
type CategoryCount struct {
	Tag    event.Tag `json:"tag"`
	Events int       `json:"events"`
}

// Report summarizes a run
type Report struct {
	Input       string                 `json:"input"`
	Format      string                 `json:"format"`
	Base        string                 `json:"base"`
	DryRun      bool                   `json:"dry_run,omitempty"`
	Weeks       int                    `json:"weeks"`
	Extracted   int                    `json:"extracted"`
	Exported    int                    `json:"exported"`
	Categories  []CategoryCount        `json:"categories"`
	Documents   []calendar.Document    `json:"documents"`
	Diagnostics []event.Diagnostic     `json:"diagnostics"`
	Events      []event.Event          `json:"events,omitempty"`
	ReportPath  string                 `json:"report_path,omitempty"`
	Metrics     map[string]interface{} `json:"metrics,omitempty"`
}

// Warnings returns the number of diagnostics
func (r *Report) Warnings() int {
	return len(r.Diagnostics)
}

// Run reads the configured input, extracts events, and exports the calendars
func Run(opts Options) (*Report, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = logger.NewMetrics()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Input == "" {
		return nil, fmt.Errorf("no input given")
	}
	if !opts.Filter.IsEmpty() {
		if err := opts.Filter.Validate(); err != nil {
			return nil, err
		}
	}

	format, err := cfg.ResolveFormat(cfg.Input)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	log.Info("Reading schedule", logger.Fields{"input": cfg.Input, "format": format})

	start := time.Now()
	res, err := extract(cfg, format)
	metrics.RecordTiming("stage.extract", time.Since(start))
	if err != nil {
		return nil, err
	}

	report := &Report{
		Input:       cfg.Input,
		Format:      format,
		Base:        cfg.BaseName,
		DryRun:      opts.DryRun,
		Weeks:       res.Weeks,
		Extracted:   len(res.Events),
		Categories:  make([]CategoryCount, 0),
		Diagnostics: res.Diagnostics,
	}
	metrics.SetGauge("weeks", float64(res.Weeks))
	metrics.AddCounter("events.extracted", int64(len(res.Events)))

	events := res.Events
	event.Sort(events, cfg.Sort)

	classifier := cfg.Classifier()
	if !opts.Filter.IsEmpty() {
		events = opts.Filter.Apply(events, classifier)
		log.Info("Filter applied", logger.Fields{
			"filter":  opts.Filter.String(),
			"kept":    len(events),
			"dropped": len(res.Events) - len(events),
		})
	}
	report.Exported = len(events)
	report.Events = events

	var writer calendar.Writer
	if !opts.DryRun {
		store, err := storage.New(cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		writer = store
	}

	exporter := calendar.NewExporter(writer, cfg.BaseName, classifier, calendar.Options{
		ProductID: cfg.ProductID,
		Name:      cfg.CalendarName,
		Location:  loc,
		Stamp:     opts.Stamp,
	})

	start = time.Now()
	docs, partition, err := exporter.Export(events)
	metrics.RecordTiming("stage.export", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("exporting calendars: %w", err)
	}
	report.Documents = docs
	report.Diagnostics = append(report.Diagnostics, partition.Diagnostics...)

	for _, tag := range partition.Tags {
		n := len(partition.Groups[tag])
		report.Categories = append(report.Categories, CategoryCount{Tag: tag, Events: n})
		metrics.AddCounter("events.category."+string(tag), int64(n))
	}
	metrics.AddCounter("events.exported", int64(len(events)))
	metrics.AddCounter("warnings", int64(len(report.Diagnostics)))

	for _, d := range report.Diagnostics {
		log.Warn(d.Message, logger.Fields{
			"kind":        string(d.Kind),
			"source":      d.Source,
			"description": d.Description,
		})
	}
	for _, doc := range docs {
		if doc.Path != "" {
			metrics.IncrCounter("documents.written")
			log.Info("Calendar written", logger.Fields{"path": doc.Path, "events": doc.Events})
		}
	}

	report.Metrics = metrics.GetSnapshot()

	if opts.WriteReport && !opts.DryRun {
		store, err := storage.New(cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		path, err := store.SaveReport(cfg.BaseName, report)
		if err != nil {
			return nil, fmt.Errorf("saving report: %w", err)
		}
		report.ReportPath = path
	}

	return report, nil
}

// extract dispatches to the grid walker or the week-file reader
func extract(cfg *config.Config, format string) (*schedule.Result, error) {
	switch format {
	case config.FormatXLSX, config.FormatHTML:
		var g grid.Grid
		var err error
		if format == config.FormatXLSX {
			g, err = grid.ReadXLSX(cfg.Input)
		} else {
			g, err = grid.ReadHTMLFile(cfg.Input)
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", cfg.Input, err)
		}

		w, err := schedule.NewWalker(cfg.Layout, cfg.Year)
		if err != nil {
			return nil, err
		}
		return w.Walk(g)

	case config.FormatTSV:
		paths := []string{cfg.Input}
		info, err := os.Stat(cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("input: %w", err)
		}
		if info.IsDir() {
			paths, err = schedule.FindWeekFiles(cfg.Input, cfg.Delimited.Pattern)
			if err != nil {
				return nil, err
			}
		}
		return schedule.NewDelimited(cfg.Year, cfg.Delimited.DaysPerWeek).ParseFiles(paths)
	}

	return nil, fmt.Errorf("unsupported format %q", format)
}
