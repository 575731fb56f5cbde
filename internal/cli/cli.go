package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/edt2ics/internal/config"
	"github.com/pfrederiksen/edt2ics/internal/event"
	"github.com/pfrederiksen/edt2ics/internal/filter"
	"github.com/pfrederiksen/edt2ics/internal/logger"
	"github.com/pfrederiksen/edt2ics/internal/pipeline"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitWarnings = 2
)

// DefaultConfigPath is read when --config is not given; it may be absent
const DefaultConfigPath = "edt2ics.yaml"

// ErrWarnings is returned in strict mode when the run produced diagnostics
var ErrWarnings = errors.New("schedule produced warnings")

type options struct {
	configPath string
	saveConfig string
	format     string
	outputDir  string
	base       string
	year       int
	keepYear   bool
	timezone   string
	sortOrder  string
	only       string
	from       string
	to         string
	dates      string
	summary    string
	logFormat  string
	logLevel   string
	verbose    bool
	dryRun     bool
	strict     bool
	report     bool
	stamp      string
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "edt2ics [input]",
		Short: "Convert a weekly class schedule into iCalendar files",
		Long: `Convert a weekly class schedule into iCalendar files.

The input is a spreadsheet export (.xlsx, or .html saved from a spreadsheet)
laid out in week blocks, a tab-separated week file, or a directory of week
files (s1.txt, s2.txt, ...). One calendar with every event is written, plus
one calendar per course category: EDT.ics, EDT_A1.ics, EDT_IR.ics, ...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", DefaultConfigPath, "YAML configuration file")
	f.StringVar(&opts.saveConfig, "save-config", "", "Write the effective configuration to this path and exit")
	f.StringVar(&opts.format, "format", "", "Input format: auto, xlsx, html or tsv")
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for generated calendars")
	f.StringVar(&opts.base, "base", "", "Base name of generated files")
	f.IntVar(&opts.year, "year", event.DefaultYear, "Year every date is normalized to")
	f.BoolVar(&opts.keepYear, "keep-year", false, "Keep the year found in the schedule")
	f.StringVar(&opts.timezone, "timezone", "", "IANA timezone of the schedule (e.g. Europe/Paris)")
	f.StringVar(&opts.sortOrder, "sort", "", "Event order: insertion or chronological")
	f.StringVar(&opts.only, "only", "", "Comma separated categories to export (e.g. A1,IR)")
	f.StringVar(&opts.from, "from", "", "Skip events before this date (2025-09-01)")
	f.StringVar(&opts.to, "to", "", "Skip events after this date (2025-12-19)")
	f.StringVar(&opts.dates, "dates", "", "Date window FROM..TO, either side optional")
	f.StringVar(&opts.summary, "summary", "text", "Summary output: text or json")
	f.StringVar(&opts.logFormat, "log-format", "json", "Log format: json or console")
	f.StringVar(&opts.logLevel, "log-level", string(logger.LevelWarn), "Minimum log level: debug, info, warn or error")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging and list every event")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Generate calendars without writing them")
	f.BoolVar(&opts.strict, "strict", false, "Exit with status 2 when warnings were produced")
	f.BoolVar(&opts.report, "report", false, "Also write <base>_report.json")
	f.StringVar(&opts.stamp, "stamp", "", "Fixed DTSTAMP (RFC 3339) for reproducible output")

	cmd.MarkFlagsMutuallyExclusive("year", "keep-year")
	cmd.MarkFlagsMutuallyExclusive("dates", "from")
	cmd.MarkFlagsMutuallyExclusive("dates", "to")
	cmd.MarkFlagsMutuallyExclusive("verbose", "log-level")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, opts *options) error {
	format := OutputFormat(strings.ToLower(opts.summary))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid summary format: %s (must be 'text' or 'json')", opts.summary)
	}

	logFormat, err := logger.ParseFormat(opts.logFormat)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		return err
	}
	if opts.verbose {
		level = logger.LevelDebug
	}
	log := logger.NewWithFormat(level, logFormat, cmd.ErrOrStderr())
	logger.SetDefault(log)

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Input = args[0]
	}

	if opts.saveConfig != "" {
		if err := config.Save(opts.saveConfig, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", opts.saveConfig)
		return nil
	}

	if cfg.Input == "" {
		return fmt.Errorf("no input given: pass a schedule file or set input in %s", opts.configPath)
	}

	flt, err := buildFilter(opts)
	if err != nil {
		return err
	}

	var stamp time.Time
	if opts.stamp != "" {
		stamp, err = time.Parse(time.RFC3339, opts.stamp)
		if err != nil {
			return fmt.Errorf("invalid --stamp: %w", err)
		}
	}

	log.Debug("Starting conversion", logger.Fields{
		"input":      cfg.Input,
		"output_dir": cfg.OutputDir,
		"year":       cfg.Year,
		"timezone":   cfg.Timezone,
		"filter":     flt.String(),
	})

	metrics := logger.NewMetrics()
	start := time.Now()
	report, err := pipeline.Run(pipeline.Options{
		Config:      cfg,
		Filter:      flt,
		DryRun:      opts.dryRun,
		WriteReport: opts.report,
		Stamp:       stamp,
		Metrics:     metrics,
	})
	if err != nil {
		return err
	}
	metrics.RecordTiming("run", time.Since(start))

	if !opts.verbose {
		report.Events = nil
		report.Metrics = nil
	} else {
		report.Metrics = metrics.GetSnapshot()
	}

	if err := WriteSummary(cmd.OutOrStdout(), report, format, opts.verbose); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if opts.strict && report.Warnings() > 0 {
		return fmt.Errorf("%w: %d (strict mode)", ErrWarnings, report.Warnings())
	}
	return nil
}

// loadConfig reads the config file and applies the flags the user set
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("config") {
		if _, statErr := os.Stat(opts.configPath); statErr != nil {
			return nil, fmt.Errorf("config file: %w", statErr)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if flags.Changed("base") {
		cfg.BaseName = opts.base
		if cfg.CalendarName == config.DefaultBase {
			cfg.CalendarName = opts.base
		}
	}
	if flags.Changed("year") {
		cfg.Year = opts.year
	}
	if opts.keepYear {
		cfg.Year = 0
	}
	if flags.Changed("timezone") {
		cfg.Timezone = opts.timezone
	}
	if flags.Changed("sort") {
		order, err := ParseSortOrder(opts.sortOrder)
		if err != nil {
			return nil, err
		}
		cfg.Sort = order
	}

	cfg.Normalize()
	return cfg, nil
}

func buildFilter(opts *options) (*filter.Filter, error) {
	f := filter.NewFilter()

	if opts.dates != "" {
		from, to, err := filter.ParseDateRange(opts.dates)
		if err != nil {
			return nil, fmt.Errorf("invalid --dates: %w", err)
		}
		f.DateFrom, f.DateTo = from, to
	}
	if opts.from != "" {
		d, err := filter.ParseDate(opts.from)
		if err != nil {
			return nil, fmt.Errorf("invalid --from: %w", err)
		}
		f.DateFrom = &d
	}
	if opts.to != "" {
		d, err := filter.ParseDate(opts.to)
		if err != nil {
			return nil, fmt.Errorf("invalid --to: %w", err)
		}
		f.DateTo = &d
	}
	if opts.only != "" {
		f.Categories = filter.ParseCategories(opts.only)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Execute runs the CLI and exits with the matching status code
func Execute() {
	os.Exit(run(NewRootCmd()))
}

func run(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	if errors.Is(err, ErrWarnings) {
		return ExitWarnings
	}
	return ExitError
}
