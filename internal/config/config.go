// Package config loads and saves the edt2ics YAML configuration.
//
// Every field has a default that reproduces the standard school template,
// so a missing file or a partial file is valid. Command-line flags override
// the loaded values.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/edt2ics/internal/calendar"
	"github.com/pfrederiksen/edt2ics/internal/event"
	"github.com/pfrederiksen/edt2ics/internal/schedule"
	"github.com/pfrederiksen/edt2ics/internal/storage"
)

// Input formats
const (
	FormatAuto  = "auto"
	FormatXLSX  = "xlsx"
	FormatHTML  = "html"
	FormatTSV   = "tsv"
	DefaultBase = "EDT"
	DefaultTZ   = "Europe/Paris"
)

// DelimitedConfig controls the tab-separated weekly reader
type DelimitedConfig struct {
	// Pattern selects week files when the input is a directory
	Pattern string `yaml:"pattern" json:"pattern"`
	// DaysPerWeek is the number of entries before the day counter wraps
	DaysPerWeek int `yaml:"days_per_week" json:"days_per_week"`
}

// CategoryConfig holds the classifier rules
type CategoryConfig struct {
	Rules   []event.Rule `yaml:"rules" json:"rules"`
	Default event.Tag    `yaml:"default" json:"default"`
}

// Config is the top-level application configuration.
type Config struct {
	// Input is an .xlsx/.html export, a .txt week file, or a directory of week files.
	Input string `yaml:"input" json:"input"`

	// Format is one of auto, xlsx, html, tsv. Auto picks by extension.
	Format string `yaml:"format" json:"format"`

	OutputDir string `yaml:"output_dir" json:"output_dir"`
	// BaseName names the outputs: <base>.ics and <base>_<TAG>.ics
	BaseName string `yaml:"base_name" json:"base_name"`

	// Year replaces the year of every resolved date. 0 keeps the source year.
	Year int `yaml:"year" json:"year"`

	// Timezone is the IANA zone event clocks are expressed in.
	Timezone string `yaml:"timezone" json:"timezone"`

	ProductID    string `yaml:"product_id" json:"product_id"`
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	Sort event.SortOrder `yaml:"sort" json:"sort"`

	Layout     schedule.Layout `yaml:"layout" json:"layout"`
	Delimited  DelimitedConfig `yaml:"delimited" json:"delimited"`
	Categories CategoryConfig  `yaml:"categories" json:"categories"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Format:       FormatAuto,
		OutputDir:    ".",
		BaseName:     DefaultBase,
		Year:         event.DefaultYear,
		Timezone:     DefaultTZ,
		ProductID:    calendar.DefaultProductID,
		CalendarName: DefaultBase,
		Sort:         event.SortInsertion,
		Layout:       schedule.DefaultLayout(),
		Delimited: DelimitedConfig{
			Pattern:     schedule.DefaultWeekFilePattern,
			DaysPerWeek: 5,
		},
		Categories: CategoryConfig{
			Rules:   event.DefaultRules(),
			Default: event.TagOther,
		},
	}
}

// Normalize fills in missing values so partial files behave like the defaults.
// Year is left alone: 0 is meaningful.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.OutputDir == "" {
		c.OutputDir = def.OutputDir
	}
	if c.BaseName == "" {
		c.BaseName = def.BaseName
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.ProductID == "" {
		c.ProductID = def.ProductID
	}
	if c.Sort == "" {
		c.Sort = def.Sort
	}

	// A layout without block starts was not configured at all
	if len(c.Layout.BlockStarts) == 0 {
		c.Layout = def.Layout
	}

	if c.Delimited.Pattern == "" {
		c.Delimited.Pattern = def.Delimited.Pattern
	}
	if c.Delimited.DaysPerWeek <= 0 {
		c.Delimited.DaysPerWeek = def.Delimited.DaysPerWeek
	}

	if c.Categories.Rules == nil {
		c.Categories.Rules = def.Categories.Rules
	}
	if c.Categories.Default == "" {
		c.Categories.Default = def.Categories.Default
	}
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var errs []error

	switch c.Format {
	case FormatAuto, FormatXLSX, FormatHTML, FormatTSV:
	default:
		errs = append(errs, fmt.Errorf("format must be one of auto, xlsx, html, tsv, got %q", c.Format))
	}
	switch c.Sort {
	case event.SortInsertion, event.SortChronological:
	default:
		errs = append(errs, fmt.Errorf("sort must be insertion or chronological, got %q", c.Sort))
	}
	if c.Year < 0 {
		errs = append(errs, fmt.Errorf("year must not be negative, got %d", c.Year))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Layout.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("layout: %w", err))
	}
	if _, err := filepath.Match(c.Delimited.Pattern, "s1.txt"); err != nil {
		errs = append(errs, fmt.Errorf("delimited pattern %q: %w", c.Delimited.Pattern, err))
	}
	errs = append(errs, c.validateTags()...)

	return errors.Join(errs...)
}

// validateTags rejects empty tags and distinct tags that would write the
// same category file. Names are compared case-insensitively for
// filesystems that fold case.
func (c *Config) validateTags() []error {
	var errs []error
	files := make(map[string]event.Tag)

	check := func(tag event.Tag, where string) {
		if strings.TrimSpace(string(tag)) == "" {
			errs = append(errs, fmt.Errorf("categories: %s has an empty tag", where))
			return
		}
		name := strings.ToLower(storage.CalendarFileName(c.BaseName, string(tag)))
		if other, ok := files[name]; ok && other != tag {
			errs = append(errs, fmt.Errorf("categories: tags %q and %q both write %s", other, tag, name))
			return
		}
		files[name] = tag
	}

	for i, r := range c.Categories.Rules {
		check(r.Tag, fmt.Sprintf("rule %d (%q)", i+1, r.Prefix))
	}
	check(c.Categories.Default, "default")
	return errs
}

// Location resolves Timezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Classifier builds the category classifier from the configured rules
func (c *Config) Classifier() *event.Classifier {
	return event.NewClassifier(c.Categories.Rules, c.Categories.Default)
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; the file is not created.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of the defaults
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	// Lists replace rather than merge, so clear those the file may set
	cfg.Layout.BlockStarts = nil
	cfg.Layout.Sessions = nil
	cfg.Categories.Rules = nil

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Layout.BlockStarts) == 0 {
		cfg.Layout.BlockStarts = schedule.DefaultLayout().BlockStarts
	}
	if len(cfg.Layout.Sessions) == 0 {
		cfg.Layout.Sessions = schedule.DefaultLayout().Sessions
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically via a temp file and rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".edt2ics-config-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// ResolveFormat returns the concrete input format for path. Directories
// and .txt/.tsv files are week files; .htm/.html are HTML exports.
func (c *Config) ResolveFormat(path string) (string, error) {
	if c.Format != FormatAuto && c.Format != "" {
		return c.Format, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("input: %w", err)
	}
	if info.IsDir() {
		return FormatTSV, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".txt", ".tsv":
		return FormatTSV, nil
	}
	return "", fmt.Errorf("cannot detect format of %s, use --format", path)
}
