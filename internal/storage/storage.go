package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Storage handles writing calendar files and run reports to an output directory
type Storage struct {
	dataDir string
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dataDir = "."
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the resolved output directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// CalendarFileName returns <base>.ics, or <base>_<TAG>.ics when tag is set
func CalendarFileName(base, tag string) string {
	name := safeName(base)
	if tag != "" {
		name += "_" + safeName(tag)
	}
	return name + ".ics"
}

// CalendarPath joins CalendarFileName to the output directory
func (s *Storage) CalendarPath(base, tag string) string {
	return filepath.Join(s.dataDir, CalendarFileName(base, tag))
}

// WriteCalendar writes an iCalendar document and returns its path
func (s *Storage) WriteCalendar(base, tag, content string) (string, error) {
	path := s.CalendarPath(base, tag)
	if err := writeAtomic(path, []byte(content)); err != nil {
		return "", fmt.Errorf("writing calendar: %w", err)
	}
	return path, nil
}

// SaveReport writes v as indented JSON to <dir>/<base>_report.json
func (s *Storage) SaveReport(base string, v interface{}) (string, error) {
	path := filepath.Join(s.dataDir, safeName(base)+"_report.json")

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	return path, nil
}

// writeAtomic writes to a temp file in the same directory then renames it
// over path, so readers never observe a half-written calendar.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".edt2ics-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func safeName(s string) string {
	s = unsafeNameChars.ReplaceAllString(strings.TrimSpace(s), "_")
	if s == "" {
		return "calendar"
	}
	return s
}
