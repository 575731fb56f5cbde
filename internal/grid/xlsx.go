package grid

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrNoActiveSheet is returned when a workbook has no usable active worksheet
var ErrNoActiveSheet = errors.New("no active sheet found in workbook")

// ReadXLSX loads the active worksheet of an .xlsx workbook into memory.
// The file handle is released before returning.
func ReadXLSX(path string) (*Memory, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close() // nolint:errcheck

	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (*Memory, error) {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, ErrNoActiveSheet
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	r := &xlsxReader{
		file:      f,
		sheet:     sheet,
		date1904:  date1904,
		dateStyle: make(map[int]bool),
	}

	m := NewMemory()
	for i, cols := range formatted {
		for j, text := range cols {
			rawText := text
			if i < len(raw) && j < len(raw[i]) {
				rawText = raw[i][j]
			}
			m.Set(i+1, j+1, r.value(i+1, j+1, text, rawText))
		}
	}
	return m, nil
}

type xlsxReader struct {
	file      *excelize.File
	sheet     string
	date1904  bool
	dateStyle map[int]bool
}

// value converts one cell. Numbers carrying a date number format become
// date values; everything else is kept as displayed text.
func (r *xlsxReader) value(row, col int, text, rawText string) Value {
	if strings.TrimSpace(rawText) == "" {
		return Value{}
	}
	cell := CellName(row, col)

	if typ, err := r.file.GetCellType(r.sheet, cell); err == nil && typ == excelize.CellTypeDate {
		if t, ok := parseISODateTime(rawText); ok {
			return timeValue(t)
		}
	}

	serial, err := strconv.ParseFloat(rawText, 64)
	if err != nil || !r.isDateCell(cell) {
		return Text(text)
	}
	t, err := excelize.ExcelDateToTime(serial, r.date1904)
	if err != nil {
		return Text(text)
	}
	return timeValue(t)
}

func (r *xlsxReader) isDateCell(cell string) bool {
	idx, err := r.file.GetCellStyle(r.sheet, cell)
	if err != nil {
		return false
	}
	if known, ok := r.dateStyle[idx]; ok {
		return known
	}
	isDate := false
	if style, err := r.file.GetStyle(idx); err == nil && style != nil {
		isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	r.dateStyle[idx] = isDate
	return isDate
}

// isDateFormat recognizes the built-in date/time number formats and custom
// format codes that contain day or year tokens.
func isDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		code := formatTokens(*custom)
		return strings.ContainsAny(code, "DY") || strings.Contains(code, "MMM")
	}
	switch {
	case numFmt >= 14 && numFmt <= 22:
		return true
	case numFmt >= 27 && numFmt <= 36:
		return true
	case numFmt >= 45 && numFmt <= 47:
		return true
	case numFmt >= 50 && numFmt <= 58:
		return true
	}
	return false
}

// formatKeywords hold letters that are not date tokens
var formatKeywords = []string{"GENERAL", "STANDARD", "AM/PM", "A/P"}

// formatTokens returns the upper-cased format code without literal text,
// bracketed sections ([Red], [<100], [$-40C]) and keywords, leaving only
// the characters that can be date or number tokens.
func formatTokens(code string) string {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			inQuote = c != '"'
		case inBracket:
			inBracket = c != ']'
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\', c == '_', c == '*':
			i++
		default:
			b.WriteByte(c)
		}
	}

	out := strings.ToUpper(b.String())
	for _, kw := range formatKeywords {
		out = strings.ReplaceAll(out, kw, "")
	}
	return out
}

func timeValue(t time.Time) Value {
	t = t.Round(time.Second)
	y, mo, d := t.Date()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return Date(y, mo, d)
	}
	return DateTime(time.Date(y, mo, d, t.Hour(), t.Minute(), t.Second(), 0, time.UTC))
}

func parseISODateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// serialToTime converts a spreadsheet serial day number (1900 date system)
func serialToTime(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
