package grid

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoTable is returned when an HTML export holds no <table>
var ErrNoTable = errors.New("no table found in HTML document")

// ReadHTMLFile loads the first table of a spreadsheet "save as web page" export
func ReadHTMLFile(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening HTML export: %w", err)
	}
	defer f.Close() // nolint:errcheck

	return ReadHTML(f)
}

// ReadHTML parses the first <table> of r into a grid.
//
// Merged cells (rowspan/colspan) keep their value in the top-left position
// only, the same way spreadsheet readers report merged ranges. Line breaks
// (<br>) inside a cell become newlines. LibreOffice exports carry the cell's
// serial value in the sdval attribute; when the sdnum format is a date the
// cell becomes a date value instead of text.
func ReadHTML(r io.Reader) (*Memory, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	m := NewMemory()
	occupied := make(map[[2]int]bool)

	row := 0
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// Skip rows of nested tables
		if tr.ParentsFiltered("table").First().Get(0) != table.Get(0) {
			return
		}
		row++
		col := 0
		tr.ChildrenFiltered("td, th").Each(func(_ int, td *goquery.Selection) {
			col++
			for occupied[[2]int{row, col}] {
				col++
			}

			rowspan := spanAttr(td, "rowspan")
			colspan := spanAttr(td, "colspan")
			for dr := 0; dr < rowspan; dr++ {
				for dc := 0; dc < colspan; dc++ {
					occupied[[2]int{row + dr, col + dc}] = true
				}
			}

			m.Set(row, col, htmlCellValue(td))
			col += colspan - 1
		})
	})

	return m, nil
}

func spanAttr(sel *goquery.Selection, name string) int {
	v, ok := sel.Attr(name)
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func htmlCellValue(td *goquery.Selection) Value {
	if sdval, ok := td.Attr("sdval"); ok {
		if sdnum, ok := td.Attr("sdnum"); ok && isSdnumDate(sdnum) {
			if serial, err := strconv.ParseFloat(sdval, 64); err == nil {
				if t, ok := serialToTime(serial); ok {
					return timeValue(t)
				}
			}
		}
	}

	td.Find("br").ReplaceWithHtml("\n")
	text := strings.ReplaceAll(td.Text(), "\u00a0", " ")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return Text(strings.Join(kept, "\n"))
}

// isSdnumDate inspects the format code of a LibreOffice sdnum attribute
// ("1036;0;JJ/MM/AAAA"). Day and year keywords differ per locale.
func isSdnumDate(sdnum string) bool {
	parts := strings.SplitN(sdnum, ";", 3)
	if len(parts) < 3 {
		return false
	}
	code := formatTokens(parts[2])
	return strings.ContainsAny(code, "DJYA") || strings.Contains(code, "MMM")
}
