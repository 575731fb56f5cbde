package grid

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const sampleExport = `<html><body>
<table>
<tr><td>Semaine</td><td colspan="2">Lundi</td><td>Mardi</td></tr>
<tr>
  <td sdval="45355" sdnum="1036;0;JJ/MM/AAAA">04/03/2024</td>
  <td rowspan="2">A1 Analyse<br>8h-10h</td>
  <td>B2&nbsp;TP</td>
  <td>IR réseau</td>
</tr>
<tr><td>2024-03-11</td><td>second</td><td sdval="12" sdnum="1036;0;0">12</td></tr>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

func TestReadHTML(t *testing.T) {
	g, err := ReadHTML(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("ReadHTML() error = %v", err)
	}

	anchor := g.Cell(2, 1)
	if anchor.Kind != KindDate {
		t.Fatalf("A2 kind = %v, want KindDate (%+v)", anchor.Kind, anchor)
	}
	if y, m, d := anchor.Time.Date(); y != 2024 || m != time.March || d != 4 {
		t.Errorf("A2 date = %v, want 2024-03-04", anchor.Time)
	}

	if got := g.Cell(2, 2).Text; got != "A1 Analyse\n8h-10h" {
		t.Errorf("B2 = %q", got)
	}
	if got := g.Cell(2, 3).Text; got != "B2 TP" {
		t.Errorf("C2 = %q", got)
	}
	if got := g.Cell(2, 4).Text; got != "IR réseau" {
		t.Errorf("D2 = %q", got)
	}

	// B3 is covered by the rowspan of B2
	if !g.Cell(3, 2).IsEmpty() {
		t.Errorf("B3 should be empty under a merged cell, got %q", g.Cell(3, 2).Text)
	}
	if got := g.Cell(3, 3).Text; got != "second" {
		t.Errorf("C3 = %q, want second", got)
	}
	if got := g.Cell(3, 4); got.Kind != KindText || got.Text != "12" {
		t.Errorf("D3 = %+v, want plain text", got)
	}
	if got := g.Cell(3, 1).Text; got != "2024-03-11" {
		t.Errorf("A3 = %q", got)
	}

	// colspan shifts the following cells
	if got := g.Cell(1, 4).Text; got != "Mardi" {
		t.Errorf("D1 = %q, want Mardi", got)
	}
	if g.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3 (second table ignored)", g.Rows())
	}
}

func TestReadHTML_NoTable(t *testing.T) {
	_, err := ReadHTML(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	if !errors.Is(err, ErrNoTable) {
		t.Errorf("ReadHTML() error = %v, want ErrNoTable", err)
	}
}

func TestReadHTML_NumberKeepsText(t *testing.T) {
	doc := `<table><tr>
<td sdval="12" sdnum="1033;0;General">12</td>
<td sdval="104" sdnum="1036;0;Standard">104</td>
<td sdval="45537" sdnum="1036;0;JJ/MM/AA">02/09/24</td>
</tr></table>`

	g, err := ReadHTML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadHTML() error = %v", err)
	}
	for col, want := range map[int]string{1: "12", 2: "104"} {
		if got := g.Cell(1, col); got.Kind != KindText || got.Text != want {
			t.Errorf("column %d = %+v, want text %q", col, got, want)
		}
	}
	if got := g.Cell(1, 3); got.Kind != KindDate {
		t.Errorf("column 3 = %+v, want a date", got)
	}
}

func TestIsSdnumDate(t *testing.T) {
	tests := []struct {
		sdnum string
		want  bool
	}{
		{"1036;0;JJ/MM/AAAA", true},
		{"1033;0;MM/DD/YY", true},
		{"1036;0;0", false},
		{"1036;0;0.00", false},
		{"1036;0;HH:MM AM/PM", false},
		{"1036;1036;[$-40C]JJ MMM AA", true},
		{"1033;0;General", false},
		{"1036;0;Standard", false},
		{"1036;0;0,00;[RED]-0,00", false},
		{`1036;0;0" jours"`, false},
		{"broken", false},
	}

	for _, tt := range tests {
		t.Run(tt.sdnum, func(t *testing.T) {
			if got := isSdnumDate(tt.sdnum); got != tt.want {
				t.Errorf("isSdnumDate(%q) = %v, want %v", tt.sdnum, got, tt.want)
			}
		})
	}
}
