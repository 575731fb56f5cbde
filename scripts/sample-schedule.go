package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/edt2ics/internal/config"
	"github.com/pfrederiksen/edt2ics/internal/grid"
	"github.com/pfrederiksen/edt2ics/internal/pipeline"
	"github.com/pfrederiksen/edt2ics/internal/schedule"
)

// Writes a sample schedule laid out like the school template, converts it,
// and leaves the calendars in ./sample for import into a calendar app.
func main() {
	dir := "sample"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fail(err)
	}

	input := filepath.Join(dir, "EDT_sample.xlsx")
	if err := writeSample(input); err != nil {
		fail(err)
	}

	cfg := config.DefaultConfig()
	cfg.Input = input
	cfg.OutputDir = dir

	report, err := pipeline.Run(pipeline.Options{Config: cfg})
	if err != nil {
		fail(err)
	}

	fmt.Printf("✅ Generated schedule: %s\n\n", input)
	for _, doc := range report.Documents {
		fmt.Printf("  %s (%d events)\n", doc.Path, doc.Events)
	}
	fmt.Printf("\n%d warnings\n", report.Warnings())
	fmt.Println("\nTest it by importing the .ics files into Google Calendar, Apple Calendar, or Outlook")
}

func writeSample(path string) error {
	f := excelize.NewFile()
	defer f.Close() // nolint:errcheck

	sheet := f.GetSheetName(0)
	layout := schedule.DefaultLayout()
	monday := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)

	courses := []string{"A0 Maths 8h-10h", "B1 Réseaux 10h15-12h15", "IR Sécurité 14h-17h", "IDG Gestion 13h30-15h30", "RaN Anglais"}

	for i, row := range layout.StartRows() {
		week := monday.AddDate(0, 0, 7*i)
		if err := f.SetCellValue(sheet, grid.CellName(row, layout.AnchorColumn), week); err != nil {
			return err
		}
		for d := 0; d < layout.Days; d++ {
			col := layout.FirstDayColumn + d*layout.ColumnsPerDay
			session := layout.Sessions[(i+d)%len(layout.Sessions)]
			text := courses[(i+d)%len(courses)]
			if err := f.SetCellValue(sheet, grid.CellName(row+session.Offset, col), text); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
