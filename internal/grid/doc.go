// Package grid provides a read-only view over a worksheet as 1-indexed cells.
//
// Sources are loaded fully into memory: ReadXLSX reads the active sheet of an
// Excel workbook (excelize), ReadHTML reads the first table of a spreadsheet's
// web-page export (goquery). Cells keep their displayed text; date-formatted
// cells are surfaced as date or date-time values so that week anchors can be
// resolved without re-parsing locale-specific text.
package grid
