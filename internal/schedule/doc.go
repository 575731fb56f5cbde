// Package schedule turns schedule exports into ordered event lists.
//
// Walker reads a grid organized in fixed-height week blocks: the first row of
// each block carries the Monday date, day columns come in pairs, and each day
// has a morning and an afternoon session made of stacked text lines. Layout
// holds every coordinate so the walker can run against any template.
//
// Delimited reads the tab-separated weekly text exports, one file per week.
package schedule
