// Package event provides the schedule event model and the text heuristics
// used to build it.
//
// The event package extracts "8h30 - 10h"-style time ranges from free cell
// text, resolves week anchor dates (spreadsheet dates, ISO strings and French
// "12-mars" tokens), and classifies events into course categories using an
// ordered list of description prefixes. Anomalies that do not abort a run are
// returned as Diagnostic values instead of being logged here.
package event
