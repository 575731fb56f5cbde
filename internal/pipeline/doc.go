// Package pipeline runs a conversion end to end: read the schedule, extract
// events, sort and filter them, then export the calendars and summarize the
// run in a Report.
package pipeline
