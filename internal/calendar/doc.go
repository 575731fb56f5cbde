// Package calendar serializes schedule events to iCalendar (RFC 5545).
//
// Build and GenerateICS produce a single VCALENDAR document with golang-ical.
// Exporter writes the document holding every event plus one document per
// course category, named <base>.ics and <base>_<TAG>.ics.
package calendar
