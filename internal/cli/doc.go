// Package cli implements the edt2ics command-line interface.
//
// The root command loads the YAML configuration, applies flag overrides,
// builds the export filter, runs the conversion pipeline and prints a text or
// JSON summary. Exit status is 0 on success, 1 on error, and 2 when --strict
// is set and the schedule produced warnings.
package cli
