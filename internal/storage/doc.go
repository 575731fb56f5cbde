// Package storage writes calendar files and JSON run reports to an output directory.
package storage
