package event

// DiagnosticKind names a recoverable anomaly found while building events
type DiagnosticKind string

const (
	DiagMissingTimeRange  DiagnosticKind = "missing_time_range"
	DiagInvalidTimeRange  DiagnosticKind = "invalid_time_range"
	DiagInvertedTimeRange DiagnosticKind = "inverted_time_range"
	DiagUnknownCategory   DiagnosticKind = "unknown_category"
)

// Diagnostic reports an anomaly that did not abort the run.
// Operations return diagnostics; callers decide how to surface them.
type Diagnostic struct {
	Kind        DiagnosticKind `json:"kind"`
	Source      string         `json:"source,omitempty"`
	Message     string         `json:"message"`
	Description string         `json:"description,omitempty"`
}
