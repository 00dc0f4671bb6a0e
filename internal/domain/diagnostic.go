package domain

// DiagnosticCode classifies a non-fatal data-quality condition.
type DiagnosticCode string

const (
	// CodeMalformedTimestamp marks a report whose time could not be parsed.
	CodeMalformedTimestamp DiagnosticCode = "malformed_timestamp"
	// CodeMalformedScore marks a damage cell that is not a finite number.
	CodeMalformedScore DiagnosticCode = "malformed_score"
	// CodeMissingLocation marks a report grouped under UnknownNeighborhood.
	CodeMissingLocation DiagnosticCode = "missing_location"
	// CodeEmptyInput marks a run with zero reports overall.
	CodeEmptyInput DiagnosticCode = "empty_input"
	// CodeEmptyNeighborhood marks a declared neighborhood with no reports.
	CodeEmptyNeighborhood DiagnosticCode = "empty_neighborhood"
	// CodeDegenerateStatistic marks a metric clamped to a neutral value.
	CodeDegenerateStatistic DiagnosticCode = "degenerate_statistic"
	// CodeNonFinite marks a non-finite value caught before normalization.
	CodeNonFinite DiagnosticCode = "non_finite"
)

// Diagnostic is one entry in the warnings stream returned next to results.
type Diagnostic struct {
	Neighborhood string         `json:"neighborhood,omitempty"`
	Axis         Axis           `json:"axis,omitempty"`
	Field        string         `json:"field,omitempty"`
	Code         DiagnosticCode `json:"code"`
	Message      string         `json:"message"`
}
