// Package reliability derives per-neighborhood reliability metrics from
// validated damage reports.
//
// The flow is one-directional: [GroupReports] partitions reports by
// neighborhood, eight independent calculators reduce each group to a raw
// scalar, [Normalize] maps raw values onto [0,1], and [Engine] assembles a
// profile with axes in [domain.Axes] order.
//
// Every calculator returns a usable value. When the input is degenerate
// (empty group, fewer than two valid timestamps, no values for a field, a
// zero mean) the value is neutral and the returned error wraps one of the
// sentinel errors below. The engine turns those errors into diagnostics; it
// never fails a run because of the data.
package reliability

import "errors"

var (
	// ErrEmptyGroup is returned for a group with no reports.
	ErrEmptyGroup = errors.New("no reports")
	// ErrTooFewTimestamps is returned when fewer than two reports carry a valid time.
	ErrTooFewTimestamps = errors.New("fewer than two valid timestamps")
	// ErrNoValues is returned when a damage field has no valid values.
	ErrNoValues = errors.New("no valid values")
	// ErrZeroMean is returned when a ratio metric would divide by a zero mean.
	ErrZeroMean = errors.New("zero mean")
	// ErrNonFinite is returned when a value to normalize is NaN or infinite.
	ErrNonFinite = errors.New("non-finite value")
	// ErrEmptyRange is returned when normalization bounds are equal.
	ErrEmptyRange = errors.New("empty normalization range")
)
