package domain

import "time"

// Axis names one reliability dimension on the radar chart.
type Axis string

const (
	AxisFrequency    Axis = "Frequency"
	AxisConsistency  Axis = "Consistency"
	AxisTimeliness   Axis = "Timeliness"
	AxisCompleteness Axis = "Completeness"
	AxisCoverage     Axis = "Coverage"
	AxisAccuracy     Axis = "Accuracy"
	AxisDetail       Axis = "Detail"
	AxisResponseRate Axis = "Response Rate"
)

// Axes is the fixed axis order shared by every profile.
var Axes = [...]Axis{
	AxisFrequency,
	AxisConsistency,
	AxisTimeliness,
	AxisCompleteness,
	AxisCoverage,
	AxisAccuracy,
	AxisDetail,
	AxisResponseRate,
}

// NumAxes is the length of every profile's value vector.
const NumAxes = len(Axes)

// Raw value units.
const (
	UnitReportsPerHour = "reports/hour"
	UnitHours          = "hours"
	UnitRatio          = "ratio"
)

// MetricResult is one axis of a profile. Value is in [0,1]; Raw is the
// metric's natural unit and is display-only.
type MetricResult struct {
	Axis  Axis    `json:"axis"`
	Value float64 `json:"value"`
	Raw   float64 `json:"raw_value"`
	Unit  string  `json:"unit"`
}

// NeighborhoodProfile is the engine's output unit for one neighborhood.
type NeighborhoodProfile struct {
	Neighborhood string         `json:"neighborhood"`
	Reports      int            `json:"reports"`
	Placeholder  bool           `json:"placeholder,omitempty"`
	Values       []MetricResult `json:"values"`
}

// Metric returns the result for an axis.
func (p NeighborhoodProfile) Metric(axis Axis) (MetricResult, bool) {
	for _, v := range p.Values {
		if v.Axis == axis {
			return v, true
		}
	}
	return MetricResult{}, false
}

// RatedValue pairs a natural-unit value with its [0,1] normalization.
type RatedValue struct {
	Raw   float64 `json:"raw"`
	Value float64 `json:"value"`
}

// UncertaintySummary holds the per-neighborhood choropleth metrics.
type UncertaintySummary struct {
	Neighborhood string     `json:"neighborhood"`
	Completeness RatedValue `json:"report_completeness"`
	Variance     RatedValue `json:"report_variance"`
	Count        RatedValue `json:"report_count"`
	Accuracy     RatedValue `json:"report_accuracy"`
}

// HourlyPoint is one clock-hour bucket of a damage field's time series.
type HourlyPoint struct {
	Hour   time.Time `json:"hour"`
	Mean   float64   `json:"mean"`
	StdDev float64   `json:"std_dev"`
	Count  int       `json:"count"`
}

// Snapshot is the result of one pipeline run.
type Snapshot struct {
	GeneratedAt time.Time                `json:"generated_at"`
	ReportCount int                      `json:"report_count"`
	Profiles    []NeighborhoodProfile    `json:"profiles"`
	Uncertainty []UncertaintySummary     `json:"uncertainty"`
	Series      map[string][]HourlyPoint `json:"series"`
	Diagnostics []Diagnostic             `json:"diagnostics"`
}

// Profile looks up a neighborhood's profile by id.
func (s *Snapshot) Profile(neighborhood string) (NeighborhoodProfile, bool) {
	for _, p := range s.Profiles {
		if p.Neighborhood == neighborhood {
			return p, true
		}
	}
	return NeighborhoodProfile{}, false
}
