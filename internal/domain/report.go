package domain

import (
	"math"
	"time"
)

// UnknownNeighborhood is the group key for reports with a blank location.
const UnknownNeighborhood = "Unknown"

// DamageField identifies one of the five damage-severity columns.
type DamageField int

const (
	SewerAndWater DamageField = iota
	Power
	RoadsAndBridges
	Medical
	Buildings

	// NumDamageFields is the number of damage columns on every report.
	NumDamageFields = 5
)

// DamageFields lists the damage columns in their fixed order.
var DamageFields = [NumDamageFields]DamageField{SewerAndWater, Power, RoadsAndBridges, Medical, Buildings}

var damageFieldNames = [NumDamageFields]string{
	"sewer_and_water",
	"power",
	"roads_and_bridges",
	"medical",
	"buildings",
}

// String returns the column name, e.g. "roads_and_bridges".
func (f DamageField) String() string {
	if f < 0 || int(f) >= NumDamageFields {
		return "unknown"
	}
	return damageFieldNames[f]
}

// ParseDamageField resolves a column name to its DamageField.
func ParseDamageField(name string) (DamageField, bool) {
	for i, n := range damageFieldNames {
		if n == name {
			return DamageField(i), true
		}
	}
	return 0, false
}

// Score severity bounds. Values outside still count as detail.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Score is an optional damage severity. The zero value is missing.
type Score struct {
	value   float64
	present bool
}

// NewScore returns a present score. Non-finite values yield a missing score.
func NewScore(v float64) Score {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Score{}
	}
	return Score{value: v, present: true}
}

// MissingScore returns a score with no value.
func MissingScore() Score { return Score{} }

// Value returns the severity and whether it is present.
func (s Score) Value() (float64, bool) { return s.value, s.present }

// Present reports whether the score holds a finite number.
func (s Score) Present() bool { return s.present }

// InRange reports whether the score is present and within [MinScore, MaxScore].
func (s Score) InRange() bool {
	return s.present && s.value >= MinScore && s.value <= MaxScore
}

// Report is one validated citizen damage observation.
type Report struct {
	Location string
	// Time is zero when the source timestamp was missing or unparseable.
	Time time.Time
	// TimeGiven is set when the source time cell was non-blank, whether or
	// not it parsed.
	TimeGiven bool
	Damage    [NumDamageFields]Score
}

// HasTime reports whether the report carries a valid timestamp.
func (r Report) HasTime() bool { return !r.Time.IsZero() }

// TimeProvided reports whether the source supplied any time value. A
// malformed timestamp counts as provided.
func (r Report) TimeProvided() bool { return r.TimeGiven || r.HasTime() }

// Score returns the report's value for one damage field.
func (r Report) Score(f DamageField) Score {
	if f < 0 || int(f) >= NumDamageFields {
		return Score{}
	}
	return r.Damage[f]
}

// ReportGroup holds every report for one neighborhood.
type ReportGroup struct {
	Neighborhood string
	Reports      []Report
}
