package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one row as supplied by the Record Loader, every column unparsed.
type RawRecord struct {
	Time            string `json:"time"`
	Location        string `json:"location"`
	SewerAndWater   string `json:"sewer_and_water"`
	Power           string `json:"power"`
	RoadsAndBridges string `json:"roads_and_bridges"`
	Medical         string `json:"medical"`
	Buildings       string `json:"buildings"`
}

// Column returns the raw cell for a damage field.
func (r RawRecord) Column(f DamageField) string {
	switch f {
	case SewerAndWater:
		return r.SewerAndWater
	case Power:
		return r.Power
	case RoadsAndBridges:
		return r.RoadsAndBridges
	case Medical:
		return r.Medical
	case Buildings:
		return r.Buildings
	default:
		return ""
	}
}

// SetColumn assigns the raw cell for a damage field.
func (r *RawRecord) SetColumn(f DamageField, v string) {
	switch f {
	case SewerAndWater:
		r.SewerAndWater = v
	case Power:
		r.Power = v
	case RoadsAndBridges:
		r.RoadsAndBridges = v
	case Medical:
		r.Medical = v
	case Buildings:
		r.Buildings = v
	}
}

// timeLayouts are tried in order. Layouts without a zone are parsed as UTC.
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
}

// ParseTimestamp parses the report time column. The second result is false
// for blank or unrecognized input.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil && !t.IsZero() {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseScore parses a damage cell. Blank cells are missing without error;
// unparseable or non-finite cells are missing with an error.
func ParseScore(s string) (Score, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MissingScore(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return MissingScore(), fmt.Errorf("parse score %q: %w", s, err)
	}
	score := NewScore(v)
	if !score.Present() {
		return score, fmt.Errorf("parse score %q: non-finite value", s)
	}
	return score, nil
}

// ParseRecord validates one raw row into a Report. Malformed values are
// dropped from the report and described in the returned diagnostics; parsing
// never fails as a whole.
func ParseRecord(rec RawRecord) (Report, []Diagnostic) {
	var diags []Diagnostic

	report := Report{Location: strings.TrimSpace(rec.Location)}

	if strings.TrimSpace(rec.Time) != "" {
		report.TimeGiven = true
		t, ok := ParseTimestamp(rec.Time)
		if ok {
			report.Time = t
		} else {
			diags = append(diags, Diagnostic{
				Neighborhood: report.Location,
				Code:         CodeMalformedTimestamp,
				Message:      fmt.Sprintf("unparseable timestamp %q", rec.Time),
			})
		}
	}

	for _, f := range DamageFields {
		score, err := ParseScore(rec.Column(f))
		if err != nil {
			diags = append(diags, Diagnostic{
				Neighborhood: report.Location,
				Field:        f.String(),
				Code:         CodeMalformedScore,
				Message:      err.Error(),
			})
		}
		report.Damage[f] = score
	}

	return report, diags
}

// ParseRecords validates a batch of rows, preserving order.
func ParseRecords(recs []RawRecord) ([]Report, []Diagnostic) {
	reports := make([]Report, 0, len(recs))
	var diags []Diagnostic
	for _, rec := range recs {
		r, d := ParseRecord(rec)
		reports = append(reports, r)
		diags = append(diags, d...)
	}
	return reports, diags
}
