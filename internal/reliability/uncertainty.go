package reliability

import "github.com/couchcryptid/storm-data-reliability/internal/domain"

// Choropleth normalization ceilings.
const (
	VarianceCeiling = 10.0
	CountCeiling    = 100.0
)

// Uncertainty computes the choropleth summary for one neighborhood: detail
// completeness, mean per-field sample variance, report count and accuracy.
// Degenerate inputs score 0 on the affected measure.
func Uncertainty(group domain.ReportGroup) domain.UncertaintySummary {
	reports := group.Reports
	summary := domain.UncertaintySummary{Neighborhood: group.Neighborhood}
	if len(reports) == 0 {
		return summary
	}

	completeness, _ := Detail(reports)
	summary.Completeness = rated(completeness, 0, 1)

	var variance float64
	for _, f := range domain.DamageFields {
		variance += sampleVariance(fieldValues(reports, f))
	}
	variance /= domain.NumDamageFields
	summary.Variance = rated(variance, 0, VarianceCeiling)

	summary.Count = rated(float64(len(reports)), 0, CountCeiling)

	accuracy, _ := Accuracy(reports)
	summary.Accuracy = rated(accuracy, 0, 1)

	return summary
}

func rated(raw, lo, hi float64) domain.RatedValue {
	if !finite(raw) {
		return domain.RatedValue{}
	}
	v, _ := Normalize(raw, lo, hi)
	return domain.RatedValue{Raw: raw, Value: v}
}
