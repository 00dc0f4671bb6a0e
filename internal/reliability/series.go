package reliability

import (
	"sort"
	"time"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// HourlySeries buckets reports with a valid timestamp by clock hour and
// summarizes one damage field per bucket: mean, sample standard deviation and
// the number of present values. Buckets are in ascending time order; a bucket
// whose reports all lack the field has zero mean and count.
func HourlySeries(reports []domain.Report, field domain.DamageField) []domain.HourlyPoint {
	buckets := make(map[time.Time][]float64)
	for _, r := range reports {
		if !r.HasTime() {
			continue
		}
		hour := r.Time.UTC().Truncate(time.Hour)
		values := buckets[hour]
		if v, ok := r.Score(field).Value(); ok {
			values = append(values, v)
		}
		buckets[hour] = values
	}

	points := make([]domain.HourlyPoint, 0, len(buckets))
	for hour, values := range buckets {
		points = append(points, domain.HourlyPoint{
			Hour:   hour,
			Mean:   mean(values),
			StdDev: sampleStdDev(values),
			Count:  len(values),
		})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Hour.Before(points[j].Hour) })
	return points
}

// AllHourlySeries computes HourlySeries for every damage field, keyed by
// column name.
func AllHourlySeries(reports []domain.Report) map[string][]domain.HourlyPoint {
	series := make(map[string][]domain.HourlyPoint, domain.NumDamageFields)
	for _, f := range domain.DamageFields {
		series[f.String()] = HourlySeries(reports, f)
	}
	return series
}
