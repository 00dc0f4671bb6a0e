package reliability

import (
	"time"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

var baseTime = time.Date(2020, time.April, 6, 0, 0, 0, 0, time.UTC)

// report builds a report at baseTime+offset with the same score in every field.
func report(location string, offset time.Duration, score float64) domain.Report {
	r := domain.Report{Location: location, Time: baseTime.Add(offset)}
	for _, f := range domain.DamageFields {
		r.Damage[f] = domain.NewScore(score)
	}
	return r
}

// reportWith builds a report with explicit per-field scores; nil means missing.
func reportWith(location string, offset time.Duration, scores ...*float64) domain.Report {
	r := domain.Report{Location: location, Time: baseTime.Add(offset)}
	for i, s := range scores {
		if s != nil {
			r.Damage[i] = domain.NewScore(*s)
		}
	}
	return r
}

func ptr(v float64) *float64 { return &v }

func hourly(location string, n int, score float64) []domain.Report {
	reports := make([]domain.Report, n)
	for i := range reports {
		reports[i] = report(location, time.Duration(i)*time.Hour, score)
	}
	return reports
}
