package reliability

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// Frequency returns reports per hour between the earliest and latest valid
// timestamps. The span is floored at one hour so identical timestamps do not
// divide by zero.
func Frequency(reports []domain.Report) (float64, error) {
	times := validTimes(reports)
	if len(times) < 2 {
		return 0, tooFewTimestamps(len(times))
	}
	hours := math.Max(1, spanHours(times))
	return float64(len(reports)) / hours, nil
}

// Consistency averages 1/(1+MAD) over the damage fields, where MAD is the
// mean absolute deviation from the field mean. A field with no values
// contributes 0.
func Consistency(reports []domain.Report) (float64, error) {
	if len(reports) == 0 {
		return 0, ErrEmptyGroup
	}

	var total float64
	var errs []error
	for _, f := range domain.DamageFields {
		values := fieldValues(reports, f)
		if len(values) == 0 {
			errs = append(errs, &FieldError{Field: f, Err: ErrNoValues})
			continue
		}
		m := mean(values)
		deviations := make([]float64, len(values))
		for i, v := range values {
			deviations[i] = math.Abs(v - m)
		}
		total += clamp01(1 / (1 + mean(deviations)))
	}
	return total / domain.NumDamageFields, errors.Join(errs...)
}

// Timeliness returns the average gap in hours between chronologically
// consecutive valid timestamps.
func Timeliness(reports []domain.Report) (float64, error) {
	times := validTimes(reports)
	if len(times) < 2 {
		return 0, tooFewTimestamps(len(times))
	}
	gaps := make([]float64, len(times)-1)
	for i := 1; i < len(times); i++ {
		gaps[i-1] = times[i].Sub(times[i-1]).Hours()
	}
	return mean(gaps), nil
}

// Completeness averages, per report, the fraction of damage fields holding a
// value in the 0–10 range. Reports with a blank location or blank time score
// 0; a malformed but non-blank time still scores its fields.
func Completeness(reports []domain.Report) (float64, error) {
	if len(reports) == 0 {
		return 0, ErrEmptyGroup
	}
	scores := make([]float64, len(reports))
	for i, r := range reports {
		if r.Location == "" || !r.TimeProvided() {
			continue
		}
		n := 0
		for _, s := range r.Damage {
			if s.InRange() {
				n++
			}
		}
		scores[i] = float64(n) / domain.NumDamageFields
	}
	return mean(scores), nil
}

// Coverage is the number of distinct clock hours holding a report divided by
// the hour span between the earliest and latest report, capped at 1.
func Coverage(reports []domain.Report) (float64, error) {
	times := validTimes(reports)
	if len(times) < 2 {
		return 0, tooFewTimestamps(len(times))
	}
	totalHours := math.Max(1, spanHours(times))
	buckets := make(map[int64]struct{}, len(times))
	for _, t := range times {
		buckets[hourIndex(t)] = struct{}{}
	}
	return math.Min(1, float64(len(buckets))/totalHours), nil
}

// Accuracy averages max(0, 1 − stddev/mean) over the damage fields. A field
// with no values or a zero mean contributes 0.
func Accuracy(reports []domain.Report) (float64, error) {
	if len(reports) == 0 {
		return 0, ErrEmptyGroup
	}

	var total float64
	var errs []error
	for _, f := range domain.DamageFields {
		values := fieldValues(reports, f)
		if len(values) == 0 {
			errs = append(errs, &FieldError{Field: f, Err: ErrNoValues})
			continue
		}
		m := mean(values)
		if m == 0 {
			errs = append(errs, &FieldError{Field: f, Err: ErrZeroMean})
			continue
		}
		total += clamp01(1 - sampleStdDev(values)/m)
	}
	return total / domain.NumDamageFields, errors.Join(errs...)
}

// Detail averages, per report, the fraction of damage fields holding any
// finite number, in range or not.
func Detail(reports []domain.Report) (float64, error) {
	if len(reports) == 0 {
		return 0, ErrEmptyGroup
	}
	scores := make([]float64, len(reports))
	for i, r := range reports {
		n := 0
		for _, s := range r.Damage {
			if s.Present() {
				n++
			}
		}
		scores[i] = float64(n) / domain.NumDamageFields
	}
	return mean(scores), nil
}

// ResponseWeights combines the two Response Rate components.
type ResponseWeights struct {
	// Rate weights mean hourly rate over peak hourly rate.
	Rate float64
	// Coverage weights the fraction of hours in the span with a report.
	Coverage float64
}

// DefaultResponseWeights favors a steady reporting rate.
var DefaultResponseWeights = ResponseWeights{Rate: 0.7, Coverage: 0.3}

// ResponseRate scores a neighborhood's reporting rhythm using
// DefaultResponseWeights.
func ResponseRate(reports []domain.Report) (float64, error) {
	return responseRate(reports, DefaultResponseWeights)
}

// responseRate counts reports per clock hour over every hour from the first
// to the last report, empty hours included, and combines mean/peak rate with
// the fraction of non-empty hours.
func responseRate(reports []domain.Report, w ResponseWeights) (float64, error) {
	times := validTimes(reports)
	if len(times) < 2 {
		return 0, tooFewTimestamps(len(times))
	}

	start := hourIndex(times[0])
	totalHours := float64(hourIndex(times[len(times)-1]) - start + 1)

	perHour := make(map[int64]float64, len(times))
	for _, t := range times {
		perHour[hourIndex(t)]++
	}
	counts := make([]float64, 0, len(perHour))
	for _, c := range perHour {
		counts = append(counts, c)
	}

	peak := floats.Max(counts)
	if peak == 0 {
		return 0, ErrZeroMean
	}
	avg := float64(len(times)) / totalHours
	coverage := float64(len(perHour)) / totalHours

	return clamp01(w.Rate*(avg/peak) + w.Coverage*coverage), nil
}
