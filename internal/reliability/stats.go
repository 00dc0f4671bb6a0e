package reliability

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// FieldError attributes a degenerate statistic to one damage field.
type FieldError struct {
	Field domain.DamageField
	Err   error
}

func (e *FieldError) Error() string { return e.Field.String() + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

func tooFewTimestamps(n int) error {
	return fmt.Errorf("%w: have %d", ErrTooFewTimestamps, n)
}

// validTimes returns the valid report timestamps in ascending order.
func validTimes(reports []domain.Report) []time.Time {
	times := make([]time.Time, 0, len(reports))
	for _, r := range reports {
		if r.HasTime() {
			times = append(times, r.Time)
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	return times
}

// fieldValues returns the present values of one damage field.
func fieldValues(reports []domain.Report, f domain.DamageField) []float64 {
	values := make([]float64, 0, len(reports))
	for _, r := range reports {
		if v, ok := r.Score(f).Value(); ok {
			values = append(values, v)
		}
	}
	return values
}

// hourIndex numbers the clock hour containing t.
func hourIndex(t time.Time) int64 {
	return t.UTC().Truncate(time.Hour).Unix() / int64(time.Hour/time.Second)
}

// spanHours is the elapsed time between the first and last of sorted times.
func spanHours(times []time.Time) float64 {
	return times[len(times)-1].Sub(times[0]).Hours()
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// sampleStdDev is the n-1 standard deviation, 0 below two values.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}

// sampleVariance is the n-1 variance, 0 below two values.
func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.Variance(xs, nil)
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
