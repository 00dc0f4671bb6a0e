package reliability

import (
	"fmt"
	"time"
)

// Normalize maps value from [lo, hi] onto [0,1], clamping outside values.
// A non-finite value returns 0 with ErrNonFinite; equal bounds return 0 with
// ErrEmptyRange.
func Normalize(value, lo, hi float64) (float64, error) {
	if !finite(value) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, value)
	}
	if lo == hi {
		return 0, fmt.Errorf("%w: [%v, %v]", ErrEmptyRange, lo, hi)
	}
	return clamp01((value - lo) / (hi - lo)), nil
}

// NormalizeFrequency maps reports/hour onto [0,1] against ceiling.
func NormalizeFrequency(perHour, ceiling float64) (float64, error) {
	return Normalize(perHour, 0, ceiling)
}

// NormalizeTimeliness maps an average gap onto [0,1], inverted so that a gap
// of zero scores 1 and a gap at or beyond ceiling scores 0.
func NormalizeTimeliness(gapHours float64, ceiling time.Duration) (float64, error) {
	n, err := Normalize(gapHours, 0, ceiling.Hours())
	if err != nil {
		return 0, err
	}
	return 1 - n, nil
}
