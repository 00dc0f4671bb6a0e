package reliability

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

const epsilon = 1e-9

func TestMetrics_UniformThreeReportsOverTwoHours(t *testing.T) {
	reports := []domain.Report{
		report("1", 0, 5),
		report("1", time.Hour, 5),
		report("1", 2*time.Hour, 5),
	}

	completeness, err := Completeness(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, completeness, epsilon)

	detail, err := Detail(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, detail, epsilon)

	consistency, err := Consistency(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, consistency, epsilon)

	accuracy, err := Accuracy(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, accuracy, epsilon)

	frequency, err := Frequency(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, frequency, epsilon)

	gap, err := Timeliness(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, gap, epsilon)

	coverage, err := Coverage(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, coverage, epsilon)

	rate, err := ResponseRate(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rate, epsilon)
}

func TestMetrics_SingleReport(t *testing.T) {
	reports := []domain.Report{
		reportWith("4", 0, ptr(3), ptr(12), nil, ptr(1), ptr(0)),
	}

	for name, calc := range map[string]func([]domain.Report) (float64, error){
		"frequency":     Frequency,
		"timeliness":    Timeliness,
		"coverage":      Coverage,
		"response rate": ResponseRate,
	} {
		t.Run(name, func(t *testing.T) {
			v, err := calc(reports)
			assert.Equal(t, 0.0, v)
			assert.ErrorIs(t, err, ErrTooFewTimestamps)
		})
	}

	completeness, err := Completeness(reports)
	require.NoError(t, err)
	assert.InDelta(t, 3.0/5, completeness, epsilon, "12 is out of range, roads_and_bridges missing")

	detail, err := Detail(reports)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/5, detail, epsilon)
}

func TestMetrics_EmptyGroup(t *testing.T) {
	calcs := map[string]func([]domain.Report) (float64, error){
		"frequency":     Frequency,
		"consistency":   Consistency,
		"timeliness":    Timeliness,
		"completeness":  Completeness,
		"coverage":      Coverage,
		"accuracy":      Accuracy,
		"detail":        Detail,
		"response rate": ResponseRate,
	}
	for name, calc := range calcs {
		t.Run(name, func(t *testing.T) {
			v, err := calc(nil)
			assert.Equal(t, 0.0, v)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEmptyGroup) || errors.Is(err, ErrTooFewTimestamps), err.Error())
		})
	}
}

func TestMetrics_FieldFullyMissing(t *testing.T) {
	reports := []domain.Report{
		reportWith("2", 0, ptr(5), ptr(5), ptr(5), nil, ptr(5)),
		reportWith("2", time.Hour, ptr(5), ptr(5), ptr(5), nil, ptr(5)),
	}

	consistency, err := Consistency(reports)
	assert.InDelta(t, 4.0/5, consistency, epsilon)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, domain.Medical, fe.Field)
	assert.ErrorIs(t, err, ErrNoValues)

	accuracy, err := Accuracy(reports)
	assert.InDelta(t, 4.0/5, accuracy, epsilon)
	assert.ErrorIs(t, err, ErrNoValues)
	assert.False(t, math.IsNaN(accuracy))
}

func TestMetrics_AllMissing(t *testing.T) {
	reports := []domain.Report{
		reportWith("3", 0),
		reportWith("3", time.Hour),
	}

	consistency, err := Consistency(reports)
	assert.Equal(t, 0.0, consistency)
	assert.ErrorIs(t, err, ErrNoValues)

	accuracy, err := Accuracy(reports)
	assert.Equal(t, 0.0, accuracy)
	assert.ErrorIs(t, err, ErrNoValues)

	completeness, err := Completeness(reports)
	require.NoError(t, err)
	assert.Equal(t, 0.0, completeness)

	detail, err := Detail(reports)
	require.NoError(t, err)
	assert.Equal(t, 0.0, detail)
}

func TestAccuracy_ZeroMeanClampsToZero(t *testing.T) {
	reports := []domain.Report{
		reportWith("5", 0, ptr(0), ptr(4), ptr(4), ptr(4), ptr(4)),
		reportWith("5", time.Hour, ptr(0), ptr(4), ptr(4), ptr(4), ptr(4)),
	}

	accuracy, err := Accuracy(reports)
	assert.ErrorIs(t, err, ErrZeroMean)
	assert.InDelta(t, 4.0/5, accuracy, epsilon)

	consistency, err := Consistency(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, consistency, epsilon, "constant zeros are perfectly consistent")
}

func TestConsistencyAndAccuracy_Spread(t *testing.T) {
	reports := []domain.Report{
		report("6", 0, 2),
		report("6", time.Hour, 4),
	}

	consistency, err := Consistency(reports)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, consistency, epsilon, "MAD of {2,4} is 1")

	accuracy, err := Accuracy(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1-math.Sqrt2/3, accuracy, epsilon, "sample stddev of {2,4} is sqrt(2)")
}

func TestAccuracy_SingleValueHasNoDeviation(t *testing.T) {
	accuracy, err := Accuracy([]domain.Report{report("7", 0, 8)})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, accuracy, epsilon)
}

func TestCompleteness_MissingLocationOrTimeScoresZero(t *testing.T) {
	noLocation := report("", 0, 5)
	noTime := report("8", 0, 5)
	noTime.Time = time.Time{}
	full := report("8", time.Hour, 5)

	completeness, err := Completeness([]domain.Report{noLocation, noTime, full})
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, completeness, epsilon)

	detail, err := Detail([]domain.Report{noLocation, noTime, full})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, detail, epsilon, "detail ignores location and time")
}

func TestCompleteness_MalformedTimeStillScores(t *testing.T) {
	malformed, diags := domain.ParseRecord(domain.RawRecord{
		Time: "not-a-date", Location: "3",
		SewerAndWater: "5", Power: "5", RoadsAndBridges: "5", Medical: "5", Buildings: "5",
	})
	require.Len(t, diags, 1)
	require.False(t, malformed.HasTime())
	require.True(t, malformed.TimeProvided())

	completeness, err := Completeness([]domain.Report{malformed})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, completeness, epsilon)

	blank, _ := domain.ParseRecord(domain.RawRecord{
		Time: "  ", Location: "3",
		SewerAndWater: "5", Power: "5", RoadsAndBridges: "5", Medical: "5", Buildings: "5",
	})
	completeness, err = Completeness([]domain.Report{malformed, blank})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, completeness, epsilon)
}

func TestCompleteness_RangeChecked(t *testing.T) {
	reports := []domain.Report{
		reportWith("9", 0, ptr(-1), ptr(10), ptr(10.5), ptr(0), ptr(7)),
	}

	completeness, err := Completeness(reports)
	require.NoError(t, err)
	assert.InDelta(t, 3.0/5, completeness, epsilon)

	detail, err := Detail(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, detail, epsilon)
}

func TestTimeMetrics_InvalidTimestampsExcluded(t *testing.T) {
	invalid := report("10", 0, 5)
	invalid.Time = time.Time{}
	reports := []domain.Report{invalid, report("10", 3*time.Hour, 5)}

	_, err := Frequency(reports)
	assert.ErrorIs(t, err, ErrTooFewTimestamps)
	_, err = Timeliness(reports)
	assert.ErrorIs(t, err, ErrTooFewTimestamps)
	_, err = Coverage(reports)
	assert.ErrorIs(t, err, ErrTooFewTimestamps)
	_, err = ResponseRate(reports)
	assert.ErrorIs(t, err, ErrTooFewTimestamps)
}

func TestTimeMetrics_IdenticalTimestamps(t *testing.T) {
	reports := []domain.Report{report("11", 0, 1), report("11", 0, 1), report("11", 0, 1)}

	frequency, err := Frequency(reports)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, frequency, epsilon, "span floors at one hour")

	gap, err := Timeliness(reports)
	require.NoError(t, err)
	assert.Equal(t, 0.0, gap)

	coverage, err := Coverage(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, coverage, epsilon)

	rate, err := ResponseRate(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rate, epsilon)
}

func TestFrequency_CountsAllReportsInGroup(t *testing.T) {
	undated := report("12", 0, 5)
	undated.Time = time.Time{}
	reports := []domain.Report{undated, report("12", 0, 5), report("12", 4*time.Hour, 5)}

	frequency, err := Frequency(reports)
	require.NoError(t, err)
	assert.InDelta(t, 3.0/4, frequency, epsilon)
}

func TestTimeliness_UnsortedInput(t *testing.T) {
	reports := []domain.Report{
		report("13", 6*time.Hour, 5),
		report("13", 0, 5),
		report("13", 2*time.Hour, 5),
	}
	gap, err := Timeliness(reports)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, gap, epsilon)
}

func TestCoverage_SparseHours(t *testing.T) {
	reports := []domain.Report{
		report("14", 0, 5),
		report("14", 30*time.Minute, 5),
		report("14", 4*time.Hour, 5),
	}
	coverage, err := Coverage(reports)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/4, coverage, epsilon)
}

func TestCoverage_TruncatesToClockHour(t *testing.T) {
	reports := []domain.Report{
		report("14", 59*time.Minute, 5),
		report("14", 61*time.Minute, 5),
		report("14", 3*time.Hour+59*time.Minute, 5),
	}
	coverage, err := Coverage(reports)
	require.NoError(t, err)
	assert.InDelta(t, 3.0/3, coverage, epsilon)
}

func TestResponseRate_WeightedCombination(t *testing.T) {
	reports := []domain.Report{
		report("15", 0, 5),
		report("15", 30*time.Minute, 5),
		report("15", 4*time.Hour, 5),
	}
	rate, err := ResponseRate(reports)
	require.NoError(t, err)
	// hours 0..4: counts {2,0,0,0,1}; mean 0.6, peak 2, 2 of 5 hours covered.
	assert.InDelta(t, 0.7*(0.6/2)+0.3*(2.0/5), rate, epsilon)

	custom, err := responseRate(reports, ResponseWeights{Rate: 0, Coverage: 1})
	require.NoError(t, err)
	assert.InDelta(t, 2.0/5, custom, epsilon)
}

func TestMetrics_HundredHourlyReports(t *testing.T) {
	reports := hourly("16", 100, 5)

	coverage, err := Coverage(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, coverage, epsilon)

	rate, err := ResponseRate(reports)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rate, epsilon)
}
