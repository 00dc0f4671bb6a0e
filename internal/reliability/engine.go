package reliability

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// Default calibration. Both ceilings are domain choices, not laws.
const (
	DefaultFrequencyCeiling  = 5.0 // reports/hour scored as 1
	DefaultTimelinessCeiling = 24 * time.Hour
	DefaultWorkers           = 4
)

// Options tunes normalization and parallelism.
type Options struct {
	// FrequencyCeiling is the report rate mapped to a normalized 1.
	FrequencyCeiling float64
	// TimelinessCeiling is the average gap mapped to a normalized 0.
	TimelinessCeiling time.Duration
	ResponseWeights   ResponseWeights
	// Workers bounds concurrent neighborhood computations; 1 is sequential.
	Workers int
}

// DefaultOptions returns the stock calibration.
func DefaultOptions() Options {
	return Options{
		FrequencyCeiling:  DefaultFrequencyCeiling,
		TimelinessCeiling: DefaultTimelinessCeiling,
		ResponseWeights:   DefaultResponseWeights,
		Workers:           DefaultWorkers,
	}
}

// Engine turns report groups into neighborhood profiles. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	opts Options
}

// NewEngine creates an Engine. Zero-valued options fall back to defaults.
func NewEngine(opts Options) *Engine {
	def := DefaultOptions()
	if opts.FrequencyCeiling <= 0 {
		opts.FrequencyCeiling = def.FrequencyCeiling
	}
	if opts.TimelinessCeiling <= 0 {
		opts.TimelinessCeiling = def.TimelinessCeiling
	}
	if opts.ResponseWeights == (ResponseWeights{}) {
		opts.ResponseWeights = def.ResponseWeights
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{opts: opts}
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

// Result is the output of one engine run.
type Result struct {
	Profiles    []domain.NeighborhoodProfile
	Uncertainty []domain.UncertaintySummary
	Diagnostics []domain.Diagnostic
}

// axisSpec binds an axis to its calculator and normalization.
type axisSpec struct {
	axis      domain.Axis
	unit      string
	calculate func([]domain.Report) (float64, error)
	normalize func(raw float64) (float64, error)
}

func (e *Engine) axisSpecs() [domain.NumAxes]axisSpec {
	bounded := func(raw float64) (float64, error) { return Normalize(raw, 0, 1) }
	return [domain.NumAxes]axisSpec{
		{domain.AxisFrequency, domain.UnitReportsPerHour, Frequency, func(raw float64) (float64, error) {
			return NormalizeFrequency(raw, e.opts.FrequencyCeiling)
		}},
		{domain.AxisConsistency, domain.UnitRatio, Consistency, bounded},
		{domain.AxisTimeliness, domain.UnitHours, Timeliness, func(raw float64) (float64, error) {
			return NormalizeTimeliness(raw, e.opts.TimelinessCeiling)
		}},
		{domain.AxisCompleteness, domain.UnitRatio, Completeness, bounded},
		{domain.AxisCoverage, domain.UnitRatio, Coverage, bounded},
		{domain.AxisAccuracy, domain.UnitRatio, Accuracy, bounded},
		{domain.AxisDetail, domain.UnitRatio, Detail, bounded},
		{domain.AxisResponseRate, domain.UnitRatio, func(r []domain.Report) (float64, error) {
			return responseRate(r, e.opts.ResponseWeights)
		}, bounded},
	}
}

// Profile computes one neighborhood's profile. A group with no reports
// yields the Placeholder profile and a CodeEmptyNeighborhood diagnostic.
func (e *Engine) Profile(group domain.ReportGroup) (domain.NeighborhoodProfile, []domain.Diagnostic) {
	if len(group.Reports) == 0 {
		return Placeholder(group.Neighborhood), []domain.Diagnostic{emptyNeighborhood(group.Neighborhood)}
	}

	var diags []domain.Diagnostic
	values := make([]domain.MetricResult, 0, domain.NumAxes)

	for _, ax := range e.axisSpecs() {
		raw, err := ax.calculate(group.Reports)
		if err != nil {
			diags = append(diags, degenerate(group.Neighborhood, ax.axis, err)...)
		}
		if !finite(raw) {
			diags = append(diags, domain.Diagnostic{
				Neighborhood: group.Neighborhood,
				Axis:         ax.axis,
				Code:         domain.CodeNonFinite,
				Message:      fmt.Sprintf("raw value %v replaced by 0", raw),
			})
			raw = 0
		}

		var value float64
		if !neutral(err) {
			v, nerr := ax.normalize(raw)
			if nerr != nil {
				diags = append(diags, normalizationDiagnostic(group.Neighborhood, ax.axis, nerr))
			}
			value = v
		}

		values = append(values, domain.MetricResult{
			Axis:  ax.axis,
			Value: value,
			Raw:   raw,
			Unit:  ax.unit,
		})
	}

	return domain.NeighborhoodProfile{
		Neighborhood: group.Neighborhood,
		Reports:      len(group.Reports),
		Values:       values,
	}, diags
}

// Placeholder is the documented profile for a neighborhood with no reports:
// every axis present, in order, with zero value and zero raw value.
func Placeholder(neighborhood string) domain.NeighborhoodProfile {
	values := make([]domain.MetricResult, 0, domain.NumAxes)
	for _, axis := range domain.Axes {
		values = append(values, domain.MetricResult{Axis: axis, Unit: unitFor(axis)})
	}
	return domain.NeighborhoodProfile{
		Neighborhood: neighborhood,
		Placeholder:  true,
		Values:       values,
	}
}

// Run groups reports and profiles every neighborhood found. Each id in
// declared that has no reports gets a Placeholder profile; pass nil to emit
// only neighborhoods present in the input. Profiles are in natural id order.
// Identical input always yields identical output.
func (e *Engine) Run(reports []domain.Report, declared []string) Result {
	groups, diags := GroupReports(reports)

	profiles := make([]domain.NeighborhoodProfile, len(groups))
	summaries := make([]domain.UncertaintySummary, len(groups))
	groupDiags := make([][]domain.Diagnostic, len(groups))

	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for i, group := range groups {
		g.Go(func() error {
			profiles[i], groupDiags[i] = e.Profile(group)
			summaries[i] = Uncertainty(group)
			return nil
		})
	}
	_ = g.Wait()

	for _, d := range groupDiags {
		diags = append(diags, d...)
	}

	present := make(map[string]bool, len(groups))
	for _, group := range groups {
		present[group.Neighborhood] = true
	}
	for _, id := range declared {
		if id == "" || present[id] {
			continue
		}
		present[id] = true
		profiles = append(profiles, Placeholder(id))
		summaries = append(summaries, domain.UncertaintySummary{Neighborhood: id})
		diags = append(diags, emptyNeighborhood(id))
	}

	sort.SliceStable(profiles, func(i, j int) bool {
		return NeighborhoodLess(profiles[i].Neighborhood, profiles[j].Neighborhood)
	})
	sort.SliceStable(summaries, func(i, j int) bool {
		return NeighborhoodLess(summaries[i].Neighborhood, summaries[j].Neighborhood)
	})

	return Result{Profiles: profiles, Uncertainty: summaries, Diagnostics: diags}
}

func unitFor(axis domain.Axis) string {
	switch axis {
	case domain.AxisFrequency:
		return domain.UnitReportsPerHour
	case domain.AxisTimeliness:
		return domain.UnitHours
	default:
		return domain.UnitRatio
	}
}

// neutral reports whether err means the whole metric falls back to 0.
func neutral(err error) bool {
	return errors.Is(err, ErrEmptyGroup) || errors.Is(err, ErrTooFewTimestamps)
}

func emptyNeighborhood(id string) domain.Diagnostic {
	return domain.Diagnostic{
		Neighborhood: id,
		Code:         domain.CodeEmptyNeighborhood,
		Message:      "no reports; zero-filled placeholder emitted",
	}
}

// degenerate flattens a possibly joined calculator error into diagnostics.
// normalizationDiagnostic reports a failed Normalize call. An empty range is a
// degenerate statistic; anything else is a non-finite value.
func normalizationDiagnostic(neighborhood string, axis domain.Axis, err error) domain.Diagnostic {
	code := domain.CodeNonFinite
	if errors.Is(err, ErrEmptyRange) {
		code = domain.CodeDegenerateStatistic
	}
	return domain.Diagnostic{
		Neighborhood: neighborhood,
		Axis:         axis,
		Code:         code,
		Message:      err.Error(),
	}
}

func degenerate(neighborhood string, axis domain.Axis, err error) []domain.Diagnostic {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	diags := make([]domain.Diagnostic, 0, len(errs))
	for _, e := range errs {
		d := domain.Diagnostic{
			Neighborhood: neighborhood,
			Axis:         axis,
			Code:         domain.CodeDegenerateStatistic,
			Message:      e.Error(),
		}
		var fe *FieldError
		if errors.As(e, &fe) {
			d.Field = fe.Field.String()
			d.Message = fe.Err.Error()
		}
		diags = append(diags, d)
	}
	return diags
}
