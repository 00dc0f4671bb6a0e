// Command validate checks a snapshot JSON file against the output
// invariants: every profile carries the eight axes in fixed order, values
// are finite and normalized into [0,1], neighborhoods are unique and in
// natural order, placeholders are zero-filled, and the uncertainty list
// lines up with the profiles. With -reports it also recomputes the
// snapshot from the report CSV and diffs the profiles.
//
// Usage:
//
//	go run ./cmd/validate -snapshot out/snapshot.json [-reports data/reports.csv]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/couchcryptid/storm-data-reliability/internal/adapter/csvfile"
	"github.com/couchcryptid/storm-data-reliability/internal/adapter/jsonfile"
	"github.com/couchcryptid/storm-data-reliability/internal/domain"
	"github.com/couchcryptid/storm-data-reliability/internal/reliability"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshotPath := flag.String("snapshot", "", "path to snapshot JSON")
	reportsPath := flag.String("reports", "", "optional report CSV to recompute the snapshot from")
	flag.Parse()

	if *snapshotPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*snapshotPath, *reportsPath, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(snapshotPath, reportsPath string, out io.Writer) int {
	fmt.Fprintln(out, "=== Reliability Snapshot Validation ===")

	snap, err := jsonfile.ReadFile(snapshotPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateProfiles(snap),
		validateOrdering(snap),
		validatePlaceholders(snap),
		validateUncertainty(snap),
	}
	if reportsPath != "" {
		phases = append(phases, validateRecompute(snap, reportsPath))
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
	}
	fmt.Fprintf(out, "\nProfiles: %d, reports: %d, diagnostics: %d\n",
		len(snap.Profiles), snap.ReportCount, len(snap.Diagnostics))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateProfiles(snap domain.Snapshot) *phase {
	p := &phase{name: "Axes and value ranges"}
	for _, prof := range snap.Profiles {
		if len(prof.Values) != domain.NumAxes {
			p.errorf("%s: %d metrics, want %d", prof.Neighborhood, len(prof.Values), domain.NumAxes)
			continue
		}
		for i, m := range prof.Values {
			if m.Axis != domain.Axes[i] {
				p.errorf("%s: position %d is %q, want %q", prof.Neighborhood, i, m.Axis, domain.Axes[i])
			}
			if math.IsNaN(m.Value) || m.Value < 0 || m.Value > 1 {
				p.errorf("%s: %s value %v outside [0,1]", prof.Neighborhood, m.Axis, m.Value)
			}
			if math.IsNaN(m.Raw) || math.IsInf(m.Raw, 0) {
				p.errorf("%s: %s raw value %v is not finite", prof.Neighborhood, m.Axis, m.Raw)
			}
		}
	}
	return p
}

func validateOrdering(snap domain.Snapshot) *phase {
	p := &phase{name: "Unique neighborhoods in order"}
	seen := make(map[string]bool, len(snap.Profiles))
	for i, prof := range snap.Profiles {
		if seen[prof.Neighborhood] {
			p.errorf("duplicate neighborhood %q", prof.Neighborhood)
		}
		seen[prof.Neighborhood] = true
		if i > 0 && reliability.NeighborhoodLess(prof.Neighborhood, snap.Profiles[i-1].Neighborhood) {
			p.errorf("%q listed after %q", prof.Neighborhood, snap.Profiles[i-1].Neighborhood)
		}
	}
	return p
}

func validatePlaceholders(snap domain.Snapshot) *phase {
	p := &phase{name: "Placeholder profiles"}
	for _, prof := range snap.Profiles {
		if !prof.Placeholder {
			if prof.Reports == 0 {
				p.errorf("%s: zero reports but not marked placeholder", prof.Neighborhood)
			}
			continue
		}
		if prof.Reports != 0 {
			p.errorf("%s: placeholder with %d reports", prof.Neighborhood, prof.Reports)
		}
		for _, m := range prof.Values {
			if m.Value != 0 || m.Raw != 0 {
				p.errorf("%s: placeholder %s is %v (raw %v)", prof.Neighborhood, m.Axis, m.Value, m.Raw)
			}
		}
	}
	return p
}

func validateUncertainty(snap domain.Snapshot) *phase {
	p := &phase{name: "Uncertainty alignment"}
	if len(snap.Uncertainty) != len(snap.Profiles) {
		p.errorf("%d uncertainty entries for %d profiles", len(snap.Uncertainty), len(snap.Profiles))
		return p
	}
	for i, u := range snap.Uncertainty {
		if u.Neighborhood != snap.Profiles[i].Neighborhood {
			p.errorf("position %d: uncertainty for %q, profile for %q", i, u.Neighborhood, snap.Profiles[i].Neighborhood)
		}
		for name, rv := range map[string]domain.RatedValue{
			"completeness": u.Completeness,
			"variance":     u.Variance,
			"count":        u.Count,
			"accuracy":     u.Accuracy,
		} {
			if math.IsNaN(rv.Value) || rv.Value < 0 || rv.Value > 1 {
				p.errorf("%s: %s value %v outside [0,1]", u.Neighborhood, name, rv.Value)
			}
		}
	}
	return p
}

// validateRecompute rebuilds the profiles from the report file with default
// calibration and compares them with the snapshot. Every neighborhood in the
// snapshot is declared so placeholders are reproduced.
func validateRecompute(snap domain.Snapshot, reportsPath string) *phase {
	p := &phase{name: "Recompute from reports"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recs, err := csvfile.NewReader(reportsPath, logger).Extract(context.Background())
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	reports, _ := domain.ParseRecords(recs)

	declared := make([]string, 0, len(snap.Profiles))
	for _, prof := range snap.Profiles {
		declared = append(declared, prof.Neighborhood)
	}
	result := reliability.NewEngine(reliability.DefaultOptions()).Run(reports, declared)

	if len(reports) != snap.ReportCount {
		p.errorf("report count %d, snapshot says %d", len(reports), snap.ReportCount)
	}
	if diff := cmp.Diff(result.Profiles, snap.Profiles, cmpopts.EquateApprox(0, 1e-9), cmpopts.EquateEmpty()); diff != "" {
		p.errorf("profiles differ (-recomputed +snapshot):\n%s", diff)
	}
	return p
}
