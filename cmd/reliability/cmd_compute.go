package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-data-reliability/internal/adapter/csvfile"
	"github.com/couchcryptid/storm-data-reliability/internal/adapter/jsonfile"
	"github.com/couchcryptid/storm-data-reliability/internal/neighborhoods"
	"github.com/couchcryptid/storm-data-reliability/internal/observability"
	"github.com/couchcryptid/storm-data-reliability/internal/pipeline"
	"github.com/couchcryptid/storm-data-reliability/internal/reliability"
)

var computeFlags struct {
	input             string
	output            string
	neighborhoodsPath string
	declare           bool
	frequencyCeiling  float64
	timelinessCeiling string
	workers           int
	logLevel          string
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute a reliability snapshot from a report file",
	Long: `Reads a CSV of damage reports, computes the eight reliability metrics,
the uncertainty summary, and the hourly damage series for every
neighborhood, and writes the snapshot as JSON.

The snapshot goes to stdout unless --output is set. Diagnostics are part of
the snapshot; logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runCompute,
}

func init() {
	f := computeCmd.Flags()
	f.StringVarP(&computeFlags.input, "input", "i", "data/reports.csv", "Report CSV path")
	f.StringVarP(&computeFlags.output, "output", "o", "", "Snapshot JSON path (default: stdout)")
	f.StringVar(&computeFlags.neighborhoodsPath, "neighborhoods", "", "Neighborhood catalog YAML (default: built-in St. Himark table)")
	f.BoolVar(&computeFlags.declare, "declare", true, "Emit placeholder profiles for catalog neighborhoods without reports")
	f.Float64Var(&computeFlags.frequencyCeiling, "frequency-ceiling", reliability.DefaultFrequencyCeiling, "Reports per hour scored as 1")
	f.StringVar(&computeFlags.timelinessCeiling, "timeliness-ceiling", reliability.DefaultTimelinessCeiling.String(), "Average gap scored as 0")
	f.IntVar(&computeFlags.workers, "workers", reliability.DefaultWorkers, "Parallel neighborhood workers (1 = sequential)")
	f.StringVar(&computeFlags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
}

func runCompute(cmd *cobra.Command, _ []string) error {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: levelFor(computeFlags.logLevel)}))

	opts, err := engineOptions(computeFlags.frequencyCeiling, computeFlags.timelinessCeiling, computeFlags.workers)
	if err != nil {
		return err
	}

	catalog, err := neighborhoods.LoadOrDefault(computeFlags.neighborhoodsPath)
	if err != nil {
		return err
	}

	var pipeOpts []pipeline.Option
	if computeFlags.declare {
		pipeOpts = append(pipeOpts, pipeline.WithDeclared(catalog.IDs()))
	}

	var loader pipeline.Loader
	if computeFlags.output != "" {
		loader = jsonfile.NewWriter(computeFlags.output, logger)
	}

	p := pipeline.New(
		csvfile.NewReader(computeFlags.input, logger),
		reliability.NewEngine(opts),
		loader,
		logger,
		observability.NewMetricsWith(prometheus.NewRegistry()),
		pipeOpts...,
	)
	if err := p.RunOnce(cmd.Context()); err != nil {
		return fmt.Errorf("compute snapshot: %w", err)
	}

	snap := p.Latest()
	logger.Info("snapshot computed", "reports", snap.ReportCount, "profiles", len(snap.Profiles), "diagnostics", len(snap.Diagnostics))
	if computeFlags.output != "" {
		return nil
	}
	return jsonfile.Encode(cmd.OutOrStdout(), *snap)
}
