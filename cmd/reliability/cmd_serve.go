package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-data-reliability/internal/adapter/csvfile"
	httpadapter "github.com/couchcryptid/storm-data-reliability/internal/adapter/http"
	"github.com/couchcryptid/storm-data-reliability/internal/adapter/jsonfile"
	kafkaadapter "github.com/couchcryptid/storm-data-reliability/internal/adapter/kafka"
	"github.com/couchcryptid/storm-data-reliability/internal/config"
	"github.com/couchcryptid/storm-data-reliability/internal/neighborhoods"
	"github.com/couchcryptid/storm-data-reliability/internal/observability"
	"github.com/couchcryptid/storm-data-reliability/internal/pipeline"
	"github.com/couchcryptid/storm-data-reliability/internal/reliability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline and serve snapshots over HTTP",
	Long: `Runs the reliability pipeline with configuration from the environment
(and .env when present), publishes snapshots to the configured sinks, and
serves health, metrics, and snapshot views over HTTP until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	catalog, err := neighborhoods.LoadOrDefault(cfg.NeighborhoodsPath)
	if err != nil {
		return err
	}

	engine := reliability.NewEngine(reliability.Options{
		FrequencyCeiling:  cfg.FrequencyCeiling,
		TimelinessCeiling: cfg.TimelinessCeiling,
		ResponseWeights:   reliability.DefaultResponseWeights,
		Workers:           cfg.EngineWorkers,
	})

	var loaders pipeline.Loaders
	if cfg.OutputPath != "" {
		loaders = append(loaders, jsonfile.NewWriter(cfg.OutputPath, logger))
		logger.Info("snapshot file sink enabled", "path", cfg.OutputPath)
	}
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
		loaders = append(loaders, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	}

	opts := []pipeline.Option{pipeline.WithRefreshInterval(cfg.RefreshInterval)}
	if cfg.DeclareNeighborhoods {
		opts = append(opts, pipeline.WithDeclared(catalog.IDs()))
	}

	p := pipeline.New(csvfile.NewReader(cfg.ReportsPath, logger), engine, loaders, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, catalog, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the pipeline. With no refresh interval it returns after the
	// first successful run and the server keeps serving that snapshot.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
