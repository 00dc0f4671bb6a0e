package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	ReportsPath          string
	NeighborhoodsPath    string
	DeclareNeighborhoods bool
	OutputPath           string

	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// RefreshInterval re-runs the computation periodically when positive.
	RefreshInterval time.Duration

	FrequencyCeiling  float64
	TimelinessCeiling time.Duration
	EngineWorkers     int
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	declare, err := parseBool("DECLARE_NEIGHBORHOODS", true)
	if err != nil {
		return nil, err
	}
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	refresh, err := parseDuration("REFRESH_INTERVAL", "0", true)
	if err != nil {
		return nil, err
	}
	timeliness, err := parseDuration("TIMELINESS_CEILING", "24h", false)
	if err != nil {
		return nil, err
	}

	ceilingStr := sharedcfg.EnvOrDefault("FREQUENCY_CEILING", "5")
	ceiling, err := strconv.ParseFloat(ceilingStr, 64)
	if err != nil || !(ceiling > 0) {
		return nil, fmt.Errorf("invalid FREQUENCY_CEILING %q: must be a positive number", ceilingStr)
	}

	workersStr := sharedcfg.EnvOrDefault("ENGINE_WORKERS", "4")
	workers, err := strconv.Atoi(workersStr)
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("invalid ENGINE_WORKERS %q: must be a positive integer", workersStr)
	}

	cfg := &Config{
		ReportsPath:          sharedcfg.EnvOrDefault("REPORTS_PATH", "data/reports.csv"),
		NeighborhoodsPath:    os.Getenv("NEIGHBORHOODS_PATH"),
		DeclareNeighborhoods: declare,
		OutputPath:           os.Getenv("OUTPUT_PATH"),
		KafkaEnabled:         kafkaEnabled,
		KafkaBrokers:         sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:       sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "neighborhood-reliability"),
		HTTPAddr:             sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:             sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:      shutdownTimeout,
		RefreshInterval:      refresh,
		FrequencyCeiling:     ceiling,
		TimelinessCeiling:    timeliness,
		EngineWorkers:        workers,
	}

	if cfg.ReportsPath == "" {
		return nil, errors.New("REPORTS_PATH is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parseBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: must be true or false", key, v)
	}
	return b, nil
}

func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}
