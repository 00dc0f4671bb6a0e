package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/storm-data-reliability/internal/reliability"
)

func engineOptions(frequencyCeiling float64, timelinessCeiling string, workers int) (reliability.Options, error) {
	ceiling, err := time.ParseDuration(timelinessCeiling)
	if err != nil || ceiling <= 0 {
		return reliability.Options{}, fmt.Errorf("invalid timeliness ceiling %q: must be a positive duration", timelinessCeiling)
	}
	if !(frequencyCeiling > 0) {
		return reliability.Options{}, fmt.Errorf("invalid frequency ceiling %v: must be positive", frequencyCeiling)
	}
	if workers < 1 {
		return reliability.Options{}, fmt.Errorf("invalid worker count %d: must be at least 1", workers)
	}

	opts := reliability.DefaultOptions()
	opts.FrequencyCeiling = frequencyCeiling
	opts.TimelinessCeiling = ceiling
	opts.Workers = workers
	return opts, nil
}

func levelFor(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelWarn
	}
	return lvl
}
