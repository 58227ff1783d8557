package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cast"
)

// envVar binds one environment variable to a config field.
type envVar struct {
	name string
	set  func(c *Config, v string) error
}

func str(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func integer(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func float(dst func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		*dst(c) = f
		return nil
	}
}

var envVars = []envVar{
	{"SIEVE_SOURCE_URI", str(func(c *Config) *string { return &c.Source.URI })},
	{"SIEVE_SOURCE_DB", str(func(c *Config) *string { return &c.Source.Database })},
	{"SIEVE_SOURCE_COLLECTION", str(func(c *Config) *string { return &c.Source.Collection })},
	{"SIEVE_LOAD_LIMIT", integer(func(c *Config) *int { return &c.Source.Limit })},
	{"SIEVE_SINK_URI", str(func(c *Config) *string { return &c.Sink.URI })},
	{"SIEVE_SINK_DB", str(func(c *Config) *string { return &c.Sink.Database })},
	{"SIEVE_GOOD_COLLECTION", str(func(c *Config) *string { return &c.Sink.GoodCollection })},
	{"SIEVE_BAD_COLLECTION", str(func(c *Config) *string { return &c.Sink.BadCollection })},
	{"SIEVE_GOOD_JSONL", str(func(c *Config) *string { return &c.Output.GoodPath })},
	{"SIEVE_BAD_JSONL", str(func(c *Config) *string { return &c.Output.BadPath })},
	{"SIEVE_CHUNK_SIZE", integer(func(c *Config) *int { return &c.Output.ChunkSize })},
	{"SIEVE_MIN_CONTENT_LENGTH", integer(func(c *Config) *int { return &c.Engine.MinContentLength })},
	{"SIEVE_MAX_COMPLEXITY", float(func(c *Config) *float64 { return &c.Engine.MaxComplexity })},
	{"SIEVE_MIN_MAINTAINABILITY", float(func(c *Config) *float64 { return &c.Engine.MinMaintainability })},
	{"SIEVE_CONTAMINATION", float(func(c *Config) *float64 { return &c.Engine.Contamination })},
	{"SIEVE_LOF_NEIGHBORS", integer(func(c *Config) *int { return &c.Engine.LOFNeighbors })},
	{"SIEVE_ISO_TREES", integer(func(c *Config) *int { return &c.Engine.IsoTrees })},
	{"SIEVE_ISO_SEED", func(c *Config, v string) error {
		n, err := cast.ToInt64E(v)
		if err != nil {
			return err
		}
		c.Engine.IsoSeed = n
		return nil
	}},
	{"SIEVE_LOG_LEVEL", str(func(c *Config) *string { return &c.Log.Level })},
	{"SIEVE_LOG_FORMAT", str(func(c *Config) *string { return &c.Log.Format })},
	{"SIEVE_PUSHGATEWAY_URL", str(func(c *Config) *string { return &c.Metrics.Pushgateway })},
	{"SIEVE_METRICS_JOB", str(func(c *Config) *string { return &c.Metrics.Job })},
	{"SIEVE_METRICS_TEXTFILE", str(func(c *Config) *string { return &c.Metrics.Textfile })},
	{"SIEVE_SCHEDULE", str(func(c *Config) *string { return &c.Schedule })},
}

// applyEnv overrides cfg with every non-empty SIEVE_* variable. Values that
// cannot be coerced are collected into one error.
func applyEnv(cfg *Config) error {
	var errs []error
	for _, ev := range envVars {
		v := os.Getenv(ev.name)
		if v == "" {
			continue
		}
		if err := ev.set(cfg, v); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", ev.name, v, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
