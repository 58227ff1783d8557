package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/hejijunhao/sieve/internal/engine"
	"github.com/hejijunhao/sieve/internal/model"
)

// Config holds all sieve configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Sink    SinkConfig    `yaml:"sink"`
	Output  OutputConfig  `yaml:"output"`
	Engine  EngineConfig  `yaml:"engine"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`

	// Schedule is a cron expression; empty runs the job once.
	Schedule string `yaml:"schedule"`
}

// SourceConfig selects the raw snippet collection.
type SourceConfig struct {
	URI        string         `yaml:"uri"`
	Database   string         `yaml:"database"`
	Collection string         `yaml:"collection"`
	Limit      int            `yaml:"limit"` // <= 0 loads everything
	Query      model.Document `yaml:"query"`
}

// SinkConfig selects the curated collections.
type SinkConfig struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	GoodCollection string `yaml:"good_collection"`
	BadCollection  string `yaml:"bad_collection"`
}

// OutputConfig holds the NDJSON export settings. A path of "-" writes to
// stdout; an empty path disables that file.
type OutputConfig struct {
	GoodPath  string `yaml:"good_path"`
	BadPath   string `yaml:"bad_path"`
	ChunkSize int    `yaml:"chunk_size"`
}

// EngineConfig holds the classification thresholds.
type EngineConfig struct {
	MinContentLength   int     `yaml:"min_content_length"`
	MaxComplexity      float64 `yaml:"max_complexity"`
	MinMaintainability float64 `yaml:"min_maintainability"`
	Contamination      float64 `yaml:"contamination"`
	LOFNeighbors       int     `yaml:"lof_neighbors"`
	IsoTrees           int     `yaml:"iso_trees"`
	IsoSeed            int64   `yaml:"iso_seed"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// MetricsConfig holds run-metric export settings. Both targets are
// optional.
type MetricsConfig struct {
	Pushgateway string `yaml:"pushgateway"`
	Job         string `yaml:"job"`
	Textfile    string `yaml:"textfile"`
}

// Default returns the configuration with every optional key at its
// default. Store coordinates have no default.
func Default() Config {
	s := engine.DefaultSettings()
	return Config{
		Output: OutputConfig{
			GoodPath:  "train.jsonl",
			BadPath:   "bad_data.jsonl",
			ChunkSize: 1000,
		},
		Engine: EngineConfig{
			MinContentLength:   s.MinContentLength,
			MaxComplexity:      s.MaxComplexity,
			MinMaintainability: s.MinMaintainability,
			Contamination:      s.Contamination,
			LOFNeighbors:       s.LOFNeighbors,
			IsoTrees:           s.IsoTrees,
			IsoSeed:            s.IsoSeed,
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Job: "sieve"},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty or the file does not exist), then SIEVE_*
// environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every missing or out-of-range key at once.
func (c Config) Validate() error {
	var errs []error
	required := []struct {
		key, value string
	}{
		{"source.uri", c.Source.URI},
		{"source.database", c.Source.Database},
		{"source.collection", c.Source.Collection},
		{"sink.uri", c.Sink.URI},
		{"sink.database", c.Sink.Database},
		{"sink.good_collection", c.Sink.GoodCollection},
		{"sink.bad_collection", c.Sink.BadCollection},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.key))
		}
	}
	if c.Output.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("output.chunk_size must be positive, got %d", c.Output.ChunkSize))
	}
	if c.Engine.MinContentLength < 0 {
		errs = append(errs, fmt.Errorf("engine.min_content_length must not be negative, got %d", c.Engine.MinContentLength))
	}
	if c.Engine.Contamination <= 0 || c.Engine.Contamination > 0.5 {
		errs = append(errs, fmt.Errorf("engine.contamination must be in (0, 0.5], got %g", c.Engine.Contamination))
	}
	if c.Engine.LOFNeighbors < 1 {
		errs = append(errs, fmt.Errorf("engine.lof_neighbors must be positive, got %d", c.Engine.LOFNeighbors))
	}
	if c.Engine.IsoTrees < 1 {
		errs = append(errs, fmt.Errorf("engine.iso_trees must be positive, got %d", c.Engine.IsoTrees))
	}
	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("schedule: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// EngineSettings converts the engine section.
func (c Config) EngineSettings() engine.Settings {
	return engine.Settings{
		MinContentLength:   c.Engine.MinContentLength,
		MaxComplexity:      c.Engine.MaxComplexity,
		MinMaintainability: c.Engine.MinMaintainability,
		Contamination:      c.Engine.Contamination,
		LOFNeighbors:       c.Engine.LOFNeighbors,
		IsoTrees:           c.Engine.IsoTrees,
		IsoSeed:            c.Engine.IsoSeed,
	}
}

// OutputPaths returns the configured export paths.
func (c Config) OutputPaths() []string {
	return []string{c.Output.GoodPath, c.Output.BadPath}
}
