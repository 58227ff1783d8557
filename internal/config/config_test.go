package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hejijunhao/sieve/internal/engine"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, ev := range envVars {
		t.Setenv(ev.name, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sieve.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Output.GoodPath != "train.jsonl" || cfg.Output.BadPath != "bad_data.jsonl" {
		t.Fatalf("unexpected default paths: %+v", cfg.Output)
	}
	if cfg.Output.ChunkSize != 1000 {
		t.Fatalf("expected default chunk size 1000, got %d", cfg.Output.ChunkSize)
	}
	if cfg.EngineSettings() != engine.DefaultSettings() {
		t.Fatalf("engine defaults differ: %+v", cfg.EngineSettings())
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Metrics.Job != "sieve" || cfg.Metrics.Pushgateway != "" {
		t.Fatalf("unexpected metrics defaults: %+v", cfg.Metrics)
	}
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("Load error: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
source:
  uri: mongodb://localhost:27017
  database: raw
  collection: snippets
  limit: 500
  query:
    lang: python
sink:
  uri: sqlite:///tmp/out.db
  database: curated
  good_collection: train
  bad_collection: rejected
engine:
  contamination: 0.05
  lof_neighbors: 10
log:
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Source.URI != "mongodb://localhost:27017" || cfg.Source.Limit != 500 {
		t.Fatalf("source not loaded: %+v", cfg.Source)
	}
	if cfg.Source.Query["lang"] != "python" {
		t.Fatalf("query not loaded: %v", cfg.Source.Query)
	}
	if cfg.Engine.Contamination != 0.05 || cfg.Engine.LOFNeighbors != 10 {
		t.Fatalf("engine overrides not loaded: %+v", cfg.Engine)
	}
	if cfg.Engine.IsoTrees != 100 || cfg.Engine.MinContentLength != 10 {
		t.Fatalf("unset engine keys lost their defaults: %+v", cfg.Engine)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Fatalf("log section wrong: %+v", cfg.Log)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "source:\n  limit: 500\nengine:\n  iso_seed: 7\n")
	t.Setenv("SIEVE_LOAD_LIMIT", "25")
	t.Setenv("SIEVE_ISO_SEED", "99")
	t.Setenv("SIEVE_CONTAMINATION", "0.2")
	t.Setenv("SIEVE_GOOD_JSONL", "-")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Source.Limit != 25 {
		t.Errorf("Limit = %d, want 25", cfg.Source.Limit)
	}
	if cfg.Engine.IsoSeed != 99 {
		t.Errorf("IsoSeed = %d, want 99", cfg.Engine.IsoSeed)
	}
	if cfg.Engine.Contamination != 0.2 {
		t.Errorf("Contamination = %g, want 0.2", cfg.Engine.Contamination)
	}
	if cfg.OutputPaths()[0] != "-" {
		t.Errorf("GoodPath = %q, want -", cfg.Output.GoodPath)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIEVE_CHUNK_SIZE", "lots")
	t.Setenv("SIEVE_CONTAMINATION", "ten percent")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for invalid env values")
	}
	for _, name := range []string{"SIEVE_CHUNK_SIZE", "SIEVE_CONTAMINATION"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "source: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate_ReportsEveryMissingKey(t *testing.T) {
	err := Default().Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, key := range []string{
		"source.uri", "source.database", "source.collection",
		"sink.uri", "sink.database", "sink.good_collection", "sink.bad_collection",
	} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error does not mention %s", key)
		}
	}
}

func TestValidate_Ranges(t *testing.T) {
	cfg := Default()
	cfg.Source = SourceConfig{URI: "mongodb://x", Database: "d", Collection: "c"}
	cfg.Sink = SinkConfig{URI: "mongodb://x", Database: "d", GoodCollection: "g", BadCollection: "b"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cfg.Engine.Contamination = 0.7
	cfg.Output.ChunkSize = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected range errors")
	}
	if !strings.Contains(err.Error(), "engine.contamination") || !strings.Contains(err.Error(), "output.chunk_size") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_Schedule(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIEVE_SCHEDULE", "@every 6h")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Schedule != "@every 6h" {
		t.Errorf("Schedule = %q, want %q", cfg.Schedule, "@every 6h")
	}

	cfg.Schedule = "every day"
	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "schedule") {
		t.Errorf("expected schedule error, got %v", err)
	}
}
