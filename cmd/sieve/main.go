package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/sieve/internal/config"
	"github.com/hejijunhao/sieve/internal/engine"
	"github.com/hejijunhao/sieve/internal/engine/analyzer"
	"github.com/hejijunhao/sieve/internal/logging"
	"github.com/hejijunhao/sieve/internal/metrics"
	"github.com/hejijunhao/sieve/internal/model"
	"github.com/hejijunhao/sieve/internal/output"
	"github.com/hejijunhao/sieve/internal/output/stdout"
	"github.com/hejijunhao/sieve/internal/pipeline"

	// Register document-store backends.
	_ "github.com/hejijunhao/sieve/internal/store/mongo"
	_ "github.com/hejijunhao/sieve/internal/store/sqldoc"
)

var (
	configPath   string
	scheduleFlag string
)

var rootCmd = &cobra.Command{
	Use:           "sieve",
	Short:         "Curate Python snippets into training and rejected sets",
	Long:          "Loads raw snippets from a document store, filters them with static-analysis rules and outlier detection, and writes the good and bad partitions to collections and NDJSON files.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runCurate,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Print the metric set of Python files as NDJSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	defaultPath := os.Getenv("SIEVE_CONFIG")
	if defaultPath == "" {
		defaultPath = "sieve.yaml"
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "YAML config file (env SIEVE_CONFIG)")
	rootCmd.Flags().StringVar(&scheduleFlag, "schedule", "", "cron expression to rerun the job on (overrides schedule in the config)")
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sieve: %v\n", err)
		os.Exit(1)
	}
}

func runCurate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if scheduleFlag != "" {
		cfg.Schedule = scheduleFlag
	}
	logger := logging.Init(logging.UseJSON(cfg.Log.Format, cfg.OutputPaths()...), logging.ParseLevel(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return err
	}

	ext := analyzer.New()
	defer ext.Close()

	rec := metrics.NewRecorder()
	eng := engine.NewFromSettings(cfg.EngineSettings(), ext, rec, logger)

	logger.Info("sieve: starting",
		"source", cfg.Source.Database+"/"+cfg.Source.Collection,
		"sink", cfg.Sink.Database,
		"min_content_length", cfg.Engine.MinContentLength,
		"contamination", cfg.Engine.Contamination,
	)

	run := func(ctx context.Context) error {
		p := newPipeline(cfg, eng, rec, logger)
		defer p.Close()
		_, err := p.Run(ctx)
		return err
	}

	if cfg.Schedule != "" {
		err = pipeline.Schedule(cmd.Context(), cfg.Schedule, run, logger)
	} else {
		err = run(cmd.Context())
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn("interrupted")
	}
	return err
}

// newPipeline wires one run. Sinks are rebuilt per run so every run opens
// its export files afresh.
func newPipeline(cfg config.Config, eng *engine.Engine, rec *metrics.Recorder, logger *slog.Logger) *pipeline.Pipeline {
	src := pipeline.StoreSource{
		URI:        cfg.Source.URI,
		Database:   cfg.Source.Database,
		Collection: cfg.Source.Collection,
		Query:      cfg.Source.Query,
		Limit:      cfg.Source.Limit,
	}
	good := pipeline.NewSink(pipeline.SinkSpec{
		URI:        cfg.Sink.URI,
		Database:   cfg.Sink.Database,
		Collection: cfg.Sink.GoodCollection,
		Path:       cfg.Output.GoodPath,
		ChunkSize:  cfg.Output.ChunkSize,
	})
	bad := pipeline.NewSink(pipeline.SinkSpec{
		URI:        cfg.Sink.URI,
		Database:   cfg.Sink.Database,
		Collection: cfg.Sink.BadCollection,
		Path:       cfg.Output.BadPath,
		ChunkSize:  cfg.Output.ChunkSize,
	})
	return pipeline.New(src, eng, good, bad,
		pipeline.WithLogger(logger),
		pipeline.WithRecorder(rec, cfg.Metrics.Pushgateway, cfg.Metrics.Job, cfg.Metrics.Textfile),
	)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ext := analyzer.New()
	defer ext.Close()

	out := stdout.NewWriter(cmd.OutOrStdout(), false)
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		doc := output.MetricsDocument(ext.Extract(string(src)))
		doc["path"] = path
		if err := out.Write(cmd.Context(), []model.Document{doc}); err != nil {
			return err
		}
	}
	return nil
}
