package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hejijunhao/sieve/internal/engine"
	"github.com/hejijunhao/sieve/internal/metrics"
	"github.com/hejijunhao/sieve/internal/model"
	"github.com/hejijunhao/sieve/internal/output"
	"github.com/hejijunhao/sieve/internal/store"
)

// Source supplies the raw documents of one run.
type Source interface {
	Load(ctx context.Context) []model.Document
}

// Processor turns raw documents into partitions. *engine.Engine
// implements it.
type Processor interface {
	Process(docs []model.Document) (engine.Result, error)
}

// StoreSource loads documents through the store boundary.
type StoreSource struct {
	URI        string
	Database   string
	Collection string
	Query      model.Document
	Limit      int
}

// Load never fails; see store.Load.
func (s StoreSource) Load(ctx context.Context) []model.Document {
	return store.Load(ctx, s.URI, s.Database, s.Collection, s.Query, s.Limit)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder publishes run metrics after every run: pushed to
// pushgatewayURL under job when the URL is set, and written to textfile
// when that path is set.
func WithRecorder(rec *metrics.Recorder, pushgatewayURL, job, textfile string) Option {
	return func(p *Pipeline) {
		p.recorder = rec
		p.pushURL = pushgatewayURL
		p.job = job
		p.textfile = textfile
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline runs one curation job: load, process, persist, report.
type Pipeline struct {
	source Source
	engine Processor
	good   output.Output
	bad    output.Output

	recorder *metrics.Recorder
	pushURL  string
	job      string
	textfile string
	logger   *slog.Logger
}

// New creates a Pipeline that writes final-good records to good and the
// merged bad set to bad.
func New(src Source, eng Processor, good, bad output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		source: src,
		engine: eng,
		good:   good,
		bad:    bad,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the job once. An empty load is not an error.
func (p *Pipeline) Run(ctx context.Context) (engine.Result, error) {
	ctx = store.WithLogger(ctx, p.logger)
	docs := p.source.Load(ctx)
	if len(docs) == 0 {
		p.logger.Warn("no documents loaded, nothing to do", "stage", "load")
		return engine.Result{}, nil
	}

	res, err := p.engine.Process(docs)
	if err != nil {
		return res, fmt.Errorf("pipeline process: %w", err)
	}

	if err := p.Persist(ctx, res); err != nil {
		return res, err
	}
	p.publish(ctx)

	p.logger.Info("run complete",
		"loaded", res.Loaded,
		"final_good", res.FinalGood.Len(),
		"rule_bad", res.RuleBad.Len(),
		"iso_removed", res.IsoRemoved.Len(),
		"lof_removed", res.LOFRemoved.Len(),
	)
	return res, nil
}

// Persist writes final-good to the good sink and rule-bad, iso-removed and
// lof-removed, in that order, to the bad sink. Both sinks are attempted
// even if the first fails.
func (p *Pipeline) Persist(ctx context.Context, res engine.Result) error {
	ctx = store.WithLogger(ctx, p.logger)
	log := p.logger.With("stage", "persist")

	var errs []error
	good := exportable(res.FinalGood.Records)
	if err := p.good.Write(ctx, good); err != nil {
		errs = append(errs, fmt.Errorf("pipeline output good: %w", err))
	}
	bad := exportable(res.Bad())
	if err := p.bad.Write(ctx, bad); err != nil {
		errs = append(errs, fmt.Errorf("pipeline output bad: %w", err))
	}
	log.Info("partitions persisted", "good", len(good), "bad", len(bad))
	return errors.Join(errs...)
}

// Close shuts down both sinks.
func (p *Pipeline) Close() error {
	return errors.Join(p.good.Close(), p.bad.Close())
}

func (p *Pipeline) publish(ctx context.Context) {
	if p.recorder == nil {
		return
	}
	p.recorder.MarkRun(time.Now())
	if p.pushURL != "" {
		if err := p.recorder.Push(ctx, p.pushURL, p.job); err != nil {
			p.logger.Warn("metrics push failed", "error", err)
		}
	}
	if p.textfile != "" {
		if err := p.recorder.WriteTextfile(p.textfile); err != nil {
			p.logger.Warn("metrics textfile write failed", "error", err)
		}
	}
}

func exportable(recs []model.Enriched) []model.Document {
	docs := output.Documents(recs)
	for i, d := range docs {
		docs[i] = store.SanitizeDocument(d)
	}
	return docs
}
