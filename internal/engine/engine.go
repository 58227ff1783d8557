package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hejijunhao/sieve/internal/engine/anomaly"
	"github.com/hejijunhao/sieve/internal/engine/classifier"
	"github.com/hejijunhao/sieve/internal/engine/prefilter"
	"github.com/hejijunhao/sieve/internal/model"
)

// Observer receives stage timings and partition sizes.
type Observer interface {
	ObserveStage(stage string, d time.Duration)
	AddPartition(p model.Partition, n int)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, time.Duration) {}
func (nopObserver) AddPartition(model.Partition, int)  {}

// Stage names used in logs and metrics.
const (
	StageStructural = "structural"
	StageEnrich     = "enrich"
	StageClassify   = "classify"
	StageAnomaly    = "anomaly"
)

// Result holds every partition of one processed batch.
type Result struct {
	Loaded        int
	ExcludedEmpty int
	Duplicates    []model.Record
	Short         []model.Enriched
	RuleGood      model.Batch
	RuleBad       model.Batch
	IsoRemoved    model.Batch
	LOFRemoved    model.Batch
	FinalGood     model.Batch
}

// Bad merges rule-bad, iso-removed and lof-removed, in that order.
func (r Result) Bad() []model.Enriched {
	bad := make([]model.Enriched, 0, r.RuleBad.Len()+r.IsoRemoved.Len()+r.LOFRemoved.Len())
	bad = append(bad, r.RuleBad.Records...)
	bad = append(bad, r.IsoRemoved.Records...)
	return append(bad, r.LOFRemoved.Records...)
}

// Counts returns the size of every terminal partition.
func (r Result) Counts() map[model.Partition]int {
	return map[model.Partition]int{
		model.PartitionExcludedEmpty:     r.ExcludedEmpty,
		model.PartitionExcludedDuplicate: len(r.Duplicates),
		model.PartitionExcludedShort:     len(r.Short),
		model.PartitionRuleBad:           r.RuleBad.Len(),
		model.PartitionIsoRemoved:        r.IsoRemoved.Len(),
		model.PartitionLOFRemoved:        r.LOFRemoved.Len(),
		model.PartitionFinalGood:         r.FinalGood.Len(),
	}
}

// Engine orchestrates the structural → enrich → classify → anomaly stages.
type Engine struct {
	structural *prefilter.Structural
	enricher   *prefilter.Enricher
	classifier *classifier.Classifier
	chain      *anomaly.Chain
	observer   Observer
	logger     *slog.Logger
}

// New creates an Engine with the provided components. A nil observer or
// logger is replaced by a no-op observer and slog.Default().
func New(structural *prefilter.Structural, enricher *prefilter.Enricher, cls *classifier.Classifier, chain *anomaly.Chain, observer Observer, logger *slog.Logger) *Engine {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		structural: structural,
		enricher:   enricher,
		classifier: cls,
		chain:      chain,
		observer:   observer,
		logger:     logger,
	}
}

// Process runs every stage over docs. Only a batch without any content
// field is an error; empty intermediate results end the run early with
// empty downstream partitions.
func (e *Engine) Process(docs []model.Document) (Result, error) {
	res := Result{Loaded: len(docs)}
	defer e.report(&res)

	start := time.Now()
	records, excluded, err := e.structural.Filter(docs)
	e.observer.ObserveStage(StageStructural, time.Since(start))
	if err != nil {
		return res, fmt.Errorf("engine %s: %w", StageStructural, err)
	}
	res.ExcludedEmpty = excluded
	e.stageLogger(StageStructural).Info("structural filter done", "kept", len(records), "excluded", excluded)
	if len(records) == 0 {
		e.stageLogger(StageStructural).Warn("no records left, stopping")
		return res, nil
	}

	start = time.Now()
	enriched := e.enricher.Enrich(records)
	e.observer.ObserveStage(StageEnrich, time.Since(start))
	res.Duplicates = enriched.Duplicates
	res.Short = enriched.Short
	e.stageLogger(StageEnrich).Info("enrichment done",
		"kept", enriched.Batch.Len(), "duplicates", len(enriched.Duplicates), "short", len(enriched.Short))
	if enriched.Batch.Len() == 0 {
		e.stageLogger(StageEnrich).Warn("no records left, stopping")
		return res, nil
	}

	start = time.Now()
	res.RuleGood, res.RuleBad = e.classifier.Split(enriched.Batch)
	e.observer.ObserveStage(StageClassify, time.Since(start))
	e.stageLogger(StageClassify).Info("rule classification done", "good", res.RuleGood.Len(), "bad", res.RuleBad.Len())
	if res.RuleGood.Len() == 0 {
		e.stageLogger(StageClassify).Warn("no rule-good records, skipping anomaly filtering")
		return res, nil
	}

	start = time.Now()
	chained := e.chain.Run(res.RuleGood)
	e.observer.ObserveStage(StageAnomaly, time.Since(start))
	res.IsoRemoved = chained.IsoRemoved
	res.LOFRemoved = chained.LOFRemoved
	res.FinalGood = chained.FinalGood
	e.stageLogger(StageAnomaly).Info("anomaly filtering done",
		"final_good", res.FinalGood.Len(), "iso_removed", res.IsoRemoved.Len(), "lof_removed", res.LOFRemoved.Len())
	return res, nil
}

func (e *Engine) report(res *Result) {
	for p, n := range res.Counts() {
		e.observer.AddPartition(p, n)
	}
}

func (e *Engine) stageLogger(stage string) *slog.Logger {
	return e.logger.With("stage", stage)
}
