// Package anomaly removes statistical outliers from the rule-good set with
// two chained unsupervised detectors.
package anomaly

import (
	"log/slog"

	"github.com/hejijunhao/sieve/internal/model"
)

// Detector scores a feature matrix and flags anomalous rows.
// Lower scores are more anomalous.
type Detector interface {
	Name() string
	Outliers(points [][]float64) (scores []float64, outlier []bool)
}

// Filter is one stage of the chain: it fits det on the batch's own feature
// matrix and moves flagged records into removed, labelled removedAs.
// Records are matched by position only inside this call; callers see IDs.
func Filter(batch model.Batch, features []Feature, det Detector, removedAs model.Partition) (kept, removed model.Batch) {
	if len(features) == 0 || batch.Len() < 2 {
		return batch, batch.WithRecords(nil)
	}

	scores, outliers := det.Outliers(matrix(batch.Records, features))

	keptRecs := make([]model.Enriched, 0, batch.Len())
	var removedRecs []model.Enriched
	for i, r := range batch.Records {
		r.Anomaly = append(append([]model.AnomalyMark(nil), r.Anomaly...), model.AnomalyMark{
			Stage:   det.Name(),
			Score:   scores[i],
			Outlier: outliers[i],
		})
		if outliers[i] {
			r.Partition = removedAs
			removedRecs = append(removedRecs, r)
			continue
		}
		keptRecs = append(keptRecs, r)
	}
	return batch.WithRecords(keptRecs), batch.WithRecords(removedRecs)
}

// Result is the three-way split of the rule-good set.
type Result struct {
	FinalGood  model.Batch
	IsoRemoved model.Batch
	LOFRemoved model.Batch
}

// Chain runs an isolation stage then a density stage, refitting on the
// survivors of the first.
type Chain struct {
	Features  []Feature
	Isolation Detector
	Density   Detector
	logger    *slog.Logger
}

// NewChain creates a Chain over the default features.
func NewChain(isolation, density Detector, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{
		Features:  DefaultFeatures(),
		Isolation: isolation,
		Density:   density,
		logger:    logger,
	}
}

// Run splits ruleGood into final-good, iso-removed and lof-removed. When no
// feature column is available the input passes through unchanged.
func (c *Chain) Run(ruleGood model.Batch) Result {
	features, missing := Available(ruleGood.Schema, c.Features)
	for _, col := range missing {
		c.logger.Warn("feature column missing, excluded from anomaly features", "stage", "anomaly", "column", string(col))
	}

	var res Result
	if len(features) == 0 {
		c.logger.Warn("no anomaly features available, skipping anomaly filtering", "stage", "anomaly")
		res.FinalGood = ruleGood
		res.IsoRemoved = ruleGood.WithRecords(nil)
		res.LOFRemoved = ruleGood.WithRecords(nil)
	} else {
		afterIso, iso := Filter(ruleGood, features, c.Isolation, model.PartitionIsoRemoved)
		c.logger.Info("isolation filter done", "stage", "anomaly", "detector", c.Isolation.Name(), "kept", afterIso.Len(), "removed", iso.Len())

		final, lof := Filter(afterIso, features, c.Density, model.PartitionLOFRemoved)
		c.logger.Info("density filter done", "stage", "anomaly", "detector", c.Density.Name(), "kept", final.Len(), "removed", lof.Len())

		res = Result{FinalGood: final, IsoRemoved: iso, LOFRemoved: lof}
	}

	final := make([]model.Enriched, res.FinalGood.Len())
	copy(final, res.FinalGood.Records)
	for i := range final {
		final[i].Partition = model.PartitionFinalGood
	}
	res.FinalGood = res.FinalGood.WithRecords(final)
	return res
}
