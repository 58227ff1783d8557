package engine

import (
	"log/slog"

	"github.com/hejijunhao/sieve/internal/engine/anomaly"
	"github.com/hejijunhao/sieve/internal/engine/classifier"
	"github.com/hejijunhao/sieve/internal/engine/prefilter"
)

// Settings are the tunable thresholds of the engine.
type Settings struct {
	MinContentLength   int
	MaxComplexity      float64
	MinMaintainability float64
	Contamination      float64
	LOFNeighbors       int
	IsoTrees           int
	IsoSeed            int64
}

// DefaultSettings returns the standard thresholds.
func DefaultSettings() Settings {
	return Settings{
		MinContentLength:   10,
		MaxComplexity:      50,
		MinMaintainability: 20,
		Contamination:      0.1,
		LOFNeighbors:       20,
		IsoTrees:           100,
		IsoSeed:            42,
	}
}

// NewFromSettings wires the default stage implementations around extractor.
func NewFromSettings(s Settings, extractor prefilter.Extractor, observer Observer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	rules := classifier.Rules{
		MinContentLength:   s.MinContentLength,
		MaxComplexity:      s.MaxComplexity,
		MinMaintainability: s.MinMaintainability,
	}
	chain := anomaly.NewChain(
		anomaly.NewIsolationForest(s.IsoTrees, s.Contamination, s.IsoSeed),
		anomaly.NewLocalOutlierFactor(s.LOFNeighbors, s.Contamination),
		logger,
	)
	return New(
		prefilter.NewStructural(),
		prefilter.NewEnricher(extractor, s.MinContentLength),
		classifier.New(rules),
		chain,
		observer,
		logger,
	)
}
