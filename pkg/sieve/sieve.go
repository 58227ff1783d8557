package sieve

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hejijunhao/sieve/internal/engine"
	"github.com/hejijunhao/sieve/internal/engine/analyzer"
	"github.com/hejijunhao/sieve/internal/engine/prefilter"
	"github.com/hejijunhao/sieve/internal/model"
)

// ErrMissingContent is returned by Curate when no document has a
// "content" field.
var ErrMissingContent = errors.New("sieve: batch has no content field")

// Sieve curates snippet batches in memory.
type Sieve struct {
	mu     sync.Mutex
	ext    *analyzer.Extractor
	engine *engine.Engine
}

// New creates a Sieve with the given options.
func New(opts ...Option) (*Sieve, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate(o.settings); err != nil {
		return nil, err
	}

	ext := analyzer.New()
	return &Sieve{
		ext:    ext,
		engine: engine.NewFromSettings(o.settings, ext, nil, o.logger),
	}, nil
}

func validate(s engine.Settings) error {
	var errs []error
	if s.MinContentLength < 0 {
		errs = append(errs, fmt.Errorf("min content length must not be negative, got %d", s.MinContentLength))
	}
	if s.Contamination <= 0 || s.Contamination > 0.5 {
		errs = append(errs, fmt.Errorf("contamination must be in (0, 0.5], got %g", s.Contamination))
	}
	if s.LOFNeighbors < 1 {
		errs = append(errs, fmt.Errorf("neighbors must be positive, got %d", s.LOFNeighbors))
	}
	if s.IsoTrees < 1 {
		errs = append(errs, fmt.Errorf("trees must be positive, got %d", s.IsoTrees))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("sieve: %w", err)
	}
	return nil
}

// Curate runs the whole curation chain over docs. Each document needs a
// string "content" field; other fields are carried through as Meta.
func (s *Sieve) Curate(docs []map[string]any) (Result, error) {
	batch := make([]model.Document, len(docs))
	for i, d := range docs {
		batch[i] = model.Document(d)
	}

	s.mu.Lock()
	res, err := s.engine.Process(batch)
	s.mu.Unlock()
	if errors.Is(err, prefilter.ErrMissingContent) {
		return Result{}, ErrMissingContent
	}
	if err != nil {
		return Result{}, fmt.Errorf("sieve: %w", err)
	}

	counts := make(map[string]int, len(model.Partitions()))
	for p, n := range res.Counts() {
		counts[string(p)] = n
	}
	return Result{
		FinalGood: recordsFrom(res.FinalGood.Records),
		Bad:       recordsFrom(res.Bad()),
		Counts:    counts,
	}, nil
}

// Analyze measures a single snippet without classifying it.
func (s *Sieve) Analyze(code string) Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return metricsFrom(s.ext.Extract(code))
}

// Close releases the parser. The Sieve must not be used afterwards.
func (s *Sieve) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ext.Close()
	return nil
}
