package prefilter

import (
	"github.com/hejijunhao/sieve/internal/engine/dedup"
	"github.com/hejijunhao/sieve/internal/model"
)

// Extractor computes the metric set of one snippet.
type Extractor interface {
	Extract(content string) model.Metrics
}

// Enrichment is the output of the enrichment stage.
type Enrichment struct {
	Batch      model.Batch      // deduplicated, enriched, at least MinLength long
	Duplicates []model.Record   // later occurrences of repeated content
	Short      []model.Enriched // clean content shorter than MinLength
}

// Enricher deduplicates records, attaches metrics and applies the hard
// minimum-length floor on comment-stripped content.
type Enricher struct {
	extractor Extractor
	dedup     *dedup.Deduplicator
	minLength int
}

// NewEnricher creates an Enricher with the given length floor.
func NewEnricher(extractor Extractor, minLength int) *Enricher {
	return &Enricher{
		extractor: extractor,
		dedup:     dedup.New(),
		minLength: minLength,
	}
}

// Enrich runs deduplication, metric extraction and the length floor.
func (e *Enricher) Enrich(records []model.Record) Enrichment {
	unique, dups := e.dedup.DeduplicateBatch(records)

	out := Enrichment{
		Batch:      model.Batch{Schema: model.FullSchema(), Records: make([]model.Enriched, 0, len(unique))},
		Duplicates: dups,
	}
	for _, r := range unique {
		rec := model.Enriched{Record: r, Metrics: e.extractor.Extract(r.Content)}
		if rec.ContentLength < e.minLength {
			rec.Partition = model.PartitionExcludedShort
			out.Short = append(out.Short, rec)
			continue
		}
		out.Batch.Records = append(out.Batch.Records, rec)
	}
	return out
}
