package dedup

import (
	"github.com/hejijunhao/sieve/internal/model"
)

// Deduplicator drops records whose content repeats an earlier record.
type Deduplicator struct {
	// Key derives the identity of a record. Defaults to exact content.
	Key func(model.Record) string
}

// New creates a Deduplicator keyed on exact content equality.
func New() *Deduplicator {
	return &Deduplicator{Key: func(r model.Record) string { return r.Content }}
}

// DeduplicateBatch keeps the first occurrence of each key in input order
// and returns the later occurrences separately.
func (d *Deduplicator) DeduplicateBatch(records []model.Record) (kept, duplicates []model.Record) {
	if len(records) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(records))
	kept = make([]model.Record, 0, len(records))
	for _, r := range records {
		key := d.Key(r)
		if _, dup := seen[key]; dup {
			duplicates = append(duplicates, r)
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, r)
	}
	return kept, duplicates
}
