// Package prefilter implements the two rule stages that run before
// classification: structural validation and metric enrichment.
package prefilter

import (
	"errors"

	"github.com/google/uuid"

	"github.com/hejijunhao/sieve/internal/engine/analyzer"
	"github.com/hejijunhao/sieve/internal/model"
)

// ErrMissingContent means no document in the batch carries a content field.
// It is a schema violation, not a data-quality problem.
var ErrMissingContent = errors.New("batch has no content field")

// Structural drops documents without usable content and turns the rest
// into Records.
type Structural struct {
	// NewID assigns the synthetic record ID. Defaults to random UUIDs.
	NewID func() string
}

// NewStructural creates a Structural filter that assigns UUIDs.
func NewStructural() *Structural {
	return &Structural{NewID: uuid.NewString}
}

// Filter validates the batch schema and keeps documents whose content is a
// non-empty string. excluded counts the dropped documents.
func (s *Structural) Filter(docs []model.Document) (kept []model.Record, excluded int, err error) {
	if len(docs) == 0 {
		return nil, 0, nil
	}
	if !hasContentColumn(docs) {
		return nil, 0, ErrMissingContent
	}

	kept = make([]model.Record, 0, len(docs))
	for _, doc := range docs {
		content, ok := doc[model.ContentKey].(string)
		if !ok || content == "" {
			excluded++
			continue
		}
		kept = append(kept, model.Record{
			ID:             s.NewID(),
			Content:        content,
			OriginalLength: analyzer.RuneLen(content),
			Meta:           passThrough(doc),
		})
	}
	return kept, excluded, nil
}

func hasContentColumn(docs []model.Document) bool {
	for _, doc := range docs {
		if _, ok := doc[model.ContentKey]; ok {
			return true
		}
	}
	return false
}

// passThrough copies every field except content and the store identity.
func passThrough(doc model.Document) model.Document {
	meta := make(model.Document, len(doc))
	for k, v := range doc {
		if k == model.ContentKey || k == model.IdentityKey {
			continue
		}
		meta[k] = v
	}
	return meta
}
