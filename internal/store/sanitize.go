package store

import (
	"math"

	"github.com/hejijunhao/sieve/internal/model"
)

// SanitizeDocument returns a copy of doc in which every NaN or infinite
// number, at any depth, is replaced by nil.
func SanitizeDocument(doc model.Document) model.Document {
	out := make(model.Document, len(doc))
	for k, v := range doc {
		out[k] = sanitize(v)
	}
	return out
}

func sanitize(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(t)) || math.IsInf(float64(t), 0) {
			return nil
		}
	case model.Document:
		return SanitizeDocument(t)
	case map[string]any:
		return map[string]any(SanitizeDocument(t))
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sanitize(e)
		}
		return out
	case []float64:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = sanitize(e)
		}
		return out
	}
	return v
}
