package anomaly

import (
	"github.com/hejijunhao/sieve/internal/model"
)

// Feature is one numeric column fed to the detectors.
type Feature struct {
	Column model.Column
	Value  func(model.Enriched) float64
}

// DefaultFeatures returns content length, cyclomatic complexity,
// maintainability index and comment ratio, in that order.
func DefaultFeatures() []Feature {
	return []Feature{
		{model.ColContentLength, func(r model.Enriched) float64 { return float64(r.ContentLength) }},
		{model.ColCyclomaticComplexity, func(r model.Enriched) float64 { return r.CyclomaticComplexity }},
		{model.ColMaintainabilityIndex, func(r model.Enriched) float64 { return r.MaintainabilityIndex }},
		{model.ColCommentRatio, func(r model.Enriched) float64 { return r.CommentRatio }},
	}
}

// Available splits features into those whose column is in the schema and
// the missing column names.
func Available(schema model.Schema, features []Feature) (present []Feature, missing []model.Column) {
	for _, f := range features {
		if schema.Has(f.Column) {
			present = append(present, f)
		} else {
			missing = append(missing, f.Column)
		}
	}
	return present, missing
}

// matrix builds the row-major feature matrix of a batch.
func matrix(recs []model.Enriched, features []Feature) [][]float64 {
	points := make([][]float64, len(recs))
	for i, r := range recs {
		row := make([]float64, len(features))
		for j, f := range features {
			row[j] = f.Value(r)
		}
		points[i] = row
	}
	return points
}
