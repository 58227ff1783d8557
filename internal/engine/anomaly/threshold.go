package anomaly

import (
	"math"
	"sort"
)

// percentile returns the p-th percentile of values using linear
// interpolation between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// flagBelow marks scores strictly below the contamination percentile.
// Lower scores are more anomalous.
func flagBelow(scores []float64, contamination float64) []bool {
	flags := make([]bool, len(scores))
	if len(scores) == 0 || contamination <= 0 {
		return flags
	}
	offset := percentile(scores, 100*contamination)
	for i, s := range scores {
		flags[i] = s < offset
	}
	return flags
}
