package anomaly

import "math"

// LocalOutlierFactor compares each point's local reachability density with
// that of its k nearest neighbours. It has no randomness.
type LocalOutlierFactor struct {
	Neighbors     int
	Contamination float64
}

// NewLocalOutlierFactor creates a detector with the given neighbourhood size.
func NewLocalOutlierFactor(neighbors int, contamination float64) *LocalOutlierFactor {
	return &LocalOutlierFactor{Neighbors: neighbors, Contamination: contamination}
}

// Name identifies the detector in anomaly marks and logs.
func (l *LocalOutlierFactor) Name() string { return "local_outlier_factor" }

// Outliers fits on points and flags the contamination share with the
// lowest scores. Scores are the negated outlier factor; inliers sit near -1.
func (l *LocalOutlierFactor) Outliers(points [][]float64) ([]float64, []bool) {
	n := len(points)
	scores := make([]float64, n)
	k := l.Neighbors
	if k > n-1 {
		k = n - 1
	}
	if n < 2 || k < 1 {
		return scores, make([]bool, n)
	}

	tree := newKDTree(points)
	neighbors := make([][]neighbor, n)
	kDistance := make([]float64, n)
	for i := range points {
		neighbors[i] = tree.kNearest(i, k)
		kDistance[i] = math.Sqrt(neighbors[i][k-1].dist2)
	}

	lrd := make([]float64, n)
	for i := range points {
		var reach float64
		for _, nb := range neighbors[i] {
			reach += math.Max(kDistance[nb.idx], math.Sqrt(nb.dist2))
		}
		lrd[i] = 1 / (reach/float64(k) + 1e-10)
	}

	for i := range points {
		var ratio float64
		for _, nb := range neighbors[i] {
			ratio += lrd[nb.idx]
		}
		scores[i] = -(ratio / float64(k)) / lrd[i]
	}
	return scores, flagBelow(scores, l.Contamination)
}
