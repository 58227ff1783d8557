package anomaly

import (
	"math"
	"math/rand"
)

const eulerGamma = 0.5772156649015329

// IsolationForest scores points by how quickly random axis-aligned splits
// isolate them. Shorter average paths score lower (more anomalous).
type IsolationForest struct {
	Trees         int
	MaxSamples    int
	Contamination float64
	Seed          int64
}

// NewIsolationForest creates a forest with a 256-point subsample per tree.
func NewIsolationForest(trees int, contamination float64, seed int64) *IsolationForest {
	return &IsolationForest{
		Trees:         trees,
		MaxSamples:    256,
		Contamination: contamination,
		Seed:          seed,
	}
}

// Name identifies the detector in anomaly marks and logs.
func (f *IsolationForest) Name() string { return "isolation_forest" }

// Outliers fits the forest on points and flags the contamination share
// with the lowest scores. Scores are the negated anomaly score, in [-1, 0).
func (f *IsolationForest) Outliers(points [][]float64) ([]float64, []bool) {
	n := len(points)
	scores := make([]float64, n)
	if n < 2 || f.Trees <= 0 {
		return scores, make([]bool, n)
	}

	rng := rand.New(rand.NewSource(f.Seed))
	psi := n
	if f.MaxSamples > 0 && f.MaxSamples < n {
		psi = f.MaxSamples
	}
	limit := int(math.Ceil(math.Log2(float64(psi))))

	trees := make([]*itreeNode, f.Trees)
	for t := range trees {
		sample := rng.Perm(n)[:psi]
		trees[t] = growTree(points, sample, 0, limit, rng)
	}

	norm := averagePathLength(psi)
	for i, p := range points {
		var total float64
		for _, tree := range trees {
			total += pathLength(p, tree, 0)
		}
		mean := total / float64(len(trees))
		scores[i] = -math.Pow(2, -mean/norm)
	}
	return scores, flagBelow(scores, f.Contamination)
}

// itreeNode is an internal split or, when left is nil, a leaf holding size
// training points.
type itreeNode struct {
	feature     int
	split       float64
	left, right *itreeNode
	size        int
}

func growTree(points [][]float64, idx []int, depth, limit int, rng *rand.Rand) *itreeNode {
	if depth >= limit || len(idx) <= 1 {
		return &itreeNode{size: len(idx)}
	}

	dims := len(points[idx[0]])
	var candidates []int
	lows := make([]float64, dims)
	highs := make([]float64, dims)
	for d := 0; d < dims; d++ {
		lo, hi := points[idx[0]][d], points[idx[0]][d]
		for _, i := range idx[1:] {
			v := points[i][d]
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		lows[d], highs[d] = lo, hi
		if hi > lo {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return &itreeNode{size: len(idx)}
	}

	d := candidates[rng.Intn(len(candidates))]
	split := lows[d] + rng.Float64()*(highs[d]-lows[d])

	var left, right []int
	for _, i := range idx {
		if points[i][d] <= split {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &itreeNode{
		feature: d,
		split:   split,
		left:    growTree(points, left, depth+1, limit, rng),
		right:   growTree(points, right, depth+1, limit, rng),
		size:    len(idx),
	}
}

func pathLength(p []float64, node *itreeNode, depth int) float64 {
	for node.left != nil {
		if p[node.feature] <= node.split {
			node = node.left
		} else {
			node = node.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(node.size)
}

// averagePathLength is c(n), the mean unsuccessful-search path length of a
// binary search tree over n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}
