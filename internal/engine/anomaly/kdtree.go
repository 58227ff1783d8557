package anomaly

import (
	"container/heap"
	"sort"
)

// neighbor is a point index with its squared distance to the query.
type neighbor struct {
	idx   int
	dist2 float64
}

// worse orders neighbors by distance, breaking ties by index.
func worse(a, b neighbor) bool {
	if a.dist2 != b.dist2 {
		return a.dist2 > b.dist2
	}
	return a.idx > b.idx
}

// neighborHeap is a max-heap keeping the worst candidate on top.
type neighborHeap []neighbor

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x any)        { *h = append(*h, x.(neighbor)) }
func (h *neighborHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

type kdNode struct {
	idx         int
	axis        int
	left, right *kdNode
}

// kdTree answers exact k-nearest-neighbour queries over a fixed point set.
type kdTree struct {
	points [][]float64
	root   *kdNode
}

func newKDTree(points [][]float64) *kdTree {
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	t := &kdTree{points: points}
	t.root = t.build(idx, 0)
	return t
}

func (t *kdTree) build(idx []int, depth int) *kdNode {
	if len(idx) == 0 {
		return nil
	}
	axis := depth % len(t.points[idx[0]])
	sort.Slice(idx, func(a, b int) bool {
		pa, pb := t.points[idx[a]][axis], t.points[idx[b]][axis]
		if pa != pb {
			return pa < pb
		}
		return idx[a] < idx[b]
	})
	mid := len(idx) / 2
	return &kdNode{
		idx:   idx[mid],
		axis:  axis,
		left:  t.build(idx[:mid], depth+1),
		right: t.build(idx[mid+1:], depth+1),
	}
}

// kNearest returns the k nearest points to point q, excluding q itself,
// ordered from nearest to farthest.
func (t *kdTree) kNearest(q, k int) []neighbor {
	h := make(neighborHeap, 0, k)
	t.search(t.root, q, k, &h)
	out := make([]neighbor, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(neighbor)
	}
	return out
}

func (t *kdTree) search(node *kdNode, q, k int, h *neighborHeap) {
	if node == nil {
		return
	}
	query := t.points[q]
	if node.idx != q {
		cand := neighbor{idx: node.idx, dist2: squaredDistance(query, t.points[node.idx])}
		if h.Len() < k {
			heap.Push(h, cand)
		} else if worse((*h)[0], cand) {
			(*h)[0] = cand
			heap.Fix(h, 0)
		}
	}

	diff := query[node.axis] - t.points[node.idx][node.axis]
	near, far := node.left, node.right
	if diff > 0 {
		near, far = node.right, node.left
	}
	t.search(near, q, k, h)
	if h.Len() < k || diff*diff <= (*h)[0].dist2 {
		t.search(far, q, k, h)
	}
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
