package ml

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// treeNode is one node of a regression tree. Leaves carry the mean
// target of their training rows.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// predict routes a feature vector to a leaf.
func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// buildTree greedily fits a depth-limited regression tree over the rows
// named by idx, minimizing summed squared error at each split. Rows are
// ordered deterministically (value, then row index) so fitting is
// reproducible for a fixed training set.
func buildTree(xs [][]float64, ys []float64, idx []int, depth, maxDepth, minLeaf int) *treeNode {
	if depth >= maxDepth || len(idx) < 2*minLeaf {
		return &treeNode{leaf: true, value: meanOf(ys, idx)}
	}

	feature, threshold, ok := bestSplit(xs, ys, idx, minLeaf)
	if !ok {
		return &treeNode{leaf: true, value: meanOf(ys, idx)}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if xs[i][feature] < threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(xs, ys, leftIdx, depth+1, maxDepth, minLeaf),
		right:     buildTree(xs, ys, rightIdx, depth+1, maxDepth, minLeaf),
	}
}

// bestSplit scans every feature for the split that most reduces summed
// squared error, using prefix sums over value-sorted rows. Returns
// ok=false when no split leaves at least minLeaf rows on each side.
func bestSplit(xs [][]float64, ys []float64, idx []int, minLeaf int) (feature int, threshold float64, ok bool) {
	n := len(idx)
	bestSSE := sseOf(ys, idx)
	order := make([]int, n)

	numFeatures := len(xs[idx[0]])
	for f := 0; f < numFeatures; f++ {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			va, vb := xs[order[a]][f], xs[order[b]][f]
			if va != vb {
				return va < vb
			}
			return order[a] < order[b]
		})

		var sumLeft, sumSqLeft float64
		sumRight, sumSqRight := sums(ys, order)
		for i := 0; i < n-1; i++ {
			y := ys[order[i]]
			sumLeft += y
			sumSqLeft += y * y
			sumRight -= y
			sumSqRight -= y * y

			if i+1 < minLeaf || n-(i+1) < minLeaf {
				continue
			}
			lo, hi := xs[order[i]][f], xs[order[i+1]][f]
			if lo == hi {
				continue
			}

			sse := (sumSqLeft - sumLeft*sumLeft/float64(i+1)) +
				(sumSqRight - sumRight*sumRight/float64(n-i-1))
			if sse < bestSSE {
				bestSSE = sse
				feature = f
				threshold = (lo + hi) / 2
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func meanOf(ys []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	vals := make([]float64, len(idx))
	for i, j := range idx {
		vals[i] = ys[j]
	}
	return stat.Mean(vals, nil)
}

func sseOf(ys []float64, idx []int) float64 {
	sum, sumSq := sums(ys, idx)
	if len(idx) == 0 {
		return 0
	}
	return sumSq - sum*sum/float64(len(idx))
}

func sums(ys []float64, idx []int) (sum, sumSq float64) {
	for _, i := range idx {
		sum += ys[i]
		sumSq += ys[i] * ys[i]
	}
	return sum, sumSq
}
