package ml

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BoostOptions groups hyperparameters for the gradient-boosted
// regression tree ensemble.
type BoostOptions struct {
	Rounds       int     // number of boosting rounds (trees)
	LearningRate float64 // shrinkage applied to each tree's contribution
	MaxDepth     int     // tree depth limit
	MinLeaf      int     // minimum rows per leaf
	Subsample    float64 // fraction of rows sampled per round, (0, 1]
}

// DefaultBoostOptions returns the standard learner configuration.
func DefaultBoostOptions() BoostOptions {
	return BoostOptions{
		Rounds:       120,
		LearningRate: 0.1,
		MaxDepth:     3,
		MinLeaf:      5,
		Subsample:    0.8,
	}
}

// ensemble is a fitted gradient-boosted tree model: a base prediction
// (the training mean) plus shrunken tree corrections. Read-only after
// fitting.
type ensemble struct {
	base      float64
	shrinkage float64
	trees     []*treeNode
}

// fitEnsemble runs squared-loss gradient boosting: each round fits a
// depth-limited tree to the current residuals over a row subsample and
// adds its shrunken predictions. Deterministic for a fixed rng state.
func fitEnsemble(xs [][]float64, ys []float64, opts BoostOptions, rng *rand.Rand) *ensemble {
	n := len(ys)
	ens := &ensemble{
		base:      stat.Mean(ys, nil),
		shrinkage: opts.LearningRate,
		trees:     make([]*treeNode, 0, opts.Rounds),
	}

	preds := make([]float64, n)
	for i := range preds {
		preds[i] = ens.base
	}
	residuals := make([]float64, n)

	sampleSize := n
	if opts.Subsample > 0 && opts.Subsample < 1 {
		sampleSize = int(float64(n) * opts.Subsample)
		if sampleSize < 2*opts.MinLeaf {
			sampleSize = n
		}
	}

	for round := 0; round < opts.Rounds; round++ {
		floats.SubTo(residuals, ys, preds)

		idx := rng.Perm(n)[:sampleSize]
		// Tree building keys on row order; keep it canonical.
		sort.Ints(idx)

		tree := buildTree(xs, residuals, idx, 0, opts.MaxDepth, opts.MinLeaf)
		ens.trees = append(ens.trees, tree)
		for i := 0; i < n; i++ {
			preds[i] += ens.shrinkage * tree.predict(xs[i])
		}
	}
	return ens
}

// predict scores one feature vector. No randomness at inference time.
func (e *ensemble) predict(x []float64) float64 {
	v := e.base
	for _, t := range e.trees {
		v += e.shrinkage * t.predict(x)
	}
	return v
}
