// Package analysis holds the statistical and time-series models behind the
// agent tools: an isolation forest for outlier detection, an ARIMA(1,1,1)
// fit for forecasting, and daily aggregation policies shared by both.
package analysis

import (
	"math"
	"math/rand"
	"sort"
)

const (
	// DefaultTrees is the estimator count the anomaly tool fits with.
	DefaultTrees = 100

	maxSubsample = 256
)

type isoNode struct {
	split       float64
	left, right *isoNode
	size        int // leaf only
}

// IsolationForest is a forest of random binary partition trees over a 1-D
// sample. A fixed seed makes fitting fully deterministic.
type IsolationForest struct {
	trees     []*isoNode
	subsample int
	scores    []float64
}

// FitIsolationForest builds numTrees isolation trees over values using the
// given seed and computes an anomaly score per input point.
func FitIsolationForest(values []float64, numTrees int, seed int64) *IsolationForest {
	rng := rand.New(rand.NewSource(seed))

	sub := len(values)
	if sub > maxSubsample {
		sub = maxSubsample
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sub))))
	if maxDepth < 1 {
		maxDepth = 1
	}

	f := &IsolationForest{subsample: sub}
	for t := 0; t < numTrees; t++ {
		sample := make([]float64, sub)
		for i := range sample {
			sample[i] = values[rng.Intn(len(values))]
		}
		f.trees = append(f.trees, buildIsoTree(sample, 0, maxDepth, rng))
	}

	norm := cFactor(sub)
	f.scores = make([]float64, len(values))
	for i, v := range values {
		var total float64
		for _, tree := range f.trees {
			total += pathLength(tree, v, 0)
		}
		avg := total / float64(len(f.trees))
		f.scores[i] = math.Pow(2, -avg/norm)
	}
	return f
}

// Scores returns the anomaly score per input point, higher meaning more
// isolated.
func (f *IsolationForest) Scores() []float64 {
	return f.scores
}

// Outliers returns the indices of the ceil(contamination*n) highest-scoring
// points, in input order. Contamination is clamped to [0, 0.5].
func (f *IsolationForest) Outliers(contamination float64) []int {
	if contamination < 0 {
		contamination = 0
	}
	if contamination > 0.5 {
		contamination = 0.5
	}

	n := len(f.scores)
	k := int(math.Ceil(contamination * float64(n)))
	if k <= 0 {
		return nil
	}
	if k > n {
		k = n
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.scores[order[a]] > f.scores[order[b]]
	})

	picked := order[:k]
	sort.Ints(picked)
	return picked
}

func buildIsoTree(sample []float64, depth, maxDepth int, rng *rand.Rand) *isoNode {
	if depth >= maxDepth || len(sample) <= 1 {
		return &isoNode{size: len(sample)}
	}

	lo, hi := sample[0], sample[0]
	for _, v := range sample[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return &isoNode{size: len(sample)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, v := range sample {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}

	return &isoNode{
		split: split,
		left:  buildIsoTree(left, depth+1, maxDepth, rng),
		right: buildIsoTree(right, depth+1, maxDepth, rng),
	}
}

func pathLength(node *isoNode, v float64, depth int) float64 {
	if node.left == nil && node.right == nil {
		return float64(depth) + cFactor(node.size)
	}
	if v < node.split {
		return pathLength(node.left, v, depth+1)
	}
	return pathLength(node.right, v, depth+1)
}

// cFactor is the average unsuccessful-search path length of a BST of size n,
// used to normalize path lengths.
func cFactor(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649015329
	return 2*h - 2*float64(n-1)/float64(n)
}
