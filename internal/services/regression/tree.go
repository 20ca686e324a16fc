package regression

import (
	"math"
	"math/rand/v2"
	"sort"
)

// minGain is the smallest split improvement worth taking.
const minGain = 1e-12

type splitStrategy int

const (
	splitBest splitStrategy = iota
	splitRandom
)

// treeParams configures one regression tree. The tree is grown on per-sample
// gradients g and hessians h: a node scores G²/(H+lambda) and its leaf value is
// -G/(H+lambda). With g = -y, h = 1 and lambda = 0 this is a plain
// squared-error CART tree whose leaves hold the mean target.
type treeParams struct {
	maxDepth        int // 0 means unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // 0 means all
	lambda          float64
	gamma           float64
	minChildWeight  float64
	strategy        splitStrategy
}

type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
	leaf      bool
}

type regressionTree struct {
	nodes []treeNode
}

type treeBuilder struct {
	x      [][]float64
	g, h   []float64
	p      int
	params treeParams
	rng    *rand.Rand
	nodes  []treeNode
}

// growTree fits a tree on the rows listed in idx (duplicates allowed).
func growTree(x [][]float64, g, h []float64, idx []int, params treeParams, rng *rand.Rand) *regressionTree {
	b := &treeBuilder{x: x, g: g, h: h, p: len(x[0]), params: params, rng: rng}
	b.build(append([]int(nil), idx...), 0)
	return &regressionTree{nodes: b.nodes}
}

func (b *treeBuilder) build(idx []int, depth int) int {
	G, H := b.sums(idx)
	id := len(b.nodes)
	b.nodes = append(b.nodes, treeNode{leaf: true, value: -G / (H + b.params.lambda)})

	if b.params.maxDepth > 0 && depth >= b.params.maxDepth {
		return id
	}
	if len(idx) < b.params.minSamplesSplit || len(idx) < 2*b.params.minSamplesLeaf {
		return id
	}
	if H < 2*b.params.minChildWeight {
		return id
	}

	feature, threshold, ok := b.bestSplit(idx, G, H)
	if !ok {
		return id
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return id
	}
	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	b.nodes[id] = treeNode{feature: feature, threshold: threshold, left: l, right: r}
	return id
}

func (b *treeBuilder) sums(idx []int) (float64, float64) {
	G, H := 0.0, 0.0
	for _, i := range idx {
		G += b.g[i]
		H += b.h[i]
	}
	return G, H
}

func (b *treeBuilder) score(G, H float64) float64 {
	return G * G / (H + b.params.lambda)
}

func (b *treeBuilder) gain(GL, HL, GR, HR, G, H float64) float64 {
	return 0.5*(b.score(GL, HL)+b.score(GR, HR)-b.score(G, H)) - b.params.gamma
}

func (b *treeBuilder) candidateFeatures() []int {
	k := b.params.maxFeatures
	if k <= 0 || k >= b.p {
		if b.params.strategy == splitRandom {
			return b.rng.Perm(b.p)
		}
		all := make([]int, b.p)
		for i := range all {
			all[i] = i
		}
		return all
	}
	return b.rng.Perm(b.p)[:k]
}

func (b *treeBuilder) bestSplit(idx []int, G, H float64) (int, float64, bool) {
	bestGain := minGain
	bestFeature, bestThreshold := -1, 0.0
	for _, f := range b.candidateFeatures() {
		var (
			gain      float64
			threshold float64
			ok        bool
		)
		if b.params.strategy == splitRandom {
			gain, threshold, ok = b.randomSplitOn(idx, f, G, H)
		} else {
			gain, threshold, ok = b.bestSplitOn(idx, f, G, H)
		}
		if ok && gain > bestGain {
			bestGain, bestFeature, bestThreshold = gain, f, threshold
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

// bestSplitOn scans every boundary between distinct sorted values of feature f.
func (b *treeBuilder) bestSplitOn(idx []int, f int, G, H float64) (float64, float64, bool) {
	sorted := append([]int(nil), idx...)
	sort.SliceStable(sorted, func(i, j int) bool { return b.x[sorted[i]][f] < b.x[sorted[j]][f] })

	best, threshold, found := math.Inf(-1), 0.0, false
	GL, HL := 0.0, 0.0
	n := len(sorted)
	for k := 0; k < n-1; k++ {
		i := sorted[k]
		GL += b.g[i]
		HL += b.h[i]
		lo, hi := b.x[i][f], b.x[sorted[k+1]][f]
		if lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
			continue
		}
		if k+1 < b.params.minSamplesLeaf || n-k-1 < b.params.minSamplesLeaf {
			continue
		}
		GR, HR := G-GL, H-HL
		if HL < b.params.minChildWeight || HR < b.params.minChildWeight {
			continue
		}
		if g := b.gain(GL, HL, GR, HR, G, H); g > best {
			t := lo + (hi-lo)/2
			if t >= hi {
				t = lo
			}
			best, threshold, found = g, t, true
		}
	}
	return best, threshold, found
}

// randomSplitOn draws one threshold uniformly between the node's min and max of f.
func (b *treeBuilder) randomSplitOn(idx []int, f int, G, H float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, i := range idx {
		v := b.x[i][f]
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi <= lo {
		return 0, 0, false
	}
	threshold := lo + b.rng.Float64()*(hi-lo)
	if threshold >= hi {
		threshold = lo
	}

	GL, HL := 0.0, 0.0
	nl := 0
	for _, i := range idx {
		if b.x[i][f] <= threshold {
			GL += b.g[i]
			HL += b.h[i]
			nl++
		}
	}
	nr := len(idx) - nl
	if nl < b.params.minSamplesLeaf || nr < b.params.minSamplesLeaf || nl == 0 || nr == 0 {
		return 0, 0, false
	}
	GR, HR := G-GL, H-HL
	if HL < b.params.minChildWeight || HR < b.params.minChildWeight {
		return 0, 0, false
	}
	return b.gain(GL, HL, GR, HR, G, H), threshold, true
}

func (t *regressionTree) predict(row []float64) float64 {
	n := t.nodes[0]
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = t.nodes[n.left]
		} else {
			n = t.nodes[n.right]
		}
	}
	return n.value
}

func (t *regressionTree) depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := t.nodes[i]
		if n.leaf {
			return 0
		}
		return 1 + max(walk(n.left), walk(n.right))
	}
	return walk(0)
}

// squaredErrorGradients returns g = -y, h = 1.
func squaredErrorGradients(y []float64) ([]float64, []float64) {
	g := make([]float64, len(y))
	h := make([]float64, len(y))
	for i, v := range y {
		g[i] = -v
		h[i] = 1
	}
	return g, h
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func allRows(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
