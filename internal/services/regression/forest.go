package regression

import "math"

// forest is the bagging core shared by random forests and extra trees.
type forest struct {
	NEstimators     int
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     float64 // fraction of features tried per split
	Bootstrap       bool
	RandomState     uint64

	strategy splitStrategy
	trees    []*regressionTree
	p        int
}

func (f *forest) fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if f.NEstimators < 1 {
		f.NEstimators = 1
	}
	rng := newRand(f.RandomState)
	g, h := squaredErrorGradients(y)
	params := treeParams{
		maxDepth:        f.MaxDepth,
		minSamplesSplit: max(f.MinSamplesSplit, 2),
		minSamplesLeaf:  max(f.MinSamplesLeaf, 1),
		maxFeatures:     featureCount(f.MaxFeatures, p),
		strategy:        f.strategy,
	}

	n := len(X)
	f.trees = make([]*regressionTree, 0, f.NEstimators)
	for t := 0; t < f.NEstimators; t++ {
		idx := allRows(n)
		if f.Bootstrap {
			for i := range idx {
				idx[i] = rng.IntN(n)
			}
		}
		f.trees = append(f.trees, growTree(X, g, h, idx, params, rng))
	}
	f.p = p
	return nil
}

func (f *forest) predict(X [][]float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}
	if err := checkX(X, f.p); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		sum := 0.0
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

func featureCount(fraction float64, p int) int {
	if fraction <= 0 || fraction >= 1 {
		return 0
	}
	return max(1, int(math.Floor(fraction*float64(p))))
}

// RandomForestRegressor averages bootstrapped, fully grown CART trees.
type RandomForestRegressor struct {
	forest
}

func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{forest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     1.0,
		Bootstrap:       true,
		strategy:        splitBest,
	}}
}

func (m *RandomForestRegressor) Clone() Regressor {
	c := *m
	c.trees = nil
	return &c
}

func (m *RandomForestRegressor) Fit(X [][]float64, y []float64) error { return m.fit(X, y) }

func (m *RandomForestRegressor) Predict(X [][]float64) ([]float64, error) { return m.predict(X) }

// ExtraTreesRegressor averages trees whose split thresholds are drawn at random,
// each grown on the full training set.
type ExtraTreesRegressor struct {
	forest
}

func NewExtraTreesRegressor() *ExtraTreesRegressor {
	return &ExtraTreesRegressor{forest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     1.0,
		Bootstrap:       false,
		strategy:        splitRandom,
	}}
}

func (m *ExtraTreesRegressor) Clone() Regressor {
	c := *m
	c.trees = nil
	return &c
}

func (m *ExtraTreesRegressor) Fit(X [][]float64, y []float64) error { return m.fit(X, y) }

func (m *ExtraTreesRegressor) Predict(X [][]float64) ([]float64, error) { return m.predict(X) }
