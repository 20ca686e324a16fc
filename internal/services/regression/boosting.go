package regression

import "gonum.org/v1/gonum/stat"

// GradientBoostingRegressor fits shallow squared-error trees to the residuals
// of the running prediction, starting from the target mean.
type GradientBoostingRegressor struct {
	NEstimators     int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Subsample       float64
	RandomState     uint64

	init  float64
	trees []*regressionTree
	p     int
}

func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Subsample:       1.0,
	}
}

func (m *GradientBoostingRegressor) Clone() Regressor {
	c := *m
	c.trees = nil
	c.init = 0
	return &c
}

func (m *GradientBoostingRegressor) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	rng := newRand(m.RandomState)
	n := len(X)
	params := treeParams{
		maxDepth:        m.MaxDepth,
		minSamplesSplit: max(m.MinSamplesSplit, 2),
		minSamplesLeaf:  max(m.MinSamplesLeaf, 1),
		strategy:        splitBest,
	}

	m.init = stat.Mean(y, nil)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = m.init
	}
	residual := make([]float64, n)
	m.trees = make([]*regressionTree, 0, m.NEstimators)
	for s := 0; s < m.NEstimators; s++ {
		for i := range y {
			residual[i] = y[i] - pred[i]
		}
		g, h := squaredErrorGradients(residual)
		idx := allRows(n)
		if m.Subsample > 0 && m.Subsample < 1 {
			k := max(1, int(m.Subsample*float64(n)))
			idx = rng.Perm(n)[:k]
		}
		t := growTree(X, g, h, idx, params, rng)
		for i, row := range X {
			pred[i] += m.LearningRate * t.predict(row)
		}
		m.trees = append(m.trees, t)
	}
	m.p = p
	return nil
}

func (m *GradientBoostingRegressor) Predict(X [][]float64) ([]float64, error) {
	if m.trees == nil {
		return nil, ErrNotFitted
	}
	if err := checkX(X, m.p); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		v := m.init
		for _, t := range m.trees {
			v += m.LearningRate * t.predict(row)
		}
		out[i] = v
	}
	return out, nil
}
