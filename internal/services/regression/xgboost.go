package regression

import (
	"math"

	"gonum.org/v1/gonum/stat"

	applogger "FinCast/pkg/logger"
)

// XGBRegressor is second-order gradient boosting with L2-regularised leaves
// under the squared-error objective.
type XGBRegressor struct {
	NEstimators    int
	LearningRate   float64
	MaxDepth       int
	RegLambda      float64
	Gamma          float64
	MinChildWeight float64
	// Verbosity 0 is silent; 1 logs a fit summary; 2 and above log every round.
	Verbosity   int
	RandomState uint64

	logger    *applogger.Logger
	baseScore float64
	trees     []*regressionTree
	p         int
}

// XGBOption configures an XGBRegressor.
type XGBOption func(*XGBRegressor)

// WithVerbosity sets how much the booster logs while fitting.
func WithVerbosity(v int) XGBOption {
	return func(m *XGBRegressor) { m.Verbosity = v }
}

// WithLogger sets the logger used when Verbosity > 0.
func WithLogger(l *applogger.Logger) XGBOption {
	return func(m *XGBRegressor) { m.logger = l }
}

// SetLogging attaches a logger and verbosity after construction, for
// estimators built through the registry.
func (m *XGBRegressor) SetLogging(l *applogger.Logger, verbosity int) {
	m.logger = l
	m.Verbosity = verbosity
}

func NewXGBRegressor(opts ...XGBOption) *XGBRegressor {
	m := &XGBRegressor{
		NEstimators:    100,
		LearningRate:   0.3,
		MaxDepth:       6,
		RegLambda:      1,
		Gamma:          0,
		MinChildWeight: 1,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *XGBRegressor) Clone() Regressor {
	c := *m
	c.trees = nil
	c.baseScore = 0
	return &c
}

func (m *XGBRegressor) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	rng := newRand(m.RandomState)
	n := len(X)
	params := treeParams{
		maxDepth:        m.MaxDepth,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
		lambda:          m.RegLambda,
		gamma:           m.Gamma,
		minChildWeight:  m.MinChildWeight,
		strategy:        splitBest,
	}

	m.baseScore = stat.Mean(y, nil)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = m.baseScore
	}
	g := make([]float64, n)
	h := make([]float64, n)
	idx := allRows(n)
	m.trees = make([]*regressionTree, 0, m.NEstimators)
	for round := 0; round < m.NEstimators; round++ {
		for i := range y {
			g[i] = pred[i] - y[i]
			h[i] = 1
		}
		t := growTree(X, g, h, idx, params, rng)
		for i, row := range X {
			pred[i] += m.LearningRate * t.predict(row)
		}
		m.trees = append(m.trees, t)
		if m.Verbosity >= 2 && m.logger != nil {
			m.logger.Debug("xgboost round",
				applogger.Int("round", round),
				applogger.Int("depth", t.depth()),
				applogger.Float64("train_rmse", rmse(y, pred)),
			)
		}
	}
	m.p = p
	if m.Verbosity >= 1 && m.logger != nil {
		m.logger.Info("xgboost fit done",
			applogger.Int("rounds", len(m.trees)),
			applogger.Int("samples", n),
			applogger.Float64("train_rmse", rmse(y, pred)),
		)
	}
	return nil
}

func (m *XGBRegressor) Predict(X [][]float64) ([]float64, error) {
	if m.trees == nil {
		return nil, ErrNotFitted
	}
	if err := checkX(X, m.p); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		v := m.baseScore
		for _, t := range m.trees {
			v += m.LearningRate * t.predict(row)
		}
		out[i] = v
	}
	return out, nil
}

func rmse(y, pred []float64) float64 {
	s := 0.0
	for i := range y {
		d := y[i] - pred[i]
		s += d * d
	}
	return math.Sqrt(s / float64(len(y)))
}
