package regression

import (
	"bytes"
	"math"
	"strings"
	"testing"

	applogger "FinCast/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lagged builds windows of length w over a series and the next-value targets.
func lagged(series []float64, w int) ([][]float64, []float64) {
	var X [][]float64
	var y []float64
	for i := w; i < len(series); i++ {
		X = append(X, append([]float64(nil), series[i-w:i]...))
		y = append(y, series[i])
	}
	return X, y
}

func linearSeries(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestLinearRegressionRecoversPlane(t *testing.T) {
	X := [][]float64{{0, 1}, {1, 0}, {2, 3}, {3, 5}, {4, 1}, {5, 2}}
	y := make([]float64, len(X))
	for i, r := range X {
		y[i] = 3 + 2*r[0] - 0.5*r[1]
	}
	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))
	assert.InDelta(t, 3, m.Intercept(), 1e-9)
	assert.InDeltaSlice(t, []float64{2, -0.5}, m.Coef(), 1e-9)

	pred, err := m.Predict([][]float64{{10, 10}})
	require.NoError(t, err)
	assert.InDelta(t, 18, pred[0], 1e-9)
}

func TestLinearRegressionCollinearWindows(t *testing.T) {
	X, y := lagged(linearSeries(40, 100, 0.5), 10)
	m := NewLinearRegression()
	require.NoError(t, m.Fit(X, y))

	next := linearSeries(50, 100, 0.5)[30:40]
	pred, err := m.Predict([][]float64{next})
	require.NoError(t, err)
	assert.InDelta(t, 100+0.5*40, pred[0], 1e-6)
}

func TestLinearRegressionSingleSample(t *testing.T) {
	m := NewLinearRegression()
	require.NoError(t, m.Fit([][]float64{{4}}, []float64{7}))
	pred, err := m.Predict([][]float64{{100}})
	require.NoError(t, err)
	assert.InDelta(t, 7, pred[0], 1e-12)
}

func TestKNeighborsAveragesNearest(t *testing.T) {
	X := [][]float64{{0}, {1}, {2}, {10}, {11}, {12}}
	y := []float64{0, 1, 2, 10, 11, 12}
	m := &KNeighborsRegressor{NNeighbors: 3}
	require.NoError(t, m.Fit(X, y))
	pred, err := m.Predict([][]float64{{0.9}, {11.2}})
	require.NoError(t, err)
	assert.InDelta(t, 1, pred[0], 1e-12)
	assert.InDelta(t, 11, pred[1], 1e-12)
}

func TestKNeighborsNeedsEnoughSamples(t *testing.T) {
	m := NewKNeighborsRegressor()
	err := m.Fit([][]float64{{1}, {2}}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrTooFewSamples)
}

func TestTreeEnsemblesLearnStep(t *testing.T) {
	var X [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		X = append(X, []float64{float64(i)})
		if i < 20 {
			y = append(y, 1)
		} else {
			y = append(y, 5)
		}
	}
	for _, m := range []Regressor{
		NewRandomForestRegressor(),
		NewExtraTreesRegressor(),
		NewGradientBoostingRegressor(),
		NewXGBRegressor(),
	} {
		require.NoError(t, m.Fit(X, y))
		pred, err := m.Predict([][]float64{{3}, {35}})
		require.NoError(t, err)
		assert.InDelta(t, 1, pred[0], 0.25, "%T low side", m)
		assert.InDelta(t, 5, pred[1], 0.25, "%T high side", m)
	}
}

func TestRandomForestIsReproducible(t *testing.T) {
	X, y := lagged([]float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3, 2, 3, 8, 4}, 3)
	a := NewRandomForestRegressor()
	b := NewRandomForestRegressor()
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))
	pa, err := a.Predict(X)
	require.NoError(t, err)
	pb, err := b.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, pa, pb)
}

func TestLinearSVRFitsLine(t *testing.T) {
	X := make([][]float64, 30)
	y := make([]float64, 30)
	for i := range X {
		x := float64(i) / 10
		X[i] = []float64{x}
		y[i] = 2*x + 1
	}
	m := NewLinearSVR()
	m.C = 10
	require.NoError(t, m.Fit(X, y))
	pred, err := m.Predict([][]float64{{1.5}})
	require.NoError(t, err)
	assert.InDelta(t, 4, pred[0], 0.2)
	assert.Greater(t, m.NIter(), 0)
}

func TestCloneDropsFittedState(t *testing.T) {
	X, y := lagged(linearSeries(30, 10, 1), 5)
	for _, name := range ModelNames() {
		m, err := SelectRegressor(name)
		require.NoError(t, err)
		require.NoError(t, m.Fit(X, y), name)
		c := m.Clone()
		assert.IsType(t, m, c)
		_, err = c.Predict(X)
		assert.ErrorIs(t, err, ErrNotFitted, name)
	}
}

func TestFitRejectsBadShapes(t *testing.T) {
	for _, name := range ModelNames() {
		m, err := SelectRegressor(name)
		require.NoError(t, err)
		assert.ErrorIs(t, m.Fit(nil, nil), ErrEmptyInput, name)
		assert.ErrorIs(t, m.Fit([][]float64{{1}, {2, 3}}, []float64{1, 2}), ErrShapeMismatch, name)
		assert.ErrorIs(t, m.Fit([][]float64{{1}}, []float64{1, 2}), ErrShapeMismatch, name)
	}
}

func TestFitRejectsNonFiniteValues(t *testing.T) {
	X, y := lagged(linearSeries(30, 10, 1), 3)
	X[4][1] = math.NaN()
	for _, name := range ModelNames() {
		m, err := SelectRegressor(name)
		require.NoError(t, err)
		assert.ErrorIs(t, m.Fit(X, y), ErrNonFinite, name)
	}

	X, y = lagged(linearSeries(30, 10, 1), 3)
	y[2] = math.Inf(1)
	m := NewRandomForestRegressor()
	assert.ErrorIs(t, m.Fit(X, y), ErrNonFinite)
}

func TestTreeSplitsAdjacentFloats(t *testing.T) {
	a := math.Nextafter(1, 2)
	b := math.Nextafter(a, 2)
	x := [][]float64{{a}, {b}}
	g, h := squaredErrorGradients([]float64{0, 1})
	params := treeParams{minSamplesSplit: 2, minSamplesLeaf: 1}

	for _, strategy := range []splitStrategy{splitBest, splitRandom} {
		params.strategy = strategy
		tree := growTree(x, g, h, allRows(2), params, newRand(1))
		assert.Equal(t, 0.0, tree.predict([]float64{a}))
		assert.Equal(t, 1.0, tree.predict([]float64{b}))
		assert.Equal(t, 1, tree.depth())
	}

	for _, name := range []string{"Random Forest", "Extra Trees", "Gradient Boosting", "XGBoost"} {
		m, err := SelectRegressor(name)
		require.NoError(t, err)
		require.NoError(t, m.Fit(x, []float64{0, 1}), name)
	}
}

func TestTreeGrowthStopsOnNaNFeature(t *testing.T) {
	x := [][]float64{{1}, {math.NaN()}, {2}, {3}, {math.NaN()}, {4}}
	g, h := squaredErrorGradients([]float64{1, 5, 2, 3, 7, 4})
	tree := growTree(x, g, h, allRows(len(x)), treeParams{minSamplesSplit: 2, minSamplesLeaf: 1}, newRand(1))
	assert.LessOrEqual(t, tree.depth(), len(x))
	assert.False(t, math.IsNaN(tree.predict([]float64{2.5})))
}

func TestPredictionsAreFinite(t *testing.T) {
	series := make([]float64, 60)
	for i := range series {
		series[i] = 50 + 5*math.Sin(float64(i)/4) + float64(i)*0.2
	}
	X, y := lagged(series, 8)
	for _, name := range ModelNames() {
		m, err := SelectRegressor(name)
		require.NoError(t, err)
		require.NoError(t, m.Fit(X, y), name)
		pred, err := m.Predict(X[len(X)-3:])
		require.NoError(t, err, name)
		for _, v := range pred {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s produced %v", name, v)
		}
	}
}

func TestXGBRegressorVerbosityLogs(t *testing.T) {
	X, y := lagged(linearSeries(30, 10, 1), 5)

	var buf bytes.Buffer
	m := NewXGBRegressor(WithVerbosity(1), WithLogger(applogger.NewWithWriter(&buf, "debug")))
	m.NEstimators = 3
	require.NoError(t, m.Fit(X, y))
	assert.Equal(t, 1, strings.Count(buf.String(), "xgboost fit done"))
	assert.NotContains(t, buf.String(), "xgboost round")

	buf.Reset()
	m = NewXGBRegressor(WithVerbosity(2), WithLogger(applogger.NewWithWriter(&buf, "debug")))
	m.NEstimators = 3
	require.NoError(t, m.Fit(X, y))
	assert.Equal(t, 3, strings.Count(buf.String(), "xgboost round"))

	buf.Reset()
	m = NewXGBRegressor(WithLogger(applogger.NewWithWriter(&buf, "debug")))
	m.NEstimators = 3
	require.NoError(t, m.Fit(X, y))
	assert.Empty(t, buf.String())
}
