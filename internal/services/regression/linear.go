package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// rcond is the relative cutoff below which singular values are treated as zero.
const rcond = 1e-12

// LinearRegression is ordinary least squares. Rank-deficient designs get the
// minimum-norm solution, so collinear lag windows still fit.
type LinearRegression struct {
	FitIntercept bool

	coef      []float64
	intercept float64
	fitted    bool
}

func NewLinearRegression() *LinearRegression {
	return &LinearRegression{FitIntercept: true}
}

func (m *LinearRegression) Clone() Regressor {
	return &LinearRegression{FitIntercept: m.FitIntercept}
}

func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	n := len(X)

	xMean := make([]float64, p)
	yMean := 0.0
	if m.FitIntercept {
		col := make([]float64, n)
		for j := 0; j < p; j++ {
			for i := range X {
				col[i] = X[i][j]
			}
			xMean[j] = stat.Mean(col, nil)
		}
		yMean = stat.Mean(y, nil)
	}

	a := mat.NewDense(n, p, nil)
	b := mat.NewVecDense(n, nil)
	for i := range X {
		for j := 0; j < p; j++ {
			a.Set(i, j, X[i][j]-xMean[j])
		}
		b.SetVec(i, y[i]-yMean)
	}

	coef, err := lstsq(a, b)
	if err != nil {
		return err
	}

	m.coef = coef
	m.intercept = yMean
	for j := 0; j < p; j++ {
		m.intercept -= xMean[j] * coef[j]
	}
	m.fitted = true
	return nil
}

func (m *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if err := checkX(X, len(m.coef)); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = m.intercept + dot(m.coef, row)
	}
	return out, nil
}

// Coef returns the fitted coefficients.
func (m *LinearRegression) Coef() []float64 { return append([]float64(nil), m.coef...) }

// Intercept returns the fitted intercept.
func (m *LinearRegression) Intercept() float64 { return m.intercept }

// lstsq solves min ||a x - b|| through the pseudo-inverse V S^+ U^T b.
func lstsq(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	_, p := a.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("linear regression: svd factorization failed")
	}
	s := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	x := make([]float64, p)
	if len(s) == 0 || s[0] == 0 {
		return x, nil
	}
	cutoff := rcond * s[0]

	var utb mat.VecDense
	utb.MulVec(u.T(), b)
	for k, sk := range s {
		if sk <= cutoff {
			continue
		}
		scale := utb.AtVec(k) / sk
		for j := 0; j < p; j++ {
			x[j] += v.At(j, k) * scale
		}
	}
	return x, nil
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
