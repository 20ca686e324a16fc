package regression

import "math"

// LinearSVR is a linear support vector regressor with the epsilon-insensitive
// (L1) loss, solved by dual coordinate descent. The intercept is learned as
// the weight of a constant feature equal to InterceptScaling.
type LinearSVR struct {
	Epsilon          float64
	C                float64
	Tol              float64
	MaxIter          int
	FitIntercept     bool
	InterceptScaling float64
	RandomState      uint64

	w         []float64
	intercept float64
	nIter     int
	fitted    bool
}

func NewLinearSVR() *LinearSVR {
	return &LinearSVR{
		Epsilon:          0,
		C:                1,
		Tol:              1e-4,
		MaxIter:          1000,
		FitIntercept:     true,
		InterceptScaling: 1,
	}
}

func (m *LinearSVR) Clone() Regressor {
	c := *m
	c.w = nil
	c.intercept = 0
	c.nIter = 0
	c.fitted = false
	return &c
}

func (m *LinearSVR) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	n := len(X)
	d := p
	if m.FitIntercept {
		d++
	}
	row := func(i int) []float64 {
		if !m.FitIntercept {
			return X[i]
		}
		r := make([]float64, d)
		copy(r, X[i])
		r[p] = m.InterceptScaling
		return r
	}
	xs := make([][]float64, n)
	qd := make([]float64, n)
	for i := range xs {
		xs[i] = row(i)
		qd[i] = dot(xs[i], xs[i])
	}

	rng := newRand(m.RandomState)
	beta := make([]float64, n)
	w := make([]float64, d)
	upper := m.C
	order := allRows(n)
	gnormInit := 0.0

	iter := 0
	for ; iter < m.MaxIter; iter++ {
		rng.Shuffle(n, func(a, b int) { order[a], order[b] = order[b], order[a] })
		gnorm := 0.0
		for _, i := range order {
			if qd[i] <= 0 {
				continue
			}
			G := dot(w, xs[i]) - y[i]
			Gp := G + m.Epsilon
			Gn := G - m.Epsilon
			H := qd[i]
			b := beta[i]

			var violation float64
			switch {
			case b == 0:
				if Gp < 0 {
					violation = -Gp
				} else if Gn > 0 {
					violation = Gn
				}
			case b >= upper:
				if Gp > 0 {
					violation = Gp
				}
			case b <= -upper:
				if Gn < 0 {
					violation = -Gn
				}
			case b > 0:
				violation = math.Abs(Gp)
			default:
				violation = math.Abs(Gn)
			}
			gnorm += violation

			var step float64
			switch {
			case Gp < H*b:
				step = -Gp / H
			case Gn > H*b:
				step = -Gn / H
			default:
				step = -b
			}
			if math.Abs(step) < 1e-12 {
				continue
			}
			nb := math.Min(math.Max(b+step, -upper), upper)
			delta := nb - b
			beta[i] = nb
			if delta != 0 {
				for j := range w {
					w[j] += delta * xs[i][j]
				}
			}
		}
		if iter == 0 {
			gnormInit = gnorm
		}
		if gnorm <= m.Tol*gnormInit {
			iter++
			break
		}
	}

	m.nIter = iter
	if m.FitIntercept {
		m.intercept = w[p] * m.InterceptScaling
		m.w = w[:p]
	} else {
		m.intercept = 0
		m.w = w
	}
	m.fitted = true
	return nil
}

func (m *LinearSVR) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if err := checkX(X, len(m.w)); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = dot(m.w, row) + m.intercept
	}
	return out, nil
}

// Coef returns the fitted feature weights.
func (m *LinearSVR) Coef() []float64 { return append([]float64(nil), m.w...) }

// Intercept returns the fitted intercept.
func (m *LinearSVR) Intercept() float64 { return m.intercept }

// NIter reports the coordinate-descent passes used by the last fit.
func (m *LinearSVR) NIter() int { return m.nIter }
