package regression

import (
	"fmt"
	"math"
	"sort"
)

// KNeighborsRegressor predicts the mean target of the K nearest training rows
// under Euclidean distance.
type KNeighborsRegressor struct {
	NNeighbors int

	x      [][]float64
	y      []float64
	p      int
	fitted bool
}

func NewKNeighborsRegressor() *KNeighborsRegressor {
	return &KNeighborsRegressor{NNeighbors: 5}
}

func (m *KNeighborsRegressor) Clone() Regressor {
	return &KNeighborsRegressor{NNeighbors: m.NNeighbors}
}

func (m *KNeighborsRegressor) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if m.NNeighbors < 1 {
		return fmt.Errorf("knn: n_neighbors must be positive, got %d", m.NNeighbors)
	}
	if m.NNeighbors > len(X) {
		return fmt.Errorf("%w: knn needs %d samples, got %d", ErrTooFewSamples, m.NNeighbors, len(X))
	}
	m.x = copyRows(X)
	m.y = append([]float64(nil), y...)
	m.p = p
	m.fitted = true
	return nil
}

func (m *KNeighborsRegressor) Predict(X [][]float64) ([]float64, error) {
	if !m.fitted {
		return nil, ErrNotFitted
	}
	if err := checkX(X, m.p); err != nil {
		return nil, err
	}
	type neighbor struct {
		idx  int
		dist float64
	}
	out := make([]float64, len(X))
	nb := make([]neighbor, len(m.x))
	for i, row := range X {
		for j, tr := range m.x {
			nb[j] = neighbor{idx: j, dist: euclidean(row, tr)}
		}
		sort.SliceStable(nb, func(a, b int) bool { return nb[a].dist < nb[b].dist })
		sum := 0.0
		for k := 0; k < m.NNeighbors; k++ {
			sum += m.y[nb[k].idx]
		}
		out[i] = sum / float64(m.NNeighbors)
	}
	return out, nil
}

func euclidean(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

func copyRows(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
