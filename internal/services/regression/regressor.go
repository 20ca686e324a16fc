// Package regression holds the estimators a forecast can be built on and the
// registry that constructs them by name.
package regression

import (
	"errors"
	"fmt"
	"math"

	applogger "FinCast/pkg/logger"
)

var (
	ErrNotFitted     = errors.New("regressor is not fitted")
	ErrEmptyInput    = errors.New("empty training input")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrTooFewSamples = errors.New("too few samples")
	ErrNonFinite     = errors.New("non-finite value")
)

// Regressor is a supervised estimator mapping feature rows to one target.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
	// Clone returns an unfitted copy with the same hyperparameters.
	Clone() Regressor
}

// FitLogger is implemented by estimators that can report fit progress.
type FitLogger interface {
	SetLogging(l *applogger.Logger, verbosity int)
}

// checkXY validates a training set and returns its feature count.
func checkXY(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmptyInput
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d targets", ErrShapeMismatch, len(X), len(y))
	}
	p := len(X[0])
	if p == 0 {
		return 0, fmt.Errorf("%w: zero features", ErrShapeMismatch)
	}
	for i, row := range X {
		if len(row) != p {
			return 0, fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(row), p)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("%w: row %d", ErrNonFinite, i)
			}
		}
		if math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			return 0, fmt.Errorf("%w: target %d", ErrNonFinite, i)
		}
	}
	return p, nil
}

// checkX validates prediction input against the fitted feature count.
func checkX(X [][]float64, p int) error {
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrShapeMismatch, i, len(row), p)
		}
	}
	return nil
}
