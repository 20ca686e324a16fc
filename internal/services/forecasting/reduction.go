package forecasting

import (
	"errors"
	"fmt"

	"FinCast/internal/services/regression"
)

// DefaultWindowLength caps the number of lags fed to the regressor.
const DefaultWindowLength = 10

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidHorizon   = errors.New("horizon must be positive")
	ErrNotFitted        = errors.New("forecaster is not fitted")
	ErrNonFiniteValue   = errors.New("series holds a missing or non-finite value")
)

// ReducedForecaster turns a univariate series into a tabular regression
// problem over lagged windows and forecasts recursively: each prediction is
// fed back as the newest lag for the next step.
type ReducedForecaster struct {
	estimator    regression.Regressor
	windowLength int

	fitted regression.Regressor
	window int
	tail   []float64
}

// NewReducedForecaster wraps est. A windowLength of 0 derives the window from
// the series length and horizon at fit time.
func NewReducedForecaster(est regression.Regressor, windowLength int) *ReducedForecaster {
	return &ReducedForecaster{estimator: est, windowLength: windowLength}
}

// WindowFor returns the window used for a series of length n forecast over
// horizon steps: n-horizon, capped at DefaultWindowLength and at least 1.
//
// The cap departs from a plain n-horizon window. Uncapped, the window fills
// the whole training split and leaves no lag rows to fit on when a forecast is
// scored against its held-out tail. WithWindowLength lifts the cap.
func WindowFor(n, horizon int) int {
	w := n - horizon
	if w > DefaultWindowLength {
		w = DefaultWindowLength
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Fit clones the wrapped estimator and fits it on the lag windows of y.
func (f *ReducedForecaster) Fit(y []float64, horizon int) error {
	if horizon < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidHorizon, horizon)
	}
	w := f.windowLength
	if w <= 0 {
		w = WindowFor(len(y), horizon)
	}
	X, target, err := Tabularize(y, w)
	if err != nil {
		return err
	}
	est := f.estimator.Clone()
	if err := est.Fit(X, target); err != nil {
		return fmt.Errorf("fit regressor: %w", err)
	}
	f.fitted = est
	f.window = w
	f.tail = append([]float64(nil), y[len(y)-w:]...)
	return nil
}

// Predict returns forecasts for the relative steps in fh (1 is the first
// step after the fitted series).
func (f *ReducedForecaster) Predict(fh []int) ([]float64, error) {
	if f.fitted == nil {
		return nil, ErrNotFitted
	}
	steps := 0
	for _, h := range fh {
		if h < 1 {
			return nil, fmt.Errorf("%w: step %d", ErrInvalidHorizon, h)
		}
		steps = max(steps, h)
	}

	last := append([]float64(nil), f.tail...)
	path := make([]float64, steps)
	for s := 0; s < steps; s++ {
		pred, err := f.fitted.Predict([][]float64{last})
		if err != nil {
			return nil, fmt.Errorf("predict step %d: %w", s+1, err)
		}
		path[s] = pred[0]
		last = append(last[1:], pred[0])
	}

	out := make([]float64, len(fh))
	for i, h := range fh {
		out[i] = path[h-1]
	}
	return out, nil
}

// WindowLength reports the window chosen by the last Fit.
func (f *ReducedForecaster) WindowLength() int { return f.window }

// Tabularize builds lag windows of length w and their next-value targets.
func Tabularize(y []float64, w int) ([][]float64, []float64, error) {
	if w < 1 {
		return nil, nil, fmt.Errorf("%w: window length %d", ErrInsufficientData, w)
	}
	if len(y) <= w {
		return nil, nil, fmt.Errorf("%w: series of length %d cannot fill a window of %d plus a target", ErrInsufficientData, len(y), w)
	}
	n := len(y) - w
	X := make([][]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		X[i] = append([]float64(nil), y[i:i+w]...)
		target[i] = y[i+w]
	}
	return X, target, nil
}

// Horizon returns the relative steps 1..h.
func Horizon(h int) []int {
	out := make([]int, h)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
