// Package forecasting forecasts the High and Low series of a price frame with
// a regressor chosen from the regression registry.
package forecasting

import (
	"fmt"
	"math"

	"FinCast/internal/domain/models"
	"FinCast/internal/services/regression"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/util"
)

const (
	ColumnHigh         = "High"
	ColumnLow          = "Low"
	ColumnForecastHigh = "Forecast_High"
	ColumnForecastLow  = "Forecast_Low"
)

type options struct {
	windowLength int
	logger       *applogger.Logger
	verbosity    int
}

// Option tunes a forecast run.
type Option func(*options)

// WithWindowLength fixes the lag window instead of deriving it.
func WithWindowLength(n int) Option {
	return func(o *options) { o.windowLength = n }
}

// WithEstimatorLogger hands l and verbosity to estimators that log while
// fitting. Others ignore it.
func WithEstimatorLogger(l *applogger.Logger, verbosity int) Option {
	return func(o *options) {
		o.logger = l
		o.verbosity = verbosity
	}
}

// Forecast extends data with Forecast_High and Forecast_Low over horizon+1
// business days starting at the last known date, the first of which repeats
// the last actual value. It also returns the symmetric MAPE of each series
// measured on a held-out tail of horizon points.
//
// data is not modified. Errors from the registry, the data or the estimator
// are returned wrapped and unhandled.
func Forecast(data *models.Frame, horizon int, model string, opts ...Option) (*models.Frame, float64, float64, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if horizon < 1 {
		return nil, 0, 0, fmt.Errorf("%w: %d", ErrInvalidHorizon, horizon)
	}

	high, err := data.Column(ColumnHigh)
	if err != nil {
		return nil, 0, 0, err
	}
	low, err := data.Column(ColumnLow)
	if err != nil {
		return nil, 0, 0, err
	}
	if err := checkFinite(ColumnHigh, high); err != nil {
		return nil, 0, 0, err
	}
	if err := checkFinite(ColumnLow, low); err != nil {
		return nil, 0, 0, err
	}
	lastDate, err := data.LastDate()
	if err != nil {
		return nil, 0, 0, err
	}

	regressor, err := regression.SelectRegressor(model)
	if err != nil {
		return nil, 0, 0, err
	}
	if fl, ok := regressor.(regression.FitLogger); ok && o.logger != nil {
		fl.SetLogging(o.logger, o.verbosity)
	}

	index := util.BusinessDayRange(lastDate, horizon+1)

	foreHigh, err := forecastSeries(regressor, high, horizon, o)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("forecast high: %w", err)
	}
	foreLow, err := forecastSeries(regressor, low, horizon, o)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("forecast low: %w", err)
	}

	fore, err := models.NewFrame(index, []string{ColumnForecastHigh, ColumnForecastLow}, map[string][]float64{
		ColumnForecastHigh: foreHigh,
		ColumnForecastLow:  foreLow,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	out, err := data.JoinOuter(fore)
	if err != nil {
		return nil, 0, 0, err
	}

	smapeHigh, err := evaluate(regressor, high, horizon, o)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("evaluate high: %w", err)
	}
	smapeLow, err := evaluate(regressor, low, horizon, o)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("evaluate low: %w", err)
	}

	return out, smapeHigh, smapeLow, nil
}

// forecastSeries fits on the whole series and returns the anchor followed by
// horizon predictions.
func forecastSeries(est regression.Regressor, series []float64, horizon int, o options) ([]float64, error) {
	f := NewReducedForecaster(est, o.windowLength)
	if err := f.Fit(series, horizon); err != nil {
		return nil, err
	}
	pred, err := f.Predict(Horizon(horizon))
	if err != nil {
		return nil, err
	}
	return append([]float64{series[len(series)-1]}, pred...), nil
}

// evaluate refits on all but the last horizon points and scores the tail.
func evaluate(est regression.Regressor, series []float64, horizon int, o options) (float64, error) {
	train, test, err := TemporalTrainTestSplit(series, horizon)
	if err != nil {
		return 0, err
	}
	f := NewReducedForecaster(est, o.windowLength)
	if err := f.Fit(train, len(test)); err != nil {
		return 0, err
	}
	pred, err := f.Predict(Horizon(len(test)))
	if err != nil {
		return 0, err
	}
	return SymmetricMAPE(test, pred)
}

// checkFinite rejects NaN and infinite cells, which the CSV reader produces
// for empty or "nan" fields.
func checkFinite(column string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s row %d", ErrNonFiniteValue, column, i)
		}
	}
	return nil
}
