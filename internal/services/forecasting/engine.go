package forecasting

import (
	"context"
	"time"

	"FinCast/internal/domain/models"
	domsvc "FinCast/internal/domain/service"
	"FinCast/internal/services/regression"
	applogger "FinCast/pkg/logger"
)

// Engine adapts Forecast to the domain Forecaster interface.
type Engine struct {
	defaultWindow int
	logger        *applogger.Logger
	verbosity     int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFitLogging routes estimator fit logs to l. Verbosity 0 keeps them
// silent, 1 logs a summary per fit and 2 logs every boosting round.
func WithFitLogging(l *applogger.Logger, verbosity int) EngineOption {
	return func(e *Engine) {
		e.logger = l
		e.verbosity = verbosity
	}
}

// NewEngine returns an Engine. defaultWindow applies when a call passes a
// window of 0; 0 here keeps the derived window.
func NewEngine(defaultWindow int, opts ...EngineOption) *Engine {
	e := &Engine{defaultWindow: defaultWindow}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Forecast(ctx context.Context, data *models.Frame, horizon int, model string, window int) (*models.ForecastResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if window <= 0 {
		window = e.defaultWindow
	}
	var opts []Option
	if window > 0 {
		opts = append(opts, WithWindowLength(window))
	}
	if e.logger != nil && e.verbosity > 0 {
		opts = append(opts, WithEstimatorLogger(e.logger, e.verbosity))
	}

	start := time.Now()
	out, smapeHigh, smapeLow, err := Forecast(data, horizon, model, opts...)
	if err != nil {
		return nil, err
	}
	return &models.ForecastResult{
		Model:     model,
		Horizon:   horizon,
		Frame:     out,
		SMAPEHigh: smapeHigh,
		SMAPELow:  smapeLow,
		Duration:  time.Since(start),
		CreatedAt: start,
	}, nil
}

func (e *Engine) ModelNames() []string { return regression.ModelNames() }

var (
	_ domsvc.Forecaster   = (*Engine)(nil)
	_ domsvc.ModelCatalog = (*Engine)(nil)
)
