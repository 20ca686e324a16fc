package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinCast/internal/domain/models"
	"FinCast/internal/services/forecasting"
	"FinCast/internal/services/regression"
)

type fakeEngine struct {
	calls  int
	window int
	err    error
}

func (f *fakeEngine) Forecast(_ context.Context, data *models.Frame, horizon int, model string, window int) (*models.ForecastResult, error) {
	f.calls++
	f.window = window
	if f.err != nil {
		return nil, f.err
	}
	return &models.ForecastResult{
		Model:     model,
		Horizon:   horizon,
		Frame:     data,
		SMAPEHigh: 0.1,
		SMAPELow:  0.2,
		Duration:  15 * time.Millisecond,
	}, nil
}

func (f *fakeEngine) ModelNames() []string { return []string{"Linear Regression", "XGBoost"} }

type fakeMetrics struct {
	forecasts []string
	errors    []string
	smape     map[string]float64
}

func (m *fakeMetrics) RecordForecast(model string, _ float64) {
	m.forecasts = append(m.forecasts, model)
}
func (m *fakeMetrics) RecordError(kind string) { m.errors = append(m.errors, kind) }
func (m *fakeMetrics) RecordSMAPE(model, series string, v float64) {
	if m.smape == nil {
		m.smape = map[string]float64{}
	}
	m.smape[model+"/"+series] = v
}

func frameOf(t *testing.T, n int) *models.Frame {
	t.Helper()
	idx := make([]time.Time, n)
	high := make([]float64, n)
	low := make([]float64, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range idx {
		idx[i] = start.AddDate(0, 0, i)
		high[i] = float64(i) + 1
		low[i] = float64(i)
	}
	f, err := models.NewFrame(idx, []string{"High", "Low"}, map[string][]float64{"High": high, "Low": low})
	require.NoError(t, err)
	return f
}

func TestForecastUseCaseRun(t *testing.T) {
	eng := &fakeEngine{}
	met := &fakeMetrics{}
	uc := NewForecastUseCase(eng, met, nil, 100, 30)

	res, err := uc.Run(context.Background(), ForecastParams{
		Symbol:  "AAPL",
		Horizon: 5,
		Model:   "Linear Regression",
		Window:  7,
		Data:    frameOf(t, 20),
	})
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, 7, eng.window)
	assert.Equal(t, []string{"Linear Regression"}, met.forecasts)
	assert.Equal(t, 0.1, met.smape["Linear Regression/high"])
	assert.Equal(t, 0.2, met.smape["Linear Regression/low"])
	assert.Empty(t, met.errors)
}

func TestForecastUseCaseLimits(t *testing.T) {
	eng := &fakeEngine{}
	met := &fakeMetrics{}
	uc := NewForecastUseCase(eng, met, nil, 10, 3)

	_, err := uc.Run(context.Background(), ForecastParams{Horizon: 4, Model: "XGBoost", Data: frameOf(t, 5)})
	assert.ErrorIs(t, err, ErrHorizonTooLarge)

	_, err = uc.Run(context.Background(), ForecastParams{Horizon: 2, Model: "XGBoost", Data: frameOf(t, 11)})
	assert.ErrorIs(t, err, ErrTooManyRows)

	_, err = uc.Run(context.Background(), ForecastParams{Horizon: 2, Model: "XGBoost"})
	assert.ErrorIs(t, err, ErrNoData)

	assert.Zero(t, eng.calls)
	assert.Equal(t, []string{"invalid_horizon", "too_many_rows", "insufficient_data"}, met.errors)
}

func TestForecastUseCaseEngineError(t *testing.T) {
	eng := &fakeEngine{err: fmt.Errorf("%w: %q", regression.ErrUnknownModel, "Prophet")}
	met := &fakeMetrics{}
	uc := NewForecastUseCase(eng, met, nil, 0, 0)

	_, err := uc.Run(context.Background(), ForecastParams{Symbol: "X", Horizon: 1, Model: "Prophet", Data: frameOf(t, 5)})
	require.Error(t, err)
	assert.ErrorIs(t, err, regression.ErrUnknownModel)
	assert.Equal(t, []string{"unknown_model"}, met.errors)
	assert.Empty(t, met.forecasts)
}

func TestErrorKind(t *testing.T) {
	cases := map[string]error{
		"unknown_model":     regression.ErrUnknownModel,
		"invalid_horizon":   forecasting.ErrInvalidHorizon,
		"insufficient_data": fmt.Errorf("fit: %w", forecasting.ErrInsufficientData),
		"bad_input":         models.ErrColumnNotFound,
		"canceled":          context.Canceled,
		"internal":          errors.New("boom"),
	}
	for want, err := range cases {
		assert.Equal(t, want, ErrorKind(err), err.Error())
	}
	assert.True(t, IsInputError(models.ErrLengthMismatch))
	assert.Equal(t, "bad_input", ErrorKind(fmt.Errorf("High row 3: %w", forecasting.ErrNonFiniteValue)))
	assert.Equal(t, "bad_input", ErrorKind(fmt.Errorf("fit: %w", regression.ErrNonFinite)))
	assert.Equal(t, "bad_input", ErrorKind(fmt.Errorf("join: %w", models.ErrUnsortedIndex)))
	assert.False(t, IsInputError(errors.New("boom")))
}

func TestModelsUseCaseLookup(t *testing.T) {
	uc := NewModelsUseCase(&fakeEngine{})
	assert.Equal(t, []string{"Linear Regression", "XGBoost"}, uc.List())

	name, ok := uc.Lookup(" xgboost ")
	assert.True(t, ok)
	assert.Equal(t, "XGBoost", name)

	_, ok = uc.Lookup("ARIMA")
	assert.False(t, ok)
}
