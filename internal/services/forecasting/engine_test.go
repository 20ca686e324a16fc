package forecasting

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinCast/internal/services/regression"
	applogger "FinCast/pkg/logger"
)

func TestEngineForecast(t *testing.T) {
	e := NewEngine(0)
	data := trendFrame(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 40)

	res, err := e.Forecast(context.Background(), data, 4, "Linear Regression", 0)
	require.NoError(t, err)
	assert.Equal(t, "Linear Regression", res.Model)
	assert.Equal(t, 4, res.Horizon)
	assert.Equal(t, 44, res.Frame.Len())
	assert.InDelta(t, 0, res.SMAPEHigh, 1e-6)
	assert.False(t, res.CreatedAt.IsZero())
}

func TestEngineDefaultWindow(t *testing.T) {
	data := trendFrame(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 40)

	_, err := NewEngine(3).Forecast(context.Background(), data, 2, "K-Nearest Neighbors", 0)
	require.NoError(t, err)

	// an explicit window longer than the series cannot be tabularised
	_, err = NewEngine(3).Forecast(context.Background(), data, 2, "K-Nearest Neighbors", 45)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEngineCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(0).Forecast(ctx, trendFrame(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 20), 2, "XGBoost", 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineModelNames(t *testing.T) {
	assert.Equal(t, regression.ModelNames(), NewEngine(0).ModelNames())
}

func TestEngineFitLogging(t *testing.T) {
	data := trendFrame(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 40)

	var buf bytes.Buffer
	e := NewEngine(0, WithFitLogging(applogger.NewWithWriter(&buf, "debug"), 1))
	_, err := e.Forecast(context.Background(), data, 4, "XGBoost", 0)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "xgboost fit done")
	assert.NotContains(t, buf.String(), "xgboost round")

	buf.Reset()
	_, err = e.Forecast(context.Background(), data, 4, "Linear Regression", 0)
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	silent := NewEngine(0, WithFitLogging(applogger.NewWithWriter(&buf, "debug"), 0))
	_, err = silent.Forecast(context.Background(), data, 4, "XGBoost", 0)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
