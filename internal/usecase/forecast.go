package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"FinCast/internal/domain/models"
	domrepo "FinCast/internal/domain/repository"
	domsvc "FinCast/internal/domain/service"
	"FinCast/internal/services/forecasting"
	"FinCast/internal/services/regression"
	applogger "FinCast/pkg/logger"
)

var (
	ErrHorizonTooLarge = errors.New("horizon exceeds configured maximum")
	ErrTooManyRows     = errors.New("input exceeds configured maximum rows")
	ErrNoData          = errors.New("no input data")
)

// ForecastUseCase runs forecasts and records telemetry around them.
type ForecastUseCase struct {
	engine     domsvc.Forecaster
	metrics    domrepo.Metrics
	log        *applogger.Logger
	maxRows    int
	maxHorizon int
}

func NewForecastUseCase(engine domsvc.Forecaster, metrics domrepo.Metrics, l *applogger.Logger, maxRows, maxHorizon int) *ForecastUseCase {
	if l == nil {
		l = applogger.Nop()
	}
	return &ForecastUseCase{engine: engine, metrics: metrics, log: l, maxRows: maxRows, maxHorizon: maxHorizon}
}

type ForecastParams struct {
	Symbol  string
	Horizon int
	Model   string
	Window  int
	Data    *models.Frame
}

func (uc *ForecastUseCase) Run(ctx context.Context, p ForecastParams) (*models.ForecastResult, error) {
	if p.Data == nil || p.Data.Len() == 0 {
		uc.recordError(ErrNoData)
		return nil, ErrNoData
	}
	if uc.maxHorizon > 0 && p.Horizon > uc.maxHorizon {
		uc.recordError(ErrHorizonTooLarge)
		return nil, fmt.Errorf("%w: %d > %d", ErrHorizonTooLarge, p.Horizon, uc.maxHorizon)
	}
	if uc.maxRows > 0 && p.Data.Len() > uc.maxRows {
		uc.recordError(ErrTooManyRows)
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyRows, p.Data.Len(), uc.maxRows)
	}

	runID := uuid.NewString()
	log := uc.log.With(
		applogger.String("run_id", runID),
		applogger.String("symbol", p.Symbol),
		applogger.String("model", p.Model),
	)
	log.Debug("forecast started",
		applogger.Int("rows", p.Data.Len()),
		applogger.Int("horizon", p.Horizon),
		applogger.Int("window", p.Window),
	)

	res, err := uc.engine.Forecast(ctx, p.Data, p.Horizon, p.Model, p.Window)
	if err != nil {
		uc.recordError(err)
		log.Error("forecast failed", applogger.Error(err))
		return nil, fmt.Errorf("forecast %s: %w", p.Symbol, err)
	}
	res.RunID = runID
	res.Symbol = p.Symbol

	if uc.metrics != nil {
		uc.metrics.RecordForecast(p.Model, res.Duration.Seconds())
		uc.metrics.RecordSMAPE(p.Model, "high", res.SMAPEHigh)
		uc.metrics.RecordSMAPE(p.Model, "low", res.SMAPELow)
	}
	log.Info("forecast completed",
		applogger.Float64("smape_high", res.SMAPEHigh),
		applogger.Float64("smape_low", res.SMAPELow),
		applogger.Duration("took", res.Duration),
	)
	return res, nil
}

// ErrorKind classifies err into a short metrics label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, regression.ErrUnknownModel):
		return "unknown_model"
	case errors.Is(err, forecasting.ErrInvalidHorizon), errors.Is(err, ErrHorizonTooLarge):
		return "invalid_horizon"
	case errors.Is(err, forecasting.ErrInsufficientData), errors.Is(err, ErrNoData), errors.Is(err, models.ErrEmptyFrame):
		return "insufficient_data"
	case errors.Is(err, ErrTooManyRows):
		return "too_many_rows"
	case errors.Is(err, models.ErrColumnNotFound), errors.Is(err, models.ErrLengthMismatch), errors.Is(err, models.ErrDuplicateColumn), errors.Is(err, models.ErrUnsortedIndex),
		errors.Is(err, forecasting.ErrNonFiniteValue), errors.Is(err, regression.ErrNonFinite):
		return "bad_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

// IsInputError reports whether err was caused by the caller's input.
func IsInputError(err error) bool {
	k := ErrorKind(err)
	return k != "internal" && k != "canceled"
}

func (uc *ForecastUseCase) recordError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.RecordError(ErrorKind(err))
}

// ModelsUseCase exposes the supported model names.
type ModelsUseCase struct {
	catalog domsvc.ModelCatalog
}

func NewModelsUseCase(catalog domsvc.ModelCatalog) *ModelsUseCase {
	return &ModelsUseCase{catalog: catalog}
}

func (uc *ModelsUseCase) List() []string {
	return uc.catalog.ModelNames()
}

// Lookup returns the canonical model name matching name case-insensitively.
func (uc *ModelsUseCase) Lookup(name string) (string, bool) {
	for _, m := range uc.catalog.ModelNames() {
		if strings.EqualFold(m, strings.TrimSpace(name)) {
			return m, true
		}
	}
	return "", false
}
