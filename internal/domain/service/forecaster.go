package service

import (
	"context"

	"FinCast/internal/domain/models"
)

// Forecaster runs one High/Low forecast over a price frame.
type Forecaster interface {
	Forecast(ctx context.Context, data *models.Frame, horizon int, model string, window int) (*models.ForecastResult, error)
}

// ModelCatalog lists the models a Forecaster accepts.
type ModelCatalog interface {
	ModelNames() []string
}
