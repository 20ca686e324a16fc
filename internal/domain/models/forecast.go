package models

import "time"

// ForecastResult is one completed forecast run.
type ForecastResult struct {
	RunID     string
	Symbol    string
	Model     string
	Horizon   int
	Frame     *Frame // history extended with Forecast_High / Forecast_Low
	SMAPEHigh float64
	SMAPELow  float64
	Duration  time.Duration
	CreatedAt time.Time
}
