package models

import "math"

// Requests for the forecast HTTP endpoints. Defined in domain for consistency and reuse.

// ForecastRequest carries a columnar price table. Every column must have one
// value per date; High and Low are required by the forecaster itself.
type ForecastRequest struct {
	Symbol  string               `json:"symbol" default:"UNKNOWN" validate:"max=32"`
	Horizon int                  `json:"horizon" validate:"required,gte=1"`
	Model   string               `json:"model" validate:"required"`
	Window  int                  `json:"window" validate:"gte=0,lte=250"`
	Dates   []string             `json:"dates" validate:"required,min=1,dive,required"`
	Columns map[string][]float64 `json:"columns" validate:"required,min=1"`
}

// ForecastResponse is the JSON shape of a forecast run. Empty cells are null.
type ForecastResponse struct {
	RunID       string                `json:"run_id"`
	Symbol      string                `json:"symbol"`
	Model       string                `json:"model"`
	Horizon     int                   `json:"horizon"`
	SMAPEHigh   float64               `json:"smape_high"`
	SMAPELow    float64               `json:"smape_low"`
	DurationMS  int64                 `json:"duration_ms"`
	Dates       []string              `json:"dates"`
	ColumnOrder []string              `json:"column_order"`
	Columns     map[string][]*float64 `json:"columns"`
}

// ModelsResponse lists the supported model names.
type ModelsResponse struct {
	Models []string `json:"models"`
}

// NewForecastResponse flattens a result into its JSON shape, formatting dates
// with layout and turning NaN cells into nulls.
func NewForecastResponse(res *ForecastResult, layout string) *ForecastResponse {
	f := res.Frame
	index := f.Index()
	dates := make([]string, len(index))
	for i, t := range index {
		dates[i] = t.Format(layout)
	}
	cols := f.Columns()
	values := make(map[string][]*float64, len(cols))
	for _, name := range cols {
		col, _ := f.Column(name)
		out := make([]*float64, len(col))
		for i, v := range col {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			v := v
			out[i] = &v
		}
		values[name] = out
	}
	return &ForecastResponse{
		RunID:       res.RunID,
		Symbol:      res.Symbol,
		Model:       res.Model,
		Horizon:     res.Horizon,
		SMAPEHigh:   res.SMAPEHigh,
		SMAPELow:    res.SMAPELow,
		DurationMS:  res.Duration.Milliseconds(),
		Dates:       dates,
		ColumnOrder: cols,
		Columns:     values,
	}
}
