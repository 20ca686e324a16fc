package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastSMAPE      *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg
// (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		forecastsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincast_forecasts_total",
				Help: "Total number of completed forecast runs",
			},
			[]string{"model"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincast_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastSMAPE: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fincast_last_smape",
				Help: "Symmetric MAPE of the most recent forecast per model and series",
			},
			[]string{"model", "series"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincast_forecast_duration_seconds",
				Help:    "Duration of forecast runs in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"model"},
		),
	}
}

// RecordForecast records a completed forecast and its latency.
func (r *Recorder) RecordForecast(model string, seconds float64) {
	r.forecastsTotal.WithLabelValues(model).Inc()
	r.latency.WithLabelValues(model).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSMAPE records the held-out error of the latest run.
func (r *Recorder) RecordSMAPE(model, series string, value float64) {
	r.lastSMAPE.WithLabelValues(model, series).Set(value)
}
