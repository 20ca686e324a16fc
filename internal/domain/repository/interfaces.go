package repository

// Metrics records forecast run telemetry.
type Metrics interface {
	RecordForecast(model string, seconds float64)
	RecordError(kind string)
	RecordSMAPE(model, series string, value float64)
}
