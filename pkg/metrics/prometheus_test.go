package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordForecast("Linear Regression", 0.02)
	r.RecordForecast("Linear Regression", 0.03)
	r.RecordError("unknown_model")
	r.RecordSMAPE("Linear Regression", "high", 0.015)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.forecastsTotal.WithLabelValues("Linear Regression")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("unknown_model")))
	assert.Equal(t, 0.015, testutil.ToFloat64(r.lastSMAPE.WithLabelValues("Linear Regression", "high")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
