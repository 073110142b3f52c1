package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.ObserveRequest("/predict", 200, 15*time.Millisecond)
	m.ObserveRequest("/predict", 200, 5*time.Millisecond)
	m.ObserveRequest("/predict", 400, time.Millisecond)
	m.ObservePrediction("synergy", "heuristic")
	m.ObservePrediction("weather_dominant", "fallback")
	m.ObserveDiagnosis(3)
	m.DecodeErrors.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("/predict", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/predict", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FusionModes.WithLabelValues("weather_dominant")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EstimatorUsage.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Diagnoses.WithLabelValues("3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DecodeErrors))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Latency))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObservePrediction("synergy", "remote")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `crop_advisor_fusion_mode_total{mode="synergy"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveDiagnosis(1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Diagnoses.WithLabelValues("1")))
}
