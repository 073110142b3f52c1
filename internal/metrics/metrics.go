package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crop_advisor"

// #region metrics-struct
// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	Latency        *prometheus.HistogramVec
	FusionModes    *prometheus.CounterVec
	EstimatorUsage *prometheus.CounterVec
	Diagnoses      *prometheus.CounterVec
	DecodeErrors   prometheus.Counter
}

// #endregion metrics-struct

// #region constructor
// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		FusionModes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fusion_mode_total",
			Help:      "Predictions by fusion mode.",
		}, []string{"mode"}),
		EstimatorUsage: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimator_source_total",
			Help:      "Predictions by secondary estimator source.",
		}, []string{"source"}),
		Diagnoses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnosis_class_total",
			Help:      "Diagnoses by class id.",
		}, []string{"class"}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_decode_errors_total",
			Help:      "Image payloads that failed to decode.",
		}),
	}
	reg.MustRegister(
		m.Requests, m.Latency, m.FusionModes, m.EstimatorUsage, m.Diagnoses, m.DecodeErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// #endregion constructor

// #region observe
// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.Latency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObservePrediction records the fusion mode and estimator source of a prediction.
func (m *Metrics) ObservePrediction(mode, source string) {
	m.FusionModes.WithLabelValues(mode).Inc()
	m.EstimatorUsage.WithLabelValues(source).Inc()
}

// ObserveDiagnosis records a diagnosis class.
func (m *Metrics) ObserveDiagnosis(classID int) {
	m.Diagnoses.WithLabelValues(strconv.Itoa(classID)).Inc()
}

// #endregion observe

// #region handler
// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// #endregion handler
