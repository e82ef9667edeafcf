package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	sectionLoads  *prometheus.CounterVec
	feedRequests  *prometheus.CounterVec
	feedLatency   *prometheus.HistogramVec
	indicatorLast *prometheus.GaugeVec
	streamClients prometheus.Gauge
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		sectionLoads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estatepulse_section_loads_total",
				Help: "Total number of dashboard section loads",
			},
			[]string{"section", "outcome"},
		),
		feedRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "estatepulse_feed_requests_total",
				Help: "Total number of upstream feed requests",
			},
			[]string{"resource", "outcome"},
		),
		feedLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "estatepulse_feed_request_duration_seconds",
				Help:    "Duration of upstream feed requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
		indicatorLast: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "estatepulse_indicator_value",
				Help: "Last observed value for an economic indicator",
			},
			[]string{"indicator"},
		),
		streamClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "estatepulse_stream_clients",
				Help: "Current number of connected dashboard stream clients",
			},
		),
	}
}

// RecordSectionLoad records a dashboard section load with its outcome.
func (r *Recorder) RecordSectionLoad(section, outcome string) {
	r.sectionLoads.WithLabelValues(section, outcome).Inc()
}

// RecordFeedRequest records an upstream feed request with its outcome.
func (r *Recorder) RecordFeedRequest(resource, outcome string) {
	r.feedRequests.WithLabelValues(resource, outcome).Inc()
}

// RecordFeedLatency records upstream feed request latency in seconds.
func (r *Recorder) RecordFeedLatency(resource string, seconds float64) {
	r.feedLatency.WithLabelValues(resource).Observe(seconds)
}

// RecordIndicator records the last observed value for an indicator.
func (r *Recorder) RecordIndicator(indicator string, value float64) {
	r.indicatorLast.WithLabelValues(indicator).Set(value)
}

// SetStreamClients records the number of connected stream clients.
func (r *Recorder) SetStreamClients(n int) {
	r.streamClients.Set(float64(n))
}
