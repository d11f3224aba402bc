// Package metrics exposes Prometheus instrumentation for provider calls and
// report reconciliation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	providerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "provider_request_latency",
			Subsystem: "surf_report",
			Help:      "Upstream provider request latencies in seconds.",
			Buckets:   []float64{0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0},
		},
		[]string{"provider", "outcome"},
	)

	categoryResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "category_resolutions_total",
			Subsystem: "surf_report",
			Help:      "Report categories by the provider they resolved to. An empty provider means unresolved.",
		},
		[]string{"category", "provider"},
	)

	reportsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "reports_total",
			Subsystem: "surf_report",
			Help:      "Reports built, by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		providerLatency,
		categoryResolutions,
		reportsBuilt,
	)
}

// ObserveProviderRequest records one upstream HTTP call. outcome is "ok" or
// "error".
func ObserveProviderRequest(provider, outcome string, latency float64) {
	providerLatency.With(prometheus.Labels{
		"provider": provider,
		"outcome":  outcome,
	}).Observe(latency)
}

// ObserveResolution records which provider a report category resolved to.
func ObserveResolution(category, provider string) {
	categoryResolutions.With(prometheus.Labels{
		"category": category,
		"provider": provider,
	}).Inc()
}

// ObserveReport counts a finished report build.
func ObserveReport(ok bool) {
	result := "ok"
	if !ok {
		result = "no_swell"
	}
	reportsBuilt.WithLabelValues(result).Inc()
}
