// Package metrics records Prometheus metrics for the retrieval pipeline.
// Registration is opt-in: until Init is called every recorder is a no-op, so
// library consumers that do not run a metrics endpoint pay nothing.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	fetchDuration          *prometheus.HistogramVec
	decryptTotal           *prometheus.CounterVec
	integrityFailuresTotal *prometheus.CounterVec
	loadTotal              *prometheus.CounterVec
	loadDuration           *prometheus.HistogramVec

	// Registration guard
	metricsOnce       sync.Once
	metricsRegistered bool
)

// Init registers all Prometheus metrics with the default registerer.
// Call it once at startup if metrics are enabled.
func Init() {
	metricsOnce.Do(func() {
		fetchDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nacosconf_fetch_duration_seconds",
				Help:    "Duration of nacos config fetch requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"status"},
		)

		decryptTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nacosconf_decrypt_total",
				Help: "Total number of credential decryption attempts",
			},
			[]string{"encrypted", "status"},
		)

		integrityFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nacosconf_integrity_failures_total",
				Help: "Total number of integrity validation failures by field",
			},
			[]string{"field"},
		)

		loadTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nacosconf_load_total",
				Help: "Total number of end-to-end config load operations",
			},
			[]string{"status"},
		)

		loadDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nacosconf_load_duration_seconds",
				Help:    "Duration of end-to-end config load operations in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"status"},
		)

		metricsRegistered = true
	})
}

// RecordFetch records one fetch request against the nacos server.
func RecordFetch(status string, durationSeconds float64) {
	if !metricsRegistered || fetchDuration == nil {
		return
	}
	fetchDuration.WithLabelValues(status).Observe(durationSeconds)
}

// RecordDecrypt records one credential decryption attempt. Plaintext
// passthroughs are counted with encrypted="false".
func RecordDecrypt(encrypted bool, status string) {
	if !metricsRegistered || decryptTotal == nil {
		return
	}
	decryptTotal.WithLabelValues(strconv.FormatBool(encrypted), status).Inc()
}

// RecordIntegrityFailure records an integrity validation failure for one
// document field (namespace, dataId, group, or checksum).
func RecordIntegrityFailure(field string) {
	if !metricsRegistered || integrityFailuresTotal == nil {
		return
	}
	integrityFailuresTotal.WithLabelValues(field).Inc()
}

// RecordLoad records one end-to-end load operation.
func RecordLoad(status string, durationSeconds float64) {
	if !metricsRegistered {
		return
	}

	if loadTotal != nil {
		loadTotal.WithLabelValues(status).Inc()
	}

	if loadDuration != nil {
		loadDuration.WithLabelValues(status).Observe(durationSeconds)
	}
}

// GetFetchDuration returns the fetch duration histogram for testing.
func GetFetchDuration() *prometheus.HistogramVec {
	return fetchDuration
}

// GetDecryptTotal returns the decrypt counter for testing.
func GetDecryptTotal() *prometheus.CounterVec {
	return decryptTotal
}

// GetIntegrityFailuresTotal returns the integrity failure counter for testing.
func GetIntegrityFailuresTotal() *prometheus.CounterVec {
	return integrityFailuresTotal
}

// GetLoadTotal returns the load counter for testing.
func GetLoadTotal() *prometheus.CounterVec {
	return loadTotal
}

// GetLoadDuration returns the load duration histogram for testing.
func GetLoadDuration() *prometheus.HistogramVec {
	return loadDuration
}

// IsRegistered returns whether metrics have been initialized.
func IsRegistered() bool {
	return metricsRegistered
}
