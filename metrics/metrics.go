// Package metrics instruments the reporter with prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/apiprobe/allure-reporter/types"
)

const (
	MetricsNamespace = "allure_reporter"
)

var (
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of reporter errors",
	}, []string{
		"error",
	})

	resultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "results_total",
		Help:      "Count of test results written, by status",
	}, []string{
		"project",
		"status",
	})

	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "events_total",
		Help:      "Count of events recorded, by kind",
	}, []string{
		"kind",
	})

	historyIdentities = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "history_identities",
		Help:      "Number of identities tracked in the history log",
	})
)

// RecordError increments the error counter for the given error kind.
func RecordError(kind string) {
	errorsTotal.WithLabelValues(kind).Inc()
}

// RecordResult counts one written test result.
func RecordResult(project string, status types.Status) {
	resultsTotal.WithLabelValues(project, string(status)).Inc()
}

// RecordEvent counts one recorded event ("check" or "http_call").
func RecordEvent(kind string) {
	eventsTotal.WithLabelValues(kind).Inc()
}

// RecordHistorySize tracks the number of identities in the history log
// after a run summary.
func RecordHistorySize(n int) {
	historyIdentities.Set(float64(n))
}
