// Package metrics exposes Prometheus instruments for the ingestion and
// aggregation pipeline. Instruments register once on the default registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Row outcomes recorded by ingestion.
const (
	OutcomeAccepted  = "accepted"
	OutcomeMalformed = "malformed"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
)

var (
	rowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retvol_ingest_rows_total",
			Help: "Source rows seen by ingestion, by origin and outcome",
		},
		[]string{"origin", "outcome"},
	)
	filesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retvol_ingest_files_total",
			Help: "Source files opened by ingestion, by origin and result",
		},
		[]string{"origin", "result"},
	)
	monthlyTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "retvol_monthly_records_total",
			Help: "Monthly statistic records emitted by the aggregator",
		},
	)
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retvol_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)
	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retvol_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "status"},
	)
)

// RecordRows adds n rows with the given origin and outcome.
func RecordRows(origin, outcome string, n int) {
	if n <= 0 {
		return
	}
	rowsTotal.WithLabelValues(origin, outcome).Add(float64(n))
}

// RecordFile counts one opened file; ok=false marks a read failure.
func RecordFile(origin string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	filesTotal.WithLabelValues(origin, result).Inc()
}

// RecordMonthly adds n emitted monthly records.
func RecordMonthly(n int) {
	if n <= 0 {
		return
	}
	monthlyTotal.Add(float64(n))
}

// ObserveStage records how long a pipeline stage took since start.
func ObserveStage(stage string, start time.Time) {
	stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one served request. An empty route means no route matched.
func ObserveHTTP(route string, status int, start time.Time) {
	if route == "" {
		route = "unmatched"
	}
	httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
}
