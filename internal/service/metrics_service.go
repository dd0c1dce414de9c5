package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/ticket-report-engine/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for health checks.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	reportDuration   *prometheus.HistogramVec
	reportRows       *prometheus.HistogramVec
	reportFailures   *prometheus.CounterVec
	exportTotal      *prometheus.CounterVec
	dbQueryDuration  *prometheus.HistogramVec
	unboundedReports prometheus.Counter

	requestCount         uint64
	requestDurationTotal uint64
	reportCount          uint64
	reportFailureCount   uint64
	exportCount          uint64
	dbQueryCount         uint64
	dbQueryDurationTotal uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_generation_duration_seconds",
		Help:    "Duration of report generation by report type",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})

	reportRows := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_rows",
		Help:    "Detail rows returned per report",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"type"})

	reportFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_failures_total",
		Help: "Report generations that returned an error",
	}, []string{"type", "code"})

	exportTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report_exports_total",
		Help: "Rendered report exports by format",
	}, []string{"format", "status"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	unboundedReports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_unbounded_total",
		Help: "Reports requested without a row limit",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, reportDuration, reportRows, reportFailures, exportTotal, dbQueryDuration, unboundedReports, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		reportDuration:   reportDuration,
		reportRows:       reportRows,
		reportFailures:   reportFailures,
		exportTotal:      exportTotal,
		dbQueryDuration:  dbQueryDuration,
		unboundedReports: unboundedReports,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveReport records a successful report generation.
func (m *MetricsService) ObserveReport(reportType models.ReportType, rows int, unbounded bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(string(reportType)).Observe(duration.Seconds())
	m.reportRows.WithLabelValues(string(reportType)).Observe(float64(rows))
	if unbounded {
		m.unboundedReports.Inc()
	}
	atomic.AddUint64(&m.reportCount, 1)
}

// RecordReportFailure counts a failed generation by error code.
func (m *MetricsService) RecordReportFailure(reportType models.ReportType, code string) {
	if m == nil {
		return
	}
	if reportType == "" {
		reportType = "unknown"
	}
	m.reportFailures.WithLabelValues(string(reportType), code).Inc()
	atomic.AddUint64(&m.reportFailureCount, 1)
}

// RecordExport counts a rendered or rejected export.
func (m *MetricsService) RecordExport(format string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.exportTotal.WithLabelValues(format, status).Inc()
	if ok {
		atomic.AddUint64(&m.exportCount, 1)
	}
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	atomic.AddUint64(&m.dbQueryCount, 1)
	atomic.AddUint64(&m.dbQueryDurationTotal, uint64(duration.Nanoseconds()))
}

// Snapshot returns aggregated metrics suitable for the health endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	dbCount := atomic.LoadUint64(&m.dbQueryCount)
	dbDuration := atomic.LoadUint64(&m.dbQueryDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(dbDuration) / float64(dbCount) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		ReportsGenerated:         atomic.LoadUint64(&m.reportCount),
		ReportsFailed:            atomic.LoadUint64(&m.reportFailureCount),
		ExportsTotal:             atomic.LoadUint64(&m.exportCount),
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
