package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/ticket-report-engine/internal/models"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/reports/generate", http.StatusOK, 20*time.Millisecond)
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/v1/reports/generate", http.StatusBadRequest, 40*time.Millisecond)
	metrics.ObserveDBQuery("report_tickets", 10*time.Millisecond)
	metrics.ObserveReport(models.ReportTypeSLA, 12, false, time.Second)
	metrics.RecordReportFailure(models.ReportTypeAgent, "DATA_ACCESS_ERROR")
	metrics.RecordExport("printable", true)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(2), snapshot.RequestsTotal)
	assert.InDelta(t, 30.0, snapshot.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.DBQueryCount)
	assert.InDelta(t, 10.0, snapshot.AverageDBQueryDurationMs, 0.001)
	assert.Equal(t, uint64(1), snapshot.ReportsGenerated)
	assert.Equal(t, uint64(1), snapshot.ReportsFailed)
	assert.Equal(t, uint64(1), snapshot.ExportsTotal)
	assert.Positive(t, snapshot.Goroutines)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/api/v1/reports/generate",status="400"} 1`)
	assert.Contains(t, body, `report_rows_count{type="sla"} 1`)
	assert.Contains(t, body, `report_failures_total{code="DATA_ACCESS_ERROR",type="agent"} 1`)
	assert.Contains(t, body, "goroutines_total")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var metrics *MetricsService

	assert.NotPanics(t, func() {
		metrics.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
		metrics.ObserveReport(models.ReportTypeTickets, 1, true, time.Millisecond)
		metrics.RecordReportFailure(models.ReportTypeTickets, "INTERNAL_ERROR")
		metrics.RecordExport("csv", false)
		metrics.ObserveDBQuery("report_tickets", time.Millisecond)
	})
	assert.Equal(t, models.SystemMetrics{}, metrics.Snapshot())

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
