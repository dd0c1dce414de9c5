package models

import "time"

// SystemMetrics is a lightweight snapshot served with health checks.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ReportsGenerated         uint64    `json:"reports_generated"`
	ReportsFailed            uint64    `json:"reports_failed"`
	ExportsTotal             uint64    `json:"exports_total"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
