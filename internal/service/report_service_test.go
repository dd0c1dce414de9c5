package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ticket-report-engine/internal/dto"
	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/internal/repository"
	"github.com/noah-isme/ticket-report-engine/pkg/config"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
)

type failingStreamer struct {
	err error
}

func (f failingStreamer) StreamTickets(context.Context, repository.TicketQuery, func(models.Ticket) error) error {
	return f.err
}

type failingDirectory struct {
	agentsErr   error
	entitiesErr error
}

func (f failingDirectory) Agents(context.Context, []string) ([]models.Agent, error) {
	return nil, f.agentsErr
}

func (f failingDirectory) Entities(context.Context) ([]models.Entity, error) {
	return []models.Entity{}, f.entitiesErr
}

func TestGenerateWrapsStoreFailure(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewReportService(failingStreamer{err: sql.ErrConnDone}, nil, nil, metrics, zap.NewNop(), config.ReportsConfig{})

	_, err := svc.Generate(context.Background(), dto.ReportRequest{ReportType: "tickets"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDataAccess)
	assert.ErrorIs(t, err, sql.ErrConnDone)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.ReportsFailed)
	assert.Equal(t, uint64(0), snapshot.ReportsGenerated)
	assert.Equal(t, uint64(1), snapshot.DBQueryCount)
}

func TestGenerateValidationFailureCountsUnknownType(t *testing.T) {
	metrics := NewMetricsService()
	svc := newFixtureService(t, baseFixture(), metrics)

	_, err := svc.Generate(context.Background(), dto.ReportRequest{ReportType: "invoices"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Generate(context.Background(), dto.ReportRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `report_failures_total{code="VALIDATION_ERROR",type="unknown"} 2`)
}

func TestGenerateKnowledgeBaseWithoutStore(t *testing.T) {
	svc := NewReportService(nil, nil, nil, nil, nil, config.ReportsConfig{})

	_, err := svc.Generate(context.Background(), dto.ReportRequest{ReportType: "knowledgebase"})
	assert.ErrorIs(t, err, appErrors.ErrInternal)

	_, err = svc.Generate(context.Background(), dto.ReportRequest{ReportType: "tickets"})
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	svc := newFixtureService(t, baseFixture(statusMix()...), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, dto.ReportRequest{ReportType: "tickets"})
	assert.ErrorIs(t, err, appErrors.ErrDataAccess)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateUsesConfiguredTimezone(t *testing.T) {
	store := repository.NewFixtureStore(baseFixture(statusMix()...))
	svc := NewReportService(store, store, store, nil, nil, config.ReportsConfig{Timezone: "Asia/Jakarta", DefaultLimit: 4})
	svc.now = func() time.Time { return testNow }

	result, err := svc.Generate(context.Background(), dto.ReportRequest{ReportType: "tickets", DateRange: "today"})
	require.NoError(t, err)

	assert.Equal(t, "Asia/Jakarta", result.GeneratedAt.Location().String())
	assert.Equal(t, time.Date(2024, 1, 14, 17, 0, 0, 0, time.UTC), result.Window.From.UTC())
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC), result.Window.To.UTC())

	result, err = svc.Generate(context.Background(), dto.ReportRequest{ReportType: "tickets"})
	require.NoError(t, err)
	assert.Len(t, result.Tickets, 4)
}

func TestGenerateRecordsMetrics(t *testing.T) {
	metrics := NewMetricsService()
	svc := newFixtureService(t, baseFixture(statusMix()...), metrics)

	file, err := svc.GenerateExport(context.Background(), dto.ReportRequest{ReportType: "tickets", Limit: "all"}, " CSV ")
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	_, err = svc.GenerateExport(context.Background(), dto.ReportRequest{ReportType: "tickets"}, "pdf")
	assert.ErrorIs(t, err, appErrors.ErrUnsupportedFormat)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(2), snapshot.ReportsGenerated)
	assert.Equal(t, uint64(1), snapshot.ExportsTotal)
	assert.Equal(t, uint64(2), snapshot.DBQueryCount)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `report_exports_total{format="csv",status="ok"} 1`)
	assert.Contains(t, body, `report_exports_total{format="pdf",status="error"} 1`)
	assert.Contains(t, body, "report_unbounded_total 1")
	assert.Contains(t, body, `report_generation_duration_seconds_count{type="tickets"} 2`)
}

func TestOptions(t *testing.T) {
	svc := newFixtureService(t, baseFixture(), nil)

	options, err := svc.Options(context.Background())
	require.NoError(t, err)
	require.Len(t, options.Agents, 2)
	assert.Equal(t, "Dana", options.Agents[0].DisplayName)
	assert.Equal(t, "Sam", options.Agents[1].DisplayName)
	require.Len(t, options.Entities, 2)
	assert.Equal(t, "Acme", options.Entities[0].Name)
}

func TestOptionsFailures(t *testing.T) {
	boom := errors.New("boom")

	svc := NewReportService(nil, nil, failingDirectory{agentsErr: boom}, nil, nil, config.ReportsConfig{})
	_, err := svc.Options(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrDataAccess)
	assert.ErrorIs(t, err, boom)

	svc = NewReportService(nil, nil, failingDirectory{entitiesErr: boom}, nil, nil, config.ReportsConfig{})
	_, err = svc.Options(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrDataAccess)

	svc = NewReportService(nil, nil, nil, nil, nil, config.ReportsConfig{})
	_, err = svc.Options(context.Background())
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}
