package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ticket-report-engine/internal/dto"
	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/internal/service"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
)

type reportGeneratorMock struct {
	result    *models.ReportResult
	file      *service.ExportFile
	options   *models.ReportOptions
	err       error
	lastReq   dto.ReportRequest
	lastFmt   string
	deadlined bool
}

func (m *reportGeneratorMock) Generate(ctx context.Context, raw dto.ReportRequest) (*models.ReportResult, error) {
	m.lastReq = raw
	_, m.deadlined = ctx.Deadline()
	return m.result, m.err
}

func (m *reportGeneratorMock) GenerateExport(ctx context.Context, raw dto.ReportRequest, format string) (*service.ExportFile, error) {
	m.lastReq = raw
	m.lastFmt = format
	return m.file, m.err
}

func (m *reportGeneratorMock) Options(ctx context.Context) (*models.ReportOptions, error) {
	return m.options, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func TestReportHandlerGenerateJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{result: &models.ReportResult{ID: "r-1", Type: models.ReportTypeTickets, TotalRecords: 8}}
	handler := NewReportHandler(mock, 5*time.Second)

	payload, _ := json.Marshal(dto.ReportRequest{ReportType: "tickets", FilterStatus: []string{"open", "in_progress"}})
	c, w := newGinContext(http.MethodPost, "/reports/generate", payload)

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"open", "in_progress"}, mock.lastReq.FilterStatus)
	assert.True(t, mock.deadlined)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	meta := body["meta"].(map[string]interface{})
	assert.EqualValues(t, 8, meta["total_records"])
}

func TestReportHandlerGenerateQueryArrays(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{result: &models.ReportResult{ID: "r-1"}}
	handler := NewReportHandler(mock, 0)

	c, w := newGinContext(http.MethodGet, "/reports/generate?report_type=sla&filter_entity_id[]=3&filter_entity_id[]=4&show_summary=false", nil)

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sla", mock.lastReq.ReportType)
	assert.Equal(t, []string{"3", "4"}, mock.lastReq.FilterEntityID)
	require.NotNil(t, mock.lastReq.ShowSummary)
	assert.False(t, *mock.lastReq.ShowSummary)
	assert.False(t, mock.deadlined)
}

func TestReportHandlerGenerateError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{err: appErrors.Clone(appErrors.ErrValidation, "invalid report request")}
	handler := NewReportHandler(mock, 0)

	c, w := newGinContext(http.MethodPost, "/reports/generate", []byte(`{"report_type":"bogus"}`))
	handler.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestReportHandlerGenerateDataAccessError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{err: appErrors.DataAccess(errors.New("connection refused"), "")}
	handler := NewReportHandler(mock, 0)

	c, w := newGinContext(http.MethodPost, "/reports/generate", []byte(`{"report_type":"tickets"}`))
	handler.Generate(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestReportHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{file: &service.ExportFile{
		Filename:    "Tickets-Report-Last-7-Days_2024-01-15_10-00-00.csv",
		ContentType: "text/csv; charset=utf-8",
		Disposition: "attachment",
		Content:     []byte("\ufeffTickets Report\n"),
	}}
	handler := NewReportHandler(mock, 0)

	payload, _ := json.Marshal(dto.ExportRequest{Format: "csv", Request: dto.ReportRequest{ReportType: "tickets"}})
	c, w := newGinContext(http.MethodPost, "/reports/export", payload)
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mock.lastFmt)
	assert.Equal(t, "tickets", mock.lastReq.ReportType)
	assert.Equal(t, `attachment; filename="Tickets-Report-Last-7-Days_2024-01-15_10-00-00.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestReportHandlerExportQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{file: &service.ExportFile{Filename: "x.html", ContentType: "text/html; charset=utf-8", Disposition: "inline"}}
	handler := NewReportHandler(mock, 0)

	c, w := newGinContext(http.MethodGet, "/reports/export?format=printable&report_type=agent", nil)
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "printable", mock.lastFmt)
	assert.Equal(t, "agent", mock.lastReq.ReportType)
}

func TestReportHandlerExportRequiresFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{}
	handler := NewReportHandler(mock, 0)

	c, w := newGinContext(http.MethodPost, "/reports/export", []byte(`{"request":{"report_type":"tickets"}}`))
	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mock.lastFmt)
}

func TestReportHandlerExportUnsupportedFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{err: appErrors.Clone(appErrors.ErrUnsupportedFormat, "pdf export is not available")}
	handler := NewReportHandler(mock, 0)

	c, w := newGinContext(http.MethodPost, "/reports/export", []byte(`{"format":"pdf","request":{"report_type":"tickets"}}`))
	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNSUPPORTED_FORMAT")
}

func TestReportHandlerOptions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportGeneratorMock{options: &models.ReportOptions{
		Agents:   []models.Agent{{ID: 7, DisplayName: "Dana", Role: "support_agent"}},
		Entities: []models.Entity{{ID: 1, Name: "Acme", Status: "active"}},
	}}
	handler := NewReportHandler(mock, 0)

	c, w := newGinContext(http.MethodGet, "/reports/options", nil)
	handler.Options(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dana")
	assert.Contains(t, w.Body.String(), "Acme")
}
