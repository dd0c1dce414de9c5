package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ticket-report-engine/internal/dto"
	"github.com/noah-isme/ticket-report-engine/internal/models"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
)

func readCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(content, []byte("\ufeff")), "csv must start with a BOM")
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte("\ufeff"))))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func generate(t *testing.T, svc *ReportService, raw dto.ReportRequest) *models.ReportResult {
	t.Helper()
	result, err := svc.Generate(context.Background(), raw)
	require.NoError(t, err)
	return result
}

func TestExportReportCSV(t *testing.T) {
	svc := newFixtureService(t, baseFixture(statusMix()...), nil)
	result := generate(t, svc, dto.ReportRequest{ReportType: "tickets", Limit: "2"})

	file, err := ExportReport(result, "csv")
	require.NoError(t, err)
	assert.Equal(t, "Tickets-Report-Last-7-Days_2024-01-15_10-00-00.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, "attachment", file.Disposition)

	records := readCSV(t, file.Content)
	require.Len(t, records, 14)
	assert.Equal(t, []string{"Tickets Report - Last 7 Days"}, records[0])
	assert.Equal(t, []string{"Generated on: 2024-01-15 10:00:00"}, records[1])
	assert.Equal(t, []string{"Summary Statistics"}, records[2])
	assert.Equal(t, []string{"Total Tickets", "10"}, records[3])
	assert.Equal(t, []string{"Avg Resolution Time Hours", "3"}, records[7])
	assert.Equal(t, []string{"Detailed data"}, records[10])
	assert.Equal(t, []string{"ID", "Subject", "Status", "Priority", "Entity", "Customer", "Agent", "Created", "Updated", "Resolved"}, records[11])
	assert.Equal(t, []string{"1", "Ticket", "Open", "Medium", "Acme", "", "Dana", "2024-01-14 09:00:00", "2024-01-14 09:00:00", "Not resolved"}, records[12])
	assert.Equal(t, "2", records[13][0])
}

func TestExportReportCSVWithoutRowsOrSummary(t *testing.T) {
	svc := newFixtureService(t, baseFixture(), nil)
	hide := false
	result := generate(t, svc, dto.ReportRequest{ReportType: "sla", ShowSummary: &hide})

	file, err := ExportReport(result, "CSV")
	require.NoError(t, err)

	records := readCSV(t, file.Content)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Detailed data"}, records[2])
	assert.Equal(t, []string{"ID", "Subject", "SLA Status", "Due Date", "Response Time", "Resolution Time", "Entity", "Agent"}, records[3])
	assert.NotContains(t, string(file.Content), "Summary Statistics")
}

func TestExportReportAgentRows(t *testing.T) {
	svc := newFixtureService(t, baseFixture(statusMix()...), nil)
	result := generate(t, svc, dto.ReportRequest{ReportType: "agent"})

	doc := BuildExportDocument(result)
	require.Len(t, doc.Rows, 2)
	assert.Equal(t, []string{"Dana", "5", "0", "0%", "-", "0%"}, doc.Rows[0])
	assert.Equal(t, "agents", doc.Summary[0].Key)
	assert.Equal(t, "2", doc.Summary[0].Value)
}

func TestExportReportSLARows(t *testing.T) {
	ticket := newTicket(1, models.TicketStatusOpen, "high", testNow.Add(-90*time.Minute),
		withSLA(models.SLAStatusWarning, testNow.Add(time.Hour)), respondedAfter(45*time.Minute))
	svc := newFixtureService(t, baseFixture(ticket), nil)
	result := generate(t, svc, dto.ReportRequest{ReportType: "sla"})

	doc := BuildExportDocument(result)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, []string{"1", "Ticket", "Warning", "2024-01-15 11:00:00", "0.75h", "1.5h", "", "Unassigned"}, doc.Rows[0])
}

func TestExportReportPrintableEscapes(t *testing.T) {
	ticket := newTicket(1, models.TicketStatusOpen, "low", testNow.Add(-time.Hour))
	ticket.Subject = "<b>Printer</b> & scanner"
	svc := newFixtureService(t, baseFixture(ticket), nil)
	result := generate(t, svc, dto.ReportRequest{ReportType: "tickets"})

	file, err := ExportReport(result, "printable")
	require.NoError(t, err)
	assert.Equal(t, "inline", file.Disposition)
	assert.Equal(t, "text/html; charset=utf-8", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".html"))

	body := string(file.Content)
	assert.Contains(t, body, "&lt;b&gt;Printer&lt;/b&gt; &amp; scanner")
	assert.NotContains(t, body, "<b>Printer</b>")
	assert.Contains(t, body, "window.print()")
	assert.Contains(t, body, "Total Tickets")
}

func TestExportReportRejectsFormats(t *testing.T) {
	svc := newFixtureService(t, baseFixture(statusMix()...), nil)
	result := generate(t, svc, dto.ReportRequest{ReportType: "tickets"})

	for _, format := range []string{"pdf", " PDF ", "xlsx", ""} {
		_, err := ExportReport(result, format)
		assert.ErrorIs(t, err, appErrors.ErrUnsupportedFormat, format)
	}

	_, err := ExportReport(nil, "csv")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Tickets Report - Today": "Tickets-Report-Today",
		"../etc/passwd":          "etc-passwd",
		"  ###  ":                "report",
		"":                       "report",
		"Q1: SLA/Agents":         "Q1-SLA-Agents",
	}
	for input, want := range cases {
		assert.Equal(t, want, sanitizeFilename(input), input)
	}
	assert.Len(t, sanitizeFilename(strings.Repeat("a", 150)), 100)
}
