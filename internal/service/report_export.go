package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/noah-isme/ticket-report-engine/internal/models"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
	"github.com/noah-isme/ticket-report-engine/pkg/export"
)

const filenameTimestampLayout = "2006-01-02_15-04-05"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ExportFile is a rendered report ready to be written or served.
type ExportFile struct {
	Filename    string
	ContentType string
	Disposition string
	Content     []byte
}

// BuildExportDocument converts a result into the document every export
// format renders from.
func BuildExportDocument(result *models.ReportResult) export.Document {
	if result == nil {
		return export.Document{}
	}
	doc := export.Document{
		Title:       result.Title,
		GeneratedAt: result.GeneratedAt,
		Rows:        [][]string{},
	}

	strategy := strategyFor(result.Type)
	if strategy == nil {
		return doc
	}
	doc.Headers = strategy.exportHeaders()
	doc.Rows = strategy.exportRows(result)

	if result.Display.ShowSummary && result.Summary != nil {
		for _, field := range result.Summary.Fields() {
			doc.Summary = append(doc.Summary, export.SummaryItem{Key: field.Key, Value: field.Value})
		}
	}
	return doc
}

// ExportReport renders result in the requested format.
func ExportReport(result *models.ReportResult, format string) (*ExportFile, error) {
	if result == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report result is required")
	}
	if strings.EqualFold(strings.TrimSpace(format), "pdf") {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, `pdf export is not available; use the "printable" format and print it to PDF`)
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, "unsupported export format: "+format)
		}
		return nil, err
	}

	content, err := renderer.Render(BuildExportDocument(result))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	disposition := "attachment"
	if renderer.Inline() {
		disposition = "inline"
	}
	return &ExportFile{
		Filename:    exportFilename(result, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Disposition: disposition,
		Content:     content,
	}, nil
}

func exportFilename(result *models.ReportResult, ext string) string {
	return sanitizeFilename(result.Title) + "_" + result.GeneratedAt.Format(filenameTimestampLayout) + "." + ext
}

func sanitizeFilename(raw string) string {
	cleaned := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(raw), "-")
	cleaned = strings.Trim(cleaned, "-.")
	for strings.Contains(cleaned, "--") {
		cleaned = strings.ReplaceAll(cleaned, "--", "-")
	}
	if cleaned == "" {
		return "report"
	}
	if len(cleaned) > 100 {
		cleaned = cleaned[:100]
	}
	return cleaned
}

func reportTitle(reportType models.ReportType, preset models.DateRangePreset) string {
	return reportType.Label() + " Report - " + preset.Label()
}
