package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ticket-report-engine/internal/dto"
	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/internal/service"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
	"github.com/noah-isme/ticket-report-engine/pkg/response"
)

type reportGenerator interface {
	Generate(ctx context.Context, raw dto.ReportRequest) (*models.ReportResult, error)
	GenerateExport(ctx context.Context, raw dto.ReportRequest, format string) (*service.ExportFile, error)
	Options(ctx context.Context) (*models.ReportOptions, error)
}

// ReportHandler exposes report generation endpoints.
type ReportHandler struct {
	reports reportGenerator
	timeout time.Duration
}

// NewReportHandler constructs handler. A zero timeout leaves the request context untouched.
func NewReportHandler(reports reportGenerator, timeout time.Duration) *ReportHandler {
	return &ReportHandler{reports: reports, timeout: timeout}
}

// Generate godoc
// @Summary Generate a report
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body dto.ReportRequest true "Report definition"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /reports/generate [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.reports.Generate(ctx, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, map[string]interface{}{
		"total_records": result.TotalRecords,
		"unbounded":     result.Unbounded,
	})
}

// Export godoc
// @Summary Export a report
// @Description Renders the report as csv or printable html. pdf is rejected.
// @Tags Reports
// @Accept json
// @Produce text/csv
// @Produce text/html
// @Param request body dto.ExportRequest true "Export definition"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	if req.Format == "" {
		req.Format = c.Query("format")
	}
	if strings.TrimSpace(req.Format) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format is required"))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	file, err := h.reports.GenerateExport(ctx, req.Request, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.ContentType, file.Disposition, file.Filename, file.Content)
}

// Options godoc
// @Summary Report filter options
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/options [get]
func (h *ReportHandler) Options(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	options, err := h.reports.Options(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, nil)
}

func (h *ReportHandler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}
