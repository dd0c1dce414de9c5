package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/ticket-report-engine/internal/dto"
	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/pkg/config"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
	"github.com/noah-isme/ticket-report-engine/pkg/middleware/requestid"
)

type directoryReader interface {
	Agents(ctx context.Context, roles []string) ([]models.Agent, error)
	Entities(ctx context.Context) ([]models.Entity, error)
}

type reportMetrics interface {
	queryObserver
	ObserveReport(reportType models.ReportType, rows int, unbounded bool, duration time.Duration)
	RecordReportFailure(reportType models.ReportType, code string)
	RecordExport(format string, ok bool)
}

// ReportService turns report requests into results and rendered exports.
type ReportService struct {
	tickets    ticketStreamer
	kb         kbAnalyticsReader
	directory  directoryReader
	metrics    reportMetrics
	logger     *zap.Logger
	validator  *validator.Validate
	defaults   RequestDefaults
	location   *time.Location
	agentRoles []string
	now        func() time.Time
}

// NewReportService wires the report engine to its data sources.
func NewReportService(tickets ticketStreamer, kb kbAnalyticsReader, directory directoryReader, metrics reportMetrics, logger *zap.Logger, cfg config.ReportsConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		tickets:    tickets,
		kb:         kb,
		directory:  directory,
		metrics:    metrics,
		logger:     logger,
		validator:  validator.New(),
		defaults:   RequestDefaults{Limit: cfg.DefaultLimit, KBTopArticles: cfg.KBTopArticles},
		location:   cfg.Location(),
		agentRoles: cfg.AgentRoles,
		now:        time.Now,
	}
}

// Generate validates raw and builds the report it describes.
func (s *ReportService) Generate(ctx context.Context, raw dto.ReportRequest) (*models.ReportResult, error) {
	start := time.Now()
	now := s.now().In(s.location)

	req, err := parseReportRequest(s.validator, s.defaults, raw, now)
	if err != nil {
		s.recordFailure(models.ReportType(strings.ToLower(strings.TrimSpace(raw.ReportType))), err)
		return nil, err
	}

	result := &models.ReportResult{
		ID:          uuid.NewString(),
		Type:        req.Type,
		Title:       reportTitle(req.Type, req.DateRange),
		GeneratedAt: now,
		DateRange:   req.DateRange,
		Window:      req.Window,
		Display:     req.Display,
		GroupBy:     req.GroupBy,
		Unbounded:   req.Unbounded,
	}

	src := reportSources{tickets: s.tickets, kb: s.kb, metrics: s.metrics, now: now}
	if err := req.strategy.build(ctx, src, req, result); err != nil {
		s.recordFailure(req.Type, err)
		s.logger.Error("report generation failed",
			zap.String("report_type", string(req.Type)),
			zap.String("report_id", result.ID),
			zap.Error(err),
		)
		return nil, err
	}

	if req.GroupBy != models.GroupByNone {
		if req.strategy.groupable() {
			result.Groups = GroupRows(result.Tickets, req.GroupBy, req.Location)
		} else {
			result.GroupBy = models.GroupByNone
		}
	}

	if req.Unbounded {
		s.logger.Warn("report requested without row limit",
			zap.String("report_type", string(req.Type)),
			zap.Int("rows", result.TotalRecords),
		)
	}

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.ObserveReport(req.Type, result.TotalRecords, req.Unbounded, duration)
	}
	s.logger.Info("report generated",
		zap.String("report_id", result.ID),
		zap.String("report_type", string(req.Type)),
		zap.String("date_range", string(req.DateRange)),
		zap.Int("rows", result.TotalRecords),
		zap.Duration("duration", duration),
		zap.String("request_id", requestid.FromContext(ctx)),
	)
	return result, nil
}

// Export renders a generated report in format.
func (s *ReportService) Export(result *models.ReportResult, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	file, err := ExportReport(result, format)
	if s.metrics != nil {
		s.metrics.RecordExport(format, err == nil)
	}
	if err != nil {
		s.logger.Warn("report export rejected", zap.String("format", format), zap.Error(err))
		return nil, err
	}
	return file, nil
}

// GenerateExport builds the report for raw and renders it in one call.
func (s *ReportService) GenerateExport(ctx context.Context, raw dto.ReportRequest, format string) (*ExportFile, error) {
	result, err := s.Generate(ctx, raw)
	if err != nil {
		return nil, err
	}
	return s.Export(result, format)
}

// Options lists the agents and active entities available as report filters.
func (s *ReportService) Options(ctx context.Context) (*models.ReportOptions, error) {
	if s.directory == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "directory not configured")
	}
	agents, err := s.directory.Agents(ctx, s.agentRoles)
	if err != nil {
		return nil, appErrors.DataAccess(err, "failed to load agents")
	}
	entities, err := s.directory.Entities(ctx)
	if err != nil {
		return nil, appErrors.DataAccess(err, "failed to load entities")
	}
	return &models.ReportOptions{Agents: agents, Entities: entities}, nil
}

func (s *ReportService) recordFailure(reportType models.ReportType, err error) {
	if s.metrics == nil {
		return
	}
	if strategyFor(reportType) == nil {
		reportType = ""
	}
	s.metrics.RecordReportFailure(reportType, appErrors.FromError(err).Code)
}
