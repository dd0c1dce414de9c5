package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/ticket-report-engine/internal/dto"
	"github.com/noah-isme/ticket-report-engine/internal/models"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
)

// Filter names accepted on a report request.
const (
	FilterEntity    = "entity"
	FilterStatus    = "status"
	FilterPriority  = "priority"
	FilterAgent     = "agent"
	FilterSLAStatus = "sla_status"
)

const (
	defaultReportLimit  = 100
	defaultSortField    = "created_at"
	unassignedAgent     = "unassigned"
	customDateLayout    = "2006-01-02"
	limitAllRecords     = "all"
	defaultKBTopArticle = 50
)

var sortableColumns = map[string]struct{}{
	"created_at":  {},
	"updated_at":  {},
	"resolved_at": {},
	"priority":    {},
	"status":      {},
}

// ReportRequest is a validated, immutable report definition.
type ReportRequest struct {
	Type      models.ReportType
	DateRange models.DateRangePreset
	Window    models.DateWindow
	Location  *time.Location
	Filters   map[string][]string
	GroupBy   models.GroupDimension
	Sort      models.SortSpec
	Limit     int
	Unbounded bool
	KBMetric  models.KBMetric
	Display   models.DisplayOptions

	strategy reportStrategy
}

// Values returns the supplied values for a filter, nil meaning unrestricted.
func (r *ReportRequest) Values(filter string) []string {
	if r == nil {
		return nil
	}
	return r.Filters[filter]
}

// RequestDefaults are the configurable fallbacks applied while parsing.
type RequestDefaults struct {
	Limit         int
	KBTopArticles int
}

func (d RequestDefaults) normalize() RequestDefaults {
	if d.Limit <= 0 {
		d.Limit = defaultReportLimit
	}
	if d.KBTopArticles <= 0 {
		d.KBTopArticles = defaultKBTopArticle
	}
	return d
}

var requestValidator = validator.New()

// ParseReportRequest normalises raw input into a ReportRequest using the
// built-in defaults. Presets resolve against now in now's location.
func ParseReportRequest(raw dto.ReportRequest, now time.Time) (*ReportRequest, error) {
	return parseReportRequest(requestValidator, RequestDefaults{}, raw, now)
}

func parseReportRequest(validate *validator.Validate, defaults RequestDefaults, raw dto.ReportRequest, now time.Time) (*ReportRequest, error) {
	defaults = defaults.normalize()
	raw.ReportType = strings.ToLower(strings.TrimSpace(raw.ReportType))
	raw.DateRange = strings.ToLower(strings.TrimSpace(raw.DateRange))
	raw.DateFrom = strings.TrimSpace(raw.DateFrom)
	raw.DateTo = strings.TrimSpace(raw.DateTo)

	if err := validate.Struct(raw); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}

	reportType := models.ReportType(raw.ReportType)
	strategy := strategyFor(reportType)
	if strategy == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown report type")
	}

	preset := models.DateRangePreset(raw.DateRange)
	if preset == "" {
		preset = models.DateRangeLast7Days
	}
	window, err := resolveWindow(preset, raw.DateFrom, raw.DateTo, now)
	if err != nil {
		return nil, err
	}

	limit, unbounded := parseLimit(raw.Limit, defaults.Limit)

	req := &ReportRequest{
		Type:      reportType,
		DateRange: preset,
		Window:    window,
		Location:  now.Location(),
		Filters:   normalizeFilters(raw),
		GroupBy:   parseGroupBy(raw.GroupBy),
		Sort:      parseSort(raw.SortBy, raw.SortOrder),
		Limit:     limit,
		Unbounded: unbounded,
		KBMetric:  parseKBMetric(raw.KBMetric),
		Display: models.DisplayOptions{
			ShowSummary: boolOrTrue(raw.ShowSummary),
			ShowCharts:  boolOrTrue(raw.ShowCharts),
			ShowDetails: boolOrTrue(raw.ShowDetails),
		},
		strategy: strategy,
	}
	if reportType == models.ReportTypeKnowledgeBase && unbounded {
		// Article rankings are always capped.
		req.Limit = defaults.KBTopArticles
		req.Unbounded = false
	}
	return req, nil
}

func resolveWindow(preset models.DateRangePreset, from, to string, now time.Time) (models.DateWindow, error) {
	loc := now.Location()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch preset {
	case models.DateRangeToday:
		return models.DateWindow{From: startOfToday, To: startOfToday.AddDate(0, 0, 1)}, nil
	case models.DateRangeYesterday:
		return models.DateWindow{From: startOfToday.AddDate(0, 0, -1), To: startOfToday}, nil
	case models.DateRangeLast7Days:
		return models.DateWindow{From: now.Add(-7 * 24 * time.Hour), To: now}, nil
	case models.DateRangeLast30Days:
		return models.DateWindow{From: now.Add(-30 * 24 * time.Hour), To: now}, nil
	case models.DateRangeLast90Days:
		return models.DateWindow{From: now.Add(-90 * 24 * time.Hour), To: now}, nil
	case models.DateRangeCustom:
		if from == "" || to == "" {
			return models.DateWindow{}, appErrors.Clone(appErrors.ErrValidation, "custom date range requires date_from and date_to")
		}
		start, err := time.ParseInLocation(customDateLayout, from, loc)
		if err != nil {
			return models.DateWindow{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date_from")
		}
		end, err := time.ParseInLocation(customDateLayout, to, loc)
		if err != nil {
			return models.DateWindow{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date_to")
		}
		if start.After(end) {
			return models.DateWindow{}, appErrors.Clone(appErrors.ErrValidation, "date_from must not be after date_to")
		}
		// date_to names a whole calendar day.
		return models.DateWindow{From: start, To: end.AddDate(0, 0, 1)}, nil
	default:
		return models.DateWindow{}, appErrors.Clone(appErrors.ErrValidation, "unknown date range")
	}
}

func normalizeFilters(raw dto.ReportRequest) map[string][]string {
	filters := make(map[string][]string)
	add := func(name string, values []string) {
		cleaned := make([]string, 0, len(values))
		seen := make(map[string]struct{}, len(values))
		for _, value := range values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			cleaned = append(cleaned, value)
		}
		if len(cleaned) > 0 {
			filters[name] = cleaned
		}
	}
	add(FilterEntity, raw.FilterEntityID)
	add(FilterStatus, raw.FilterStatus)
	add(FilterPriority, raw.FilterPriority)
	add(FilterAgent, raw.FilterAgentID)
	add(FilterSLAStatus, raw.FilterSLAStatus)
	return filters
}

func parseGroupBy(raw string) models.GroupDimension {
	switch dimension := models.GroupDimension(strings.ToLower(strings.TrimSpace(raw))); dimension {
	case models.GroupByStatus, models.GroupByPriority, models.GroupByEntity,
		models.GroupByAgent, models.GroupByDate, models.GroupBySLAStatus:
		return dimension
	default:
		return models.GroupByNone
	}
}

func parseSort(field, order string) models.SortSpec {
	sorting := models.SortSpec{Field: defaultSortField, Order: models.SortDesc}
	field = strings.ToLower(strings.TrimSpace(field))
	if _, ok := sortableColumns[field]; ok {
		sorting.Field = field
	}
	if strings.EqualFold(strings.TrimSpace(order), string(models.SortAsc)) {
		sorting.Order = models.SortAsc
	}
	return sorting
}

func parseLimit(raw string, fallback int) (int, bool) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, limitAllRecords) {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback, false
	}
	return n, false
}

func parseKBMetric(raw string) models.KBMetric {
	switch metric := models.KBMetric(strings.ToLower(strings.TrimSpace(raw))); metric {
	case models.KBMetricHelpful, models.KBMetricHelpfulnessRatio:
		return metric
	default:
		return models.KBMetricViews
	}
}

func boolOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
