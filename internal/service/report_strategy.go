package service

import (
	"context"
	"time"

	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/internal/repository"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
)

type ticketStreamer interface {
	StreamTickets(ctx context.Context, query repository.TicketQuery, fn func(models.Ticket) error) error
}

type kbAnalyticsReader interface {
	TopArticles(ctx context.Context, q repository.KBArticleQuery) ([]models.KBArticleStat, error)
	SearchAnalytics(ctx context.Context, q repository.KBSearchQuery) (*models.KBSearchAnalytics, error)
}

type queryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// reportSources are the collaborators a strategy may read from during one run.
type reportSources struct {
	tickets ticketStreamer
	kb      kbAnalyticsReader
	metrics queryObserver
	now     time.Time
}

// reportStrategy is the per-type behaviour bound to a request at parse time.
type reportStrategy interface {
	scopeConditions() []models.Condition
	filterBindings() []filterBinding
	groupable() bool
	build(ctx context.Context, src reportSources, req *ReportRequest, result *models.ReportResult) error
	exportHeaders() []string
	exportRows(result *models.ReportResult) [][]string
}

func strategyFor(reportType models.ReportType) reportStrategy {
	switch reportType {
	case models.ReportTypeTickets:
		return ticketStrategy{}
	case models.ReportTypeSLA:
		return slaStrategy{}
	case models.ReportTypeAgent:
		return agentStrategy{}
	case models.ReportTypeKnowledgeBase:
		return kbStrategy{}
	default:
		return nil
	}
}

// streamUniverse folds every ticket of the filtered universe into fold and
// returns the first limit tickets (all when limit is 0) in stream order.
func streamUniverse(ctx context.Context, src reportSources, req *ReportRequest, sort models.SortSpec, keepRows bool, fold func(models.Ticket)) ([]models.Ticket, error) {
	if src.tickets == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "ticket store not configured")
	}

	query := repository.TicketQuery{Predicate: CompilePredicate(req), Sort: sort}
	kept := make([]models.Ticket, 0)
	start := time.Now()
	err := src.tickets.StreamTickets(ctx, query, func(ticket models.Ticket) error {
		fold(ticket)
		if keepRows && (req.Limit == 0 || len(kept) < req.Limit) {
			kept = append(kept, ticket)
		}
		return nil
	})
	if src.metrics != nil {
		src.metrics.ObserveDBQuery("report_"+string(req.Type), time.Since(start))
	}
	if err != nil {
		return nil, appErrors.DataAccess(err, "")
	}
	return kept, nil
}

// averageAccumulator averages values that are present, like SQL AVG.
type averageAccumulator struct {
	sum   float64
	count int
}

func (a *averageAccumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a averageAccumulator) value(round func(float64) float64) *float64 {
	if a.count == 0 {
		return nil
	}
	v := round(a.sum / float64(a.count))
	return &v
}

func elapsedHours(from time.Time, to *time.Time) (float64, bool) {
	if to == nil {
		return 0, false
	}
	return to.Sub(from).Hours(), true
}

// elapsedMinutesUntil measures whole minutes from start to the event, or to
// now when the event has not happened yet.
func elapsedMinutesUntil(start time.Time, event *time.Time, now time.Time) float64 {
	end := now
	if event != nil {
		end = *event
	}
	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		return 0
	}
	return float64(int64(minutes))
}

func stringOr(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}
	return *value
}

func formatTimestamp(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02 15:04:05")
}
