package service

import (
	"context"
	"strconv"
	"time"

	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/internal/repository"
	appErrors "github.com/noah-isme/ticket-report-engine/pkg/errors"
)

// kbStrategy delegates to the knowledge base analytics store. Only the first
// entity filter value applies.
type kbStrategy struct{}

func (kbStrategy) scopeConditions() []models.Condition { return nil }

func (kbStrategy) filterBindings() []filterBinding {
	return []filterBinding{{name: FilterEntity, compile: compileFirstEntityFilter}}
}

func (kbStrategy) groupable() bool { return false }

func (kbStrategy) build(ctx context.Context, src reportSources, req *ReportRequest, result *models.ReportResult) error {
	if src.kb == nil {
		return appErrors.Clone(appErrors.ErrInternal, "knowledge base analytics not configured")
	}
	entityID, ok := firstEntityID(req)
	if !ok {
		result.Articles = []models.KBArticleStat{}
		result.Summary = models.KBSearchAnalytics{}
		return nil
	}

	start := time.Now()
	articles, err := src.kb.TopArticles(ctx, repository.KBArticleQuery{
		Window:   req.Window,
		EntityID: entityID,
		Metric:   req.KBMetric,
		Limit:    req.Limit,
	})
	if err != nil {
		return appErrors.DataAccess(err, "")
	}
	search, err := src.kb.SearchAnalytics(ctx, repository.KBSearchQuery{Window: req.Window, EntityID: entityID})
	if err != nil {
		return appErrors.DataAccess(err, "")
	}
	if src.metrics != nil {
		src.metrics.ObserveDBQuery("report_"+string(req.Type), time.Since(start))
	}

	if articles == nil {
		articles = []models.KBArticleStat{}
	}
	if search == nil {
		search = &models.KBSearchAnalytics{}
	}
	result.Articles = articles
	result.Summary = *search
	result.TotalRecords = len(articles)
	return nil
}

func (kbStrategy) exportHeaders() []string {
	return []string{"Article", "Entity", "Views", "Unique Sessions", "Helpful Votes", "Helpfulness Ratio"}
}

func (kbStrategy) exportRows(result *models.ReportResult) [][]string {
	rows := make([][]string, 0, len(result.Articles))
	for _, article := range result.Articles {
		rows = append(rows, []string{
			article.Title,
			stringOr(article.EntityName, ""),
			strconv.Itoa(article.Views),
			strconv.Itoa(article.UniqueSessions),
			strconv.Itoa(article.Helpful),
			models.FormatNumber(article.HelpfulnessRatio) + "%",
		})
	}
	return rows
}

// firstEntityID returns the entity scope for the analytics queries. Only the
// first value counts; when it is not numeric the scope matches nothing and ok
// is false.
func firstEntityID(req *ReportRequest) (id *int64, ok bool) {
	values := req.Values(FilterEntity)
	if len(values) == 0 {
		return nil, true
	}
	parsed, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func compileFirstEntityFilter(values []string) (models.Condition, bool) {
	if len(values) == 0 {
		return models.Condition{}, false
	}
	return compileEntityFilter(values[:1])
}
