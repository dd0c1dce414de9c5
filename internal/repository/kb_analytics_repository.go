package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ticket-report-engine/internal/models"
)

const (
	kbTopQueriesLimit  = 20
	kbZeroResultsLimit = 10
	kbViewsExpr        = "COUNT(CASE WHEN an.action = 'view' THEN 1 END)"
	kbHelpfulExpr      = "COUNT(CASE WHEN an.action = 'helpful' THEN 1 END)"
	kbNotHelpfulExpr   = "COUNT(CASE WHEN an.action = 'not_helpful' THEN 1 END)"
	kbHelpfulnessRatio = "CASE WHEN " + kbHelpfulExpr + " + " + kbNotHelpfulExpr + " > 0 THEN ROUND(100.0 * " + kbHelpfulExpr + " / (" + kbHelpfulExpr + " + " + kbNotHelpfulExpr + "), 1) ELSE 0 END"
)

var kbMetricOrder = map[models.KBMetric]string{
	models.KBMetricViews:            "views DESC",
	models.KBMetricHelpful:          "helpful DESC",
	models.KBMetricHelpfulnessRatio: "helpfulness_ratio DESC",
}

// KBArticleQuery ranks published articles by activity inside a window.
type KBArticleQuery struct {
	Window   models.DateWindow
	EntityID *int64
	Metric   models.KBMetric
	Limit    int
}

// KBSearchQuery scopes search analytics to a window and optional entity.
type KBSearchQuery struct {
	Window   models.DateWindow
	EntityID *int64
}

// KBAnalyticsRepository aggregates knowledge base article and search logs.
type KBAnalyticsRepository struct {
	db *sqlx.DB
}

// NewKBAnalyticsRepository instantiates the repository.
func NewKBAnalyticsRepository(db *sqlx.DB) *KBAnalyticsRepository {
	return &KBAnalyticsRepository{db: db}
}

// TopArticles returns up to q.Limit viewed articles ordered by q.Metric.
func (r *KBAnalyticsRepository) TopArticles(ctx context.Context, q KBArticleQuery) ([]models.KBArticleStat, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT a.id, a.title, a.slug, a.entity_id, e.name AS entity_name, `)
	builder.WriteString(kbViewsExpr + " AS views, ")
	builder.WriteString(kbHelpfulExpr + " AS helpful, ")
	builder.WriteString(kbNotHelpfulExpr + " AS not_helpful, ")
	builder.WriteString("COUNT(CASE WHEN an.action = 'download' THEN 1 END) AS downloads, ")
	builder.WriteString("COUNT(DISTINCT an.session_id) AS unique_sessions, ")
	builder.WriteString(kbHelpfulnessRatio + " AS helpfulness_ratio")
	builder.WriteString(` FROM kb_articles a
        LEFT JOIN kb_article_analytics an ON an.article_id = a.id AND an.created_at >= ? AND an.created_at < ?
        LEFT JOIN entities e ON e.id = a.entity_id
        WHERE a.status = 'published'`)
	args := []interface{}{q.Window.From, q.Window.To}
	if q.EntityID != nil {
		builder.WriteString(" AND a.entity_id = ?")
		args = append(args, *q.EntityID)
	}
	order, ok := kbMetricOrder[q.Metric]
	if !ok {
		order = kbMetricOrder[models.KBMetricViews]
	}
	builder.WriteString(" GROUP BY a.id, a.title, a.slug, a.entity_id, e.name")
	builder.WriteString(" HAVING " + kbViewsExpr + " > 0")
	builder.WriteString(" ORDER BY " + order + ", a.id ASC")
	if q.Limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	var articles []models.KBArticleStat
	if err := r.db.SelectContext(ctx, &articles, r.db.Rebind(builder.String()), args...); err != nil {
		return nil, fmt.Errorf("query kb top articles: %w", err)
	}
	return articles, nil
}

// SearchAnalytics summarises searches with their most frequent and zero-result queries.
func (r *KBAnalyticsRepository) SearchAnalytics(ctx context.Context, q KBSearchQuery) (*models.KBSearchAnalytics, error) {
	where, args := searchWhere(q)

	var stats models.KBSearchAnalytics
	overall := `SELECT COUNT(*) AS total_searches,
        COUNT(DISTINCT sl.query) AS unique_queries,
        COALESCE(AVG(sl.results_count), 0) AS avg_results_per_search,
        COUNT(sl.clicked_article_id) AS total_clicks,
        COUNT(CASE WHEN sl.results_count = 0 THEN 1 END) AS zero_result_searches
        FROM kb_search_log sl WHERE ` + where
	if err := r.db.GetContext(ctx, &stats, r.db.Rebind(overall), args...); err != nil {
		return nil, fmt.Errorf("query kb search totals: %w", err)
	}

	topQueries := `SELECT sl.query, COUNT(*) AS search_count,
        COALESCE(AVG(sl.results_count), 0) AS avg_results,
        COUNT(sl.clicked_article_id) AS click_count
        FROM kb_search_log sl WHERE ` + where + `
        GROUP BY sl.query ORDER BY search_count DESC, sl.query ASC LIMIT ?`
	if err := r.db.SelectContext(ctx, &stats.TopQueries, r.db.Rebind(topQueries), append(args, kbTopQueriesLimit)...); err != nil {
		return nil, fmt.Errorf("query kb top searches: %w", err)
	}

	zeroResults := `SELECT sl.query, COUNT(*) AS search_count
        FROM kb_search_log sl WHERE sl.results_count = 0 AND ` + where + `
        GROUP BY sl.query ORDER BY search_count DESC, sl.query ASC LIMIT ?`
	if err := r.db.SelectContext(ctx, &stats.ZeroResultQueries, r.db.Rebind(zeroResults), append(args, kbZeroResultsLimit)...); err != nil {
		return nil, fmt.Errorf("query kb zero result searches: %w", err)
	}

	finalizeSearchAnalytics(&stats)
	return &stats, nil
}

func searchWhere(q KBSearchQuery) (string, []interface{}) {
	where := "sl.created_at >= ? AND sl.created_at < ?"
	args := []interface{}{q.Window.From, q.Window.To}
	if q.EntityID != nil {
		where += " AND sl.entity_id = ?"
		args = append(args, *q.EntityID)
	}
	return where, args
}

// finalizeSearchAnalytics derives rates and rounds averages the way the
// dashboard presents them.
func finalizeSearchAnalytics(stats *models.KBSearchAnalytics) {
	stats.AvgResultsPerSearch = models.Round1(stats.AvgResultsPerSearch)
	stats.OverallCTR = models.Rate(stats.TotalClicks, stats.TotalSearches)
	for i := range stats.TopQueries {
		item := &stats.TopQueries[i]
		item.AvgResults = models.Round1(item.AvgResults)
		item.ClickThroughRate = models.Rate(item.ClickCount, item.SearchCount)
	}
	if stats.TopQueries == nil {
		stats.TopQueries = []models.KBQueryStat{}
	}
	if stats.ZeroResultQueries == nil {
		stats.ZeroResultQueries = []models.KBQueryStat{}
	}
}
