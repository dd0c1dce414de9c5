package models

import "time"

// KBArticleStat aggregates article analytics over a window.
type KBArticleStat struct {
	ID               int64   `db:"id" json:"id" yaml:"id"`
	Title            string  `db:"title" json:"title" yaml:"title"`
	Slug             string  `db:"slug" json:"slug" yaml:"slug"`
	EntityID         *int64  `db:"entity_id" json:"entity_id,omitempty" yaml:"entity_id"`
	EntityName       *string `db:"entity_name" json:"entity_name,omitempty" yaml:"entity_name"`
	Views            int     `db:"views" json:"views" yaml:"views"`
	Helpful          int     `db:"helpful" json:"helpful" yaml:"helpful"`
	NotHelpful       int     `db:"not_helpful" json:"not_helpful" yaml:"not_helpful"`
	Downloads        int     `db:"downloads" json:"downloads" yaml:"downloads"`
	UniqueSessions   int     `db:"unique_sessions" json:"unique_sessions" yaml:"unique_sessions"`
	HelpfulnessRatio float64 `db:"helpfulness_ratio" json:"helpfulness_ratio" yaml:"helpfulness_ratio"`
}

// KBArticleEvent is a raw analytics event, used by fixture data.
type KBArticleEvent struct {
	ArticleID int64     `yaml:"article_id"`
	Action    string    `yaml:"action"`
	SessionID string    `yaml:"session_id"`
	CreatedAt time.Time `yaml:"created_at"`
}

// KBSearchEvent is a single logged knowledge base search.
type KBSearchEvent struct {
	Query            string    `yaml:"query"`
	ResultsCount     int       `yaml:"results_count"`
	ClickedArticleID *int64    `yaml:"clicked_article_id"`
	EntityID         *int64    `yaml:"entity_id"`
	CreatedAt        time.Time `yaml:"created_at"`
}

// KBQueryStat aggregates searches for one query string.
type KBQueryStat struct {
	Query            string  `db:"query" json:"query"`
	SearchCount      int     `db:"search_count" json:"search_count"`
	AvgResults       float64 `db:"avg_results" json:"avg_results,omitempty"`
	ClickCount       int     `db:"click_count" json:"click_count,omitempty"`
	ClickThroughRate float64 `db:"click_through_rate" json:"click_through_rate,omitempty"`
}

// KBSearchAnalytics is the overall search picture for a window.
type KBSearchAnalytics struct {
	TotalSearches       int           `db:"total_searches" json:"total_searches"`
	UniqueQueries       int           `db:"unique_queries" json:"unique_queries"`
	AvgResultsPerSearch float64       `db:"avg_results_per_search" json:"avg_results_per_search"`
	TotalClicks         int           `db:"total_clicks" json:"total_clicks"`
	ZeroResultSearches  int           `db:"zero_result_searches" json:"zero_result_searches"`
	OverallCTR          float64       `db:"-" json:"overall_ctr"`
	TopQueries          []KBQueryStat `db:"-" json:"top_queries"`
	ZeroResultQueries   []KBQueryStat `db:"-" json:"zero_result_queries"`
}
