package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/ticket-report-engine/internal/models"
)

// Fixture is the on-disk layout of an offline report data set.
type Fixture struct {
	Entities   []models.Entity         `yaml:"entities"`
	Users      []models.Agent          `yaml:"users"`
	Tickets    []models.Ticket         `yaml:"tickets"`
	Articles   []FixtureArticle        `yaml:"kb_articles"`
	KBEvents   []models.KBArticleEvent `yaml:"kb_events"`
	KBSearches []models.KBSearchEvent  `yaml:"kb_searches"`
}

// FixtureArticle is a knowledge base article as stored in a fixture.
type FixtureArticle struct {
	ID       int64  `yaml:"id"`
	Title    string `yaml:"title"`
	Slug     string `yaml:"slug"`
	EntityID *int64 `yaml:"entity_id"`
	Status   string `yaml:"status"`
}

// FixtureStore serves report data from memory, evaluating compiled predicates
// with their in-process matchers instead of SQL.
type FixtureStore struct {
	data     Fixture
	entities map[int64]string
	users    map[int64]string
}

// LoadFixtureStore reads a YAML fixture file.
func LoadFixtureStore(path string) (*FixtureStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var data Fixture
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode fixture %s: %w", path, err)
	}
	return NewFixtureStore(data), nil
}

// NewFixtureStore indexes an in-memory fixture.
func NewFixtureStore(data Fixture) *FixtureStore {
	store := &FixtureStore{
		data:     data,
		entities: make(map[int64]string, len(data.Entities)),
		users:    make(map[int64]string, len(data.Users)),
	}
	for _, entity := range data.Entities {
		store.entities[entity.ID] = entity.Name
	}
	for _, user := range data.Users {
		store.users[user.ID] = user.DisplayName
	}
	return store
}

// StreamTickets mirrors TicketRepository.StreamTickets over fixture tickets.
func (s *FixtureStore) StreamTickets(ctx context.Context, query TicketQuery, fn func(models.Ticket) error) error {
	matched := make([]models.Ticket, 0, len(s.data.Tickets))
	for _, ticket := range s.data.Tickets {
		ticket.EntityName = lookupName(s.entities, ticket.EntityID)
		ticket.CustomerName = lookupName(s.users, ticket.CustomerID)
		ticket.AgentName = lookupName(s.users, ticket.AssignedTo)
		if query.Predicate.Matches(ticket) {
			matched = append(matched, ticket)
		}
	}

	sortTickets(matched, query.Sort)

	for _, ticket := range matched {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ticket); err != nil {
			return err
		}
	}
	return nil
}

// Agents mirrors DirectoryRepository.Agents.
func (s *FixtureStore) Agents(_ context.Context, roles []string) ([]models.Agent, error) {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	agents := make([]models.Agent, 0, len(s.data.Users))
	for _, user := range s.data.Users {
		if _, ok := allowed[user.Role]; len(allowed) > 0 && !ok {
			continue
		}
		agents = append(agents, user)
	}
	sort.SliceStable(agents, func(i, j int) bool {
		if agents[i].DisplayName != agents[j].DisplayName {
			return agents[i].DisplayName < agents[j].DisplayName
		}
		return agents[i].ID < agents[j].ID
	})
	return agents, nil
}

// Entities mirrors DirectoryRepository.Entities.
func (s *FixtureStore) Entities(_ context.Context) ([]models.Entity, error) {
	entities := make([]models.Entity, 0, len(s.data.Entities))
	for _, entity := range s.data.Entities {
		if entity.Status == "" || entity.Status == "active" {
			entities = append(entities, entity)
		}
	}
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Name != entities[j].Name {
			return entities[i].Name < entities[j].Name
		}
		return entities[i].ID < entities[j].ID
	})
	return entities, nil
}

// TopArticles mirrors KBAnalyticsRepository.TopArticles.
func (s *FixtureStore) TopArticles(_ context.Context, q KBArticleQuery) ([]models.KBArticleStat, error) {
	type tally struct {
		stat     models.KBArticleStat
		sessions map[string]struct{}
	}
	tallies := make(map[int64]*tally)
	order := make([]int64, 0)
	for _, article := range s.data.Articles {
		if article.Status != "published" {
			continue
		}
		if q.EntityID != nil && (article.EntityID == nil || *article.EntityID != *q.EntityID) {
			continue
		}
		tallies[article.ID] = &tally{
			stat: models.KBArticleStat{
				ID:         article.ID,
				Title:      article.Title,
				Slug:       article.Slug,
				EntityID:   article.EntityID,
				EntityName: lookupName(s.entities, article.EntityID),
			},
			sessions: make(map[string]struct{}),
		}
		order = append(order, article.ID)
	}

	for _, event := range s.data.KBEvents {
		t, ok := tallies[event.ArticleID]
		if !ok || !q.Window.Contains(event.CreatedAt) {
			continue
		}
		switch event.Action {
		case "view":
			t.stat.Views++
		case "helpful":
			t.stat.Helpful++
		case "not_helpful":
			t.stat.NotHelpful++
		case "download":
			t.stat.Downloads++
		}
		if event.SessionID != "" {
			t.sessions[event.SessionID] = struct{}{}
		}
	}

	articles := make([]models.KBArticleStat, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		if t.stat.Views == 0 {
			continue
		}
		t.stat.UniqueSessions = len(t.sessions)
		t.stat.HelpfulnessRatio = models.Rate(t.stat.Helpful, t.stat.Helpful+t.stat.NotHelpful)
		articles = append(articles, t.stat)
	}

	metric := func(a models.KBArticleStat) float64 {
		switch q.Metric {
		case models.KBMetricHelpful:
			return float64(a.Helpful)
		case models.KBMetricHelpfulnessRatio:
			return a.HelpfulnessRatio
		default:
			return float64(a.Views)
		}
	}
	sort.SliceStable(articles, func(i, j int) bool {
		if mi, mj := metric(articles[i]), metric(articles[j]); mi != mj {
			return mi > mj
		}
		return articles[i].ID < articles[j].ID
	})

	if q.Limit > 0 && len(articles) > q.Limit {
		articles = articles[:q.Limit]
	}
	return articles, nil
}

// SearchAnalytics mirrors KBAnalyticsRepository.SearchAnalytics.
func (s *FixtureStore) SearchAnalytics(_ context.Context, q KBSearchQuery) (*models.KBSearchAnalytics, error) {
	var stats models.KBSearchAnalytics
	type queryTally struct {
		stat       models.KBQueryStat
		resultsSum int
	}
	byQuery := make(map[string]*queryTally)
	zero := make(map[string]int)
	resultsSum := 0

	for _, search := range s.data.KBSearches {
		if !q.Window.Contains(search.CreatedAt) {
			continue
		}
		if q.EntityID != nil && (search.EntityID == nil || *search.EntityID != *q.EntityID) {
			continue
		}
		stats.TotalSearches++
		resultsSum += search.ResultsCount

		t, ok := byQuery[search.Query]
		if !ok {
			t = &queryTally{stat: models.KBQueryStat{Query: search.Query}}
			byQuery[search.Query] = t
		}
		t.stat.SearchCount++
		t.resultsSum += search.ResultsCount
		if search.ClickedArticleID != nil {
			stats.TotalClicks++
			t.stat.ClickCount++
		}
		if search.ResultsCount == 0 {
			stats.ZeroResultSearches++
			zero[search.Query]++
		}
	}

	stats.UniqueQueries = len(byQuery)
	if stats.TotalSearches > 0 {
		stats.AvgResultsPerSearch = float64(resultsSum) / float64(stats.TotalSearches)
	}

	for _, t := range byQuery {
		t.stat.AvgResults = float64(t.resultsSum) / float64(t.stat.SearchCount)
		stats.TopQueries = append(stats.TopQueries, t.stat)
	}
	for query, count := range zero {
		stats.ZeroResultQueries = append(stats.ZeroResultQueries, models.KBQueryStat{Query: query, SearchCount: count})
	}
	stats.TopQueries = topQueryStats(stats.TopQueries, kbTopQueriesLimit)
	stats.ZeroResultQueries = topQueryStats(stats.ZeroResultQueries, kbZeroResultsLimit)

	finalizeSearchAnalytics(&stats)
	return &stats, nil
}

func topQueryStats(items []models.KBQueryStat, limit int) []models.KBQueryStat {
	sort.Slice(items, func(i, j int) bool {
		if items[i].SearchCount != items[j].SearchCount {
			return items[i].SearchCount > items[j].SearchCount
		}
		return items[i].Query < items[j].Query
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func lookupName(names map[int64]string, id *int64) *string {
	if id == nil {
		return nil
	}
	name, ok := names[*id]
	if !ok {
		return nil
	}
	return &name
}

// sortTickets orders like the SQL ORDER BY: NULL timestamps sort as the
// largest value, ties break on id in the same direction.
func sortTickets(tickets []models.Ticket, order models.SortSpec) {
	desc := order.Order != models.SortAsc
	sort.SliceStable(tickets, func(i, j int) bool {
		cmp := compareTickets(tickets[i], tickets[j], order.Field)
		if cmp == 0 {
			cmp = compareInt64(tickets[i].ID, tickets[j].ID)
		}
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareTickets(a, b models.Ticket, field string) int {
	switch field {
	case "updated_at":
		return compareTime(&a.UpdatedAt, &b.UpdatedAt)
	case "resolved_at":
		return compareTime(a.ResolvedAt, b.ResolvedAt)
	case "sla_due_date":
		return compareTime(a.SLADueDate, b.SLADueDate)
	case "priority":
		return strings.Compare(a.Priority, b.Priority)
	case "status":
		return strings.Compare(a.Status, b.Status)
	default:
		return compareTime(&a.CreatedAt, &b.CreatedAt)
	}
}

func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
