package service

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/internal/repository"
	"github.com/noah-isme/ticket-report-engine/pkg/config"
)

// testNow is a Monday; last_7_days covers 2024-01-08 10:00 to 2024-01-15 10:00.
var testNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

func stringPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func newTicket(id int64, status, priority string, created time.Time, opts ...func(*models.Ticket)) models.Ticket {
	ticket := models.Ticket{
		ID:        id,
		Subject:   "Ticket",
		Status:    status,
		Priority:  priority,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&ticket)
	}
	return ticket
}

func assignedTo(agentID int64) func(*models.Ticket) {
	return func(t *models.Ticket) { t.AssignedTo = int64Ptr(agentID) }
}

func inEntity(entityID int64) func(*models.Ticket) {
	return func(t *models.Ticket) { t.EntityID = int64Ptr(entityID) }
}

func resolvedAfter(d time.Duration) func(*models.Ticket) {
	return func(t *models.Ticket) { t.ResolvedAt = timePtr(t.CreatedAt.Add(d)) }
}

func respondedAfter(d time.Duration) func(*models.Ticket) {
	return func(t *models.Ticket) { t.FirstResponseAt = timePtr(t.CreatedAt.Add(d)) }
}

func withSLA(status string, due time.Time) func(*models.Ticket) {
	return func(t *models.Ticket) {
		t.SLAStatus = stringPtr(status)
		t.SLADueDate = timePtr(due)
	}
}

func baseFixture(tickets ...models.Ticket) repository.Fixture {
	return repository.Fixture{
		Entities: []models.Entity{
			{ID: 1, Name: "Acme", Status: "active"},
			{ID: 2, Name: "Globex", Status: "active"},
		},
		Users: []models.Agent{
			{ID: 7, DisplayName: "Dana", Role: "agent"},
			{ID: 8, DisplayName: "Sam", Role: "agent"},
			{ID: 30, DisplayName: "Customer", Role: "customer"},
		},
		Tickets: tickets,
	}
}

func newFixtureService(t *testing.T, fixture repository.Fixture, metrics reportMetrics) *ReportService {
	t.Helper()
	store := repository.NewFixtureStore(fixture)
	svc := NewReportService(store, store, store, metrics, zap.NewNop(), config.ReportsConfig{
		Timezone:   "UTC",
		AgentRoles: []string{"agent"},
	})
	svc.now = func() time.Time { return testNow }
	return svc
}

// statusMix is five open, three in progress and two resolved tickets inside the
// default window.
func statusMix() []models.Ticket {
	day := testNow.Add(-24 * time.Hour)
	tickets := make([]models.Ticket, 0, 10)
	for i := int64(1); i <= 5; i++ {
		tickets = append(tickets, newTicket(i, models.TicketStatusOpen, "medium", day.Add(-time.Duration(i)*time.Hour), inEntity(1), assignedTo(7)))
	}
	for i := int64(6); i <= 8; i++ {
		tickets = append(tickets, newTicket(i, models.TicketStatusInProgress, models.TicketPriorityHigh, day.Add(-time.Duration(i)*time.Hour), inEntity(2), assignedTo(8)))
	}
	for i := int64(9); i <= 10; i++ {
		tickets = append(tickets, newTicket(i, models.TicketStatusResolved, models.TicketPriorityCritical, day.Add(-time.Duration(i)*time.Hour), resolvedAfter(3*time.Hour)))
	}
	return tickets
}
