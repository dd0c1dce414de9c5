package service

import (
	"context"
	"strconv"

	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/pkg/export"
)

type ticketStrategy struct{}

func (ticketStrategy) scopeConditions() []models.Condition { return nil }

func (ticketStrategy) filterBindings() []filterBinding {
	return []filterBinding{
		{name: FilterEntity, compile: compileEntityFilter},
		{name: FilterStatus, compile: compileStatusFilter},
		{name: FilterPriority, compile: compilePriorityFilter},
		{name: FilterAgent, compile: compileAgentFilter},
	}
}

func (ticketStrategy) groupable() bool { return true }

func (ticketStrategy) build(ctx context.Context, src reportSources, req *ReportRequest, result *models.ReportResult) error {
	var acc ticketSummaryAccumulator
	tickets, err := streamUniverse(ctx, src, req, req.Sort, true, acc.add)
	if err != nil {
		return err
	}

	rows := make([]models.TicketRow, 0, len(tickets))
	for _, ticket := range tickets {
		rows = append(rows, models.TicketRow{Ticket: ticket})
	}
	result.Tickets = rows
	result.Summary = acc.summary()
	result.TotalRecords = len(rows)
	return nil
}

func (ticketStrategy) exportHeaders() []string {
	return []string{"ID", "Subject", "Status", "Priority", "Entity", "Customer", "Agent", "Created", "Updated", "Resolved"}
}

func (ticketStrategy) exportRows(result *models.ReportResult) [][]string {
	loc := result.Window.From.Location()
	rows := make([][]string, 0, len(result.Tickets))
	for _, row := range result.Tickets {
		resolved := "Not resolved"
		if row.ResolvedAt != nil {
			resolved = formatTimestamp(*row.ResolvedAt, loc)
		}
		rows = append(rows, []string{
			strconv.FormatInt(row.ID, 10),
			row.Subject,
			export.Humanize(row.Status),
			export.Humanize(row.Priority),
			stringOr(row.EntityName, ""),
			stringOr(row.CustomerName, ""),
			stringOr(row.AgentName, "Unassigned"),
			formatTimestamp(row.CreatedAt, loc),
			formatTimestamp(row.UpdatedAt, loc),
			resolved,
		})
	}
	return rows
}

type ticketSummaryAccumulator struct {
	totals     models.TicketSummary
	resolution averageAccumulator
}

func (a *ticketSummaryAccumulator) add(ticket models.Ticket) {
	s := &a.totals
	s.TotalTickets++
	switch ticket.Status {
	case models.TicketStatusOpen:
		s.OpenTickets++
	case models.TicketStatusResolved:
		s.ResolvedTickets++
	case models.TicketStatusClosed:
		s.ClosedTickets++
	}
	switch ticket.Priority {
	case models.TicketPriorityCritical:
		s.CriticalTickets++
	case models.TicketPriorityHigh:
		s.HighTickets++
	}
	if hours, ok := elapsedHours(ticket.CreatedAt, ticket.ResolvedAt); ok {
		a.resolution.add(hours)
	}
}

func (a *ticketSummaryAccumulator) summary() models.TicketSummary {
	s := a.totals
	s.AvgResolutionTimeHours = a.resolution.value(models.Round1)
	return s
}
