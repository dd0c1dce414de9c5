package service

import (
	"context"
	"strconv"

	"github.com/noah-isme/ticket-report-engine/internal/models"
	"github.com/noah-isme/ticket-report-engine/pkg/export"
)

// slaStrategy reports on tickets carrying an SLA due date, soonest due first.
type slaStrategy struct{}

var slaSort = models.SortSpec{Field: "sla_due_date", Order: models.SortAsc}

func (slaStrategy) scopeConditions() []models.Condition {
	return []models.Condition{slaScope()}
}

func (slaStrategy) filterBindings() []filterBinding {
	return []filterBinding{
		{name: FilterEntity, compile: compileEntityFilter},
		{name: FilterSLAStatus, compile: compileSLAStatusFilter},
	}
}

func (slaStrategy) groupable() bool { return true }

func (slaStrategy) build(ctx context.Context, src reportSources, req *ReportRequest, result *models.ReportResult) error {
	acc := slaSummaryAccumulator{}
	tickets, err := streamUniverse(ctx, src, req, slaSort, true, acc.add)
	if err != nil {
		return err
	}

	rows := make([]models.TicketRow, 0, len(tickets))
	for _, ticket := range tickets {
		response := elapsedMinutesUntil(ticket.CreatedAt, ticket.FirstResponseAt, src.now)
		resolution := elapsedMinutesUntil(ticket.CreatedAt, ticket.ResolvedAt, src.now)
		rows = append(rows, models.TicketRow{
			Ticket:                ticket,
			ResponseTimeMinutes:   &response,
			ResolutionTimeMinutes: &resolution,
		})
	}
	result.Tickets = rows
	result.Summary = acc.summary()
	result.TotalRecords = len(rows)
	return nil
}

func (slaStrategy) exportHeaders() []string {
	return []string{"ID", "Subject", "SLA Status", "Due Date", "Response Time", "Resolution Time", "Entity", "Agent"}
}

func (slaStrategy) exportRows(result *models.ReportResult) [][]string {
	loc := result.Window.From.Location()
	rows := make([][]string, 0, len(result.Tickets))
	for _, row := range result.Tickets {
		due := ""
		if row.SLADueDate != nil {
			due = formatTimestamp(*row.SLADueDate, loc)
		}
		rows = append(rows, []string{
			strconv.FormatInt(row.ID, 10),
			row.Subject,
			export.Humanize(stringOr(row.SLAStatus, "")),
			due,
			minutesAsHours(row.ResponseTimeMinutes),
			minutesAsHours(row.ResolutionTimeMinutes),
			stringOr(row.EntityName, ""),
			stringOr(row.AgentName, "Unassigned"),
		})
	}
	return rows
}

func minutesAsHours(minutes *float64) string {
	if minutes == nil {
		return "-"
	}
	return models.FormatNumber(models.Round2(*minutes/60)) + "h"
}

type slaSummaryAccumulator struct {
	totals     models.SLASummary
	response   averageAccumulator
	resolution averageAccumulator
}

func (a *slaSummaryAccumulator) add(ticket models.Ticket) {
	s := &a.totals
	s.TotalWithSLA++
	switch stringOr(ticket.SLAStatus, "") {
	case models.SLAStatusMet:
		s.SLAMet++
	case models.SLAStatusBreached:
		s.SLABreached++
	case models.SLAStatusWarning:
		s.SLAWarning++
	}
	if ticket.FirstResponseAt != nil {
		a.response.add(ticket.FirstResponseAt.Sub(ticket.CreatedAt).Minutes())
	}
	if ticket.ResolvedAt != nil {
		a.resolution.add(ticket.ResolvedAt.Sub(ticket.CreatedAt).Minutes())
	}
}

func (a *slaSummaryAccumulator) summary() models.SLASummary {
	s := a.totals
	s.AvgResponseTimeMinutes = a.response.value(models.Round1)
	s.AvgResolutionTimeMinutes = a.resolution.value(models.Round1)
	s.ComplianceRate = models.Rate(s.SLAMet, s.TotalWithSLA)
	return s
}
