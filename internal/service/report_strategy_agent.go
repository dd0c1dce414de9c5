package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/noah-isme/ticket-report-engine/internal/models"
)

// agentStrategy aggregates assigned tickets per agent.
type agentStrategy struct{}

func (agentStrategy) scopeConditions() []models.Condition {
	return []models.Condition{assignedScope()}
}

func (agentStrategy) filterBindings() []filterBinding {
	return []filterBinding{
		{name: FilterEntity, compile: compileEntityFilter},
		{name: FilterAgent, compile: compileAgentIDFilter},
	}
}

func (agentStrategy) groupable() bool { return false }

func (agentStrategy) build(ctx context.Context, src reportSources, req *ReportRequest, result *models.ReportResult) error {
	acc := newAgentAccumulator()
	if _, err := streamUniverse(ctx, src, req, req.Sort, false, acc.add); err != nil {
		return err
	}

	agents := acc.performances()
	summary := summarizeAgents(agents)
	if req.Limit > 0 && len(agents) > req.Limit {
		agents = agents[:req.Limit]
	}
	result.Agents = agents
	result.Summary = summary
	result.TotalRecords = len(agents)
	return nil
}

func (agentStrategy) exportHeaders() []string {
	return []string{"Agent", "Tickets Assigned", "Tickets Resolved", "Resolution Rate", "Avg Resolution Time", "SLA Compliance"}
}

func (agentStrategy) exportRows(result *models.ReportResult) [][]string {
	rows := make([][]string, 0, len(result.Agents))
	for _, agent := range result.Agents {
		avg := "-"
		if agent.AvgResolutionTimeHours != nil {
			avg = models.FormatNumber(*agent.AvgResolutionTimeHours) + "h"
		}
		rows = append(rows, []string{
			agent.AgentName,
			strconv.Itoa(agent.TicketsAssigned),
			strconv.Itoa(agent.TicketsResolved),
			models.FormatNumber(agent.ResolutionRate) + "%",
			avg,
			models.FormatNumber(agent.SLACompliance) + "%",
		})
	}
	return rows
}

type agentTally struct {
	perf       models.AgentPerformance
	resolution averageAccumulator
	response   averageAccumulator
}

type agentAccumulator struct {
	byAgent map[int64]*agentTally
}

func newAgentAccumulator() *agentAccumulator {
	return &agentAccumulator{byAgent: make(map[int64]*agentTally)}
}

func (a *agentAccumulator) add(ticket models.Ticket) {
	if ticket.AssignedTo == nil {
		return
	}
	id := *ticket.AssignedTo
	tally, ok := a.byAgent[id]
	if !ok {
		tally = &agentTally{perf: models.AgentPerformance{
			AgentID:   id,
			AgentName: stringOr(ticket.AgentName, fmt.Sprintf("Agent #%d", id)),
		}}
		a.byAgent[id] = tally
	}

	p := &tally.perf
	p.TicketsAssigned++
	switch ticket.Status {
	case models.TicketStatusResolved:
		p.TicketsResolved++
	case models.TicketStatusClosed:
		p.TicketsClosed++
	}
	switch stringOr(ticket.SLAStatus, "") {
	case models.SLAStatusMet:
		p.SLAMet++
	case models.SLAStatusBreached:
		p.SLABreached++
	}
	if hours, ok := elapsedHours(ticket.CreatedAt, ticket.ResolvedAt); ok {
		tally.resolution.add(hours)
	}
	if hours, ok := elapsedHours(ticket.CreatedAt, ticket.FirstResponseAt); ok {
		tally.response.add(hours)
	}
}

// performances returns agents ordered by assigned tickets, busiest first.
func (a *agentAccumulator) performances() []models.AgentPerformance {
	agents := make([]models.AgentPerformance, 0, len(a.byAgent))
	for _, tally := range a.byAgent {
		p := tally.perf
		p.AvgResolutionTimeHours = tally.resolution.value(models.Round1)
		p.AvgResponseTimeHours = tally.response.value(models.Round1)
		p.ResolutionRate = models.Rate(p.TicketsResolved+p.TicketsClosed, p.TicketsAssigned)
		p.SLACompliance = models.Rate(p.SLAMet, p.TicketsAssigned)
		agents = append(agents, p)
	}
	sort.Slice(agents, func(i, j int) bool {
		if agents[i].TicketsAssigned != agents[j].TicketsAssigned {
			return agents[i].TicketsAssigned > agents[j].TicketsAssigned
		}
		if agents[i].AgentName != agents[j].AgentName {
			return agents[i].AgentName < agents[j].AgentName
		}
		return agents[i].AgentID < agents[j].AgentID
	})
	return agents
}

func summarizeAgents(agents []models.AgentPerformance) models.AgentSummary {
	summary := models.AgentSummary{Agents: len(agents)}
	slaMet := 0
	for _, agent := range agents {
		summary.TicketsAssigned += agent.TicketsAssigned
		summary.TicketsResolved += agent.TicketsResolved
		summary.TicketsClosed += agent.TicketsClosed
		slaMet += agent.SLAMet
	}
	summary.ResolutionRate = models.Rate(summary.TicketsResolved+summary.TicketsClosed, summary.TicketsAssigned)
	summary.SLACompliance = models.Rate(slaMet, summary.TicketsAssigned)
	return summary
}
