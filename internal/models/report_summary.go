package models

import (
	"math"
	"strconv"
)

// TicketSummary describes the filtered ticket universe.
type TicketSummary struct {
	TotalTickets           int      `json:"total_tickets"`
	OpenTickets            int      `json:"open_tickets"`
	ResolvedTickets        int      `json:"resolved_tickets"`
	ClosedTickets          int      `json:"closed_tickets"`
	AvgResolutionTimeHours *float64 `json:"avg_resolution_time_hours"`
	CriticalTickets        int      `json:"critical_tickets"`
	HighTickets            int      `json:"high_tickets"`
}

// Fields implements ReportSummary.
func (s TicketSummary) Fields() []SummaryField {
	return []SummaryField{
		{Key: "total_tickets", Value: strconv.Itoa(s.TotalTickets)},
		{Key: "open_tickets", Value: strconv.Itoa(s.OpenTickets)},
		{Key: "resolved_tickets", Value: strconv.Itoa(s.ResolvedTickets)},
		{Key: "closed_tickets", Value: strconv.Itoa(s.ClosedTickets)},
		{Key: "avg_resolution_time_hours", Value: FormatOptional(s.AvgResolutionTimeHours)},
		{Key: "critical_tickets", Value: strconv.Itoa(s.CriticalTickets)},
		{Key: "high_tickets", Value: strconv.Itoa(s.HighTickets)},
	}
}

// SLASummary describes tickets carrying an SLA due date.
type SLASummary struct {
	TotalWithSLA             int      `json:"total_with_sla"`
	SLAMet                   int      `json:"sla_met"`
	SLABreached              int      `json:"sla_breached"`
	SLAWarning               int      `json:"sla_warning"`
	AvgResponseTimeMinutes   *float64 `json:"avg_response_time_minutes"`
	AvgResolutionTimeMinutes *float64 `json:"avg_resolution_time_minutes"`
	ComplianceRate           float64  `json:"compliance_rate"`
}

// Fields implements ReportSummary.
func (s SLASummary) Fields() []SummaryField {
	return []SummaryField{
		{Key: "total_with_sla", Value: strconv.Itoa(s.TotalWithSLA)},
		{Key: "sla_met", Value: strconv.Itoa(s.SLAMet)},
		{Key: "sla_breached", Value: strconv.Itoa(s.SLABreached)},
		{Key: "sla_warning", Value: strconv.Itoa(s.SLAWarning)},
		{Key: "avg_response_time_minutes", Value: FormatOptional(s.AvgResponseTimeMinutes)},
		{Key: "avg_resolution_time_minutes", Value: FormatOptional(s.AvgResolutionTimeMinutes)},
		{Key: "compliance_rate", Value: FormatNumber(s.ComplianceRate)},
	}
}

// AgentSummary totals the agent performance universe.
type AgentSummary struct {
	Agents          int     `json:"agents"`
	TicketsAssigned int     `json:"tickets_assigned"`
	TicketsResolved int     `json:"tickets_resolved"`
	TicketsClosed   int     `json:"tickets_closed"`
	ResolutionRate  float64 `json:"resolution_rate"`
	SLACompliance   float64 `json:"sla_compliance"`
}

// Fields implements ReportSummary.
func (s AgentSummary) Fields() []SummaryField {
	return []SummaryField{
		{Key: "agents", Value: strconv.Itoa(s.Agents)},
		{Key: "tickets_assigned", Value: strconv.Itoa(s.TicketsAssigned)},
		{Key: "tickets_resolved", Value: strconv.Itoa(s.TicketsResolved)},
		{Key: "tickets_closed", Value: strconv.Itoa(s.TicketsClosed)},
		{Key: "resolution_rate", Value: FormatNumber(s.ResolutionRate)},
		{Key: "sla_compliance", Value: FormatNumber(s.SLACompliance)},
	}
}

// Fields implements ReportSummary with the overall search statistics.
func (s KBSearchAnalytics) Fields() []SummaryField {
	return []SummaryField{
		{Key: "total_searches", Value: strconv.Itoa(s.TotalSearches)},
		{Key: "unique_queries", Value: strconv.Itoa(s.UniqueQueries)},
		{Key: "avg_results_per_search", Value: FormatNumber(s.AvgResultsPerSearch)},
		{Key: "total_clicks", Value: strconv.Itoa(s.TotalClicks)},
		{Key: "zero_result_searches", Value: strconv.Itoa(s.ZeroResultSearches)},
		{Key: "overall_ctr", Value: FormatNumber(s.OverallCTR)},
	}
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Rate is part/whole as a percentage with one decimal, 0 when whole is 0.
func Rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return Round1(float64(part) / float64(whole) * 100)
}

// FormatNumber prints v without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatOptional prints an absent value as "-".
func FormatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return FormatNumber(*v)
}
