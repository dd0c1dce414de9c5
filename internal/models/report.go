package models

import "time"

// ReportType enumerates the report kinds the engine can build.
type ReportType string

const (
	ReportTypeTickets       ReportType = "tickets"
	ReportTypeSLA           ReportType = "sla"
	ReportTypeAgent         ReportType = "agent"
	ReportTypeKnowledgeBase ReportType = "knowledgebase"
)

// Label is the human name used in report titles.
func (t ReportType) Label() string {
	switch t {
	case ReportTypeTickets:
		return "Tickets"
	case ReportTypeSLA:
		return "SLA"
	case ReportTypeAgent:
		return "Agent"
	case ReportTypeKnowledgeBase:
		return "Knowledgebase"
	default:
		return string(t)
	}
}

// DateRangePreset names a relative or custom creation window.
type DateRangePreset string

const (
	DateRangeToday      DateRangePreset = "today"
	DateRangeYesterday  DateRangePreset = "yesterday"
	DateRangeLast7Days  DateRangePreset = "last_7_days"
	DateRangeLast30Days DateRangePreset = "last_30_days"
	DateRangeLast90Days DateRangePreset = "last_90_days"
	DateRangeCustom     DateRangePreset = "custom"
)

// Label is the human name used in report titles.
func (p DateRangePreset) Label() string {
	switch p {
	case DateRangeToday:
		return "Today"
	case DateRangeYesterday:
		return "Yesterday"
	case DateRangeLast7Days:
		return "Last 7 Days"
	case DateRangeLast30Days:
		return "Last 30 Days"
	case DateRangeLast90Days:
		return "Last 90 Days"
	case DateRangeCustom:
		return "Custom Range"
	default:
		return string(p)
	}
}

// GroupDimension selects how detail rows are bucketed.
type GroupDimension string

const (
	GroupByNone      GroupDimension = ""
	GroupByStatus    GroupDimension = "status"
	GroupByPriority  GroupDimension = "priority"
	GroupByEntity    GroupDimension = "entity"
	GroupByAgent     GroupDimension = "agent"
	GroupByDate      GroupDimension = "date"
	GroupBySLAStatus GroupDimension = "sla_status"
)

// SortOrder is the direction of the detail row ordering.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// SortSpec orders detail rows by a whitelisted ticket column.
type SortSpec struct {
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}

// KBMetric ranks knowledge base articles.
type KBMetric string

const (
	KBMetricViews            KBMetric = "views"
	KBMetricHelpful          KBMetric = "helpful"
	KBMetricHelpfulnessRatio KBMetric = "helpfulness_ratio"
)

// DateWindow is the half-open creation interval [From, To).
type DateWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// DisplayOptions toggles the rendered sections of a report.
type DisplayOptions struct {
	ShowSummary bool `json:"show_summary"`
	ShowCharts  bool `json:"show_charts"`
	ShowDetails bool `json:"show_details"`
}

// SummaryField is one labelled summary statistic, already formatted for output.
type SummaryField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ReportSummary is implemented by every per-type summary.
type ReportSummary interface {
	Fields() []SummaryField
}

// TicketRow is a ticket shaped for ticket and SLA reports.
type TicketRow struct {
	Ticket
	ResponseTimeMinutes   *float64 `json:"response_time_minutes,omitempty"`
	ResolutionTimeMinutes *float64 `json:"resolution_time_minutes,omitempty"`
}

// AgentPerformance aggregates one agent's tickets.
type AgentPerformance struct {
	AgentID                int64    `json:"agent_id"`
	AgentName              string   `json:"agent_name"`
	TicketsAssigned        int      `json:"tickets_assigned"`
	TicketsResolved        int      `json:"tickets_resolved"`
	TicketsClosed          int      `json:"tickets_closed"`
	AvgResolutionTimeHours *float64 `json:"avg_resolution_time_hours"`
	AvgResponseTimeHours   *float64 `json:"avg_response_time_hours"`
	SLAMet                 int      `json:"sla_met"`
	SLABreached            int      `json:"sla_breached"`
	ResolutionRate         float64  `json:"resolution_rate"`
	SLACompliance          float64  `json:"sla_compliance"`
}

// GroupBucket holds the detail rows sharing one dimension value.
type GroupBucket struct {
	Key        string      `json:"key"`
	Count      int         `json:"count"`
	Percentage float64     `json:"percentage"`
	Rows       []TicketRow `json:"rows"`
}

// ReportResult is the structured outcome of one report run.
type ReportResult struct {
	ID           string             `json:"id"`
	Type         ReportType         `json:"type"`
	Title        string             `json:"title"`
	GeneratedAt  time.Time          `json:"generated_at"`
	DateRange    DateRangePreset    `json:"date_range"`
	Window       DateWindow         `json:"window"`
	Display      DisplayOptions     `json:"display"`
	Summary      ReportSummary      `json:"summary,omitempty"`
	Tickets      []TicketRow        `json:"tickets,omitempty"`
	Agents       []AgentPerformance `json:"agents,omitempty"`
	Articles     []KBArticleStat    `json:"articles,omitempty"`
	GroupBy      GroupDimension     `json:"group_by,omitempty"`
	Groups       []GroupBucket      `json:"groups,omitempty"`
	TotalRecords int                `json:"total_records"`
	Unbounded    bool               `json:"unbounded"`
}
