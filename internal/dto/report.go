package dto

// ReportRequest is the raw report builder input as submitted by a form, JSON
// client or CLI. Values are normalised by service.ParseReportRequest.
type ReportRequest struct {
	ReportType      string   `json:"report_type" form:"report_type" validate:"required,oneof=tickets sla agent knowledgebase"`
	DateRange       string   `json:"date_range" form:"date_range" validate:"omitempty,oneof=today yesterday last_7_days last_30_days last_90_days custom"`
	DateFrom        string   `json:"date_from" form:"date_from" validate:"required_if=DateRange custom"`
	DateTo          string   `json:"date_to" form:"date_to" validate:"required_if=DateRange custom"`
	FilterEntityID  []string `json:"filter_entity_id" form:"filter_entity_id[]"`
	FilterStatus    []string `json:"filter_status" form:"filter_status[]"`
	FilterPriority  []string `json:"filter_priority" form:"filter_priority[]"`
	FilterAgentID   []string `json:"filter_agent_id" form:"filter_agent_id[]"`
	FilterSLAStatus []string `json:"filter_sla_status" form:"filter_sla_status[]"`
	GroupBy         string   `json:"group_by" form:"group_by"`
	SortBy          string   `json:"sort_by" form:"sort_by"`
	SortOrder       string   `json:"sort_order" form:"sort_order"`
	Limit           string   `json:"limit" form:"limit"`
	KBMetric        string   `json:"kb_metric" form:"kb_metric"`
	ShowSummary     *bool    `json:"show_summary" form:"show_summary"`
	ShowCharts      *bool    `json:"show_charts" form:"show_charts"`
	ShowDetails     *bool    `json:"show_details" form:"show_details"`
}

// ExportRequest wraps a report request with the desired output format.
type ExportRequest struct {
	Format  string        `json:"format" form:"format" validate:"required"`
	Request ReportRequest `json:"request"`
}
