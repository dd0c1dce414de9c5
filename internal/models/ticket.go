package models

import "time"

// Ticket statuses used by the summary formulas.
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

// Ticket priorities counted separately in summaries.
const (
	TicketPriorityCritical = "critical"
	TicketPriorityHigh     = "high"
)

// SLA states recorded on a ticket.
const (
	SLAStatusMet      = "met"
	SLAStatusBreached = "breached"
	SLAStatusWarning  = "warning"
)

// Ticket is a ticket joined with its entity, customer and agent display names.
type Ticket struct {
	ID              int64      `db:"id" json:"id" yaml:"id"`
	TicketNumber    string     `db:"ticket_number" json:"ticket_number" yaml:"ticket_number"`
	Subject         string     `db:"subject" json:"subject" yaml:"subject"`
	Status          string     `db:"status" json:"status" yaml:"status"`
	Priority        string     `db:"priority" json:"priority" yaml:"priority"`
	SLAStatus       *string    `db:"sla_status" json:"sla_status,omitempty" yaml:"sla_status"`
	EntityID        *int64     `db:"entity_id" json:"entity_id,omitempty" yaml:"entity_id"`
	EntityName      *string    `db:"entity_name" json:"entity_name,omitempty" yaml:"-"`
	CustomerID      *int64     `db:"customer_id" json:"customer_id,omitempty" yaml:"customer_id"`
	CustomerName    *string    `db:"customer_name" json:"customer_name,omitempty" yaml:"-"`
	AssignedTo      *int64     `db:"assigned_to" json:"assigned_to,omitempty" yaml:"assigned_to"`
	AgentName       *string    `db:"agent_name" json:"agent_name,omitempty" yaml:"-"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at" yaml:"updated_at"`
	ResolvedAt      *time.Time `db:"resolved_at" json:"resolved_at,omitempty" yaml:"resolved_at"`
	FirstResponseAt *time.Time `db:"first_response_at" json:"first_response_at,omitempty" yaml:"first_response_at"`
	SLADueDate      *time.Time `db:"sla_due_date" json:"sla_due_date,omitempty" yaml:"sla_due_date"`
}

// Agent is a user allowed to own tickets.
type Agent struct {
	ID          int64  `db:"id" json:"id" yaml:"id"`
	DisplayName string `db:"display_name" json:"display_name" yaml:"display_name"`
	Role        string `db:"role" json:"role" yaml:"role"`
}

// Entity is a tenant tickets are filed under.
type Entity struct {
	ID     int64  `db:"id" json:"id" yaml:"id"`
	Name   string `db:"name" json:"name" yaml:"name"`
	Status string `db:"status" json:"status" yaml:"status"`
}

// ReportOptions feeds filter pickers.
type ReportOptions struct {
	Agents   []Agent  `json:"agents"`
	Entities []Entity `json:"entities"`
}
