package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ticket-report-engine/internal/models"
)

// TicketQuery selects tickets for a report run.
type TicketQuery struct {
	Predicate models.CompiledPredicate
	Sort      models.SortSpec
}

var ticketSortColumns = map[string]string{
	"created_at":   "t.created_at",
	"updated_at":   "t.updated_at",
	"resolved_at":  "t.resolved_at",
	"priority":     "t.priority",
	"status":       "t.status",
	"sla_due_date": "t.sla_due_date",
}

const ticketSelect = `SELECT t.id, t.ticket_number, t.subject, t.status, t.priority, t.sla_status,
        t.entity_id, e.name AS entity_name,
        t.customer_id, c.display_name AS customer_name,
        t.assigned_to, a.display_name AS agent_name,
        t.created_at, t.updated_at, t.resolved_at, t.first_response_at, t.sla_due_date
        FROM tickets t
        LEFT JOIN entities e ON e.id = t.entity_id
        LEFT JOIN users c ON c.id = t.customer_id
        LEFT JOIN users a ON a.id = t.assigned_to`

// TicketRepository reads tickets joined with their display names.
type TicketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// StreamTickets runs the query and hands each matching ticket to fn in order.
// Iteration stops at the first error returned by fn.
func (r *TicketRepository) StreamTickets(ctx context.Context, query TicketQuery, fn func(models.Ticket) error) error {
	sqlText, args, err := r.buildQuery(query)
	if err != nil {
		return err
	}

	rows, err := r.db.QueryxContext(ctx, sqlText, args...)
	if err != nil {
		return fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ticket models.Ticket
		if err := rows.StructScan(&ticket); err != nil {
			return fmt.Errorf("scan ticket: %w", err)
		}
		if err := fn(ticket); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate tickets: %w", err)
	}
	return nil
}

func (r *TicketRepository) buildQuery(query TicketQuery) (string, []interface{}, error) {
	where, args := query.Predicate.Where()

	var builder strings.Builder
	builder.WriteString(ticketSelect)
	builder.WriteString(" WHERE ")
	builder.WriteString(where)
	builder.WriteString(" ORDER BY ")
	builder.WriteString(orderClause(query.Sort))

	expanded, expandedArgs, err := sqlx.In(builder.String(), args...)
	if err != nil {
		return "", nil, fmt.Errorf("expand ticket filters: %w", err)
	}
	return r.db.Rebind(expanded), expandedArgs, nil
}

func orderClause(sort models.SortSpec) string {
	column, ok := ticketSortColumns[sort.Field]
	if !ok {
		column = ticketSortColumns["created_at"]
	}
	order := string(models.SortDesc)
	if sort.Order == models.SortAsc {
		order = string(models.SortAsc)
	}
	return column + " " + order + ", t.id " + order
}
