package service

import (
	"strconv"
	"strings"

	"github.com/noah-isme/ticket-report-engine/internal/models"
)

// filterBinding attaches a request filter to the clause compiler that
// understands it for one report type.
type filterBinding struct {
	name    string
	compile func(values []string) (models.Condition, bool)
}

// CompilePredicate turns a parsed request into its ordered conjunction of
// conditions: strategy scope, creation window, then one clause per supported
// filter dimension. Values within a dimension are OR-ed.
func CompilePredicate(req *ReportRequest) models.CompiledPredicate {
	if req == nil || req.strategy == nil {
		return models.CompiledPredicate{}
	}

	conditions := append([]models.Condition{}, req.strategy.scopeConditions()...)
	conditions = append(conditions, windowConditions(req.Window)...)

	for _, binding := range req.strategy.filterBindings() {
		values := req.Values(binding.name)
		if len(values) == 0 {
			continue
		}
		if cond, ok := binding.compile(values); ok {
			conditions = append(conditions, cond)
		}
	}

	return models.CompiledPredicate{Conditions: conditions}
}

// windowConditions binds the bounds in UTC. SQLite stores timestamps as text,
// so a bound carrying another offset would compare as the wrong instant.
func windowConditions(window models.DateWindow) []models.Condition {
	from, to := window.From.UTC(), window.To.UTC()
	return []models.Condition{
		{
			SQL:   "t.created_at >= ?",
			Args:  []interface{}{from},
			Match: func(t models.Ticket) bool { return !t.CreatedAt.Before(from) },
		},
		{
			SQL:   "t.created_at < ?",
			Args:  []interface{}{to},
			Match: func(t models.Ticket) bool { return t.CreatedAt.Before(to) },
		},
	}
}

func slaScope() models.Condition {
	return models.Condition{
		SQL:   "t.sla_due_date IS NOT NULL",
		Match: func(t models.Ticket) bool { return t.SLADueDate != nil },
	}
}

func matchNothing() models.Condition {
	return models.Condition{
		SQL:   "1=0",
		Match: func(models.Ticket) bool { return false },
	}
}

func assignedScope() models.Condition {
	return models.Condition{
		SQL:   "t.assigned_to IS NOT NULL",
		Match: func(t models.Ticket) bool { return t.AssignedTo != nil },
	}
}

// compileEntityFilter matches numeric entity ids. A filter with no usable id
// matches nothing rather than every entity.
func compileEntityFilter(values []string) (models.Condition, bool) {
	ids := numericIDs(values)
	if len(ids) == 0 {
		return matchNothing(), true
	}
	return models.Condition{
		SQL:   "t.entity_id IN (?)",
		Args:  []interface{}{ids},
		Match: func(t models.Ticket) bool { return t.EntityID != nil && containsID(ids, *t.EntityID) },
	}, true
}

func compileStatusFilter(values []string) (models.Condition, bool) {
	return stringInCondition("t.status", values, func(t models.Ticket) string { return t.Status })
}

func compilePriorityFilter(values []string) (models.Condition, bool) {
	return stringInCondition("t.priority", values, func(t models.Ticket) string { return t.Priority })
}

func compileSLAStatusFilter(values []string) (models.Condition, bool) {
	return stringInCondition("t.sla_status", values, func(t models.Ticket) string {
		if t.SLAStatus == nil {
			return ""
		}
		return *t.SLAStatus
	})
}

// compileAgentFilter accepts numeric agent ids and the "unassigned" sentinel.
func compileAgentFilter(values []string) (models.Condition, bool) {
	includeUnassigned := false
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		if strings.EqualFold(value, unassignedAgent) {
			includeUnassigned = true
			continue
		}
		if id, err := strconv.ParseInt(value, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}

	match := func(t models.Ticket) bool {
		if t.AssignedTo == nil {
			return includeUnassigned
		}
		return containsID(ids, *t.AssignedTo)
	}

	switch {
	case includeUnassigned && len(ids) > 0:
		return models.Condition{SQL: "(t.assigned_to IS NULL OR t.assigned_to IN (?))", Args: []interface{}{ids}, Match: match}, true
	case includeUnassigned:
		return models.Condition{SQL: "t.assigned_to IS NULL", Match: match}, true
	case len(ids) > 0:
		return models.Condition{SQL: "t.assigned_to IN (?)", Args: []interface{}{ids}, Match: match}, true
	default:
		return models.Condition{}, false
	}
}

// compileAgentIDFilter is the numeric-only agent filter used by the
// performance report, whose universe never contains unassigned tickets.
func compileAgentIDFilter(values []string) (models.Condition, bool) {
	ids := numericIDs(values)
	if len(ids) == 0 {
		return models.Condition{}, false
	}
	return models.Condition{
		SQL:   "t.assigned_to IN (?)",
		Args:  []interface{}{ids},
		Match: func(t models.Ticket) bool { return t.AssignedTo != nil && containsID(ids, *t.AssignedTo) },
	}, true
}

func stringInCondition(column string, values []string, field func(models.Ticket) string) (models.Condition, bool) {
	if len(values) == 0 {
		return models.Condition{}, false
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	args := append([]string(nil), values...)
	return models.Condition{
		SQL:  column + " IN (?)",
		Args: []interface{}{args},
		Match: func(t models.Ticket) bool {
			_, ok := set[field(t)]
			return ok
		},
	}, true
}

func numericIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		if id, err := strconv.ParseInt(value, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
