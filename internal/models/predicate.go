package models

import "strings"

// Condition is one AND-ed fragment of a ticket predicate. SQL only uses ?
// placeholders; slice args are expanded by sqlx.In. Match evaluates the same
// condition in memory.
type Condition struct {
	SQL   string
	Args  []interface{}
	Match func(Ticket) bool
}

// CompiledPredicate is the ordered conjunction of conditions for a report.
type CompiledPredicate struct {
	Conditions []Condition
}

// Where joins the conditions into a WHERE body and its ordered args.
func (p CompiledPredicate) Where() (string, []interface{}) {
	if len(p.Conditions) == 0 {
		return "1=1", nil
	}
	parts := make([]string, 0, len(p.Conditions))
	args := make([]interface{}, 0, len(p.Conditions))
	for _, cond := range p.Conditions {
		parts = append(parts, cond.SQL)
		args = append(args, cond.Args...)
	}
	return strings.Join(parts, " AND "), args
}

// Matches reports whether t satisfies every condition.
func (p CompiledPredicate) Matches(t Ticket) bool {
	for _, cond := range p.Conditions {
		if cond.Match != nil && !cond.Match(t) {
			return false
		}
	}
	return true
}
