package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
)

// schemaColumn requires a valid identifier that is also a member of the fixed
// fact-table schema. Only allow-listed columns are ever interpolated.
func schemaColumn(name string) (string, error) {
	if err := domain.ValidateIdentifier(name); err != nil {
		return "", err
	}
	for _, col := range domain.SchemaColumns {
		if col == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("column %q is not in the fact-table schema", name)
}

// query is a small clause AST rendered to deterministic text. Literal values
// never enter the AST; conditions reference named placeholders whose values
// live in params.
type query struct {
	selects []selectExpr
	table   string
	where   []string
	groupBy []string
	orderBy []orderTerm
	limit   int
}

type selectExpr struct {
	expr  string
	alias string
}

type orderTerm struct {
	expr string
	desc bool
}

func (q *query) render() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	for i, s := range q.selects {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.expr)
		if s.alias != "" {
			b.WriteString(" AS ")
			b.WriteString(s.alias)
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(q.table)
	if len(q.where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.where, " AND "))
	}
	if len(q.groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(q.groupBy, ", "))
	}
	if len(q.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range q.orderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(o.expr)
			if o.desc {
				b.WriteString(" DESC")
			}
		}
	}
	if q.limit > 0 {
		// The limit is an internally validated positive integer, not user
		// text, so it renders as a literal.
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.limit))
	}
	return b.String()
}

// conditions renders just the WHERE conjunction, for use inside CTE bodies.
func conditions(where []string) string {
	return strings.Join(where, " AND ")
}
