package query

import (
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Condition represents a WHERE clause condition.
type Condition interface {
	// SQL returns the fragment and its arguments. paramIndex is the number of
	// arguments already bound, so the first placeholder is $(paramIndex+1).
	SQL(paramIndex int) (string, []any)
}

type eqCondition struct {
	field string
	value any
}

// Eq creates an equality condition: Eq("id", 3) renders "id = $1".
func Eq(field string, value any) Condition {
	return &eqCondition{field: field, value: value}
}

func (c *eqCondition) SQL(paramIndex int) (string, []any) {
	return fmt.Sprintf("%s = %s", c.field, placeholder(paramIndex)), []any{c.value}
}

type likeCondition struct {
	fields []string
	term   string
}

// Like matches a case-insensitive substring against one or more columns,
// OR-ing the columns together. LIKE wildcards in term are matched literally.
func Like(term string, fields ...string) Condition {
	return &likeCondition{fields: fields, term: term}
}

func (c *likeCondition) SQL(paramIndex int) (string, []any) {
	ph := placeholder(paramIndex)
	parts := make([]string, 0, len(c.fields))
	for _, f := range c.fields {
		parts = append(parts, fmt.Sprintf(`LOWER(%s) LIKE %s ESCAPE '\'`, f, ph))
	}
	fragment := strings.Join(parts, " OR ")
	if len(parts) > 1 {
		fragment = "(" + fragment + ")"
	}
	return fragment, []any{"%" + escapeLike(strings.ToLower(c.term)) + "%"}
}

type anyOfCondition struct {
	field  string
	values []string
}

// AnyOf restricts field to a case-insensitive member of values.
func AnyOf(field string, values []string) Condition {
	return &anyOfCondition{field: field, values: values}
}

func (c *anyOfCondition) SQL(paramIndex int) (string, []any) {
	lowered := make([]string, len(c.values))
	for i, v := range c.values {
		lowered[i] = strings.ToLower(v)
	}
	return fmt.Sprintf("LOWER(%s) = ANY(%s)", c.field, placeholder(paramIndex)), []any{pq.Array(lowered)}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
