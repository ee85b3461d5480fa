package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

type orderTerm struct {
	column string
	dir    Direction
}

// Builder constructs PostgreSQL SELECT statements. Every method returns a
// new Builder, so a base query can be narrowed in several directions.
// Placeholders are numbered ($1, $2, ...) at Build time.
type Builder struct {
	table        string
	selectCols   []string
	whereClauses []Condition
	order        []orderTerm
	limitVal     int64
	offsetVal    int64
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select appends columns to the projection.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.selectCols = append(nb.selectCols, columns...)
	return nb
}

// Where adds a condition. Multiple calls are combined with AND.
func (b *Builder) Where(condition Condition) *Builder {
	nb := b.clone()
	nb.whereClauses = append(nb.whereClauses, condition)
	return nb
}

// OrderBy replaces the ordering with a single column.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.order = []orderTerm{{column: column, dir: direction}}
	return nb
}

// ThenBy appends a secondary ordering column.
func (b *Builder) ThenBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.order = append(nb.order, orderTerm{column: column, dir: direction})
	return nb
}

func (b *Builder) Limit(limit int64) *Builder {
	nb := b.clone()
	nb.limitVal = limit
	return nb
}

func (b *Builder) Offset(offset int64) *Builder {
	nb := b.clone()
	nb.offsetVal = offset
	return nb
}

// Count returns a COUNT(*) query with the same FROM and WHERE clauses and no
// ordering or pagination.
func (b *Builder) Count() *Builder {
	nb := b.clone()
	nb.selectCols = []string{"COUNT(*)"}
	nb.order = nil
	nb.limitVal = 0
	nb.offsetVal = 0
	return nb
}

// Build renders the SQL text and its positional arguments.
func (b *Builder) Build() (string, []any) {
	var sql strings.Builder
	var args []any

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.whereClauses) > 0 {
		parts := make([]string, 0, len(b.whereClauses))
		for _, condition := range b.whereClauses {
			fragment, condArgs := condition.SQL(len(args))
			parts = append(parts, fragment)
			args = append(args, condArgs...)
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.order) > 0 {
		terms := make([]string, 0, len(b.order))
		for _, o := range b.order {
			if o.dir == Desc {
				terms = append(terms, o.column+" DESC")
			} else {
				terms = append(terms, o.column+" ASC")
			}
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(terms, ", "))
	}

	if b.limitVal > 0 {
		args = append(args, b.limitVal)
		sql.WriteString(" LIMIT " + placeholder(len(args)-1))
	}

	if b.offsetVal > 0 {
		args = append(args, b.offsetVal)
		sql.WriteString(" OFFSET " + placeholder(len(args)-1))
	}

	return sql.String(), args
}

func (b *Builder) clone() *Builder {
	nb := &Builder{
		table:        b.table,
		selectCols:   make([]string, len(b.selectCols)),
		whereClauses: make([]Condition, len(b.whereClauses)),
		order:        make([]orderTerm, len(b.order)),
		limitVal:     b.limitVal,
		offsetVal:    b.offsetVal,
	}
	copy(nb.selectCols, b.selectCols)
	copy(nb.whereClauses, b.whereClauses)
	copy(nb.order, b.order)
	return nb
}

// String returns a human-readable representation for debugging.
func (b *Builder) String() string {
	sql, args := b.Build()
	return fmt.Sprintf("SQL: %s\nArgs: %v", sql, args)
}

// placeholder converts a zero-based argument index to $n.
func placeholder(index int) string {
	return "$" + strconv.Itoa(index+1)
}
