package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

var allowedOperators = map[string]bool{
	"=": true, "!=": true, "<>": true,
	"<": true, "<=": true, ">": true, ">=": true,
	"LIKE": true, "ILIKE": true,
}

// QueryBuilder provides a fluent, type-safe API on top of bun for the common
// select, update and delete shapes. Anything more involved uses bun directly.
type QueryBuilder[T any] struct {
	db bun.IDB

	wheres    []whereClause
	orders    []orderClause
	relations []relation
	columns   []string
	limitVal  int
	offsetVal int
	timeout   time.Duration
}

type whereClause struct {
	sql  string
	args []any
}

type orderClause struct {
	column    string
	direction OrderDirection
}

type relation struct {
	name  string
	apply []func(*bun.SelectQuery) *bun.SelectQuery
}

// Query creates a new QueryBuilder against a database handle or a transaction
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where adds an equality condition
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a comparison condition. Unknown operators panic since they are
// always a programming error.
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	op := strings.ToUpper(strings.TrimSpace(operator))
	if !allowedOperators[op] {
		panic(fmt.Sprintf("database: unsupported operator %q", operator))
	}
	q.wheres = append(q.wheres, whereClause{
		sql:  "? " + op + " ?",
		args: []any{bun.Ident(column), value},
	})
	return q
}

// WhereSearch adds a case-insensitive substring match over one or more columns
func (q *QueryBuilder[T]) WhereSearch(term string, columns ...string) *QueryBuilder[T] {
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)*2)
	for _, c := range columns {
		parts = append(parts, "? ILIKE ?")
		args = append(args, bun.Ident(c), pattern)
	}
	q.wheres = append(q.wheres, whereClause{sql: "(" + strings.Join(parts, " OR ") + ")", args: args})
	return q
}

func (q *QueryBuilder[T]) Select(columns ...string) *QueryBuilder[T] {
	q.columns = append(q.columns, columns...)
	return q
}

func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	if direction != ASC && direction != DESC {
		direction = ASC
	}
	q.orders = append(q.orders, orderClause{column: column, direction: direction})
	return q
}

func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = limit
	return q
}

func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = offset
	return q
}

// With preloads a relation declared on the model, optionally shaping its query
func (q *QueryBuilder[T]) With(name string, apply ...func(*bun.SelectQuery) *bun.SelectQuery) *QueryBuilder[T] {
	q.relations = append(q.relations, relation{name: name, apply: apply})
	return q
}

// Timeout bounds every statement the builder executes
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// buildSelect renders the builder state onto a bun select for model
func (q *QueryBuilder[T]) buildSelect(model any, withRelations bool) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	for _, c := range q.columns {
		query = query.Column(c)
	}
	for _, rel := range q.relations {
		if !withRelations {
			break
		}
		if len(rel.apply) == 0 {
			query = query.Relation(rel.name)
			continue
		}
		query = query.Relation(rel.name, rel.apply...)
	}
	for _, w := range q.wheres {
		query = query.Where(w.sql, w.args...)
	}
	for _, o := range q.orders {
		query = query.OrderExpr("? "+string(o.direction), bun.Ident(o.column))
	}
	if q.limitVal > 0 {
		query = query.Limit(q.limitVal)
	}
	if q.offsetVal > 0 {
		query = query.Offset(q.offsetVal)
	}
	return query
}

func (q *QueryBuilder[T]) applyWheresToDelete(query *bun.DeleteQuery) *bun.DeleteQuery {
	for _, w := range q.wheres {
		query = query.Where(w.sql, w.args...)
	}
	return query
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
