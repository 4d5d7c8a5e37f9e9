// Package query is a small typed filter language understood by every entity
// store: each condition is either field equality or membership in a set.
package query

import (
	"context"
	"errors"
)

var (
	ErrEmptyField = errors.New("query: field name required")
	// ErrConflict is returned by writes that lost to a concurrent one: a unique
	// key already taken or a guard the stored record no longer matches.
	ErrConflict = errors.New("query: write conflict")
)

type Op int

const (
	OpEq Op = iota
	OpIn
	OpLt
)

// Condition constrains a single field.
type Condition struct {
	Field  string
	Op     Op
	Values []any
}

// Sort orders results by one field.
type Sort struct {
	Field string
	Desc  bool
}

// Query is an immutable conjunction of conditions with optional ordering and limit.
type Query struct {
	Conditions []Condition
	Sort       *Sort
	Max        int
}

// Where starts an empty query.
func Where() Query { return Query{} }

// Eq adds field == value.
func (q Query) Eq(field string, value any) Query {
	return q.with(Condition{Field: field, Op: OpEq, Values: []any{value}})
}

// In adds field IN values. An empty value set matches nothing.
func (q Query) In(field string, values ...any) Query {
	return q.with(Condition{Field: field, Op: OpIn, Values: append([]any(nil), values...)})
}

// Lt adds field < value. Records without the field never match.
func (q Query) Lt(field string, value any) Query {
	return q.with(Condition{Field: field, Op: OpLt, Values: []any{value}})
}

// InStrings is In for string sets.
func (q Query) InStrings(field string, values ...string) Query {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return q.In(field, vs...)
}

func (q Query) SortBy(field string, desc bool) Query {
	q.Conditions = append([]Condition(nil), q.Conditions...)
	q.Sort = &Sort{Field: field, Desc: desc}
	return q
}

func (q Query) Limit(n int) Query {
	q.Conditions = append([]Condition(nil), q.Conditions...)
	q.Max = n
	return q
}

// Validate reports malformed conditions.
func (q Query) Validate() error {
	for _, c := range q.Conditions {
		if c.Field == "" {
			return ErrEmptyField
		}
	}
	if q.Sort != nil && q.Sort.Field == "" {
		return ErrEmptyField
	}
	return nil
}

func (q Query) with(c Condition) Query {
	conds := make([]Condition, 0, len(q.Conditions)+1)
	conds = append(conds, q.Conditions...)
	q.Conditions = append(conds, c)
	return q
}

// Finder is the read side of an entity collection.
type Finder[T any] interface {
	Filter(ctx context.Context, q Query) ([]T, error)
}

// Creator is the insert side of an entity collection.
type Creator[T any] interface {
	Create(ctx context.Context, item T) error
}

// Updater replaces the stored record with the same id.
type Updater[T any] interface {
	Update(ctx context.Context, id string, item T) error
}

// GuardedUpdater replaces the record with id only while it still matches
// guard, returning ErrConflict otherwise.
type GuardedUpdater[T any] interface {
	UpdateIf(ctx context.Context, id string, guard Query, item T) error
}

// Collection combines the read and write sides.
type Collection[T any] interface {
	Finder[T]
	Creator[T]
	Updater[T]
	GuardedUpdater[T]
}

// First returns the first match of q, ok false when nothing matched.
func First[T any](ctx context.Context, f Finder[T], q Query) (item T, ok bool, err error) {
	items, err := f.Filter(ctx, q.Limit(1))
	if err != nil || len(items) == 0 {
		return item, false, err
	}
	return items[0], true, nil
}

// ByID is the equality query on the primary key.
func ByID(id string) Query {
	return Where().Eq("_id", id)
}
