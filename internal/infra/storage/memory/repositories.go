package memory

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"enablers/internal/domain/shared/query"
)

var (
	// ErrNotFound is returned when an update targets a missing record.
	ErrNotFound = errors.New("memory: record not found")
	// ErrDuplicate is returned when a record with the same id already exists.
	ErrDuplicate = errors.New("memory: duplicate id")
)

// Collection is an in-memory query.Collection. Records are matched on their
// bson field names so queries behave the same as against mongo.
type Collection[T any] struct {
	mu    sync.RWMutex
	idOf  func(T) string
	order []string
	items map[string]T

	// keyOf names a secondary unique key; empty keys are not indexed.
	keyOf  func(T) string
	owners map[string]string
}

// NewCollection builds an empty collection keyed by idOf.
func NewCollection[T any](idOf func(T) string) *Collection[T] {
	return &Collection[T]{idOf: idOf, items: make(map[string]T)}
}

// WithUnique enforces that no two records share a non-empty keyOf value,
// like a sparse unique index.
func (c *Collection[T]) WithUnique(keyOf func(T) string) *Collection[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyOf = keyOf
	c.owners = make(map[string]string, len(c.items))
	for id, item := range c.items {
		if key := keyOf(item); key != "" {
			c.owners[key] = id
		}
	}
	return c
}

func (c *Collection[T]) Create(ctx context.Context, item T) error {
	id := c.idOf(item)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	if err := c.claim(id, item); err != nil {
		return err
	}
	c.items[id] = item
	c.order = append(c.order, id)
	return nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, item T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.replace(id, item)
}

// UpdateIf replaces the record only while it still matches guard.
func (c *Collection[T]) UpdateIf(ctx context.Context, id string, guard query.Query, item T) error {
	if err := guard.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	doc, err := document(current)
	if err != nil {
		return err
	}
	if !matches(doc, guard.Conditions) {
		return fmt.Errorf("%w: %s changed", query.ErrConflict, id)
	}
	return c.replace(id, item)
}

func (c *Collection[T]) replace(id string, item T) error {
	current, ok := c.items[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := c.claim(id, item); err != nil {
		return err
	}
	if c.keyOf != nil {
		if old, next := c.keyOf(current), c.keyOf(item); old != "" && old != next {
			delete(c.owners, old)
		}
	}
	c.items[id] = item
	return nil
}

// claim takes item's unique key for id. Callers hold mu.
func (c *Collection[T]) claim(id string, item T) error {
	if c.keyOf == nil {
		return nil
	}
	key := c.keyOf(item)
	if key == "" {
		return nil
	}
	if owner, taken := c.owners[key]; taken && owner != id {
		return fmt.Errorf("%w: %w: key %s held by %s", ErrDuplicate, query.ErrConflict, key, owner)
	}
	c.owners[key] = id
	return nil
}

// Filter returns the matching records in insertion order unless q sorts.
func (c *Collection[T]) Filter(ctx context.Context, q query.Query) ([]T, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	type row struct {
		item T
		doc  bson.M
	}
	var rows []row
	for _, id := range c.order {
		item := c.items[id]
		doc, err := document(item)
		if err != nil {
			return nil, err
		}
		if matches(doc, q.Conditions) {
			rows = append(rows, row{item: item, doc: doc})
		}
	}
	if s := q.Sort; s != nil {
		slices.SortStableFunc(rows, func(a, b row) int {
			r := compare(a.doc[s.Field], b.doc[s.Field])
			if s.Desc {
				return -r
			}
			return r
		})
	}
	if q.Max > 0 && len(rows) > q.Max {
		rows = rows[:q.Max]
	}
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out, nil
}

// Len reports how many records are stored.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func document(item any) (bson.M, error) {
	raw, err := bson.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("memory: encode record: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("memory: decode record: %w", err)
	}
	return doc, nil
}

func matches(doc bson.M, conds []query.Condition) bool {
	for _, c := range conds {
		got, ok := doc[c.Field]
		if !ok {
			return false
		}
		switch c.Op {
		case query.OpLt:
			if len(c.Values) == 0 || !sameKind(got, c.Values[0]) || compare(got, c.Values[0]) >= 0 {
				return false
			}
		default:
			if !slices.ContainsFunc(c.Values, func(want any) bool { return equal(got, want) }) {
				return false
			}
		}
	}
	return true
}

func equal(a, b any) bool {
	return normalize(a) == normalize(b)
}

// normalize folds named string and numeric kinds so a typed status compares
// equal to the plain string stored in the document.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	if t, ok := v.(time.Time); ok {
		// Documents hold times as millisecond DateTime values.
		return float64(t.UnixMilli())
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	}
	if rv.Comparable() {
		return v
	}
	return fmt.Sprint(v)
}

// sameKind reports whether a and b order as the same kind of value.
func sameKind(a, b any) bool {
	switch normalize(a).(type) {
	case string:
		_, ok := normalize(b).(string)
		return ok
	case float64:
		_, ok := normalize(b).(float64)
		return ok
	}
	return false
}

func compare(a, b any) int {
	na, nb := normalize(a), normalize(b)
	switch x := na.(type) {
	case string:
		if y, ok := nb.(string); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := nb.(float64); ok {
			return cmp.Compare(x, y)
		}
	}
	return cmp.Compare(fmt.Sprint(na), fmt.Sprint(nb))
}
