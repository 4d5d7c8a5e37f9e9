package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"enablers/internal/domain/shared/query"
)

var (
	ErrNotFound  = errors.New("mongo: record not found")
	ErrDuplicate = errors.New("mongo: duplicate id")
)

// Collection is a query.Collection over one mongo collection. T must carry
// bson tags with an _id field.
type Collection[T any] struct {
	col *mongo.Collection
}

func NewCollection[T any](db *mongo.Database, name string) *Collection[T] {
	return &Collection[T]{col: db.Collection(name)}
}

func (c *Collection[T]) Filter(ctx context.Context, q query.Query) ([]T, error) {
	filter, opts, err := translate(q)
	if err != nil {
		return nil, err
	}
	cur, err := c.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find %s: %w", c.col.Name(), err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo: decode %s: %w", c.col.Name(), err)
	}
	return out, nil
}

func (c *Collection[T]) Create(ctx context.Context, item T) error {
	if _, err := c.col.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %w", ErrDuplicate, query.ErrConflict)
		}
		return err
	}
	return nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, item T) error {
	res, err := c.col.ReplaceOne(ctx, bson.M{"_id": id}, item)
	if err != nil {
		return replaceErr(err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// UpdateIf replaces the document only while it still matches guard, in one
// round trip.
func (c *Collection[T]) UpdateIf(ctx context.Context, id string, guard query.Query, item T) error {
	filter, _, err := translate(guard)
	if err != nil {
		return err
	}
	filter = append(bson.D{{Key: "_id", Value: id}}, filter...)
	res, err := c.col.ReplaceOne(ctx, filter, item)
	if err != nil {
		return replaceErr(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := c.col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("mongo: count %s: %w", c.col.Name(), err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return fmt.Errorf("%w: %s changed", query.ErrConflict, id)
}

func replaceErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrDuplicate, query.ErrConflict)
	}
	return err
}

// translate turns q into a mongo filter. Equality becomes a plain field match,
// set membership becomes $in and Lt becomes $lt.
func translate(q query.Query) (bson.D, *options.FindOptions, error) {
	if err := q.Validate(); err != nil {
		return nil, nil, err
	}
	filter := bson.D{}
	for _, c := range q.Conditions {
		switch c.Op {
		case query.OpEq:
			var v any
			if len(c.Values) > 0 {
				v = c.Values[0]
			}
			filter = append(filter, bson.E{Key: c.Field, Value: v})
		case query.OpIn:
			values := bson.A{}
			values = append(values, c.Values...)
			filter = append(filter, bson.E{Key: c.Field, Value: bson.M{"$in": values}})
		case query.OpLt:
			if len(c.Values) == 0 {
				return nil, nil, fmt.Errorf("mongo: $lt on %s needs a value", c.Field)
			}
			filter = append(filter, bson.E{Key: c.Field, Value: bson.M{"$lt": c.Values[0]}})
		default:
			return nil, nil, fmt.Errorf("mongo: unsupported op %d on %s", c.Op, c.Field)
		}
	}
	opts := options.Find()
	if q.Sort != nil {
		dir := 1
		if q.Sort.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.Sort.Field, Value: dir}})
	}
	if q.Max > 0 {
		opts.SetLimit(int64(q.Max))
	}
	return filter, opts, nil
}

func bsonKeys(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return keys
}
