package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/farmstead/internal/repository"
)

// Collection is a repository.Store over a single MongoDB collection.
// Records are keyed by their `_id` field.
type Collection[T any] struct {
	coll *mongo.Collection
	name string
}

var _ repository.Store[struct{}] = (*Collection[struct{}])(nil)

// NewCollection binds a typed store to the named collection.
func NewCollection[T any](r *MongoDBRepository, name string) *Collection[T] {
	return &Collection[T]{coll: r.collection(name), name: name}
}

// List returns every document in natural order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	cursor, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return out, nil
}

// Get fetches one document by ID.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return out, fmt.Errorf("get %s/%s: %w", c.name, id, repository.ErrNotFound)
	}
	if err != nil {
		return out, fmt.Errorf("get %s/%s: %w", c.name, id, err)
	}
	return out, nil
}

// Save upserts the document stored under id.
func (c *Collection[T]) Save(ctx context.Context, id string, record T) error {
	if id == "" {
		return fmt.Errorf("save %s: empty id", c.name)
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, record, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s/%s: %w", c.name, id, err)
	}
	return nil
}

// Delete removes one document by ID.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s/%s: %w", c.name, id, repository.ErrNotFound)
	}
	return nil
}
