// Package mongo is the MongoDB document-store backend.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hejijunhao/sieve/internal/model"
	"github.com/hejijunhao/sieve/internal/store"
)

func init() {
	open := func(ctx context.Context, uri string) (store.Store, error) {
		return Open(ctx, uri)
	}
	store.Register("mongodb", open)
	store.Register("mongodb+srv", open)
}

// Store wraps a connected mongo client.
type Store struct {
	client *mongo.Client
}

// Open connects and pings the deployment behind uri.
func Open(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return &Store{client: client}, nil
}

// Load runs a find with query as the filter.
func (s *Store) Load(ctx context.Context, database, collection string, query model.Document, limit int) ([]model.Document, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.client.Database(database).Collection(collection).Find(ctx, Filter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find: %w", err)
	}

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("mongo: decode: %w", err)
	}
	docs := make([]model.Document, len(raw))
	for i, m := range raw {
		docs[i] = Plain(m)
	}
	return docs, nil
}

// Save inserts docs unordered so one bad document does not stop the rest.
func (s *Store) Save(ctx context.Context, database, collection string, docs []model.Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	batch := make([]any, len(docs))
	for i, d := range docs {
		batch[i] = bson.M(d)
	}
	res, err := s.client.Database(database).Collection(collection).
		InsertMany(ctx, batch, options.InsertMany().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("mongo: insert: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Filter converts an equality query into a bson filter.
func Filter(query model.Document) bson.M {
	f := bson.M{}
	for k, v := range query {
		f[k] = v
	}
	return f
}

// Plain converts a decoded bson document into plain Go maps and slices.
func Plain(m bson.M) model.Document {
	doc := make(model.Document, len(m))
	for k, v := range m {
		doc[k] = plainValue(v)
	}
	return doc
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return map[string]any(Plain(t))
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	}
	return v
}
