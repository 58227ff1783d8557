// Package docstore writes curated documents to a document-store collection
// through the store boundary.
package docstore

import (
	"context"
	"sync"

	"github.com/hejijunhao/sieve/internal/model"
	"github.com/hejijunhao/sieve/internal/store"
)

// Output inserts every batch into one collection. Store failures are
// logged by the boundary and never returned, so a down database does not
// stop the file sinks of the same run.
type Output struct {
	mu         sync.Mutex
	uri        string
	database   string
	collection string
	saved      int
}

// New creates an Output for uri/database/collection.
func New(uri, database, collection string) *Output {
	return &Output{uri: uri, database: database, collection: collection}
}

func (o *Output) Write(ctx context.Context, docs []model.Document) error {
	n := store.Save(ctx, docs, o.uri, o.database, o.collection)
	o.mu.Lock()
	o.saved += n
	o.mu.Unlock()
	return nil
}

// Saved returns the number of documents inserted so far.
func (o *Output) Saved() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.saved
}

func (o *Output) Close() error {
	return nil
}
