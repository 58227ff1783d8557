// Package store is the document-store boundary: it loads raw snippet
// documents and saves curated ones, selecting a backend by URI scheme.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hejijunhao/sieve/internal/model"
)

// Store is implemented by every document-store backend.
type Store interface {
	// Load returns documents of collection matching every field of query by
	// equality. limit <= 0 means unbounded.
	Load(ctx context.Context, database, collection string, query model.Document, limit int) ([]model.Document, error)

	// Save inserts docs and returns the number written. It never updates or
	// deletes existing documents.
	Save(ctx context.Context, database, collection string, docs []model.Document) (int, error)

	Close(ctx context.Context) error
}

// Constructor opens a Store for uri.
type Constructor func(ctx context.Context, uri string) (Store, error)

// ErrInvalidURI is returned by Open for a URI without a scheme.
var ErrInvalidURI = errors.New("invalid store uri")

var registry = map[string]Constructor{}

// Register adds a backend constructor under a URI scheme.
func Register(scheme string, ctor Constructor) {
	registry[strings.ToLower(scheme)] = ctor
}

// Get returns the backend constructor registered for scheme.
func Get(scheme string) (Constructor, error) {
	ctor, ok := registry[strings.ToLower(scheme)]
	if !ok {
		return nil, fmt.Errorf("unknown store scheme: %s", scheme)
	}
	return ctor, nil
}

// Schemes returns the registered URI schemes, sorted.
func Schemes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scheme extracts the scheme of uri.
func Scheme(uri string) (string, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" || rest == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	return strings.ToLower(scheme), nil
}

// Open connects to the backend selected by uri's scheme.
func Open(ctx context.Context, uri string) (Store, error) {
	scheme, err := Scheme(uri)
	if err != nil {
		return nil, err
	}
	ctor, err := Get(scheme)
	if err != nil {
		return nil, err
	}
	return ctor(ctx, uri)
}
