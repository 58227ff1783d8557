package store

import (
	"context"
	"log/slog"

	"github.com/hejijunhao/sieve/internal/model"
)

// Load reads up to limit documents from collection. It never returns an
// error: an invalid URI, unknown scheme, connection failure or query
// failure is logged and yields an empty result. The store identity field
// is dropped from every document. Diagnostics go to the logger carried by
// ctx (see WithLogger).
func Load(ctx context.Context, uri, database, collection string, query model.Document, limit int) []model.Document {
	log := loggerFrom(ctx).With("stage", "load", "database", database, "collection", collection)

	s, err := Open(ctx, uri)
	if err != nil {
		log.Error("store unavailable, loading nothing", "error", err)
		return []model.Document{}
	}
	defer closeQuietly(ctx, s, log)

	docs, err := s.Load(ctx, database, collection, query, limit)
	if err != nil {
		log.Error("load failed, loading nothing", "error", err)
		return []model.Document{}
	}
	for _, d := range docs {
		delete(d, model.IdentityKey)
	}
	if len(docs) == 0 {
		log.Warn("no documents matched")
		return []model.Document{}
	}
	log.Info("documents loaded", "count", len(docs))
	return docs
}

// Save inserts docs into collection and returns the number written. Empty
// input is a no-op. Identity fields are stripped and NaN or infinite
// numbers become null before writing. Failures are logged and yield 0.
func Save(ctx context.Context, docs []model.Document, uri, database, collection string) int {
	if len(docs) == 0 {
		return 0
	}
	log := loggerFrom(ctx).With("stage", "save", "database", database, "collection", collection)

	s, err := Open(ctx, uri)
	if err != nil {
		log.Error("store unavailable, nothing saved", "error", err, "count", len(docs))
		return 0
	}
	defer closeQuietly(ctx, s, log)

	clean := make([]model.Document, len(docs))
	for i, d := range docs {
		clean[i] = SanitizeDocument(d)
		delete(clean[i], model.IdentityKey)
	}

	n, err := s.Save(ctx, database, collection, clean)
	if err != nil {
		log.Error("save failed", "error", err, "count", len(docs))
		return 0
	}
	log.Info("documents saved", "count", n)
	return n
}

func closeQuietly(ctx context.Context, s Store, log *slog.Logger) {
	if err := s.Close(ctx); err != nil {
		log.Warn("store close failed", "error", err)
	}
}
