package output

import (
	"context"

	"github.com/hejijunhao/sieve/internal/model"
)

// Output defines the interface for curated-document destinations.
type Output interface {
	Write(ctx context.Context, docs []model.Document) error
	Close() error
}
