package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/hejijunhao/sieve/internal/model"
	"github.com/hejijunhao/sieve/internal/output"
)

// Multi fans a document batch out to several sinks, in order. A failing
// sink does not stop delivery to the rest.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over outputs. Nil entries are skipped.
func New(outputs ...output.Output) *Multi {
	m := &Multi{}
	for _, o := range outputs {
		if o != nil {
			m.outputs = append(m.outputs, o)
		}
	}
	return m
}

// Len returns the number of wrapped sinks.
func (m *Multi) Len() int { return len(m.outputs) }

// Write delivers docs to every sink and joins their errors, each tagged
// with the sink's position.
func (m *Multi) Write(ctx context.Context, docs []model.Document) error {
	var errs []error
	for i, o := range m.outputs {
		if err := o.Write(ctx, docs); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for i, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
