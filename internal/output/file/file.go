package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/hejijunhao/sieve/internal/model"
	"github.com/hejijunhao/sieve/internal/output"
)

// DefaultChunkSize is the number of documents written per write+sync.
const DefaultChunkSize = 1000

// Option configures a file Output.
type Option func(*Output)

// WithChunkSize sets the number of documents per chunk. Values <= 0 keep
// the default.
func WithChunkSize(n int) Option {
	return func(o *Output) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// Output appends NDJSON to a file in chunks. Each chunk is encoded into one
// buffer and committed with a single write followed by a sync. The file is
// created lazily on the first non-empty chunk and never truncated.
type Output struct {
	mu        sync.Mutex
	f         *os.File
	path      string
	chunkSize int
	written   int
}

// New creates a file output for path. Nothing is created on disk until the
// first document is written.
func New(path string, opts ...Option) *Output {
	o := &Output{path: path, chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write appends docs chunk by chunk. A failed chunk leaves earlier chunks
// on disk and aborts the rest.
func (o *Output) Write(ctx context.Context, docs []model.Document) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, chunk := range output.Chunks(docs, o.chunkSize) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("file output: %w", err)
		}
		buf, err := encode(chunk)
		if err != nil {
			return err
		}
		if err := o.open(); err != nil {
			return err
		}
		if _, err := o.f.Write(buf); err != nil {
			return fmt.Errorf("file output: write: %w", err)
		}
		if err := o.f.Sync(); err != nil {
			return fmt.Errorf("file output: sync: %w", err)
		}
		o.written += len(chunk)
	}
	return nil
}

// Written returns the number of documents committed so far.
func (o *Output) Written() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.written
}

// Close closes the file if it was opened.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.f == nil {
		return nil
	}
	err := o.f.Close()
	o.f = nil
	return err
}

func (o *Output) open() error {
	if o.f != nil {
		return nil
	}
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("file output: open %s: %w", o.path, err)
	}
	o.f = f
	return nil
}

// encode renders docs as NDJSON with non-ASCII and HTML characters kept
// verbatim.
func encode(docs []model.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return nil, fmt.Errorf("file output: marshal: %w", err)
		}
	}
	return buf.Bytes(), nil
}
