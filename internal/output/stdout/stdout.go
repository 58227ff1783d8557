package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hejijunhao/sieve/internal/model"
)

// Output writes JSON-encoded documents to stdout, one per line.
type Output struct {
	enc *json.Encoder
}

// New creates a stdout Output, optionally pretty-printed.
func New(pretty bool) *Output {
	return NewWriter(os.Stdout, pretty)
}

// NewWriter creates an Output that writes to w instead of stdout.
func NewWriter(w io.Writer, pretty bool) *Output {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc}
}

func (o *Output) Write(ctx context.Context, docs []model.Document) error {
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
		if err := o.enc.Encode(d); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
