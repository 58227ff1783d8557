package pipeline

import (
	"github.com/hejijunhao/sieve/internal/logging"
	"github.com/hejijunhao/sieve/internal/output"
	"github.com/hejijunhao/sieve/internal/output/docstore"
	"github.com/hejijunhao/sieve/internal/output/file"
	"github.com/hejijunhao/sieve/internal/output/multi"
	"github.com/hejijunhao/sieve/internal/output/stdout"
)

// SinkSpec describes one partition destination: a document-store
// collection plus an NDJSON export.
type SinkSpec struct {
	URI        string
	Database   string
	Collection string
	Path       string // "-" for stdout, "" to skip the file export
	ChunkSize  int
}

// NewSink builds the fan-out for spec. The collection is written first.
func NewSink(spec SinkSpec) *multi.Multi {
	var outs []output.Output
	if spec.URI != "" && spec.Collection != "" {
		outs = append(outs, docstore.New(spec.URI, spec.Database, spec.Collection))
	}
	switch spec.Path {
	case "":
	case logging.StdoutPath:
		outs = append(outs, stdout.New(false))
	default:
		outs = append(outs, file.New(spec.Path, file.WithChunkSize(spec.ChunkSize)))
	}
	return multi.New(outs...)
}
