package output

import (
	"github.com/hejijunhao/sieve/internal/model"
)

// Export field names that are not metric columns.
const (
	FieldLabel         = "label"
	FieldPartition     = "partition"
	FieldRecordID      = "record_id"
	FieldRejectReasons = "reject_reasons"

	FieldOriginalContentLength = "original_content_length"
)

// Document flattens an enriched record into its export shape: pass-through
// metadata, content, every metric column and the classification fields.
// Anomaly scoring marks are not exported.
func Document(e model.Enriched) model.Document {
	doc := make(model.Document, len(e.Meta)+18)
	for k, v := range e.Meta {
		doc[k] = v
	}
	doc[model.ContentKey] = e.Content
	doc[FieldOriginalContentLength] = e.OriginalLength
	addMetrics(doc, e.Metrics)

	doc[FieldLabel] = e.Label
	doc[FieldPartition] = string(e.Partition)
	doc[FieldRecordID] = e.ID
	if len(e.RejectReasons) > 0 {
		doc[FieldRejectReasons] = e.RejectReasons
	}
	return doc
}

// MetricsDocument holds only the metric columns of m.
func MetricsDocument(m model.Metrics) model.Document {
	doc := make(model.Document, len(model.MetricColumns()))
	addMetrics(doc, m)
	return doc
}

func addMetrics(doc model.Document, m model.Metrics) {
	doc[string(model.ColCleanContent)] = m.CleanContent
	doc[string(model.ColContentLength)] = m.ContentLength
	doc[string(model.ColSpecialRatio)] = m.SpecialRatio
	doc[string(model.ColIsSyntaxError)] = m.IsSyntaxError
	doc[string(model.ColMaintainabilityIndex)] = m.MaintainabilityIndex
	doc[string(model.ColCyclomaticComplexity)] = m.CyclomaticComplexity
	doc[string(model.ColCommentRatio)] = m.CommentRatio
	doc[string(model.ColNumberOfLines)] = m.NumberOfLines
	doc[string(model.ColHasModuleDocstring)] = m.HasModuleDocstring
	doc[string(model.ColFunctionDefinitions)] = nonNil(m.FunctionDefinitions)
	doc[string(model.ColClassDefinitions)] = nonNil(m.ClassDefinitions)
	doc[string(model.ColImports)] = nonNil(m.Imports)
}

// Documents formats every record in order.
func Documents(recs []model.Enriched) []model.Document {
	docs := make([]model.Document, len(recs))
	for i, r := range recs {
		docs[i] = Document(r)
	}
	return docs
}

// Chunks splits docs into consecutive slices of at most size documents.
// A size <= 0 yields a single chunk.
func Chunks(docs []model.Document, size int) [][]model.Document {
	if len(docs) == 0 {
		return nil
	}
	if size <= 0 || size >= len(docs) {
		return [][]model.Document{docs}
	}
	chunks := make([][]model.Document, 0, (len(docs)+size-1)/size)
	for start := 0; start < len(docs); start += size {
		end := min(start+size, len(docs))
		chunks = append(chunks, docs[start:end])
	}
	return chunks
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
