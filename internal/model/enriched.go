package model

// AnomalyMark is a transient scoring column left by one anomaly stage.
// Marks are never exported.
type AnomalyMark struct {
	Stage   string
	Score   float64
	Outlier bool
}

// Enriched is a Record with its metric set and classification state.
type Enriched struct {
	Record
	Metrics

	Label         int
	Partition     Partition
	RejectReasons []string
	Anomaly       []AnomalyMark
}

// Column names a derived column of an enriched batch.
type Column string

const (
	ColContentLength        Column = "content_length"
	ColCleanContent         Column = "clean_content"
	ColSpecialRatio         Column = "special_ratio"
	ColIsSyntaxError        Column = "is_syntax_error"
	ColMaintainabilityIndex Column = "maintainability_index"
	ColCyclomaticComplexity Column = "cyclomatic_complexity"
	ColCommentRatio         Column = "comment_ratio"
	ColNumberOfLines        Column = "number_of_lines"
	ColHasModuleDocstring   Column = "has_module_docstring"
	ColFunctionDefinitions  Column = "function_definitions"
	ColClassDefinitions     Column = "class_definitions"
	ColImports              Column = "imports"
)

// MetricColumns lists every column produced by enrichment.
func MetricColumns() []Column {
	return []Column{
		ColCleanContent, ColContentLength, ColSpecialRatio, ColIsSyntaxError,
		ColMaintainabilityIndex, ColCyclomaticComplexity, ColCommentRatio,
		ColNumberOfLines, ColHasModuleDocstring, ColFunctionDefinitions,
		ColClassDefinitions, ColImports,
	}
}

// Schema is the set of derived columns present on a batch.
type Schema map[Column]struct{}

// NewSchema builds a schema from the given columns.
func NewSchema(cols ...Column) Schema {
	s := make(Schema, len(cols))
	for _, c := range cols {
		s[c] = struct{}{}
	}
	return s
}

// FullSchema is the schema produced by enrichment.
func FullSchema() Schema {
	return NewSchema(MetricColumns()...)
}

// Has reports whether the column is present.
func (s Schema) Has(c Column) bool {
	_, ok := s[c]
	return ok
}

// Batch is the typed table passed between enrichment, classification and
// the anomaly chain.
type Batch struct {
	Schema  Schema
	Records []Enriched
}

// Len returns the number of records.
func (b Batch) Len() int { return len(b.Records) }

// IDs returns the record IDs in batch order.
func (b Batch) IDs() []string {
	ids := make([]string, len(b.Records))
	for i, r := range b.Records {
		ids[i] = r.ID
	}
	return ids
}

// WithRecords returns a batch with the same schema and the given records.
func (b Batch) WithRecords(recs []Enriched) Batch {
	return Batch{Schema: b.Schema, Records: recs}
}
