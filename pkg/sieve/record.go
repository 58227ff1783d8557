package sieve

import "github.com/hejijunhao/sieve/internal/model"

// FunctionDef and ClassDef describe definitions found in a snippet.
type (
	FunctionDef = model.FunctionDef
	ClassDef    = model.ClassDef
)

// Metrics is the static quality profile of one snippet.
// This is the stable public type; internal representations may evolve
// independently.
type Metrics struct {
	CleanContent         string        `json:"clean_content"`
	ContentLength        int           `json:"content_length"`
	SpecialRatio         float64       `json:"special_ratio"`
	IsSyntaxError        bool          `json:"is_syntax_error"`
	MaintainabilityIndex float64       `json:"maintainability_index"`
	CyclomaticComplexity float64       `json:"cyclomatic_complexity"`
	CommentRatio         float64       `json:"comment_ratio"`
	NumberOfLines        int           `json:"number_of_lines"`
	HasModuleDocstring   bool          `json:"has_module_docstring"`
	FunctionDefinitions  []FunctionDef `json:"function_definitions"`
	ClassDefinitions     []ClassDef    `json:"class_definitions"`
	Imports              []string      `json:"imports"`
}

// Record is one curated snippet.
type Record struct {
	ID             string         `json:"record_id"`
	Content        string         `json:"content"`
	OriginalLength int            `json:"original_content_length"` // runes of Content, before comment stripping
	Meta           map[string]any `json:"meta,omitempty"`          // source fields other than content and _id
	Partition      string         `json:"partition"`
	Label          int            `json:"label"`
	RejectReasons  []string       `json:"reject_reasons,omitempty"`
	Metrics        Metrics        `json:"metrics"`
}

// Result is the outcome of one Curate call.
type Result struct {
	FinalGood []Record
	// Bad holds rule-bad, iso-removed and lof-removed records, in that order.
	Bad []Record
	// Counts maps every terminal partition name to its size.
	Counts map[string]int
}

func metricsFrom(m model.Metrics) Metrics {
	return Metrics{
		CleanContent:         m.CleanContent,
		ContentLength:        m.ContentLength,
		SpecialRatio:         m.SpecialRatio,
		IsSyntaxError:        m.IsSyntaxError,
		MaintainabilityIndex: m.MaintainabilityIndex,
		CyclomaticComplexity: m.CyclomaticComplexity,
		CommentRatio:         m.CommentRatio,
		NumberOfLines:        m.NumberOfLines,
		HasModuleDocstring:   m.HasModuleDocstring,
		FunctionDefinitions:  m.FunctionDefinitions,
		ClassDefinitions:     m.ClassDefinitions,
		Imports:              m.Imports,
	}
}

func recordFrom(e model.Enriched) Record {
	return Record{
		ID:             e.ID,
		Content:        e.Content,
		OriginalLength: e.OriginalLength,
		Meta:           e.Meta,
		Partition:      string(e.Partition),
		Label:          e.Label,
		RejectReasons:  e.RejectReasons,
		Metrics:        metricsFrom(e.Metrics),
	}
}

func recordsFrom(recs []model.Enriched) []Record {
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = recordFrom(r)
	}
	return out
}
