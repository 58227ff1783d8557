package classifier

import (
	"github.com/hejijunhao/sieve/internal/model"
)

// Reasons attached to rule-bad records.
const (
	ReasonTooShort           = "content_too_short"
	ReasonSyntaxError        = "syntax_error"
	ReasonTooComplex         = "complexity_too_high"
	ReasonLowMaintainability = "maintainability_too_low"
)

// Rules holds the fixed thresholds of the rule classifier.
type Rules struct {
	MinContentLength   int
	MaxComplexity      float64 // bad when strictly greater
	MinMaintainability float64 // bad when strictly lower
}

// DefaultRules returns the standard thresholds.
func DefaultRules(minContentLength int) Rules {
	return Rules{
		MinContentLength:   minContentLength,
		MaxComplexity:      50,
		MinMaintainability: 20,
	}
}

// Classifier splits an enriched batch into rule-good and rule-bad.
type Classifier struct {
	Rules Rules
}

// New creates a Classifier with the given rules.
func New(rules Rules) *Classifier {
	return &Classifier{Rules: rules}
}

// Classify returns every rule the record violates. An empty result means
// the record is rule-good.
func (c *Classifier) Classify(r model.Enriched) []string {
	var reasons []string
	if r.ContentLength < c.Rules.MinContentLength {
		reasons = append(reasons, ReasonTooShort)
	}
	if r.IsSyntaxError {
		reasons = append(reasons, ReasonSyntaxError)
	}
	if r.CyclomaticComplexity > c.Rules.MaxComplexity {
		reasons = append(reasons, ReasonTooComplex)
	}
	if r.MaintainabilityIndex < c.Rules.MinMaintainability {
		reasons = append(reasons, ReasonLowMaintainability)
	}
	return reasons
}

// Split labels every record and returns the good and bad subsets in input
// order. Good records carry the transient rule-good partition; bad records
// are terminal.
func (c *Classifier) Split(batch model.Batch) (good, bad model.Batch) {
	goodRecs := make([]model.Enriched, 0, batch.Len())
	var badRecs []model.Enriched
	for _, r := range batch.Records {
		if reasons := c.Classify(r); len(reasons) > 0 {
			r.Label = model.LabelBad
			r.Partition = model.PartitionRuleBad
			r.RejectReasons = reasons
			badRecs = append(badRecs, r)
			continue
		}
		r.Label = model.LabelGood
		r.Partition = model.PartitionRuleGood
		goodRecs = append(goodRecs, r)
	}
	return batch.WithRecords(goodRecs), batch.WithRecords(badRecs)
}
