package output

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/sieve/internal/model"
)

func sampleRecord() model.Enriched {
	return model.Enriched{
		Record: model.Record{
			ID:      "3f0c",
			Content: "def f():\n    return 1\n",
			Meta:    model.Document{"repo": "acme/tools", "path": "f.py"},
		},
		Metrics: model.Metrics{
			CleanContent:         "def f():\n    return 1\n",
			ContentLength:        22,
			CyclomaticComplexity: 1,
			MaintainabilityIndex: 88.5,
			NumberOfLines:        2,
			FunctionDefinitions:  []model.FunctionDef{{Name: "f", Line: 1, EndLine: 2}},
		},
		Label:     model.LabelGood,
		Partition: model.PartitionFinalGood,
		Anomaly:   []model.AnomalyMark{{Stage: "isolation_forest", Score: -0.4}},
	}
}

func TestDocumentFields(t *testing.T) {
	doc := Document(sampleRecord())

	assert.Equal(t, "acme/tools", doc["repo"])
	assert.Equal(t, "f.py", doc["path"])
	assert.Equal(t, "def f():\n    return 1\n", doc[model.ContentKey])
	assert.Equal(t, 22, doc["content_length"])
	assert.Equal(t, 88.5, doc["maintainability_index"])
	assert.Equal(t, 1, doc[FieldLabel])
	assert.Equal(t, "final-good", doc[FieldPartition])
	assert.Equal(t, "3f0c", doc[FieldRecordID])
	assert.Equal(t, []string{}, doc["imports"])
	assert.Equal(t, []model.ClassDef{}, doc["class_definitions"])
	assert.NotContains(t, doc, FieldRejectReasons)

	for _, col := range model.MetricColumns() {
		assert.Contains(t, doc, string(col))
	}
	for _, key := range []string{"anomaly", "Anomaly", "score", model.IdentityKey} {
		assert.NotContains(t, doc, key)
	}
}

func TestDocumentOriginalContentLength(t *testing.T) {
	r := sampleRecord()
	r.Content = "def f():\n    return 1  # one\n"
	r.OriginalLength = 29

	doc := Document(r)
	assert.Equal(t, 29, doc[FieldOriginalContentLength])
	assert.Equal(t, 22, doc[string(model.ColContentLength)], "clean length is exported separately")
}

func TestMetricsDocument(t *testing.T) {
	doc := MetricsDocument(sampleRecord().Metrics)

	assert.Len(t, doc, len(model.MetricColumns()))
	for _, col := range model.MetricColumns() {
		assert.Contains(t, doc, string(col))
	}
	assert.Equal(t, "def f():\n    return 1\n", doc[string(model.ColCleanContent)])
	assert.Equal(t, []string{}, doc[string(model.ColImports)])
	assert.NotContains(t, doc, FieldOriginalContentLength)
}

func TestDocumentRejectReasons(t *testing.T) {
	r := sampleRecord()
	r.Label = model.LabelBad
	r.Partition = model.PartitionRuleBad
	r.RejectReasons = []string{"syntax_error"}

	doc := Document(r)
	assert.Equal(t, []string{"syntax_error"}, doc[FieldRejectReasons])
	assert.Equal(t, 0, doc[FieldLabel])
}

func TestDocumentContentWinsOverMeta(t *testing.T) {
	r := sampleRecord()
	r.Meta["label"] = "from-source"
	doc := Document(r)
	assert.Equal(t, model.LabelGood, doc[FieldLabel])
}

func TestChunks(t *testing.T) {
	docs := make([]model.Document, 7)
	for i := range docs {
		docs[i] = model.Document{"n": i}
	}

	tests := []struct {
		size int
		want []int
	}{
		{3, []int{3, 3, 1}},
		{7, []int{7}},
		{100, []int{7}},
		{0, []int{7}},
		{1, []int{1, 1, 1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.size), func(t *testing.T) {
			chunks := Chunks(docs, tt.size)
			var sizes []int
			var order []int
			for _, c := range chunks {
				sizes = append(sizes, len(c))
				for _, d := range c {
					order = append(order, d["n"].(int))
				}
			}
			assert.Equal(t, tt.want, sizes)
			assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, order)
		})
	}

	require.Nil(t, Chunks(nil, 10))
}
