package model

// Partition is the terminal (or transient) label a record carries through
// the pipeline.
type Partition string

const (
	PartitionNone              Partition = ""
	PartitionExcludedEmpty     Partition = "excluded-empty"
	PartitionExcludedDuplicate Partition = "excluded-duplicate"
	PartitionExcludedShort     Partition = "excluded-short"
	PartitionRuleGood          Partition = "rule-good" // transient, refined by the anomaly chain
	PartitionRuleBad           Partition = "rule-bad"
	PartitionIsoRemoved        Partition = "iso-removed"
	PartitionLOFRemoved        Partition = "lof-removed"
	PartitionFinalGood         Partition = "final-good"
)

// Terminal reports whether p is a final label.
func (p Partition) Terminal() bool {
	switch p {
	case PartitionExcludedEmpty, PartitionExcludedDuplicate, PartitionExcludedShort,
		PartitionRuleBad, PartitionIsoRemoved, PartitionLOFRemoved, PartitionFinalGood:
		return true
	}
	return false
}

// Partitions lists every terminal partition in pipeline order.
func Partitions() []Partition {
	return []Partition{
		PartitionExcludedEmpty,
		PartitionExcludedDuplicate,
		PartitionExcludedShort,
		PartitionRuleBad,
		PartitionIsoRemoved,
		PartitionLOFRemoved,
		PartitionFinalGood,
	}
}

// Labels used for bookkeeping alongside the partition.
const (
	LabelBad  = 0
	LabelGood = 1
)
