package model

// Document is the untyped shape of one record at the load/save boundary.
type Document map[string]any

// Reserved document keys.
const (
	ContentKey  = "content"
	IdentityKey = "_id" // assigned by the document store
)

// Record is one validated unit of input, produced by the structural filter
// and consumed by enrichment.
type Record struct {
	ID             string   // synthetic, stable from the structural filter to persistence
	Content        string   // raw source text
	OriginalLength int      // rune count of Content
	Meta           Document // pass-through fields (never content or _id)
}
