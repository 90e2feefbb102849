// Package memory provides a pluggable recall layer over the journal.
//
// Memory drivers index journal trims as they are written and recall the
// trims most relevant to a query. Recall returns vault paths, not
// content; callers load the trims they want from the journal, which
// stays the source of truth.
//
// Drivers are pluggable via configuration:
//
//	[memory]
//	provider = "local"   # or "vector"
package memory

import "context"

// Driver handles indexing and recall of journal trims.
type Driver interface {
	// Index registers one trim for later recall. The path is the trim's
	// vault path; text is the content to match against (typically
	// Trim.IndexText()). Called after a turn's trim is persisted.
	Index(ctx context.Context, path, text string) error

	// Recall returns the topK trims most relevant to the query, best
	// match first.
	Recall(ctx context.Context, query string, topK int) ([]Recalled, error)

	// Close releases driver resources.
	Close() error
}

// Recalled is one recall hit.
type Recalled struct {
	// Path is the vault path of the recalled trim.
	Path string `json:"path"`

	// Score is the relevance score (higher = more relevant).
	Score float32 `json:"score"`
}
