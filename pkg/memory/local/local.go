// Package local provides an in-process implementation of the memory.Driver
// interface.
//
// Trims are indexed by their vault path and matched with simple
// case-insensitive term overlap. This is a local-dev story — the vector
// driver does real semantic recall.
package local

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/quillhq/scribe/pkg/memory"
)

// Config holds configuration for the local memory driver.
type Config struct {
	// Enabled controls whether the driver indexes and recalls trims.
	// When false, Index is a no-op and Recall returns nil.
	Enabled bool
}

// Driver implements memory.Driver using in-process data structures.
type Driver struct {
	config Config

	mu sync.RWMutex

	// texts maps trim vault path -> indexed text, lowercased.
	texts map[string]string
}

// NewDriver creates a local in-memory memory driver.
func NewDriver(config Config) *Driver {
	return &Driver{
		config: config,
		texts:  make(map[string]string),
	}
}

// Index registers a trim's text for later recall. Re-indexing a path
// replaces its text.
func (d *Driver) Index(_ context.Context, path, text string) error {
	if !d.config.Enabled {
		return nil
	}
	if text == "" {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.texts[path] = strings.ToLower(text)

	return nil
}

// Recall scores indexed trims by how many query terms they contain and
// returns the topK best matches. Returns nil if nothing matches or the
// driver is disabled.
func (d *Driver) Recall(_ context.Context, query string, topK int) ([]memory.Recalled, error) {
	if !d.config.Enabled {
		return nil, nil
	}
	if topK <= 0 {
		topK = 10
	}

	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var hits []memory.Recalled
	for path, text := range d.texts {
		matched := 0
		for _, term := range terms {
			if strings.Contains(text, term) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		hits = append(hits, memory.Recalled{
			Path:  path,
			Score: float32(matched) / float32(len(terms)),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Path < hits[j].Path
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}

	return hits, nil
}

// Close is a no-op for the in-memory driver.
func (d *Driver) Close() error {
	return nil
}
