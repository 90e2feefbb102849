// Package vectorstore implements memory.Driver on top of an embedder and
// a vector driver, giving semantic recall over journal trims.
package vectorstore

import (
	"context"
	"fmt"
	"path"

	"github.com/quillhq/scribe/pkg/embeddings"
	"github.com/quillhq/scribe/pkg/memory"
	"github.com/quillhq/scribe/pkg/vector"
)

// Driver embeds trim text and stores the vectors for similarity recall.
type Driver struct {
	embedder embeddings.Embedder
	store    vector.VectorDriver
}

// NewDriver creates a vector-backed memory driver.
func NewDriver(embedder embeddings.Embedder, store vector.VectorDriver) (*Driver, error) {
	if embedder == nil || store == nil {
		return nil, memory.ErrNotConfigured
	}

	return &Driver{
		embedder: embedder,
		store:    store,
	}, nil
}

// Index embeds the trim text and upserts it into the vector store, keyed
// by the trim's filename.
func (d *Driver) Index(ctx context.Context, trimPath, text string) error {
	if text == "" {
		return nil
	}

	embedding, err := d.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding trim %s: %w", trimPath, err)
	}

	err = d.store.Add(ctx, []vector.Document{{
		ID:        path.Base(trimPath),
		Path:      trimPath,
		Embedding: embedding,
	}})
	if err != nil {
		return fmt.Errorf("storing trim vector %s: %w", trimPath, err)
	}

	return nil
}

// Recall embeds the query and returns the nearest indexed trims.
func (d *Driver) Recall(ctx context.Context, query string, topK int) ([]memory.Recalled, error) {
	embedding, err := d.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := d.store.Query(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("querying trim vectors: %w", err)
	}

	recalled := make([]memory.Recalled, 0, len(results))
	for _, r := range results {
		recalled = append(recalled, memory.Recalled{
			Path:  r.Path,
			Score: r.Score,
		})
	}

	return recalled, nil
}

// Close releases the embedder and vector store.
func (d *Driver) Close() error {
	embErr := d.embedder.Close()
	storeErr := d.store.Close()

	if embErr != nil {
		return embErr
	}

	return storeErr
}
