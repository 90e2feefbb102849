// Package memoryutils constructs memory drivers from configuration.
package memoryutils

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/config"
	embeddingutils "github.com/quillhq/scribe/pkg/embeddings/utils"
	"github.com/quillhq/scribe/pkg/memory"
	"github.com/quillhq/scribe/pkg/memory/local"
	"github.com/quillhq/scribe/pkg/memory/vectorstore"
	vectorutils "github.com/quillhq/scribe/pkg/vector/utils"
)

// NewMemoryDriver builds the memory driver the config names. The
// "vector" provider wires the configured embedder to the configured
// vector store; "local" and "none" stay in-process.
func NewMemoryDriver(cfg *config.Config, logger *zap.Logger) (memory.Driver, error) {
	switch cfg.Memory.Provider {
	case "", "none":
		return local.NewDriver(local.Config{Enabled: false}), nil
	case "local":
		return local.NewDriver(local.Config{Enabled: cfg.Memory.Enabled}), nil
	case "vector":
		embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
			ProviderType: cfg.Embedding.Provider,
			TargetURL:    cfg.Embedding.Target,
			Model:        cfg.Embedding.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("building embedder: %w", err)
		}

		store, err := vectorutils.NewVectorDriver(&vectorutils.NewVectorDriverOpts{
			ProviderType: cfg.VectorStore.Provider,
			Target:       cfg.VectorStore.Target,
			Dimensions:   cfg.Embedding.Dimensions,
			Logger:       logger,
		})
		if err != nil {
			embedder.Close()
			return nil, fmt.Errorf("building vector store: %w", err)
		}

		return vectorstore.NewDriver(embedder, store)
	default:
		return nil, fmt.Errorf("unsupported memory provider: %s", cfg.Memory.Provider)
	}
}
