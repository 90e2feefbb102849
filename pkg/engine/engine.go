// Package engine assembles the full turn pipeline from configuration:
// vault, journal stores, taxonomy, bundle builder, model transport,
// memory recall, event publishing, and the orchestrator on top.
//
// Commands that run turns locally (chat, serve) build an Engine instead
// of wiring the pieces by hand.
package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/bundle"
	"github.com/quillhq/scribe/pkg/config"
	"github.com/quillhq/scribe/pkg/credentials"
	"github.com/quillhq/scribe/pkg/eventstream"
	"github.com/quillhq/scribe/pkg/eventstream/kafka"
	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/llm"
	"github.com/quillhq/scribe/pkg/llm/provider"
	"github.com/quillhq/scribe/pkg/memory"
	memoryutils "github.com/quillhq/scribe/pkg/memory/utils"
	"github.com/quillhq/scribe/pkg/orchestrator"
	"github.com/quillhq/scribe/pkg/taxonomy"
	"github.com/quillhq/scribe/pkg/vault"
)

// Engine is the assembled turn pipeline for one vault.
type Engine struct {
	Config        *config.Config
	Vault         vault.Store
	Journals      *journal.JournalStore
	Superjournals *journal.SuperjournalStore
	Taxonomies    *taxonomy.Store
	Bundles       *bundle.Builder
	ModelKey      llm.ModelKey
	Orchestrator  *orchestrator.Orchestrator
	Recall        memory.Driver

	events eventstream.Publisher
	logger *zap.Logger
}

// Options configures engine assembly.
type Options struct {
	// ConfigDir overrides .scribe directory resolution.
	ConfigDir string

	// Logger is required.
	Logger *zap.Logger
}

// New loads configuration from the .scribe directory and assembles the
// engine.
func New(opts Options) (*Engine, error) {
	cfger, err := config.NewConfiger(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return NewWithConfig(cfg, opts)
}

// NewWithConfig assembles the engine from an already-loaded config.
func NewWithConfig(cfg *config.Config, opts Options) (*Engine, error) {
	logger := opts.Logger

	if cfg.Vault.Path == "" {
		return nil, fmt.Errorf("vault path not configured (set vault.path or use --vault)")
	}

	store, err := vault.NewOS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}

	journals := journal.NewJournalStore(store, logger)
	superjournals := journal.NewSuperjournalStore(store, logger)
	taxonomies := taxonomy.NewStore(store)
	evolver := taxonomy.NewEvolver(taxonomies, logger)
	bundles := bundle.NewBuilder(store, journals, taxonomies, int(cfg.Journal.RecentTrims), logger)

	modelKey, err := llm.ParseModelKey(cfg.Model.Key)
	if err != nil {
		return nil, err
	}

	transport, err := newTransport(modelKey, cfg.Model.Target, opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	recall, err := memoryutils.NewMemoryDriver(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("building memory driver: %w", err)
	}

	events, err := newPublisher(cfg)
	if err != nil {
		recall.Close()
		return nil, err
	}

	orch, err := orchestrator.New(
		bundles,
		transport,
		modelKey.Model,
		journals,
		superjournals,
		evolver,
		logger,
		orchestrator.WithEventPublisher(events),
		orchestrator.WithMemory(recall),
	)
	if err != nil {
		recall.Close()
		events.Close()
		return nil, err
	}

	return &Engine{
		Config:        cfg,
		Vault:         store,
		Journals:      journals,
		Superjournals: superjournals,
		Taxonomies:    taxonomies,
		Bundles:       bundles,
		ModelKey:      modelKey,
		Orchestrator:  orch,
		Recall:        recall,
		events:        events,
		logger:        logger,
	}, nil
}

// Close releases the engine's drivers and publishers.
func (e *Engine) Close() error {
	var firstErr error

	if err := e.Recall.Close(); err != nil {
		firstErr = err
	}
	if err := e.events.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// newTransport builds the model transport for the selected provider,
// resolving API keys from stored credentials or the environment.
func newTransport(key llm.ModelKey, target, configDir string) (llm.Transport, error) {
	apiKey := ""

	mgr, err := credentials.NewManager(configDir)
	if err == nil {
		if resolved, err := mgr.ResolveKey(key.Provider); err == nil {
			apiKey = resolved
		}
	}

	transport, err := provider.New(key.Provider, provider.Config{
		BaseURL: target,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("building %s transport: %w", key.Provider, err)
	}

	return transport, nil
}

// newPublisher builds the turn event publisher the config names.
func newPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	switch cfg.Events.Provider {
	case "", "none":
		return eventstream.NewNop(), nil
	case "kafka":
		if cfg.Events.Brokers == "" {
			return nil, fmt.Errorf("events.brokers required for kafka publishing")
		}
		brokers := strings.Split(cfg.Events.Brokers, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		return kafka.New(brokers, cfg.Events.Topic), nil
	default:
		return nil, fmt.Errorf("unsupported events provider: %s", cfg.Events.Provider)
	}
}
