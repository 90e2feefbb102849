// Package orchestrator runs one conversation turn end to end: assemble
// the context bundle, dispatch the model call, parse the three-part
// reply, persist the journal records, and evolve the taxonomy.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/bundle"
	"github.com/quillhq/scribe/pkg/eventstream"
	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/llm"
	"github.com/quillhq/scribe/pkg/memory"
	"github.com/quillhq/scribe/pkg/reply"
	"github.com/quillhq/scribe/pkg/taxonomy"
)

// Result is the outcome of one fully processed turn.
type Result struct {
	// Reply is the main response, the only section shown to the user.
	Reply string

	// Triple is the parsed three-part reply, placeholders included.
	Triple reply.TripleResponse

	// Metadata extracted from the taxonomy-analysis section.
	Metadata reply.Metadata

	// TrimPath is the vault path of the persisted trim, empty if
	// persistence failed.
	TrimPath string

	// Degraded reports that the reply missed the three-part format and
	// was recovered by the fallback parse.
	Degraded bool
}

// StreamHandler receives reply content during a streaming turn.
type StreamHandler struct {
	// OnDelta receives progressive main-response text as it arrives.
	OnDelta func(text string)

	// OnFinal receives the authoritative main response after the full
	// reply is parsed. It always fires on a completed stream, even when
	// the streamed text was already complete.
	OnFinal func(text string)
}

// Orchestrator drives turns for one persona vault. Persistence and
// taxonomy failures are absorbed: the user still gets their reply, the
// gap is logged.
type Orchestrator struct {
	bundles       *bundle.Builder
	transport     llm.Transport
	model         string
	journals      *journal.JournalStore
	superjournals *journal.SuperjournalStore
	evolver       *taxonomy.Evolver
	events        eventstream.Publisher
	recall        memory.Driver
	now           func() time.Time
	logger        *zap.Logger
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

// WithEventPublisher publishes a turn-recorded event after each persisted
// turn. The default discards events.
func WithEventPublisher(p eventstream.Publisher) Option {
	return func(o *Orchestrator) { o.events = p }
}

// WithMemory indexes each persisted trim for later recall. The default
// indexes nothing.
func WithMemory(d memory.Driver) Option {
	return func(o *Orchestrator) { o.recall = d }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an orchestrator. The model is the provider-native model
// name; provider selection happens when the transport is constructed.
func New(
	bundles *bundle.Builder,
	transport llm.Transport,
	model string,
	journals *journal.JournalStore,
	superjournals *journal.SuperjournalStore,
	evolver *taxonomy.Evolver,
	logger *zap.Logger,
	opts ...Option,
) (*Orchestrator, error) {
	if transport == nil {
		return nil, ErrConfiguration{Reason: "no transport"}
	}
	if model == "" {
		return nil, ErrConfiguration{Reason: "no model selected"}
	}

	o := &Orchestrator{
		bundles:       bundles,
		transport:     transport,
		model:         model,
		journals:      journals,
		superjournals: superjournals,
		evolver:       evolver,
		events:        eventstream.NewNop(),
		now:           time.Now,
		logger:        logger,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Process runs one non-streaming turn.
func (o *Orchestrator) Process(ctx context.Context, persona, userMessage string) (*Result, error) {
	req := o.buildRequest(persona, userMessage)

	raw, err := o.transport.Complete(ctx, req)
	if err != nil {
		return nil, ErrTransport{Err: err}
	}

	return o.finish(ctx, persona, userMessage, raw)
}

// ProcessStreaming runs one streaming turn. Only main-response text
// reaches handler.OnDelta; the full raw reply is re-parsed once the
// stream completes and handler.OnFinal receives the authoritative text.
func (o *Orchestrator) ProcessStreaming(ctx context.Context, persona, userMessage string, handler StreamHandler) (*Result, error) {
	req := o.buildRequest(persona, userMessage)

	emit := handler.OnDelta
	if emit == nil {
		emit = func(string) {}
	}
	acc := newStreamAccumulator(emit)

	err := o.transport.Stream(ctx, req, func(delta string) error {
		acc.Add(delta)
		return nil
	})
	if err != nil {
		return nil, ErrTransport{Err: err}
	}

	result, err := o.finish(ctx, persona, userMessage, acc.Raw())
	if err != nil {
		return nil, err
	}

	if handler.OnFinal != nil {
		handler.OnFinal(result.Reply)
	}

	return result, nil
}

// buildRequest assembles the bundle and wraps it into a chat request.
// Vault gaps are logged, never fatal.
func (o *Orchestrator) buildRequest(persona, userMessage string) *llm.ChatRequest {
	for _, issue := range o.bundles.Validate(persona) {
		o.logger.Warn("vault incomplete", zap.String("issue", issue))
	}

	b := o.bundles.Build(persona, userMessage)

	return &llm.ChatRequest{
		Model:  o.model,
		System: b.SystemPrompt(),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMessage},
		},
	}
}

// finish parses the raw reply and runs the persistence pipeline. A
// cancelled context stops short of persistence so an abandoned turn
// leaves no partial records.
func (o *Orchestrator) finish(ctx context.Context, persona, userMessage, raw string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("turn aborted: %w", err)
	}

	triple := reply.Parse(raw)
	meta := reply.ExtractMetadata(triple.TaxonomyAnalysis)

	if triple.Degraded() {
		o.logger.Warn("reply missed the three-part format, recovered by fallback parse",
			zap.String("persona", persona))
	}

	// time.Parse round-trips UTC, so journal records stamp in UTC at
	// second precision.
	ts := o.now().UTC().Truncate(time.Second)

	trimPath := o.persist(ctx, persona, userMessage, ts, triple, meta)

	if err := o.evolver.Evolve(triple.TaxonomyAnalysis); err != nil {
		o.logger.Error("taxonomy evolution failed", zap.Error(err))
	}

	return &Result{
		Reply:    triple.MainResponse,
		Triple:   triple,
		Metadata: meta,
		TrimPath: trimPath,
		Degraded: triple.Degraded(),
	}, nil
}

// persist writes the trim and full-turn records and announces the turn.
// Failures are logged and swallowed; the reply already belongs to the
// user.
func (o *Orchestrator) persist(ctx context.Context, persona, userMessage string, ts time.Time, triple reply.TripleResponse, meta reply.Metadata) string {
	trim := &journal.Trim{
		Timestamp:       ts,
		Persona:         persona,
		BossInput:       userMessage,
		PersonaResponse: triple.MachineTrim,
		TopicHierarchy:  meta.TopicHierarchy,
		Keywords:        meta.Keywords,
		Dependencies:    meta.Dependencies,
		Sentiment:       meta.Sentiment,
	}

	trimPath, err := o.journals.Append(trim)
	if err != nil {
		o.logger.Error("persisting trim failed", zap.Error(err))
		trimPath = ""
	}

	_, err = o.superjournals.Append(&journal.FullTurn{
		Timestamp:   ts,
		Persona:     persona,
		BossText:    userMessage,
		PersonaText: triple.MainResponse,
	})
	if err != nil {
		o.logger.Error("persisting full turn failed", zap.Error(err))
	}

	if trimPath != "" {
		if o.recall != nil {
			if err := o.recall.Index(ctx, trimPath, trim.IndexText()); err != nil {
				o.logger.Warn("indexing trim for recall failed", zap.Error(err))
			}
		}

		event := eventstream.NewTurnRecordedEvent(ts, persona, trimPath)
		event.TopicHierarchy = meta.TopicHierarchy
		event.Keywords = meta.Keywords
		event.Sentiment = meta.Sentiment
		event.Degraded = triple.Degraded()

		if err := o.events.Publish(ctx, event); err != nil {
			o.logger.Warn("publishing turn event failed", zap.Error(err))
		}
	}

	return trimPath
}
