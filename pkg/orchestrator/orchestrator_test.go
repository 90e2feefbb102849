package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/bundle"
	"github.com/quillhq/scribe/pkg/eventstream"
	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/llm"
	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/orchestrator"
	"github.com/quillhq/scribe/pkg/reply"
	"github.com/quillhq/scribe/pkg/taxonomy"
	testutils "github.com/quillhq/scribe/pkg/utils/test"
	"github.com/quillhq/scribe/pkg/vault"
)

const wellFormed = `---TAXONOMY_ANALYSIS---
TOPIC: cooking > baking
KEYWORDS: [bread, yeast]
SENTIMENT: curious
NEW_TOPIC: cooking > baking > bread
---MAIN_RESPONSE---
Bread needs time more than anything.
---MACHINE_TRIM---
Boss asked about bread; advised patience.
`

// fakeTransport scripts the model call for a turn.
type fakeTransport struct {
	reply      string
	deltas     []string
	err        error
	lastReq    *llm.ChatRequest
	onDispatch func()
}

func (f *fakeTransport) Complete(_ context.Context, req *llm.ChatRequest) (string, error) {
	f.lastReq = req
	if f.onDispatch != nil {
		f.onDispatch()
	}
	return f.reply, f.err
}

func (f *fakeTransport) Stream(_ context.Context, req *llm.ChatRequest, onDelta llm.DeltaFunc) error {
	f.lastReq = req
	if f.onDispatch != nil {
		f.onDispatch()
	}
	if f.err != nil {
		return f.err
	}
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return nil
}

// capturePublisher records published turn events.
type capturePublisher struct {
	events []*eventstream.TurnRecordedEvent
}

func (c *capturePublisher) Publish(_ context.Context, e *eventstream.TurnRecordedEvent) error {
	c.events = append(c.events, e)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

// brokenStore fails every write while delegating reads.
type brokenStore struct {
	vault.Store
}

func (b *brokenStore) WriteText(string, string) error { return errors.New("disk full") }
func (b *brokenStore) WriteJSON(string, any) error    { return errors.New("disk full") }

var _ = Describe("Orchestrator", func() {
	var (
		v         *vault.InMemory
		transport *fakeTransport
		events    *capturePublisher
		journals  *journal.JournalStore
		supers    *journal.SuperjournalStore
		taxStore  *taxonomy.Store
		orch      *orchestrator.Orchestrator
	)

	newOrchestrator := func(store vault.Store, opts ...orchestrator.Option) *orchestrator.Orchestrator {
		log := logger.Nop()
		journals = journal.NewJournalStore(store, log)
		supers = journal.NewSuperjournalStore(store, log)
		taxStore = taxonomy.NewStore(store)
		builder := bundle.NewBuilder(store, journals, taxStore, 0, log)

		o, err := orchestrator.New(
			builder, transport, "claude-sonnet-4-5",
			journals, supers,
			taxonomy.NewEvolver(taxStore, log),
			log,
			opts...,
		)
		Expect(err).NotTo(HaveOccurred())
		return o
	}

	BeforeEach(func() {
		v = vault.NewInMemory()
		transport = &fakeTransport{reply: wellFormed}
		events = &capturePublisher{}

		fixed := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)
		orch = newOrchestrator(v,
			orchestrator.WithEventPublisher(events),
			orchestrator.WithClock(func() time.Time { return fixed }),
		)
	})

	Describe("New", func() {
		It("rejects a missing transport", func() {
			_, err := orchestrator.New(nil, nil, "m", nil, nil, nil, logger.Nop())

			var confErr orchestrator.ErrConfiguration
			Expect(errors.As(err, &confErr)).To(BeTrue())
		})

		It("rejects an empty model", func() {
			_, err := orchestrator.New(nil, transport, "", nil, nil, nil, logger.Nop())

			var confErr orchestrator.ErrConfiguration
			Expect(errors.As(err, &confErr)).To(BeTrue())
		})
	})

	Describe("Process", func() {
		It("returns the main response and persists the turn", func() {
			result, err := orch.Process(context.Background(), "Ana", "how do I bake bread?")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Reply).To(Equal("Bread needs time more than anything."))
			Expect(result.Degraded).To(BeFalse())
			Expect(result.TrimPath).To(Equal("journal/Trim-2025-07-24-1409.md"))

			trims, err := journals.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(trims).To(HaveLen(1))
			Expect(trims[0].BossInput).To(Equal("how do I bake bread?"))
			Expect(trims[0].PersonaResponse).To(Equal("Boss asked about bread; advised patience."))
			Expect(trims[0].TopicHierarchy).To(Equal([]string{"cooking", "baking"}))
			Expect(trims[0].Keywords).To(Equal([]string{"bread", "yeast"}))
			Expect(trims[0].Sentiment).To(Equal("curious"))

			turns, err := supers.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].PersonaText).To(Equal("Bread needs time more than anything."))
		})

		It("evolves the taxonomy from the analysis section", func() {
			_, err := orch.Process(context.Background(), "Ana", "bread?")
			Expect(err).NotTo(HaveOccurred())

			t, err := taxStore.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Topics).To(HaveLen(1))
			Expect(t.Topics[0].Name).To(Equal("cooking"))
		})

		It("publishes a turn-recorded event", func() {
			_, err := orch.Process(context.Background(), "Ana", "bread?")
			Expect(err).NotTo(HaveOccurred())

			Expect(events.events).To(HaveLen(1))
			Expect(events.events[0].Persona).To(Equal("Ana"))
			Expect(events.events[0].TrimPath).To(Equal("journal/Trim-2025-07-24-1409.md"))
			Expect(events.events[0].EventID).NotTo(BeEmpty())
		})

		It("sends the user message and the assembled system prompt", func() {
			Expect(v.WriteText(vault.PathInstructions, "Answer in three parts.")).To(Succeed())

			_, err := orch.Process(context.Background(), "Ana", "bread?")
			Expect(err).NotTo(HaveOccurred())

			Expect(transport.lastReq.Model).To(Equal("claude-sonnet-4-5"))
			Expect(transport.lastReq.System).To(ContainSubstring("Answer in three parts."))
			Expect(transport.lastReq.Messages).To(HaveLen(1))
			Expect(transport.lastReq.Messages[0].Content).To(Equal("bread?"))
		})

		It("wraps transport failures and persists nothing", func() {
			transport.err = errors.New("connection refused")

			_, err := orch.Process(context.Background(), "Ana", "bread?")

			var transportErr orchestrator.ErrTransport
			Expect(errors.As(err, &transportErr)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("connection refused")))

			trims, err := journals.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(trims).To(BeEmpty())
		})

		It("absorbs a malformed reply as a degraded turn", func() {
			transport.reply = "Just plain text, no markers."

			result, err := orch.Process(context.Background(), "Ana", "bread?")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Degraded).To(BeTrue())
			Expect(result.Reply).To(Equal("Just plain text, no markers."))
			Expect(result.Triple.MachineTrim).To(Equal(reply.PlaceholderMachineTrim))
			Expect(result.Metadata.TopicHierarchy).To(Equal(reply.DefaultTopicHierarchy))
			Expect(result.Metadata.Sentiment).To(Equal(reply.DefaultSentiment))

			trims, err := journals.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(trims).To(HaveLen(1))
		})

		It("still returns the reply when persistence fails", func() {
			orch = newOrchestrator(&brokenStore{Store: v},
				orchestrator.WithEventPublisher(events))

			result, err := orch.Process(context.Background(), "Ana", "bread?")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Reply).To(Equal("Bread needs time more than anything."))
			Expect(result.TrimPath).To(BeEmpty())
			Expect(events.events).To(BeEmpty())
		})

		It("indexes the persisted trim for recall", func() {
			recall := testutils.NewMockMemoryDriver()
			fixed := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)
			orch = newOrchestrator(v,
				orchestrator.WithClock(func() time.Time { return fixed }),
				orchestrator.WithMemory(recall),
			)

			_, err := orch.Process(context.Background(), "Ana", "bread?")
			Expect(err).NotTo(HaveOccurred())

			Expect(recall.Indexed).To(HaveKey("journal/Trim-2025-07-24-1409.md"))
			Expect(recall.Indexed["journal/Trim-2025-07-24-1409.md"]).To(ContainSubstring("advised patience"))
		})

		It("swallows indexing failures after a recorded turn", func() {
			recall := testutils.NewMockMemoryDriver()
			recall.FailIndex = true
			orch = newOrchestrator(v, orchestrator.WithMemory(recall))

			result, err := orch.Process(context.Background(), "Ana", "bread?")

			Expect(err).NotTo(HaveOccurred())
			Expect(result.TrimPath).NotTo(BeEmpty())
		})

		It("persists nothing when the turn is cancelled mid-flight", func() {
			ctx, cancel := context.WithCancel(context.Background())
			transport.onDispatch = cancel

			_, err := orch.Process(ctx, "Ana", "bread?")

			Expect(err).To(MatchError(context.Canceled))

			trims, err := journals.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(trims).To(BeEmpty())
		})
	})

	Describe("ProcessStreaming", func() {
		chunk := func(raw string, size int) []string {
			var out []string
			for len(raw) > 0 {
				n := size
				if n > len(raw) {
					n = len(raw)
				}
				out = append(out, raw[:n])
				raw = raw[n:]
			}
			return out
		}

		It("streams only main-response text and finishes with the authoritative reply", func() {
			transport.deltas = chunk(wellFormed, 9)

			var streamed strings.Builder
			var final string
			result, err := orch.ProcessStreaming(context.Background(), "Ana", "bread?", orchestrator.StreamHandler{
				OnDelta: func(s string) { streamed.WriteString(s) },
				OnFinal: func(s string) { final = s },
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(streamed.String()).To(ContainSubstring("Bread needs time"))
			Expect(streamed.String()).NotTo(ContainSubstring("TAXONOMY"))
			Expect(streamed.String()).NotTo(ContainSubstring("MACHINE_TRIM"))
			Expect(final).To(Equal("Bread needs time more than anything."))
			Expect(result.Reply).To(Equal(final))

			trims, err := journals.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(trims).To(HaveLen(1))
		})

		It("fires the final update even when nothing was streamed", func() {
			transport.deltas = chunk("plain reply, no markers", 5)

			var streamed strings.Builder
			var final string
			_, err := orch.ProcessStreaming(context.Background(), "Ana", "bread?", orchestrator.StreamHandler{
				OnDelta: func(s string) { streamed.WriteString(s) },
				OnFinal: func(s string) { final = s },
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(streamed.String()).To(BeEmpty())
			Expect(final).To(Equal("plain reply, no markers"))
		})

		It("wraps stream failures and persists nothing", func() {
			transport.err = errors.New("stream reset")

			_, err := orch.ProcessStreaming(context.Background(), "Ana", "bread?", orchestrator.StreamHandler{})

			var transportErr orchestrator.ErrTransport
			Expect(errors.As(err, &transportErr)).To(BeTrue())

			trims, err := journals.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(trims).To(BeEmpty())
		})
	})
})
