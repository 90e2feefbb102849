package journal_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/vault"
)

// fakeClock hands out strictly increasing times so file modification
// ordering is deterministic in the in-memory vault.
func fakeClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

var _ = Describe("JournalStore", func() {
	var (
		v     *vault.InMemory
		store *journal.JournalStore
	)

	newTrim := func(ts time.Time, boss, response string) *journal.Trim {
		return &journal.Trim{
			Timestamp:       ts,
			Persona:         "Ana",
			BossInput:       boss,
			PersonaResponse: response,
			TopicHierarchy:  []string{"cooking", "baking"},
			Keywords:        []string{"bread", "sourdough"},
			Dependencies:    []string{"chemistry"},
			Sentiment:       "curious",
		}
	}

	BeforeEach(func() {
		v = vault.NewInMemoryWithClock(fakeClock(time.Date(2025, 7, 24, 14, 0, 0, 0, time.UTC)))
		store = journal.NewJournalStore(v, logger.Nop())
	})

	Describe("Append", func() {
		It("writes a file named after the timestamp with the Trim prefix", func() {
			ts := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)

			path, err := store.Append(newTrim(ts, "hi", "hello"))
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("journal/Trim-2025-07-24-1409.md"))
			Expect(v.Exists(path)).To(BeTrue())
		})

		It("writes the documented front-matter format", func() {
			ts := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)
			path, err := store.Append(newTrim(ts, "hi", "hello"))
			Expect(err).NotTo(HaveOccurred())

			text, err := v.ReadText(path)
			Expect(err).NotTo(HaveOccurred())

			Expect(text).To(HavePrefix("---\n"))
			Expect(text).To(ContainSubstring("timestamp: 2025-07-24 14:09:00\n"))
			Expect(text).To(ContainSubstring("persona: Ana\n"))
			Expect(text).To(ContainSubstring("topic_hierarchy: cooking > baking\n"))
			Expect(text).To(ContainSubstring("keywords: bread, sourdough\n"))
			Expect(text).To(ContainSubstring("dependencies: chemistry\n"))
			Expect(text).To(ContainSubstring("sentiment: curious\n"))
			Expect(text).To(ContainSubstring("Boss: hi\n"))
			Expect(text).To(ContainSubstring("Ana: hello\n"))
		})
	})

	Describe("round-trips", func() {
		It("reloads an appended trim unchanged", func() {
			ts := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)
			original := newTrim(ts, "hi there", "hello boss")

			_, err := store.Append(original)
			Expect(err).NotTo(HaveOccurred())

			all, err := store.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
			Expect(all[0]).To(Equal(original))
		})

		It("reconstructs multi-line message bodies", func() {
			ts := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)
			original := newTrim(ts,
				"first line\nsecond line",
				"reply line one\n\nreply line three")

			_, err := store.Append(original)
			Expect(err).NotTo(HaveOccurred())

			all, err := store.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
			Expect(all[0].BossInput).To(Equal("first line\nsecond line"))
			Expect(all[0].PersonaResponse).To(Equal("reply line one\n\nreply line three"))
		})
	})

	Describe("LoadRecent", func() {
		appendAt := func(minute int, boss string) {
			ts := time.Date(2025, 7, 24, 14, minute, 0, 0, time.UTC)
			_, err := store.Append(newTrim(ts, boss, "r"))
			Expect(err).NotTo(HaveOccurred())
		}

		It("never returns more than the limit, newest first", func() {
			appendAt(1, "one")
			appendAt(2, "two")
			appendAt(3, "three")

			recent, err := store.LoadRecent(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(recent).To(HaveLen(2))
			Expect(recent[0].BossInput).To(Equal("three"))
			Expect(recent[1].BossInput).To(Equal("two"))
		})

		It("returns all entries when the limit exceeds the count", func() {
			appendAt(1, "one")

			recent, err := store.LoadRecent(20)
			Expect(err).NotTo(HaveOccurred())
			Expect(recent).To(HaveLen(1))
		})

		It("returns an empty list for a fresh vault", func() {
			recent, err := store.LoadRecent(20)
			Expect(err).NotTo(HaveOccurred())
			Expect(recent).To(BeEmpty())
		})
	})

	Describe("LoadAll", func() {
		It("orders oldest first", func() {
			for _, m := range []int{5, 6, 7} {
				ts := time.Date(2025, 7, 24, 14, m, 0, 0, time.UTC)
				_, err := store.Append(newTrim(ts, "b", "r"))
				Expect(err).NotTo(HaveOccurred())
			}

			all, err := store.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
			Expect(all[0].Timestamp.Minute()).To(Equal(5))
			Expect(all[2].Timestamp.Minute()).To(Equal(7))
		})

		It("skips files that do not parse instead of failing", func() {
			ts := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)
			_, err := store.Append(newTrim(ts, "good", "entry"))
			Expect(err).NotTo(HaveOccurred())

			Expect(v.WriteText("journal/Trim-garbage.md", "not an entry")).To(Succeed())

			all, err := store.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
			Expect(all[0].BossInput).To(Equal("good"))
		})

		It("ignores files without the Trim prefix", func() {
			Expect(v.WriteText("journal/notes.md", "scratch")).To(Succeed())

			all, err := store.LoadAll()
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(BeEmpty())
		})
	})
})

var _ = Describe("SuperjournalStore", func() {
	It("round-trips a full turn", func() {
		v := vault.NewInMemory()
		store := journal.NewSuperjournalStore(v, logger.Nop())

		original := &journal.FullTurn{
			Timestamp:   time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC),
			Persona:     "Ana",
			BossText:    "tell me about bread",
			PersonaText: "bread is flour, water, salt, and time",
		}

		path, err := store.Append(original)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("superjournal/FullTurn-2025-07-24-1409.md"))

		all, err := store.LoadAll()
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(1))
		Expect(all[0]).To(Equal(original))
	})

	It("omits topic metadata from the front matter", func() {
		v := vault.NewInMemory()
		store := journal.NewSuperjournalStore(v, logger.Nop())

		path, err := store.Append(&journal.FullTurn{
			Timestamp:   time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC),
			Persona:     "Ana",
			BossText:    "q",
			PersonaText: "a",
		})
		Expect(err).NotTo(HaveOccurred())

		text, err := v.ReadText(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(text).NotTo(ContainSubstring("topic_hierarchy"))
		Expect(text).NotTo(ContainSubstring("keywords"))
	})
})
