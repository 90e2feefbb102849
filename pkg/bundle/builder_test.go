package bundle_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/bundle"
	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/taxonomy"
	"github.com/quillhq/scribe/pkg/vault"
)

var _ = Describe("Builder", func() {
	var (
		v       *vault.InMemory
		builder *bundle.Builder
		trims   *journal.JournalStore
	)

	BeforeEach(func() {
		v = vault.NewInMemory()
		trims = journal.NewJournalStore(v, logger.Nop())
		builder = bundle.NewBuilder(v, trims, taxonomy.NewStore(v), 0, logger.Nop())
	})

	Describe("Build", func() {
		It("assembles all sections from a populated vault", func() {
			Expect(v.WriteText(vault.PathInstructions, "Answer in three parts.")).To(Succeed())
			Expect(v.WriteText("playbook/boss/profile.md", "Likes bread.")).To(Succeed())
			Expect(v.WriteText("playbook/personas/Ana/Ana.md", "Warm, curious.")).To(Succeed())
			Expect(v.WriteText("playbook/tools/calendar.md", "Has a calendar.")).To(Succeed())

			_, err := trims.Append(&journal.Trim{
				Timestamp:       time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC),
				Persona:         "Ana",
				BossInput:       "hi",
				PersonaResponse: "hello",
				Sentiment:       "neutral",
			})
			Expect(err).NotTo(HaveOccurred())

			b := builder.Build("Ana", "what's for dinner?")

			Expect(b.Instructions).To(Equal("Answer in three parts."))
			Expect(b.AuthorContext).To(ContainSubstring("--- FILE: profile.md ---"))
			Expect(b.AuthorContext).To(ContainSubstring("Likes bread."))
			Expect(b.PersonaContext).To(ContainSubstring("Warm, curious."))
			Expect(b.ToolsContext).To(ContainSubstring("Has a calendar."))
			Expect(b.JournalContext).To(ContainSubstring("Boss: hi"))
			Expect(b.Taxonomy).To(Equal("{}"))
			Expect(b.UserMessage).To(Equal("what's for dinner?"))
		})

		It("does not duplicate the instructions file into the tools section", func() {
			Expect(v.WriteText(vault.PathInstructions, "INSTRUCTIONS")).To(Succeed())
			Expect(v.WriteText("playbook/tools/calendar.md", "CAL")).To(Succeed())

			b := builder.Build("Ana", "q")

			Expect(b.ToolsContext).To(ContainSubstring("CAL"))
			Expect(b.ToolsContext).NotTo(ContainSubstring("INSTRUCTIONS"))
		})

		It("tolerates an empty vault", func() {
			b := builder.Build("Ana", "q")

			Expect(b.Instructions).To(BeEmpty())
			Expect(b.AuthorContext).To(BeEmpty())
			Expect(b.JournalContext).To(BeEmpty())
			Expect(b.Taxonomy).To(Equal("{}"))
		})

		It("renders newest trims first in the journal section", func() {
			for i, text := range []string{"oldest", "newest"} {
				_, err := trims.Append(&journal.Trim{
					Timestamp:       time.Date(2025, 7, 24, 14, i, 0, 0, time.UTC),
					Persona:         "Ana",
					BossInput:       text,
					PersonaResponse: "r",
				})
				Expect(err).NotTo(HaveOccurred())
			}

			b := builder.Build("Ana", "q")

			Expect(strings.Index(b.JournalContext, "newest")).
				To(BeNumerically("<", strings.Index(b.JournalContext, "oldest")))
		})

		It("uses the taxonomy's backing JSON verbatim", func() {
			store := taxonomy.NewStore(v)
			t := taxonomy.New()
			t.AddTopicPath([]string{"cooking", "baking"})
			Expect(store.Save(t)).To(Succeed())

			b := builder.Build("Ana", "q")

			Expect(b.Taxonomy).To(ContainSubstring(`"name": "cooking"`))
		})
	})

	Describe("rendering", func() {
		It("omits empty sections entirely", func() {
			Expect(v.WriteText(vault.PathInstructions, "Only instructions.")).To(Succeed())

			b := builder.Build("Ana", "q")
			prompt := b.SystemPrompt()

			Expect(prompt).To(ContainSubstring("## Instructions"))
			Expect(prompt).NotTo(ContainSubstring("## About Your Boss"))
			Expect(prompt).NotTo(ContainSubstring("## Recent Journal"))
		})

		It("keeps the fixed section order", func() {
			Expect(v.WriteText(vault.PathInstructions, "I")).To(Succeed())
			Expect(v.WriteText("playbook/boss/b.md", "B")).To(Succeed())
			Expect(v.WriteText("playbook/personas/Ana/Ana.md", "P")).To(Succeed())

			prompt := builder.Build("Ana", "q").SystemPrompt()

			Expect(strings.Index(prompt, "## Instructions")).
				To(BeNumerically("<", strings.Index(prompt, "## About Your Boss")))
			Expect(strings.Index(prompt, "## About Your Boss")).
				To(BeNumerically("<", strings.Index(prompt, "## Your Persona")))
		})

		It("excludes the user message from the system prompt but not the full render", func() {
			b := builder.Build("Ana", "the question")

			Expect(b.SystemPrompt()).NotTo(ContainSubstring("the question"))
			Expect(b.Render()).To(ContainSubstring("the question"))
		})
	})

	Describe("Validate", func() {
		It("reports a complete vault as clean", func() {
			Expect(v.WriteText(vault.PathInstructions, "I")).To(Succeed())
			Expect(v.WriteText("playbook/personas/Ana/Ana.md", "P")).To(Succeed())

			Expect(builder.Validate("Ana")).To(BeEmpty())
		})

		It("lists each missing piece", func() {
			issues := builder.Validate("Ana")

			Expect(issues).To(ContainElement(ContainSubstring("missing instructions file")))
			Expect(issues).To(ContainElement(ContainSubstring("missing persona directory")))
		})

		It("reports a persona directory without its primary note", func() {
			Expect(v.WriteText(vault.PathInstructions, "I")).To(Succeed())
			Expect(v.WriteText("playbook/personas/Ana/style.md", "S")).To(Succeed())

			issues := builder.Validate("Ana")

			Expect(issues).To(HaveLen(1))
			Expect(issues[0]).To(ContainSubstring("missing persona primary note"))
		})
	})
})
