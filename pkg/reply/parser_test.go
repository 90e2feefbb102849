package reply_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/reply"
)

var _ = Describe("Parse", func() {
	Describe("strict grammar", func() {
		It("recovers all three authored sections verbatim", func() {
			raw := "---TAXONOMY_ANALYSIS---\n" +
				"TOPIC: cooking/baking\n" +
				"---MAIN_RESPONSE---\n" +
				"Here is how you bake bread.\n" +
				"---MACHINE_TRIM---\n" +
				"Explained bread baking.\n"

			parsed := reply.Parse(raw)

			Expect(parsed.TaxonomyAnalysis).To(Equal("TOPIC: cooking/baking"))
			Expect(parsed.MainResponse).To(Equal("Here is how you bake bread."))
			Expect(parsed.MachineTrim).To(Equal("Explained bread baking."))
			Expect(parsed.Degraded()).To(BeFalse())
		})

		It("is insensitive to marker order", func() {
			raw := "---MAIN_RESPONSE---\nAnswer.\n" +
				"---MACHINE_TRIM---\nTrim.\n" +
				"---TAXONOMY_ANALYSIS---\nTOPIC: a/b\n"

			parsed := reply.Parse(raw)

			Expect(parsed.MainResponse).To(Equal("Answer."))
			Expect(parsed.MachineTrim).To(Equal("Trim."))
			Expect(parsed.TaxonomyAnalysis).To(Equal("TOPIC: a/b"))
		})

		It("is insensitive to marker case", func() {
			raw := "---taxonomy_analysis---\nTOPIC: a/b\n" +
				"---Main_Response---\nHello.\n" +
				"---machine_trim---\nHi.\n"

			parsed := reply.Parse(raw)

			Expect(parsed.MainResponse).To(Equal("Hello."))
			Expect(parsed.Degraded()).To(BeFalse())
		})

		It("preserves a horizontal rule inside a section body", func() {
			raw := "---TAXONOMY_ANALYSIS---\nTOPIC: a/b\n" +
				"---MAIN_RESPONSE---\nabove\n---\nbelow\n" +
				"---MACHINE_TRIM---\nTrim.\n"

			parsed := reply.Parse(raw)

			Expect(parsed.MainResponse).To(Equal("above\n---\nbelow"))
		})

		It("discards preamble before the first marker", func() {
			raw := "Sure! Here you go:\n" +
				"---TAXONOMY_ANALYSIS---\nTOPIC: a/b\n" +
				"---MAIN_RESPONSE---\nHello.\n" +
				"---MACHINE_TRIM---\nHi.\n"

			parsed := reply.Parse(raw)

			Expect(parsed.MainResponse).To(Equal("Hello."))
			Expect(parsed.TaxonomyAnalysis).To(Equal("TOPIC: a/b"))
		})
	})

	Describe("fallback grammar", func() {
		It("handles a reply missing the taxonomy section", func() {
			parsed := reply.Parse("---MAIN_RESPONSE---\nHello\n---MACHINE_TRIM---\nHi")

			Expect(parsed.MainResponse).To(Equal("Hello"))
			Expect(parsed.MachineTrim).To(Equal("Hi"))
			Expect(parsed.TaxonomyAnalysis).To(Equal(reply.PlaceholderTaxonomyAnalysis))
			Expect(parsed.Degraded()).To(BeTrue())
		})

		It("yields a placeholder trim when the trim marker is missing", func() {
			parsed := reply.Parse("---MAIN_RESPONSE---\nJust an answer.")

			Expect(parsed.MainResponse).To(Equal("Just an answer."))
			Expect(parsed.MachineTrim).To(Equal(reply.PlaceholderMachineTrim))
		})

		It("treats marker-free text as the main response", func() {
			parsed := reply.Parse("  The model ignored the format entirely.  \n")

			Expect(parsed.MainResponse).To(Equal("The model ignored the format entirely."))
			Expect(parsed.TaxonomyAnalysis).To(Equal(reply.PlaceholderTaxonomyAnalysis))
			Expect(parsed.MachineTrim).To(Equal(reply.PlaceholderMachineTrim))
		})

		It("returns placeholders for empty input", func() {
			parsed := reply.Parse("")

			Expect(parsed.MainResponse).To(Equal(""))
			Expect(parsed.TaxonomyAnalysis).To(Equal(reply.PlaceholderTaxonomyAnalysis))
			Expect(parsed.MachineTrim).To(Equal(reply.PlaceholderMachineTrim))
		})

		It("preserves multi-byte characters byte-for-byte", func() {
			parsed := reply.Parse("---MAIN_RESPONSE---\nこんにちは 🌸 héllo\n---MACHINE_TRIM---\ngreeting")

			Expect(parsed.MainResponse).To(Equal("こんにちは 🌸 héllo"))
		})

		It("keeps section boundaries exact around runes whose upper case shrinks", func() {
			// "ı" (U+0131) is two bytes but uppercases to the one-byte "I",
			// so folding the whole reply would shift every later offset.
			parsed := reply.Parse("---MAIN_RESPONSE---\nı\n---MACHINE_TRIM---\nHi")

			Expect(parsed.MainResponse).To(Equal("ı"))
			Expect(parsed.MachineTrim).To(Equal("Hi"))
		})

		It("keeps section boundaries exact around runes whose upper case grows", func() {
			// "ﬁ" (U+FB01) uppercases to the two-character "FI".
			parsed := reply.Parse("---MAIN_RESPONSE---\nﬁne, thanks\n---MACHINE_TRIM---\nGreeting exchanged")

			Expect(parsed.MainResponse).To(Equal("ﬁne, thanks"))
			Expect(parsed.MachineTrim).To(Equal("Greeting exchanged"))
		})
	})
})
