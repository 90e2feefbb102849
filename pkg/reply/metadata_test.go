package reply_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/reply"
)

var _ = Describe("ExtractMetadata", func() {
	It("returns defaults for empty input", func() {
		meta := reply.ExtractMetadata("")

		Expect(meta.TopicHierarchy).To(Equal([]string{"general", "conversation"}))
		Expect(meta.Keywords).To(Equal([]string{"untagged"}))
		Expect(meta.Dependencies).To(BeEmpty())
		Expect(meta.Sentiment).To(Equal("neutral"))
	})

	It("parses the primary prefix forms", func() {
		analysis := "TOPIC: cooking/baking/bread\n" +
			"KEYWORDS: sourdough, starter, hydration\n" +
			"DEPENDENCIES: chemistry, fermentation\n" +
			"SENTIMENT: curious\n"

		meta := reply.ExtractMetadata(analysis)

		Expect(meta.TopicHierarchy).To(Equal([]string{"cooking", "baking", "bread"}))
		Expect(meta.Keywords).To(Equal([]string{"sourdough", "starter", "hydration"}))
		Expect(meta.Dependencies).To(Equal([]string{"chemistry", "fermentation"}))
		Expect(meta.Sentiment).To(Equal("curious"))
	})

	It("strips brackets from keyword lists", func() {
		meta := reply.ExtractMetadata("KEYWORDS: [go, concurrency]")

		Expect(meta.Keywords).To(Equal([]string{"go", "concurrency"}))
	})

	It("matches prefixes case-insensitively", func() {
		meta := reply.ExtractMetadata("topic: a/b\nsentiment: Happy")

		Expect(meta.TopicHierarchy).To(Equal([]string{"a", "b"}))
		Expect(meta.Sentiment).To(Equal("happy"))
	})

	It("falls back to the loose contains form only when the prefix form is absent", func() {
		meta := reply.ExtractMetadata("The topic hierarchy: travel/japan fits best here.")

		Expect(meta.TopicHierarchy).To(Equal([]string{"travel", "japan fits best here."}))
	})

	It("prefers the prefix form over a loose match elsewhere", func() {
		analysis := "Some chatter about topic hierarchy: wrong/one\n" +
			"TOPIC: right/one\n"

		meta := reply.ExtractMetadata(analysis)

		Expect(meta.TopicHierarchy).To(Equal([]string{"right", "one"}))
	})

	It("ignores directive lines when extracting the topic", func() {
		analysis := "NEW_TOPIC: cooking/baking\nTOPIC: music/jazz"

		meta := reply.ExtractMetadata(analysis)

		Expect(meta.TopicHierarchy).To(Equal([]string{"music", "jazz"}))
	})

	It("drops empty path segments", func() {
		meta := reply.ExtractMetadata("TOPIC: a//b/")

		Expect(meta.TopicHierarchy).To(Equal([]string{"a", "b"}))
	})
})
