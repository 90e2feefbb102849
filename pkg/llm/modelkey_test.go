package llm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/llm"
)

var _ = Describe("ParseModelKey", func() {
	It("splits provider and model on the first colon", func() {
		key, err := llm.ParseModelKey("anthropic:claude-sonnet-4-5")

		Expect(err).NotTo(HaveOccurred())
		Expect(key.Provider).To(Equal("anthropic"))
		Expect(key.Model).To(Equal("claude-sonnet-4-5"))
	})

	It("keeps colons inside the model part", func() {
		key, err := llm.ParseModelKey("ollama:gemma3:latest")

		Expect(err).NotTo(HaveOccurred())
		Expect(key.Provider).To(Equal("ollama"))
		Expect(key.Model).To(Equal("gemma3:latest"))
	})

	It("rejects a key without a colon", func() {
		_, err := llm.ParseModelKey("gpt-4o")

		Expect(err).To(MatchError(ContainSubstring("malformed model key")))
	})

	It("rejects an empty provider or model", func() {
		_, err := llm.ParseModelKey(":gpt-4o")
		Expect(err).To(HaveOccurred())

		_, err = llm.ParseModelKey("openai:")
		Expect(err).To(HaveOccurred())
	})

	It("round-trips through String", func() {
		key, err := llm.ParseModelKey("openai:gpt-4o")

		Expect(err).NotTo(HaveOccurred())
		Expect(key.String()).To(Equal("openai:gpt-4o"))
	})
})
