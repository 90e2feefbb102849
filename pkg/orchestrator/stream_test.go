package orchestrator

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("streamAccumulator", func() {
	var (
		emitted strings.Builder
		acc     *streamAccumulator
	)

	BeforeEach(func() {
		emitted.Reset()
		acc = newStreamAccumulator(func(s string) { emitted.WriteString(s) })
	})

	feed := func(text string, chunkSize int) {
		for len(text) > 0 {
			n := chunkSize
			if n > len(text) {
				n = len(text)
			}
			acc.Add(text[:n])
			text = text[n:]
		}
	}

	It("emits only the main-response section", func() {
		raw := "---TAXONOMY_ANALYSIS---\nTOPIC: a > b\n---MAIN_RESPONSE---\nHello there.\n---MACHINE_TRIM---\nSummary.\n"
		feed(raw, 7)

		Expect(emitted.String()).To(Equal("Hello there.\n"))
		Expect(acc.Raw()).To(Equal(raw))
	})

	It("emits nothing before the main-response anchor arrives", func() {
		acc.Add("---TAXONOMY_ANALYSIS---\nTOPIC: a\n")

		Expect(emitted.String()).To(BeEmpty())
	})

	It("holds back bytes that could start a section anchor", func() {
		acc.Add("---MAIN_RESPONSE---\nHello")
		acc.Add("\n---MACHINE")

		// "\n" flushed with Hello is fine, but the partial anchor must not leak.
		Expect(emitted.String()).NotTo(ContainSubstring("MACHINE"))

		acc.Add("_TRIM---\nSummary")

		Expect(emitted.String()).To(Equal("Hello\n"))
	})

	It("releases a held-back tail that turns out not to be an anchor", func() {
		acc.Add("---MAIN_RESPONSE---\nuse --- for a rule")
		acc.Add(" in markdown.")
		acc.Add("\n---MACHINE_TRIM---\nS")

		Expect(emitted.String()).To(Equal("use --- for a rule in markdown.\n"))
	})

	It("matches anchors case-insensitively", func() {
		feed("---main_response---\nhi\n---machine_trim---\ns", 5)

		Expect(emitted.String()).To(Equal("hi\n"))
	})

	It("strips the whitespace between the anchor and the body", func() {
		feed("---MAIN_RESPONSE---\n\n  Hello\n---MACHINE_TRIM---\ns", 3)

		Expect(emitted.String()).To(Equal("Hello\n"))
	})

	It("stops at a taxonomy anchor when sections arrive out of order", func() {
		feed("---MAIN_RESPONSE---\nHello\n---TAXONOMY_ANALYSIS---\nTOPIC: a", 6)

		Expect(emitted.String()).To(Equal("Hello\n"))
	})

	It("keeps anchor offsets exact around runes whose upper case shrinks", func() {
		// "ı" (U+0131) is two bytes but uppercases to the one-byte "I";
		// anchor offsets must be found in the raw bytes, not a folded copy.
		feed("---MAIN_RESPONSE---\nkapı açık\n---MACHINE_TRIM---\nDoor noted", 6)

		Expect(emitted.String()).To(Equal("kapı açık\n"))
		Expect(emitted.String()).NotTo(ContainSubstring("-"))
	})

	It("emits nothing for a reply with no anchors", func() {
		feed("just a plain reply with no markers at all", 4)

		Expect(emitted.String()).To(BeEmpty())
		Expect(acc.Raw()).To(Equal("just a plain reply with no markers at all"))
	})
})
