package local_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/memory"
	"github.com/quillhq/scribe/pkg/memory/local"
)

func TestLocal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Local Memory Suite")
}

var _ = Describe("Driver", func() {
	var (
		driver *local.Driver
		ctx    context.Context
	)

	BeforeEach(func() {
		driver = local.NewDriver(local.Config{Enabled: true})
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(driver.Close()).To(Succeed())
	})

	It("should implement memory.Driver", func() {
		var _ memory.Driver = (*local.Driver)(nil)
	})

	Describe("Recall", func() {
		BeforeEach(func() {
			Expect(driver.Index(ctx, "journal/Trim-2025-07-24-1409.md",
				"Boss asked about sourdough starters and hydration ratios")).To(Succeed())
			Expect(driver.Index(ctx, "journal/Trim-2025-07-24-1512.md",
				"Planning a hiking trip through the Dolomites in September")).To(Succeed())
			Expect(driver.Index(ctx, "journal/Trim-2025-07-25-0930.md",
				"Sourdough bake results: crumb too dense, try longer proof")).To(Succeed())
		})

		It("returns matching trims best first", func() {
			hits, err := driver.Recall(ctx, "sourdough hydration", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(2))
			Expect(hits[0].Path).To(Equal("journal/Trim-2025-07-24-1409.md"))
			Expect(hits[0].Score).To(BeNumerically(">", hits[1].Score))
			Expect(hits[1].Path).To(Equal("journal/Trim-2025-07-25-0930.md"))
		})

		It("matches case-insensitively", func() {
			hits, err := driver.Recall(ctx, "DOLOMITES", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(1))
			Expect(hits[0].Path).To(Equal("journal/Trim-2025-07-24-1512.md"))
		})

		It("caps results at topK", func() {
			hits, err := driver.Recall(ctx, "sourdough", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(1))
		})

		It("returns nothing for an unmatched query", func() {
			hits, err := driver.Recall(ctx, "quantum chromodynamics", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(BeEmpty())
		})

		It("returns nothing for an empty query", func() {
			hits, err := driver.Recall(ctx, "   ", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(BeEmpty())
		})
	})

	Describe("Index", func() {
		It("replaces text when a path is re-indexed", func() {
			Expect(driver.Index(ctx, "journal/Trim-a.md", "old topic gardening")).To(Succeed())
			Expect(driver.Index(ctx, "journal/Trim-a.md", "new topic astronomy")).To(Succeed())

			hits, err := driver.Recall(ctx, "gardening", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(BeEmpty())

			hits, err = driver.Recall(ctx, "astronomy", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(HaveLen(1))
		})
	})

	Describe("when disabled", func() {
		BeforeEach(func() {
			driver = local.NewDriver(local.Config{Enabled: false})
		})

		It("indexes nothing and recalls nothing", func() {
			Expect(driver.Index(ctx, "journal/Trim-a.md", "sourdough")).To(Succeed())

			hits, err := driver.Recall(ctx, "sourdough", 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(hits).To(BeEmpty())
		})
	})
})
