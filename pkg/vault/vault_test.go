package vault_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/vault"
)

// storeFactory lets the same specs run against both implementations.
type storeFactory func() vault.Store

var _ = Describe("Store implementations", func() {
	newOS := func() vault.Store {
		s, err := vault.NewOS(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	newInMemory := func() vault.Store {
		return vault.NewInMemory()
	}

	for name, factory := range map[string]storeFactory{
		"OS":       newOS,
		"InMemory": newInMemory,
	} {
		Describe(name, func() {
			var store vault.Store

			BeforeEach(func() {
				store = factory()
			})

			It("round-trips text", func() {
				Expect(store.WriteText("playbook/boss/profile.md", "# Boss\n")).To(Succeed())

				text, err := store.ReadText("playbook/boss/profile.md")
				Expect(err).NotTo(HaveOccurred())
				Expect(text).To(Equal("# Boss\n"))
			})

			It("round-trips JSON", func() {
				in := map[string]any{"topics": []any{"cooking"}}
				Expect(store.WriteJSON("playbook/tools/taxonomy.json", in)).To(Succeed())

				var out map[string]any
				Expect(store.ReadJSON("playbook/tools/taxonomy.json", &out)).To(Succeed())
				Expect(out).To(HaveKey("topics"))
			})

			It("returns ErrNotFound for missing files", func() {
				_, err := store.ReadText("nope.md")
				Expect(err).To(BeAssignableToTypeOf(vault.ErrNotFound{}))
			})

			It("reports existence", func() {
				Expect(store.Exists("journal/x.md")).To(BeFalse())
				Expect(store.WriteText("journal/x.md", "hi")).To(Succeed())
				Expect(store.Exists("journal/x.md")).To(BeTrue())
			})

			It("lists direct children only", func() {
				Expect(store.WriteText("playbook/personas/Ana/core.md", "a")).To(Succeed())
				Expect(store.WriteText("playbook/personas/Ana/style.md", "b")).To(Succeed())
				Expect(store.WriteText("playbook/personas/Ana/old/v1.md", "c")).To(Succeed())

				entries, err := store.List("playbook/personas/Ana")
				Expect(err).NotTo(HaveOccurred())

				names := make([]string, 0, len(entries))
				for _, e := range entries {
					names = append(names, e.Name)
				}
				Expect(names).To(ConsistOf("core.md", "style.md"))
			})

			It("returns ErrNotFound when listing a missing directory", func() {
				_, err := store.List("playbook/personas/Nobody")
				Expect(err).To(BeAssignableToTypeOf(vault.ErrNotFound{}))
			})
		})
	}
})

var _ = Describe("InMemory clock", func() {
	It("stamps writes with the injected clock", func() {
		t0 := time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC)
		current := t0
		store := vault.NewInMemoryWithClock(func() time.Time {
			current = current.Add(time.Minute)
			return current
		})

		Expect(store.WriteText("journal/a.md", "a")).To(Succeed())
		Expect(store.WriteText("journal/b.md", "b")).To(Succeed())

		entries, err := store.List("journal")
		Expect(err).NotTo(HaveOccurred())
		Expect(entries).To(HaveLen(2))

		byName := map[string]time.Time{}
		for _, e := range entries {
			byName[e.Name] = e.ModTime
		}
		Expect(byName["b.md"].After(byName["a.md"])).To(BeTrue())
	})
})
