package taxonomy_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/taxonomy"
	"github.com/quillhq/scribe/pkg/vault"
)

var _ = Describe("Evolver", func() {
	var (
		store   *taxonomy.Store
		evolver *taxonomy.Evolver
	)

	BeforeEach(func() {
		store = taxonomy.NewStore(vault.NewInMemory())
		evolver = taxonomy.NewEvolver(store, logger.Nop())
	})

	It("grows an empty taxonomy from directive lines", func() {
		analysis := "NEW_TOPIC: Cooking/Baking/Bread\n" +
			"NEW_DEPENDENCY: Baking -> Chemistry -> requires"

		Expect(evolver.Evolve(analysis)).To(Succeed())

		t, err := store.Load()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Topics).To(HaveLen(1))
		Expect(t.Topics[0].Name).To(Equal("Cooking"))
		Expect(t.Topics[0].Subcategories).To(HaveLen(1))
		Expect(t.Topics[0].Subcategories[0].Name).To(Equal("Baking"))
		Expect(t.Topics[0].Subcategories[0].Specifics).To(Equal([]string{"Bread"}))

		Expect(t.Dependencies).To(Equal([]taxonomy.Dependency{
			{Primary: "Baking", Secondary: "Chemistry", Relationship: "requires"},
		}))
	})

	It("is idempotent across repeated applications", func() {
		analysis := "NEW_TOPIC: Cooking/Baking/Bread\n" +
			"NEW_CONTEXT: Kitchen: where meals happen\n" +
			"NEW_DEPENDENCY: Baking -> Chemistry"

		Expect(evolver.Evolve(analysis)).To(Succeed())
		first, err := store.Load()
		Expect(err).NotTo(HaveOccurred())

		Expect(evolver.Evolve(analysis)).To(Succeed())
		second, err := store.Load()
		Expect(err).NotTo(HaveOccurred())

		Expect(second).To(Equal(first))
	})

	It("never removes existing entries", func() {
		Expect(evolver.Evolve("NEW_TOPIC: Music/Jazz/Bebop")).To(Succeed())
		Expect(evolver.Evolve("NEW_TOPIC: Music/Classical")).To(Succeed())

		t, err := store.Load()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.Topics).To(HaveLen(1))
		Expect(t.Topics[0].Subcategories).To(HaveLen(2))
		Expect(t.Topics[0].Subcategories[0].Specifics).To(Equal([]string{"Bebop"}))
	})

	It("defaults the dependency relationship", func() {
		Expect(evolver.Evolve("NEW_DEPENDENCY: Baking -> Chemistry")).To(Succeed())

		t, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Dependencies[0].Relationship).To(Equal(taxonomy.DefaultRelationship))
	})

	It("keeps the first dependency for a repeated pair", func() {
		Expect(evolver.Evolve("NEW_DEPENDENCY: A -> B -> requires")).To(Succeed())
		Expect(evolver.Evolve("NEW_DEPENDENCY: A -> B -> enables")).To(Succeed())

		t, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Dependencies).To(HaveLen(1))
		Expect(t.Dependencies[0].Relationship).To(Equal("requires"))
	})

	It("splits context descriptions on the first colon only", func() {
		Expect(evolver.Evolve("NEW_CONTEXT: Deploys: ratio is 2:1 on Fridays")).To(Succeed())

		t, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Contexts).To(Equal([]taxonomy.Context{
			{Name: "Deploys", Description: "ratio is 2:1 on Fridays"},
		}))
	})

	It("ignores a NEW_TOPIC with a single segment", func() {
		Expect(evolver.Evolve("NEW_TOPIC: Loneliness")).To(Succeed())

		t, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Topics).To(BeEmpty())
	})

	It("does not write when nothing changed", func() {
		v := vault.NewInMemory()
		store = taxonomy.NewStore(v)
		evolver = taxonomy.NewEvolver(store, logger.Nop())

		Expect(evolver.Evolve("just prose, no directives")).To(Succeed())
		Expect(v.Exists(vault.PathTaxonomy)).To(BeFalse())
	})
})

var _ = Describe("Store", func() {
	It("returns an empty taxonomy when the document is missing", func() {
		store := taxonomy.NewStore(vault.NewInMemory())

		t, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Topics).To(BeEmpty())
		Expect(t.Contexts).To(BeEmpty())
	})

	It("serializes the empty document with all four lists", func() {
		v := vault.NewInMemory()
		store := taxonomy.NewStore(v)

		Expect(store.Save(taxonomy.New())).To(Succeed())

		raw := store.RawJSON()
		Expect(raw).To(ContainSubstring(`"topics"`))
		Expect(raw).To(ContainSubstring(`"contexts"`))
		Expect(raw).To(ContainSubstring(`"dependencies"`))
		Expect(raw).To(ContainSubstring(`"relationships"`))
	})

	It("returns {} for RawJSON when no document exists", func() {
		store := taxonomy.NewStore(vault.NewInMemory())
		Expect(store.RawJSON()).To(Equal("{}"))
	})
})
