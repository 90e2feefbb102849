package vault_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/logger"
	"github.com/quillhq/scribe/pkg/vault"
)

var _ = Describe("Watcher", func() {
	var (
		root    string
		store   *vault.OS
		changes chan string
		watcher *vault.Watcher
	)

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		Expect(os.MkdirAll(filepath.Join(root, "playbook", "boss"), 0o755)).To(Succeed())

		var err error
		store, err = vault.NewOS(root)
		Expect(err).NotTo(HaveOccurred())

		changes = make(chan string, 16)
		watcher, err = vault.Watch(store, vault.DirPlaybook, func(path string) {
			changes <- path
		}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(watcher.Close()).To(Succeed())
	})

	It("reports vault-relative paths for edited notes", func() {
		note := filepath.Join(root, "playbook", "boss", "likes.md")
		Expect(os.WriteFile(note, []byte("- sourdough\n"), 0o644)).To(Succeed())

		Eventually(changes, 2*time.Second).Should(Receive(Equal("playbook/boss/likes.md")))
	})

	It("fails when the watched directory does not exist", func() {
		_, err := vault.Watch(store, "no-such-dir", func(string) {}, logger.Nop())
		Expect(err).To(HaveOccurred())
	})
})
