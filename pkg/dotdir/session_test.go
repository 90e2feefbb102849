package dotdir_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/dotdir"
)

var _ = Describe("Manager session", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-session-test-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	Describe("LoadSessionState", func() {
		It("returns nil when no session file exists", func() {
			state, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("loads a valid session state", func() {
			data := `{"persona":"Ana","model_key":"ollama:gemma3:latest","updated_at":"2025-07-24T14:09:00Z"}`
			err := os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte(data), 0o600)
			Expect(err).NotTo(HaveOccurred())

			state, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).NotTo(BeNil())
			Expect(state.Persona).To(Equal("Ana"))
			Expect(state.ModelKey).To(Equal("ollama:gemma3:latest"))
		})

		It("rejects malformed session files", func() {
			err := os.WriteFile(filepath.Join(tmpDir, "session.json"), []byte("{nope"), 0o600)
			Expect(err).NotTo(HaveOccurred())

			_, err = m.LoadSessionState(tmpDir)
			Expect(err).To(MatchError(ContainSubstring("parsing session state")))
		})
	})

	Describe("SaveSession", func() {
		It("round-trips the session state", func() {
			saved := &dotdir.SessionState{
				Persona:   "Ana",
				ModelKey:  "anthropic:claude-sonnet-4-5",
				UpdatedAt: time.Date(2025, 7, 24, 14, 9, 0, 0, time.UTC),
			}
			Expect(m.SaveSession(saved, tmpDir)).To(Succeed())

			loaded, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(saved))
		})

		It("rejects a nil state", func() {
			Expect(m.SaveSession(nil, tmpDir)).To(MatchError(ContainSubstring("nil session state")))
		})
	})

	Describe("ClearSession", func() {
		It("removes an existing session file", func() {
			Expect(m.SaveSession(&dotdir.SessionState{Persona: "Ana"}, tmpDir)).To(Succeed())
			Expect(m.ClearSession(tmpDir)).To(Succeed())

			state, err := m.LoadSessionState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("is a no-op when no session file exists", func() {
			Expect(m.ClearSession(tmpDir)).To(Succeed())
		})
	})
})
