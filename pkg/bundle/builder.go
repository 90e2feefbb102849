package bundle

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/journal"
	"github.com/quillhq/scribe/pkg/taxonomy"
	"github.com/quillhq/scribe/pkg/vault"
)

// DefaultRecentTrims is how many journal trims a bundle carries unless
// configured otherwise.
const DefaultRecentTrims = 20

// trimSeparator joins rendered journal trims inside the journal section.
const trimSeparator = "\n---\n"

// Builder assembles bundles from the vault. Loads are tolerant: a missing
// file or directory yields an empty section, never an error, so a sparse
// vault still produces a usable bundle.
type Builder struct {
	vault       vault.Store
	journals    *journal.JournalStore
	taxonomies  *taxonomy.Store
	recentTrims int
	logger      *zap.Logger
}

// NewBuilder creates a bundle builder. recentTrims <= 0 selects
// DefaultRecentTrims.
func NewBuilder(v vault.Store, journals *journal.JournalStore, taxonomies *taxonomy.Store, recentTrims int, logger *zap.Logger) *Builder {
	if recentTrims <= 0 {
		recentTrims = DefaultRecentTrims
	}

	return &Builder{
		vault:       v,
		journals:    journals,
		taxonomies:  taxonomies,
		recentTrims: recentTrims,
		logger:      logger,
	}
}

// Build assembles a fresh bundle for one turn.
func (b *Builder) Build(persona, userMessage string) *Bundle {
	instructions, err := b.vault.ReadText(vault.PathInstructions)
	if err != nil {
		b.logger.Debug("no instructions file", zap.Error(err))
		instructions = ""
	}

	return &Bundle{
		Instructions:   instructions,
		AuthorContext:  b.loadNotes(vault.DirBoss),
		PersonaContext: b.loadNotes(vault.PersonaDir(persona)),
		ToolsContext:   b.loadNotes(vault.DirTools),
		JournalContext: b.loadJournal(),
		Taxonomy:       b.taxonomies.RawJSON(),
		UserMessage:    userMessage,
	}
}

// Validate returns human-readable gaps in the vault for the given persona.
// It never fails; the orchestrator logs the issues and proceeds with
// best-effort content.
func (b *Builder) Validate(persona string) []string {
	var issues []string

	if !b.vault.Exists(vault.PathInstructions) {
		issues = append(issues, "missing instructions file: "+vault.PathInstructions)
	}

	personaDir := vault.PersonaDir(persona)
	if !b.vault.Exists(personaDir) {
		issues = append(issues, "missing persona directory: "+personaDir)
		return issues
	}

	primary := personaDir + "/" + persona + ".md"
	if !b.vault.Exists(primary) {
		issues = append(issues, "missing persona primary note: "+primary)
	}

	return issues
}

// loadNotes concatenates every markdown file in a directory, each preceded
// by a FILE marker, ordered by filename. A missing directory is an empty
// section.
func (b *Builder) loadNotes(dir string) string {
	entries, err := b.vault.List(dir)
	if err != nil {
		var notFound vault.ErrNotFound
		if !errors.As(err, &notFound) {
			b.logger.Warn("listing notes failed", zap.String("dir", dir), zap.Error(err))
		}
		return ""
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	var parts []string
	for _, e := range entries {
		if !strings.HasSuffix(e.Name, ".md") {
			continue
		}

		// The instructions file lives in the tools directory but is its
		// own bundle section; don't duplicate it here.
		path := dir + "/" + e.Name
		if path == vault.PathInstructions {
			continue
		}

		content, err := b.vault.ReadText(path)
		if err != nil {
			b.logger.Warn("reading note failed", zap.String("path", path), zap.Error(err))
			continue
		}

		parts = append(parts, fmt.Sprintf("--- FILE: %s ---\n%s", e.Name, content))
	}

	return strings.Join(parts, "\n\n")
}

// loadJournal renders the most recent trims, newest first, joined with a
// horizontal-rule separator.
func (b *Builder) loadJournal() string {
	trims, err := b.journals.LoadRecent(b.recentTrims)
	if err != nil {
		b.logger.Warn("loading recent trims failed", zap.Error(err))
		return ""
	}

	if len(trims) == 0 {
		return ""
	}

	parts := make([]string, 0, len(trims))
	for _, t := range trims {
		parts = append(parts, t.Markdown())
	}

	return strings.Join(parts, trimSeparator)
}
