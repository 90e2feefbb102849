package journal

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/vault"
)

// SuperjournalStore persists full, unabridged turns under the superjournal
// directory. It is independent of the journal store: one may succeed while
// the other fails, and the two are never reconciled.
type SuperjournalStore struct {
	vault  vault.Store
	logger *zap.Logger
}

// NewSuperjournalStore creates a superjournal store over the given vault.
func NewSuperjournalStore(v vault.Store, logger *zap.Logger) *SuperjournalStore {
	return &SuperjournalStore{
		vault:  v,
		logger: logger,
	}
}

// Append writes a full turn to its timestamp-derived filename and returns
// the vault path written.
func (s *SuperjournalStore) Append(t *FullTurn) (string, error) {
	if t == nil {
		return "", errors.New("cannot append nil turn")
	}

	fields := []field{
		{"timestamp", t.Timestamp.Format(timestampLayout)},
		{"persona", t.Persona},
	}

	path := vault.DirSuperjournal + "/" + FullTurnPrefix + t.Timestamp.Format(filenameLayout) + ".md"
	doc := encodeDocument(fields, t.Persona, t.BossText, t.PersonaText)

	if err := s.vault.WriteText(path, doc); err != nil {
		return "", fmt.Errorf("appending full turn: %w", err)
	}

	return path, nil
}

// LoadRecent returns up to limit full turns, most recent first.
func (s *SuperjournalStore) LoadRecent(limit int) ([]*FullTurn, error) {
	entries, err := listByPrefix(s.vault, vault.DirSuperjournal, FullTurnPrefix)
	if err != nil {
		return nil, err
	}

	sortEntries(entries, false)
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return s.decodeEntries(entries)
}

// LoadAll returns every full turn, oldest first.
func (s *SuperjournalStore) LoadAll() ([]*FullTurn, error) {
	entries, err := listByPrefix(s.vault, vault.DirSuperjournal, FullTurnPrefix)
	if err != nil {
		return nil, err
	}

	sortEntries(entries, true)

	return s.decodeEntries(entries)
}

func (s *SuperjournalStore) decodeEntries(entries []vault.Entry) ([]*FullTurn, error) {
	turns := make([]*FullTurn, 0, len(entries))
	for _, e := range entries {
		text, err := s.vault.ReadText(vault.DirSuperjournal + "/" + e.Name)
		if err != nil {
			s.logger.Debug("skipping unreadable superjournal entry",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			continue
		}

		t, err := decodeFullTurn(text)
		if err != nil {
			s.logger.Debug("skipping malformed superjournal entry",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			continue
		}

		turns = append(turns, t)
	}

	return turns, nil
}

func decodeFullTurn(text string) (*FullTurn, error) {
	fields, body, err := parseDocument(text)
	if err != nil {
		return nil, err
	}

	persona := fields["persona"]
	if persona == "" {
		return nil, errors.New("entry has no persona")
	}

	ts, err := time.Parse(timestampLayout, fields["timestamp"])
	if err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}

	boss, personaText := parseTranscript(body, persona)

	return &FullTurn{
		Timestamp:   ts,
		Persona:     persona,
		BossText:    boss,
		PersonaText: personaText,
	}, nil
}
