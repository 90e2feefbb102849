package journal

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/quillhq/scribe/pkg/vault"
)

// JournalStore persists compact trims, one file per turn, under the
// journal directory.
type JournalStore struct {
	vault  vault.Store
	logger *zap.Logger
}

// NewJournalStore creates a journal store over the given vault.
func NewJournalStore(v vault.Store, logger *zap.Logger) *JournalStore {
	return &JournalStore{
		vault:  v,
		logger: logger,
	}
}

// Append writes a trim to its timestamp-derived filename and returns the
// vault path written. Two trims in the same minute share a filename and the
// later write wins.
func (s *JournalStore) Append(t *Trim) (string, error) {
	if t == nil {
		return "", errors.New("cannot append nil trim")
	}

	fields := []field{
		{"timestamp", t.Timestamp.Format(timestampLayout)},
		{"persona", t.Persona},
		{"topic_hierarchy", joinList(t.TopicHierarchy, " > ")},
		{"keywords", joinList(t.Keywords, ", ")},
		{"dependencies", joinList(t.Dependencies, ", ")},
		{"sentiment", t.Sentiment},
	}

	path := TrimPath(t.Timestamp)
	doc := encodeDocument(fields, t.Persona, t.BossInput, t.PersonaResponse)

	if err := s.vault.WriteText(path, doc); err != nil {
		return "", fmt.Errorf("appending trim: %w", err)
	}

	return path, nil
}

// TrimPath returns the vault path a trim with this timestamp writes to.
func TrimPath(ts time.Time) string {
	return vault.DirJournal + "/" + TrimPrefix + ts.Format(filenameLayout) + ".md"
}

// Load reads one trim by its vault path.
func (s *JournalStore) Load(path string) (*Trim, error) {
	text, err := s.vault.ReadText(path)
	if err != nil {
		return nil, fmt.Errorf("loading trim %s: %w", path, err)
	}

	return decodeTrim(text)
}

// LoadRecent returns up to limit trims, most recent first.
func (s *JournalStore) LoadRecent(limit int) ([]*Trim, error) {
	entries, err := listByPrefix(s.vault, vault.DirJournal, TrimPrefix)
	if err != nil {
		return nil, err
	}

	sortEntries(entries, false)
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return s.decodeEntries(entries)
}

// LoadAll returns every trim, oldest first.
func (s *JournalStore) LoadAll() ([]*Trim, error) {
	entries, err := listByPrefix(s.vault, vault.DirJournal, TrimPrefix)
	if err != nil {
		return nil, err
	}

	sortEntries(entries, true)

	return s.decodeEntries(entries)
}

// decodeEntries parses each listed file, skipping (not failing on) any that
// does not parse.
func (s *JournalStore) decodeEntries(entries []vault.Entry) ([]*Trim, error) {
	trims := make([]*Trim, 0, len(entries))
	for _, e := range entries {
		text, err := s.vault.ReadText(vault.DirJournal + "/" + e.Name)
		if err != nil {
			s.logger.Debug("skipping unreadable journal entry",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			continue
		}

		t, err := decodeTrim(text)
		if err != nil {
			s.logger.Debug("skipping malformed journal entry",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			continue
		}

		trims = append(trims, t)
	}

	return trims, nil
}

// decodeTrim parses one journal entry document back into a Trim.
func decodeTrim(text string) (*Trim, error) {
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

	boss, response := parseTranscript(body, persona)

	return &Trim{
		Timestamp:       ts,
		Persona:         persona,
		BossInput:       boss,
		PersonaResponse: response,
		TopicHierarchy:  splitList(fields["topic_hierarchy"], ">"),
		Keywords:        splitList(fields["keywords"], ","),
		Dependencies:    splitList(fields["dependencies"], ","),
		Sentiment:       fields["sentiment"],
	}, nil
}

// listByPrefix lists a store directory, keeping only entries with the given
// filename prefix. A missing directory yields an empty list.
func listByPrefix(v vault.Store, dir, prefix string) ([]vault.Entry, error) {
	entries, err := v.List(dir)
	if err != nil {
		var notFound vault.ErrNotFound
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}

	filtered := entries[:0]
	for _, e := range entries {
		if len(e.Name) > len(prefix) && e.Name[:len(prefix)] == prefix {
			filtered = append(filtered, e)
		}
	}

	return filtered, nil
}

// sortEntries orders by modification time, filename as tie-break since it
// embeds the timestamp.
func sortEntries(entries []vault.Entry, ascending bool) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].ModTime.Equal(entries[j].ModTime) {
			if ascending {
				return entries[i].ModTime.Before(entries[j].ModTime)
			}
			return entries[i].ModTime.After(entries[j].ModTime)
		}

		if ascending {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Name > entries[j].Name
	})
}
