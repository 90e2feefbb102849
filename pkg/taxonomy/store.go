package taxonomy

import (
	"errors"
	"fmt"

	"github.com/quillhq/scribe/pkg/vault"
)

// Store loads and saves the taxonomy document in the vault. The document is
// always read fresh and written back whole; there are no partial writes.
type Store struct {
	vault vault.Store
}

// NewStore creates a taxonomy store over the given vault.
func NewStore(v vault.Store) *Store {
	return &Store{vault: v}
}

// Load reads the current taxonomy. A missing document yields an empty
// taxonomy, not an error.
func (s *Store) Load() (*Taxonomy, error) {
	t := New()

	err := s.vault.ReadJSON(vault.PathTaxonomy, t)
	if err != nil {
		var notFound vault.ErrNotFound
		if errors.As(err, &notFound) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading taxonomy: %w", err)
	}

	// Tolerate hand-edited documents with omitted lists.
	if t.Topics == nil {
		t.Topics = []Topic{}
	}
	if t.Contexts == nil {
		t.Contexts = []Context{}
	}
	if t.Dependencies == nil {
		t.Dependencies = []Dependency{}
	}
	if t.Relationships == nil {
		t.Relationships = []Relationship{}
	}

	return t, nil
}

// Save overwrites the taxonomy document atomically as a whole.
func (s *Store) Save(t *Taxonomy) error {
	if t == nil {
		return errors.New("cannot save nil taxonomy")
	}

	if err := s.vault.WriteJSON(vault.PathTaxonomy, t); err != nil {
		return fmt.Errorf("saving taxonomy: %w", err)
	}

	return nil
}

// RawJSON returns the backing JSON text of the taxonomy document, or "{}"
// when no document exists yet. The bundle builder serializes the taxonomy
// into the context this way, byte-for-byte.
func (s *Store) RawJSON() string {
	text, err := s.vault.ReadText(vault.PathTaxonomy)
	if err != nil {
		return "{}"
	}

	return text
}
