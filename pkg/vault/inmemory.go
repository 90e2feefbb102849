package vault

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"
)

// InMemory implements Store using in-process data structures. It exists for
// tests and follows the same path semantics as the OS store.
type InMemory struct {
	mu    sync.RWMutex
	files map[string]memFile
	now   func() time.Time
}

type memFile struct {
	content string
	modTime time.Time
}

// NewInMemory creates an empty in-memory vault store.
func NewInMemory() *InMemory {
	return NewInMemoryWithClock(time.Now)
}

// NewInMemoryWithClock creates an in-memory store that stamps writes with
// times from the given clock. Tests inject a fake clock to control journal
// ordering.
func NewInMemoryWithClock(now func() time.Time) *InMemory {
	return &InMemory{
		files: make(map[string]memFile),
		now:   now,
	}
}

func (s *InMemory) ReadText(p string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[path.Clean(p)]
	if !ok {
		return "", ErrNotFound{Path: p}
	}

	return f.content, nil
}

func (s *InMemory) ReadJSON(p string, v any) error {
	text, err := s.ReadText(p)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("parsing %s: %w", p, err)
	}

	return nil
}

func (s *InMemory) WriteText(p string, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[path.Clean(p)] = memFile{
		content: content,
		modTime: s.now(),
	}

	return nil
}

func (s *InMemory) WriteJSON(p string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", p, err)
	}

	return s.WriteText(p, string(data))
}

func (s *InMemory) Exists(p string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clean := path.Clean(p)
	if _, ok := s.files[clean]; ok {
		return true
	}

	// Directories exist implicitly when any file lives under them.
	prefix := clean + "/"
	for name := range s.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

func (s *InMemory) List(dir string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clean := path.Clean(dir)
	prefix := clean + "/"

	var entries []Entry
	for name, f := range s.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		rest := strings.TrimPrefix(name, prefix)
		if strings.Contains(rest, "/") {
			// Nested file, not a direct child.
			continue
		}

		entries = append(entries, Entry{
			Name:    rest,
			ModTime: f.modTime,
		})
	}

	if entries == nil {
		return nil, ErrNotFound{Path: dir}
	}

	return entries, nil
}

// Ensure InMemory implements Store
var _ Store = (*InMemory)(nil)
