package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OS implements Store against the real filesystem, rooted at a vault
// directory. All logical paths resolve inside the root; attempts to escape
// it are rejected.
type OS struct {
	root string
}

// NewOS creates a filesystem-backed vault store rooted at dir. The
// directory is created if it does not exist.
func NewOS(dir string) (*OS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving vault root: %w", err)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating vault root %s: %w", abs, err)
	}

	return &OS{root: abs}, nil
}

// Root returns the absolute vault root directory.
func (s *OS) Root() string {
	return s.root
}

// resolve maps a logical vault path to an absolute filesystem path,
// rejecting paths that resolve outside the root.
func (s *OS) resolve(path string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes vault root: %q", path)
	}

	return full, nil
}

func (s *OS) ReadText(path string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound{Path: path}
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	return string(data), nil
}

func (s *OS) ReadJSON(path string, v any) error {
	text, err := s.ReadText(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

func (s *OS) WriteText(path string, content string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func (s *OS) WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	return s.WriteText(path, string(data))
}

func (s *OS) Exists(path string) bool {
	full, err := s.resolve(path)
	if err != nil {
		return false
	}

	_, err = os.Stat(full)
	return err == nil
}

func (s *OS) List(dir string) ([]Entry, error) {
	full, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}

	dirents, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound{Path: dir}
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		if de.IsDir() {
			continue
		}

		info, err := de.Info()
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Name:    de.Name(),
			ModTime: info.ModTime(),
		})
	}

	return entries, nil
}

// Ensure OS implements Store
var _ Store = (*OS)(nil)
