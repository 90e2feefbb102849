// Package vault provides read/write access to the persistent note vault.
//
// The vault is a directory tree holding playbook notes, the taxonomy
// document, and the journal/superjournal stores. The [Store] interface is
// the primitive every other component builds on: text and JSON reads and
// writes addressed by logical, slash-separated paths relative to the vault
// root.
//
// Implementations:
//   - [OS] — the real filesystem store rooted at a vault directory
//   - [InMemory] — an in-process store for tests
package vault

import "time"

// Entry describes a single file listed from a vault directory.
type Entry struct {
	// Name is the file name without any directory component.
	Name string

	// ModTime is the file's last modification time. Journal stores order
	// entries by it.
	ModTime time.Time
}

// Store is the read/write primitive for vault files.
// Paths are logical, slash-separated, and relative to the vault root.
type Store interface {
	// ReadText returns the contents of a text file.
	ReadText(path string) (string, error)

	// ReadJSON unmarshals a JSON file into v.
	ReadJSON(path string, v any) error

	// WriteText writes content to a file, creating parent directories as
	// needed.
	WriteText(path string, content string) error

	// WriteJSON marshals v as indented JSON and writes it to a file.
	WriteJSON(path string, v any) error

	// Exists reports whether a file or directory exists at the path.
	Exists(path string) bool

	// List returns the files directly under a directory. Subdirectories
	// are not descended into. A missing directory returns ErrNotFound.
	List(dir string) ([]Entry, error)
}
