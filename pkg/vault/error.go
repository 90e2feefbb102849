package vault

// ErrNotFound is returned when a path doesn't exist in the vault.
type ErrNotFound struct {
	Path string
}

func (e ErrNotFound) Error() string {
	if e.Path == "" {
		return "vault path not found"
	}

	return "vault path not found: " + e.Path
}
