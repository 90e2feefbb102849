package llm

import (
	"fmt"
	"strings"
)

// ModelKey identifies a model as "provider:model". The model part may
// itself contain colons (Ollama tags like "gemma3:latest"), so parsing
// splits on the first colon only.
type ModelKey struct {
	Provider string
	Model    string
}

// ParseModelKey parses a caller-selected model key. A malformed key is a
// configuration error, fatal for the turn.
func ParseModelKey(key string) (ModelKey, error) {
	provider, model, found := strings.Cut(key, ":")

	provider = strings.TrimSpace(provider)
	model = strings.TrimSpace(model)

	if !found || provider == "" || model == "" {
		return ModelKey{}, fmt.Errorf("malformed model key %q: want \"provider:model\"", key)
	}

	return ModelKey{Provider: provider, Model: model}, nil
}

// String renders the key back to its wire form.
func (k ModelKey) String() string {
	return k.Provider + ":" + k.Model
}
