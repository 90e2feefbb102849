package taxonomy

import (
	"strings"

	"go.uber.org/zap"
)

// Directive prefixes the model uses to grow the taxonomy.
const (
	directiveTopic      = "NEW_TOPIC:"
	directiveContext    = "NEW_CONTEXT:"
	directiveDependency = "NEW_DEPENDENCY:"
)

// DefaultRelationship labels a dependency when the directive omits one.
const DefaultRelationship = "depends on"

// Evolver interprets directive lines from a taxonomy analysis and merges
// them into the persistent taxonomy. All merges are additive and
// idempotent: applying the same analysis twice leaves the document
// unchanged the second time.
type Evolver struct {
	store  *Store
	logger *zap.Logger
}

// NewEvolver creates an evolver over the given store.
func NewEvolver(store *Store, logger *zap.Logger) *Evolver {
	return &Evolver{
		store:  store,
		logger: logger,
	}
}

// Evolve loads the current taxonomy, applies every directive line found in
// analysis, and saves the result as a single whole-document write. A load
// failure skips evolution entirely, leaving the existing document
// untouched. When no directive changes anything, no write happens.
func (e *Evolver) Evolve(analysis string) error {
	t, err := e.store.Load()
	if err != nil {
		e.logger.Warn("taxonomy load failed, skipping evolution", zap.Error(err))
		return nil
	}

	changed := false
	for _, line := range strings.Split(analysis, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, directiveTopic):
			if e.applyTopic(t, strings.TrimPrefix(trimmed, directiveTopic)) {
				changed = true
			}

		case strings.HasPrefix(trimmed, directiveContext):
			if e.applyContext(t, strings.TrimPrefix(trimmed, directiveContext)) {
				changed = true
			}

		case strings.HasPrefix(trimmed, directiveDependency):
			if e.applyDependency(t, strings.TrimPrefix(trimmed, directiveDependency)) {
				changed = true
			}
		}
	}

	if !changed {
		return nil
	}

	return e.store.Save(t)
}

// applyTopic handles "NEW_TOPIC: A/B[/C]". At least topic and subcategory
// are required; a third segment is a specific under that subcategory.
func (e *Evolver) applyTopic(t *Taxonomy, value string) bool {
	parts := strings.Split(value, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			segments = append(segments, s)
		}
	}

	if len(segments) < 2 {
		e.logger.Debug("ignoring NEW_TOPIC directive with too few segments",
			zap.String("value", strings.TrimSpace(value)),
		)
		return false
	}

	return t.AddTopicPath(segments)
}

// applyContext handles "NEW_CONTEXT: Name: Description", splitting on the
// first colon so descriptions may themselves contain colons.
func (e *Evolver) applyContext(t *Taxonomy, value string) bool {
	name, description, found := strings.Cut(value, ":")
	if !found {
		name = value
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	return t.AddContext(name, strings.TrimSpace(description))
}

// applyDependency handles "NEW_DEPENDENCY: A -> B [-> relationship]".
func (e *Evolver) applyDependency(t *Taxonomy, value string) bool {
	parts := strings.Split(value, "->")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			segments = append(segments, s)
		}
	}

	if len(segments) < 2 {
		e.logger.Debug("ignoring NEW_DEPENDENCY directive with too few segments",
			zap.String("value", strings.TrimSpace(value)),
		)
		return false
	}

	relationship := DefaultRelationship
	if len(segments) >= 3 {
		relationship = segments[2]
	}

	return t.AddDependency(segments[0], segments[1], relationship)
}
