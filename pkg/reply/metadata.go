package reply

import "strings"

// Metadata defaults applied when the analysis section omits a field.
var (
	DefaultTopicHierarchy = []string{"general", "conversation"}
	DefaultKeywords       = []string{"untagged"}
)

// DefaultSentiment is used when no sentiment line is found.
const DefaultSentiment = "neutral"

// Metadata is the structured indexing data extracted from a taxonomy
// analysis section.
type Metadata struct {
	// TopicHierarchy is the ordered topic path, e.g. ["cooking", "baking"].
	TopicHierarchy []string

	// Keywords tag the turn for retrieval.
	Keywords []string

	// Dependencies name related topics this turn depends on.
	Dependencies []string

	// Sentiment is a single word, e.g. "neutral", "curious".
	Sentiment string
}

// ExtractMetadata scans a taxonomy analysis section for topic, keyword,
// dependency, and sentiment lines. Each field is recognized by an exact
// prefix first (TOPIC:, KEYWORDS:, DEPENDENCIES:, SENTIMENT:) and by a
// looser contains-match only when the prefix form produced nothing.
//
// This is a best-effort parse of model-authored text: it never fails, it
// only degrades to defaults.
func ExtractMetadata(analysis string) Metadata {
	meta := Metadata{
		TopicHierarchy: DefaultTopicHierarchy,
		Keywords:       DefaultKeywords,
		Sentiment:      DefaultSentiment,
	}

	lines := strings.Split(analysis, "\n")

	if topic := findValue(lines, "TOPIC:", "topic hierarchy:"); topic != "" {
		if path := splitTrim(topic, "/"); len(path) > 0 {
			meta.TopicHierarchy = path
		}
	}

	if keywords := findValue(lines, "KEYWORDS:", "keywords:"); keywords != "" {
		keywords = strings.NewReplacer("[", "", "]", "").Replace(keywords)
		if kw := splitTrim(keywords, ","); len(kw) > 0 {
			meta.Keywords = kw
		}
	}

	if deps := findValue(lines, "DEPENDENCIES:", "dependencies:"); deps != "" {
		meta.Dependencies = splitTrim(deps, ",")
	}

	if sentiment := findValue(lines, "SENTIMENT:", "sentiment:"); sentiment != "" {
		meta.Sentiment = strings.ToLower(sentiment)
	}

	return meta
}

// findValue scans lines for the primary exact-prefix form, then falls back
// to the loose contains-form. Matching is case-insensitive; the returned
// value is everything after the matched label, trimmed.
func findValue(lines []string, prefix, loose string) string {
	upperPrefix := strings.ToUpper(prefix)
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToUpper(trimmed), upperPrefix) {
			if value := strings.TrimSpace(trimmed[len(prefix):]); value != "" {
				return value
			}
		}
	}

	lowerLoose := strings.ToLower(loose)
	for _, line := range lines {
		lower := strings.ToLower(line)
		if idx := strings.Index(lower, lowerLoose); idx >= 0 {
			if value := strings.TrimSpace(line[idx+len(loose):]); value != "" {
				return value
			}
		}
	}

	return ""
}

// splitTrim splits on sep, trims each part, and drops empties.
func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
