package journal

import (
	"fmt"
	"strings"
)

const frontMatterDelimiter = "---"

// field is one ordered front-matter key:value pair. Order is preserved on
// encode so written files are stable and diffable.
type field struct {
	key   string
	value string
}

// encodeDocument renders a front-matter block followed by a two-speaker
// transcript. Empty-valued fields are still written so the document shape
// stays fixed.
func encodeDocument(fields []field, persona, bossText, personaText string) string {
	var b strings.Builder

	b.WriteString(frontMatterDelimiter + "\n")
	for _, f := range fields {
		b.WriteString(f.key + ": " + f.value + "\n")
	}
	b.WriteString(frontMatterDelimiter + "\n")

	b.WriteString("\n")
	b.WriteString(bossSpeaker + ": " + bossText + "\n")
	b.WriteString("\n")
	b.WriteString(persona + ": " + personaText + "\n")

	return b.String()
}

// parseDocument splits an entry file into its front-matter fields and body.
// The document must open with a delimiter line and contain a closing one.
func parseDocument(text string) (map[string]string, string, error) {
	lines := strings.Split(text, "\n")

	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontMatterDelimiter {
		return nil, "", fmt.Errorf("missing front matter opening delimiter")
	}

	fields := make(map[string]string)
	bodyStart := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelimiter {
			bodyStart = i + 1
			break
		}

		key, value, found := strings.Cut(lines[i], ":")
		if !found {
			// Tolerate stray lines inside the block rather than failing
			// the whole entry.
			continue
		}

		fields[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if bodyStart < 0 {
		return nil, "", fmt.Errorf("missing front matter closing delimiter")
	}

	return fields, strings.Join(lines[bodyStart:], "\n"), nil
}

// parseTranscript reconstructs the two speakers' multi-line messages from a
// document body. Every non-marker line after a detected speaker line is
// appended to that speaker's message until the next recognized marker.
func parseTranscript(body, persona string) (bossText, personaText string) {
	bossMarker := bossSpeaker + ":"
	personaMarker := persona + ":"

	var current *strings.Builder
	var boss, reply strings.Builder

	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(line, bossMarker):
			current = &boss
			current.WriteString(strings.TrimSpace(strings.TrimPrefix(line, bossMarker)))

		case strings.HasPrefix(line, personaMarker):
			current = &reply
			current.WriteString(strings.TrimSpace(strings.TrimPrefix(line, personaMarker)))

		case current != nil:
			current.WriteString("\n")
			current.WriteString(line)
		}
	}

	return strings.TrimSpace(boss.String()), strings.TrimSpace(reply.String())
}

// joinList and splitList serialize list-valued front-matter fields.
func joinList(values []string, sep string) string {
	return strings.Join(values, sep)
}

func splitList(value, sep string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
