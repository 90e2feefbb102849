package journal

import "strings"

// Markdown renders a trim for inclusion in a context bundle. The rendering
// deliberately avoids "---" lines so bundled trims can be joined with that
// separator without ambiguity.
func (t *Trim) Markdown() string {
	var b strings.Builder

	b.WriteString("**" + t.Timestamp.Format(timestampLayout) + "** | " + t.Persona)
	if len(t.TopicHierarchy) > 0 {
		b.WriteString(" | " + joinList(t.TopicHierarchy, " > "))
	}
	if t.Sentiment != "" {
		b.WriteString(" | " + t.Sentiment)
	}
	b.WriteString("\n\n")

	b.WriteString(bossSpeaker + ": " + t.BossInput + "\n\n")
	b.WriteString(t.Persona + ": " + t.PersonaResponse + "\n")

	return b.String()
}

// IndexText renders a trim for embedding into the vector store: the
// indexing metadata plus both sides of the exchange as plain text.
func (t *Trim) IndexText() string {
	parts := []string{
		joinList(t.TopicHierarchy, " > "),
		joinList(t.Keywords, ", "),
		t.BossInput,
		t.PersonaResponse,
	}

	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return strings.Join(nonEmpty, "\n")
}
