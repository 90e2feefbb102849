// Package bundle assembles the per-turn context sent to the language model.
//
// A bundle is built fresh for every turn from the vault: the instructions
// file, author (boss) notes, persona notes, tool notes, the most recent
// journal trims, and the serialized taxonomy, followed by the user's
// message. Section order is fixed; empty sections are omitted entirely
// rather than rendered as empty headers.
package bundle

import "strings"

// Bundle is the assembled context for one turn. It is ephemeral and never
// persisted.
type Bundle struct {
	Instructions   string
	AuthorContext  string
	PersonaContext string
	ToolsContext   string
	JournalContext string
	Taxonomy       string
	UserMessage    string
}

// section pairs a fixed header with its content for rendering.
type section struct {
	header  string
	content string
}

func (b *Bundle) sections() []section {
	return []section{
		{"## Instructions", b.Instructions},
		{"## About Your Boss", b.AuthorContext},
		{"## Your Persona", b.PersonaContext},
		{"## Tools", b.ToolsContext},
		{"## Recent Journal", b.JournalContext},
		{"## Taxonomy", b.Taxonomy},
	}
}

// SystemPrompt renders every non-empty section except the user message.
// This is the variant handed to transports as the system prompt.
func (b *Bundle) SystemPrompt() string {
	parts := make([]string, 0, 6)
	for _, s := range b.sections() {
		if strings.TrimSpace(s.content) == "" {
			continue
		}
		parts = append(parts, s.header+"\n\n"+s.content)
	}

	return strings.Join(parts, "\n\n")
}

// Render returns the full bundle including the user message. Used for
// debugging and by transports that take a single prompt.
func (b *Bundle) Render() string {
	prompt := b.SystemPrompt()
	if b.UserMessage == "" {
		return prompt
	}

	if prompt == "" {
		return b.UserMessage
	}

	return prompt + "\n\n" + b.UserMessage
}
