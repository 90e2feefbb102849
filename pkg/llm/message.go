// Package llm defines the provider-agnostic chat types and the transport
// interface the orchestrator dispatches model calls through.
package llm

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation message. Content is plain text; the
// engine's wire contract with the model is purely textual.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a provider-agnostic chat completion request.
type ChatRequest struct {
	// Model name as the provider knows it (e.g. "claude-sonnet-4-5",
	// "gpt-4o", "gemma3:latest").
	Model string `json:"model"`

	// System prompt; providers that carry it inside the message list
	// convert it themselves.
	System string `json:"system,omitempty"`

	// Conversation messages, oldest first.
	Messages []Message `json:"messages"`
}
