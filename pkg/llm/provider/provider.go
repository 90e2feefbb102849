// Package provider constructs llm.Transport implementations for the
// supported LLM backends.
package provider

import "net/http"

// Config carries connection settings for a provider client. Zero values
// select the provider's defaults.
type Config struct {
	// BaseURL overrides the provider's default API endpoint. Useful for
	// proxies and self-hosted gateways.
	BaseURL string

	// APIKey authenticates hosted providers. Ollama ignores it.
	APIKey string

	// HTTPClient overrides the default client. Streaming calls rely on the
	// request context for cancellation, so the default carries no timeout.
	HTTPClient *http.Client
}
