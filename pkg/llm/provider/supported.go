package provider

import (
	"fmt"

	"github.com/quillhq/scribe/pkg/llm"
	"github.com/quillhq/scribe/pkg/llm/provider/anthropic"
	"github.com/quillhq/scribe/pkg/llm/provider/ollama"
	"github.com/quillhq/scribe/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	Anthropic = "anthropic"
	OpenAI    = "openai"
	Ollama    = "ollama"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Anthropic, OpenAI, Ollama}
}

// New creates a transport for the given provider type.
// Returns an error if the provider type is not recognized or the provider
// requires an API key and none is configured.
func New(providerType string, cfg Config) (llm.Transport, error) {
	switch providerType {
	case Anthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider %q requires an api key", providerType)
		}
		return anthropic.New(cfg.BaseURL, cfg.APIKey, cfg.HTTPClient), nil
	case OpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("provider %q requires an api key", providerType)
		}
		return openai.New(cfg.BaseURL, cfg.APIKey, cfg.HTTPClient), nil
	case Ollama:
		return ollama.New(cfg.BaseURL, cfg.HTTPClient), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", providerType, SupportedProviders())
	}
}
