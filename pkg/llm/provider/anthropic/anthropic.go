// Package anthropic implements llm.Transport against the Anthropic
// Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/quillhq/scribe/pkg/llm"
	"github.com/quillhq/scribe/pkg/sse"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	// defaultMaxTokens bounds a single reply. The Messages API requires an
	// explicit value.
	defaultMaxTokens = 8192
)

// Client is an Anthropic Messages API client.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// New creates a client. An empty baseURL selects the hosted API; a nil
// httpc selects a default client without a timeout (streams are bounded by
// the request context).
func New(baseURL, apiKey string, httpc *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{}
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   httpc,
	}
}

// Complete sends a non-streaming messages request and returns the
// concatenated text blocks of the reply.
func (c *Client) Complete(ctx context.Context, req *llm.ChatRequest) (string, error) {
	resp, err := c.send(ctx, req, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding anthropic response: %w", err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return text.String(), nil
}

// Stream sends a streaming messages request and delivers text deltas to
// onDelta as they arrive.
func (c *Client) Stream(ctx context.Context, req *llm.ChatRequest, onDelta llm.DeltaFunc) error {
	resp, err := c.send(ctx, req, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reader := sse.NewReader(resp.Body)
	for {
		ev, err := reader.Next()
		if err != nil {
			return fmt.Errorf("reading anthropic stream: %w", err)
		}
		if ev == nil {
			return nil
		}

		switch ev.Type {
		case "content_block_delta":
			var event anthropicStreamEvent
			if err := json.Unmarshal([]byte(ev.Data), &event); err != nil {
				return fmt.Errorf("decoding anthropic stream event: %w", err)
			}
			if event.Delta.Type != "text_delta" {
				continue
			}
			if err := onDelta(event.Delta.Text); err != nil {
				return err
			}
		case "error":
			var event anthropicStreamEvent
			if err := json.Unmarshal([]byte(ev.Data), &event); err != nil {
				return fmt.Errorf("decoding anthropic stream error: %w", err)
			}
			return fmt.Errorf("anthropic stream error: %s: %s", event.Error.Type, event.Error.Message)
		case "message_stop":
			return nil
		default:
			// message_start, content_block_start, ping etc. carry no text.
		}
	}
}

func (c *Client) send(ctx context.Context, req *llm.ChatRequest, stream bool) (*http.Response, error) {
	body := anthropicRequest{
		Model:     req.Model,
		System:    req.System,
		MaxTokens: defaultMaxTokens,
		Stream:    stream,
	}
	for _, m := range req.Messages {
		body.Messages = append(body.Messages, anthropicMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building anthropic request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}

	return resp, nil
}

// apiError turns a non-2xx response into a descriptive error.
func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed anthropicErrorResponse
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Errorf("anthropic: %s: %s (status %d)", parsed.Error.Type, parsed.Error.Message, resp.StatusCode)
	}

	return fmt.Errorf("anthropic: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
