package anthropic_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quillhq/scribe/pkg/llm"
	"github.com/quillhq/scribe/pkg/llm/provider/anthropic"
)

func TestAnthropic(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Anthropic Suite")
}

var _ = Describe("Client", func() {
	var (
		server *httptest.Server
		client *anthropic.Client
		req    *llm.ChatRequest
	)

	BeforeEach(func() {
		req = &llm.ChatRequest{
			Model:  "claude-sonnet-4-5",
			System: "be brief",
			Messages: []llm.Message{
				{Role: llm.RoleUser, Content: "hi"},
			},
		}
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	Describe("Complete", func() {
		It("sends the messages request and concatenates text blocks", func() {
			var got map[string]any

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/v1/messages"))
				Expect(r.Header.Get("X-Api-Key")).To(Equal("key-123"))
				Expect(r.Header.Get("Anthropic-Version")).NotTo(BeEmpty())
				Expect(json.NewDecoder(r.Body).Decode(&got)).To(Succeed())

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{
					"type": "message",
					"content": [
						{"type": "text", "text": "hello "},
						{"type": "text", "text": "there"}
					],
					"stop_reason": "end_turn"
				}`))
			}))
			client = anthropic.New(server.URL, "key-123", nil)

			text, err := client.Complete(context.Background(), req)

			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("hello there"))
			Expect(got["model"]).To(Equal("claude-sonnet-4-5"))
			Expect(got["system"]).To(Equal("be brief"))
			Expect(got["max_tokens"]).To(BeNumerically(">", 0))
		})

		It("surfaces API errors with the provider message", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
			}))
			client = anthropic.New(server.URL, "bad-key", nil)

			_, err := client.Complete(context.Background(), req)

			Expect(err).To(MatchError(ContainSubstring("invalid x-api-key")))
		})
	})

	Describe("Stream", func() {
		It("delivers text deltas in order and stops at message_stop", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/event-stream")
				_, _ = w.Write([]byte(
					"event: message_start\ndata: {\"type\":\"message_start\"}\n\n" +
						"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"hel\"}}\n\n" +
						"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"lo\"}}\n\n" +
						"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n"))
			}))
			client = anthropic.New(server.URL, "key-123", nil)

			var deltas []string
			err := client.Stream(context.Background(), req, func(delta string) error {
				deltas = append(deltas, delta)
				return nil
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(deltas).To(Equal([]string{"hel", "lo"}))
		})

		It("returns the provider's stream error", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(
					"event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"overloaded\"}}\n\n"))
			}))
			client = anthropic.New(server.URL, "key-123", nil)

			err := client.Stream(context.Background(), req, func(string) error { return nil })

			Expect(err).To(MatchError(ContainSubstring("overloaded")))
		})

		It("stops when the delta callback errors", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(
					"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"x\"}}\n\n" +
						"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n"))
			}))
			client = anthropic.New(server.URL, "key-123", nil)

			sentinel := context.Canceled
			err := client.Stream(context.Background(), req, func(string) error { return sentinel })

			Expect(err).To(MatchError(sentinel))
		})
	})
})
