package llm

import "context"

// DeltaFunc receives one reply fragment. Returning an error aborts the
// stream; the transport surfaces that error from Stream.
type DeltaFunc func(delta string) error

// Transport performs the actual model call. Implementations live in
// pkg/llm/provider; tests substitute in-process fakes.
//
// Transports do not retry: a failed call is failed. Retry and backoff are
// the caller's concern, and the orchestrator deliberately treats a
// transport failure as fatal for the turn.
type Transport interface {
	// Complete sends the request and blocks until the full reply text is
	// available.
	Complete(ctx context.Context, req *ChatRequest) (string, error)

	// Stream sends the request and delivers reply fragments to onDelta in
	// arrival order. It returns once the provider signals completion, the
	// context is cancelled, or onDelta returns an error.
	Stream(ctx context.Context, req *ChatRequest, onDelta DeltaFunc) error
}
