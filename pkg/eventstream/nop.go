package eventstream

import "context"

// Nop is a publisher that discards every event. It is the default when no
// stream is configured.
type Nop struct{}

// NewNop creates a no-op publisher.
func NewNop() *Nop { return &Nop{} }

// Publish discards the event.
func (n *Nop) Publish(_ context.Context, _ *TurnRecordedEvent) error { return nil }

// Close is a no-op.
func (n *Nop) Close() error { return nil }
