// Package eventstream publishes turn-recorded events so external
// consumers (analytics, indexers) can follow the journal without polling
// the vault. Publishers are drivers; implementations live in subpackages.
package eventstream

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TurnRecordedEvent announces that one conversation turn was persisted to
// the journal.
type TurnRecordedEvent struct {
	EventID        string    `json:"event_id"`
	Timestamp      time.Time `json:"timestamp"`
	Persona        string    `json:"persona"`
	TrimPath       string    `json:"trim_path"`
	TopicHierarchy []string  `json:"topic_hierarchy"`
	Keywords       []string  `json:"keywords"`
	Sentiment      string    `json:"sentiment"`
	Degraded       bool      `json:"degraded"`
}

// NewTurnRecordedEvent stamps a fresh event with a unique ID.
func NewTurnRecordedEvent(timestamp time.Time, persona, trimPath string) *TurnRecordedEvent {
	return &TurnRecordedEvent{
		EventID:   uuid.NewString(),
		Timestamp: timestamp,
		Persona:   persona,
		TrimPath:  trimPath,
	}
}

// Publisher delivers events to an external stream. Publish failures are
// advisory; callers log and continue, the journal stays the source of
// truth.
type Publisher interface {
	Publish(ctx context.Context, event *TurnRecordedEvent) error
	Close() error
}
