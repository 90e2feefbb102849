package testutils

import (
	"context"

	"github.com/quillhq/scribe/pkg/memory"
)

// MockMemoryDriver is a test memory driver that records calls and returns
// configurable results.
type MockMemoryDriver struct {
	// Indexed accumulates path -> text for every Index call.
	Indexed map[string]string

	// RecallResults is returned by Recall for any query.
	RecallResults []memory.Recalled

	// FailIndex causes Index to return an error.
	FailIndex bool

	// FailRecall causes Recall to return an error.
	FailRecall bool
}

// NewMockMemoryDriver creates a new mock memory driver.
func NewMockMemoryDriver() *MockMemoryDriver {
	return &MockMemoryDriver{
		Indexed:       make(map[string]string),
		RecallResults: make([]memory.Recalled, 0),
	}
}

func (m *MockMemoryDriver) Index(_ context.Context, path, text string) error {
	if m.FailIndex {
		return memory.ErrNotConfigured
	}
	m.Indexed[path] = text
	return nil
}

func (m *MockMemoryDriver) Recall(_ context.Context, _ string, topK int) ([]memory.Recalled, error) {
	if m.FailRecall {
		return nil, memory.ErrNotConfigured
	}
	if len(m.RecallResults) > topK {
		return m.RecallResults[:topK], nil
	}
	return m.RecallResults, nil
}

func (m *MockMemoryDriver) Close() error {
	return nil
}
