package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockDispatcher implements Dispatcher for testing
type MockDispatcher struct {
	mu     sync.Mutex
	events []Event
}

// NewMockDispatcher creates a new mock dispatcher
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{
		events: make([]Event, 0),
	}
}

// Fire records the event instead of publishing it
func (m *MockDispatcher) Fire(_ context.Context, taskID uuid.UUID, kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{
		TaskID:  taskID,
		Kind:    kind,
		FiredAt: time.Now(),
	})
	return nil
}

func (m *MockDispatcher) Close() error {
	return nil
}

// FiredEvents returns all recorded events (for testing)
func (m *MockDispatcher) FiredEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// LastEvent returns the last recorded event (for testing)
func (m *MockDispatcher) LastEvent() *Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil
	}
	e := m.events[len(m.events)-1]
	return &e
}

// Clear clears all recorded events (for testing)
func (m *MockDispatcher) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = m.events[:0]
}
