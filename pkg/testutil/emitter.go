package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/tangohub/backend/internal/domain/gameevent"
)

// MockEmitter collects emitted events in memory for assertions.
type MockEmitter struct {
	mutex  sync.Mutex
	events []gameevent.Event
}

func (m *MockEmitter) Emit(ctx context.Context, userID string, ev gameevent.Event) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.events = append(m.events, ev)
}

func (m *MockEmitter) Events() []gameevent.Event {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	events := make([]gameevent.Event, len(m.events))
	copy(events, m.events)
	return events
}

func (m *MockEmitter) EventsOf(op string) []gameevent.Event {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var events []gameevent.Event
	for _, ev := range m.events {
		if ev.Op() == op {
			events = append(events, ev)
		}
	}

	return events
}

type MockPointRecorder struct {
	IncreasePointsFunc func(ctx context.Context, userID string, value int, at time.Time) error
}

func (m *MockPointRecorder) IncreasePoints(
	ctx context.Context, userID string, value int, at time.Time,
) error {
	if m.IncreasePointsFunc != nil {
		return m.IncreasePointsFunc(ctx, userID, value, at)
	}

	return nil
}
