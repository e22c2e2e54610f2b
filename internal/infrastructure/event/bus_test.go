package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/awqaf/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) seen() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestInMemoryEventBus(t *testing.T) {
	newEvent := func(eventType string) shared.DomainEvent {
		e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New())
		return &e
	}

	t.Run("delivers to subscribed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"fiscal.period.closed"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newEvent("fiscal.period.closed")))
		assert.Equal(t, 1, handler.seen())
	})

	t.Run("skips handlers of other types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"distribution.batch.created"}}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newEvent("fiscal.period.closed")))
		assert.Equal(t, 0, handler.seen())
	})

	t.Run("wildcard handler receives everything", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{}
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(),
			newEvent("fiscal.period.closed"),
			newEvent("approval.request.escalated"),
		))
		assert.Equal(t, 2, handler.seen())
	})

	t.Run("a failing handler does not block the rest", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &recordingHandler{types: []string{"x"}, err: errors.New("boom")}
		healthy := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		require.NoError(t, bus.Publish(context.Background(), newEvent("x")))
		assert.Equal(t, 1, healthy.seen())
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &recordingHandler{types: []string{"x"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newEvent("x")))
		assert.Equal(t, 0, handler.seen())
	})
}
