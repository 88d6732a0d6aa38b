package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/klovach/resound/internal/modules/playback/domain"
	"github.com/klovach/resound/internal/modules/playback/ports"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 64

// Compile-time check that EventBus implements the publisher port.
var _ ports.EventPublisher = (*EventBus)(nil)

// EventBus is a channel-based event bus for the playback module. Publishing
// never blocks: if a buffer is full the event is dropped with a warning,
// which keeps the engine's update path free of backpressure from slow
// consumers.
type EventBus struct {
	queueReplaced   chan domain.QueueReplacedEvent
	positionChanged chan domain.PositionChangedEvent

	queueReplacedHandlers   []func(context.Context, domain.QueueReplacedEvent)
	positionChangedHandlers []func(context.Context, domain.PositionChangedEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewEventBus creates an EventBus with the given buffer size and starts its
// dispatcher goroutines.
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := &EventBus{
		queueReplaced:   make(chan domain.QueueReplacedEvent, bufferSize),
		positionChanged: make(chan domain.PositionChangedEvent, bufferSize),
		ctx:             ctx,
		cancel:          cancel,
	}

	bus.wg.Add(2)
	go bus.dispatchQueueReplaced()
	go bus.dispatchPositionChanged()

	return bus
}

func (b *EventBus) dispatchQueueReplaced() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.queueReplaced:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.queueReplacedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *EventBus) dispatchPositionChanged() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.positionChanged:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.positionChangedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

// PublishQueueReplaced publishes a QueueReplacedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *EventBus) PublishQueueReplaced(event domain.QueueReplacedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "QueueReplaced")
		return
	}

	select {
	case b.queueReplaced <- event:
		slog.Debug("published event", "type", "QueueReplaced", "queue_id", event.QueueID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "QueueReplaced")
	}
}

// PublishPositionChanged publishes a PositionChangedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *EventBus) PublishPositionChanged(event domain.PositionChangedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "PositionChanged")
		return
	}

	select {
	case b.positionChanged <- event:
		slog.Debug("published event", "type", "PositionChanged", "queue_id", event.QueueID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "PositionChanged")
	}
}

// OnQueueReplaced registers a handler for QueueReplacedEvent.
func (b *EventBus) OnQueueReplaced(handler func(context.Context, domain.QueueReplacedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queueReplacedHandlers = append(b.queueReplacedHandlers, handler)
}

// OnPositionChanged registers a handler for PositionChangedEvent.
func (b *EventBus) OnPositionChanged(handler func(context.Context, domain.PositionChangedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.positionChangedHandlers = append(b.positionChangedHandlers, handler)
}

// Close stops the dispatchers and closes the event channels. Publishing after
// Close is a no-op.
func (b *EventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	close(b.queueReplaced)
	close(b.positionChanged)
	b.wg.Wait()

	slog.Debug("playback event bus closed")
}
