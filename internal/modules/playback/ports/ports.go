// Package ports defines the interfaces the playback module depends on,
// keeping the engine decoupled from the event bus and transport
// implementations and enabling test doubles.
package ports

import "github.com/klovach/resound/internal/modules/playback/domain"

// EventPublisher publishes engine events for other components to consume.
// Implementations must not block the caller.
type EventPublisher interface {
	PublishQueueReplaced(event domain.QueueReplacedEvent)
	PublishPositionChanged(event domain.PositionChangedEvent)
}

// StatusSender delivers an encoded status report to the remote controllers.
type StatusSender interface {
	SendStatus(payload []byte) error
}
