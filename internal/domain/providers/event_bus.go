package providers

import (
	"context"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
)

// EventChannelDirectoryUpdates carries every change that affects cached directory data
const EventChannelDirectoryUpdates = "directory:updates"

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DirectoryEvent) error

	// Subscribe subscribes to events on a channel until ctx is cancelled
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DirectoryEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}
