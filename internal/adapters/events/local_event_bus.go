package events

import (
	"context"
	"errors"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
)

// ErrBusClosed is returned when subscribing to a closed bus
var ErrBusClosed = errors.New("event bus closed")

// LocalEventBus delivers events within the process. It backs cache
// invalidation when Redis is disabled.
type LocalEventBus struct {
	fanout *fanout
}

// NewLocalEventBus creates an in-process event bus
func NewLocalEventBus() providers.EventBus {
	return &LocalEventBus{fanout: newFanout()}
}

// Publish delivers the event to current subscribers of channel
func (b *LocalEventBus) Publish(_ context.Context, channel string, event *entities.DirectoryEvent) error {
	b.fanout.broadcast(channel, event)
	return nil
}

// Subscribe subscribes to events on a channel until ctx is cancelled
func (b *LocalEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DirectoryEvent, error) {
	ch, _ := b.fanout.add(channel)
	if ch == nil {
		return nil, ErrBusClosed
	}

	go func() {
		<-ctx.Done()
		b.fanout.remove(channel, ch)
	}()
	return ch, nil
}

// Close closes every subscription
func (b *LocalEventBus) Close() error {
	b.fanout.closeAll()
	return nil
}
