package events

import (
	"sync"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
)

const subscriberBuffer = 100

// fanout delivers events to the local subscribers of each channel. Sends
// never block: a full subscriber misses the event.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.DirectoryEvent]struct{}
	closed      bool
}

func newFanout() *fanout {
	return &fanout{subscribers: make(map[string]map[chan *entities.DirectoryEvent]struct{})}
}

// add registers a new subscriber and reports how many the channel now has.
// It returns nil once the fanout is closed.
func (f *fanout) add(channel string) (chan *entities.DirectoryEvent, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, 0
	}
	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.DirectoryEvent]struct{})
	}
	ch := make(chan *entities.DirectoryEvent, subscriberBuffer)
	f.subscribers[channel][ch] = struct{}{}
	return ch, len(f.subscribers[channel])
}

// remove closes one subscriber and reports how many remain on the channel.
func (f *fanout) remove(channel string, ch chan *entities.DirectoryEvent) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	subscribers, ok := f.subscribers[channel]
	if !ok {
		return 0
	}
	if _, ok := subscribers[ch]; !ok {
		return len(subscribers)
	}
	delete(subscribers, ch)
	close(ch)
	if len(subscribers) == 0 {
		delete(f.subscribers, channel)
	}
	return len(subscribers)
}

func (f *fanout) broadcast(channel string, event *entities.DirectoryEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for subscriber := range f.subscribers[channel] {
		copied := *event
		select {
		case subscriber <- &copied:
		default:
			observability.GetLogger().Warn().
				Str("channel", channel).
				Str("event_id", event.ID).
				Msg("subscriber channel full, dropping event")
		}
	}
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for channel, subscribers := range f.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(f.subscribers, channel)
	}
}
