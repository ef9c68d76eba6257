package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	redisclient "github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/redis"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub, so
// every API instance sees changes made through any other.
type RedisEventBus struct {
	client        *redisclient.Client
	fanout        *fanout
	mu            sync.Mutex
	subscriptions map[string]*redis.PubSub
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		fanout:        newFanout(),
		subscriptions: make(map[string]*redis.PubSub),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.DirectoryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Msg("published directory event")
	return nil
}

// Subscribe subscribes to events on a channel until ctx is cancelled
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DirectoryEvent, error) {
	b.mu.Lock()
	ch, count := b.fanout.add(channel)
	if ch == nil {
		b.mu.Unlock()
		return nil, ErrBusClosed
	}
	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}
	b.mu.Unlock()

	observability.GetLogger().Info().Str("channel", channel).Int("subscribers", count).Msg("subscribed to channel")

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, ch)
	}()

	return ch, nil
}

// receiveMessages relays Redis messages to local subscribers
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	logger := observability.GetLogger()
	messages := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event entities.DirectoryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Warn().Err(err).Str("channel", channel).Msg("failed to unmarshal event")
				continue
			}
			b.fanout.broadcast(channel, &event)
		}
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, ch chan *entities.DirectoryEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.fanout.remove(channel, ch) > 0 {
		return
	}
	if pubsub, ok := b.subscriptions[channel]; ok {
		_ = pubsub.Close()
		delete(b.subscriptions, channel)
		observability.GetLogger().Info().Str("channel", channel).Msg("closed subscription")
	}
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscription %s: %w", channel, err))
		}
		delete(b.subscriptions, channel)
	}
	b.fanout.closeAll()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %v", errs)
	}
	return nil
}
