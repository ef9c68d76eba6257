package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/adapters/events"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan *entities.DirectoryEvent) *entities.DirectoryEvent {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestLocalEventBus_DeliversToEverySubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewLocalEventBus()
	defer bus.Close()

	first, err := bus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	require.NoError(t, err)

	event := entities.NewDirectoryEvent(entities.DirectoryEventReviewCreated, "hosp-01", "")
	require.NoError(t, bus.Publish(ctx, providers.EventChannelDirectoryUpdates, event))

	assert.Equal(t, event.ID, receive(t, first).ID)
	assert.Equal(t, "hosp-01", receive(t, second).HospitalID)
}

func TestLocalEventBus_IgnoresOtherChannels(t *testing.T) {
	ctx := context.Background()
	bus := events.NewLocalEventBus()
	defer bus.Close()

	ch, err := bus.Subscribe(ctx, "other")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, providers.EventChannelDirectoryUpdates,
		entities.NewDirectoryEvent(entities.DirectoryEventHospitalUpdated, "hosp-01", "")))

	select {
	case <-ch:
		t.Fatal("unexpected event on unrelated channel")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLocalEventBus_CancelClosesSubscription(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := events.NewLocalEventBus()
	defer bus.Close()

	ch, err := bus.Subscribe(ctx, providers.EventChannelDirectoryUpdates)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after cancel")
	}
}

func TestLocalEventBus_SubscribeAfterClose(t *testing.T) {
	bus := events.NewLocalEventBus()
	require.NoError(t, bus.Close())

	_, err := bus.Subscribe(context.Background(), providers.EventChannelDirectoryUpdates)
	assert.ErrorIs(t, err, events.ErrBusClosed)
}
