package services

import (
	"context"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
)

// publishDirectoryEvent announces a change on the directory channel. A nil
// bus disables events; publish failures are logged and never fail the write
// that triggered them.
func publishDirectoryEvent(ctx context.Context, bus providers.EventBus, eventType entities.DirectoryEventType, hospitalID, date string) {
	if bus == nil {
		return
	}
	event := entities.NewDirectoryEvent(eventType, hospitalID, date)
	if err := bus.Publish(ctx, providers.EventChannelDirectoryUpdates, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Str("hospital_id", hospitalID).
			Msg("failed to publish directory event")
	}
}
