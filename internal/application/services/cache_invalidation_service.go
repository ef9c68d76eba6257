package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
)

// CacheInvalidationService drops cached directory data when change events arrive
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for directory events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelDirectoryUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to directory updates: %w", err)
	}

	s.wg.Add(1)
	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops listening and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	observability.GetLogger().Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.DirectoryEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent invalidates everything the event may have made stale
func (s *CacheInvalidationService) handleEvent(event *entities.DirectoryEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := observability.GetLogger().With().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("hospital_id", event.HospitalID).
		Logger()

	switch event.Type {
	case entities.DirectoryEventHospitalUpdated, entities.DirectoryEventReviewCreated:
		if err := providers.InvalidateHospital(ctx, s.cache, event.HospitalID); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate hospital cache")
		}
	case entities.DirectoryEventAppointmentBooked, entities.DirectoryEventAppointmentChanged:
		if event.Date == "" {
			return
		}
		if err := s.cache.Delete(ctx, providers.AvailabilityCacheKey(event.HospitalID, event.Date)); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate availability cache")
		}
	default:
		logger.Debug().Msg("ignoring unknown directory event")
		return
	}
	logger.Debug().Msg("cache invalidated")
}
