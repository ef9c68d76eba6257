package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
)

// firstPageSize matches the default page of GET /api/hospitals
const firstPageSize = 30

// CacheWarmingService primes the read-through directory caches by issuing the
// reads the API serves most often
type CacheWarmingService struct {
	hospitals repositories.HospitalRepository
	doctors   repositories.DoctorRepository
}

// NewCacheWarmingService creates a new cache warming service. The
// repositories should be the cached decorators.
func NewCacheWarmingService(hospitals repositories.HospitalRepository, doctors repositories.DoctorRepository) *CacheWarmingService {
	return &CacheWarmingService{
		hospitals: hospitals,
		doctors:   doctors,
	}
}

// WarmCache loads the search candidate sets, the first directory page and
// every active hospital record
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	active, err := s.hospitals.List(ctx, repositories.HospitalFilter{ActiveOnly: true})
	if err != nil {
		return fmt.Errorf("failed to warm hospitals: %w", err)
	}
	if _, err := s.hospitals.List(ctx, repositories.HospitalFilter{ActiveOnly: true, Limit: firstPageSize}); err != nil {
		logger.Warn().Err(err).Msg("failed to warm first hospital page")
	}
	if _, err := s.doctors.List(ctx, repositories.DoctorFilter{}); err != nil {
		logger.Warn().Err(err).Msg("failed to warm doctors")
	}

	warmed := 0
	for _, hospital := range active {
		if _, err := s.hospitals.GetByID(ctx, hospital.ID); err != nil {
			logger.Warn().Err(err).Str("hospital_id", hospital.ID).Msg("failed to warm hospital")
			continue
		}
		warmed++
	}

	logger.Info().Int("hospitals", warmed).Dur("elapsed", time.Since(start)).Msg("cache warming completed")
	return nil
}

// StartPeriodicWarming warms once, then again every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	logger := observability.LoggerFromContext(ctx)
	if err := s.WarmCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("initial cache warming failed")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("periodic cache warming failed")
				}
			}
		}
	}()
}
