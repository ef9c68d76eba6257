package database

import (
	"context"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
)

// CachedHospitalAdapter wraps a HospitalRepository with read-through caching
type CachedHospitalAdapter struct {
	adapter repositories.HospitalRepository
	cache   providers.CacheProvider
}

// NewCachedHospitalAdapter creates a new cached hospital adapter
func NewCachedHospitalAdapter(adapter repositories.HospitalRepository, cache providers.CacheProvider) repositories.HospitalRepository {
	return &CachedHospitalAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// GetByID retrieves a hospital by ID with caching
func (a *CachedHospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	return loadThrough(ctx, a.cache, "hospital", providers.HospitalCacheKey(id), hospitalByIDTTL, func() (*entities.Hospital, error) {
		return a.adapter.GetByID(ctx, id)
	})
}

// List retrieves hospitals with caching
func (a *CachedHospitalAdapter) List(ctx context.Context, filter repositories.HospitalFilter) ([]*entities.Hospital, error) {
	key := hospitalsListCacheKey(providers.HospitalListGeneration(ctx, a.cache), filter)
	return loadThrough(ctx, a.cache, "hospitals", key, hospitalsListTTL, func() ([]*entities.Hospital, error) {
		return a.adapter.List(ctx, filter)
	})
}

// Create creates a hospital and invalidates list caches
func (a *CachedHospitalAdapter) Create(ctx context.Context, hospital *entities.Hospital) error {
	if err := a.adapter.Create(ctx, hospital); err != nil {
		return err
	}
	a.invalidate(ctx, hospital.ID)
	return nil
}

// Update updates a hospital and invalidates its caches
func (a *CachedHospitalAdapter) Update(ctx context.Context, hospital *entities.Hospital) error {
	if err := a.adapter.Update(ctx, hospital); err != nil {
		return err
	}
	a.invalidate(ctx, hospital.ID)
	return nil
}

func (a *CachedHospitalAdapter) invalidate(ctx context.Context, id string) {
	if err := providers.InvalidateHospital(ctx, a.cache, id); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("hospital_id", id).Msg("failed to invalidate hospital cache")
	}
}

// CachedDoctorAdapter wraps a DoctorRepository with read-through caching.
// Doctor rows only change through seeding, so entries simply expire.
type CachedDoctorAdapter struct {
	adapter repositories.DoctorRepository
	cache   providers.CacheProvider
}

// NewCachedDoctorAdapter creates a new cached doctor adapter
func NewCachedDoctorAdapter(adapter repositories.DoctorRepository, cache providers.CacheProvider) repositories.DoctorRepository {
	return &CachedDoctorAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

// Create creates a doctor
func (a *CachedDoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) error {
	return a.adapter.Create(ctx, doctor)
}

// GetByID retrieves a doctor by ID with caching
func (a *CachedDoctorAdapter) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	return loadThrough(ctx, a.cache, "doctor", providers.DoctorCacheKey(id), hospitalByIDTTL, func() (*entities.Doctor, error) {
		return a.adapter.GetByID(ctx, id)
	})
}

// List retrieves doctors with caching
func (a *CachedDoctorAdapter) List(ctx context.Context, filter repositories.DoctorFilter) ([]*entities.Doctor, error) {
	return loadThrough(ctx, a.cache, "doctors", doctorsListCacheKey(filter), hospitalsListTTL, func() ([]*entities.Doctor, error) {
		return a.adapter.List(ctx, filter)
	})
}
