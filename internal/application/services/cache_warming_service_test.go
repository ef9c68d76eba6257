package services_test

import (
	"context"
	"testing"

	"github.com/kruthikhak/Care-Connect/internal/adapters/cache"
	"github.com/kruthikhak/Care-Connect/internal/adapters/database"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheWarming_PopulatesHospitalEntries(t *testing.T) {
	ctx := context.Background()
	stores := seededStores(t)
	memCache := cache.NewMemoryAdapter()

	hospitals := database.NewCachedHospitalAdapter(stores.Hospitals, memCache)
	doctors := database.NewCachedDoctorAdapter(stores.Doctors, memCache)

	exists, err := memCache.Exists(ctx, providers.HospitalCacheKey("hosp-07"))
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, services.NewCacheWarmingService(hospitals, doctors).WarmCache(ctx))

	for _, id := range []string{"hosp-01", "hosp-07", "hosp-15"} {
		exists, err := memCache.Exists(ctx, providers.HospitalCacheKey(id))
		require.NoError(t, err)
		assert.True(t, exists, id)
	}
}
