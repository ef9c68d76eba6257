package providers

import (
	"context"
	"fmt"
	"strconv"
)

// HospitalListGenerationKey holds a counter that is folded into every
// hospital list key; bumping it orphans all cached lists at once.
const HospitalListGenerationKey = "hospitals:list:gen"

// HospitalCacheKey is the cache key of a single hospital.
func HospitalCacheKey(id string) string {
	return fmt.Sprintf("hospital:%s", id)
}

// DoctorCacheKey is the cache key of a single doctor.
func DoctorCacheKey(id string) string {
	return fmt.Sprintf("doctor:%s", id)
}

// AvailabilityCacheKey is the cache key of one hospital's free slots on a day.
func AvailabilityCacheKey(hospitalID, date string) string {
	return fmt.Sprintf("availability:%s:%s", hospitalID, date)
}

// HospitalListGeneration returns the current list generation, 0 when unset.
func HospitalListGeneration(ctx context.Context, cache CacheProvider) int64 {
	raw, err := cache.Get(ctx, HospitalListGenerationKey)
	if err != nil {
		return 0
	}
	gen, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0
	}
	return gen
}

// InvalidateHospital drops the cached copy of one hospital and every cached
// hospital list.
func InvalidateHospital(ctx context.Context, cache CacheProvider, id string) error {
	if err := cache.Delete(ctx, HospitalCacheKey(id)); err != nil {
		return err
	}
	_, err := cache.Increment(ctx, HospitalListGenerationKey, 0)
	return err
}
