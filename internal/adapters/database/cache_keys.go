package database

import (
	"fmt"

	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
)

// Cache TTLs (in seconds)
const (
	hospitalByIDTTL  = 300 // 5 minutes for single records
	hospitalsListTTL = 180 // 3 minutes for lists
)

func hospitalsListCacheKey(generation int64, filter repositories.HospitalFilter) string {
	return fmt.Sprintf("hospitals:list:v%d:%s:%t:%d:%d",
		generation, filter.FacilityType, filter.ActiveOnly, filter.Limit, filter.Offset)
}

func doctorsListCacheKey(filter repositories.DoctorFilter) string {
	return fmt.Sprintf("doctors:list:%s:%d:%d", filter.HospitalID, filter.Limit, filter.Offset)
}
