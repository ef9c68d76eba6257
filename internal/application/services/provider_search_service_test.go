package services_test

import (
	"context"
	"testing"

	"github.com/kruthikhak/Care-Connect/internal/adapters/memory"
	"github.com/kruthikhak/Care-Connect/internal/adapters/providers/geocoding"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/kruthikhak/Care-Connect/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStores(t *testing.T) *memory.Stores {
	t.Helper()
	stores, err := memory.NewSeededStores(context.Background())
	require.NoError(t, err)
	return stores
}

func newProviderSearch(t *testing.T) (*services.ProviderSearchService, *memory.Stores) {
	t.Helper()
	stores := seededStores(t)
	svc := services.NewProviderSearchService(stores.Hospitals, stores.Doctors, geocoding.NewStaticProvider(), nil)
	return svc, stores
}

func hospitalIDs(matches []services.HospitalMatch) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Hospital.ID
	}
	return out
}

func intPtr(v int) *int { return &v }

func TestProviderSearch_NearestHospitalsFromOrigin(t *testing.T) {
	svc, _ := newProviderSearch(t)
	origin := geo.Coordinate{Lat: 37.7749, Lon: -122.4194}

	result, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{Origin: &origin, K: intPtr(3)})
	require.NoError(t, err)

	require.Len(t, result.Matches, 3)
	assert.Equal(t, "hosp-01", result.Matches[0].Hospital.ID)
	require.NotNil(t, result.Matches[0].DistanceKm)
	assert.Zero(t, *result.Matches[0].DistanceKm)
	for i := 1; i < len(result.Matches); i++ {
		assert.LessOrEqual(t, *result.Matches[i-1].DistanceKm, *result.Matches[i].DistanceKm)
	}
	assert.Nil(t, result.Origin)
}

func TestProviderSearch_DefaultKIsFive(t *testing.T) {
	svc, _ := newProviderSearch(t)
	origin := geo.Coordinate{Lat: 37.7749, Lon: -122.4194}

	result, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{Origin: &origin})
	require.NoError(t, err)
	assert.Len(t, result.Matches, entities.DefaultK)
}

func TestProviderSearch_SpecialtyWithoutOriginSortsByName(t *testing.T) {
	svc, _ := newProviderSearch(t)

	result, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{Specialty: "pediatrics"})
	require.NoError(t, err)

	assert.Equal(t, []string{"hosp-01", "hosp-11", "hosp-04"}, hospitalIDs(result.Matches))
	for _, m := range result.Matches {
		assert.Nil(t, m.DistanceKm)
	}
}

func TestProviderSearch_FiltersCombine(t *testing.T) {
	svc, _ := newProviderSearch(t)
	minRating := 4.5

	result, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{
		Specialty: "Cardiology",
		City:      "san francisco",
		MinRating: &minRating,
		SortKey:   entities.SortByRating,
		K:         intPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"hosp-07", "hosp-05", "hosp-01"}, hospitalIDs(result.Matches))
}

func TestProviderSearch_ResolvesLocation(t *testing.T) {
	svc, _ := newProviderSearch(t)

	result, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{Location: "Oakland", K: intPtr(1)})
	require.NoError(t, err)

	require.NotNil(t, result.Origin)
	assert.Equal(t, "Oakland", result.Origin.City)
	assert.Equal(t, []string{"hosp-11"}, hospitalIDs(result.Matches))
}

func TestProviderSearch_UnknownLocationIsInvalidQuery(t *testing.T) {
	svc, _ := newProviderSearch(t)

	_, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{Location: "Atlantis"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidQuery))
}

func TestProviderSearch_InvalidQueryPropagates(t *testing.T) {
	svc, _ := newProviderSearch(t)

	_, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{SortKey: entities.SortByDistance})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidQuery))

	_, err = svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{K: intPtr(-1)})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidQuery))
}

func TestProviderSearch_StrictEmptyResult(t *testing.T) {
	svc, _ := newProviderSearch(t)

	_, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{Specialty: "Dentistry", Strict: true})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeEmptyInput))

	result, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{Specialty: "Dentistry"})
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestProviderSearch_BadStoredLocation(t *testing.T) {
	svc, stores := newProviderSearch(t)
	require.NoError(t, stores.Hospitals.Create(context.Background(), &entities.Hospital{
		ID:          "hosp-99",
		Name:        "Broken Coordinates Clinic",
		Location:    entities.Location{Latitude: 123, Longitude: -122.4},
		Specialties: []string{"Cardiology"},
		IsActive:    true,
	}))
	origin := geo.Coordinate{Lat: 37.7749, Lon: -122.4194}

	result, err := svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{Origin: &origin, Specialty: "cardiology"})
	require.NoError(t, err)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "hosp-99", result.Skipped[0].ID)
	assert.NotContains(t, hospitalIDs(result.Matches), "hosp-99")

	_, err = svc.SearchHospitals(context.Background(), services.ProviderSearchRequest{
		Origin:       &origin,
		Specialty:    "cardiology",
		RecordPolicy: entities.RecordPolicyReject,
	})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidRecord))
}

func TestProviderSearch_Doctors(t *testing.T) {
	svc, _ := newProviderSearch(t)

	result, err := svc.SearchDoctors(context.Background(), services.ProviderSearchRequest{Language: "spanish", K: intPtr(10)})
	require.NoError(t, err)

	names := make([]string, len(result.Matches))
	for i, m := range result.Matches {
		names[i] = m.Doctor.Name
	}
	assert.Equal(t, []string{"Dr. Emily Rodriguez", "Dr. Maria Garcia", "Dr. Sarah Johnson"}, names)
}

func TestProviderSearch_Nearby(t *testing.T) {
	svc, _ := newProviderSearch(t)
	origin := geo.Coordinate{Lat: 37.7682, Lon: -122.4534}

	result, err := svc.SearchNearby(context.Background(), services.ProviderSearchRequest{Origin: &origin, K: intPtr(2)})
	require.NoError(t, err)

	require.Len(t, result.Hospitals, 2)
	require.Len(t, result.Doctors, 2)
	assert.Equal(t, "hosp-02", result.Hospitals[0].Hospital.ID)
	assert.Equal(t, "doc-02", result.Doctors[0].Doctor.ID)
}

func TestProviderSearch_WithinRadiusKeepsStoredOrderOnTies(t *testing.T) {
	svc, _ := newProviderSearch(t)

	matches, err := svc.HospitalsWithinRadius(context.Background(), geo.Coordinate{Lat: 37.7558, Lon: -122.4067}, 0.5, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"hosp-06", "hosp-10"}, hospitalIDs(matches))
}

func TestProviderSearch_BySpecialtyIsNotTruncated(t *testing.T) {
	svc, _ := newProviderSearch(t)

	matches, err := svc.HospitalsBySpecialty(context.Background(), "CARDIOLOGY")
	require.NoError(t, err)
	assert.Equal(t, []string{"hosp-12", "hosp-05", "hosp-01", "hosp-13", "hosp-11", "hosp-15", "hosp-07"}, hospitalIDs(matches))
}
