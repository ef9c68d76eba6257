package handlers_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kruthikhak/Care-Connect/internal/adapters/memory"
	"github.com/kruthikhak/Care-Connect/internal/adapters/providers/geocoding"
	"github.com/kruthikhak/Care-Connect/internal/api/handlers"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSearchConfig = config.SearchConfig{
	DefaultK:      5,
	MaxK:          8,
	DefaultRadius: 10,
}

type searchResponse struct {
	Results []struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		DistanceKm *float64 `json:"distance_km"`
	} `json:"results"`
	Count  int `json:"count"`
	Origin *struct {
		Address   string  `json:"address"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"origin"`
	Skipped int `json:"skipped"`
}

func seededStores(t *testing.T) *memory.Stores {
	t.Helper()
	stores, err := memory.NewSeededStores(context.Background())
	require.NoError(t, err)
	return stores
}

func newSearchRouter(t *testing.T, cfg config.SearchConfig) http.Handler {
	t.Helper()
	stores := seededStores(t)
	search := services.NewProviderSearchService(stores.Hospitals, stores.Doctors, geocoding.NewStaticProvider(), nil)
	h := handlers.NewSearchHandler(search, cfg)

	r := chi.NewRouter()
	r.Get("/api/hospitals/search", h.SearchHospitals)
	r.Get("/api/doctors/search", h.SearchDoctors)
	r.Get("/api/providers/nearby", h.SearchNearby)
	r.Get("/api/hospitals/nearby/{lat}/{lng}/{radius}", h.HospitalsNearby)
	r.Get("/api/hospitals/specialty/{specialty}", h.HospitalsBySpecialty)
	r.Get("/api/hospitals/recommend", h.RecommendHospitals)
	r.Get("/api/doctors/recommend", h.RecommendDoctors)
	return r
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeSearch(t *testing.T, w *httptest.ResponseRecorder) searchResponse {
	t.Helper()
	var resp searchResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestSearchHospitals_NearestFirstWithRoundedDistance(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/hospitals/search?lat=37.7749&lng=-122.4194&k=3")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, 3, resp.Count)
	assert.Equal(t, "hosp-01", resp.Results[0].ID)
	require.NotNil(t, resp.Origin)
	assert.Equal(t, 37.7749, resp.Origin.Latitude)

	for i, res := range resp.Results {
		require.NotNil(t, res.DistanceKm)
		assert.Equal(t, math.Round(*res.DistanceKm*10)/10, *res.DistanceKm)
		if i > 0 {
			assert.LessOrEqual(t, *resp.Results[i-1].DistanceKm, *res.DistanceKm)
		}
	}
}

func TestSearchHospitals_DefaultAndMaxK(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	resp := decodeSearch(t, doGet(t, router, "/api/hospitals/search?lat=37.7749&lng=-122.4194"))
	assert.Len(t, resp.Results, 5)

	resp = decodeSearch(t, doGet(t, router, "/api/hospitals/search?lat=37.7749&lng=-122.4194&k=50"))
	assert.Len(t, resp.Results, testSearchConfig.MaxK)
}

func TestSearchHospitals_InvalidQueries(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	for _, target := range []string{
		"/api/hospitals/search?lat=north&lng=-122.4",
		"/api/hospitals/search?lat=37.7",
		"/api/hospitals/search?lat=95&lng=-122.4",
		"/api/hospitals/search?lat=37.7&lng=-122.4&k=-1",
		"/api/hospitals/search?lat=37.7&lng=-122.4&radiusKm=-1",
		"/api/hospitals/search?sortBy=popularity",
		"/api/hospitals/search?strict=maybe",
	} {
		t.Run(target, func(t *testing.T) {
			w := doGet(t, router, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSearchHospitals_LocationIsGeocoded(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/hospitals/search?location=Oakland,%20CA&k=2")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	require.NotNil(t, resp.Origin)
	assert.Contains(t, resp.Origin.Address, "Oakland")
	assert.Len(t, resp.Results, 2)
	for _, res := range resp.Results {
		assert.NotNil(t, res.DistanceKm)
	}
}

func TestSearchHospitals_UnknownLocationIsBadRequest(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/hospitals/search?location=Atlantis")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHospitals_StrictEmptyIsNotFound(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/hospitals/search?specialty=Dermatology-Veterinary&strict=true")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doGet(t, router, "/api/hospitals/search?specialty=Dermatology-Veterinary")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSearch(t, w).Results)
}

func TestSearchHospitals_WithoutOriginOmitsDistance(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/hospitals/search?specialty=pediatrics")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	assert.Nil(t, resp.Origin)
	require.NotEmpty(t, resp.Results)
	for _, res := range resp.Results {
		assert.Nil(t, res.DistanceKm)
	}
}

func TestSearchDoctors_FiltersBySpecialty(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/doctors/search?specialty=cardiology&lat=37.7749&lng=-122.4194")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "doc-01", resp.Results[0].ID)
}

func TestSearchNearby_RequiresOrigin(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	assert.Equal(t, http.StatusBadRequest, doGet(t, router, "/api/providers/nearby").Code)

	w := doGet(t, router, "/api/providers/nearby?lat=37.7749&lng=-122.4194&k=2")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Hospitals []json.RawMessage `json:"hospitals"`
		Doctors   []json.RawMessage `json:"doctors"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body.Hospitals, 2)
	assert.Len(t, body.Doctors, 2)
}

func TestHospitalsNearby_RadiusRoute(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/hospitals/nearby/37.7749/-122.4194/5")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	require.NotEmpty(t, resp.Results)
	for _, res := range resp.Results {
		require.NotNil(t, res.DistanceKm)
		assert.LessOrEqual(t, *res.DistanceKm, 5.0)
	}

	assert.Equal(t, http.StatusBadRequest, doGet(t, router, "/api/hospitals/nearby/abc/-122.4194/5").Code)
	assert.Equal(t, http.StatusBadRequest, doGet(t, router, "/api/hospitals/nearby/37.7749/-122.4194/wide").Code)
}

func TestHospitalsBySpecialty_SortedByName(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/hospitals/specialty/Pediatrics")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeSearch(t, w)
	require.Len(t, resp.Results, 3)
	for i := 1; i < len(resp.Results); i++ {
		assert.LessOrEqual(t, resp.Results[i-1].Name, resp.Results[i].Name)
	}
}

func TestRecommendHospitals(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/hospitals/recommend?lat=37.7793&lng=-122.4193&maxDistanceKm=5&k=3")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Results []struct {
			ID         string   `json:"id"`
			DistanceKm *float64 `json:"distance_km"`
			Score      float64  `json:"score"`
		} `json:"results"`
		Count int `json:"count"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Results, 3)
	assert.Equal(t, 3, resp.Count)
	for i, r := range resp.Results {
		require.NotNil(t, r.DistanceKm)
		assert.LessOrEqual(t, *r.DistanceKm, 5.0)
		assert.Equal(t, math.Round(*r.DistanceKm*10)/10, *r.DistanceKm)
		if i > 0 {
			assert.GreaterOrEqual(t, resp.Results[i-1].Score, r.Score)
		}
	}
}

func TestRecommendHospitals_BadRequests(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	for _, target := range []string{
		"/api/hospitals/recommend",
		"/api/hospitals/recommend?lat=37.7",
		"/api/hospitals/recommend?lat=37.7793&lng=-122.4193&maxDistanceKm=0",
		"/api/hospitals/recommend?lat=37.7793&lng=-122.4193&rating=9",
		"/api/hospitals/recommend?lat=37.7793&lng=-122.4193&k=-2",
	} {
		w := doGet(t, router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestRecommendDoctors_BySpecialtyList(t *testing.T) {
	router := newSearchRouter(t, testSearchConfig)

	w := doGet(t, router, "/api/doctors/recommend?specialty=Cardiology,Oncology")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeSearch(t, w)
	ids := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"doc-01", "doc-07", "doc-09"}, ids)
}
