package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/pkg/config"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/kruthikhak/Care-Connect/pkg/geo"
)

// SearchHandler serves nearest-provider searches
type SearchHandler struct {
	search *services.ProviderSearchService
	cfg    config.SearchConfig
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(search *services.ProviderSearchService, cfg config.SearchConfig) *SearchHandler {
	return &SearchHandler{search: search, cfg: cfg}
}

type hospitalResult struct {
	*entities.Hospital
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type doctorResult struct {
	*entities.Doctor
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type originResponse struct {
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func hospitalResults(matches []services.HospitalMatch) []hospitalResult {
	out := make([]hospitalResult, len(matches))
	for i, m := range matches {
		out[i] = hospitalResult{Hospital: m.Hospital, DistanceKm: roundDistance(m.DistanceKm)}
	}
	return out
}

func doctorResults(matches []services.DoctorMatch) []doctorResult {
	out := make([]doctorResult, len(matches))
	for i, m := range matches {
		out[i] = doctorResult{Doctor: m.Doctor, DistanceKm: roundDistance(m.DistanceKm)}
	}
	return out
}

func originOf(req services.ProviderSearchRequest, resolved *providers.GeocodedAddress) *originResponse {
	switch {
	case resolved != nil:
		return &originResponse{Address: resolved.FormattedAddress, Latitude: resolved.Coordinate.Lat, Longitude: resolved.Coordinate.Lon}
	case req.Origin != nil:
		return &originResponse{Latitude: req.Origin.Lat, Longitude: req.Origin.Lon}
	}
	return nil
}

// SearchHospitals handles GET /api/hospitals/search
func (h *SearchHandler) SearchHospitals(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.search.SearchHospitals(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"results": hospitalResults(result.Matches),
		"count":   len(result.Matches),
		"origin":  originOf(req, result.Origin),
		"skipped": len(result.Skipped),
	})
}

// SearchDoctors handles GET /api/doctors/search
func (h *SearchHandler) SearchDoctors(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.search.SearchDoctors(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"results": doctorResults(result.Matches),
		"count":   len(result.Matches),
		"origin":  originOf(req, result.Origin),
		"skipped": len(result.Skipped),
	})
}

// SearchNearby handles GET /api/providers/nearby
func (h *SearchHandler) SearchNearby(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if req.Origin == nil && req.Location == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lng or location are required")
		return
	}

	result, err := h.search.SearchNearby(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"hospitals": hospitalResults(result.Hospitals),
		"doctors":   doctorResults(result.Doctors),
		"origin":    originOf(req, result.Origin),
	})
}

// HospitalsNearby handles GET /api/hospitals/nearby/{lat}/{lng}/{radius}
func (h *SearchHandler) HospitalsNearby(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(chi.URLParam(r, "lat"), 64)
	lng, errLng := strconv.ParseFloat(chi.URLParam(r, "lng"), 64)
	if errLat != nil || errLng != nil {
		respondWithError(w, http.StatusBadRequest, "lat and lng must be numbers")
		return
	}
	radius := h.cfg.DefaultRadius
	if raw := chi.URLParam(r, "radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "radius must be a number")
			return
		}
		radius = v
	}

	matches, err := h.search.HospitalsWithinRadius(r.Context(), geo.Coordinate{Lat: lat, Lon: lng}, radius, h.cfg.MaxK)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"results":   hospitalResults(matches),
		"count":     len(matches),
		"radius_km": radius,
	})
}

// HospitalsBySpecialty handles GET /api/hospitals/specialty/{specialty}
func (h *SearchHandler) HospitalsBySpecialty(w http.ResponseWriter, r *http.Request) {
	specialty := strings.TrimSpace(chi.URLParam(r, "specialty"))
	if specialty == "" {
		respondWithError(w, http.StatusBadRequest, "specialty is required")
		return
	}

	matches, err := h.search.HospitalsBySpecialty(r.Context(), specialty)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"results": hospitalResults(matches),
		"count":   len(matches),
	})
}

type hospitalRecommendation struct {
	*entities.Hospital
	DistanceKm *float64 `json:"distance_km"`
	Score      float64  `json:"score"`
}

type doctorRecommendation struct {
	*entities.Doctor
	Score float64 `json:"score"`
}

// RecommendHospitals handles GET /api/hospitals/recommend
func (h *SearchHandler) RecommendHospitals(w http.ResponseWriter, r *http.Request) {
	req := services.RecommendHospitalsRequest{
		Location:     strings.TrimSpace(r.URL.Query().Get("location")),
		FacilityType: strings.TrimSpace(r.URL.Query().Get("type")),
	}
	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	lng, err := parseFloatParam(r, "lng")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if (lat == nil) != (lng == nil) {
		respondWithAppError(w, r, apperrors.NewInvalidQueryError("lat and lng must be provided together"))
		return
	}
	if lat != nil {
		req.Origin = &geo.Coordinate{Lat: *lat, Lon: *lng}
	}
	maxDistance, err := parseFloatParam(r, "maxDistanceKm")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if maxDistance != nil {
		if *maxDistance <= 0 {
			respondWithAppError(w, r, apperrors.NewInvalidQueryError("maxDistanceKm must be a positive number"))
			return
		}
		req.MaxDistanceKm = *maxDistance
	}
	if req.MinRating, err = h.minRating(r); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	limit, err := h.limit(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	req.Limit = &limit

	result, err := h.search.RecommendHospitals(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	out := make([]hospitalRecommendation, len(result.Recommendations))
	for i, rec := range result.Recommendations {
		d := rec.DistanceKm
		out[i] = hospitalRecommendation{Hospital: rec.Hospital, DistanceKm: roundDistance(&d), Score: rec.Score}
	}
	origin := originOf(services.ProviderSearchRequest{Origin: req.Origin}, result.Origin)
	respondWithJSON(w, http.StatusOK, map[string]any{
		"results": out,
		"count":   len(out),
		"origin":  origin,
	})
}

// RecommendDoctors handles GET /api/doctors/recommend
func (h *SearchHandler) RecommendDoctors(w http.ResponseWriter, r *http.Request) {
	req := services.RecommendDoctorsRequest{
		HospitalID: strings.TrimSpace(r.URL.Query().Get("hospital")),
	}
	for _, raw := range r.URL.Query()["specialty"] {
		for _, sp := range strings.Split(raw, ",") {
			if sp = strings.TrimSpace(sp); sp != "" {
				req.Specialties = append(req.Specialties, sp)
			}
		}
	}
	var err error
	if req.MinRating, err = h.minRating(r); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	limit, err := h.limit(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	req.Limit = &limit

	recs, err := h.search.RecommendDoctors(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	out := make([]doctorRecommendation, len(recs))
	for i, rec := range recs {
		out[i] = doctorRecommendation{Doctor: rec.Doctor, Score: rec.Score}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"results": out,
		"count":   len(out),
	})
}

func (h *SearchHandler) minRating(r *http.Request) (float64, error) {
	v, err := parseFloatParam(r, "rating")
	if err != nil || v == nil {
		return 0, err
	}
	if *v < 0 || *v > 5 {
		return 0, apperrors.NewInvalidQueryError("rating must be between 0 and 5")
	}
	return *v, nil
}

// limit reads k, defaulting to DefaultK and capping at MaxK.
func (h *SearchHandler) limit(r *http.Request) (int, error) {
	k, err := parseIntParam(r, "k")
	if err != nil {
		return 0, err
	}
	limit := h.cfg.DefaultK
	if k != nil {
		if *k < 0 {
			return 0, apperrors.NewInvalidQueryError("k must not be negative")
		}
		limit = *k
	}
	if h.cfg.MaxK > 0 && limit > h.cfg.MaxK {
		limit = h.cfg.MaxK
	}
	return limit, nil
}

func (h *SearchHandler) parseRequest(r *http.Request) (services.ProviderSearchRequest, error) {
	q := r.URL.Query()
	req := services.ProviderSearchRequest{
		Location:     strings.TrimSpace(q.Get("location")),
		Specialty:    strings.TrimSpace(q.Get("specialty")),
		City:         strings.TrimSpace(q.Get("city")),
		FacilityType: strings.TrimSpace(q.Get("type")),
		Language:     strings.TrimSpace(q.Get("language")),
		Query:        strings.TrimSpace(q.Get("q")),
		SortKey:      entities.SortKey(strings.ToLower(strings.TrimSpace(q.Get("sortBy")))),
		RecordPolicy: entities.RecordPolicySkip,
	}
	if h.cfg.RejectBadRows {
		req.RecordPolicy = entities.RecordPolicyReject
	}

	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		return req, err
	}
	lng, err := parseFloatParam(r, "lng")
	if err != nil {
		return req, err
	}
	if (lat == nil) != (lng == nil) {
		return req, apperrors.NewInvalidQueryError("lat and lng must be provided together")
	}
	if lat != nil {
		req.Origin = &geo.Coordinate{Lat: *lat, Lon: *lng}
	}

	k, err := parseIntParam(r, "k")
	if err != nil {
		return req, err
	}
	limit := h.cfg.DefaultK
	if k != nil {
		limit = *k
	}
	if h.cfg.MaxK > 0 && limit > h.cfg.MaxK {
		limit = h.cfg.MaxK
	}
	req.K = &limit

	if req.RadiusKm, err = parseFloatParam(r, "radiusKm"); err != nil {
		return req, err
	}
	if req.MinRating, err = parseFloatParam(r, "rating"); err != nil {
		return req, err
	}
	if req.Strict, err = parseBoolParam(r, "strict", h.cfg.StrictDefault); err != nil {
		return req, err
	}
	return req, nil
}
