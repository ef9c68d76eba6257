package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
)

// HospitalHandler handles hospital and doctor browsing requests
type HospitalHandler struct {
	service *services.HospitalService
}

// NewHospitalHandler creates a new hospital handler
func NewHospitalHandler(service *services.HospitalService) *HospitalHandler {
	return &HospitalHandler{service: service}
}

// ListHospitals handles GET /api/hospitals
func (h *HospitalHandler) ListHospitals(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r, 30)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	hospitals, err := h.service.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("type")), limit, offset)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"hospitals": hospitals,
		"count":     len(hospitals),
	})
}

// GetHospital handles GET /api/hospitals/{id}
func (h *HospitalHandler) GetHospital(w http.ResponseWriter, r *http.Request) {
	hospital, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, hospital)
}

// ListHospitalDoctors handles GET /api/hospitals/{id}/doctors
func (h *HospitalHandler) ListHospitalDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.service.Doctors(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// ListSpecialties handles GET /api/hospitals/specialties
func (h *HospitalHandler) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.service.Specialties(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"specialties": specialties})
}

// ListTypes handles GET /api/hospitals/types
func (h *HospitalHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.Types(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"types": types})
}

// GetDoctor handles GET /api/doctors/{id}
func (h *HospitalHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctor, err := h.service.GetDoctor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, doctor)
}
