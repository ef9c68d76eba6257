package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
)

// AppointmentHandler handles appointment-related HTTP requests
type AppointmentHandler struct {
	service *services.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type bookAppointmentRequest struct {
	HospitalID string `json:"hospital_id"`
	DoctorID   string `json:"doctor_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Reason     string `json:"reason"`
	Notes      string `json:"notes"`
}

type updateAppointmentRequest struct {
	Status *entities.AppointmentStatus `json:"status"`
	Date   *string                     `json:"date"`
	Time   *string                     `json:"time"`
	Notes  *string                     `json:"notes"`
}

// BookAppointment handles POST /api/appointments
func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var payload bookAppointmentRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := h.service.BookAppointment(r.Context(), userID, services.BookAppointmentRequest{
		HospitalID: strings.TrimSpace(payload.HospitalID),
		DoctorID:   strings.TrimSpace(payload.DoctorID),
		Date:       strings.TrimSpace(payload.Date),
		Time:       strings.TrimSpace(payload.Time),
		Reason:     payload.Reason,
		Notes:      payload.Notes,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, appointment)
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	appointments, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// UpdateAppointment handles PATCH /api/appointments/{id}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var payload updateAppointmentRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	appointment, err := h.service.UpdateAppointment(r.Context(), userID, chi.URLParam(r, "id"), services.UpdateAppointmentRequest{
		Status: payload.Status,
		Date:   payload.Date,
		Time:   payload.Time,
		Notes:  payload.Notes,
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, appointment)
}

// GetAvailability handles GET /api/hospitals/{id}/availability?date=YYYY-MM-DD
func (h *AppointmentHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		respondWithError(w, http.StatusBadRequest, "date is required")
		return
	}

	slots, err := h.service.Availability(r.Context(), chi.URLParam(r, "id"), date)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"hospital_id": chi.URLParam(r, "id"),
		"date":        date,
		"slots":       slots,
	})
}
