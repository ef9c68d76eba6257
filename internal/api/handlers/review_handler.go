package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
)

// ReviewHandler handles hospital reviews
type ReviewHandler struct {
	service *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type createReviewRequest struct {
	HospitalID string `json:"hospital_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var payload createReviewRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	review, err := h.service.Create(r.Context(), userID, payload.HospitalID, payload.Rating, payload.Comment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /api/hospitals/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := pagination(r, 20)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	reviews, err := h.service.ListByHospital(r.Context(), chi.URLParam(r, "id"), limit, offset)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
