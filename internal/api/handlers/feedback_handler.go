package handlers

import (
	"net/http"

	"github.com/kruthikhak/Care-Connect/internal/api/middleware"
	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

// FeedbackHandler handles feedback submissions.
type FeedbackHandler struct {
	service *services.FeedbackService
}

type feedbackRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Email   string `json:"email,omitempty"`
	Page    string `json:"page,omitempty"`
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(service *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// SubmitFeedback handles POST /api/feedback
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var payload feedbackRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	result, err := h.service.Submit(r.Context(), middleware.ClientIP(r), &entities.Feedback{
		Type:      payload.Type,
		Message:   payload.Message,
		Email:     payload.Email,
		Page:      payload.Page,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeRateLimited) {
			w.Header().Set("Retry-After", "3600")
		}
		respondWithAppError(w, r, err)
		return
	}

	if result.Duplicate {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "duplicate_ignored",
		})
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{
		"status": "received",
		"id":     result.Feedback.ID,
	})
}
