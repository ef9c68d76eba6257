package handlers

import (
	"net/http"

	"github.com/kruthikhak/Care-Connect/internal/application/services"
)

// AssistantHandler serves the symptom checker and the chatbot
type AssistantHandler struct {
	symptoms *services.SymptomService
	chatbot  *services.ChatbotService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(symptoms *services.SymptomService, chatbot *services.ChatbotService) *AssistantHandler {
	return &AssistantHandler{symptoms: symptoms, chatbot: chatbot}
}

type symptomCheckRequest struct {
	Symptoms []string `json:"symptoms"`
	Duration int      `json:"duration"`
}

type chatRequest struct {
	Message string `json:"message"`
}

// ListSymptoms handles GET /api/symptoms
func (h *AssistantHandler) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"symptoms": h.symptoms.Symptoms()})
}

// CheckSymptoms handles POST /api/symptom-check
func (h *AssistantHandler) CheckSymptoms(w http.ResponseWriter, r *http.Request) {
	var payload symptomCheckRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	assessment, err := h.symptoms.Assess(payload.Symptoms, payload.Duration)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, assessment)
}

// Chat handles POST /api/chatbot
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	reply, err := h.chatbot.Reply(payload.Message)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reply)
}

// Suggestions handles GET /api/chatbot/suggestions
func (h *AssistantHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"suggestions": h.chatbot.Suggestions()})
}
