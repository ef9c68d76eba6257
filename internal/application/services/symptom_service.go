package services

import (
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

var symptomCatalogue = []entities.Symptom{
	{ID: "1", Name: "Fever", Description: "Elevated body temperature above 38°C (100.4°F)"},
	{ID: "2", Name: "Cough", Description: "Persistent dry or productive cough"},
	{ID: "3", Name: "Headache", Description: "Pain or pressure in the head"},
	{ID: "4", Name: "Fatigue", Description: "Unusual tiredness or lack of energy"},
	{ID: "5", Name: "Shortness of breath", Description: "Difficulty breathing or feeling breathless"},
}

type urgencyAdvice struct {
	recommendations []string
	specialists     []string
}

var adviceByUrgency = map[entities.Urgency]urgencyAdvice{
	entities.UrgencyHigh: {
		recommendations: []string{"Seek immediate medical attention", "Contact your healthcare provider", "Monitor your symptoms closely"},
		specialists:     []string{"Emergency Medicine Physician", "Primary Care Physician"},
	},
	entities.UrgencyMedium: {
		recommendations: []string{"Schedule an appointment with your doctor", "Rest and stay hydrated", "Monitor your symptoms"},
		specialists:     []string{"Primary Care Physician", "General Practitioner"},
	},
	entities.UrgencyLow: {
		recommendations: []string{"Rest and monitor your symptoms", "Stay hydrated", "Over-the-counter medications may help"},
		specialists:     []string{"Primary Care Physician"},
	},
}

// SymptomService grades reported symptoms
type SymptomService struct{}

// NewSymptomService creates a new symptom service
func NewSymptomService() *SymptomService {
	return &SymptomService{}
}

// Symptoms returns the known symptoms
func (s *SymptomService) Symptoms() []entities.Symptom {
	return append([]entities.Symptom(nil), symptomCatalogue...)
}

// Assess grades urgency from the number of symptoms and how many days they
// have lasted
func (s *SymptomService) Assess(symptoms []string, durationDays int) (*entities.SymptomAssessment, error) {
	reported := cleanList(symptoms)
	if len(reported) == 0 {
		return nil, apperrors.NewValidationError("at least one symptom is required")
	}
	if durationDays < 0 {
		return nil, apperrors.NewValidationError("duration cannot be negative")
	}

	urgency := entities.UrgencyLow
	switch {
	case len(reported) > 3 || durationDays > 3:
		urgency = entities.UrgencyHigh
	case len(reported) > 1 || durationDays > 1:
		urgency = entities.UrgencyMedium
	}

	advice := adviceByUrgency[urgency]
	return &entities.SymptomAssessment{
		Symptoms:        reported,
		DurationDays:    durationDays,
		Urgency:         urgency,
		Recommendations: append([]string(nil), advice.recommendations...),
		Specialists:     append([]string(nil), advice.specialists...),
	}, nil
}
