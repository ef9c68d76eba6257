package services_test

import (
	"testing"

	"github.com/kruthikhak/Care-Connect/internal/application/services"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymptomService_Assess(t *testing.T) {
	svc := services.NewSymptomService()

	tests := []struct {
		name     string
		symptoms []string
		days     int
		want     entities.Urgency
	}{
		{"single short symptom", []string{"Cough"}, 1, entities.UrgencyLow},
		{"two symptoms", []string{"Cough", "Fever"}, 0, entities.UrgencyMedium},
		{"one symptom for two days", []string{"Cough"}, 2, entities.UrgencyMedium},
		{"three symptoms for three days", []string{"Cough", "Fever", "Headache"}, 3, entities.UrgencyMedium},
		{"four symptoms", []string{"Cough", "Fever", "Headache", "Fatigue"}, 0, entities.UrgencyHigh},
		{"long illness", []string{"Fatigue"}, 4, entities.UrgencyHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Assess(tt.symptoms, tt.days)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Urgency)
			assert.NotEmpty(t, got.Recommendations)
			assert.NotEmpty(t, got.Specialists)
		})
	}

	high, err := svc.Assess([]string{"Fatigue"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "Seek immediate medical attention", high.Recommendations[0])
	assert.Equal(t, []string{"Emergency Medicine Physician", "Primary Care Physician"}, high.Specialists)
}

func TestSymptomService_Invalid(t *testing.T) {
	svc := services.NewSymptomService()

	_, err := svc.Assess([]string{" ", ""}, 1)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = svc.Assess([]string{"Fever"}, -1)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestSymptomService_Catalogue(t *testing.T) {
	symptoms := services.NewSymptomService().Symptoms()
	require.Len(t, symptoms, 5)
	assert.Equal(t, "Fever", symptoms[0].Name)
	assert.Equal(t, "Shortness of breath", symptoms[4].Name)
}
