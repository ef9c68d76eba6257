package entities

import (
	"time"

	"github.com/google/uuid"
)

// DirectoryEventType represents the kind of change announced on the event bus
type DirectoryEventType string

const (
	DirectoryEventHospitalUpdated    DirectoryEventType = "hospital_updated"
	DirectoryEventReviewCreated      DirectoryEventType = "review_created"
	DirectoryEventAppointmentBooked  DirectoryEventType = "appointment_booked"
	DirectoryEventAppointmentChanged DirectoryEventType = "appointment_changed"
)

// DirectoryEvent announces a change to a hospital or its bookings
type DirectoryEvent struct {
	ID         string             `json:"id"`
	Type       DirectoryEventType `json:"type"`
	HospitalID string             `json:"hospital_id"`
	Date       string             `json:"date,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
}

// NewDirectoryEvent creates a new directory event
func NewDirectoryEvent(eventType DirectoryEventType, hospitalID, date string) *DirectoryEvent {
	return &DirectoryEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		HospitalID: hospitalID,
		Date:       date,
		Timestamp:  time.Now().UTC(),
	}
}
