package entities

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Appointment represents a booked visit. Date is YYYY-MM-DD and Time is HH:MM,
// both in the hospital's local time.
type Appointment struct {
	ID         string            `json:"id" db:"id"`
	UserID     string            `json:"user_id" db:"user_id"`
	HospitalID string            `json:"hospital_id" db:"hospital_id"`
	DoctorID   string            `json:"doctor_id,omitempty" db:"doctor_id"`
	Date       string            `json:"date" db:"date"`
	Time       string            `json:"time" db:"time"`
	Reason     string            `json:"reason" db:"reason"`
	Status     AppointmentStatus `json:"status" db:"status"`
	Notes      string            `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at" db:"updated_at"`
}

// AvailabilitySlot is one bookable half hour at a hospital
type AvailabilitySlot struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
