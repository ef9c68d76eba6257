package entities

import (
	"time"
)

// UserRole distinguishes patients from staff accounts
type UserRole string

const (
	UserRolePatient UserRole = "patient"
	UserRoleAdmin   UserRole = "admin"
)

// User represents a registered account
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         UserRole   `json:"role" db:"role"`
	Profile      Profile    `json:"profile" db:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Profile holds the patient's personal and medical details
type Profile struct {
	FullName      string               `json:"full_name"`
	Phone         string               `json:"phone"`
	DateOfBirth   string               `json:"date_of_birth"`
	HeightCm      float64              `json:"height_cm,omitempty"`
	WeightKg      float64              `json:"weight_kg,omitempty"`
	Allergies     []string             `json:"allergies"`
	Conditions    []string             `json:"conditions"`
	Medications   []string             `json:"medications"`
	Notifications NotificationSettings `json:"notifications"`
}

// NotificationSettings controls which reminders a user receives
type NotificationSettings struct {
	Email                bool `json:"email"`
	SMS                  bool `json:"sms"`
	AppointmentReminders bool `json:"appointment_reminders"`
}

// DefaultProfile is assigned to new accounts.
func DefaultProfile(name string) Profile {
	return Profile{
		FullName:    name,
		Allergies:   []string{},
		Conditions:  []string{},
		Medications: []string{},
		Notifications: NotificationSettings{
			Email:                true,
			AppointmentReminders: true,
		},
	}
}
