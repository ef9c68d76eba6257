package entities

import "time"

// Feedback captures quick product feedback from users.
type Feedback struct {
	ID        string    `json:"id" db:"id"`
	Type      string    `json:"type" db:"type"`
	Message   string    `json:"message" db:"message"`
	Email     string    `json:"email,omitempty" db:"email"`
	Page      string    `json:"page,omitempty" db:"page"`
	UserAgent string    `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Review represents a user review of a hospital
type Review struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	HospitalID string    `json:"hospital_id" db:"hospital_id"`
	Rating     int       `json:"rating" db:"rating"` // 1-5
	Comment    string    `json:"comment" db:"comment"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
