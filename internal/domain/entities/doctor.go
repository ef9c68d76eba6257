package entities

import "time"

// Doctor represents an individual practitioner, optionally affiliated with a hospital
type Doctor struct {
	ID              string              `json:"id" db:"id"`
	Name            string              `json:"name" db:"name"`
	Specialty       string              `json:"specialty" db:"specialty"`
	HospitalID      string              `json:"hospital_id,omitempty" db:"hospital_id"`
	Location        Location            `json:"location" db:"-"`
	Rating          float64             `json:"rating" db:"rating"`
	YearsExperience int                 `json:"years_experience" db:"years_experience"`
	Education       []string            `json:"education,omitempty" db:"-"`
	Languages       []string            `json:"languages,omitempty" db:"-"`
	Phone           string              `json:"phone,omitempty" db:"phone"`
	Email           string              `json:"email,omitempty" db:"email"`
	Availability    map[string][]string `json:"availability,omitempty" db:"-"`
	CreatedAt       time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}
