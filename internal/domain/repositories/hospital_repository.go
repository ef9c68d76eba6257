package repositories

import (
	"context"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
)

// HospitalRepository defines the interface for hospital data operations
type HospitalRepository interface {
	// Create creates a new hospital
	Create(ctx context.Context, hospital *entities.Hospital) error

	// GetByID retrieves a hospital by ID
	GetByID(ctx context.Context, id string) (*entities.Hospital, error)

	// Update updates a hospital
	Update(ctx context.Context, hospital *entities.Hospital) error

	// List retrieves hospitals with filters, ordered by ID
	List(ctx context.Context, filter HospitalFilter) ([]*entities.Hospital, error)
}

// HospitalFilter defines filters for listing hospitals
type HospitalFilter struct {
	FacilityType string
	ActiveOnly   bool
	Limit        int
	Offset       int
}

// DoctorRepository defines the interface for doctor data operations
type DoctorRepository interface {
	// Create creates a new doctor
	Create(ctx context.Context, doctor *entities.Doctor) error

	// GetByID retrieves a doctor by ID
	GetByID(ctx context.Context, id string) (*entities.Doctor, error)

	// List retrieves doctors with filters, ordered by ID
	List(ctx context.Context, filter DoctorFilter) ([]*entities.Doctor, error)
}

// DoctorFilter defines filters for listing doctors
type DoctorFilter struct {
	HospitalID string
	Limit      int
	Offset     int
}
