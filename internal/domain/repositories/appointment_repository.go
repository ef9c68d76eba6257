package repositories

import (
	"context"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create creates a new appointment
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment by ID
	GetByID(ctx context.Context, id string) (*entities.Appointment, error)

	// Update updates an appointment
	Update(ctx context.Context, appointment *entities.Appointment) error

	// ListByUser retrieves a user's appointments ordered by date and time
	ListByUser(ctx context.Context, userID string) ([]*entities.Appointment, error)

	// ListByHospitalAndDate retrieves the non-cancelled bookings of a hospital on one day
	ListByHospitalAndDate(ctx context.Context, hospitalID, date string) ([]*entities.Appointment, error)
}
