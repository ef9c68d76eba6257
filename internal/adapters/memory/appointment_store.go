package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

// AppointmentStore is an in-process AppointmentRepository. Like the unique
// slot index in Postgres, it refuses a second live booking of a slot.
type AppointmentStore struct {
	mu           sync.RWMutex
	appointments map[string]*entities.Appointment
}

// NewAppointmentStore creates an empty store
func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{appointments: make(map[string]*entities.Appointment)}
}

func (s *AppointmentStore) slotTaken(a *entities.Appointment) bool {
	if a.Status == entities.AppointmentStatusCancelled {
		return false
	}
	for id, other := range s.appointments {
		if id == a.ID || other.Status == entities.AppointmentStatusCancelled {
			continue
		}
		if other.HospitalID == a.HospitalID && other.Date == a.Date && other.Time == a.Time {
			return true
		}
	}
	return false
}

// Create creates a new appointment
func (s *AppointmentStore) Create(_ context.Context, appointment *entities.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[appointment.ID]; ok {
		return apperrors.NewConflictError(fmt.Sprintf("appointment with id %s already exists", appointment.ID))
	}
	if s.slotTaken(appointment) {
		return apperrors.NewConflictError(fmt.Sprintf("slot %s %s is already booked", appointment.Date, appointment.Time))
	}
	s.appointments[appointment.ID] = cloneAppointment(appointment)
	return nil
}

// GetByID retrieves an appointment by ID
func (s *AppointmentStore) GetByID(_ context.Context, id string) (*entities.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appointment, ok := s.appointments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	return cloneAppointment(appointment), nil
}

// Update replaces a stored appointment
func (s *AppointmentStore) Update(_ context.Context, appointment *entities.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[appointment.ID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", appointment.ID))
	}
	if s.slotTaken(appointment) {
		return apperrors.NewConflictError(fmt.Sprintf("slot %s %s is already booked", appointment.Date, appointment.Time))
	}
	appointment.UpdatedAt = time.Now().UTC()
	s.appointments[appointment.ID] = cloneAppointment(appointment)
	return nil
}

// ListByUser retrieves a user's appointments ordered by date and time
func (s *AppointmentStore) ListByUser(_ context.Context, userID string) ([]*entities.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Appointment, 0)
	for _, appointment := range s.appointments {
		if appointment.UserID == userID {
			out = append(out, cloneAppointment(appointment))
		}
	}
	sortAppointments(out)
	return out, nil
}

// ListByHospitalAndDate retrieves the non-cancelled bookings of a hospital on one day
func (s *AppointmentStore) ListByHospitalAndDate(_ context.Context, hospitalID, date string) ([]*entities.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Appointment, 0)
	for _, appointment := range s.appointments {
		if appointment.HospitalID == hospitalID && appointment.Date == date &&
			appointment.Status != entities.AppointmentStatusCancelled {
			out = append(out, cloneAppointment(appointment))
		}
	}
	sortAppointments(out)
	return out, nil
}

// Zero-padded dates and times sort lexically.
func sortAppointments(items []*entities.Appointment) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		if items[i].Time != items[j].Time {
			return items[i].Time < items[j].Time
		}
		return items[i].ID < items[j].ID
	})
}
