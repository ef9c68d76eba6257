package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// Bookable half hours start at firstSlotHour:00 and the last one at
	// lastSlotHour:30.
	firstSlotHour = 9
	lastSlotHour  = 16

	availabilityTTL = 60
)

// BookAppointmentRequest carries the caller-supplied booking fields
type BookAppointmentRequest struct {
	HospitalID string
	DoctorID   string
	Date       string
	Time       string
	Reason     string
	Notes      string
}

// UpdateAppointmentRequest lists the fields a patient may change. Nil fields
// are left untouched.
type UpdateAppointmentRequest struct {
	Status *entities.AppointmentStatus
	Date   *string
	Time   *string
	Notes  *string
}

// AppointmentService handles appointment booking logic
type AppointmentService struct {
	repo         repositories.AppointmentRepository
	hospitalRepo repositories.HospitalRepository
	cache        providers.CacheProvider
	eventBus     providers.EventBus
	now          func() time.Time
}

// NewAppointmentService creates a new appointment service. cache and eventBus
// are optional.
func NewAppointmentService(
	repo repositories.AppointmentRepository,
	hospitalRepo repositories.HospitalRepository,
	cache providers.CacheProvider,
	eventBus providers.EventBus,
) *AppointmentService {
	return &AppointmentService{
		repo:         repo,
		hospitalRepo: hospitalRepo,
		cache:        cache,
		eventBus:     eventBus,
		now:          time.Now,
	}
}

// WithClock replaces the clock used to reject bookings in the past
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

// BookAppointment books a slot for userID
func (s *AppointmentService) BookAppointment(ctx context.Context, userID string, req BookAppointmentRequest) (*entities.Appointment, error) {
	if strings.TrimSpace(req.HospitalID) == "" {
		return nil, apperrors.NewValidationError("hospital_id is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperrors.NewValidationError("reason is required")
	}
	date, clock, err := s.validateSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	if _, err := s.hospitalRepo.GetByID(ctx, req.HospitalID); err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, req.HospitalID, date, clock, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	appointment := &entities.Appointment{
		ID:         uuid.New().String(),
		UserID:     userID,
		HospitalID: req.HospitalID,
		DoctorID:   req.DoctorID,
		Date:       date,
		Time:       clock,
		Reason:     strings.TrimSpace(req.Reason),
		Notes:      req.Notes,
		Status:     entities.AppointmentStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("appointment_id", appointment.ID).
		Str("hospital_id", appointment.HospitalID).
		Str("date", appointment.Date).
		Str("time", appointment.Time).
		Msg("appointment booked")
	publishDirectoryEvent(ctx, s.eventBus, entities.DirectoryEventAppointmentBooked, appointment.HospitalID, appointment.Date)
	return appointment, nil
}

// ListForUser returns the user's appointments ordered by date then time
func (s *AppointmentService) ListForUser(ctx context.Context, userID string) ([]*entities.Appointment, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateAppointment changes an appointment owned by userID
func (s *AppointmentService) UpdateAppointment(ctx context.Context, userID, id string, req UpdateAppointmentRequest) (*entities.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Other users' bookings are reported as missing.
	if appointment.UserID != userID {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment %s not found", id))
	}

	previousDate := appointment.Date
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status %q", *req.Status))
		}
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	rescheduled := false
	if req.Date != nil || req.Time != nil {
		date, clock := appointment.Date, appointment.Time
		if req.Date != nil {
			date = *req.Date
		}
		if req.Time != nil {
			clock = *req.Time
		}
		if date != appointment.Date || clock != appointment.Time {
			date, clock, err = s.validateSlot(date, clock)
			if err != nil {
				return nil, err
			}
			rescheduled = date != appointment.Date || clock != appointment.Time
			appointment.Date, appointment.Time = date, clock
		}
	}
	if appointment.Status != entities.AppointmentStatusCancelled && (rescheduled || req.Status != nil) {
		if err := s.ensureSlotFree(ctx, appointment.HospitalID, appointment.Date, appointment.Time, appointment.ID); err != nil {
			return nil, err
		}
	}

	appointment.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}

	publishDirectoryEvent(ctx, s.eventBus, entities.DirectoryEventAppointmentChanged, appointment.HospitalID, appointment.Date)
	if previousDate != appointment.Date {
		publishDirectoryEvent(ctx, s.eventBus, entities.DirectoryEventAppointmentChanged, appointment.HospitalID, previousDate)
	}
	return appointment, nil
}

// Availability lists every half-hour slot of a hospital's day and whether it
// is still free
func (s *AppointmentService) Availability(ctx context.Context, hospitalID, date string) ([]entities.AvailabilitySlot, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
	}
	if _, err := s.hospitalRepo.GetByID(ctx, hospitalID); err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	key := providers.AvailabilityCacheKey(hospitalID, date)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var slots []entities.AvailabilitySlot
			if err := json.Unmarshal(cached, &slots); err == nil {
				observability.RecordCacheHit("availability")
				return slots, nil
			}
			logger.Warn().Err(err).Str("key", key).Msg("failed to decode cached availability")
		} else if !errors.Is(err, providers.ErrCacheMiss) {
			logger.Warn().Err(err).Str("key", key).Msg("availability cache lookup failed")
		}
		observability.RecordCacheMiss("availability")
	}

	booked, err := s.repo.ListByHospitalAndDate(ctx, hospitalID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		if a.Status != entities.AppointmentStatusCancelled {
			taken[a.Time] = struct{}{}
		}
	}

	slots := make([]entities.AvailabilitySlot, 0, 2*(lastSlotHour-firstSlotHour+1))
	for _, t := range slotTimes() {
		_, isTaken := taken[t]
		slots = append(slots, entities.AvailabilitySlot{Date: date, Time: t, Available: !isTaken})
	}

	if s.cache != nil {
		if data, err := json.Marshal(slots); err == nil {
			if err := s.cache.Set(ctx, key, data, availabilityTTL); err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("failed to cache availability")
			}
		}
	}
	return slots, nil
}

// validateSlot checks a requested slot and returns its canonical date and
// time, so "9:30" and "09:30" name the same slot.
func (s *AppointmentService) validateSlot(date, clock string) (string, string, error) {
	day, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", "", apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
	}
	at, err := time.Parse(timeLayout, strings.TrimSpace(clock))
	if err != nil {
		return "", "", apperrors.NewValidationError("time must be formatted as HH:MM")
	}
	if at.Hour() < firstSlotHour || at.Hour() > lastSlotHour || (at.Minute() != 0 && at.Minute() != 30) {
		return "", "", apperrors.NewValidationError(fmt.Sprintf("time must be a half-hour slot between %02d:00 and %02d:30", firstSlotHour, lastSlotHour))
	}

	now := s.now()
	start := time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if start.Before(now) {
		return "", "", apperrors.NewValidationError("cannot book appointment in the past")
	}
	return day.Format(dateLayout), at.Format(timeLayout), nil
}

func (s *AppointmentService) ensureSlotFree(ctx context.Context, hospitalID, date, clock, selfID string) error {
	booked, err := s.repo.ListByHospitalAndDate(ctx, hospitalID, date)
	if err != nil {
		return err
	}
	for _, a := range booked {
		if a.ID == selfID || a.Status == entities.AppointmentStatusCancelled {
			continue
		}
		if a.Time == clock {
			return apperrors.NewConflictError(fmt.Sprintf("slot %s %s is already booked", date, clock))
		}
	}
	return nil
}

// slotTimes returns the start of every bookable half hour in order.
func slotTimes() []string {
	out := make([]string, 0, 2*(lastSlotHour-firstSlotHour+1))
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		out = append(out, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return out
}
