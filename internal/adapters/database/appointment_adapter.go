package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/postgres"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

var appointmentColumns = []any{
	"id", "user_id", "hospital_id", "doctor_id", "date", "time",
	"reason", "status", "notes", "created_at", "updated_at",
}

// AppointmentAdapter implements the AppointmentRepository interface
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new appointment. A second live booking of the same slot
// violates idx_appointments_slot and is reported as a conflict.
func (a *AppointmentAdapter) Create(ctx context.Context, appointment *entities.Appointment) error {
	record := goqu.Record{
		"id":          appointment.ID,
		"user_id":     appointment.UserID,
		"hospital_id": appointment.HospitalID,
		"doctor_id":   appointment.DoctorID,
		"date":        appointment.Date,
		"time":        appointment.Time,
		"reason":      appointment.Reason,
		"status":      appointment.Status,
		"notes":       appointment.Notes,
		"created_at":  appointment.CreatedAt,
		"updated_at":  appointment.UpdatedAt,
	}

	query, args, err := a.db.Insert("appointments").Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("slot %s %s is already booked", appointment.Date, appointment.Time))
		}
		return apperrors.NewInternalError("failed to create appointment", err)
	}

	return nil
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id string) (*entities.Appointment, error) {
	query, args, err := a.db.From("appointments").Prepared(true).
		Select(appointmentColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	appointment, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get appointment", err)
	}

	return appointment, nil
}

// Update updates an appointment
func (a *AppointmentAdapter) Update(ctx context.Context, appointment *entities.Appointment) error {
	appointment.UpdatedAt = time.Now().UTC()

	record := goqu.Record{
		"doctor_id":  appointment.DoctorID,
		"date":       appointment.Date,
		"time":       appointment.Time,
		"reason":     appointment.Reason,
		"status":     appointment.Status,
		"notes":      appointment.Notes,
		"updated_at": appointment.UpdatedAt,
	}

	query, args, err := a.db.Update("appointments").Prepared(true).
		Set(record).
		Where(goqu.Ex{"id": appointment.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("slot %s %s is already booked", appointment.Date, appointment.Time))
		}
		return apperrors.NewInternalError("failed to update appointment", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("appointment with id %s not found", appointment.ID))
	}

	return nil
}

// ListByUser retrieves a user's appointments ordered by date and time
func (a *AppointmentAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Appointment, error) {
	ds := a.db.From("appointments").Prepared(true).
		Select(appointmentColumns...).
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("date").Asc(), goqu.I("time").Asc(), goqu.I("id").Asc())

	return a.list(ctx, ds)
}

// ListByHospitalAndDate retrieves the non-cancelled bookings of a hospital on one day
func (a *AppointmentAdapter) ListByHospitalAndDate(ctx context.Context, hospitalID, date string) ([]*entities.Appointment, error) {
	ds := a.db.From("appointments").Prepared(true).
		Select(appointmentColumns...).
		Where(
			goqu.Ex{"hospital_id": hospitalID, "date": date},
			goqu.C("status").Neq(string(entities.AppointmentStatusCancelled)),
		).
		Order(goqu.I("time").Asc())

	return a.list(ctx, ds)
}

func (a *AppointmentAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Appointment, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := make([]*entities.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate appointments", err)
	}

	return appointments, nil
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	appointment := &entities.Appointment{}
	err := row.Scan(
		&appointment.ID,
		&appointment.UserID,
		&appointment.HospitalID,
		&appointment.DoctorID,
		&appointment.Date,
		&appointment.Time,
		&appointment.Reason,
		&appointment.Status,
		&appointment.Notes,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return appointment, nil
}
