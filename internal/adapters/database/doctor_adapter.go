package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/postgres"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/lib/pq"
)

var doctorColumns = []any{
	"id", "name", "specialty", "hospital_id", "latitude", "longitude", "rating",
	"years_experience", "education", "languages", "phone", "email", "availability",
	"created_at", "updated_at",
}

// DoctorAdapter implements the DoctorRepository interface
type DoctorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new doctor
func (a *DoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) error {
	now := time.Now().UTC()
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = now
	}
	doctor.UpdatedAt = now

	availability, err := json.Marshal(doctor.Availability)
	if err != nil {
		return apperrors.NewInternalError("failed to encode availability", err)
	}
	if doctor.Availability == nil {
		availability = []byte("{}")
	}

	record := goqu.Record{
		"id":               doctor.ID,
		"name":             doctor.Name,
		"specialty":        doctor.Specialty,
		"hospital_id":      doctor.HospitalID,
		"latitude":         doctor.Location.Latitude,
		"longitude":        doctor.Location.Longitude,
		"rating":           doctor.Rating,
		"years_experience": doctor.YearsExperience,
		"education":        pq.Array(nonNil(doctor.Education)),
		"languages":        pq.Array(nonNil(doctor.Languages)),
		"phone":            doctor.Phone,
		"email":            doctor.Email,
		"availability":     string(availability),
		"created_at":       doctor.CreatedAt,
		"updated_at":       doctor.UpdatedAt,
	}

	query, args, err := a.db.Insert("doctors").Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("doctor with id %s already exists", doctor.ID))
		}
		return apperrors.NewInternalError("failed to create doctor", err)
	}
	return nil
}

// GetByID retrieves a doctor by ID
func (a *DoctorAdapter) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	query, args, err := a.db.From("doctors").Prepared(true).
		Select(doctorColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	doctor, err := scanDoctor(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}
	return doctor, nil
}

// List retrieves doctors with filters
func (a *DoctorAdapter) List(ctx context.Context, filter repositories.DoctorFilter) ([]*entities.Doctor, error) {
	ds := a.db.From("doctors").Prepared(true).
		Select(doctorColumns...).
		Order(goqu.I("id").Asc())

	if filter.HospitalID != "" {
		ds = ds.Where(goqu.Ex{"hospital_id": filter.HospitalID})
	}
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list doctors", err)
	}
	defer rows.Close()

	doctors := make([]*entities.Doctor, 0)
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan doctor", err)
		}
		doctors = append(doctors, doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate doctors", err)
	}
	return doctors, nil
}

func scanDoctor(row rowScanner) (*entities.Doctor, error) {
	d := &entities.Doctor{}
	var availability []byte
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Specialty,
		&d.HospitalID,
		&d.Location.Latitude,
		&d.Location.Longitude,
		&d.Rating,
		&d.YearsExperience,
		pq.Array(&d.Education),
		pq.Array(&d.Languages),
		&d.Phone,
		&d.Email,
		&availability,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(availability) > 0 {
		if err := json.Unmarshal(availability, &d.Availability); err != nil {
			return nil, fmt.Errorf("decode availability for doctor %s: %w", d.ID, err)
		}
	}
	return d, nil
}
