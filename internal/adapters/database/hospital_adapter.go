package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/postgres"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
	"github.com/lib/pq"
)

var hospitalColumns = []any{
	"id", "name", "street", "city", "state", "zip_code", "country",
	"latitude", "longitude", "phone", "website", "description", "facility_type",
	"specialties", "services", "rating", "review_count", "hours", "is_active",
	"created_at", "updated_at",
}

// HospitalAdapter implements the HospitalRepository interface
type HospitalAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewHospitalAdapter creates a new hospital adapter
func NewHospitalAdapter(client *postgres.Client) repositories.HospitalRepository {
	return &HospitalAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new hospital
func (a *HospitalAdapter) Create(ctx context.Context, hospital *entities.Hospital) error {
	now := time.Now().UTC()
	if hospital.CreatedAt.IsZero() {
		hospital.CreatedAt = now
	}
	hospital.UpdatedAt = now

	record := hospitalRecord(hospital)
	record["id"] = hospital.ID
	record["created_at"] = hospital.CreatedAt

	query, args, err := a.db.Insert("hospitals").Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("hospital with id %s already exists", hospital.ID))
		}
		return apperrors.NewInternalError("failed to create hospital", err)
	}
	return nil
}

// GetByID retrieves a hospital by ID
func (a *HospitalAdapter) GetByID(ctx context.Context, id string) (*entities.Hospital, error) {
	query, args, err := a.db.From("hospitals").Prepared(true).
		Select(hospitalColumns...).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	hospital, err := scanHospital(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hospital", err)
	}
	return hospital, nil
}

// Update updates a hospital
func (a *HospitalAdapter) Update(ctx context.Context, hospital *entities.Hospital) error {
	hospital.UpdatedAt = time.Now().UTC()

	query, args, err := a.db.Update("hospitals").Prepared(true).
		Set(hospitalRecord(hospital)).
		Where(goqu.Ex{"id": hospital.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update hospital", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("hospital with id %s not found", hospital.ID))
	}
	return nil
}

// List retrieves hospitals with filters
func (a *HospitalAdapter) List(ctx context.Context, filter repositories.HospitalFilter) ([]*entities.Hospital, error) {
	ds := a.db.From("hospitals").Prepared(true).
		Select(hospitalColumns...).
		Order(goqu.I("id").Asc())

	if filter.FacilityType != "" {
		ds = ds.Where(goqu.Func("LOWER", goqu.I("facility_type")).Eq(goqu.Func("LOWER", filter.FacilityType)))
	}
	if filter.ActiveOnly {
		ds = ds.Where(goqu.Ex{"is_active": true})
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
		return nil, apperrors.NewInternalError("failed to list hospitals", err)
	}
	defer rows.Close()

	hospitals := make([]*entities.Hospital, 0)
	for rows.Next() {
		hospital, err := scanHospital(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hospital", err)
		}
		hospitals = append(hospitals, hospital)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate hospitals", err)
	}
	return hospitals, nil
}

func hospitalRecord(h *entities.Hospital) goqu.Record {
	return goqu.Record{
		"name":          h.Name,
		"street":        h.Address.Street,
		"city":          h.Address.City,
		"state":         h.Address.State,
		"zip_code":      h.Address.ZipCode,
		"country":       h.Address.Country,
		"latitude":      h.Location.Latitude,
		"longitude":     h.Location.Longitude,
		"phone":         h.Phone,
		"website":       h.Website,
		"description":   h.Description,
		"facility_type": h.FacilityType,
		"specialties":   pq.Array(nonNil(h.Specialties)),
		"services":      pq.Array(nonNil(h.Services)),
		"rating":        h.Rating,
		"review_count":  h.ReviewCount,
		"hours":         h.Hours,
		"is_active":     h.IsActive,
		"updated_at":    h.UpdatedAt,
	}
}

func scanHospital(row rowScanner) (*entities.Hospital, error) {
	h := &entities.Hospital{}
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Address.Street,
		&h.Address.City,
		&h.Address.State,
		&h.Address.ZipCode,
		&h.Address.Country,
		&h.Location.Latitude,
		&h.Location.Longitude,
		&h.Phone,
		&h.Website,
		&h.Description,
		&h.FacilityType,
		pq.Array(&h.Specialties),
		pq.Array(&h.Services),
		&h.Rating,
		&h.ReviewCount,
		&h.Hours,
		&h.IsActive,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return h, nil
}
