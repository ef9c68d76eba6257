package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/clients/postgres"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	query, args, err := a.db.Insert("reviews").Prepared(true).Rows(goqu.Record{
		"id":          review.ID,
		"user_id":     review.UserID,
		"hospital_id": review.HospitalID,
		"rating":      review.Rating,
		"comment":     review.Comment,
		"created_at":  review.CreatedAt,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create review", err)
	}
	return nil
}

// ListByHospital retrieves reviews for a hospital, newest first
func (a *ReviewAdapter) ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]*entities.Review, error) {
	ds := a.db.From("reviews").Prepared(true).
		Select("id", "user_id", "hospital_id", "rating", "comment", "created_at").
		Where(goqu.Ex{"hospital_id": hospitalID}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := make([]*entities.Review, 0)
	for rows.Next() {
		r := &entities.Review{}
		if err := rows.Scan(&r.ID, &r.UserID, &r.HospitalID, &r.Rating, &r.Comment, &r.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate reviews", err)
	}
	return reviews, nil
}
