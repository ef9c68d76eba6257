package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/providers"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	"github.com/kruthikhak/Care-Connect/internal/infrastructure/observability"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

const maxReviewComment = 2000

// ReviewService records hospital reviews and keeps hospital ratings current
type ReviewService struct {
	reviews   repositories.ReviewRepository
	hospitals repositories.HospitalRepository
	eventBus  providers.EventBus
	now       func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(reviews repositories.ReviewRepository, hospitals repositories.HospitalRepository, eventBus providers.EventBus) *ReviewService {
	return &ReviewService{reviews: reviews, hospitals: hospitals, eventBus: eventBus, now: time.Now}
}

// Create stores a review and folds its rating into the hospital's average
func (s *ReviewService) Create(ctx context.Context, userID, hospitalID string, rating int, comment string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > maxReviewComment {
		return nil, apperrors.NewValidationError("comment is too long")
	}

	hospital, err := s.hospitals.GetByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	review := &entities.Review{
		ID:         uuid.New().String(),
		UserID:     userID,
		HospitalID: hospitalID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	hospital.Rating = runningRating(hospital.Rating, hospital.ReviewCount, rating)
	hospital.ReviewCount++
	hospital.UpdatedAt = review.CreatedAt
	if err := s.hospitals.Update(ctx, hospital); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("hospital_id", hospitalID).Msg("failed to update hospital rating")
	}

	publishDirectoryEvent(ctx, s.eventBus, entities.DirectoryEventReviewCreated, hospitalID, "")
	return review, nil
}

// ListByHospital returns a hospital's reviews, newest first
func (s *ReviewService) ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]*entities.Review, error) {
	if _, err := s.hospitals.GetByID(ctx, hospitalID); err != nil {
		return nil, err
	}
	return s.reviews.ListByHospital(ctx, hospitalID, limit, offset)
}

// runningRating adds one rating to an average over count ratings, rounded to
// one decimal.
func runningRating(current float64, count, added int) float64 {
	avg := (current*float64(count) + float64(added)) / float64(count+1)
	return math.Round(avg*10) / 10
}
