package repositories

import (
	"context"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates a user
	Update(ctx context.Context, user *entities.User) error
}

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *entities.Review) error

	// ListByHospital retrieves reviews for a hospital, newest first
	ListByHospital(ctx context.Context, hospitalID string, limit, offset int) ([]*entities.Review, error)
}
