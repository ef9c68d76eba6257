package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

// UserStore is an in-process UserRepository
type UserStore struct {
	mu      sync.RWMutex
	users   map[string]*entities.User
	byEmail map[string]string
}

// NewUserStore creates an empty store
func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]*entities.User),
		byEmail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create creates a new user
func (s *UserStore) Create(_ context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = normalizeEmail(user.Email)
	if _, ok := s.byEmail[user.Email]; ok {
		return apperrors.NewConflictError(fmt.Sprintf("user with email %s already exists", user.Email))
	}
	if _, ok := s.users[user.ID]; ok {
		return apperrors.NewConflictError(fmt.Sprintf("user with id %s already exists", user.ID))
	}
	s.users[user.ID] = cloneUser(user)
	s.byEmail[user.Email] = user.ID
	return nil
}

// GetByID retrieves a user by ID
func (s *UserStore) GetByID(_ context.Context, id string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", id))
	}
	return cloneUser(user), nil
}

// GetByEmail retrieves a user by email
func (s *UserStore) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = normalizeEmail(email)
	id, ok := s.byEmail[email]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with email %s not found", email))
	}
	return cloneUser(s.users[id]), nil
}

// Update replaces a stored user. The email is immutable.
func (s *UserStore) Update(_ context.Context, user *entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("user with id %s not found", user.ID))
	}
	user.Email = existing.Email
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = cloneUser(user)
	return nil
}

// ReviewStore is an in-process ReviewRepository
type ReviewStore struct {
	mu      sync.RWMutex
	reviews []*entities.Review
}

// NewReviewStore creates an empty store
func NewReviewStore() *ReviewStore {
	return &ReviewStore{}
}

// Create creates a new review
func (s *ReviewStore) Create(_ context.Context, review *entities.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = append(s.reviews, cloneReview(review))
	return nil
}

// ListByHospital retrieves reviews for a hospital, newest first
func (s *ReviewStore) ListByHospital(_ context.Context, hospitalID string, limit, offset int) ([]*entities.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.Review, 0)
	for _, review := range s.reviews {
		if review.HospitalID == hospitalID {
			out = append(out, cloneReview(review))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, limit, offset), nil
}

// FeedbackStore is an in-process FeedbackRepository
type FeedbackStore struct {
	mu       sync.Mutex
	feedback []entities.Feedback
}

// NewFeedbackStore creates an empty store
func NewFeedbackStore() *FeedbackStore {
	return &FeedbackStore{}
}

// Create stores a feedback record
func (s *FeedbackStore) Create(_ context.Context, feedback *entities.Feedback) error {
	if feedback == nil {
		return apperrors.NewInternalError("feedback is nil", fmt.Errorf("feedback is nil"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedback = append(s.feedback, *feedback)
	return nil
}

// All returns a snapshot of the stored feedback
func (s *FeedbackStore) All() []entities.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.Feedback, len(s.feedback))
	copy(out, s.feedback)
	return out
}
