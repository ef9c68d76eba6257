package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/kruthikhak/Care-Connect/internal/domain/entities"
	"github.com/kruthikhak/Care-Connect/internal/domain/repositories"
	apperrors "github.com/kruthikhak/Care-Connect/pkg/errors"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ProfileService reads and updates patient profiles
type ProfileService struct {
	users repositories.UserRepository
	now   func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(users repositories.UserRepository) *ProfileService {
	return &ProfileService{users: users, now: time.Now}
}

// WithClock replaces the clock used to reject future birth dates
func (s *ProfileService) WithClock(now func() time.Time) *ProfileService {
	s.now = now
	return s
}

// Get returns the user's profile
func (s *ProfileService) Get(ctx context.Context, userID string) (*entities.User, error) {
	return s.users.GetByID(ctx, userID)
}

// Update validates and replaces the user's profile
func (s *ProfileService) Update(ctx context.Context, userID string, profile entities.Profile) (*entities.User, error) {
	profile = normalizeProfile(profile)
	if err := s.validate(profile); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Profile = profile
	if profile.FullName != "" {
		user.Name = profile.FullName
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) validate(p entities.Profile) error {
	if p.Phone != "" && !phonePattern.MatchString(p.Phone) {
		return apperrors.NewValidationError("phone must be 10 digits")
	}
	if p.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, p.DateOfBirth)
		if err != nil {
			return apperrors.NewValidationError("date_of_birth must be formatted as YYYY-MM-DD")
		}
		if dob.After(s.now()) {
			return apperrors.NewValidationError("date_of_birth cannot be in the future")
		}
	}
	if p.HeightCm < 0 || p.HeightCm > 300 {
		return apperrors.NewValidationError("height_cm must be between 1 and 300")
	}
	if p.WeightKg < 0 || p.WeightKg > 500 {
		return apperrors.NewValidationError("weight_kg must be between 1 and 500")
	}
	return nil
}

func normalizeProfile(p entities.Profile) entities.Profile {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Phone = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(p.Phone))
	p.DateOfBirth = strings.TrimSpace(p.DateOfBirth)
	p.Allergies = cleanList(p.Allergies)
	p.Conditions = cleanList(p.Conditions)
	p.Medications = cleanList(p.Medications)
	return p
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
