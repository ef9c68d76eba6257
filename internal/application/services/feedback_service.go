package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
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
	feedbackRateLimit   = 5
	feedbackRateWindow  = time.Hour
	feedbackDedupWindow = 24 * time.Hour

	maxFeedbackMessage = 1000
	maxFeedbackEmail   = 200
	maxFeedbackPage    = 300
)

var feedbackTypes = map[string]struct{}{
	"bug":        {},
	"suggestion": {},
	"compliment": {},
	"other":      {},
}

// FeedbackResult reports whether a submission was stored or ignored as a repeat
type FeedbackResult struct {
	Feedback  *entities.Feedback
	Duplicate bool
}

// FeedbackService handles feedback submissions.
type FeedbackService struct {
	repo  repositories.FeedbackRepository
	cache providers.CacheProvider
	now   func() time.Time
}

// NewFeedbackService creates a new feedback service. Without a cache,
// submissions are neither throttled nor deduplicated.
func NewFeedbackService(repo repositories.FeedbackRepository, cache providers.CacheProvider) *FeedbackService {
	return &FeedbackService{repo: repo, cache: cache, now: time.Now}
}

// Submit validates, throttles per client and stores feedback.
func (s *FeedbackService) Submit(ctx context.Context, clientID string, feedback *entities.Feedback) (*FeedbackResult, error) {
	feedback.Type = strings.ToLower(strings.TrimSpace(feedback.Type))
	feedback.Message = strings.TrimSpace(feedback.Message)
	feedback.Email = strings.TrimSpace(feedback.Email)
	feedback.Page = strings.TrimSpace(feedback.Page)

	if feedback.Type == "" {
		feedback.Type = "other"
	}
	if _, ok := feedbackTypes[feedback.Type]; !ok {
		return nil, apperrors.NewValidationError("type must be one of bug, suggestion, compliment or other")
	}
	switch {
	case feedback.Message == "":
		return nil, apperrors.NewValidationError("message is required")
	case len(feedback.Message) > maxFeedbackMessage:
		return nil, apperrors.NewValidationError("message is too long")
	case len(feedback.Email) > maxFeedbackEmail:
		return nil, apperrors.NewValidationError("email is too long")
	case len(feedback.Page) > maxFeedbackPage:
		return nil, apperrors.NewValidationError("page is too long")
	}

	dedupKey := "feedback:dup:" + feedbackFingerprint(feedback, clientID)
	if s.cache != nil {
		count, err := s.cache.Increment(ctx, "feedback:rate:"+clientID, int(feedbackRateWindow.Seconds()))
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("feedback rate limit lookup failed")
		} else if count > feedbackRateLimit {
			return nil, apperrors.NewRateLimitedError("too many feedback submissions, try again later")
		}

		if exists, err := s.cache.Exists(ctx, dedupKey); err == nil && exists {
			return &FeedbackResult{Feedback: feedback, Duplicate: true}, nil
		}
	}

	feedback.ID = uuid.New().String()
	feedback.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	// The fingerprint is only recorded once the feedback is stored, so a
	// retry after a failed write is not mistaken for a repeat.
	if s.cache != nil {
		if err := s.cache.Set(ctx, dedupKey, []byte("1"), int(feedbackDedupWindow.Seconds())); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to record feedback fingerprint")
		}
	}
	return &FeedbackResult{Feedback: feedback}, nil
}

func feedbackFingerprint(f *entities.Feedback, clientID string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{clientID, f.Type, strings.ToLower(f.Message), f.Page}, "|")))
	return hex.EncodeToString(sum[:])
}
