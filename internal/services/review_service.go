package services

import (
	"context"
	"time"

	"github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
	"github.com/studypals/studypals/internal/srs"
)

// DueSummary is what dashboard clients need to render their badges.
type DueSummary struct {
	DueCount int     `json:"due_count"`
	CardIDs  []int64 `json:"card_ids"`
}

// ReviewService exposes the due-queue queries the UI consumes outside of
// an active session.
type ReviewService interface {
	DueForUser(ctx context.Context, userID int64) (*DueSummary, error)
	DueForDeck(ctx context.Context, deckID int64) (*DueSummary, error)
	UsersWithDueCards(ctx context.Context, userIDs []int64) (map[int64]int, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo}
}

func (s *reviewService) DueForUser(ctx context.Context, userID int64) (*DueSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing due queue: user_id=%d", userID)

	records, err := s.reviewRepo.LoadRecordsForUser(ctx, userID)
	if err != nil {
		log.Error("failed to load review records: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return summarize(records), nil
}

func (s *reviewService) DueForDeck(ctx context.Context, deckID int64) (*DueSummary, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing due queue: deck_id=%d", deckID)

	records, err := s.reviewRepo.LoadRecordsForDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to load review records: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return summarize(records), nil
}

func (s *reviewService) UsersWithDueCards(ctx context.Context, userIDs []int64) (map[int64]int, error) {
	out := make(map[int64]int)
	for _, userID := range userIDs {
		summary, err := s.DueForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if summary.DueCount > 0 {
			out[userID] = summary.DueCount
		}
	}
	return out, nil
}

func summarize(records []models.ReviewRecord) *DueSummary {
	now := time.Now()
	queue := srs.DueQueue(records, now)
	return &DueSummary{DueCount: len(queue), CardIDs: queue}
}
