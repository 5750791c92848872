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

// StatsService aggregates review activity for dashboards
type StatsService interface {
	DeckDueStats(ctx context.Context, userID int64) ([]models.DeckDueStat, error)
	DailyReviewStats(ctx context.Context, userID int64, days int) ([]models.DailyReviewStat, error)
	Streak(ctx context.Context, userID int64) (int, error)
}

type statsService struct {
	deckRepo   repository.DeckRepository
	reviewRepo repository.ReviewRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(deckRepo repository.DeckRepository, reviewRepo repository.ReviewRepository) StatsService {
	return &statsService{deckRepo: deckRepo, reviewRepo: reviewRepo}
}

func (s *statsService) DeckDueStats(ctx context.Context, userID int64) ([]models.DeckDueStat, error) {
	log := logger.FromContext(ctx)
	log.Debug("computing deck due stats: user_id=%d", userID)

	decks, err := s.deckRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := time.Now()
	stats := make([]models.DeckDueStat, 0, len(decks))
	for _, deck := range decks {
		records, err := s.reviewRepo.LoadRecordsForDeck(ctx, deck.ID)
		if err != nil {
			log.Error("failed to load records for deck %d: %v", deck.ID, err)
			return nil, errors.NewInternalError(err)
		}
		stats = append(stats, models.DeckDueStat{
			DeckID:   deck.ID,
			DeckName: deck.Name,
			DueCount: srs.DueCount(records, now),
			Total:    len(records),
		})
	}
	return stats, nil
}

func (s *statsService) DailyReviewStats(ctx context.Context, userID int64, days int) ([]models.DailyReviewStat, error) {
	log := logger.FromContext(ctx)

	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	stats, err := s.reviewRepo.DailyStats(ctx, userID, since)
	if err != nil {
		log.Error("failed to load daily stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}

// Streak counts consecutive days with at least one review, ending today
// or yesterday (yesterday keeps the streak alive until midnight passes).
func (s *statsService) Streak(ctx context.Context, userID int64) (int, error) {
	log := logger.FromContext(ctx)

	days, err := s.reviewRepo.ReviewDays(ctx, userID)
	if err != nil {
		log.Error("failed to load review days: %v", err)
		return 0, errors.NewInternalError(err)
	}
	if len(days) == 0 {
		return 0, nil
	}

	today := time.Now().Format("2006-01-02")
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	if days[0] != today && days[0] != yesterday {
		return 0, nil
	}

	streak := 1
	prev, _ := time.Parse("2006-01-02", days[0])
	for _, day := range days[1:] {
		d, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		if prev.Sub(d) != 24*time.Hour {
			break
		}
		streak++
		prev = d
	}
	return streak, nil
}
