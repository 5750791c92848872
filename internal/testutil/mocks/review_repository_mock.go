package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/studypals/studypals/internal/models"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) LoadRecord(ctx context.Context, cardID int64) (*models.ReviewRecord, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) SaveRecord(ctx context.Context, rec models.ReviewRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReviewRepository) LoadRecordsForUser(ctx context.Context, userID int64) ([]models.ReviewRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) LoadRecordsForDeck(ctx context.Context, deckID int64) ([]models.ReviewRecord, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) AppendLog(ctx context.Context, entry models.ReviewLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockReviewRepository) DailyStats(ctx context.Context, userID int64, since time.Time) ([]models.DailyReviewStat, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DailyReviewStat), args.Error(1)
}

func (m *MockReviewRepository) ReviewDays(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
