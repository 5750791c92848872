package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/services"
	"github.com/studypals/studypals/internal/testutil/mocks"
)

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
}

func newStatsService(reviewDays []string) (services.StatsService, *mocks.MockReviewRepository) {
	decks := new(mocks.MockDeckRepository)
	reviews := new(mocks.MockReviewRepository)
	reviews.On("ReviewDays", mock.Anything, int64(7)).Return(reviewDays, nil)
	return services.NewStatsService(decks, reviews), reviews
}

func TestStreak_ConsecutiveDaysEndingToday(t *testing.T) {
	svc, _ := newStatsService([]string{day(0), day(-1), day(-2)})

	streak, err := svc.Streak(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestStreak_YesterdayKeepsStreakAlive(t *testing.T) {
	svc, _ := newStatsService([]string{day(-1), day(-2)})

	streak, err := svc.Streak(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, streak)
}

func TestStreak_GapBreaksStreak(t *testing.T) {
	svc, _ := newStatsService([]string{day(0), day(-1), day(-3), day(-4)})

	streak, err := svc.Streak(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, streak, "the day(-3) entry is past the gap")
}

func TestStreak_StaleHistoryIsZero(t *testing.T) {
	svc, _ := newStatsService([]string{day(-5), day(-6)})

	streak, err := svc.Streak(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestStreak_NoHistory(t *testing.T) {
	svc, _ := newStatsService(nil)

	streak, err := svc.Streak(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestDeckDueStats(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	reviews := new(mocks.MockReviewRepository)
	svc := services.NewStatsService(decks, reviews)

	decks.On("ListForUser", mock.Anything, int64(7)).Return([]models.Deck{
		{ID: 1, UserID: 7, Name: "biology"},
		{ID: 2, UserID: 7, Name: "spanish"},
	}, nil)

	now := time.Now()
	reviews.On("LoadRecordsForDeck", mock.Anything, int64(1)).Return([]models.ReviewRecord{
		{CardID: 10, DueAt: now.Add(-time.Hour)},
		{CardID: 11, DueAt: now.Add(24 * time.Hour)},
	}, nil)
	reviews.On("LoadRecordsForDeck", mock.Anything, int64(2)).Return([]models.ReviewRecord{}, nil)

	stats, err := svc.DeckDueStats(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "biology", stats[0].DeckName)
	assert.Equal(t, 1, stats[0].DueCount)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 0, stats[1].DueCount)
}

func TestDailyReviewStats_DefaultsWindow(t *testing.T) {
	decks := new(mocks.MockDeckRepository)
	reviews := new(mocks.MockReviewRepository)
	svc := services.NewStatsService(decks, reviews)

	var since time.Time
	reviews.On("DailyStats", mock.Anything, int64(7), mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			since = args.Get(2).(time.Time)
		}).Return([]models.DailyReviewStat{}, nil)

	_, err := svc.DailyReviewStats(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, -30), since, time.Minute, "zero days falls back to a 30 day window")
}
