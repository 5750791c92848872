package review_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/review"
	"github.com/studypals/studypals/internal/srs"
	"github.com/studypals/studypals/internal/testutil/mocks"
)

const testUserID int64 = 7

func dueRecord(cardID int64, dueAgo time.Duration) models.ReviewRecord {
	now := time.Now()
	return models.ReviewRecord{
		CardID:       cardID,
		EaseFactor:   models.DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		DueAt:        now.Add(-dueAgo),
		CreatedAt:    now.Add(-dueAgo),
	}
}

func cardsFor(records []models.ReviewRecord) []models.Card {
	cards := make([]models.Card, 0, len(records))
	for _, rec := range records {
		cards = append(cards, models.Card{
			ID:     rec.CardID,
			DeckID: 1,
			Front:  fmt.Sprintf("front %d", rec.CardID),
			Back:   fmt.Sprintf("back %d", rec.CardID),
		})
	}
	return cards
}

func newTestManager(t *testing.T, records []models.ReviewRecord) (*review.Manager, *mocks.MockReviewRepository, *mocks.MockCardRepository) {
	t.Helper()
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	reviews.On("LoadRecordsForUser", mock.Anything, testUserID).Return(records, nil)
	cards.On("ListForUser", mock.Anything, testUserID).Return(cardsFor(records), nil)
	return review.NewManager(reviews, cards, nil), reviews, cards
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestSession_GradesAllDueCards(t *testing.T) {
	records := []models.ReviewRecord{
		dueRecord(1, 2*time.Hour),
		dueRecord(2, time.Hour),
	}
	manager, reviews, _ := newTestManager(t, records)
	reviews.On("SaveRecord", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).Return(nil)
	reviews.On("AppendLog", mock.Anything, mock.AnythingOfType("models.ReviewLog")).Return(nil)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	snap := session.Snapshot()
	assert.Equal(t, review.StateAwaitingGrade, snap.State)
	assert.Equal(t, 2, snap.Total)
	assert.Equal(t, 0, snap.Position)
	require.NotNil(t, snap.CurrentCard)
	assert.Equal(t, int64(1), snap.CurrentCard.ID, "oldest due card comes first")

	snap, err = session.SubmitGrade(context.Background(), "good", 4.2)
	require.NoError(t, err)
	assert.Equal(t, review.StateAwaitingGrade, snap.State)
	assert.Equal(t, 1, snap.Position)
	assert.Equal(t, 1, snap.Graded)
	require.NotNil(t, snap.CurrentCard)
	assert.Equal(t, int64(2), snap.CurrentCard.ID)

	snap, err = session.SubmitGrade(context.Background(), "easy", 1.0)
	require.NoError(t, err)
	assert.Equal(t, review.StateCompleted, snap.State)
	assert.Equal(t, 2, snap.Graded)
	assert.Nil(t, snap.CurrentCard)

	reviews.AssertNumberOfCalls(t, "SaveRecord", 2)
	reviews.AssertNumberOfCalls(t, "AppendLog", 2)
}

func TestSession_SchedulerAppliedToSavedRecord(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	manager, reviews, _ := newTestManager(t, records)

	var saved []models.ReviewRecord
	reviews.On("SaveRecord", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(models.ReviewRecord))
		}).Return(nil)
	reviews.On("AppendLog", mock.Anything, mock.AnythingOfType("models.ReviewLog")).Return(nil)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	_, err = session.SubmitGrade(context.Background(), "good", 3.0)
	require.NoError(t, err)

	require.Len(t, saved, 1)
	assert.Equal(t, int64(1), saved[0].CardID)
	assert.Equal(t, 1, saved[0].Repetitions)
	assert.Equal(t, 1, saved[0].IntervalDays)
	assert.InDelta(t, 2.5, saved[0].EaseFactor, 1e-9)
	require.NotNil(t, saved[0].LastReviewedAt)
	assert.WithinDuration(t, saved[0].LastReviewedAt.Add(24*time.Hour), saved[0].DueAt, time.Second)
}

func TestSession_RetryDoesNotRegrade(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	manager, reviews, _ := newTestManager(t, records)

	var saved []models.ReviewRecord
	reviews.On("SaveRecord", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(models.ReviewRecord))
		}).Return(fmt.Errorf("disk full")).Once()
	reviews.On("SaveRecord", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(models.ReviewRecord))
		}).Return(nil)
	reviews.On("AppendLog", mock.Anything, mock.AnythingOfType("models.ReviewLog")).Return(nil)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	snap, err := session.SubmitGrade(context.Background(), "good", 2.0)
	assertCode(t, err, apperrors.ErrCodePersist)
	assert.Equal(t, review.StateRetry, snap.State)
	assert.NotEmpty(t, snap.LastError)
	assert.Equal(t, 0, snap.Graded, "a failed persist must not count the card as graded")

	// Grading while a retry is pending is refused.
	_, err = session.SubmitGrade(context.Background(), "easy", 1.0)
	assertCode(t, err, apperrors.ErrCodeConflict)

	snap, err = session.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, review.StateCompleted, snap.State)
	assert.Equal(t, 1, snap.Graded)

	// The retried save carries the exact record computed on the first
	// attempt; the scheduler ran once.
	require.Len(t, saved, 2)
	assert.Equal(t, saved[0], saved[1])
	assert.Equal(t, 1, saved[1].Repetitions)
}

func TestSession_RetryWithoutPendingOutcome(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	manager, _, _ := newTestManager(t, records)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	_, err = session.Retry(context.Background())
	assertCode(t, err, apperrors.ErrCodeConflict)
}

func TestSession_InvalidGradeLeavesStateUntouched(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	manager, reviews, _ := newTestManager(t, records)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	snap, err := session.SubmitGrade(context.Background(), "perfect", 1.0)
	assertCode(t, err, apperrors.ErrCodeInvalidGrade)
	assert.Equal(t, review.StateAwaitingGrade, snap.State)
	assert.Equal(t, 0, snap.Graded)
	reviews.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
}

func TestSession_EmptyQueueCompletesImmediately(t *testing.T) {
	manager, _, _ := newTestManager(t, nil)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	snap := session.Snapshot()
	assert.Equal(t, review.StateCompleted, snap.State)
	assert.Equal(t, 0, snap.Total)
}

func TestSession_NotDueCardsExcluded(t *testing.T) {
	tomorrow := dueRecord(2, time.Hour)
	tomorrow.DueAt = time.Now().Add(24 * time.Hour)
	records := []models.ReviewRecord{dueRecord(1, time.Hour), tomorrow}
	manager, _, _ := newTestManager(t, records)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	snap := session.Snapshot()
	assert.Equal(t, 1, snap.Total, "cards due in the future stay out of the queue")
	require.NotNil(t, snap.CurrentCard)
	assert.Equal(t, int64(1), snap.CurrentCard.ID)
}

func TestSession_Cancel(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	manager, reviews, _ := newTestManager(t, records)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	snap, err := manager.Cancel(session.ID())
	require.NoError(t, err)
	assert.Equal(t, review.StateCancelled, snap.State)
	reviews.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)

	_, err = session.SubmitGrade(context.Background(), "good", 1.0)
	assertCode(t, err, apperrors.ErrCodeConflict)
}

func TestManager_OneActiveSessionPerUser(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	manager, _, _ := newTestManager(t, records)

	first, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	_, err = manager.Start(context.Background(), testUserID)
	assertCode(t, err, apperrors.ErrCodeConflict)

	_, err = manager.Cancel(first.ID())
	require.NoError(t, err)

	second, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestManager_ConcurrentStartsAdmitOne(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)

	// Park the first Start inside the repository so the second Start
	// arrives while the first is still mid-flight.
	loading := make(chan struct{}, 2)
	proceed := make(chan struct{})
	reviews.On("LoadRecordsForUser", mock.Anything, testUserID).
		Run(func(mock.Arguments) {
			loading <- struct{}{}
			<-proceed
		}).Return(records, nil)
	cards.On("ListForUser", mock.Anything, testUserID).Return(cardsFor(records), nil)

	manager := review.NewManager(reviews, cards, nil)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Start(context.Background(), testUserID)
			errs <- err
		}()
	}
	<-loading
	close(proceed)
	wg.Wait()
	close(errs)

	started, conflicts := 0, 0
	for err := range errs {
		if err == nil {
			started++
			continue
		}
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrCodeConflict, appErr.Code)
		conflicts++
	}
	assert.Equal(t, 1, started, "exactly one start may win the user's slot")
	assert.Equal(t, 1, conflicts)
	reviews.AssertNumberOfCalls(t, "LoadRecordsForUser", 1)
}

func TestManager_StartFailureFreesSlot(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	reviews.On("LoadRecordsForUser", mock.Anything, testUserID).Return(nil, assert.AnError).Once()
	reviews.On("LoadRecordsForUser", mock.Anything, testUserID).Return(records, nil)
	cards.On("ListForUser", mock.Anything, testUserID).Return(cardsFor(records), nil)

	manager := review.NewManager(reviews, cards, nil)

	_, err := manager.Start(context.Background(), testUserID)
	require.Error(t, err)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err, "a failed start must not keep the slot reserved")
	assert.Equal(t, review.StateAwaitingGrade, session.Snapshot().State)
}

func TestManager_ReleaseEvictsSession(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	manager, reviews, _ := newTestManager(t, records)
	reviews.On("SaveRecord", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).Return(nil)
	reviews.On("AppendLog", mock.Anything, mock.AnythingOfType("models.ReviewLog")).Return(nil)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	snap, err := session.SubmitGrade(context.Background(), "good", 1.0)
	require.NoError(t, err)
	require.Equal(t, review.StateCompleted, snap.State)

	// Terminal sessions stay queryable until released.
	_, err = manager.Get(session.ID())
	require.NoError(t, err)

	manager.Release(session.ID())

	_, err = manager.Get(session.ID())
	assertCode(t, err, apperrors.ErrCodeNotFound)

	_, err = manager.Start(context.Background(), testUserID)
	require.NoError(t, err)
}

func TestManager_RefusesCorruptRecords(t *testing.T) {
	bad := dueRecord(1, time.Hour)
	bad.EaseFactor = 0.5
	manager, _, _ := newTestManager(t, []models.ReviewRecord{bad})

	_, err := manager.Start(context.Background(), testUserID)
	assertCode(t, err, apperrors.ErrCodeInvalidRecord)
}

func TestManager_GetUnknownSession(t *testing.T) {
	manager := review.NewManager(new(mocks.MockReviewRepository), new(mocks.MockCardRepository), nil)
	_, err := manager.Get("no-such-session")
	assertCode(t, err, apperrors.ErrCodeNotFound)
}

func TestSession_OnGradedCallback(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	reviews := new(mocks.MockReviewRepository)
	cards := new(mocks.MockCardRepository)
	reviews.On("LoadRecordsForUser", mock.Anything, testUserID).Return(records, nil)
	cards.On("ListForUser", mock.Anything, testUserID).Return(cardsFor(records), nil)
	reviews.On("SaveRecord", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).Return(nil)
	reviews.On("AppendLog", mock.Anything, mock.AnythingOfType("models.ReviewLog")).Return(nil)

	var gotUser int64
	var gotGrade srs.Grade
	calls := 0
	manager := review.NewManager(reviews, cards, func(_ context.Context, userID int64, grade srs.Grade) {
		calls++
		gotUser = userID
		gotGrade = grade
	})

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	_, err = session.SubmitGrade(context.Background(), "hard", 5.0)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "callback fires once per persisted grade")
	assert.Equal(t, testUserID, gotUser)
	assert.Equal(t, srs.GradeHard, gotGrade)
}

func TestSession_UpdatesChannelClosesOnCompletion(t *testing.T) {
	records := []models.ReviewRecord{dueRecord(1, time.Hour)}
	manager, reviews, _ := newTestManager(t, records)
	reviews.On("SaveRecord", mock.Anything, mock.AnythingOfType("models.ReviewRecord")).Return(nil)
	reviews.On("AppendLog", mock.Anything, mock.AnythingOfType("models.ReviewLog")).Return(nil)

	session, err := manager.Start(context.Background(), testUserID)
	require.NoError(t, err)

	_, err = session.SubmitGrade(context.Background(), "good", 1.0)
	require.NoError(t, err)

	var last review.Snapshot
	for snap := range session.Updates() {
		last = snap
	}
	assert.Equal(t, review.StateCompleted, last.State)
}
