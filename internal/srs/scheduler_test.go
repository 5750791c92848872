package srs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/srs"
)

func outcome(grade srs.Grade, at time.Time) srs.Outcome {
	return srs.Outcome{CardID: 1, Grade: grade, ReviewedAt: at}
}

func TestApply_NewCardGood(t *testing.T) {
	now := time.Now()
	rec := models.NewReviewRecord(1, now)

	updated, err := srs.Apply(rec, outcome(srs.GradeGood, now))
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Repetitions)
	assert.Equal(t, 1, updated.IntervalDays)
	assert.Equal(t, 2.5, updated.EaseFactor, "good leaves ease unchanged")
	assert.Equal(t, now.Add(24*time.Hour), updated.DueAt)
	require.NotNil(t, updated.LastReviewedAt)
	assert.Equal(t, now, *updated.LastReviewedAt)
}

func TestApply_ThirdRepetitionMultipliesByEase(t *testing.T) {
	now := time.Now()
	rec := models.ReviewRecord{
		CardID:       1,
		EaseFactor:   2.5,
		IntervalDays: 6,
		Repetitions:  2,
		DueAt:        now,
	}

	updated, err := srs.Apply(rec, outcome(srs.GradeGood, now))
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Repetitions)
	assert.Equal(t, 15, updated.IntervalDays, "6 * 2.5 = 15")
	assert.Equal(t, 2.5, updated.EaseFactor)
}

func TestApply_AgainResetsProgress(t *testing.T) {
	now := time.Now()
	rec := models.ReviewRecord{
		CardID:       1,
		EaseFactor:   2.0,
		IntervalDays: 30,
		Repetitions:  5,
		DueAt:        now,
	}

	updated, err := srs.Apply(rec, outcome(srs.GradeAgain, now))
	require.NoError(t, err)

	assert.Equal(t, 0, updated.Repetitions, "repetitions reset on failure")
	assert.Equal(t, 1, updated.IntervalDays, "interval collapses to 1")
	assert.InDelta(t, 1.8, updated.EaseFactor, 1e-9, "ease drops by 0.2")
	assert.Equal(t, now.Add(24*time.Hour), updated.DueAt)
}

func TestApply_HardLowersEase(t *testing.T) {
	now := time.Now()
	rec := models.ReviewRecord{
		CardID:       1,
		EaseFactor:   2.5,
		IntervalDays: 6,
		Repetitions:  2,
		DueAt:        now,
	}

	updated, err := srs.Apply(rec, outcome(srs.GradeHard, now))
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Repetitions, "hard still counts as a pass")
	assert.InDelta(t, 2.35, updated.EaseFactor, 1e-9)
	assert.Equal(t, 15, updated.IntervalDays, "interval computed with pre-adjustment ease")
}

func TestApply_EasyRaisesEase(t *testing.T) {
	now := time.Now()
	rec := models.ReviewRecord{
		CardID:       1,
		EaseFactor:   2.5,
		IntervalDays: 10,
		Repetitions:  3,
		DueAt:        now,
	}

	updated, err := srs.Apply(rec, outcome(srs.GradeEasy, now))
	require.NoError(t, err)

	assert.InDelta(t, 2.65, updated.EaseFactor, 1e-9)
	assert.Equal(t, 25, updated.IntervalDays, "10 * 2.5 = 25")
}

func TestApply_SecondRepetitionIsSixDays(t *testing.T) {
	now := time.Now()
	rec := models.ReviewRecord{
		CardID:       1,
		EaseFactor:   2.5,
		IntervalDays: 1,
		Repetitions:  1,
		DueAt:        now,
	}

	updated, err := srs.Apply(rec, outcome(srs.GradeGood, now))
	require.NoError(t, err)
	assert.Equal(t, 6, updated.IntervalDays)
}

func TestApply_EaseNeverDropsBelowFloor(t *testing.T) {
	now := time.Now()
	rec := models.ReviewRecord{
		CardID:       1,
		EaseFactor:   1.3,
		IntervalDays: 10,
		DueAt:        now,
	}

	for i := 0; i < 10; i++ {
		var err error
		rec, err = srs.Apply(rec, outcome(srs.GradeAgain, now))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rec.EaseFactor, 1.3)
	}
}

func TestApply_IntervalAlwaysPositiveAfterReview(t *testing.T) {
	now := time.Now()
	grades := []srs.Grade{srs.GradeAgain, srs.GradeHard, srs.GradeGood, srs.GradeEasy}

	for _, grade := range grades {
		rec := models.NewReviewRecord(1, now)
		updated, err := srs.Apply(rec, outcome(grade, now))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, updated.IntervalDays, 1, "grade %s must schedule at least one day out", grade)
		assert.GreaterOrEqual(t, updated.EaseFactor, 1.3, "grade %s must respect the ease floor", grade)
	}
}

func TestApply_InvalidGrade(t *testing.T) {
	now := time.Now()
	rec := models.NewReviewRecord(1, now)

	_, err := srs.Apply(rec, srs.Outcome{CardID: 1, Grade: "perfect", ReviewedAt: now})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_GRADE")
}

func TestApply_InvalidRecord(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		rec  models.ReviewRecord
	}{
		{"ease below floor", models.ReviewRecord{CardID: 1, EaseFactor: 1.1, IntervalDays: 1, DueAt: now}},
		{"negative interval", models.ReviewRecord{CardID: 1, EaseFactor: 2.5, IntervalDays: -1, DueAt: now}},
		{"negative repetitions", models.ReviewRecord{CardID: 1, EaseFactor: 2.5, Repetitions: -2, DueAt: now}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := srs.Apply(tt.rec, outcome(srs.GradeGood, now))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "INVALID_RECORD")
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	now := time.Now()
	rec := models.ReviewRecord{
		CardID:       1,
		EaseFactor:   2.5,
		IntervalDays: 6,
		Repetitions:  2,
		DueAt:        now,
	}
	before := rec

	_, err := srs.Apply(rec, outcome(srs.GradeEasy, now))
	require.NoError(t, err)
	assert.Equal(t, before, rec)
}

func TestParseGrade(t *testing.T) {
	for _, s := range []string{"again", "hard", "good", "easy"} {
		g, err := srs.ParseGrade(s)
		require.NoError(t, err)
		assert.Equal(t, srs.Grade(s), g)
	}

	_, err := srs.ParseGrade("GOOD")
	assert.Error(t, err, "grades are lowercase only")
}
