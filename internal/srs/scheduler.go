package srs

import (
	"math"
	"time"

	"github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/models"
)

// Grade is the user's recall-quality signal for a single review.
type Grade string

const (
	GradeAgain Grade = "again"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// ParseGrade validates a raw grade string.
func ParseGrade(s string) (Grade, error) {
	switch Grade(s) {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return Grade(s), nil
	}
	return "", errors.NewInvalidGradeError(s)
}

// Outcome is the ephemeral input to one scheduling step. It is not
// persisted; a review-history row is written separately.
type Outcome struct {
	CardID     int64
	Grade      Grade
	ReviewedAt time.Time
}

// ease adjustment per successful grade
var easeDelta = map[Grade]float64{
	GradeHard: -0.15,
	GradeGood: 0,
	GradeEasy: 0.15,
}

// Apply advances a card's scheduling state by one graded review using an
// SM-2 style algorithm. Pure function: no I/O, input record unchanged.
func Apply(rec models.ReviewRecord, out Outcome) (models.ReviewRecord, error) {
	if _, err := ParseGrade(string(out.Grade)); err != nil {
		return models.ReviewRecord{}, err
	}
	if err := Validate(rec); err != nil {
		return models.ReviewRecord{}, err
	}

	if out.Grade == GradeAgain {
		rec.Repetitions = 0
		rec.IntervalDays = 1
		rec.EaseFactor = math.Max(models.MinEaseFactor, rec.EaseFactor-0.2)
	} else {
		rec.Repetitions++
		switch rec.Repetitions {
		case 1:
			rec.IntervalDays = 1
		case 2:
			rec.IntervalDays = 6
		default:
			rec.IntervalDays = int(math.Round(float64(rec.IntervalDays) * rec.EaseFactor))
		}
		rec.EaseFactor = math.Max(models.MinEaseFactor, rec.EaseFactor+easeDelta[out.Grade])
	}

	rec.DueAt = out.ReviewedAt.Add(time.Duration(rec.IntervalDays) * 24 * time.Hour)
	reviewedAt := out.ReviewedAt
	rec.LastReviewedAt = &reviewedAt
	return rec, nil
}

// Validate checks the scheduling invariants a record must satisfy before
// it can be advanced. A violation indicates corrupted data: the scheduler
// is meant to be the record's sole mutator.
func Validate(rec models.ReviewRecord) error {
	if rec.EaseFactor < models.MinEaseFactor {
		return errors.NewInvalidRecordError(rec.CardID, "ease factor below 1.3")
	}
	if rec.IntervalDays < 0 {
		return errors.NewInvalidRecordError(rec.CardID, "negative interval")
	}
	if rec.Repetitions < 0 {
		return errors.NewInvalidRecordError(rec.CardID, "negative repetition count")
	}
	return nil
}
