package models

import "time"

// ReviewRecord holds the spaced-repetition scheduling state for one card.
// There is at most one record per card; it is created lazily the first
// time the card enters a review queue and mutated only by the scheduler.
type ReviewRecord struct {
	CardID         int64      `json:"card_id"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	DueAt          time.Time  `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

const (
	// DefaultEaseFactor seeds new records.
	DefaultEaseFactor = 2.5
	// MinEaseFactor is the floor below which ease never drops.
	MinEaseFactor = 1.3
)

// NewReviewRecord returns the scheduling state for a card that has never
// been reviewed: immediately due, zero interval.
func NewReviewRecord(cardID int64, createdAt time.Time) ReviewRecord {
	return ReviewRecord{
		CardID:       cardID,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		DueAt:        createdAt,
		CreatedAt:    createdAt,
	}
}

// ReviewLog is one graded review event, kept for stats and streaks.
type ReviewLog struct {
	ID          int64     `json:"id"`
	CardID      int64     `json:"card_id"`
	Grade       string    `json:"grade"`
	TimeSeconds float64   `json:"time_seconds"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}

type Pet struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Name         string    `json:"name"`
	Species      string    `json:"species"`
	XP           int       `json:"xp"`
	Level        int       `json:"level"`
	Mood         string    `json:"mood"`
	LastFedAt    time.Time `json:"last_fed_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type DeckDueStat struct {
	DeckID   int64  `json:"deck_id"`
	DeckName string `json:"deck_name"`
	DueCount int    `json:"due_count"`
	Total    int    `json:"total"`
}

type DailyReviewStat struct {
	Day      string  `json:"day"`
	Reviews  int     `json:"reviews"`
	Accuracy float64 `json:"accuracy"`
}
