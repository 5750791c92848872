package repository

import (
	"context"
	"time"

	"github.com/studypals/studypals/internal/models"
)

// UserRepository handles user account data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, displayName, email string) (*models.User, error)
	TouchLastSeen(ctx context.Context, id int64, t time.Time) error
	Delete(ctx context.Context, id int64) error
}

// DeckRepository handles deck data access
type DeckRepository interface {
	Get(ctx context.Context, id int64) (*models.Deck, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Deck, error)
	Insert(ctx context.Context, deck models.Deck) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles flashcard content data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	Count(ctx context.Context, filter models.CardFilter) (int, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	Delete(ctx context.Context, id int64) error
	ListForUser(ctx context.Context, userID int64) ([]models.Card, error)
}

// ReviewRepository persists spaced-repetition scheduling state. Records
// live 1:1 with their cards; save is an atomic per-card upsert.
type ReviewRepository interface {
	LoadRecord(ctx context.Context, cardID int64) (*models.ReviewRecord, error)
	SaveRecord(ctx context.Context, rec models.ReviewRecord) error
	// LoadRecordsForUser returns one record per card the user owns,
	// synthesizing a new-card record (due at card creation) for cards
	// that have never been reviewed.
	LoadRecordsForUser(ctx context.Context, userID int64) ([]models.ReviewRecord, error)
	LoadRecordsForDeck(ctx context.Context, deckID int64) ([]models.ReviewRecord, error)
	AppendLog(ctx context.Context, entry models.ReviewLog) error
	DailyStats(ctx context.Context, userID int64, since time.Time) ([]models.DailyReviewStat, error)
	ReviewDays(ctx context.Context, userID int64) ([]string, error)
}

// TaskRepository handles study task data access
type TaskRepository interface {
	Get(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	Count(ctx context.Context, filter models.TaskFilter) (int, error)
	Insert(ctx context.Context, task models.Task) (int64, error)
	Update(ctx context.Context, task models.Task) error
	MarkCompleted(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

// PetRepository handles virtual pet data access
type PetRepository interface {
	GetForUser(ctx context.Context, userID int64) (*models.Pet, error)
	Upsert(ctx context.Context, pet models.Pet) (*models.Pet, error)
	AddXP(ctx context.Context, userID int64, xp int, level int, mood string, fedAt time.Time) error
}
