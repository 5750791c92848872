package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) LoadRecord(ctx context.Context, cardID int64) (*models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("loading review record: card_id=%d", cardID)

	var rec models.ReviewRecord
	err := r.db.QueryRowContext(ctx, `
SELECT card_id, ease_factor, interval_days, repetitions, due_at, last_reviewed_at, created_at
FROM review_records
WHERE card_id = ?
`, cardID).Scan(&rec.CardID, &rec.EaseFactor, &rec.IntervalDays, &rec.Repetitions, &rec.DueAt, &rec.LastReviewedAt, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no review record yet: card_id=%d", cardID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to load review record: %v", err)
		return nil, err
	}
	return &rec, nil
}

func (r *reviewRepository) SaveRecord(ctx context.Context, rec models.ReviewRecord) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("saving review record: card_id=%d, interval=%d, ease=%.2f", rec.CardID, rec.IntervalDays, rec.EaseFactor)

	// Atomic per-card upsert; last writer wins.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_records (card_id, ease_factor, interval_days, repetitions, due_at, last_reviewed_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(card_id) DO UPDATE SET
    ease_factor = excluded.ease_factor,
    interval_days = excluded.interval_days,
    repetitions = excluded.repetitions,
    due_at = excluded.due_at,
    last_reviewed_at = excluded.last_reviewed_at
`, rec.CardID, rec.EaseFactor, rec.IntervalDays, rec.Repetitions, rec.DueAt, rec.LastReviewedAt)
	if err != nil {
		log.Error("failed to save review record: %v", err)
	}
	return err
}

const recordColumns = `
SELECT c.id,
       COALESCE(r.ease_factor, 2.5),
       COALESCE(r.interval_days, 0),
       COALESCE(r.repetitions, 0),
       COALESCE(r.due_at, c.created_at),
       r.last_reviewed_at,
       COALESCE(r.created_at, c.created_at)
`

func (r *reviewRepository) LoadRecordsForUser(ctx context.Context, userID int64) ([]models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("loading review records: user_id=%d", userID)

	// Cards without a record yet surface as new: zero interval, due at
	// the card's creation time.
	rows, err := r.db.QueryContext(ctx, recordColumns+`
FROM cards c
JOIN decks d ON d.id = c.deck_id
LEFT JOIN review_records r ON r.card_id = c.id
WHERE d.user_id = ?
ORDER BY c.id ASC
`, userID)
	if err != nil {
		log.Error("failed to load review records: %v", err)
		return nil, err
	}
	return scanRecords(rows, log)
}

func (r *reviewRepository) LoadRecordsForDeck(ctx context.Context, deckID int64) ([]models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("loading review records: deck_id=%d", deckID)

	rows, err := r.db.QueryContext(ctx, recordColumns+`
FROM cards c
LEFT JOIN review_records r ON r.card_id = c.id
WHERE c.deck_id = ?
ORDER BY c.id ASC
`, deckID)
	if err != nil {
		log.Error("failed to load review records: %v", err)
		return nil, err
	}
	return scanRecords(rows, log)
}

func scanRecords(rows *sql.Rows, log *logger.Logger) ([]models.ReviewRecord, error) {
	defer rows.Close()
	var records []models.ReviewRecord
	for rows.Next() {
		var rec models.ReviewRecord
		if err := rows.Scan(&rec.CardID, &rec.EaseFactor, &rec.IntervalDays, &rec.Repetitions, &rec.DueAt, &rec.LastReviewedAt, &rec.CreatedAt); err != nil {
			log.Error("failed to scan review record row: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	log.Debug("loaded %d review records", len(records))
	return records, rows.Err()
}

func (r *reviewRepository) AppendLog(ctx context.Context, entry models.ReviewLog) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("appending review log: card_id=%d, grade=%s", entry.CardID, entry.Grade)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_log (card_id, grade, time_seconds, reviewed_at)
VALUES (?, ?, ?, ?)
`, entry.CardID, entry.Grade, entry.TimeSeconds, entry.ReviewedAt)
	if err != nil {
		log.Error("failed to append review log: %v", err)
	}
	return err
}

func (r *reviewRepository) DailyStats(ctx context.Context, userID int64, since time.Time) ([]models.DailyReviewStat, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("loading daily review stats: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT date(l.reviewed_at) AS day,
       COUNT(*) AS reviews,
       AVG(CASE WHEN l.grade != 'again' THEN 1.0 ELSE 0.0 END) AS accuracy
FROM review_log l
JOIN cards c ON c.id = l.card_id
JOIN decks d ON d.id = c.deck_id
WHERE d.user_id = ? AND l.reviewed_at >= ?
GROUP BY day
ORDER BY day ASC
`, userID, since)
	if err != nil {
		log.Error("failed to load daily stats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var stats []models.DailyReviewStat
	for rows.Next() {
		var s models.DailyReviewStat
		if err := rows.Scan(&s.Day, &s.Reviews, &s.Accuracy); err != nil {
			log.Error("failed to scan daily stat row: %v", err)
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *reviewRepository) ReviewDays(ctx context.Context, userID int64) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("loading review days: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT DISTINCT date(l.reviewed_at) AS day
FROM review_log l
JOIN cards c ON c.id = l.card_id
JOIN decks d ON d.id = c.deck_id
WHERE d.user_id = ?
ORDER BY day DESC
`, userID)
	if err != nil {
		log.Error("failed to load review days: %v", err)
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			log.Error("failed to scan review day: %v", err)
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
