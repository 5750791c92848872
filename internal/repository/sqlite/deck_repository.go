package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Get(ctx context.Context, id int64) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("getting deck: id=%d", id)

	var d models.Deck
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, description, created_at
FROM decks
WHERE id = ?
`, id).Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}
	return &d, nil
}

func (r *deckRepository) ListForUser(ctx context.Context, userID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, name, description, created_at
FROM decks
WHERE user_id = ?
ORDER BY name ASC
`, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: user_id=%d, name=%s", d.UserID, d.Name)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO decks (user_id, name, description) VALUES (?, ?, ?)
`, d.UserID, d.Name, d.Description)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get deck id: %v", err)
		return 0, err
	}
	log.Debug("deck inserted: id=%d", id)
	return id, nil
}

func (r *deckRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}
