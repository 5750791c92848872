package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
)

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	var c models.Card
	err := r.db.QueryRowContext(ctx, `
SELECT id, deck_id, front, back, tag, created_at
FROM cards
WHERE id = ?
`, id).Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Tag, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) listQuery(filter models.CardFilter) squirrel.SelectBuilder {
	query := sqlBuilder.Select("id", "deck_id", "front", "back", "tag", "created_at").From("cards")

	if filter.DeckID != 0 {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	if filter.Tag != "" {
		query = query.Where(squirrel.Eq{"tag": filter.Tag})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"front": pattern},
			squirrel.Like{"back": pattern},
		})
	}
	return query
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: deck_id=%d, tag=%s, search=%s", filter.DeckID, filter.Tag, filter.Search)

	query := r.listQuery(filter)

	// Safe ORDER BY with validation
	orderBy := "created_at"
	if filter.OrderBy == "front" {
		orderBy = "front"
	}
	orderDir := "ASC"
	if filter.OrderDir == "DESC" {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Tag, &c.CreatedAt); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Count(ctx context.Context, filter models.CardFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	query := sqlBuilder.Select("COUNT(*)").From("cards")
	if filter.DeckID != 0 {
		query = query.Where(squirrel.Eq{"deck_id": filter.DeckID})
	}
	if filter.Tag != "" {
		query = query.Where(squirrel.Eq{"tag": filter.Tag})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.Like{"front": pattern},
			squirrel.Like{"back": pattern},
		})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count cards: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: deck_id=%d", c.DeckID)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (deck_id, front, back, tag) VALUES (?, ?, ?, ?)
`, c.DeckID, c.Front, c.Back, c.Tag)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	// Cascades the review record and its history rows.
	_, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
	}
	return err
}

func (r *cardRepository) ListForUser(ctx context.Context, userID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards for user: user_id=%d", userID)

	rows, err := r.db.QueryContext(ctx, `
SELECT c.id, c.deck_id, c.front, c.back, c.tag, c.created_at
FROM cards c
JOIN decks d ON d.id = c.deck_id
WHERE d.user_id = ?
ORDER BY c.id ASC
`, userID)
	if err != nil {
		log.Error("failed to list cards for user: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.Tag, &c.CreatedAt); err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}
