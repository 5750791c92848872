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

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%d", id)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
SELECT id, display_name, email, created_at, last_seen_at
FROM users
WHERE id = ?
`, id).Scan(&u.ID, &u.DisplayName, &u.Email, &u.CreatedAt, &u.LastSeenAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing users")

	rows, err := r.db.QueryContext(ctx, `
SELECT id, display_name, email, created_at, last_seen_at
FROM users
ORDER BY created_at ASC
`)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.Email, &u.CreatedAt, &u.LastSeenAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	log.Debug("found %d users", len(users))
	return users, rows.Err()
}

func (r *userRepository) Insert(ctx context.Context, displayName, email string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: email=%s", email)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (display_name, email) VALUES (?, ?)
`, displayName, email)
	if err != nil {
		log.Error("failed to insert user: %v", err)
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	log.Debug("user inserted: id=%d", id)
	return r.Get(ctx, id)
}

func (r *userRepository) TouchLastSeen(ctx context.Context, id int64, t time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("touching last_seen_at: id=%d", id)

	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_seen_at = ? WHERE id = ?`, t, id)
	if err != nil {
		log.Error("failed to touch last_seen_at: %v", err)
	}
	return err
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user: id=%d", id)

	// Cascades through decks, cards, records, logs, tasks and the pet.
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete user: %v", err)
	}
	return err
}
