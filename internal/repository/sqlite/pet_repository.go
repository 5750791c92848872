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

type petRepository struct {
	db *sql.DB
}

// NewPetRepository creates a new PetRepository implementation
func NewPetRepository(db *sql.DB) repository.PetRepository {
	return &petRepository{db: db}
}

func (r *petRepository) GetForUser(ctx context.Context, userID int64) (*models.Pet, error) {
	log := logger.FromContext(ctx).WithPrefix("pet_repo")
	log.Debug("getting pet: user_id=%d", userID)

	var p models.Pet
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, species, xp, level, mood, last_fed_at, created_at
FROM pets
WHERE user_id = ?
`, userID).Scan(&p.ID, &p.UserID, &p.Name, &p.Species, &p.XP, &p.Level, &p.Mood, &p.LastFedAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no pet yet: user_id=%d", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get pet: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *petRepository) Upsert(ctx context.Context, p models.Pet) (*models.Pet, error) {
	log := logger.FromContext(ctx).WithPrefix("pet_repo")
	log.Debug("upserting pet: user_id=%d, name=%s", p.UserID, p.Name)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO pets (user_id, name, species)
VALUES (?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
    name = excluded.name,
    species = excluded.species
`, p.UserID, p.Name, p.Species)
	if err != nil {
		log.Error("failed to upsert pet: %v", err)
		return nil, err
	}
	return r.GetForUser(ctx, p.UserID)
}

func (r *petRepository) AddXP(ctx context.Context, userID int64, xp int, level int, mood string, fedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("pet_repo")
	log.Debug("adding pet xp: user_id=%d, xp=%d, level=%d", userID, xp, level)

	_, err := r.db.ExecContext(ctx, `
UPDATE pets
SET xp = ?, level = ?, mood = ?, last_fed_at = ?
WHERE user_id = ?
`, xp, level, mood, fedAt, userID)
	if err != nil {
		log.Error("failed to add pet xp: %v", err)
	}
	return err
}
