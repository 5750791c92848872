package services

import (
	"context"
	"strings"
	"time"

	"github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
	"github.com/studypals/studypals/internal/srs"
)

// XP awards per activity. Harder recalls feed the pet less.
const (
	xpTaskCompleted = 15
	xpReviewEasy    = 10
	xpReviewGood    = 8
	xpReviewHard    = 5
	xpReviewAgain   = 2
	xpPerLevel      = 100
)

// PetService handles the virtual pet gamification logic
type PetService interface {
	GetPet(ctx context.Context, userID int64) (*models.Pet, error)
	AdoptPet(ctx context.Context, userID int64, name, species string) (*models.Pet, error)
	RewardReview(ctx context.Context, userID int64, grade srs.Grade) error
	RewardTask(ctx context.Context, userID int64) error
}

type petService struct {
	petRepo repository.PetRepository
}

// NewPetService creates a new PetService
func NewPetService(petRepo repository.PetRepository) PetService {
	return &petService{petRepo: petRepo}
}

func (s *petService) GetPet(ctx context.Context, userID int64) (*models.Pet, error) {
	log := logger.FromContext(ctx)

	pet, err := s.petRepo.GetForUser(ctx, userID)
	if err != nil {
		log.Error("failed to get pet: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if pet == nil {
		return nil, errors.NewNotFoundError("pet", userID)
	}
	pet.Mood = moodFor(pet.LastFedAt, time.Now())
	return pet, nil
}

func (s *petService) AdoptPet(ctx context.Context, userID int64, name, species string) (*models.Pet, error) {
	log := logger.FromContext(ctx)
	log.Debug("adopting pet: user_id=%d, name=%s", userID, name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if species == "" {
		species = "cat"
	}

	pet, err := s.petRepo.Upsert(ctx, models.Pet{UserID: userID, Name: name, Species: species})
	if err != nil {
		log.Error("failed to adopt pet: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return pet, nil
}

func (s *petService) RewardReview(ctx context.Context, userID int64, grade srs.Grade) error {
	xp := xpReviewAgain
	switch grade {
	case srs.GradeHard:
		xp = xpReviewHard
	case srs.GradeGood:
		xp = xpReviewGood
	case srs.GradeEasy:
		xp = xpReviewEasy
	}
	return s.award(ctx, userID, xp)
}

func (s *petService) RewardTask(ctx context.Context, userID int64) error {
	return s.award(ctx, userID, xpTaskCompleted)
}

func (s *petService) award(ctx context.Context, userID int64, xp int) error {
	log := logger.FromContext(ctx)

	pet, err := s.petRepo.GetForUser(ctx, userID)
	if err != nil {
		return err
	}
	if pet == nil {
		// No pet adopted yet; nothing to feed.
		log.Debug("no pet to reward: user_id=%d", userID)
		return nil
	}

	now := time.Now()
	total := pet.XP + xp
	level := 1 + total/xpPerLevel
	mood := moodFor(now, now)

	log.Debug("rewarding pet: user_id=%d, xp=+%d, total=%d, level=%d", userID, xp, total, level)
	return s.petRepo.AddXP(ctx, userID, total, level, mood, now)
}

func moodFor(lastFedAt, now time.Time) string {
	switch since := now.Sub(lastFedAt); {
	case since <= 24*time.Hour:
		return "happy"
	case since <= 72*time.Hour:
		return "content"
	default:
		return "lonely"
	}
}
