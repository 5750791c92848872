package services

import (
	"context"
	"strings"

	"github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
)

// DeckService handles deck and card content business logic
type DeckService interface {
	ListDecks(ctx context.Context, userID int64) ([]models.Deck, error)
	CreateDeck(ctx context.Context, userID int64, name, description string) (*models.Deck, error)
	GetDeck(ctx context.Context, id, userID int64) (*models.Deck, error)
	DeleteDeck(ctx context.Context, id, userID int64) error
	AddCard(ctx context.Context, deckID, userID int64, front, back, tag string) (*models.Card, error)
	ListCards(ctx context.Context, userID int64, filter models.CardFilter) ([]models.Card, int, error)
	DeleteCard(ctx context.Context, cardID, userID int64) error
}

type deckService struct {
	deckRepo repository.DeckRepository
	cardRepo repository.CardRepository
}

// NewDeckService creates a new DeckService
func NewDeckService(deckRepo repository.DeckRepository, cardRepo repository.CardRepository) DeckService {
	return &deckService{deckRepo: deckRepo, cardRepo: cardRepo}
}

func (s *deckService) ListDecks(ctx context.Context, userID int64) ([]models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing decks: user_id=%d", userID)

	decks, err := s.deckRepo.ListForUser(ctx, userID)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return decks, nil
}

func (s *deckService) CreateDeck(ctx context.Context, userID int64, name, description string) (*models.Deck, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating deck: user_id=%d, name=%s", userID, name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}

	id, err := s.deckRepo.Insert(ctx, models.Deck{UserID: userID, Name: name, Description: description})
	if err != nil {
		log.Error("failed to create deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.deckRepo.Get(ctx, id)
}

func (s *deckService) GetDeck(ctx context.Context, id, userID int64) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return nil, errors.NewNotFoundError("deck", id)
	}
	return deck, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, id, userID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting deck: id=%d", id)

	if _, err := s.GetDeck(ctx, id, userID); err != nil {
		return err
	}
	if err := s.deckRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete deck: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *deckService) AddCard(ctx context.Context, deckID, userID int64, front, back, tag string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding card: deck_id=%d", deckID)

	if strings.TrimSpace(front) == "" {
		return nil, errors.NewValidationError("front", "cannot be empty")
	}
	if strings.TrimSpace(back) == "" {
		return nil, errors.NewValidationError("back", "cannot be empty")
	}
	if _, err := s.GetDeck(ctx, deckID, userID); err != nil {
		return nil, err
	}

	id, err := s.cardRepo.Insert(ctx, models.Card{DeckID: deckID, Front: front, Back: back, Tag: tag})
	if err != nil {
		log.Error("failed to add card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.cardRepo.Get(ctx, id)
}

func (s *deckService) ListCards(ctx context.Context, userID int64, filter models.CardFilter) ([]models.Card, int, error) {
	log := logger.FromContext(ctx)

	if filter.DeckID != 0 {
		if _, err := s.GetDeck(ctx, filter.DeckID, userID); err != nil {
			return nil, 0, err
		}
	}

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.cardRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return cards, total, nil
}

func (s *deckService) DeleteCard(ctx context.Context, cardID, userID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: id=%d", cardID)

	card, err := s.cardRepo.Get(ctx, cardID)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return errors.NewInternalError(err)
	}
	if card == nil {
		return errors.NewNotFoundError("card", cardID)
	}
	if _, err := s.GetDeck(ctx, card.DeckID, userID); err != nil {
		return err
	}
	if err := s.cardRepo.Delete(ctx, cardID); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
