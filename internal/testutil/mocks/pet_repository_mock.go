package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/studypals/studypals/internal/models"
)

// MockPetRepository is a mock implementation of repository.PetRepository
type MockPetRepository struct {
	mock.Mock
}

func (m *MockPetRepository) GetForUser(ctx context.Context, userID int64) (*models.Pet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pet), args.Error(1)
}

func (m *MockPetRepository) Upsert(ctx context.Context, pet models.Pet) (*models.Pet, error) {
	args := m.Called(ctx, pet)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pet), args.Error(1)
}

func (m *MockPetRepository) AddXP(ctx context.Context, userID int64, xp int, level int, mood string, fedAt time.Time) error {
	args := m.Called(ctx, userID, xp, level, mood, fedAt)
	return args.Error(0)
}
