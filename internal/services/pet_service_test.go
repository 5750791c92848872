package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/services"
	"github.com/studypals/studypals/internal/srs"
	"github.com/studypals/studypals/internal/testutil/mocks"
)

func petWithXP(userID int64, xp int) *models.Pet {
	return &models.Pet{
		ID:        1,
		UserID:    userID,
		Name:      "Mochi",
		Species:   "cat",
		XP:        xp,
		Level:     1 + xp/100,
		LastFedAt: time.Now(),
	}
}

func TestRewardReview_XPByGrade(t *testing.T) {
	tests := []struct {
		grade srs.Grade
		xp    int
	}{
		{srs.GradeAgain, 2},
		{srs.GradeHard, 5},
		{srs.GradeGood, 8},
		{srs.GradeEasy, 10},
	}

	for _, tt := range tests {
		t.Run(string(tt.grade), func(t *testing.T) {
			pets := new(mocks.MockPetRepository)
			svc := services.NewPetService(pets)

			pets.On("GetForUser", mock.Anything, int64(7)).Return(petWithXP(7, 0), nil)
			pets.On("AddXP", mock.Anything, int64(7), tt.xp, 1, "happy", mock.AnythingOfType("time.Time")).Return(nil)

			require.NoError(t, svc.RewardReview(context.Background(), 7, tt.grade))
			pets.AssertExpectations(t)
		})
	}
}

func TestRewardTask_LevelsUp(t *testing.T) {
	pets := new(mocks.MockPetRepository)
	svc := services.NewPetService(pets)

	// 95 + 15 = 110 XP crosses the first level boundary.
	pets.On("GetForUser", mock.Anything, int64(7)).Return(petWithXP(7, 95), nil)
	pets.On("AddXP", mock.Anything, int64(7), 110, 2, "happy", mock.AnythingOfType("time.Time")).Return(nil)

	require.NoError(t, svc.RewardTask(context.Background(), 7))
	pets.AssertExpectations(t)
}

func TestReward_NoPetIsNoop(t *testing.T) {
	pets := new(mocks.MockPetRepository)
	svc := services.NewPetService(pets)

	pets.On("GetForUser", mock.Anything, int64(7)).Return(nil, nil)

	require.NoError(t, svc.RewardTask(context.Background(), 7))
	pets.AssertNotCalled(t, "AddXP", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPet_MoodReflectsNeglect(t *testing.T) {
	tests := []struct {
		name     string
		lastFed  time.Duration
		wantMood string
	}{
		{"fed recently", 2 * time.Hour, "happy"},
		{"fed two days ago", 48 * time.Hour, "content"},
		{"fed a week ago", 7 * 24 * time.Hour, "lonely"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pets := new(mocks.MockPetRepository)
			svc := services.NewPetService(pets)

			pet := petWithXP(7, 20)
			pet.LastFedAt = time.Now().Add(-tt.lastFed)
			pets.On("GetForUser", mock.Anything, int64(7)).Return(pet, nil)

			got, err := svc.GetPet(context.Background(), 7)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMood, got.Mood)
		})
	}
}

func TestGetPet_NotAdopted(t *testing.T) {
	pets := new(mocks.MockPetRepository)
	svc := services.NewPetService(pets)

	pets.On("GetForUser", mock.Anything, int64(7)).Return(nil, nil)

	_, err := svc.GetPet(context.Background(), 7)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestAdoptPet_Defaults(t *testing.T) {
	pets := new(mocks.MockPetRepository)
	svc := services.NewPetService(pets)

	var upserted models.Pet
	pets.On("Upsert", mock.Anything, mock.AnythingOfType("models.Pet")).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).(models.Pet)
		}).Return(petWithXP(7, 0), nil)

	_, err := svc.AdoptPet(context.Background(), 7, "  Mochi  ", "")
	require.NoError(t, err)
	assert.Equal(t, "Mochi", upserted.Name)
	assert.Equal(t, "cat", upserted.Species, "species defaults to cat")
}

func TestAdoptPet_EmptyName(t *testing.T) {
	pets := new(mocks.MockPetRepository)
	svc := services.NewPetService(pets)

	_, err := svc.AdoptPet(context.Background(), 7, "   ", "dog")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}
