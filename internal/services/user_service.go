package services

import (
	"context"
	"strings"
	"time"

	"github.com/studypals/studypals/internal/errors"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
)

// UserService handles user account business logic
type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, displayName, email string) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	TouchUser(ctx context.Context, id int64) error
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing users")

	users, err := s.userRepo.List(ctx)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return users, nil
}

func (s *userService) CreateUser(ctx context.Context, displayName, email string) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating user: email=%s", email)

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, errors.NewValidationError("display_name", "cannot be empty")
	}

	user, err := s.userRepo.Insert(ctx, displayName, strings.ToLower(email))
	if err != nil {
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user: id=%d", id)

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}

func (s *userService) TouchUser(ctx context.Context, id int64) error {
	return s.userRepo.TouchLastSeen(ctx, id, time.Now())
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting user: id=%d", id)

	if err := s.userRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete user: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
