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

// TaskService handles study task business logic
type TaskService interface {
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error)
	CreateTask(ctx context.Context, task models.Task) (*models.Task, error)
	GetTask(ctx context.Context, id, userID int64) (*models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (*models.Task, error)
	CompleteTask(ctx context.Context, id, userID int64) (*models.Task, error)
	DeleteTask(ctx context.Context, id, userID int64) error
}

type taskService struct {
	taskRepo repository.TaskRepository
	pets     PetService
}

// NewTaskService creates a new TaskService. Completing a task rewards
// the user's pet; pet failures never fail the completion.
func NewTaskService(taskRepo repository.TaskRepository, pets PetService) TaskService {
	return &taskService{taskRepo: taskRepo, pets: pets}
}

func (s *taskService) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, int, error) {
	log := logger.FromContext(ctx)

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list tasks: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.taskRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count tasks: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return tasks, total, nil
}

func (s *taskService) CreateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating task: user_id=%d, title=%s", task.UserID, task.Title)

	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}
	if task.Priority < 1 || task.Priority > 3 {
		task.Priority = 2
	}

	id, err := s.taskRepo.Insert(ctx, task)
	if err != nil {
		log.Error("failed to create task: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.taskRepo.Get(ctx, id)
}

func (s *taskService) GetTask(ctx context.Context, id, userID int64) (*models.Task, error) {
	log := logger.FromContext(ctx)

	task, err := s.taskRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get task: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if task == nil || task.UserID != userID {
		return nil, errors.NewNotFoundError("task", id)
	}
	return task, nil
}

func (s *taskService) UpdateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating task: id=%d", task.ID)

	existing, err := s.GetTask(ctx, task.ID, task.UserID)
	if err != nil {
		return nil, err
	}
	if existing.Completed {
		return nil, errors.NewConflictError("completed tasks cannot be edited")
	}

	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return nil, errors.NewValidationError("title", "cannot be empty")
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		log.Error("failed to update task: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return s.taskRepo.Get(ctx, task.ID)
}

func (s *taskService) CompleteTask(ctx context.Context, id, userID int64) (*models.Task, error) {
	log := logger.FromContext(ctx)
	log.Debug("completing task: id=%d", id)

	task, err := s.GetTask(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return nil, errors.NewConflictError("task is already completed")
	}

	if err := s.taskRepo.MarkCompleted(ctx, id, time.Now()); err != nil {
		log.Error("failed to complete task: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if s.pets != nil {
		if err := s.pets.RewardTask(ctx, userID); err != nil {
			log.Warn("failed to reward pet for task completion: %v", err)
		}
	}
	return s.taskRepo.Get(ctx, id)
}

func (s *taskService) DeleteTask(ctx context.Context, id, userID int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting task: id=%d", id)

	if _, err := s.GetTask(ctx, id, userID); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete task: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
