package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/models"
	"github.com/studypals/studypals/internal/repository"
)

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository implementation
func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("getting task: id=%d", id)

	var t models.Task
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, title, notes, priority, estimated_minutes, due_at, completed, completed_at, created_at
FROM tasks
WHERE id = ?
`, id).Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Priority, &t.EstimatedMinutes, &t.DueAt, &t.Completed, &t.CompletedAt, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("task not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get task: %v", err)
		return nil, err
	}
	return &t, nil
}

func taskFilterWhere(query squirrel.SelectBuilder, filter models.TaskFilter) squirrel.SelectBuilder {
	if filter.UserID != 0 {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	switch filter.Status {
	case "open":
		query = query.Where(squirrel.Eq{"completed": 0})
	case "completed":
		query = query.Where(squirrel.Eq{"completed": 1})
	}
	if filter.Priority != 0 {
		query = query.Where(squirrel.Eq{"priority": filter.Priority})
	}
	if filter.DueBefore != nil {
		query = query.Where(squirrel.LtOrEq{"due_at": *filter.DueBefore})
	}
	if filter.DueAfter != nil {
		query = query.Where(squirrel.GtOrEq{"due_at": *filter.DueAfter})
	}
	return query
}

func (r *taskRepository) List(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("listing tasks: user_id=%d, status=%s, priority=%d", filter.UserID, filter.Status, filter.Priority)

	query := sqlBuilder.Select(
		"id", "user_id", "title", "notes", "priority", "estimated_minutes",
		"due_at", "completed", "completed_at", "created_at",
	).From("tasks")
	query = taskFilterWhere(query, filter)

	// Safe ORDER BY with validation
	orderBy := "due_at"
	switch filter.OrderBy {
	case "priority", "created_at", "due_at":
		orderBy = filter.OrderBy
	}
	orderDir := "ASC"
	if filter.OrderDir == "DESC" {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
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
		log.Error("failed to list tasks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Priority, &t.EstimatedMinutes, &t.DueAt, &t.Completed, &t.CompletedAt, &t.CreatedAt); err != nil {
			log.Error("failed to scan task row: %v", err)
			return nil, err
		}
		tasks = append(tasks, t)
	}
	log.Debug("found %d tasks", len(tasks))
	return tasks, rows.Err()
}

func (r *taskRepository) Count(ctx context.Context, filter models.TaskFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")

	query := taskFilterWhere(sqlBuilder.Select("COUNT(*)").From("tasks"), filter)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count tasks: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) Insert(ctx context.Context, t models.Task) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("inserting task: user_id=%d, title=%s", t.UserID, t.Title)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (user_id, title, notes, priority, estimated_minutes, due_at)
VALUES (?, ?, ?, ?, ?, ?)
`, t.UserID, t.Title, t.Notes, t.Priority, t.EstimatedMinutes, t.DueAt)
	if err != nil {
		log.Error("failed to insert task: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get task id: %v", err)
		return 0, err
	}
	log.Debug("task inserted: id=%d", id)
	return id, nil
}

func (r *taskRepository) Update(ctx context.Context, t models.Task) error {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("updating task: id=%d", t.ID)

	_, err := r.db.ExecContext(ctx, `
UPDATE tasks
SET title = ?, notes = ?, priority = ?, estimated_minutes = ?, due_at = ?
WHERE id = ?
`, t.Title, t.Notes, t.Priority, t.EstimatedMinutes, t.DueAt, t.ID)
	if err != nil {
		log.Error("failed to update task: %v", err)
	}
	return err
}

func (r *taskRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("marking task completed: id=%d", id)

	_, err := r.db.ExecContext(ctx, `
UPDATE tasks
SET completed = 1, completed_at = ?
WHERE id = ?
`, at, id)
	if err != nil {
		log.Error("failed to mark task completed: %v", err)
	}
	return err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("task_repo")
	log.Debug("deleting task: id=%d", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete task: %v", err)
	}
	return err
}
