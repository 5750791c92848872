package jobs

import (
	"context"
	"time"

	"github.com/studypals/studypals/internal/logger"
	"github.com/studypals/studypals/internal/notify"
	"github.com/studypals/studypals/internal/services"
	"github.com/studypals/studypals/internal/worker"
)

// ReminderScanJob walks all users and sends a reminder to everyone with
// at least one due card.
type ReminderScanJob struct {
	Users    services.UserService
	Reviews  services.ReviewService
	Notifier notify.Notifier
}

func (j *ReminderScanJob) Name() string { return "reminder-scan" }

func (j *ReminderScanJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	users, err := j.Users.ListUsers(ctx)
	if err != nil {
		return err
	}
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	due, err := j.Reviews.UsersWithDueCards(ctx, ids)
	if err != nil {
		return err
	}

	for userID, count := range due {
		if err := j.Notifier.Send(ctx, notify.Reminder{UserID: userID, DueCount: count}); err != nil {
			// One failed delivery should not starve the rest.
			log.Warn("failed to send reminder to user %d: %v", userID, err)
		}
	}
	log.Debug("reminder scan finished: %d users notified", len(due))
	return nil
}

// WorkerQueue implements JobQueue using the worker pool
type WorkerQueue struct {
	pool     *worker.Pool
	users    services.UserService
	reviews  services.ReviewService
	notifier notify.Notifier
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, users services.UserService, reviews services.ReviewService, notifier notify.Notifier) *WorkerQueue {
	return &WorkerQueue{pool: pool, users: users, reviews: reviews, notifier: notifier}
}

func (q *WorkerQueue) EnqueueReminderScan() error {
	return q.pool.Submit(&ReminderScanJob{
		Users:    q.users,
		Reviews:  q.reviews,
		Notifier: q.notifier,
	})
}

// RunPeriodic enqueues a reminder scan on the given interval until the
// context is cancelled.
func (q *WorkerQueue) RunPeriodic(ctx context.Context, interval time.Duration) {
	log := logger.Default().WithPrefix("reminder-ticker")
	if interval <= 0 {
		log.Info("periodic reminders disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	log.Info("periodic reminders every %v", interval)

	for {
		select {
		case <-ctx.Done():
			log.Debug("reminder ticker stopped")
			return
		case <-ticker.C:
			if err := q.EnqueueReminderScan(); err != nil {
				log.Warn("failed to enqueue reminder scan: %v", err)
			}
		}
	}
}
