package notify

import (
	"context"

	"github.com/studypals/studypals/internal/logger"
)

// Reminder tells a user how many cards are waiting for review.
type Reminder struct {
	UserID   int64
	DueCount int
}

// Notifier delivers reminders. Actual push transport lives outside this
// service; implementations here only need the narrow send contract.
type Notifier interface {
	Send(ctx context.Context, reminder Reminder) error
}

// LogNotifier writes reminders to the application log. It is the default
// delivery channel when no push transport is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, reminder Reminder) error {
	log := logger.FromContext(ctx).WithPrefix("notify")
	log.Info("reminder: user_id=%d has %d cards due for review", reminder.UserID, reminder.DueCount)
	return nil
}
