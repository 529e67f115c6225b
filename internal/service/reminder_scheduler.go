package service

import (
	"context"
	"sync"
	"time"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/reminders"
)

// ReminderCallback delivers one reminder to the operators.
type ReminderCallback func(r models.Reminder)

// Notifier pushes reminders to a callback on a fixed interval. A reminder is
// delivered once per process and again whenever its priority rises. Read and
// dismissed reminders are never delivered.
type Notifier struct {
	svc         *Service
	interval    time.Duration
	minPriority models.ReminderPriority

	mu       sync.Mutex
	notified map[string]models.ReminderPriority
}

// NewNotifier creates a notifier for reminders at or above minPriority.
func (s *Service) NewNotifier(interval time.Duration, minPriority models.ReminderPriority) *Notifier {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Notifier{
		svc:         s,
		interval:    interval,
		minPriority: minPriority,
		notified:    map[string]models.ReminderPriority{},
	}
}

// Run checks reminders immediately and then on every tick until the context
// is cancelled, so it should be launched in a separate goroutine.
func (n *Notifier) Run(ctx context.Context, callback ReminderCallback) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	n.svc.logger.Infof("Reminder notifier started (every %s, min priority %s)", n.interval, n.minPriority)
	n.Tick(ctx, callback)

	for {
		select {
		case <-ctx.Done():
			n.svc.logger.Info("Reminder notifier stopped")
			return
		case <-ticker.C:
			n.Tick(ctx, callback)
		}
	}
}

// Tick evaluates reminders once and delivers the ones not sent yet or
// escalated since. It returns how many were delivered.
func (n *Notifier) Tick(ctx context.Context, callback ReminderCallback) int {
	rs, err := n.svc.Reminders(ctx)
	if err != nil {
		n.svc.logger.Errorf("Failed to evaluate reminders: %v", err)
		return 0
	}

	due := n.claim(reminders.Filter(rs, n.minPriority, true))
	for _, r := range due {
		callback(r)
		n.svc.metrics.NotificationSent(r)
	}

	if len(due) > 0 {
		n.svc.logger.Infof("Delivered %d reminder notification(s)", len(due))
	}
	return len(due)
}

// claim marks the reminders that need delivering and returns them. The
// callback runs outside the lock.
func (n *Notifier) claim(rs []models.Reminder) []models.Reminder {
	n.mu.Lock()
	defer n.mu.Unlock()

	var due []models.Reminder
	for _, r := range rs {
		if last, ok := n.notified[r.ID]; ok && r.Priority.Rank() >= last.Rank() {
			continue
		}
		n.notified[r.ID] = r.Priority
		due = append(due, r)
	}
	return due
}
