package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Kerhoff/floristbot/internal/board"
	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/reminders"
	"github.com/Kerhoff/floristbot/internal/repository"
)

// Board builds the kanban view over every event.
func (s *Service) Board(ctx context.Context) (*board.Board, error) {
	events, err := s.Events.List(ctx, repository.EventFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	b := board.Build(events)
	s.metrics.ObserveBoard(b)
	return b, nil
}

// Calendar returns the events of one month grouped by day.
func (s *Service) Calendar(ctx context.Context, year int, month time.Month) ([]board.Day, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	from := models.FormatDay(first)
	to := models.FormatDay(first.AddDate(0, 1, -1))

	events, err := s.Events.List(ctx, repository.EventFilters{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load events for %s: %w", first.Format("2006-01"), err)
	}
	return board.Calendar(events, year, month), nil
}

// Upcoming lists non-cancelled events from today over the next days.
func (s *Service) Upcoming(ctx context.Context, days int) ([]*models.Event, error) {
	today := models.StartOfDay(s.Now())
	from := models.FormatDay(today)
	to := models.FormatDay(today.AddDate(0, 0, days))

	events, err := s.Events.List(ctx, repository.EventFilters{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming events: %w", err)
	}

	out := make([]*models.Event, 0, len(events))
	for _, e := range events {
		if e.Status != models.EventStatusCancelled {
			out = append(out, e)
		}
	}
	return out, nil
}

// Reminders evaluates the reminder rules over the current snapshot of events
// and clients with the stored dismissed and read ids.
func (s *Service) Reminders(ctx context.Context) ([]models.Reminder, error) {
	events, err := s.Events.List(ctx, repository.EventFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	clients, err := s.Clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	dismissed, err := s.ReminderState.Load(ctx, models.ReminderStateDismissed)
	if err != nil {
		return nil, fmt.Errorf("failed to load dismissed reminders: %w", err)
	}
	read, err := s.ReminderState.Load(ctx, models.ReminderStateRead)
	if err != nil {
		return nil, fmt.Errorf("failed to load read reminders: %w", err)
	}

	rs := reminders.Evaluate(events, clients, s.Now(), dismissed, read)
	s.metrics.ObserveReminders(rs)
	return rs, nil
}

// DismissReminder hides a reminder for good.
func (s *Service) DismissReminder(ctx context.Context, id string) error {
	return s.markReminder(ctx, models.ReminderStateDismissed, id)
}

// MarkReminderRead flags a reminder as seen.
func (s *Service) MarkReminderRead(ctx context.Context, id string) error {
	return s.markReminder(ctx, models.ReminderStateRead, id)
}

func (s *Service) markReminder(ctx context.Context, kind models.ReminderStateKind, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: reminder id is required", ErrInvalid)
	}
	if err := s.ReminderState.Add(ctx, kind, id); err != nil {
		return fmt.Errorf("failed to mark reminder %s as %s: %w", id, kind, err)
	}
	s.logger.Debugf("Reminder %s marked %s", id, kind)
	return nil
}
