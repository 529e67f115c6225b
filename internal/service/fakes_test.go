package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
	"github.com/Kerhoff/floristbot/internal/repository/memory"
	"github.com/Kerhoff/floristbot/pkg/logger"
)

type fixture struct {
	svc   *Service
	store *memory.Store
}

var fixedNow = time.Date(2026, time.June, 1, 10, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	store := memory.New()
	f := &fixture{store: store}
	f.svc = New(logger.Discard(), nil,
		store.Events, store.Clients, store.Florists, store.Expenses, store.ReminderState)
	f.svc.SetClock(func() time.Time { return fixedNow })
	f.svc.SetLocation(time.UTC)
	return f
}

// newUUIDFixture fails every repository lookup on an id that is not a UUID,
// the way postgres rejects it for a UUID column.
func newUUIDFixture() *fixture {
	store := memory.New()
	f := &fixture{store: store}
	f.svc = New(logger.Discard(), nil,
		uuidEvents{store.Events}, uuidClients{store.Clients}, uuidFlorists{store.Florists},
		uuidExpenses{store.Expenses}, store.ReminderState)
	f.svc.SetClock(func() time.Time { return fixedNow })
	f.svc.SetLocation(time.UTC)
	return f
}

func checkUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid input syntax for type uuid: %q", id)
	}
	return nil
}

type uuidEvents struct{ repository.EventRepository }

func (r uuidEvents) GetByID(ctx context.Context, id string) (*models.Event, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	return r.EventRepository.GetByID(ctx, id)
}

func (r uuidEvents) Delete(ctx context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	return r.EventRepository.Delete(ctx, id)
}

type uuidClients struct{ repository.ClientRepository }

func (r uuidClients) GetByID(ctx context.Context, id string) (*models.Client, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	return r.ClientRepository.GetByID(ctx, id)
}

func (r uuidClients) Delete(ctx context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	return r.ClientRepository.Delete(ctx, id)
}

type uuidFlorists struct{ repository.FloristRepository }

func (r uuidFlorists) GetByID(ctx context.Context, id string) (*models.Florist, error) {
	if err := checkUUID(id); err != nil {
		return nil, err
	}
	return r.FloristRepository.GetByID(ctx, id)
}

func (r uuidFlorists) Delete(ctx context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	return r.FloristRepository.Delete(ctx, id)
}

type uuidExpenses struct{ repository.ExpenseRepository }

func (r uuidExpenses) GetByEventID(ctx context.Context, eventID string) ([]*models.Expense, error) {
	if err := checkUUID(eventID); err != nil {
		return nil, err
	}
	return r.ExpenseRepository.GetByEventID(ctx, eventID)
}

func (r uuidExpenses) Delete(ctx context.Context, id string) error {
	if err := checkUUID(id); err != nil {
		return err
	}
	return r.ExpenseRepository.Delete(ctx, id)
}
