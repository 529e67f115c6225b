package repository

import (
	"context"
	"errors"

	"github.com/Kerhoff/floristbot/internal/models"
)

// ErrNotFound is wrapped by Update and Delete when no record has the id.
var ErrNotFound = errors.New("not found")

// EventRepository defines the interface for booking data operations.
// Assignments are loaded and stored together with their event.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filters EventFilters) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

// ClientRepository defines the interface for client data operations
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) (*models.Client, error)
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) (*models.Client, error)
	Delete(ctx context.Context, id string) error
}

// FloristRepository defines the interface for florist data operations
type FloristRepository interface {
	Create(ctx context.Context, florist *models.Florist) (*models.Florist, error)
	GetByID(ctx context.Context, id string) (*models.Florist, error)
	List(ctx context.Context, onlyActive bool) ([]*models.Florist, error)
	Update(ctx context.Context, florist *models.Florist) (*models.Florist, error)
	Delete(ctx context.Context, id string) error
}

// ExpenseRepository defines the interface for event expense operations
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	GetByEventID(ctx context.Context, eventID string) ([]*models.Expense, error)
	Delete(ctx context.Context, id string) error
}

// ReminderStateRepository persists the dismissed and read reminder id sets.
// Reminders themselves are never stored.
type ReminderStateRepository interface {
	Load(ctx context.Context, kind models.ReminderStateKind) (models.IDSet, error)
	Add(ctx context.Context, kind models.ReminderStateKind, id string) error
	Save(ctx context.Context, kind models.ReminderStateKind, ids models.IDSet) error
}

// EventFilters represents filters for querying events. From and To are
// inclusive dates in "2006-01-02" form.
type EventFilters struct {
	Status   *models.EventStatus
	ClientID *string
	From     *string
	To       *string
	Limit    int
}
