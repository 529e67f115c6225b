package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/floristbot/internal/metrics"
	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = repository.ErrNotFound
	// ErrInvalid wraps validation failures of user input.
	ErrInvalid = errors.New("invalid input")
	// ErrInvalidTransition is returned for a status change the workflow forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrAlreadyAssigned is returned when a florist is already on the event.
	ErrAlreadyAssigned = errors.New("florist already assigned")
)

// Service is the central business logic layer that holds all repositories
// and provides high-level methods for the application.
type Service struct {
	logger        *logrus.Logger
	metrics       *metrics.Metrics
	now           func() time.Time
	location      *time.Location
	Events        repository.EventRepository
	Clients       repository.ClientRepository
	Florists      repository.FloristRepository
	Expenses      repository.ExpenseRepository
	ReminderState repository.ReminderStateRepository
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger, m *metrics.Metrics,
	events repository.EventRepository,
	clients repository.ClientRepository,
	florists repository.FloristRepository,
	expenses repository.ExpenseRepository,
	reminderState repository.ReminderStateRepository,
) *Service {
	return &Service{
		logger: logger, metrics: m,
		now: time.Now, location: time.Local,
		Events: events, Clients: clients, Florists: florists,
		Expenses: expenses, ReminderState: reminderState,
	}
}

// SetClock replaces the wall clock, mainly for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetLocation sets the timezone calendar days are computed in.
func (s *Service) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// Now returns the current time in the configured location.
func (s *Service) Now() time.Time {
	return s.now().In(s.location)
}

func (s *Service) today() string {
	return models.FormatDay(s.Now())
}

// normalizeDates rewrites parseable dates into the storage format so RFC 3339
// input is stored as a plain day.
func (s *Service) normalizeDates(e *models.Event) {
	for _, field := range []*string{&e.Date, &e.InvoiceDate, &e.PaidDate, &e.CompletedDate} {
		if d, ok := models.ParseDay(*field, s.location); ok {
			*field = models.FormatDay(d)
		}
	}
}

// validID reports whether id can name a stored record. Records are keyed by
// UUID, so anything else is unknown without asking the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *Service) requireEvent(ctx context.Context, id string) (*models.Event, error) {
	if !validID(id) {
		return nil, fmt.Errorf("event %q: %w", id, ErrNotFound)
	}
	event, err := s.Events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup event %s: %w", id, err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return event, nil
}

func (s *Service) requireClient(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	_, err := s.GetClient(ctx, id)
	return err
}

func (s *Service) requireFlorist(ctx context.Context, id string) (*models.Florist, error) {
	if !validID(id) {
		return nil, fmt.Errorf("florist %q: %w", id, ErrNotFound)
	}
	florist, err := s.Florists.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup florist %s: %w", id, err)
	}
	if florist == nil {
		return nil, fmt.Errorf("florist %s: %w", id, ErrNotFound)
	}
	return florist, nil
}

// GetEvent returns one booking.
func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.requireEvent(ctx, id)
}

// ListEvents returns the bookings matching filters, never nil.
func (s *Service) ListEvents(ctx context.Context, filters repository.EventFilters) ([]*models.Event, error) {
	if filters.ClientID != nil && !validID(*filters.ClientID) {
		return nil, fmt.Errorf("%w: malformed client id %q", ErrInvalid, *filters.ClientID)
	}
	events, err := s.Events.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}

// CreateEvent validates and stores a new booking. New bookings always start
// as drafts without billing state.
func (s *Service) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	event.ID = uuid.NewString()
	event.Title = strings.TrimSpace(event.Title)
	event.Status = models.EventStatusDraft
	event.Invoiced, event.Paid = false, false
	event.InvoiceDate, event.PaidDate, event.CompletedDate = "", "", ""
	if event.AssignedFlorists == nil {
		event.AssignedFlorists = []models.Assignment{}
	}
	s.normalizeDates(event)

	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.requireClient(ctx, event.ClientID); err != nil {
		return nil, err
	}

	created, err := s.Events.Create(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": created.ID,
		"date":     created.Date,
	}).Info("Created event")
	return created, nil
}

// UpdateEvent copies the editable fields of changes onto the stored event.
// Status, billing state and assignments have their own operations.
func (s *Service) UpdateEvent(ctx context.Context, id string, changes *models.Event) (*models.Event, error) {
	event, err := s.requireEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = strings.TrimSpace(changes.Title)
	event.ClientID = changes.ClientID
	event.Date = changes.Date
	event.Time = changes.Time
	event.Venue = strings.TrimSpace(changes.Venue)
	event.FloristsRequired = changes.FloristsRequired
	event.Budget = changes.Budget
	event.Notes = changes.Notes
	s.normalizeDates(event)

	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.requireClient(ctx, event.ClientID); err != nil {
		return nil, err
	}

	updated, err := s.Events.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", id, err)
	}
	return updated, nil
}

// DeleteEvent removes a booking with its assignments and expenses.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if _, err := s.requireEvent(ctx, id); err != nil {
		return err
	}
	if err := s.Events.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	s.logger.Infof("Deleted event %s", id)
	return nil
}

// ChangeEventStatus moves a booking along the workflow and stamps the billing
// dates that go with the new state.
func (s *Service) ChangeEventStatus(ctx context.Context, id string, to models.EventStatus) (*models.Event, error) {
	event, err := s.requireEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	from := event.Status
	if !models.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	event.Status = to
	switch to {
	case models.EventStatusCompleted:
		event.CompletedDate = s.today()
	case models.EventStatusInvoiced:
		event.Invoiced = true
		event.InvoiceDate = s.today()
	case models.EventStatusPaid:
		event.Paid = true
		event.PaidDate = s.today()
	}

	updated, err := s.Events.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to update status of event %s: %w", id, err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": id,
		"from":     from,
		"to":       to,
	}).Info("Event status changed")
	return updated, nil
}

// CreateClient stores a new client.
func (s *Service) CreateClient(ctx context.Context, client *models.Client) (*models.Client, error) {
	client.ID = uuid.NewString()
	client.FirstName = strings.TrimSpace(client.FirstName)
	client.LastName = strings.TrimSpace(client.LastName)
	client.Phone = strings.TrimSpace(client.Phone)
	if client.FullName() == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalid)
	}

	created, err := s.Clients.Create(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	s.logger.Infof("Created client %s (%s)", created.FullName(), created.ID)
	return created, nil
}

// GetClient returns one client.
func (s *Service) GetClient(ctx context.Context, id string) (*models.Client, error) {
	if !validID(id) {
		return nil, fmt.Errorf("client %q: %w", id, ErrNotFound)
	}
	client, err := s.Clients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lookup client %s: %w", id, err)
	}
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return client, nil
}

// UpdateClient replaces the contact details of a client.
func (s *Service) UpdateClient(ctx context.Context, id string, changes *models.Client) (*models.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	client.FirstName = strings.TrimSpace(changes.FirstName)
	client.LastName = strings.TrimSpace(changes.LastName)
	client.Phone = strings.TrimSpace(changes.Phone)
	client.Email = strings.TrimSpace(changes.Email)
	client.Notes = changes.Notes
	if client.FullName() == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalid)
	}

	updated, err := s.Clients.Update(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to update client %s: %w", id, err)
	}
	return updated, nil
}

// DeleteClient removes a client. Its events stay, without a client.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("client %q: %w", id, ErrNotFound)
	}
	if err := s.Clients.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.logger.Infof("Deleted client %s", id)
	return nil
}

// CreateFlorist stores a new, active florist.
func (s *Service) CreateFlorist(ctx context.Context, florist *models.Florist) (*models.Florist, error) {
	florist.ID = uuid.NewString()
	florist.Name = strings.TrimSpace(florist.Name)
	florist.Active = true
	if florist.Name == "" {
		return nil, fmt.Errorf("%w: florist name is required", ErrInvalid)
	}

	created, err := s.Florists.Create(ctx, florist)
	if err != nil {
		return nil, fmt.Errorf("failed to create florist: %w", err)
	}
	s.logger.Infof("Created florist %s (%s)", created.Name, created.ID)
	return created, nil
}

// DeleteFlorist removes a florist and every assignment they had.
func (s *Service) DeleteFlorist(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("florist %q: %w", id, ErrNotFound)
	}
	if err := s.Florists.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete florist: %w", err)
	}
	s.logger.Infof("Deleted florist %s", id)
	return nil
}

// AddExpense books a cost line against an event.
func (s *Service) AddExpense(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	if _, err := s.requireEvent(ctx, expense.EventID); err != nil {
		return nil, err
	}
	if expense.Amount < 0 {
		return nil, fmt.Errorf("%w: expense amount cannot be negative", ErrInvalid)
	}
	if expense.Category == "" {
		expense.Category = models.ExpenseCategoryOther
	}
	if !expense.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown expense category %q", ErrInvalid, expense.Category)
	}
	expense.ID = uuid.NewString()
	expense.Label = strings.TrimSpace(expense.Label)

	created, err := s.Expenses.Create(ctx, expense)
	if err != nil {
		return nil, fmt.Errorf("failed to add expense: %w", err)
	}
	return created, nil
}

// ListExpenses returns the cost lines of an event, never nil.
func (s *Service) ListExpenses(ctx context.Context, eventID string) ([]*models.Expense, error) {
	if _, err := s.requireEvent(ctx, eventID); err != nil {
		return nil, err
	}
	expenses, err := s.Expenses.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses of event %s: %w", eventID, err)
	}
	if expenses == nil {
		expenses = []*models.Expense{}
	}
	return expenses, nil
}

// DeleteExpense removes one cost line.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if !validID(id) {
		return fmt.Errorf("expense %q: %w", id, ErrNotFound)
	}
	if err := s.Expenses.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// EventMargin computes the margin of one event from its budget and expenses.
func (s *Service) EventMargin(ctx context.Context, eventID string) (models.Margin, error) {
	event, err := s.requireEvent(ctx, eventID)
	if err != nil {
		return models.Margin{}, err
	}

	expenses, err := s.Expenses.GetByEventID(ctx, eventID)
	if err != nil {
		return models.Margin{}, fmt.Errorf("failed to load expenses of event %s: %w", eventID, err)
	}

	lines := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		lines = append(lines, *e)
	}
	return models.ComputeMargin(event.Budget, lines), nil
}
