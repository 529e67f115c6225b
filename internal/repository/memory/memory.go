// Package memory keeps every repository in process memory. It backs the
// service, API and bot tests and behaves like the postgres implementation:
// a missing record is (nil, nil) on read and an error wrapping
// repository.ErrNotFound on update or delete. Deletes cascade like the
// foreign keys of the schema.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
)

// Store groups one instance of each repository.
type Store struct {
	Events        *EventRepository
	Clients       *ClientRepository
	Florists      *FloristRepository
	Expenses      *ExpenseRepository
	ReminderState *ReminderStateRepository
}

// New returns an empty store.
func New() *Store {
	expenses := &ExpenseRepository{}
	events := &EventRepository{items: map[string]models.Event{}, expenses: expenses}
	return &Store{
		Events:        events,
		Clients:       &ClientRepository{items: map[string]models.Client{}, events: events},
		Florists:      &FloristRepository{items: map[string]models.Florist{}, events: events},
		Expenses:      expenses,
		ReminderState: &ReminderStateRepository{sets: map[models.ReminderStateKind]models.IDSet{}},
	}
}

var (
	_ repository.EventRepository         = (*EventRepository)(nil)
	_ repository.ClientRepository        = (*ClientRepository)(nil)
	_ repository.FloristRepository       = (*FloristRepository)(nil)
	_ repository.ExpenseRepository       = (*ExpenseRepository)(nil)
	_ repository.ReminderStateRepository = (*ReminderStateRepository)(nil)
)

func copyEvent(e models.Event) *models.Event {
	e.AssignedFlorists = append([]models.Assignment(nil), e.AssignedFlorists...)
	return &e
}

// EventRepository stores events with their assignments.
type EventRepository struct {
	mu       sync.Mutex
	items    map[string]models.Event
	order    []string
	expenses *ExpenseRepository
}

func (r *EventRepository) Create(_ context.Context, e *models.Event) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.ID]; ok {
		return nil, fmt.Errorf("event with ID %s already exists", e.ID)
	}
	r.items[e.ID] = *copyEvent(*e)
	r.order = append(r.order, e.ID)
	return e, nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return copyEvent(e), nil
}

// List applies the filters and orders by date, oldest first.
func (r *EventRepository) List(_ context.Context, f repository.EventFilters) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.Event
	for _, id := range r.order {
		e, ok := r.items[id]
		if !ok {
			continue
		}
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		if f.ClientID != nil && e.ClientID != *f.ClientID {
			continue
		}
		if f.From != nil && e.Date < *f.From {
			continue
		}
		if f.To != nil && e.Date > *f.To {
			continue
		}
		out = append(out, copyEvent(e))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *EventRepository) Update(_ context.Context, e *models.Event) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[e.ID]; !ok {
		return nil, fmt.Errorf("event with ID %s: %w", e.ID, repository.ErrNotFound)
	}
	r.items[e.ID] = *copyEvent(*e)
	return e, nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("event with ID %s: %w", id, repository.ErrNotFound)
	}
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if r.expenses != nil {
		r.expenses.deleteByEvent(id)
	}
	return nil
}

// detachClient clears the client of its events, like ON DELETE SET NULL.
func (r *EventRepository) detachClient(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.items {
		if e.ClientID == clientID {
			e.ClientID = ""
			r.items[id] = e
		}
	}
}

// dropFlorist removes every assignment of the florist.
func (r *EventRepository) dropFlorist(floristID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.items {
		kept := e.AssignedFlorists[:0:0]
		for _, a := range e.AssignedFlorists {
			if a.FloristID != floristID {
				kept = append(kept, a)
			}
		}
		if len(kept) != len(e.AssignedFlorists) {
			e.AssignedFlorists = kept
			r.items[id] = e
		}
	}
}

// ClientRepository stores clients.
type ClientRepository struct {
	mu     sync.Mutex
	items  map[string]models.Client
	events *EventRepository
}

func (r *ClientRepository) Create(_ context.Context, c *models.Client) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = *c
	return c, nil
}

func (r *ClientRepository) GetByID(_ context.Context, id string) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// List orders clients by last then first name.
func (r *ClientRepository) List(_ context.Context) ([]*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Client, 0, len(r.items))
	for _, c := range r.items {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ClientRepository) Update(_ context.Context, c *models.Client) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return nil, fmt.Errorf("client with ID %s: %w", c.ID, repository.ErrNotFound)
	}
	r.items[c.ID] = *c
	return c, nil
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("client with ID %s: %w", id, repository.ErrNotFound)
	}
	delete(r.items, id)
	if r.events != nil {
		r.events.detachClient(id)
	}
	return nil
}

// FloristRepository stores florists.
type FloristRepository struct {
	mu     sync.Mutex
	items  map[string]models.Florist
	events *EventRepository
}

func (r *FloristRepository) Create(_ context.Context, f *models.Florist) (*models.Florist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[f.ID] = *f
	return f, nil
}

func (r *FloristRepository) GetByID(_ context.Context, id string) (*models.Florist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (r *FloristRepository) List(_ context.Context, onlyActive bool) ([]*models.Florist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Florist, 0, len(r.items))
	for _, f := range r.items {
		if onlyActive && !f.Active {
			continue
		}
		f := f
		out = append(out, &f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *FloristRepository) Update(_ context.Context, f *models.Florist) (*models.Florist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[f.ID]; !ok {
		return nil, fmt.Errorf("florist with ID %s: %w", f.ID, repository.ErrNotFound)
	}
	r.items[f.ID] = *f
	return f, nil
}

func (r *FloristRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return fmt.Errorf("florist with ID %s: %w", id, repository.ErrNotFound)
	}
	delete(r.items, id)
	if r.events != nil {
		r.events.dropFlorist(id)
	}
	return nil
}

// ExpenseRepository stores expenses in insertion order.
type ExpenseRepository struct {
	mu    sync.Mutex
	items []models.Expense
}

func (r *ExpenseRepository) Create(_ context.Context, e *models.Expense) (*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *e)
	return e, nil
}

func (r *ExpenseRepository) GetByEventID(_ context.Context, eventID string) ([]*models.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Expense
	for _, e := range r.items {
		if e.EventID == eventID {
			e := e
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *ExpenseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.items {
		if e.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("expense with ID %s: %w", id, repository.ErrNotFound)
}

func (r *ExpenseRepository) deleteByEvent(eventID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.items[:0]
	for _, e := range r.items {
		if e.EventID != eventID {
			kept = append(kept, e)
		}
	}
	r.items = kept
}

// ReminderStateRepository keeps the dismissed and read id sets.
type ReminderStateRepository struct {
	mu   sync.Mutex
	sets map[models.ReminderStateKind]models.IDSet
}

// Load returns a copy of the stored set, empty when nothing was saved.
func (r *ReminderStateRepository) Load(_ context.Context, kind models.ReminderStateKind) (models.IDSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.NewIDSet(r.sets[kind].Slice()...), nil
}

func (r *ReminderStateRepository) Add(_ context.Context, kind models.ReminderStateKind, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sets[kind] == nil {
		r.sets[kind] = models.NewIDSet()
	}
	r.sets[kind].Add(id)
	return nil
}

func (r *ReminderStateRepository) Save(_ context.Context, kind models.ReminderStateKind, ids models.IDSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets[kind] = models.NewIDSet(ids.Slice()...)
	return nil
}
