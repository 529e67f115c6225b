package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
	id, title, COALESCE(client_id::text, ''), to_char(event_date, 'YYYY-MM-DD'), event_time, venue,
	status, florists_required, budget, invoiced, paid,
	COALESCE(to_char(invoice_date, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(paid_date, 'YYYY-MM-DD'), ''),
	COALESCE(to_char(completed_date, 'YYYY-MM-DD'), ''),
	notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.ClientID,
		&event.Date,
		&event.Time,
		&event.Venue,
		&event.Status,
		&event.FloristsRequired,
		&event.Budget,
		&event.Invoiced,
		&event.Paid,
		&event.InvoiceDate,
		&event.PaidDate,
		&event.CompletedDate,
		&event.Notes,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	return event, err
}

// nullable maps empty strings to NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (id, title, client_id, event_date, event_time, venue, status, florists_required,
			budget, invoiced, paid, invoice_date, paid_date, completed_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at`

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if event.Status == "" {
		event.Status = models.EventStatusDraft
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, query,
		event.ID,
		event.Title,
		nullable(event.ClientID),
		event.Date,
		event.Time,
		event.Venue,
		event.Status,
		event.FloristsRequired,
		event.Budget,
		event.Invoiced,
		event.Paid,
		nullable(event.InvoiceDate),
		nullable(event.PaidDate),
		nullable(event.CompletedDate),
		event.Notes,
		event.CreatedAt,
		event.UpdatedAt,
	).Scan(&event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := writeAssignments(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event: %w", err)
	}

	return event, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	if err := r.loadAssignments(ctx, []*models.Event{event}); err != nil {
		return nil, err
	}

	return event, nil
}

func (r *eventRepository) List(ctx context.Context, filters repository.EventFilters) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE 1 = 1`
	args := []interface{}{}
	argIdx := 1

	if filters.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filters.Status)
		argIdx++
	}
	if filters.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)
		args = append(args, *filters.ClientID)
		argIdx++
	}
	if filters.From != nil {
		query += fmt.Sprintf(" AND event_date >= $%d", argIdx)
		args = append(args, *filters.From)
		argIdx++
	}
	if filters.To != nil {
		query += fmt.Sprintf(" AND event_date <= $%d", argIdx)
		args = append(args, *filters.To)
		argIdx++
	}

	query += " ORDER BY event_date ASC, created_at ASC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadAssignments(ctx, events); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		UPDATE events
		SET title = $2, client_id = $3, event_date = $4, event_time = $5, venue = $6, status = $7,
			florists_required = $8, budget = $9, invoiced = $10, paid = $11, invoice_date = $12,
			paid_date = $13, completed_date = $14, notes = $15, updated_at = $16
		WHERE id = $1
		RETURNING updated_at`

	event.UpdatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, query,
		event.ID,
		event.Title,
		nullable(event.ClientID),
		event.Date,
		event.Time,
		event.Venue,
		event.Status,
		event.FloristsRequired,
		event.Budget,
		event.Invoiced,
		event.Paid,
		nullable(event.InvoiceDate),
		nullable(event.PaidDate),
		nullable(event.CompletedDate),
		event.Notes,
		event.UpdatedAt,
	).Scan(&event.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_assignments WHERE event_id = $1`, event.ID); err != nil {
		return nil, fmt.Errorf("failed to clear assignments: %w", err)
	}
	if err := writeAssignments(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event: %w", err)
	}

	return event, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("event with ID %s: %w", id, repository.ErrNotFound)
	}

	return nil
}

func writeAssignments(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	query := `
		INSERT INTO event_assignments (event_id, florist_id, position, status, is_confirmed)
		VALUES ($1, $2, $3, $4, $5)`

	for i, a := range event.AssignedFlorists {
		if _, err := tx.ExecContext(ctx, query, event.ID, a.FloristID, i, a.Status, a.IsConfirmed); err != nil {
			return fmt.Errorf("failed to store assignment of florist %s: %w", a.FloristID, err)
		}
	}
	return nil
}

// loadAssignments fills AssignedFlorists for every event with one query.
func (r *eventRepository) loadAssignments(ctx context.Context, events []*models.Event) error {
	if len(events) == 0 {
		return nil
	}

	byID := make(map[string]*models.Event, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		e.AssignedFlorists = []models.Assignment{}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	query := `
		SELECT event_id, florist_id, status, is_confirmed
		FROM event_assignments
		WHERE event_id = ANY($1::uuid[])
		ORDER BY event_id, position ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID string
		var a models.Assignment
		if err := rows.Scan(&eventID, &a.FloristID, &a.Status, &a.IsConfirmed); err != nil {
			return fmt.Errorf("failed to scan assignment: %w", err)
		}
		if e, ok := byID[eventID]; ok {
			e.AssignedFlorists = append(e.AssignedFlorists, a)
		}
	}

	return rows.Err()
}
