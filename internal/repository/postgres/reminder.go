package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
)

type reminderStateRepository struct {
	db *sql.DB
}

// NewReminderStateRepository creates a repository for dismissed and read reminder ids
func NewReminderStateRepository(db *sql.DB) repository.ReminderStateRepository {
	return &reminderStateRepository{db: db}
}

func (r *reminderStateRepository) Load(ctx context.Context, kind models.ReminderStateKind) (models.IDSet, error) {
	query := `SELECT reminder_id FROM reminder_state WHERE kind = $1`

	rows, err := r.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s reminders: %w", kind, err)
	}
	defer rows.Close()

	ids := models.NewIDSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan reminder id: %w", err)
		}
		ids.Add(id)
	}

	return ids, rows.Err()
}

func (r *reminderStateRepository) Add(ctx context.Context, kind models.ReminderStateKind, id string) error {
	query := `
		INSERT INTO reminder_state (kind, reminder_id)
		VALUES ($1, $2)
		ON CONFLICT (kind, reminder_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, kind, id); err != nil {
		return fmt.Errorf("failed to mark reminder %s as %s: %w", id, kind, err)
	}
	return nil
}

func (r *reminderStateRepository) Save(ctx context.Context, kind models.ReminderStateKind, ids models.IDSet) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reminder_state WHERE kind = $1`, kind); err != nil {
		return fmt.Errorf("failed to clear %s reminders: %w", kind, err)
	}

	if len(ids) > 0 {
		query := `
			INSERT INTO reminder_state (kind, reminder_id)
			SELECT $1, unnest($2::text[])`
		if _, err := tx.ExecContext(ctx, query, kind, pq.Array(ids.Slice())); err != nil {
			return fmt.Errorf("failed to store %s reminders: %w", kind, err)
		}
	}

	return tx.Commit()
}
