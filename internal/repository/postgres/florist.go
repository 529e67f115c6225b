package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
)

type floristRepository struct {
	db *sql.DB
}

// NewFloristRepository creates a new florist repository
func NewFloristRepository(db *sql.DB) repository.FloristRepository {
	return &floristRepository{db: db}
}

func (r *floristRepository) Create(ctx context.Context, florist *models.Florist) (*models.Florist, error) {
	query := `
		INSERT INTO florists (id, name, phone, email, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	now := time.Now()
	florist.CreatedAt = now
	florist.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		florist.ID,
		florist.Name,
		florist.Phone,
		florist.Email,
		florist.Active,
		florist.CreatedAt,
		florist.UpdatedAt,
	).Scan(&florist.CreatedAt, &florist.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create florist: %w", err)
	}

	return florist, nil
}

func (r *floristRepository) GetByID(ctx context.Context, id string) (*models.Florist, error) {
	query := `
		SELECT id, name, phone, email, active, created_at, updated_at
		FROM florists
		WHERE id = $1`

	florist := &models.Florist{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&florist.ID,
		&florist.Name,
		&florist.Phone,
		&florist.Email,
		&florist.Active,
		&florist.CreatedAt,
		&florist.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get florist: %w", err)
	}

	return florist, nil
}

func (r *floristRepository) List(ctx context.Context, onlyActive bool) ([]*models.Florist, error) {
	query := `
		SELECT id, name, phone, email, active, created_at, updated_at
		FROM florists`
	if onlyActive {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query florists: %w", err)
	}
	defer rows.Close()

	var florists []*models.Florist
	for rows.Next() {
		florist := &models.Florist{}
		if err := rows.Scan(
			&florist.ID,
			&florist.Name,
			&florist.Phone,
			&florist.Email,
			&florist.Active,
			&florist.CreatedAt,
			&florist.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan florist: %w", err)
		}
		florists = append(florists, florist)
	}

	return florists, rows.Err()
}

func (r *floristRepository) Update(ctx context.Context, florist *models.Florist) (*models.Florist, error) {
	query := `
		UPDATE florists
		SET name = $2, phone = $3, email = $4, active = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at`

	florist.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		florist.ID,
		florist.Name,
		florist.Phone,
		florist.Email,
		florist.Active,
		florist.UpdatedAt,
	).Scan(&florist.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update florist: %w", err)
	}

	return florist, nil
}

func (r *floristRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM florists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete florist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("florist with ID %s: %w", id, repository.ErrNotFound)
	}

	return nil
}
