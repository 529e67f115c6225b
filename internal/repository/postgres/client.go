package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
)

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *sql.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	query := `
		INSERT INTO clients (id, first_name, last_name, phone, email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	err := r.db.QueryRowContext(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Phone,
		client.Email,
		client.Notes,
		client.CreatedAt,
		client.UpdatedAt,
	).Scan(&client.CreatedAt, &client.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*models.Client, error) {
	query := `
		SELECT id, first_name, last_name, phone, email, notes, created_at, updated_at
		FROM clients
		WHERE id = $1`

	client := &models.Client{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.FirstName,
		&client.LastName,
		&client.Phone,
		&client.Email,
		&client.Notes,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]*models.Client, error) {
	query := `
		SELECT id, first_name, last_name, phone, email, notes, created_at, updated_at
		FROM clients
		ORDER BY last_name ASC, first_name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(
			&client.ID,
			&client.FirstName,
			&client.LastName,
			&client.Phone,
			&client.Email,
			&client.Notes,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) (*models.Client, error) {
	query := `
		UPDATE clients
		SET first_name = $2, last_name = $3, phone = $4, email = $5, notes = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at`

	client.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		client.ID,
		client.FirstName,
		client.LastName,
		client.Phone,
		client.Email,
		client.Notes,
		client.UpdatedAt,
	).Scan(&client.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("client with ID %s: %w", id, repository.ErrNotFound)
	}

	return nil
}
