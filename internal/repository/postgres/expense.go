package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/repository"
)

type expenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *sql.DB) repository.ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	query := `
		INSERT INTO event_expenses (id, event_id, label, category, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	expense.CreatedAt = time.Now()
	if expense.Category == "" {
		expense.Category = models.ExpenseCategoryOther
	}

	err := r.db.QueryRowContext(ctx, query,
		expense.ID,
		expense.EventID,
		expense.Label,
		expense.Category,
		expense.Amount,
		expense.CreatedAt,
	).Scan(&expense.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return expense, nil
}

func (r *expenseRepository) GetByEventID(ctx context.Context, eventID string) ([]*models.Expense, error) {
	query := `
		SELECT id, event_id, label, category, amount, created_at
		FROM event_expenses
		WHERE event_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.EventID,
			&expense.Label,
			&expense.Category,
			&expense.Amount,
			&expense.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

func (r *expenseRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM event_expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("expense with ID %s: %w", id, repository.ErrNotFound)
	}

	return nil
}
