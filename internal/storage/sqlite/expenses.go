package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharetab/internal/models"
	"github.com/mmynk/sharetab/internal/storage"
)

// CreateExpense persists a new expense to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate IDs if not set
	if expense.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate expense id: %w", err)
		}
		expense.ID = id.String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, description, amount, paid_by, settled, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		expense.ID, expense.Description, expense.Amount.String(), string(expense.PaidBy), expense.Settled, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, participant := range expense.Sharers() {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_sharers (expense_id, participant, position) VALUES (?, ?, ?)",
			expense.ID, string(participant), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sharer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its sharers.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	var paidBy string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, description, amount, paid_by, settled, created_at FROM expenses WHERE id = ?",
		expenseID,
	).Scan(&expense.ID, &expense.Description, &expense.Amount, &paidBy, &expense.Settled, &expense.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	expense.PaidBy = models.Participant(paidBy)

	rows, err := s.db.QueryContext(ctx,
		"SELECT participant FROM expense_sharers WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get sharers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var participant string
		if err := rows.Scan(&participant); err != nil {
			return nil, fmt.Errorf("failed to scan sharer: %w", err)
		}
		expense.SharedBy = append(expense.SharedBy, models.Participant(participant))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sharers: %w", err)
	}

	return expense, nil
}

// ListExpenses returns all expenses in the order they were created.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	// Sharers are read first: the single connection cannot serve two open
	// result sets at once.
	sharers, err := s.listSharers(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, description, amount, paid_by, settled, created_at FROM expenses ORDER BY rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var expense models.Expense
		var paidBy string
		if err := rows.Scan(&expense.ID, &expense.Description, &expense.Amount, &paidBy, &expense.Settled, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expense.PaidBy = models.Participant(paidBy)
		expense.SharedBy = sharers[expense.ID]
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// SetSettled updates the settled flag of an expense.
func (s *SQLiteStore) SetSettled(ctx context.Context, expenseID string, settled bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET settled = ? WHERE id = ?",
		settled, expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}

	return nil
}

// listSharers loads every expense's sharers keyed by expense ID, in the
// order they were given.
func (s *SQLiteStore) listSharers(ctx context.Context) (map[string][]models.Participant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, participant FROM expense_sharers ORDER BY expense_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get sharers: %w", err)
	}
	defer rows.Close()

	sharers := make(map[string][]models.Participant)
	for rows.Next() {
		var expenseID, participant string
		if err := rows.Scan(&expenseID, &participant); err != nil {
			return nil, fmt.Errorf("failed to scan sharer: %w", err)
		}
		sharers[expenseID] = append(sharers[expenseID], models.Participant(participant))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sharers: %w", err)
	}

	return sharers, nil
}
