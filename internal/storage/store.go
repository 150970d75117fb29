// Package storage provides abstractions for the session's expense ledger.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/sharetab/internal/models"
)

// ErrNotFound is returned when an expense does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for expense storage operations.
// Expenses are only ever appended and toggled; there is no delete.
type Store interface {
	// CreateExpense persists a new expense.
	// The expense.ID and expense.CreatedAt fields will be populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by its ID.
	// Returns an error wrapping ErrNotFound if the expense does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns every expense in creation order.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// SetSettled updates the settled flag of an expense.
	// Returns an error wrapping ErrNotFound if the expense does not exist.
	SetSettled(ctx context.Context, expenseID string, settled bool) error

	// Close releases any resources held by the store.
	Close() error
}
