// Package storage provides abstractions for persistent expense storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/sharedledger/internal/models"
)

// ErrNotFound is returned when an expense ID does not exist.
var ErrNotFound = errors.New("expense not found")

// Store defines the interface for expense storage operations.
// This abstraction allows swapping storage backends (SQLite, a key-value
// list, etc.) without changing the service layer.
//
// Implementations are safe for concurrent use and never hand out values
// that alias their internal state, so a ListExpenses result is a consistent
// snapshot the ledger can work on.
type Store interface {
	// CreateExpense persists a new expense.
	// The expense ID and CreatedAt fields are populated by the store, and
	// repeated participants are dropped.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by its ID.
	// Returns ErrNotFound if the expense does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns all expenses, most recently recorded first.
	ListExpenses(ctx context.Context) ([]*models.Expense, error)

	// DeleteExpense removes an expense.
	// Returns ErrNotFound if the expense does not exist.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ClearExpenses removes every expense.
	ClearExpenses(ctx context.Context) error

	// SetVerified marks an expense's receipt as checked (or not).
	// Returns ErrNotFound if the expense does not exist.
	SetVerified(ctx context.Context, expenseID string, verified bool) error

	// Close releases any resources held by the store.
	Close() error
}
