// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// PRAGMAs are per connection; keep a single one so foreign keys stay on.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateExpense persists a new expense and its participants.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := storage.PrepareNew(expense, s.now()); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var receipt any
	if expense.ReceiptImage != "" {
		receipt = expense.ReceiptImage
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, paid_by, date_ms, receipt_image, verified, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount.String(), string(expense.PaidBy),
		expense.Date.UnixMilli(), receipt, expense.Verified, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, p := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, position, name) VALUES (?, ?, ?)",
			expense.ID, i, string(p),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const selectExpense = `SELECT id, description, amount, paid_by, date_ms, receipt_image, verified, created_at FROM expenses`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var (
		e       models.Expense
		paidBy  string
		dateMs  int64
		receipt sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Description, &e.Amount, &paidBy, &dateMs, &receipt, &e.Verified, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.PaidBy = models.Participant(paidBy)
	e.Date = time.UnixMilli(dateMs).UTC()
	if receipt.Valid {
		e.ReceiptImage = receipt.String
	}
	return &e, nil
}

// GetExpense retrieves an expense by ID, including its participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx, selectExpense+" WHERE id = ?", expenseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM expense_participants WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		expense.Participants = append(expense.Participants, models.Participant(name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return expense, nil
}

// ListExpenses returns every expense, most recently inserted first.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, selectExpense+" ORDER BY rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	// One pass over participants instead of a query per expense.
	prows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, name FROM expense_participants ORDER BY expense_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var expenseID, name string
		if err := prows.Scan(&expenseID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if expense, ok := byID[expenseID]; ok {
			expense.Participants = append(expense.Participants, models.Participant(name))
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return expenses, nil
}

// DeleteExpense removes an expense by ID. Participants go with it via cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireAffected(res, expenseID)
}

// ClearExpenses removes every expense.
func (s *SQLiteStore) ClearExpenses(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM expenses"); err != nil {
		return fmt.Errorf("failed to clear expenses: %w", err)
	}
	return nil
}

// SetVerified updates the verified flag of an expense.
func (s *SQLiteStore) SetVerified(ctx context.Context, expenseID string, verified bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE expenses SET verified = ? WHERE id = ?", verified, expenseID)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return requireAffected(res, expenseID)
}

func requireAffected(res sql.Result, expenseID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, expenseID)
	}
	return nil
}
