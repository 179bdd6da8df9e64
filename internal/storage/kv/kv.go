// Package kv implements storage.Store as a single expense list held in memory
// and mirrored, as one JSON document, under a fixed key of a key-value
// backend. Every mutation is persisted before it becomes visible, so the
// in-memory list and the persisted list never disagree.
package kv

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
)

// Backend is a minimal key-value store.
type Backend interface {
	// Get returns the value under key, or nil and no error if it is unset.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value under key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases backend resources.
	Close() error
}

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps the expense list in memory, newest first.
type Store struct {
	backend Backend
	key     string
	now     func() time.Time

	mu       sync.RWMutex
	expenses []*models.Expense
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides models.StorageKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates a Store over backend and loads the persisted list.
func Open(ctx context.Context, backend Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		key:     models.StorageKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory list with the persisted one.
// A missing key means an empty list.
func (s *Store) Load(ctx context.Context) error {
	raw, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}

	var expenses []*models.Expense
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &expenses); err != nil {
			return fmt.Errorf("failed to decode expenses: %w", err)
		}
	}

	s.mu.Lock()
	s.expenses = expenses
	s.mu.Unlock()

	slog.Debug("Expenses loaded", "key", s.key, "count", len(expenses))
	return nil
}

// save persists list and, only on success, makes it the current list.
// Callers hold s.mu for writing.
func (s *Store) save(ctx context.Context, list []*models.Expense) error {
	if list == nil {
		list = []*models.Expense{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("failed to save expenses: %w", err)
	}
	s.expenses = list
	return nil
}

func (s *Store) indexOf(expenseID string) int {
	for i, e := range s.expenses {
		if e.ID == expenseID {
			return i
		}
	}
	return -1
}

// CreateExpense prepends a new expense to the list.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := storage.PrepareNew(expense, s.now()); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(expense.ID) >= 0 {
		return fmt.Errorf("expense already exists: %s", expense.ID)
	}

	list := make([]*models.Expense, 0, len(s.expenses)+1)
	list = append(list, expense.Clone())
	list = append(list, s.expenses...)
	return s.save(ctx, list)
}

// GetExpense returns a copy of the expense with the given ID.
func (s *Store) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(expenseID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, expenseID)
	}
	return s.expenses[i].Clone(), nil
}

// ListExpenses returns copies of all expenses, newest first.
func (s *Store) ListExpenses(ctx context.Context) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Expense, len(s.expenses))
	for i, e := range s.expenses {
		out[i] = e.Clone()
	}
	return out, nil
}

// DeleteExpense removes the expense with the given ID.
func (s *Store) DeleteExpense(ctx context.Context, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(expenseID)
	if i < 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, expenseID)
	}

	list := make([]*models.Expense, 0, len(s.expenses)-1)
	list = append(list, s.expenses[:i]...)
	list = append(list, s.expenses[i+1:]...)
	return s.save(ctx, list)
}

// ClearExpenses empties the list.
func (s *Store) ClearExpenses(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, nil)
}

// SetVerified updates the verified flag of an expense.
func (s *Store) SetVerified(ctx context.Context, expenseID string, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(expenseID)
	if i < 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, expenseID)
	}

	updated := s.expenses[i].Clone()
	updated.Verified = verified

	list := append([]*models.Expense(nil), s.expenses...)
	list[i] = updated
	return s.save(ctx, list)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
