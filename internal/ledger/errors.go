package ledger

import (
	"errors"
	"fmt"

	"github.com/mmynk/sharedledger/internal/models"
)

// ErrInvalidExpense is returned when an expense cannot take part in a balance
// computation. Wrapped errors carry the expense ID and the reason.
var ErrInvalidExpense = errors.New("invalid expense")

// Validate checks the invariants ComputeBalances relies on. Every identifier
// must already be in the form ParseParticipant produces, otherwise "juan" and
// "Juan" would land on separate balance keys.
func Validate(e *models.Expense) error {
	if len(e.Participants) == 0 {
		return invalid(e, "must have at least one participant")
	}
	if !e.Amount.IsPositive() {
		return invalid(e, "amount must be greater than zero, got "+e.Amount.String())
	}
	if e.PaidBy == "" {
		return invalid(e, "payer is required")
	}
	if !canonical(e.PaidBy) {
		return invalid(e, fmt.Sprintf("payer %q is not a canonical participant", e.PaidBy))
	}
	for _, p := range e.Participants {
		if p == "" {
			return invalid(e, "participant name cannot be empty")
		}
		if !canonical(p) {
			return invalid(e, fmt.Sprintf("participant %q is not canonical", p))
		}
	}
	return nil
}

func canonical(p models.Participant) bool {
	parsed, err := models.ParseParticipant(string(p))
	return err == nil && parsed == p
}

func invalid(e *models.Expense, reason string) error {
	if e.ID == "" {
		return fmt.Errorf("%w: %s", ErrInvalidExpense, reason)
	}
	return fmt.Errorf("%w %q: %s", ErrInvalidExpense, e.ID, reason)
}
