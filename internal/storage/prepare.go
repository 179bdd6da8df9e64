package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharedledger/internal/models"
)

// PrepareNew fills in the fields a store owns on creation: a time-ordered
// ID, CreatedAt, and a Date defaulting to the creation time. It also drops
// repeated participants.
func PrepareNew(expense *models.Expense, now time.Time) error {
	if expense.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate expense id: %w", err)
		}
		expense.ID = id.String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now.Unix()
	}
	if expense.Date.IsZero() {
		expense.Date = now
	}
	expense.Participants = models.UniqueParticipants(expense.Participants)
	return nil
}
