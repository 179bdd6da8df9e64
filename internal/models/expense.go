package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StorageKey is the fixed key under which the expense list is persisted by
// key-value backends. The suffix versions the encoding.
const StorageKey = "@shared_expenses_v1"

// Expense represents a shared expense fronted by one participant and split
// equally among Participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUIDv7, time-ordered).
	// Assigned by the store at creation and never changed.
	ID string `json:"id"`

	// Description is a free-text label ("Supermercado", "Cena").
	Description string `json:"description"`

	// Amount is the total paid. Must be positive.
	Amount decimal.Decimal `json:"amount"`

	// PaidBy is the participant who fronted the money.
	// Usually one of Participants, but that is not enforced here.
	PaidBy Participant `json:"paidBy"`

	// Participants share the amount equally. Must not be empty.
	Participants []Participant `json:"participants"`

	// Date is when the expense happened. Display and sorting only.
	Date time.Time `json:"date"`

	// ReceiptImage is an optional opaque reference (URI) to a receipt photo.
	ReceiptImage string `json:"receiptImage,omitempty"`

	// Verified marks an expense whose receipt has been checked.
	Verified bool `json:"verified,omitempty"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}

// HasReceipt reports whether a receipt reference is attached.
func (e *Expense) HasReceipt() bool {
	return e.ReceiptImage != ""
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (e *Expense) Clone() *Expense {
	c := *e
	c.Participants = append([]Participant(nil), e.Participants...)
	return &c
}
