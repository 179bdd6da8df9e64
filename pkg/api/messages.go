// Package api defines the ledger.v1 wire messages and Connect bindings for
// the expense service. Money travels as decimal strings.
package api

import "time"

// Expense is a recorded expense as seen by clients.
type Expense struct {
	ID           string    `json:"id"`
	Description  string    `json:"description"`
	Amount       string    `json:"amount"`
	PaidBy       string    `json:"paidBy"`
	Participants []string  `json:"participants"`
	Share        string    `json:"share"` // amount / participants, 2dp
	Date         time.Time `json:"date"`
	ReceiptImage string    `json:"receiptImage,omitempty"`
	Verified     bool      `json:"verified"`
	CreatedAt    int64     `json:"createdAt"`
	Category     string    `json:"category"`
}

type AddExpenseRequest struct {
	Description  string     `json:"description" validate:"required,max=200"`
	Amount       string     `json:"amount" validate:"required,numeric"`
	PaidBy       string     `json:"paidBy" validate:"required"`
	Participants []string   `json:"participants" validate:"required,min=1,dive,required"`
	Date         *time.Time `json:"date,omitempty"`
	ReceiptImage string     `json:"receiptImage,omitempty" validate:"omitempty,uri"`
	Verified     bool       `json:"verified,omitempty"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ID string `json:"id" validate:"required"`
}

type GetExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ID string `json:"id" validate:"required"`
}

type DeleteExpenseResponse struct{}

type ClearExpensesRequest struct{}

type ClearExpensesResponse struct{}

type SetVerifiedRequest struct {
	ID       string `json:"id" validate:"required"`
	Verified bool   `json:"verified"`
}

type SetVerifiedResponse struct {
	Expense Expense `json:"expense"`
}

// Balance is one participant's net position. Positive means they are owed.
type Balance struct {
	Participant string `json:"participant"`
	Amount      string `json:"amount"`
	Paid        string `json:"paid"`
}

// Transfer is a suggested payment that settles part of the debts.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type GetBalancesRequest struct{}

// GetBalancesResponse amounts are rounded to two decimals for display.
type GetBalancesResponse struct {
	Balances         []Balance  `json:"balances"`
	Transfers        []Transfer `json:"transfers"`
	TotalSpent       string     `json:"totalSpent"`
	AveragePerPerson string     `json:"averagePerPerson"`
	Settled          bool       `json:"settled"`
}

type ListReceiptsRequest struct{}

type ListReceiptsResponse struct {
	Expenses []Expense `json:"expenses"`
}

// GetReportRequest selects expenses dated within [From, To]. A zero bound is open.
type GetReportRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to" validate:"omitempty,gtefield=From"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Percent  string `json:"percent"`
}

type ParticipantTotal struct {
	Participant string `json:"participant"`
	Paid        string `json:"paid"`
}

type GetReportResponse struct {
	Count            int                `json:"count"`
	Total            string             `json:"total"`
	AveragePerDay    string             `json:"averagePerDay"`
	AveragePerPerson string             `json:"averagePerPerson"`
	Categories       []CategoryTotal    `json:"categories"`
	PaidBy           []ParticipantTotal `json:"paidBy"`
}
