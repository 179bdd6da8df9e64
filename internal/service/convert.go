package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/report"
	"github.com/mmynk/sharedledger/pkg/api"
)

// displayPlaces is the number of decimals in money shown to people.
const displayPlaces = 2

func display(d decimal.Decimal) string {
	return d.StringFixed(displayPlaces)
}

// share is what each participant owes for e.
func share(e *models.Expense) decimal.Decimal {
	if len(e.Participants) == 0 {
		return decimal.Zero
	}
	return e.Amount.Div(decimal.NewFromInt(int64(len(e.Participants))))
}

func toAPIExpense(e *models.Expense) api.Expense {
	return api.Expense{
		ID:           e.ID,
		Description:  e.Description,
		Amount:       e.Amount.String(),
		PaidBy:       e.PaidBy.String(),
		Participants: models.Strings(e.Participants),
		Share:        display(share(e)),
		Date:         e.Date,
		ReceiptImage: e.ReceiptImage,
		Verified:     e.Verified,
		CreatedAt:    e.CreatedAt,
		Category:     string(report.Categorize(e.Description)),
	}
}

func toAPIExpenses(expenses []*models.Expense) []api.Expense {
	out := make([]api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return out
}

// values dereferences a store listing for the ledger and report packages.
func values(expenses []*models.Expense) []models.Expense {
	out := make([]models.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = *e
	}
	return out
}
