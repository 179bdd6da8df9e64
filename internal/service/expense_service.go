package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharedledger/internal/ledger"
	"github.com/mmynk/sharedledger/internal/middleware"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/report"
	"github.com/mmynk/sharedledger/internal/storage"
	"github.com/mmynk/sharedledger/pkg/api"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	api.UnimplementedExpenseServiceHandler
	store   storage.Store
	epsilon decimal.Decimal
}

// Option configures an ExpenseService.
type Option func(*ExpenseService)

// WithEpsilon sets the tolerance under which a balance counts as settled.
func WithEpsilon(eps decimal.Decimal) Option {
	return func(s *ExpenseService) { s.epsilon = eps }
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, opts ...Option) *ExpenseService {
	s := &ExpenseService{store: store, epsilon: ledger.DefaultEpsilon}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// storeError maps store failures onto Connect codes.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// involves reports whether p paid for or shares in e.
func involves(e *models.Expense, p models.Participant) bool {
	return e.PaidBy == p || slices.Contains(e.Participants, p)
}

// checkCaller rejects authenticated callers who are not part of the expense.
// Anonymous requests pass: they only reach the service when auth is disabled.
func checkCaller(ctx context.Context, e *models.Expense, action string) error {
	caller := middleware.GetParticipant(ctx)
	if caller == "" || involves(e, caller) {
		return nil
	}
	return connect.NewError(connect.CodePermissionDenied, fmt.Errorf("%s must pay for or share in the expense to %s it", caller, action))
}

// snapshot loads every expense for a read-only computation.
func (s *ExpenseService) snapshot(ctx context.Context) ([]*models.Expense, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// AddExpense records a new expense.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	msg := req.Msg
	slog.Info("AddExpense request received",
		"description", msg.Description,
		"amount", msg.Amount,
		"participants_count", len(msg.Participants),
	)

	amount, err := decimal.NewFromString(msg.Amount)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid amount %q: %w", msg.Amount, err))
	}
	paidBy, err := models.ParseParticipant(msg.PaidBy)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid payer: %w", err))
	}
	participants, err := models.ParseParticipants(msg.Participants)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid participants: %w", err))
	}

	expense := &models.Expense{
		Description:  msg.Description,
		Amount:       amount,
		PaidBy:       paidBy,
		Participants: models.UniqueParticipants(participants),
		ReceiptImage: msg.ReceiptImage,
		Verified:     msg.Verified,
	}
	if msg.Date != nil {
		expense.Date = msg.Date.UTC()
	}

	if err := ledger.Validate(expense); err != nil {
		slog.Error("AddExpense validation failed", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if err := checkCaller(ctx, expense, "record"); err != nil {
		return nil, err
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	expensesAdded.Inc()

	slog.Info("Expense added",
		"expense_id", expense.ID,
		"paid_by", expense.PaidBy,
		"amount", expense.Amount.String(),
	)

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense retrieves an expense by ID.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	expense, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns every expense, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	expenses, err := s.snapshot(ctx)
	if err != nil {
		slog.Error("ListExpenses failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: toAPIExpenses(expenses)}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	existing, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("DeleteExpense: failed to get existing expense", "expense_id", req.Msg.ID, "error", err)
		return nil, storeError(err)
	}
	if err := checkCaller(ctx, existing, "delete"); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ID, "error", err)
		return nil, storeError(err)
	}
	expensesDeleted.Inc()

	slog.Info("Expense deleted", "expense_id", req.Msg.ID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ClearExpenses removes every expense.
func (s *ExpenseService) ClearExpenses(ctx context.Context, req *connect.Request[api.ClearExpensesRequest]) (*connect.Response[api.ClearExpensesResponse], error) {
	expenses, err := s.snapshot(ctx)
	if err != nil {
		slog.Error("ClearExpenses failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if err := s.store.ClearExpenses(ctx); err != nil {
		slog.Error("ClearExpenses failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	expensesDeleted.Add(float64(len(expenses)))

	slog.Info("Expenses cleared", "count", len(expenses), "participant", middleware.GetParticipant(ctx))
	return connect.NewResponse(&api.ClearExpensesResponse{}), nil
}

// SetVerified marks an expense's receipt as checked.
func (s *ExpenseService) SetVerified(ctx context.Context, req *connect.Request[api.SetVerifiedRequest]) (*connect.Response[api.SetVerifiedResponse], error) {
	if err := s.store.SetVerified(ctx, req.Msg.ID, req.Msg.Verified); err != nil {
		slog.Error("SetVerified failed", "expense_id", req.Msg.ID, "error", err)
		return nil, storeError(err)
	}
	expense, err := s.store.GetExpense(ctx, req.Msg.ID)
	if err != nil {
		slog.Error("SetVerified: failed to reload expense", "expense_id", req.Msg.ID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Expense verification updated", "expense_id", expense.ID, "verified", expense.Verified)
	return connect.NewResponse(&api.SetVerifiedResponse{Expense: toAPIExpense(expense)}), nil
}

// GetBalances computes net balances over all expenses and the transfers that
// settle them.
func (s *ExpenseService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	expenses, err := s.snapshot(ctx)
	if err != nil {
		slog.Error("GetBalances failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	settlement, err := ledger.Settle(values(expenses), ledger.WithEpsilon(s.epsilon))
	if err != nil {
		// Stores only hold validated expenses, so this is corrupt data.
		slog.Error("GetBalances failed - calculation error", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	total := decimal.Zero
	paid := make(map[models.Participant]decimal.Decimal)
	for _, e := range expenses {
		total = total.Add(e.Amount)
		paid[e.PaidBy] = paid[e.PaidBy].Add(e.Amount)
	}

	balances := make([]api.Balance, 0, settlement.Balances.Len())
	for _, entry := range settlement.Balances.Entries() {
		balances = append(balances, api.Balance{
			Participant: entry.Participant.String(),
			Amount:      display(entry.Amount),
			Paid:        display(paid[entry.Participant]),
		})
	}

	transfers := make([]api.Transfer, len(settlement.Transfers))
	for i, t := range settlement.Transfers {
		transfers[i] = api.Transfer{
			From:   t.From.String(),
			To:     t.To.String(),
			Amount: display(t.Amount),
		}
	}

	people := int64(max(1, settlement.Balances.Len()))
	debt := ledger.TotalDebt(settlement.Balances, s.epsilon)
	pendingTransfers.Set(float64(len(transfers)))
	outstandingDebt.Set(debt.InexactFloat64())

	slog.Info("GetBalances successful",
		"expenses_count", len(expenses),
		"participants_count", len(balances),
		"transfers_count", len(transfers),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:         balances,
		Transfers:        transfers,
		TotalSpent:       display(total),
		AveragePerPerson: display(total.Div(decimal.NewFromInt(people))),
		Settled:          len(transfers) == 0,
	}), nil
}

// ListReceipts returns the expenses that carry a receipt reference.
func (s *ExpenseService) ListReceipts(ctx context.Context, req *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	expenses, err := s.snapshot(ctx)
	if err != nil {
		slog.Error("ListReceipts failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	receipts := report.Receipts(values(expenses))
	out := make([]api.Expense, len(receipts))
	for i := range receipts {
		out[i] = toAPIExpense(&receipts[i])
	}
	return connect.NewResponse(&api.ListReceiptsResponse{Expenses: out}), nil
}

// GetReport summarizes the expenses dated within the requested range.
func (s *ExpenseService) GetReport(ctx context.Context, req *connect.Request[api.GetReportRequest]) (*connect.Response[api.GetReportResponse], error) {
	expenses, err := s.snapshot(ctx)
	if err != nil {
		slog.Error("GetReport failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	summary := report.Summarize(values(expenses), req.Msg.From, req.Msg.To)

	categories := make([]api.CategoryTotal, len(summary.ByCategory))
	for i, c := range summary.ByCategory {
		categories[i] = api.CategoryTotal{
			Category: string(c.Category),
			Name:     c.Category.DisplayName(),
			Amount:   display(c.Amount),
			Percent:  c.Percent.StringFixed(1),
		}
	}
	paidBy := make([]api.ParticipantTotal, len(summary.PaidBy))
	for i, p := range summary.PaidBy {
		paidBy[i] = api.ParticipantTotal{Participant: p.Participant.String(), Paid: display(p.Paid)}
	}

	slog.Info("GetReport successful", "from", req.Msg.From, "to", req.Msg.To, "count", summary.Count)

	return connect.NewResponse(&api.GetReportResponse{
		Count:            summary.Count,
		Total:            display(summary.Total),
		AveragePerDay:    display(summary.AveragePerDay),
		AveragePerPerson: display(summary.AveragePerPerson),
		Categories:       categories,
		PaidBy:           paidBy,
	}), nil
}
