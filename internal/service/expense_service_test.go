package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/sharedledger/internal/middleware"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage/sqlite"
	"github.com/mmynk/sharedledger/pkg/api"
)

// testAuthInterceptor returns a Connect interceptor that sets a test participant in the context.
func testAuthInterceptor(name string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(middleware.WithParticipant(ctx, models.MustParticipant(name)), req)
		}
	}
}

// setupTestServer creates a test server over a SQLite database in a temp dir.
func setupTestServer(t *testing.T, interceptors ...connect.Interceptor) api.ExpenseServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	interceptors = append(interceptors, middleware.ValidationInterceptor(validator.New()))
	path, handler := api.NewExpenseServiceHandler(NewExpenseService(store), connect.WithInterceptors(interceptors...))

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return api.NewExpenseServiceClient(http.DefaultClient, server.URL)
}

func addExpense(t *testing.T, client api.ExpenseServiceClient, req *api.AddExpenseRequest) api.Expense {
	t.Helper()
	resp, err := client.AddExpense(context.Background(), connect.NewRequest(req))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("expected code %v, got %v (%v)", want, got, err)
	}
}

func TestAddExpense(t *testing.T) {
	client := setupTestServer(t)

	got := addExpense(t, client, &api.AddExpenseRequest{
		Description:  "Supermercado",
		Amount:       "90",
		PaidBy:       "  juan ",
		Participants: []string{"JUAN", "maría", "Pedro", "juan"},
	})

	if got.ID == "" || got.CreatedAt == 0 {
		t.Errorf("expected ID and CreatedAt to be set, got %+v", got)
	}
	if got.PaidBy != "Juan" {
		t.Errorf("expected payer Juan, got %q", got.PaidBy)
	}
	want := []string{"Juan", "María", "Pedro"}
	if len(got.Participants) != len(want) {
		t.Fatalf("expected participants %v, got %v", want, got.Participants)
	}
	for i, p := range want {
		if got.Participants[i] != p {
			t.Errorf("participant %d: expected %s, got %s", i, p, got.Participants[i])
		}
	}
	if got.Category != "food" {
		t.Errorf("expected category food, got %q", got.Category)
	}
	if got.Date.IsZero() {
		t.Error("expected date to default to now")
	}
	if got.Share != "30.00" {
		t.Errorf("expected share 30.00, got %q", got.Share)
	}
	if got.Verified {
		t.Error("expected new expense to be unverified by default")
	}

	fetched, err := client.GetExpense(context.Background(), connect.NewRequest(&api.GetExpenseRequest{ID: got.ID}))
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if fetched.Msg.Expense.Amount != "90" || fetched.Msg.Expense.Description != "Supermercado" {
		t.Errorf("unexpected expense: %+v", fetched.Msg.Expense)
	}
}

func TestAddExpense_VerifiedReceiptAndShare(t *testing.T) {
	client := setupTestServer(t)

	created := addExpense(t, client, &api.AddExpenseRequest{
		Description:  "Cena",
		Amount:       "100",
		PaidBy:       "Ana",
		Participants: []string{"Ana", "Juan", "Pedro"},
		ReceiptImage: "file:///receipts/cena.jpg",
		Verified:     true,
	})

	fetched, err := client.GetExpense(context.Background(), connect.NewRequest(&api.GetExpenseRequest{ID: created.ID}))
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if !fetched.Msg.Expense.Verified {
		t.Error("expected verified flag to be stored on create")
	}
	if fetched.Msg.Expense.Share != "33.33" {
		t.Errorf("expected share 33.33, got %q", fetched.Msg.Expense.Share)
	}
}

func TestAddExpense_Invalid(t *testing.T) {
	client := setupTestServer(t)

	tests := []struct {
		name string
		req  *api.AddExpenseRequest
	}{
		{"no participants", &api.AddExpenseRequest{Description: "Cena", Amount: "10", PaidBy: "Juan"}},
		{"empty participant list", &api.AddExpenseRequest{Description: "Cena", Amount: "10", PaidBy: "Juan", Participants: []string{}}},
		{"amount not a number", &api.AddExpenseRequest{Description: "Cena", Amount: "diez", PaidBy: "Juan", Participants: []string{"Juan"}}},
		{"zero amount", &api.AddExpenseRequest{Description: "Cena", Amount: "0", PaidBy: "Juan", Participants: []string{"Juan"}}},
		{"negative amount", &api.AddExpenseRequest{Description: "Cena", Amount: "-5", PaidBy: "Juan", Participants: []string{"Juan"}}},
		{"missing payer", &api.AddExpenseRequest{Description: "Cena", Amount: "10", Participants: []string{"Juan"}}},
		{"blank payer", &api.AddExpenseRequest{Description: "Cena", Amount: "10", PaidBy: "   ", Participants: []string{"Juan"}}},
		{"blank participant", &api.AddExpenseRequest{Description: "Cena", Amount: "10", PaidBy: "Juan", Participants: []string{"Juan", "  "}}},
		{"missing description", &api.AddExpenseRequest{Amount: "10", PaidBy: "Juan", Participants: []string{"Juan"}}},
		{"bad receipt reference", &api.AddExpenseRequest{Description: "Cena", Amount: "10", PaidBy: "Juan", Participants: []string{"Juan"}, ReceiptImage: "not a uri"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddExpense(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	list, err := client.ListExpenses(context.Background(), connect.NewRequest(&api.ListExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 0 {
		t.Errorf("expected no expenses stored, got %d", len(list.Msg.Expenses))
	}
}

func TestGetBalances(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	empty, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if !empty.Msg.Settled || len(empty.Msg.Balances) != 0 || empty.Msg.TotalSpent != "0.00" {
		t.Errorf("expected settled empty ledger, got %+v", empty.Msg)
	}

	addExpense(t, client, &api.AddExpenseRequest{
		Description:  "Supermercado",
		Amount:       "90",
		PaidBy:       "Juan",
		Participants: []string{"Juan", "María", "Pedro"},
	})

	resp, err := client.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}

	wantBalances := []api.Balance{
		{Participant: "Juan", Amount: "60.00", Paid: "90.00"},
		{Participant: "María", Amount: "-30.00", Paid: "0.00"},
		{Participant: "Pedro", Amount: "-30.00", Paid: "0.00"},
	}
	if len(resp.Msg.Balances) != len(wantBalances) {
		t.Fatalf("expected %d balances, got %+v", len(wantBalances), resp.Msg.Balances)
	}
	for i, want := range wantBalances {
		if resp.Msg.Balances[i] != want {
			t.Errorf("balance %d: expected %+v, got %+v", i, want, resp.Msg.Balances[i])
		}
	}

	wantTransfers := []api.Transfer{
		{From: "María", To: "Juan", Amount: "30.00"},
		{From: "Pedro", To: "Juan", Amount: "30.00"},
	}
	if len(resp.Msg.Transfers) != len(wantTransfers) {
		t.Fatalf("expected %d transfers, got %+v", len(wantTransfers), resp.Msg.Transfers)
	}
	for i, want := range wantTransfers {
		if resp.Msg.Transfers[i] != want {
			t.Errorf("transfer %d: expected %+v, got %+v", i, want, resp.Msg.Transfers[i])
		}
	}

	if resp.Msg.TotalSpent != "90.00" {
		t.Errorf("expected total 90.00, got %s", resp.Msg.TotalSpent)
	}
	if resp.Msg.AveragePerPerson != "30.00" {
		t.Errorf("expected average 30.00, got %s", resp.Msg.AveragePerPerson)
	}
	if resp.Msg.Settled {
		t.Error("expected unsettled ledger")
	}
}

func TestGetBalances_ThirdsRoundForDisplay(t *testing.T) {
	client := setupTestServer(t)

	addExpense(t, client, &api.AddExpenseRequest{
		Description:  "Taxi",
		Amount:       "100",
		PaidBy:       "Ana",
		Participants: []string{"Ana", "Juan", "Pedro"},
	})

	resp, err := client.GetBalances(context.Background(), connect.NewRequest(&api.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if got := resp.Msg.Balances[0].Amount; got != "66.67" {
		t.Errorf("expected Ana 66.67, got %s", got)
	}
	if got := resp.Msg.Balances[1].Amount; got != "-33.33" {
		t.Errorf("expected Juan -33.33, got %s", got)
	}
	if len(resp.Msg.Transfers) != 2 || resp.Msg.Transfers[0].Amount != "33.33" {
		t.Errorf("unexpected transfers: %+v", resp.Msg.Transfers)
	}
}

func TestGetExpense_NotFound(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	_, err := client.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{ID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ID: "missing"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.SetVerified(ctx, connect.NewRequest(&api.SetVerifiedRequest{ID: "missing", Verified: true}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = client.GetExpense(ctx, connect.NewRequest(&api.GetExpenseRequest{}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestDeleteAndClear(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	first := addExpense(t, client, &api.AddExpenseRequest{Description: "Uber", Amount: "12", PaidBy: "Pedro", Participants: []string{"Pedro", "Juan"}})
	second := addExpense(t, client, &api.AddExpenseRequest{Description: "Cena", Amount: "40", PaidBy: "Juan", Participants: []string{"Pedro", "Juan"}})
	addExpense(t, client, &api.AddExpenseRequest{Description: "Café", Amount: "5", PaidBy: "Juan", Participants: []string{"Juan"}})

	list, err := client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(list.Msg.Expenses) != 3 || list.Msg.Expenses[2].ID != first.ID {
		t.Fatalf("expected newest first with %s last, got %+v", first.ID, list.Msg.Expenses)
	}

	if _, err := client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ID: second.ID})); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	list, _ = client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{}))
	if len(list.Msg.Expenses) != 2 {
		t.Errorf("expected 2 expenses after delete, got %d", len(list.Msg.Expenses))
	}

	if _, err := client.ClearExpenses(ctx, connect.NewRequest(&api.ClearExpensesRequest{})); err != nil {
		t.Fatalf("ClearExpenses failed: %v", err)
	}
	list, _ = client.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{}))
	if len(list.Msg.Expenses) != 0 {
		t.Errorf("expected empty ledger after clear, got %d", len(list.Msg.Expenses))
	}
}

func TestReceipts(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	addExpense(t, client, &api.AddExpenseRequest{Description: "Taxi", Amount: "10", PaidBy: "Juan", Participants: []string{"Juan"}})
	withReceipt := addExpense(t, client, &api.AddExpenseRequest{
		Description:  "Restaurante",
		Amount:       "80",
		PaidBy:       "María",
		Participants: []string{"María", "Juan"},
		ReceiptImage: "file:///receipts/1.jpg",
	})

	receipts, err := client.ListReceipts(ctx, connect.NewRequest(&api.ListReceiptsRequest{}))
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	if len(receipts.Msg.Expenses) != 1 || receipts.Msg.Expenses[0].ID != withReceipt.ID {
		t.Fatalf("expected only %s, got %+v", withReceipt.ID, receipts.Msg.Expenses)
	}
	if receipts.Msg.Expenses[0].Verified {
		t.Error("new receipt should not be verified")
	}

	verified, err := client.SetVerified(ctx, connect.NewRequest(&api.SetVerifiedRequest{ID: withReceipt.ID, Verified: true}))
	if err != nil {
		t.Fatalf("SetVerified failed: %v", err)
	}
	if !verified.Msg.Expense.Verified {
		t.Error("expected verified expense in response")
	}
}

func TestGetReport(t *testing.T) {
	client := setupTestServer(t)
	ctx := context.Background()

	day := func(d int) *time.Time {
		ts := time.Date(2025, 10, d, 12, 0, 0, 0, time.UTC)
		return &ts
	}
	addExpense(t, client, &api.AddExpenseRequest{Description: "Supermercado", Amount: "60", PaidBy: "Juan", Participants: []string{"Juan", "María"}, Date: day(1)})
	addExpense(t, client, &api.AddExpenseRequest{Description: "Uber", Amount: "20", PaidBy: "María", Participants: []string{"Juan", "María"}, Date: day(2)})
	addExpense(t, client, &api.AddExpenseRequest{Description: "Cine", Amount: "30", PaidBy: "María", Participants: []string{"Juan", "María"}, Date: day(15)})

	resp, err := client.GetReport(ctx, connect.NewRequest(&api.GetReportRequest{From: *day(1), To: *day(4)}))
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	msg := resp.Msg
	if msg.Count != 2 || msg.Total != "80.00" {
		t.Errorf("expected 2 expenses totalling 80.00, got %d / %s", msg.Count, msg.Total)
	}
	if msg.AveragePerDay != "20.00" {
		t.Errorf("expected 20.00 per day over 4 days, got %s", msg.AveragePerDay)
	}
	if msg.AveragePerPerson != "40.00" {
		t.Errorf("expected 40.00 per person, got %s", msg.AveragePerPerson)
	}
	if len(msg.Categories) != 2 || msg.Categories[0].Name != "Food" || msg.Categories[0].Percent != "75.0" {
		t.Errorf("unexpected categories: %+v", msg.Categories)
	}
	// Expenses are visited newest first, so María's Uber comes before Juan's shopping.
	if len(msg.PaidBy) != 2 || msg.PaidBy[1] != (api.ParticipantTotal{Participant: "Juan", Paid: "60.00"}) {
		t.Errorf("unexpected paid-by totals: %+v", msg.PaidBy)
	}

	_, err = client.GetReport(ctx, connect.NewRequest(&api.GetReportRequest{From: *day(4), To: *day(1)}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestCallerMustBeInvolved(t *testing.T) {
	client := setupTestServer(t, testAuthInterceptor("ana"))
	ctx := context.Background()

	_, err := client.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
		Description:  "Cena",
		Amount:       "30",
		PaidBy:       "Juan",
		Participants: []string{"Juan", "Pedro"},
	}))
	assertCode(t, err, connect.CodePermissionDenied)

	// Paying for others counts as taking part.
	own := addExpense(t, client, &api.AddExpenseRequest{
		Description:  "Cena",
		Amount:       "30",
		PaidBy:       "Ana",
		Participants: []string{"Juan", "Pedro"},
	})
	if _, err := client.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ID: own.ID})); err != nil {
		t.Errorf("DeleteExpense failed: %v", err)
	}
}
