package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "ledger.v1.ExpenseService"

// Procedure paths for the ExpenseService RPCs.
const (
	ExpenseServiceAddExpenseProcedure    = "/ledger.v1.ExpenseService/AddExpense"
	ExpenseServiceGetExpenseProcedure    = "/ledger.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure  = "/ledger.v1.ExpenseService/ListExpenses"
	ExpenseServiceDeleteExpenseProcedure = "/ledger.v1.ExpenseService/DeleteExpense"
	ExpenseServiceClearExpensesProcedure = "/ledger.v1.ExpenseService/ClearExpenses"
	ExpenseServiceSetVerifiedProcedure   = "/ledger.v1.ExpenseService/SetVerified"
	ExpenseServiceGetBalancesProcedure   = "/ledger.v1.ExpenseService/GetBalances"
	ExpenseServiceListReceiptsProcedure  = "/ledger.v1.ExpenseService/ListReceipts"
	ExpenseServiceGetReportProcedure     = "/ledger.v1.ExpenseService/GetReport"
)

// ExpenseServiceClient is a client for the ledger.v1.ExpenseService service.
type ExpenseServiceClient interface {
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ClearExpenses(context.Context, *connect.Request[ClearExpensesRequest]) (*connect.Response[ClearExpensesResponse], error)
	SetVerified(context.Context, *connect.Request[SetVerifiedRequest]) (*connect.Response[SetVerifiedResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	ListReceipts(context.Context, *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error)
	GetReport(context.Context, *connect.Request[GetReportRequest]) (*connect.Response[GetReportResponse], error)
}

// NewExpenseServiceClient constructs a client for the ledger.v1.ExpenseService
// service. Requests are encoded with JSONCodec.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://localhost:8080).
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &expenseServiceClient{
		addExpense:    connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+ExpenseServiceAddExpenseProcedure, opts...),
		getExpense:    connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		deleteExpense: connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		clearExpenses: connect.NewClient[ClearExpensesRequest, ClearExpensesResponse](httpClient, baseURL+ExpenseServiceClearExpensesProcedure, opts...),
		setVerified:   connect.NewClient[SetVerifiedRequest, SetVerifiedResponse](httpClient, baseURL+ExpenseServiceSetVerifiedProcedure, opts...),
		getBalances:   connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+ExpenseServiceGetBalancesProcedure, opts...),
		listReceipts:  connect.NewClient[ListReceiptsRequest, ListReceiptsResponse](httpClient, baseURL+ExpenseServiceListReceiptsProcedure, opts...),
		getReport:     connect.NewClient[GetReportRequest, GetReportResponse](httpClient, baseURL+ExpenseServiceGetReportProcedure, opts...),
	}
}

type expenseServiceClient struct {
	addExpense    *connect.Client[AddExpenseRequest, AddExpenseResponse]
	getExpense    *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listExpenses  *connect.Client[ListExpensesRequest, ListExpensesResponse]
	deleteExpense *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	clearExpenses *connect.Client[ClearExpensesRequest, ClearExpensesResponse]
	setVerified   *connect.Client[SetVerifiedRequest, SetVerifiedResponse]
	getBalances   *connect.Client[GetBalancesRequest, GetBalancesResponse]
	listReceipts  *connect.Client[ListReceiptsRequest, ListReceiptsResponse]
	getReport     *connect.Client[GetReportRequest, GetReportResponse]
}

func (c *expenseServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ClearExpenses(ctx context.Context, req *connect.Request[ClearExpensesRequest]) (*connect.Response[ClearExpensesResponse], error) {
	return c.clearExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) SetVerified(ctx context.Context, req *connect.Request[SetVerifiedRequest]) (*connect.Response[SetVerifiedResponse], error) {
	return c.setVerified.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListReceipts(ctx context.Context, req *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error) {
	return c.listReceipts.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetReport(ctx context.Context, req *connect.Request[GetReportRequest]) (*connect.Response[GetReportResponse], error) {
	return c.getReport.CallUnary(ctx, req)
}

// ExpenseServiceHandler is an implementation of the ledger.v1.ExpenseService service.
type ExpenseServiceHandler interface {
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ClearExpenses(context.Context, *connect.Request[ClearExpensesRequest]) (*connect.Response[ClearExpensesResponse], error)
	SetVerified(context.Context, *connect.Request[SetVerifiedRequest]) (*connect.Response[SetVerifiedResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	ListReceipts(context.Context, *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error)
	GetReport(context.Context, *connect.Request[GetReportRequest]) (*connect.Response[GetReportResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	addExpense := connect.NewUnaryHandler(ExpenseServiceAddExpenseProcedure, svc.AddExpense, opts...)
	getExpense := connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...)
	listExpenses := connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...)
	deleteExpense := connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	clearExpenses := connect.NewUnaryHandler(ExpenseServiceClearExpensesProcedure, svc.ClearExpenses, opts...)
	setVerified := connect.NewUnaryHandler(ExpenseServiceSetVerifiedProcedure, svc.SetVerified, opts...)
	getBalances := connect.NewUnaryHandler(ExpenseServiceGetBalancesProcedure, svc.GetBalances, opts...)
	listReceipts := connect.NewUnaryHandler(ExpenseServiceListReceiptsProcedure, svc.ListReceipts, opts...)
	getReport := connect.NewUnaryHandler(ExpenseServiceGetReportProcedure, svc.GetReport, opts...)
	return "/ledger.v1.ExpenseService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ExpenseServiceAddExpenseProcedure:
			addExpense.ServeHTTP(w, r)
		case ExpenseServiceGetExpenseProcedure:
			getExpense.ServeHTTP(w, r)
		case ExpenseServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case ExpenseServiceDeleteExpenseProcedure:
			deleteExpense.ServeHTTP(w, r)
		case ExpenseServiceClearExpensesProcedure:
			clearExpenses.ServeHTTP(w, r)
		case ExpenseServiceSetVerifiedProcedure:
			setVerified.ServeHTTP(w, r)
		case ExpenseServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case ExpenseServiceListReceiptsProcedure:
			listReceipts.ServeHTTP(w, r)
		case ExpenseServiceGetReportProcedure:
			getReport.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(strings.TrimPrefix(procedure, "/")+" is not implemented"))
}

func (UnimplementedExpenseServiceHandler) AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return nil, unimplemented(ExpenseServiceAddExpenseProcedure)
}

func (UnimplementedExpenseServiceHandler) GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return nil, unimplemented(ExpenseServiceGetExpenseProcedure)
}

func (UnimplementedExpenseServiceHandler) ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return nil, unimplemented(ExpenseServiceListExpensesProcedure)
}

func (UnimplementedExpenseServiceHandler) DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return nil, unimplemented(ExpenseServiceDeleteExpenseProcedure)
}

func (UnimplementedExpenseServiceHandler) ClearExpenses(context.Context, *connect.Request[ClearExpensesRequest]) (*connect.Response[ClearExpensesResponse], error) {
	return nil, unimplemented(ExpenseServiceClearExpensesProcedure)
}

func (UnimplementedExpenseServiceHandler) SetVerified(context.Context, *connect.Request[SetVerifiedRequest]) (*connect.Response[SetVerifiedResponse], error) {
	return nil, unimplemented(ExpenseServiceSetVerifiedProcedure)
}

func (UnimplementedExpenseServiceHandler) GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return nil, unimplemented(ExpenseServiceGetBalancesProcedure)
}

func (UnimplementedExpenseServiceHandler) ListReceipts(context.Context, *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error) {
	return nil, unimplemented(ExpenseServiceListReceiptsProcedure)
}

func (UnimplementedExpenseServiceHandler) GetReport(context.Context, *connect.Request[GetReportRequest]) (*connect.Response[GetReportResponse], error) {
	return nil, unimplemented(ExpenseServiceGetReportProcedure)
}
