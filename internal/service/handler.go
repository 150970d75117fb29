package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "sharetab.v1.LedgerService"

// Procedure paths, relative to the server root.
const (
	ListParticipantsProcedure = "/sharetab.v1.LedgerService/ListParticipants"
	AddExpenseProcedure       = "/sharetab.v1.LedgerService/AddExpense"
	ToggleSettledProcedure    = "/sharetab.v1.LedgerService/ToggleSettled"
	ListExpensesProcedure     = "/sharetab.v1.LedgerService/ListExpenses"
	GetSummaryProcedure       = "/sharetab.v1.LedgerService/GetSummary"
)

// NewLedgerServiceHandler builds an HTTP handler for every LedgerService
// procedure. It returns the path to mount the handler on.
func NewLedgerServiceHandler(svc *LedgerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ListParticipantsProcedure, connect.NewUnaryHandler(ListParticipantsProcedure, svc.ListParticipants, opts...))
	mux.Handle(AddExpenseProcedure, connect.NewUnaryHandler(AddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(ToggleSettledProcedure, connect.NewUnaryHandler(ToggleSettledProcedure, svc.ToggleSettled, opts...))
	mux.Handle(ListExpensesProcedure, connect.NewUnaryHandler(ListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(GetSummaryProcedure, connect.NewUnaryHandler(GetSummaryProcedure, svc.GetSummary, opts...))

	return "/" + LedgerServiceName + "/", mux
}

// LedgerServiceClient is a client for sharetab.v1.LedgerService.
type LedgerServiceClient struct {
	listParticipants *connect.Client[emptypb.Empty, ListParticipantsResponse]
	addExpense       *connect.Client[AddExpenseRequest, AddExpenseResponse]
	toggleSettled    *connect.Client[ToggleSettledRequest, ToggleSettledResponse]
	listExpenses     *connect.Client[emptypb.Empty, ListExpensesResponse]
	getSummary       *connect.Client[emptypb.Empty, GetSummaryResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at baseURL
// (for example, http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &LedgerServiceClient{
		listParticipants: connect.NewClient[emptypb.Empty, ListParticipantsResponse](httpClient, baseURL+ListParticipantsProcedure, opts...),
		addExpense:       connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+AddExpenseProcedure, opts...),
		toggleSettled:    connect.NewClient[ToggleSettledRequest, ToggleSettledResponse](httpClient, baseURL+ToggleSettledProcedure, opts...),
		listExpenses:     connect.NewClient[emptypb.Empty, ListExpensesResponse](httpClient, baseURL+ListExpensesProcedure, opts...),
		getSummary:       connect.NewClient[emptypb.Empty, GetSummaryResponse](httpClient, baseURL+GetSummaryProcedure, opts...),
	}
}

func (c *LedgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ToggleSettled(ctx context.Context, req *connect.Request[ToggleSettledRequest]) (*connect.Response[ToggleSettledResponse], error) {
	return c.toggleSettled.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetSummary(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}
