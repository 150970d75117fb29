package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharetab/internal/metrics"
	"github.com/mmynk/sharetab/internal/middleware"
	"github.com/mmynk/sharetab/internal/models"
	"github.com/mmynk/sharetab/internal/render"
	"github.com/mmynk/sharetab/internal/storage/sqlite"
)

// setupTestServer creates a test server with a fresh in-memory session
func setupTestServer(t *testing.T) (*LedgerServiceClient, func()) {
	t.Helper()

	store, err := sqlite.New()
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	formatter, err := render.NewFormatter("PKR", false)
	if err != nil {
		store.Close()
		t.Fatalf("failed to create formatter: %v", err)
	}

	m := metrics.New(prometheus.NewRegistry())
	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(nil),
		m.Interceptor(),
	)

	svc := NewLedgerService(store, models.DefaultRoster(), formatter, m)
	path, handler := NewLedgerServiceHandler(svc, interceptors)

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	client := NewLedgerServiceClient(http.DefaultClient, server.URL)

	cleanup := func() {
		server.Close()
		store.Close()
	}

	return client, cleanup
}

func addExpense(t *testing.T, client *LedgerServiceClient, description string, amount int64, paidBy string, sharedBy ...string) *AddExpenseResponse {
	t.Helper()
	resp, err := client.AddExpense(context.Background(), connect.NewRequest(&AddExpenseRequest{
		Description: description,
		Amount:      decimal.NewFromInt(amount),
		PaidBy:      paidBy,
		SharedBy:    sharedBy,
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return resp.Msg
}

func balanceOf(t *testing.T, s Summary, name string) Balance {
	t.Helper()
	for _, b := range s.Balances {
		if b.Participant == name {
			return b
		}
	}
	t.Fatalf("missing balance for %s", name)
	return Balance{}
}

func TestListParticipants(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.ListParticipants(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}

	want := []string{"Alice", "Bob", "Charlie", "Dana"}
	if len(resp.Msg.Participants) != len(want) {
		t.Fatalf("expected %d participants, got %v", len(want), resp.Msg.Participants)
	}
	for i, name := range want {
		if resp.Msg.Participants[i] != name {
			t.Errorf("participant %d: expected %s, got %s", i, name, resp.Msg.Participants[i])
		}
	}
}

func TestAddExpense_SharedDinner(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp := addExpense(t, client, "Dinner", 90, "Alice", "Alice", "Bob", "Charlie")

	if resp.Expense.ID == "" {
		t.Error("expected expense ID to be generated")
	}
	if resp.Expense.Settled {
		t.Error("new expense should not be settled")
	}

	// Alice paid 90 and owes 30 of it; Bob and Charlie owe 30 each.
	wantBalances := map[string]int64{"Alice": 60, "Bob": -30, "Charlie": -30, "Dana": 0}
	if len(resp.Summary.Balances) != len(wantBalances) {
		t.Fatalf("expected %d balances, got %d", len(wantBalances), len(resp.Summary.Balances))
	}
	for name, want := range wantBalances {
		got := balanceOf(t, resp.Summary, name)
		if !got.Amount.Equal(decimal.NewFromInt(want)) {
			t.Errorf("%s balance: expected %d, got %s", name, want, got.Amount)
		}
	}
	if got := balanceOf(t, resp.Summary, "Alice").Display; got != "PKR 60.00" {
		t.Errorf("Alice display: expected 'PKR 60.00', got '%s'", got)
	}

	settlements := resp.Summary.Settlements
	if len(settlements) != 2 {
		t.Fatalf("expected 2 settlements, got %d", len(settlements))
	}
	if settlements[0].From != "Bob" || settlements[0].To != "Alice" || !settlements[0].Amount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("first settlement: got %+v", settlements[0])
	}
	if settlements[1].From != "Charlie" || settlements[1].To != "Alice" {
		t.Errorf("second settlement: got %+v", settlements[1])
	}
	if settlements[0].Display != "Bob owes Alice PKR 30.00" {
		t.Errorf("settlement display: got '%s'", settlements[0].Display)
	}
	if resp.Summary.SettledUp {
		t.Error("summary should not be settled up")
	}
}

func TestAddExpense_DuplicateSharers(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp := addExpense(t, client, "Taxi", 20, "Bob", "Alice", "Alice")

	if len(resp.Expense.SharedBy) != 1 {
		t.Errorf("expected sharers to be deduplicated, got %v", resp.Expense.SharedBy)
	}
	if got := balanceOf(t, resp.Summary, "Alice").Amount; !got.Equal(decimal.NewFromInt(-20)) {
		t.Errorf("Alice balance: expected -20, got %s", got)
	}
}

func TestAddExpense_Validation(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name string
		req  *AddExpenseRequest
	}{
		{
			name: "empty description",
			req:  &AddExpenseRequest{Description: "   ", Amount: decimal.NewFromInt(10), PaidBy: "Alice", SharedBy: []string{"Bob"}},
		},
		{
			name: "zero amount",
			req:  &AddExpenseRequest{Description: "Snacks", Amount: decimal.Zero, PaidBy: "Alice", SharedBy: []string{"Bob"}},
		},
		{
			name: "negative amount",
			req:  &AddExpenseRequest{Description: "Snacks", Amount: decimal.NewFromInt(-5), PaidBy: "Alice", SharedBy: []string{"Bob"}},
		},
		{
			name: "unknown payer",
			req:  &AddExpenseRequest{Description: "Snacks", Amount: decimal.NewFromInt(10), PaidBy: "Mallory", SharedBy: []string{"Bob"}},
		},
		{
			name: "no sharers",
			req:  &AddExpenseRequest{Description: "Snacks", Amount: decimal.NewFromInt(10), PaidBy: "Alice"},
		},
		{
			name: "unknown sharer",
			req:  &AddExpenseRequest{Description: "Snacks", Amount: decimal.NewFromInt(10), PaidBy: "Alice", SharedBy: []string{"Bob", "Eve"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddExpense(context.Background(), connect.NewRequest(tt.req))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("expected InvalidArgument, got %v", connect.CodeOf(err))
			}
		})
	}

	// Rejected expenses must not be recorded.
	resp, err := client.ListExpenses(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != 0 {
		t.Errorf("expected no expenses, got %d", len(resp.Msg.Expenses))
	}
}

func TestToggleSettled(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	added := addExpense(t, client, "Groceries", 40, "Alice", "Alice", "Bob")
	ctx := context.Background()

	resp, err := client.ToggleSettled(ctx, connect.NewRequest(&ToggleSettledRequest{ExpenseID: added.Expense.ID}))
	if err != nil {
		t.Fatalf("ToggleSettled failed: %v", err)
	}
	if !resp.Msg.Expense.Settled {
		t.Error("expected expense to be settled")
	}
	if !resp.Msg.Summary.SettledUp {
		t.Error("expected summary to be settled up")
	}
	if resp.Msg.Summary.Message != render.SettledUpMessage {
		t.Errorf("expected settled-up message, got '%s'", resp.Msg.Summary.Message)
	}
	for _, b := range resp.Msg.Summary.Balances {
		if !b.Amount.IsZero() {
			t.Errorf("%s balance: expected 0, got %s", b.Participant, b.Amount)
		}
	}

	// Toggling again restores the debt.
	resp, err = client.ToggleSettled(ctx, connect.NewRequest(&ToggleSettledRequest{ExpenseID: added.Expense.ID}))
	if err != nil {
		t.Fatalf("ToggleSettled failed: %v", err)
	}
	if resp.Msg.Expense.Settled {
		t.Error("expected expense to be unsettled")
	}
	if len(resp.Msg.Summary.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(resp.Msg.Summary.Settlements))
	}
	if got := resp.Msg.Summary.Settlements[0]; got.From != "Bob" || got.To != "Alice" || !got.Amount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("settlement: got %+v", got)
	}
}

func TestToggleSettled_Errors(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	tests := []struct {
		name string
		id   string
		code connect.Code
	}{
		{name: "unknown id", id: "does-not-exist", code: connect.CodeNotFound},
		{name: "missing id", id: "", code: connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ToggleSettled(context.Background(), connect.NewRequest(&ToggleSettledRequest{ExpenseID: tt.id}))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if connect.CodeOf(err) != tt.code {
				t.Errorf("expected %v, got %v", tt.code, connect.CodeOf(err))
			}
		})
	}
}

func TestListExpenses_CreationOrder(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	descriptions := []string{"Breakfast", "Lunch", "Dinner"}
	for _, d := range descriptions {
		addExpense(t, client, d, 30, "Dana", "Alice", "Dana")
	}

	resp, err := client.ListExpenses(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("ListExpenses failed: %v", err)
	}
	if len(resp.Msg.Expenses) != len(descriptions) {
		t.Fatalf("expected %d expenses, got %d", len(descriptions), len(resp.Msg.Expenses))
	}
	for i, d := range descriptions {
		if resp.Msg.Expenses[i].Description != d {
			t.Errorf("expense %d: expected %s, got %s", i, d, resp.Msg.Expenses[i].Description)
		}
	}
}

func TestGetSummary(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("no expenses", func(t *testing.T) {
		resp, err := client.GetSummary(ctx, connect.NewRequest(&emptypb.Empty{}))
		if err != nil {
			t.Fatalf("GetSummary failed: %v", err)
		}
		if !resp.Msg.Summary.SettledUp {
			t.Error("expected an empty session to be settled up")
		}
		if len(resp.Msg.Summary.Balances) != 4 {
			t.Errorf("expected a balance for every participant, got %d", len(resp.Msg.Summary.Balances))
		}
	})

	t.Run("debtor split across creditors", func(t *testing.T) {
		addExpense(t, client, "Hotel", 100, "Alice", "Bob", "Charlie")
		addExpense(t, client, "Flights", 60, "Dana", "Bob", "Charlie")

		resp, err := client.GetSummary(ctx, connect.NewRequest(&emptypb.Empty{}))
		if err != nil {
			t.Fatalf("GetSummary failed: %v", err)
		}

		// Alice +100, Dana +60, Bob -80, Charlie -80.
		total := decimal.Zero
		for _, s := range resp.Msg.Summary.Settlements {
			total = total.Add(s.Amount)
		}
		if !total.Equal(decimal.NewFromInt(160)) {
			t.Errorf("expected settlements to total 160, got %s", total)
		}
		first := resp.Msg.Summary.Settlements[0]
		if first.From != "Bob" || first.To != "Alice" || !first.Amount.Equal(decimal.NewFromInt(80)) {
			t.Errorf("first settlement: got %+v", first)
		}
	})
}

func TestAddExpense_LargeAmountDisplay(t *testing.T) {
	client, cleanup := setupTestServer(t)
	defer cleanup()

	resp, err := client.AddExpense(context.Background(), connect.NewRequest(&AddExpenseRequest{
		Description: "Island",
		Amount:      decimal.RequireFromString("100000000000000000000"),
		PaidBy:      "Alice",
		SharedBy:    []string{"Bob"},
	}))
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	if got := balanceOf(t, resp.Msg.Summary, "Alice").Display; got != "PKR 100000000000000000000.00" {
		t.Errorf("Alice display: got '%s'", got)
	}
	if len(resp.Msg.Summary.Settlements) != 1 {
		t.Fatalf("expected 1 settlement, got %d", len(resp.Msg.Summary.Settlements))
	}
	if got := resp.Msg.Summary.Settlements[0].Display; got != "Bob owes Alice PKR 100000000000000000000.00" {
		t.Errorf("settlement display: got '%s'", got)
	}
}
