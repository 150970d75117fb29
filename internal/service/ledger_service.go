// Package service implements the sharetab.v1.LedgerService RPCs.
//
// The service is the collaborator around the pure calculator: it validates
// form input, owns mutation of the session's expense list, and recomputes
// the full summary after every change.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharetab/internal/calculator"
	"github.com/mmynk/sharetab/internal/metrics"
	"github.com/mmynk/sharetab/internal/models"
	"github.com/mmynk/sharetab/internal/render"
	"github.com/mmynk/sharetab/internal/storage"
)

var (
	ErrInvalidExpense = models.ErrInvalidExpense
	ErrMissingID      = errors.New("expense_id required")
)

// LedgerService implements the Connect LedgerService
type LedgerService struct {
	// mu serializes mutations so each summary reflects one consistent list.
	mu        sync.Mutex
	store     storage.Store
	roster    *models.Roster
	formatter *render.Formatter
	metrics   *metrics.Metrics
}

// NewLedgerService creates a new LedgerService with the given storage backend.
// m may be nil.
func NewLedgerService(store storage.Store, roster *models.Roster, formatter *render.Formatter, m *metrics.Metrics) *LedgerService {
	return &LedgerService{
		store:     store,
		roster:    roster,
		formatter: formatter,
		metrics:   m,
	}
}

// summarize recomputes balances and settlements from the full expense list.
func (s *LedgerService) summarize(ctx context.Context) (models.Summary, error) {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return models.Summary{}, err
	}

	summary := calculator.Summarize(expenses, s.roster.Members())
	s.metrics.ObserveSummary(summary)

	slog.Debug("Summary recomputed",
		"expenses", len(expenses),
		"settlements", len(summary.Settlements),
	)
	return summary, nil
}

// storeError maps a storage failure to a Connect error.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// ListParticipants returns the fixed roster in configured order.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListParticipantsResponse], error) {
	members := s.roster.Members()
	names := make([]string, len(members))
	for i, p := range members {
		names[i] = p.String()
	}
	return connect.NewResponse(&ListParticipantsResponse{Participants: names}), nil
}

// AddExpense validates and records a new expense, then returns the new summary.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	expense, err := s.roster.NewExpense(req.Msg.Description, req.Msg.Amount, req.Msg.PaidBy, req.Msg.SharedBy)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "error", err)
		return nil, storeError(err)
	}
	s.metrics.ExpenseAdded()

	slog.Info("Expense added",
		"expense_id", expense.ID,
		"amount", expense.Amount.String(),
		"paid_by", expense.PaidBy,
		"shared_by", expense.SharedBy,
	)

	summary, err := s.summarize(ctx)
	if err != nil {
		slog.Error("AddExpense failed to recompute summary", "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&AddExpenseResponse{
		Expense: toExpenseMessage(expense),
		Summary: toSummaryMessage(s.formatter, summary),
	}), nil
}

// ToggleSettled flips an expense's settled flag and returns the new summary.
func (s *LedgerService) ToggleSettled(ctx context.Context, req *connect.Request[ToggleSettledRequest]) (*connect.Response[ToggleSettledResponse], error) {
	expenseID := strings.TrimSpace(req.Msg.ExpenseID)
	if expenseID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, ErrMissingID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		slog.Error("ToggleSettled failed", "expense_id", expenseID, "error", err)
		return nil, storeError(err)
	}

	expense.Settled = !expense.Settled
	if err := s.store.SetSettled(ctx, expense.ID, expense.Settled); err != nil {
		slog.Error("ToggleSettled failed", "expense_id", expenseID, "error", err)
		return nil, storeError(err)
	}
	s.metrics.ExpenseToggled(expense.Settled)

	slog.Info("Expense toggled", "expense_id", expense.ID, "settled", expense.Settled)

	summary, err := s.summarize(ctx)
	if err != nil {
		slog.Error("ToggleSettled failed to recompute summary", "error", err)
		return nil, storeError(err)
	}

	return connect.NewResponse(&ToggleSettledResponse{
		Expense: toExpenseMessage(expense),
		Summary: toSummaryMessage(s.formatter, summary),
	}), nil
}

// ListExpenses returns every expense in creation order.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListExpensesResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		slog.Error("ListExpenses failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]Expense, len(expenses))
	for i := range expenses {
		out[i] = toExpenseMessage(&expenses[i])
	}
	return connect.NewResponse(&ListExpensesResponse{Expenses: out}), nil
}

// GetSummary returns balances and settlements for the current expenses.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[GetSummaryResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, err := s.summarize(ctx)
	if err != nil {
		slog.Error("GetSummary failed", "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&GetSummaryResponse{Summary: toSummaryMessage(s.formatter, summary)}), nil
}
