package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharetab/internal/models"
	"github.com/mmynk/sharetab/internal/render"
)

// Wire messages for sharetab.v1.LedgerService. Amounts travel as decimal
// strings ("12.50"); numbers are accepted on input.

type Expense struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SharedBy    []string        `json:"shared_by"`
	Settled     bool            `json:"settled"`
	CreatedAt   int64           `json:"created_at"`
}

type Balance struct {
	Participant string          `json:"participant"`
	Amount      decimal.Decimal `json:"amount"`
	Display     string          `json:"display"`
}

type Settlement struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display"`
}

type Summary struct {
	Balances    []Balance    `json:"balances"`
	Settlements []Settlement `json:"settlements"`
	SettledUp   bool         `json:"settled_up"`
	Message     string       `json:"message,omitempty"`
}

type ListParticipantsResponse struct {
	Participants []string `json:"participants"`
}

type AddExpenseRequest struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SharedBy    []string        `json:"shared_by"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
	Summary Summary `json:"summary"`
}

type ToggleSettledRequest struct {
	ExpenseID string `json:"expense_id"`
}

type ToggleSettledResponse struct {
	Expense Expense `json:"expense"`
	Summary Summary `json:"summary"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type GetSummaryResponse struct {
	Summary Summary `json:"summary"`
}

func toExpenseMessage(e *models.Expense) Expense {
	sharedBy := make([]string, len(e.SharedBy))
	for i, p := range e.SharedBy {
		sharedBy[i] = p.String()
	}
	return Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy.String(),
		SharedBy:    sharedBy,
		Settled:     e.Settled,
		CreatedAt:   e.CreatedAt,
	}
}

func toSummaryMessage(f *render.Formatter, s models.Summary) Summary {
	sorted := s.Balances.Sorted()
	balances := make([]Balance, len(sorted))
	for i, b := range sorted {
		balances[i] = Balance{
			Participant: b.Participant.String(),
			Amount:      b.Amount,
			Display:     f.Amount(b.Amount),
		}
	}

	settlements := make([]Settlement, len(s.Settlements))
	for i, st := range s.Settlements {
		settlements[i] = Settlement{
			From:    st.From.String(),
			To:      st.To.String(),
			Amount:  st.Amount,
			Display: f.Settlement(st),
		}
	}

	msg := Summary{
		Balances:    balances,
		Settlements: settlements,
		SettledUp:   s.SettledUp(),
	}
	if msg.SettledUp {
		msg.Message = render.SettledUpMessage
	}
	return msg
}
