// Package calculator computes net balances and settlement plans from expenses.
//
// Both entry points are pure functions of their inputs. Callers recompute
// from the full expense list after every change instead of patching a
// previous result.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharetab/internal/models"
)

// ComputeBalances reduces expenses into a net balance per participant.
//
// Algorithm:
//   - Every participant starts at 0, so inactive members still appear
//   - Settled expenses are skipped entirely
//   - Payer is credited the full amount
//   - Each sharer (payer included if sharing) is debited amount / |sharers|
//
// An expense without sharers contributes nothing.
// Shares keep full decimal precision; rounding only happens in the planner.
func ComputeBalances(expenses []models.Expense, participants []models.Participant) models.Balances {
	balances := make(models.Balances, len(participants))
	for _, p := range participants {
		balances[p] = decimal.Zero
	}

	for _, expense := range expenses {
		if expense.Settled {
			continue
		}

		sharers := expense.Sharers()
		if len(sharers) == 0 {
			continue
		}

		share := expense.Amount.Div(decimal.NewFromInt(int64(len(sharers))))

		// Payer fronted the whole cost
		balances[expense.PaidBy] = balances[expense.PaidBy].Add(expense.Amount)

		for _, sharer := range sharers {
			balances[sharer] = balances[sharer].Sub(share)
		}
	}

	return balances
}

// Summarize runs ComputeBalances followed by ComputeSettlements.
func Summarize(expenses []models.Expense, participants []models.Participant) models.Summary {
	balances := ComputeBalances(expenses, participants)
	return models.Summary{
		Balances:    balances,
		Settlements: ComputeSettlements(balances),
	}
}
