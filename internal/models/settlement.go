package models

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Settlement is a suggested payment that clears (part of) a debt.
type Settlement struct {
	// From is the debtor who should pay.
	From Participant

	// To is the creditor who should receive the payment.
	To Participant

	// Amount is the payment amount. Always greater than the 0.01 dead-band.
	Amount decimal.Decimal
}

// Balances maps each participant to their net amount.
// Positive = owed money, negative = owes money, zero = settled.
type Balances map[Participant]decimal.Decimal

// ParticipantBalance is one entry of Balances.
type ParticipantBalance struct {
	Participant Participant
	Amount      decimal.Decimal
}

// Sorted returns the balances ordered by participant name.
func (b Balances) Sorted() []ParticipantBalance {
	out := make([]ParticipantBalance, 0, len(b))
	for p, amount := range b {
		out = append(out, ParticipantBalance{Participant: p, Amount: amount})
	}
	slices.SortFunc(out, func(x, y ParticipantBalance) int {
		return cmp.Compare(x.Participant, y.Participant)
	})
	return out
}

// Sum returns the total of all balances. It is zero (up to division
// precision) for balances produced from a complete expense list.
func (b Balances) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range b {
		total = total.Add(amount)
	}
	return total
}

// Summary is everything the presentation layer shows after a change.
type Summary struct {
	Balances    Balances
	Settlements []Settlement
}

// SettledUp reports whether no payments are needed.
func (s Summary) SettledUp() bool { return len(s.Settlements) == 0 }
