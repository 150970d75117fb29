package calculator

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharetab/internal/models"
)

// tolerance is the dead-band below which an amount counts as settled.
var tolerance = decimal.New(1, -2)

// position is a debtor or creditor with the amount still to be matched.
type position struct {
	participant models.Participant
	remaining   decimal.Decimal
}

// ComputeSettlements plans payments that bring every balance to zero.
//
// Greedy two-pointer sweep (not the minimal-transaction algorithm):
//   - Balances are rounded to cents for classification
//   - Debtors (< -0.01) and creditors (> 0.01) are sorted by name
//   - The current debtor pays the current creditor the smaller of the two
//     remaining amounts
//   - A side moves on once its remaining amount drops below 0.01
//
// Settlements come out in sweep order (debtor-major). The result is empty
// when every balance lies within [-0.01, 0.01].
func ComputeSettlements(balances models.Balances) []models.Settlement {
	var debtors, creditors []position
	for participant, balance := range balances {
		rounded := balance.Round(2)
		switch {
		case rounded.LessThan(tolerance.Neg()):
			debtors = append(debtors, position{participant: participant, remaining: rounded.Abs()})
		case rounded.GreaterThan(tolerance):
			creditors = append(creditors, position{participant: participant, remaining: rounded})
		}
	}

	// Map iteration order is random; sort so the plan is reproducible.
	byName := func(a, b position) int { return cmp.Compare(a.participant, b.participant) }
	slices.SortFunc(debtors, byName)
	slices.SortFunc(creditors, byName)

	settlements := make([]models.Settlement, 0, len(debtors))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		if amount.GreaterThan(tolerance) {
			settlements = append(settlements, models.Settlement{
				From:   debtor.participant,
				To:     creditor.participant,
				Amount: amount,
			})
		}

		// Always deduct: one side reaches zero every step, so the loop ends.
		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThan(tolerance) {
			i++
		}
		if creditor.remaining.LessThan(tolerance) {
			j++
		}
	}

	return settlements
}
