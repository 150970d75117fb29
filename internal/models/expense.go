package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidExpense is wrapped by every expense validation failure.
var ErrInvalidExpense = errors.New("invalid expense")

// Expense is one payment made by a participant on behalf of the sharers.
type Expense struct {
	// ID is the unique identifier for the expense (UUIDv7, creation ordered).
	ID string

	// Description is what the money was spent on (e.g., "Groceries").
	Description string

	// Amount is the full amount paid. Always positive.
	Amount decimal.Decimal

	// PaidBy is the participant who fronted the whole amount.
	PaidBy Participant

	// SharedBy is the set of participants splitting the amount equally.
	// The payer is only charged a share if listed here.
	SharedBy []Participant

	// Settled marks the expense as resolved. Settled expenses are left out
	// of every balance calculation.
	Settled bool

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Sharers returns SharedBy with duplicates removed, keeping first occurrences.
func (e Expense) Sharers() []Participant {
	seen := make(map[Participant]struct{}, len(e.SharedBy))
	out := make([]Participant, 0, len(e.SharedBy))
	for _, p := range e.SharedBy {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// NewExpense validates form input against the roster and builds an unsaved
// expense. Duplicate sharers are dropped.
func (r *Roster) NewExpense(description string, amount decimal.Decimal, paidBy string, sharedBy []string) (*Expense, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidExpense)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidExpense, amount)
	}

	payer, err := r.Parse(paidBy)
	if err != nil {
		return nil, fmt.Errorf("%w: paid_by: %w", ErrInvalidExpense, err)
	}

	if len(sharedBy) == 0 {
		return nil, fmt.Errorf("%w: select at least one person to share the expense", ErrInvalidExpense)
	}
	sharers := make([]Participant, 0, len(sharedBy))
	for _, name := range sharedBy {
		p, err := r.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("%w: shared_by: %w", ErrInvalidExpense, err)
		}
		sharers = append(sharers, p)
	}

	e := &Expense{
		Description: description,
		Amount:      amount,
		PaidBy:      payer,
		SharedBy:    sharers,
	}
	e.SharedBy = e.Sharers()
	return e, nil
}
