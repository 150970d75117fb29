// Package models defines the core domain models for sharetab.
//
// # Models
//
//   - Participant: a member of the fixed roster, obtained through Roster.Parse
//   - Expense: one payment made by a participant on behalf of some sharers
//   - Balances: net amount per participant (positive = owed money)
//   - Settlement: a suggested transfer from a debtor to a creditor
//   - Summary: balances and settlements derived from the current expenses
//
// Balances, settlements and summaries are derived views. They are recomputed
// from the full expense list after every change and never stored.
//
// # Design Principles
//
//  1. **Closed participant set**: names are validated against the roster so a
//     typo can never create a phantom balance
//  2. **Exact money**: amounts are decimal.Decimal, never float64
//  3. **No references between models**: expenses name participants by value
package models
