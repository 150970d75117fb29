// Package render turns ledger state into markdown for terminals and clients.
package render

import (
	"embed"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharetab/internal/models"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.md"))

// SettledUpMessage is shown when no payments are needed.
const SettledUpMessage = "Everyone is settled up!"

var ErrUnknownCurrency = errors.New("unknown currency")

// Formatter prints amounts with a currency label.
type Formatter struct {
	currency *money.Currency
	symbol   bool
	plain    *money.Formatter
}

// NewFormatter returns a formatter for the ISO 4217 code.
// With symbol set, amounts use the currency's symbol ("$30.00") instead of
// its code ("USD 30.00").
func NewFormatter(code string, symbol bool) (*Formatter, error) {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return &Formatter{
		currency: cur,
		symbol:   symbol,
		plain:    money.NewFormatter(cur.Fraction, ".", "", "", "1"),
	}, nil
}

// Currency returns the ISO code.
func (f *Formatter) Currency() string { return f.currency.Code }

// maxMinor is the largest minor-unit amount go-money can hold.
var maxMinor = decimal.NewFromInt(math.MaxInt64)

// Amount formats d rounded to the currency's minor unit, without thousands
// separators ("PKR 1234.50").
// Amounts beyond int64 minor units fall back to plain decimal text.
func (f *Formatter) Amount(d decimal.Decimal) string {
	minor := d.Shift(int32(f.currency.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinor) {
		return f.currency.Code + " " + d.StringFixed(int32(f.currency.Fraction))
	}
	if f.symbol {
		return money.New(minor.IntPart(), f.currency.Code).Display()
	}
	return f.currency.Code + " " + f.plain.Format(minor.IntPart())
}

// Settlement formats one payment as a sentence.
func (f *Formatter) Settlement(s models.Settlement) string {
	return fmt.Sprintf("%s owes %s %s", s.From, s.To, f.Amount(s.Amount))
}

type balanceRow struct {
	Name   string
	Amount string
}

type settlementRow struct {
	From   string
	To     string
	Amount string
}

type expenseRow struct {
	Description string
	Amount      string
	PaidBy      string
	SharedBy    string
	Settled     string
}

// Balances renders balances sorted by participant.
func Balances(f *Formatter, balances models.Balances) string {
	return execute("balances", f.balanceRows(balances))
}

// Settlements renders the settlement plan, or SettledUpMessage if empty.
func Settlements(f *Formatter, settlements []models.Settlement) string {
	return execute("settlements", f.settlementRows(settlements))
}

// Expenses renders the expense list in creation order.
func Expenses(f *Formatter, expenses []models.Expense) string {
	rows := make([]expenseRow, 0, len(expenses))
	for _, e := range expenses {
		sharers := make([]string, 0, len(e.SharedBy))
		for _, p := range e.Sharers() {
			sharers = append(sharers, p.String())
		}
		settled := "No"
		if e.Settled {
			settled = "Yes"
		}
		rows = append(rows, expenseRow{
			Description: escapeCell(e.Description),
			Amount:      f.Amount(e.Amount),
			PaidBy:      e.PaidBy.String(),
			SharedBy:    strings.Join(sharers, ", "),
			Settled:     settled,
		})
	}
	return execute("expenses", rows)
}

// Summary renders balances followed by settlement advice.
func Summary(f *Formatter, summary models.Summary) string {
	return execute("summary", struct {
		Balances    []balanceRow
		Settlements []settlementRow
	}{
		Balances:    f.balanceRows(summary.Balances),
		Settlements: f.settlementRows(summary.Settlements),
	})
}

func (f *Formatter) balanceRows(balances models.Balances) []balanceRow {
	sorted := balances.Sorted()
	rows := make([]balanceRow, len(sorted))
	for i, b := range sorted {
		rows[i] = balanceRow{Name: b.Participant.String(), Amount: f.Amount(b.Amount)}
	}
	return rows
}

func (f *Formatter) settlementRows(settlements []models.Settlement) []settlementRow {
	rows := make([]settlementRow, len(settlements))
	for i, s := range settlements {
		rows[i] = settlementRow{From: s.From.String(), To: s.To.String(), Amount: f.Amount(s.Amount)}
	}
	return rows
}

func execute(name string, data any) string {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		// Templates are embedded and fixed; a failure here is a programming error.
		panic(fmt.Sprintf("render %s: %v", name, err))
	}
	return b.String()
}

// escapeCell keeps user text from breaking a markdown table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
