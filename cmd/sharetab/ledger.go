package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharetab/internal/config"
	"github.com/mmynk/sharetab/internal/models"
	"github.com/mmynk/sharetab/internal/render"
)

var errNoFile = errors.New("expense file required (-f)")

// ledgerFlags are shared by every ledger subcommand. Defaults come from the
// environment so the CLI agrees with a server started in the same shell.
type ledgerFlags struct {
	cfg *config.Config

	file         string
	currency     string
	participants string
	symbol       bool
	raw          bool
}

func (l *ledgerFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&l.file, "f", "", "expense file (JSON array), - for stdin")
	f.StringVar(&l.currency, "currency", l.cfg.Currency, "ISO 4217 currency code")
	f.StringVar(&l.participants, "participants", strings.Join(l.cfg.Participants, ","), "comma-separated roster")
	f.BoolVar(&l.symbol, "symbol", l.cfg.SymbolLabels, "label amounts with the currency symbol")
	f.BoolVar(&l.raw, "raw", false, "print plain markdown")
}

func (l *ledgerFlags) roster() (*models.Roster, error) {
	return models.NewRoster(strings.Split(l.participants, ",")...)
}

func (l *ledgerFlags) formatter() (*render.Formatter, error) {
	return render.NewFormatter(l.currency, l.symbol)
}

// load reads the expense file and validates every entry against the roster.
func (l *ledgerFlags) load(roster *models.Roster) ([]models.Expense, error) {
	switch l.file {
	case "":
		return nil, errNoFile
	case "-":
		return decodeExpenses(os.Stdin, roster)
	}

	file, err := os.Open(l.file)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return decodeExpenses(file, roster)
}

// fileExpense is one entry of an expense file.
type fileExpense struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	SharedBy    []string        `json:"shared_by"`
	Settled     bool            `json:"settled"`
}

func decodeExpenses(r io.Reader, roster *models.Roster) ([]models.Expense, error) {
	var entries []fileExpense
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	expenses := make([]models.Expense, 0, len(entries))
	for i, entry := range entries {
		e, err := roster.NewExpense(entry.Description, entry.Amount, entry.PaidBy, entry.SharedBy)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", i+1, err)
		}
		e.ID = strconv.Itoa(i + 1)
		e.Settled = entry.Settled
		expenses = append(expenses, *e)
	}
	return expenses, nil
}

// printMarkdown writes md to w, styled for the terminal unless raw is set.
func printMarkdown(w io.Writer, md string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
