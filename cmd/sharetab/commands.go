package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/mmynk/sharetab/internal/calculator"
	"github.com/mmynk/sharetab/internal/models"
	"github.com/mmynk/sharetab/internal/render"
)

// ledgerReport builds the markdown for one subcommand.
type ledgerReport func(f *render.Formatter, roster *models.Roster, expenses []models.Expense) string

// run loads the ledger and prints report. Usage problems (bad roster,
// currency or missing file) exit with ExitUsageError.
func (l *ledgerFlags) run(report ledgerReport, needsFile bool) subcommands.ExitStatus {
	roster, err := l.roster()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	formatter, err := l.formatter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var expenses []models.Expense
	if needsFile {
		expenses, err = l.load(roster)
		if errors.Is(err, errNoFile) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	if err := printMarkdown(os.Stdout, report(formatter, roster, expenses), l.raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func summaryReport(f *render.Formatter, roster *models.Roster, expenses []models.Expense) string {
	summary := calculator.Summarize(expenses, roster.Members())
	return render.Expenses(f, expenses) + "\n" + render.Summary(f, summary)
}

func balancesReport(f *render.Formatter, roster *models.Roster, expenses []models.Expense) string {
	return render.Balances(f, calculator.ComputeBalances(expenses, roster.Members()))
}

func settleReport(f *render.Formatter, roster *models.Roster, expenses []models.Expense) string {
	balances := calculator.ComputeBalances(expenses, roster.Members())
	return render.Settlements(f, calculator.ComputeSettlements(balances))
}

func participantsReport(_ *render.Formatter, roster *models.Roster, _ []models.Expense) string {
	var b strings.Builder
	b.WriteString("## Participants\n\n")
	for _, p := range roster.Members() {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	return b.String()
}

type summaryCmd struct {
	ledger ledgerFlags
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "list expenses, balances and settlement advice" }
func (*summaryCmd) Usage() string {
	return `sharetab summary -f <file> [-currency <code>] [-participants <names>] [-raw]

  Lists the expenses in the file, then every participant's balance and the
  payments that settle them.
`
}
func (c *summaryCmd) SetFlags(f *flag.FlagSet) { c.ledger.SetFlags(f) }
func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return c.ledger.run(summaryReport, true)
}

type balancesCmd struct {
	ledger ledgerFlags
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display each participant's net balance" }
func (*balancesCmd) Usage() string {
	return `sharetab balances -f <file> [-currency <code>] [-participants <names>] [-raw]

  Positive balances are owed money, negative balances owe money.
`
}
func (c *balancesCmd) SetFlags(f *flag.FlagSet) { c.ledger.SetFlags(f) }
func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return c.ledger.run(balancesReport, true)
}

type settleCmd struct {
	ledger ledgerFlags
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "suggest payments that settle all debts" }
func (*settleCmd) Usage() string {
	return `sharetab settle -f <file> [-currency <code>] [-participants <names>] [-raw]

  Prints who should pay whom. Settled expenses are ignored.
`
}
func (c *settleCmd) SetFlags(f *flag.FlagSet) { c.ledger.SetFlags(f) }
func (c *settleCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return c.ledger.run(settleReport, true)
}

type participantsCmd struct {
	ledger ledgerFlags
}

func (*participantsCmd) Name() string     { return "participants" }
func (*participantsCmd) Synopsis() string { return "list the roster" }
func (*participantsCmd) Usage() string {
	return `sharetab participants [-participants <names>] [-raw]
`
}
func (c *participantsCmd) SetFlags(f *flag.FlagSet) { c.ledger.SetFlags(f) }
func (c *participantsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return c.ledger.run(participantsReport, false)
}
