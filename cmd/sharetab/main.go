// Command sharetab computes balances and settlement advice for a file of
// shared expenses without running the server.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/sharetab/internal/config"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cfg := config.Load()
	for _, c := range commands(cfg) {
		commander.Register(c, "ledger")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func commands(cfg *config.Config) []subcommands.Command {
	return []subcommands.Command{
		&summaryCmd{ledger: ledgerFlags{cfg: cfg}},
		&balancesCmd{ledger: ledgerFlags{cfg: cfg}},
		&settleCmd{ledger: ledgerFlags{cfg: cfg}},
		&participantsCmd{ledger: ledgerFlags{cfg: cfg}},
	}
}
