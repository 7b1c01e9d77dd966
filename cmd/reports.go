package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/lotbook"
	"github.com/etnz/lotbook/quote"
	"github.com/etnz/lotbook/renderer"
	"github.com/etnz/lotbook/store"
	"github.com/google/subcommands"
)

// --- Lots Command ---

type listCmd struct {
	symbol    string
	portfolio string
	recent    int
	json      bool
}

func (*listCmd) Name() string     { return "lots" }
func (*listCmd) Synopsis() string { return "list recorded lots" }
func (*listCmd) Usage() string {
	return `lots [-s <symbol>] [-portfolio <name>] [-recent <n>] [-json]

  Lists lots in processing order, by time then ID.
  With -recent, only the n most recent lots are listed, newest first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Only list lots of this symbol")
	f.StringVar(&c.portfolio, "portfolio", "", "Only list lots of this portfolio")
	f.IntVar(&c.recent, "recent", 0, "Only list the n most recent lots")
	f.BoolVar(&c.json, "json", false, "Print lots as JSONL instead of a table")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, cfg, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	lots, err := s.Lots(ctx, lotbook.Filter{Symbol: c.symbol, Portfolio: c.portfolio})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.recent > 0 {
		lots = lotbook.Recent(lots, c.recent)
	} else {
		lots = lotbook.SortLots(lots)
	}

	if c.json {
		if err := store.EncodeLots(stdout, lots); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.LotsMarkdown(lots, cfg.Currency))
	return subcommands.ExitSuccess
}

// --- Position Command ---

type positionCmd struct {
	symbol    string
	portfolio string
	price     float64
}

func (*positionCmd) Name() string     { return "position" }
func (*positionCmd) Synopsis() string { return "compute the position of a symbol" }
func (*positionCmd) Usage() string {
	return `position -s <symbol> [-portfolio <name>] [-price <price>]

  Replays the lots of a symbol and reports the open quantity, the average cost,
  the realized gain, and the unrealized gain at the latest price.
`
}

func (c *positionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.StringVar(&c.portfolio, "portfolio", "", "Only account for lots of this portfolio")
	f.Float64Var(&c.price, "price", 0, "Use this price instead of fetching the latest quote")
}

func (c *positionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	t, _, err := openTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == "price" {
			t.Quotes = quote.Static{strings.ToUpper(c.symbol): c.price}
		}
	})
	return printPosition(ctx, t, c.symbol, c.portfolio)
}

// --- Holdings Command ---

type holdingsCmd struct {
	portfolio string
	all       bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "compute the position of every symbol" }
func (*holdingsCmd) Usage() string {
	return `holdings [-portfolio <name>] [-all]

  Reports every open position at its latest price, with totals.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Only account for lots of this portfolio")
	f.BoolVar(&c.all, "all", false, "Include closed positions")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, _, err := openTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	hs, err := t.Holdings(ctx, c.portfolio, c.all)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingsMarkdown(hs, t.Currency))
	return subcommands.ExitSuccess
}

// --- History Command ---

type historyCmd struct {
	symbol    string
	portfolio string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show how the position of a symbol evolved, lot by lot" }
func (*historyCmd) Usage() string {
	return `history -s <symbol> [-portfolio <name>]

  Replays the lots of a symbol and shows the position right after each of them.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.StringVar(&c.portfolio, "portfolio", "", "Only account for lots of this portfolio")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, cfg, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	lots, err := s.Lots(ctx, lotbook.Filter{Symbol: c.symbol, Portfolio: c.portfolio})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown(c.symbol, lotbook.History(lots, cfg.Method), cfg.Currency))
	return subcommands.ExitSuccess
}
