package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/lotbook"
	"github.com/etnz/lotbook/renderer"
	"github.com/google/subcommands"
)

// --- Buy and Sell Commands ---

type lotCmd struct {
	side      lotbook.Side
	date      string
	symbol    string
	quantity  float64
	price     float64
	fee       float64
	portfolio string
	memo      string
}

func (c *lotCmd) Name() string { return c.side.String() }
func (c *lotCmd) Synopsis() string {
	if c.side == lotbook.Sell {
		return "record a sale of shares, trimming or closing a position"
	}
	return "record a purchase of shares, opening or adding to a position"
}
func (c *lotCmd) Usage() string {
	return c.side.String() + ` -s <symbol> -q <quantity> -p <price> [-fee <fee>] [-d <date>] [-portfolio <name>] [-m <memo>]

  Records a lot and prints the resulting position of the symbol.
  Selling more than the open quantity is recorded, but the excess is ignored.
`
}

func (c *lotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Lot date, YYYY-MM-DD or RFC 3339. Defaults to now")
	f.StringVar(&c.symbol, "s", "", "Symbol")
	f.Float64Var(&c.quantity, "q", 0, "Number of shares")
	f.Float64Var(&c.price, "p", 0, "Price per share")
	f.Float64Var(&c.fee, "fee", 0, "Fee paid for the trade")
	f.StringVar(&c.portfolio, "portfolio", "", "Portfolio the lot belongs to")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the lot")
}

func (c *lotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	at := time.Now().UTC()
	if c.date != "" {
		var err error
		if at, err = lotbook.ParseTime(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	entry := lotbook.Lot{Symbol: strings.TrimSpace(c.symbol), Side: c.side, Quantity: c.quantity, Price: c.price, Fee: c.fee}
	if err := entry.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	l := lotbook.NewLot(c.side, c.symbol, c.quantity, c.price, c.fee, at)
	l.Portfolio = c.portfolio
	l.Memo = c.memo

	t, s, err := openTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if l, err = s.Add(ctx, l); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording lot: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Recorded %s lot %s in %s\n", l.Side, l.ID, s.Path())
	return printPosition(ctx, t, l.Symbol, l.Portfolio)
}

// printPosition prints the position of symbol, once the lots have changed.
func printPosition(ctx context.Context, t *lotbook.Tracker, symbol, portfolio string) subcommands.ExitStatus {
	h, err := t.Position(ctx, symbol, portfolio)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionMarkdown(h, t.Currency))
	return subcommands.ExitSuccess
}

// --- Edit Command ---

type editCmd struct {
	lotCmd
	sideName string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "change fields of a recorded lot" }
func (*editCmd) Usage() string {
	return `edit [-side buy|sell] [-s <symbol>] [-q <quantity>] [-p <price>] [-fee <fee>] [-d <date>] [-portfolio <name>] [-m <memo>] <id>

  Replaces the given fields of the lot <id>, the others are kept.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	c.lotCmd.SetFlags(f)
	f.StringVar(&c.sideName, "side", "", "Side of the lot, buy or sell")
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	t, s, err := openTracker()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	l, err := findLot(ctx, s, id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	previous := l

	var parseErr error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "side":
			l.Side, parseErr = lotbook.ParseSide(c.sideName)
		case "d":
			l.Time, parseErr = lotbook.ParseTime(c.date)
		case "s":
			l.Symbol = strings.TrimSpace(c.symbol)
		case "q":
			l.Quantity = c.quantity
		case "p":
			l.Price = c.price
		case "fee":
			l.Fee = c.fee
		case "portfolio":
			l.Portfolio = c.portfolio
		case "m":
			l.Memo = c.memo
		}
	})
	if parseErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", parseErr)
		return subcommands.ExitUsageError
	}
	if err := l.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if _, err := s.Update(ctx, l); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating lot: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Updated lot %s\n", l.ID)

	// Moving a lot changes two positions, the new one is shown.
	if previous.Symbol != l.Symbol {
		fmt.Fprintf(os.Stderr, "Lot moved from %s to %s\n", previous.Symbol, l.Symbol)
	}
	return printPosition(ctx, t, l.Symbol, l.Portfolio)
}

func findLot(ctx context.Context, s lotbook.LotStore, id string) (lotbook.Lot, error) {
	lots, err := s.Lots(ctx, lotbook.Filter{})
	if err != nil {
		return lotbook.Lot{}, err
	}
	for _, l := range lots {
		if l.ID == id {
			return l, nil
		}
	}
	return lotbook.Lot{}, fmt.Errorf("lot %q: %w", id, lotbook.ErrNotFound)
}

// --- Remove Command ---

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete recorded lots" }
func (*rmCmd) Usage() string {
	return `rm <id>...

  Deletes the lots with the given IDs. Unknown IDs are reported and skipped.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	s, _, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	status := subcommands.ExitSuccess
	for _, id := range f.Args() {
		err := s.Remove(ctx, id)
		switch {
		case errors.Is(err, lotbook.ErrNotFound):
			fmt.Fprintf(os.Stderr, "Warning: no lot %q\n", id)
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error removing lot %q: %v\n", id, err)
			status = subcommands.ExitFailure
		default:
			fmt.Fprintf(os.Stderr, "Removed lot %s\n", id)
		}
	}
	return status
}
