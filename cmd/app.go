// Package cmd implements the lots command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/lotbook"
	"github.com/etnz/lotbook/config"
	"github.com/etnz/lotbook/logger"
	"github.com/etnz/lotbook/quote"
	"github.com/etnz/lotbook/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&lotCmd{side: lotbook.Buy}, "lots")
	c.Register(&lotCmd{side: lotbook.Sell}, "lots")
	c.Register(&editCmd{}, "lots")
	c.Register(&rmCmd{}, "lots")
	c.Register(&listCmd{}, "lots")
	c.Register(&fmtCmd{}, "lots")

	c.Register(&positionCmd{}, "reports")
	c.Register(&holdingsCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")

	c.Register(&assistCmd{}, "assistant")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var lotsFile = flag.String("lots-file", "", "Path to the lots file (JSONL format). Defaults to $"+config.EnvLotsFile+" or ~/.lots.jsonl")
var currency = flag.String("currency", "", "Reporting currency (ISO 4217). Defaults to $"+config.EnvCurrency+" or USD")
var method = flag.String("method", "", "Cost basis method, average or fifo. Defaults to $"+config.EnvMethod+" or average")
var raw = flag.Bool("raw", false, "Print markdown as is, without terminal rendering")

// Verbose turns debug logs on.
var Verbose = flag.Bool("v", false, "Verbose output, log debug messages to stderr")

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// quoter overrides the quote supplier built from the configuration.
var quoter lotbook.Quoter

// settings resolves the configuration: flags override the environment. It
// also sets the logger up.
func settings() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if *lotsFile != "" {
		cfg.LotsFile = *lotsFile
	}
	if *currency != "" {
		if err := lotbook.ValidateCurrency(*currency); err != nil {
			return cfg, err
		}
		cfg.Currency = *currency
	}
	if *method != "" {
		m, err := lotbook.ParseCostBasisMethod(*method)
		if err != nil {
			return cfg, err
		}
		cfg.Method = m
	}
	level := cfg.LogLevel
	if *Verbose {
		level = "debug"
	}
	logger.Init(os.Stderr, level)
	return cfg, nil
}

// openStore opens the configured lots file.
func openStore() (*store.File, config.Config, error) {
	cfg, err := settings()
	if err != nil {
		return nil, cfg, err
	}
	s, err := store.OpenFile(cfg.LotsFile)
	if err != nil {
		return nil, cfg, err
	}
	slog.Debug("lots file opened", "path", cfg.LotsFile)
	return s, cfg, nil
}

// newQuoter returns the quote supplier: EODHD behind a cache when an API key
// is configured, nothing otherwise.
func newQuoter(cfg config.Config) lotbook.Quoter {
	if quoter != nil {
		return quoter
	}
	if cfg.EODHDKey == "" {
		slog.Debug("no " + config.EnvEODHDKey + ", prices are unavailable")
		return nil
	}
	return quote.NewCache(quote.NewEODHD(cfg.EODHDKey), cfg.QuoteTTL)
}

// openTracker opens the store and builds a Tracker over it.
func openTracker() (*lotbook.Tracker, *store.File, error) {
	s, cfg, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	t, err := lotbook.NewTracker(s, newQuoter(cfg), cfg.Method, cfg.Currency)
	if err != nil {
		return nil, nil, err
	}
	t.Logger = slog.Default()
	return t, s, nil
}

// printMarkdown renders md for the terminal, or prints it as is when -raw is
// set or rendering fails.
func printMarkdown(md string) {
	out, err := renderMarkdown(md)
	if err != nil {
		out = md
	}
	fmt.Fprint(stdout, out)
}

func renderMarkdown(md string) (string, error) {
	if *raw {
		return md, nil
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
