package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/lotbook"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the commands registered in c for shell completion.
//
// Calling Complete on the result takes over when the shell asks for
// completions (COMP_LINE is set). Install it with:
//
//	COMP_INSTALL=1 lots
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f)}
		switch cmd.Name() {
		case "edit", "rm":
			sub.Args = complete.PredictFunc(predictIDs)
		case "help":
			sub.Args = predict.Set(commandNames(c))
		}
		root.Sub[cmd.Name()] = sub
	})
	return root
}

func commandNames(c *subcommands.Commander) []string {
	var names []string
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		names = append(names, cmd.Name())
	})
	return names
}

// flagPredictors predicts values of well known flags: symbols, portfolios,
// files and enumerations. Boolean flags take no value.
func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		switch fl.Name {
		case "s":
			flags[fl.Name] = complete.PredictFunc(predictSymbols)
		case "portfolio":
			flags[fl.Name] = complete.PredictFunc(predictPortfolios)
		case "side":
			flags[fl.Name] = predict.Set{lotbook.Buy.String(), lotbook.Sell.String()}
		case "method":
			flags[fl.Name] = predict.Set{lotbook.AverageCost.String(), lotbook.FIFO.String()}
		case "lots-file":
			flags[fl.Name] = predict.Files("*.jsonl")
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

// completionLots reads the lots for completion, errors mean no completion.
func completionLots() []lotbook.Lot {
	s, _, err := openStore()
	if err != nil {
		return nil
	}
	lots, _ := s.Lots(context.Background(), lotbook.Filter{})
	return lots
}

func predictSymbols(prefix string) []string {
	return distinct(completionLots(), prefix, func(l lotbook.Lot) string { return l.Symbol })
}

func predictPortfolios(prefix string) []string {
	return distinct(completionLots(), prefix, func(l lotbook.Lot) string { return l.Portfolio })
}

// predictIDs proposes the most recent lots first.
func predictIDs(prefix string) []string {
	return distinct(lotbook.Recent(completionLots(), 0), prefix, func(l lotbook.Lot) string { return l.ID })
}

// distinct returns the non-empty distinct values of key starting with prefix.
func distinct(lots []lotbook.Lot, prefix string, key func(lotbook.Lot) string) []string {
	var out []string
	seen := map[string]bool{}
	for _, l := range lots {
		v := key(l)
		if v == "" || seen[v] || !strings.HasPrefix(v, prefix) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

