package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/lotbook"
	"github.com/etnz/lotbook/quote"
	"github.com/etnz/lotbook/store"
	"github.com/google/subcommands"
)

// setup points the global flags to a temporary lots file holding content, and
// captures the command outputs.
func setup(t *testing.T, content string) (path string, out *bytes.Buffer) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "lots.jsonl")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write lots file: %v", err)
		}
	}
	out = new(bytes.Buffer)
	usd, avg, yes := "USD", "average", true

	oldLotsFile, oldCurrency, oldMethod, oldRaw := lotsFile, currency, method, raw
	oldStdout, oldQuoter := stdout, quoter
	lotsFile, currency, method, raw = &path, &usd, &avg, &yes
	stdout, quoter = out, quote.Static{"AAPL": 110, "MSFT": 310}
	t.Cleanup(func() {
		lotsFile, currency, method, raw = oldLotsFile, oldCurrency, oldMethod, oldRaw
		stdout, quoter = oldStdout, oldQuoter
	})
	return path, out
}

// run parses args for c and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: cannot parse %q: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f)
}

func readLots(t *testing.T, path string) []lotbook.Lot {
	t.Helper()
	s, err := store.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open lots file: %v", err)
	}
	lots, _ := s.Lots(context.Background(), lotbook.Filter{})
	return lots
}

func TestBuySell(t *testing.T) {
	path, out := setup(t, "")

	if status := run(t, &lotCmd{side: lotbook.Buy}, "-d", "2025-01-02", "-s", "AAPL", "-q", "10", "-p", "100"); status != subcommands.ExitSuccess {
		t.Fatalf("buy: got %v, want ExitSuccess", status)
	}
	out.Reset()
	if status := run(t, &lotCmd{side: lotbook.Sell}, "-d", "2025-01-03", "-s", "AAPL", "-q", "4", "-p", "120", "-fee", "2", "-m", "trim"); status != subcommands.ExitSuccess {
		t.Fatalf("sell: got %v, want ExitSuccess", status)
	}

	for _, want := range []string{"Position in AAPL", "$660.00", "+$60.00", "+$78.00"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("sell output does not contain %q:\n%s", want, out.String())
		}
	}

	lots := readLots(t, path)
	if len(lots) != 2 {
		t.Fatalf("lots file holds %d lots, want 2", len(lots))
	}
	if l := lots[1]; l.Side != lotbook.Sell || l.Quantity != 4 || l.Fee != 2 || l.Memo != "trim" {
		t.Errorf("recorded sell = %+v", l)
	}
}

func TestBuy_Invalid(t *testing.T) {
	path, _ := setup(t, "")
	for name, args := range map[string][]string{
		"no symbol":      {"-q", "1", "-p", "1"},
		"no quantity":    {"-s", "AAPL", "-p", "1"},
		"negative price": {"-s", "AAPL", "-q", "1", "-p", "-1"},
		"bad date":       {"-s", "AAPL", "-q", "1", "-p", "1", "-d", "someday"},
	} {
		if status := run(t, &lotCmd{side: lotbook.Buy}, args...); status != subcommands.ExitUsageError {
			t.Errorf("buy with %s: got %v, want ExitUsageError", name, status)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("invalid lots created the lots file: %v", err)
	}
}

func TestEditRemove(t *testing.T) {
	path, _ := setup(t, `{"id":"a","time":"2025-01-02T00:00:00Z","symbol":"AAPL","side":"buy","quantity":10,"price":100}
{"id":"b","time":"2025-01-03T00:00:00Z","symbol":"AAPL","side":"buy","quantity":1,"price":90}
`)

	if status := run(t, &editCmd{}, "-q", "12", "-side", "sell", "a"); status != subcommands.ExitSuccess {
		t.Fatalf("edit: got %v, want ExitSuccess", status)
	}
	lots := readLots(t, path)
	if l := lots[0]; l.ID != "a" || l.Side != lotbook.Sell || l.Quantity != 12 || l.Price != 100 {
		t.Errorf("edited lot = %+v, want a sell of 12 at 100", l)
	}

	if status := run(t, &editCmd{}, "-q", "0", "a"); status != subcommands.ExitUsageError {
		t.Errorf("edit to a zero quantity: got %v, want ExitUsageError", status)
	}
	if status := run(t, &editCmd{}, "-q", "1", "zz"); status != subcommands.ExitFailure {
		t.Errorf("edit of an unknown lot: got %v, want ExitFailure", status)
	}

	if status := run(t, &rmCmd{}, "a", "zz"); status != subcommands.ExitSuccess {
		t.Fatalf("rm: got %v, want ExitSuccess", status)
	}
	lots = readLots(t, path)
	if len(lots) != 1 || lots[0].ID != "b" {
		t.Errorf("lots after rm = %+v, want only b", lots)
	}
}

func TestList_JSON(t *testing.T) {
	_, out := setup(t, `{"id":"b","time":"2025-01-03T00:00:00Z","symbol":"MSFT","side":"buy","quantity":1,"price":300}
{"id":"a","time":"2025-01-02T00:00:00Z","symbol":"AAPL","side":"buy","quantity":10,"price":100}
`)
	if status := run(t, &listCmd{}, "-json"); status != subcommands.ExitSuccess {
		t.Fatalf("lots: got %v, want ExitSuccess", status)
	}
	want := `{"id":"a","time":"2025-01-02T00:00:00Z","symbol":"AAPL","side":"buy","quantity":10,"price":100}
{"id":"b","time":"2025-01-03T00:00:00Z","symbol":"MSFT","side":"buy","quantity":1,"price":300}
`
	if out.String() != want {
		t.Errorf("lots -json = %s, want %s", out, want)
	}

	out.Reset()
	run(t, &listCmd{}, "-json", "-recent", "1")
	if !strings.HasPrefix(out.String(), `{"id":"b"`) || strings.Count(out.String(), "\n") != 1 {
		t.Errorf("lots -recent 1 = %s, want only lot b", out)
	}
}

func TestPosition_Price(t *testing.T) {
	_, out := setup(t, `{"id":"a","time":"2025-01-02T00:00:00Z","symbol":"AAPL","side":"buy","quantity":10,"price":100}
`)
	if status := run(t, &positionCmd{}, "-s", "AAPL", "-price", "150"); status != subcommands.ExitSuccess {
		t.Fatalf("position: got %v, want ExitSuccess", status)
	}
	for _, want := range []string{"$1,500.00", "+$500.00"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("position output does not contain %q:\n%s", want, out.String())
		}
	}

	// A zero price is taken literally.
	out.Reset()
	if status := run(t, &positionCmd{}, "-s", "AAPL", "-price", "0"); status != subcommands.ExitSuccess {
		t.Fatalf("position -price 0: got %v, want ExitSuccess", status)
	}
	if !strings.Contains(out.String(), "-$1,000.00") {
		t.Errorf("position -price 0 output does not contain the full unrealized loss:\n%s", out.String())
	}
	if status := run(t, &positionCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("position without a symbol: got %v, want ExitUsageError", status)
	}
}

func TestHoldings(t *testing.T) {
	_, out := setup(t, `{"id":"a","time":"2025-01-02T00:00:00Z","symbol":"AAPL","side":"buy","quantity":10,"price":100}
{"id":"b","time":"2025-01-03T00:00:00Z","symbol":"MSFT","side":"buy","quantity":2,"price":300,"portfolio":"pea"}
{"id":"c","time":"2025-01-04T00:00:00Z","symbol":"GONE","side":"buy","quantity":1,"price":5}
{"id":"d","time":"2025-01-05T00:00:00Z","symbol":"GONE","side":"sell","quantity":1,"price":6}
`)
	if status := run(t, &holdingsCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("holdings: got %v, want ExitSuccess", status)
	}
	got := out.String()
	for _, want := range []string{"AAPL", "MSFT", "$1,720.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("holdings output does not contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "GONE") {
		t.Errorf("holdings output lists a closed position:\n%s", got)
	}

	out.Reset()
	run(t, &holdingsCmd{}, "-portfolio", "pea", "-all")
	if got := out.String(); strings.Contains(got, "AAPL") || !strings.Contains(got, "MSFT") {
		t.Errorf("holdings -portfolio pea output:\n%s", got)
	}
}

func TestHistory(t *testing.T) {
	_, out := setup(t, `{"id":"a","time":"2025-01-02T00:00:00Z","symbol":"AAPL","side":"buy","quantity":10,"price":100}
{"id":"b","time":"2025-01-03T00:00:00Z","symbol":"AAPL","side":"sell","quantity":12,"price":120}
`)
	if status := run(t, &historyCmd{}, "-s", "AAPL"); status != subcommands.ExitSuccess {
		t.Fatalf("history: got %v, want ExitSuccess", status)
	}
	for _, want := range []string{"2025-01-02", "2025-01-03", "+$200.00", "Warnings"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("history output does not contain %q:\n%s", want, out.String())
		}
	}
}

func TestFormat(t *testing.T) {
	path, _ := setup(t, `{"id":"b","time":"2025-01-03","symbol":"AAPL","side":"Sell","quantity":"1","price":120}

{"id":"a","time":"2025-01-02","symbol":"AAPL","side":"buy","quantity":10,"price":100,"memo":""}
`)
	if status := run(t, &fmtCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("fmt: got %v, want ExitSuccess", status)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read formatted lots file: %v", err)
	}
	want := `{"id":"a","time":"2025-01-02T00:00:00Z","symbol":"AAPL","side":"buy","quantity":10,"price":100}
{"id":"b","time":"2025-01-03T00:00:00Z","symbol":"AAPL","side":"sell","quantity":1,"price":120}
`
	if string(got) != want {
		t.Errorf("Formatted lots mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}
}
