package lotbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Holding is the position of one symbol evaluated at its latest quote.
type Holding struct {
	Symbol string
	Quote  Quote
	Stale  bool // the quote could not be refreshed, Quote.Price may be 0.
	Report
}

// MarketValue returns the value of the open quantity at the quote's price.
func (h Holding) MarketValue() float64 { return h.Quote.Price * h.Quantity }

// DayChange returns the daily change in value of the open quantity.
func (h Holding) DayChange() float64 { return h.Quote.Change * h.Quantity }

// Totals sums up the figures of several holdings.
type Totals struct {
	MarketValue float64
	CostBasis   float64
	Realized    float64
	Unrealized  float64
	DayChange   float64
}

// Total computes the Totals of holdings. All holdings are assumed to be in
// the same currency.
func Total(holdings []Holding) (t Totals) {
	for _, h := range holdings {
		t.MarketValue += h.MarketValue()
		t.CostBasis += h.CostBasis()
		t.Realized += h.Realized
		t.Unrealized += h.Unrealized
		t.DayChange += h.DayChange()
	}
	return t
}

// Tracker connects the lot store, the quote supplier and the ledger. Every
// call reloads the lots and recomputes from scratch, it keeps no state.
type Tracker struct {
	Store    LotStore
	Quotes   Quoter // optional, without it prices are 0.
	Method   CostBasisMethod
	Currency string
	Logger   *slog.Logger
}

// NewTracker creates a Tracker reporting in currency.
func NewTracker(store LotStore, quotes Quoter, method CostBasisMethod, currency string) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("a lot store is required")
	}
	if err := ValidateCurrency(currency); err != nil {
		return nil, fmt.Errorf("invalid reporting currency: %w", err)
	}
	return &Tracker{
		Store:    store,
		Quotes:   quotes,
		Method:   method,
		Currency: currency,
	}, nil
}

func (t *Tracker) logger() *slog.Logger {
	if t.Logger == nil {
		return slog.Default()
	}
	return t.Logger
}

// quote returns the latest quote for symbol and whether it is stale. Failures
// are logged and give a zero price, the ledger takes it literally.
func (t *Tracker) quote(ctx context.Context, symbol string) (Quote, bool) {
	if t.Quotes == nil {
		return Quote{Symbol: symbol}, true
	}
	q, err := t.Quotes.Quote(ctx, symbol)
	if errors.Is(err, ErrStaleQuote) {
		t.logger().Warn("using a stale quote", "symbol", symbol, "asOf", q.AsOf, "error", err)
		return q, true
	}
	if err != nil {
		t.logger().Warn("quote unavailable", "symbol", symbol, "error", err)
		return Quote{Symbol: symbol}, true
	}
	return q, false
}

// Position computes the holding of symbol in portfolio ("" for all portfolios).
func (t *Tracker) Position(ctx context.Context, symbol, portfolio string) (Holding, error) {
	lots, err := t.Store.Lots(ctx, Filter{Symbol: symbol, Portfolio: portfolio})
	if err != nil {
		return Holding{}, fmt.Errorf("cannot load lots of %q: %w", symbol, err)
	}
	q, stale := t.quote(ctx, symbol)
	report := Replay(lots, q.Price, t.Method)
	for _, w := range report.Warnings {
		t.logger().Debug("ledger warning", "symbol", symbol, "lot", w.LotID, "kind", w.Kind.String(), "excess", w.Excess)
	}
	return Holding{Symbol: symbol, Quote: q, Stale: stale, Report: report}, nil
}

// Holdings computes the holding of every symbol of a portfolio, sorted by
// symbol. Closed positions are skipped unless withClosed is set.
func (t *Tracker) Holdings(ctx context.Context, portfolio string, withClosed bool) ([]Holding, error) {
	symbols, err := t.Store.Symbols(ctx, portfolio)
	if err != nil {
		return nil, fmt.Errorf("cannot list symbols: %w", err)
	}
	holdings := make([]Holding, 0, len(symbols))
	for _, symbol := range symbols {
		h, err := t.Position(ctx, symbol, portfolio)
		if err != nil {
			return nil, err
		}
		if h.Quantity == 0 && !withClosed {
			continue
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}
