package lotbook

import (
	"context"
	"errors"
	"time"
)

// Quote is the latest known market data of a symbol.
type Quote struct {
	Symbol        string
	Price         float64 // last trade price.
	Change        float64 // change since previous close, in price units.
	ChangePercent float64 // change since previous close, in percent.
	AsOf          time.Time
}

// ErrStaleQuote is returned, wrapped, together with a usable but outdated
// Quote when the supplier could not refresh it.
var ErrStaleQuote = errors.New("stale quote")

// Quoter supplies quotes. Implementations live in the quote package.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}
