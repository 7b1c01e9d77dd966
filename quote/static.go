// Package quote provides lotbook.Quoter implementations: fixed prices, the
// EODHD real-time API, and a cache in front of any of them.
package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/lotbook"
)

// Static serves fixed prices by symbol. Symbols are case-insensitive.
type Static map[string]float64

var _ lotbook.Quoter = Static(nil)

// Quote implements lotbook.Quoter.
func (s Static) Quote(_ context.Context, symbol string) (lotbook.Quote, error) {
	p, ok := s[strings.ToUpper(symbol)]
	if !ok {
		return lotbook.Quote{}, fmt.Errorf("no price for %q", symbol)
	}
	return lotbook.Quote{Symbol: symbol, Price: p}, nil
}
