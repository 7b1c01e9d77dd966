package quote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/etnz/lotbook"
)

// DefaultEODHDURL is the base address of the EODHD API.
const DefaultEODHDURL = "https://eodhd.com/api"

// ErrNoAPIKey is returned by EODHD when it has no API key.
var ErrNoAPIKey = errors.New("missing EODHD API key")

// EODHD fetches live (delayed) quotes from eodhd.com. Symbols use the EODHD
// ticker notation, like "AAPL.US" or "MC.PA".
//
// See https://eodhd.com/financial-apis/live-realtime-stocks-api
type EODHD struct {
	APIKey  string
	BaseURL string       // defaults to DefaultEODHDURL.
	Client  *http.Client // defaults to a client with a 10s timeout.
}

var _ lotbook.Quoter = (*EODHD)(nil)

// NewEODHD returns an EODHD quoter using apiKey.
func NewEODHD(apiKey string) *EODHD {
	return &EODHD{
		APIKey:  apiKey,
		BaseURL: DefaultEODHDURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

/*
	{
	    "code": "AAPL.US",
	    "timestamp": 1718049600,
	    "gmtoffset": 0,
	    "open": 196.9,
	    "high": 197.3,
	    "low": 192.15,
	    "close": 193.12,
	    "volume": 97262077,
	    "previousClose": 196.89,
	    "change": -3.77,
	    "change_p": -1.9148
	}
*/

// Quote implements lotbook.Quoter.
func (e *EODHD) Quote(ctx context.Context, symbol string) (lotbook.Quote, error) {
	if e.APIKey == "" {
		return lotbook.Quote{}, ErrNoAPIKey
	}
	base := e.BaseURL
	if base == "" {
		base = DefaultEODHDURL
	}
	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}

	addr := fmt.Sprintf("%s/real-time/%s?fmt=json&api_token=%s", base, url.PathEscape(symbol), url.QueryEscape(e.APIKey))
	var jobj any
	if err := jwget(ctx, client, addr, &jobj); err != nil {
		return lotbook.Quote{}, fmt.Errorf("cannot fetch quote of %q: %w", symbol, err)
	}

	price, err := number(jobj, "$.close")
	if err != nil {
		return lotbook.Quote{}, fmt.Errorf("cannot read quote of %q: %w", symbol, err)
	}
	q := lotbook.Quote{Symbol: symbol, Price: price}
	// Outside trading hours change fields can be "NA", they are optional.
	if v, err := number(jobj, "$.change"); err == nil {
		q.Change = v
	}
	if v, err := number(jobj, "$.change_p"); err == nil {
		q.ChangePercent = v
	}
	if ts, err := number(jobj, "$.timestamp"); err == nil && ts > 0 && !math.IsInf(ts, 0) {
		q.AsOf = time.Unix(int64(ts), 0).UTC()
	}
	return q, nil
}
