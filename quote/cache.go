package quote

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/lotbook"
	"github.com/patrickmn/go-cache"
)

// Cache keeps the quotes of an underlying Quoter for a while.
//
// When a quote has expired and refreshing it fails, the last known quote is
// returned with an error wrapping lotbook.ErrStaleQuote.
type Cache struct {
	quoter lotbook.Quoter
	ttl    time.Duration
	fresh  *cache.Cache // expires after the TTL.
	last   *cache.Cache // never expires.
}

var _ lotbook.Quoter = (*Cache)(nil)

// NewCache caches the quotes of quoter for ttl. A ttl <= 0 always refreshes,
// only keeping quotes as a fallback.
func NewCache(quoter lotbook.Quoter, ttl time.Duration) *Cache {
	return &Cache{
		quoter: quoter,
		ttl:    ttl,
		fresh:  cache.New(ttl, 2*ttl),
		last:   cache.New(cache.NoExpiration, 0),
	}
}

// Quote implements lotbook.Quoter.
func (c *Cache) Quote(ctx context.Context, symbol string) (lotbook.Quote, error) {
	key := strings.ToUpper(symbol)
	if v, ok := c.fresh.Get(key); ok && c.ttl > 0 {
		return v.(lotbook.Quote), nil
	}
	q, err := c.quoter.Quote(ctx, symbol)
	if err != nil {
		if v, ok := c.last.Get(key); ok {
			return v.(lotbook.Quote), fmt.Errorf("%w: %w", lotbook.ErrStaleQuote, err)
		}
		return lotbook.Quote{}, err
	}
	if c.ttl > 0 {
		c.fresh.Set(key, q, cache.DefaultExpiration)
	}
	c.last.Set(key, q, cache.NoExpiration)
	return q, nil
}

// Forget drops any cached quote of symbol.
func (c *Cache) Forget(symbol string) {
	key := strings.ToUpper(symbol)
	c.fresh.Delete(key)
	c.last.Delete(key)
}
