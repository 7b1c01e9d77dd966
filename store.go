package lotbook

import (
	"context"
	"errors"
)

// Common store errors.
var (
	ErrNotFound  = errors.New("lot not found")
	ErrDuplicate = errors.New("lot id already exists")
)

// Filter selects lots. Empty fields match everything.
type Filter struct {
	Symbol    string
	Portfolio string
}

// Match reports whether l is selected by the filter.
func (f Filter) Match(l Lot) bool {
	return (f.Symbol == "" || f.Symbol == l.Symbol) &&
		(f.Portfolio == "" || f.Portfolio == l.Portfolio)
}

// LotStore is where lots are persisted. Implementations live in the store
// package. There is a single writer, the last write wins.
type LotStore interface {
	// Lots returns the lots selected by f, in insertion order.
	Lots(ctx context.Context, f Filter) ([]Lot, error)
	// Symbols returns the distinct symbols of a portfolio ("" for all), sorted.
	Symbols(ctx context.Context, portfolio string) ([]string, error)
	// Add inserts a lot, assigning an ID when it has none. It fails with
	// ErrDuplicate when the ID is taken.
	Add(ctx context.Context, l Lot) (Lot, error)
	// Update replaces the lot with the same ID. It fails with ErrNotFound.
	Update(ctx context.Context, l Lot) (Lot, error)
	// Remove deletes a lot by ID. It fails with ErrNotFound.
	Remove(ctx context.Context, id string) error
}
