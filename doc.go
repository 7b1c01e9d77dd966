// Package lotbook records the buy and sell lots of tradable symbols and turns
// them into positional summaries.
//
// The core is the position ledger: a stateless computation that replays the
// complete lot history of one symbol and returns the open quantity, the
// average cost of that quantity, the realized gain locked in by sales and the
// unrealized gain against the latest market price. It never performs I/O and
// never mutates its input, so it is safe to call on every change.
//
// Around that core the package defines the collaborators it is fed by:
//   - LotStore: where lots are persisted (see the store sub package).
//   - Quoter: where latest prices come from (see the quote sub package).
//   - Tracker: the glue that reloads lots, fetches a quote and recomputes.
//
// Monetary amounts stay float64 throughout the computation. Rounding to the
// currency's fraction digits only happens when values are formatted with Money.
package lotbook
