package lotbook

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// PositionSummary is the state of a position as computed by the ledger.
//
// It only holds comparable values, two summaries computed from the same
// input are == to each other.
type PositionSummary struct {
	Quantity   float64 // net open quantity, never negative.
	AvgCost    float64 // average cost per open unit, 0 when nothing is open.
	Realized   float64 // cumulative gain or loss locked in by sales.
	Unrealized float64 // (currentPrice - AvgCost) * Quantity.
}

// CostBasis returns the total cost of the open quantity.
func (s PositionSummary) CostBasis() float64 { return s.AvgCost * s.Quantity }

// WarningKind classifies the anomalies met while replaying lots.
type WarningKind int

const (
	// Oversell is a sell larger than the open quantity, the excess is ignored.
	Oversell WarningKind = iota
	// DuplicateID is a lot sharing its ID with a previous lot.
	DuplicateID
	// Normalized is a lot with non-finite or negative numbers, replaced by 0.
	Normalized
	// UnknownSide is a lot that is neither a buy nor a sell, it is ignored.
	UnknownSide
)

func (k WarningKind) String() string {
	switch k {
	case Oversell:
		return "oversell"
	case DuplicateID:
		return "duplicate id"
	case Normalized:
		return "normalized"
	case UnknownSide:
		return "unknown side"
	default:
		return "unknown"
	}
}

// Warning reports an anomaly on a single lot. It never stops the computation.
type Warning struct {
	Kind   WarningKind
	LotID  string
	Excess float64 // quantity ignored, for Oversell only.
}

func (w Warning) String() string {
	if w.Kind == Oversell {
		return fmt.Sprintf("lot %q: %s of %v units ignored", w.LotID, w.Kind, w.Excess)
	}
	return fmt.Sprintf("lot %q: %s", w.LotID, w.Kind)
}

// Report is the full outcome of a replay: the summary plus its diagnostics.
type Report struct {
	PositionSummary
	Method   CostBasisMethod
	Warnings []Warning
}

// ComputePositionSummary replays lots, in any order, using the average cost
// method, and evaluates the open quantity at currentPrice.
//
// It never fails: empty input gives a zero summary, malformed numbers are
// read as 0 and oversold quantities are ignored.
func ComputePositionSummary(lots []Lot, currentPrice float64) PositionSummary {
	return Replay(lots, currentPrice, AverageCost).PositionSummary
}

// Replay is ComputePositionSummary with a choice of cost basis method and
// the diagnostics collected on the way.
func Replay(lots []Lot, currentPrice float64, method CostBasisMethod) Report {
	r := newReplayer(method)
	for _, l := range SortLots(lots) {
		r.apply(l)
	}
	return Report{
		PositionSummary: r.summary(currentPrice),
		Method:          method,
		Warnings:        r.warnings,
	}
}

// SortLots returns a copy of lots in processing order: ascending time, ties
// broken by ascending ID. The sort is stable so lots sharing both keep their
// input order.
func SortLots(lots []Lot) []Lot {
	sorted := slices.Clone(lots)
	slices.SortStableFunc(sorted, compareLots)
	return sorted
}

func compareLots(a, b Lot) int {
	if c := a.Time.Compare(b.Time); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

// closeTolerance is the relative difference under which two quantities are
// the same, so that fractional lots add up to a closed position.
const closeTolerance = 1e-9

// closes reports whether selling quantity empties open.
func closes(quantity, open float64) bool { return quantity >= open*(1-closeTolerance) }

// costBook tracks the open quantity and its cost under one cost basis method.
type costBook interface {
	buy(quantity, cost float64, l Lot)
	// sell removes up to quantity units and returns how many were removed and
	// their cost per unit.
	sell(quantity float64) (sold, unitCost float64)
	open() (quantity, cost float64)
}

// averageBook blends all open units into one cost.
type averageBook struct {
	quantity, cost float64
}

func (b *averageBook) buy(quantity, cost float64, _ Lot) {
	b.quantity += quantity
	b.cost += cost
}

func (b *averageBook) sell(quantity float64) (sold, unitCost float64) {
	if b.quantity <= 0 {
		return 0, 0
	}
	avg := b.cost / b.quantity
	if closes(quantity, b.quantity) {
		// Closing the position, drop any rounding residue.
		sold = b.quantity
		b.quantity, b.cost = 0, 0
		return sold, avg
	}
	sold = quantity
	b.cost -= sold * avg
	b.quantity -= sold
	return sold, avg
}

func (b *averageBook) open() (float64, float64) { return b.quantity, b.cost }

// fifoBook keeps a queue of open lots, the oldest are sold first.
type fifoBook struct {
	lots openLots
}

func (b *fifoBook) buy(quantity, cost float64, l Lot) {
	b.lots = append(b.lots, openLot{Time: l.Time, Quantity: quantity, Cost: cost})
}

func (b *fifoBook) sell(quantity float64) (sold, unitCost float64) {
	open := b.lots.quantity()
	if open <= 0 {
		return 0, 0
	}
	if closes(quantity, open) {
		sold, cost := open, b.lots.cost()
		b.lots = nil
		return sold, cost / sold
	}
	sold = quantity
	var costOfSale float64
	b.lots, costOfSale = b.lots.sell(sold)
	return sold, costOfSale / sold
}

func (b *fifoBook) open() (float64, float64) { return b.lots.quantity(), b.lots.cost() }

// replayer applies lots one at a time, already sorted.
type replayer struct {
	book     costBook
	realized float64
	seen     map[string]struct{}
	warnings []Warning
}

func newReplayer(method CostBasisMethod) *replayer {
	var book costBook = &averageBook{}
	if method == FIFO {
		book = &fifoBook{}
	}
	return &replayer{book: book, seen: make(map[string]struct{})}
}

func (r *replayer) warn(w Warning) { r.warnings = append(r.warnings, w) }

// apply processes a single lot and returns its contribution to the realized gain.
func (r *replayer) apply(l Lot) (realized float64) {
	if _, dup := r.seen[l.ID]; dup {
		r.warn(Warning{Kind: DuplicateID, LotID: l.ID})
	}
	r.seen[l.ID] = struct{}{}

	l, changed := l.Normalized()
	if changed {
		r.warn(Warning{Kind: Normalized, LotID: l.ID})
	}
	if l.Quantity == 0 || l.Price == 0 {
		// Nothing traded, nothing to account for.
		return 0
	}

	switch l.Side {
	case Buy:
		r.book.buy(l.Quantity, l.Quantity*l.Price+l.Fee, l)
	case Sell:
		sold, unitCost := r.book.sell(l.Quantity)
		if excess := l.Quantity - sold; excess > l.Quantity*closeTolerance {
			r.warn(Warning{Kind: Oversell, LotID: l.ID, Excess: excess})
		}
		if sold == 0 {
			// Cannot realize anything on units never bought.
			return 0
		}
		realized = sold*(l.Price-unitCost) - l.Fee
		r.realized += realized
	default:
		r.warn(Warning{Kind: UnknownSide, LotID: l.ID})
	}
	return realized
}

// summary evaluates the current state at price. A non-finite price is read as 0.
func (r *replayer) summary(price float64) PositionSummary {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}
	quantity, cost := r.book.open()
	var avg float64
	if quantity > 0 {
		avg = cost / quantity
	}
	return PositionSummary{
		Quantity:   quantity,
		AvgCost:    avg,
		Realized:   r.realized,
		Unrealized: (price - avg) * quantity,
	}
}
