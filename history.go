package lotbook

import "slices"

// Step is the state of a position right after one lot was processed.
type Step struct {
	Lot      Lot
	Realized float64         // realized by this lot alone.
	Summary  PositionSummary // running summary, marked at the lot's own price.
	Warnings []Warning       // raised by this lot.
}

// History replays lots in processing order and returns one Step per lot.
//
// There is no market price in a history, so each step marks the open
// quantity at the price of the lot that produced it.
func History(lots []Lot, method CostBasisMethod) []Step {
	r := newReplayer(method)
	steps := make([]Step, 0, len(lots))
	for _, l := range SortLots(lots) {
		before := len(r.warnings)
		realized := r.apply(l)
		normalized, _ := l.Normalized()
		steps = append(steps, Step{
			Lot:      l,
			Realized: realized,
			Summary:  r.summary(normalized.Price),
			Warnings: slices.Clone(r.warnings[before:]),
		})
	}
	return steps
}

// Recent returns the n most recent lots, newest first. Lots sharing the same
// time are ordered by descending ID so the result does not depend on the
// input order. n <= 0 returns all lots.
func Recent(lots []Lot, n int) []Lot {
	sorted := SortLots(lots)
	slices.Reverse(sorted)
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
