package lotbook

import "time"

// openLot is a purchase still (partially) held, used for FIFO cost basis.
type openLot struct {
	Time     time.Time
	Quantity float64
	Cost     float64 // total cost of the open quantity, fee included.
}

type openLots []openLot

// quantity returns the total quantity held across all open lots.
func (l openLots) quantity() (total float64) {
	for _, o := range l {
		total += o.Quantity
	}
	return total
}

// cost returns the total cost of all open lots.
func (l openLots) cost() (total float64) {
	for _, o := range l {
		total += o.Cost
	}
	return total
}

// sell consumes quantityToSell from the oldest lots first. It returns the
// remaining lots and the cost of the consumed units. quantityToSell must not
// exceed the open quantity.
func (l openLots) sell(quantityToSell float64) (remaining openLots, costOfSale float64) {
	for i, current := range l {
		if quantityToSell <= 0 {
			return append(remaining, l[i:]...), costOfSale
		}
		if current.Quantity > quantityToSell {
			// Partial sale from this lot.
			portion := current.Cost * quantityToSell / current.Quantity
			costOfSale += portion
			remaining = append(remaining, openLot{
				Time:     current.Time,
				Quantity: current.Quantity - quantityToSell,
				Cost:     current.Cost - portion,
			})
			quantityToSell = 0
			continue
		}
		// Full sale of this lot.
		costOfSale += current.Cost
		quantityToSell -= current.Quantity
	}
	return remaining, costOfSale
}
