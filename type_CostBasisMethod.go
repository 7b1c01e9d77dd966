package lotbook

import "fmt"

// CostBasisMethod defines how the cost of sold units is measured.
type CostBasisMethod int

const (
	// AverageCost blends all open units into one average purchase cost.
	AverageCost CostBasisMethod = iota
	// FIFO (First-In, First-Out) assumes the oldest open units are sold first.
	FIFO
)

func (m CostBasisMethod) String() string {
	switch m {
	case AverageCost:
		return "average"
	case FIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// ParseCostBasisMethod parses a string into a CostBasisMethod.
// The empty string is the default AverageCost.
func ParseCostBasisMethod(s string) (CostBasisMethod, error) {
	switch s {
	case "average", "":
		return AverageCost, nil
	case "fifo":
		return FIFO, nil
	default:
		return 0, fmt.Errorf("unknown cost basis method: %q", s)
	}
}
