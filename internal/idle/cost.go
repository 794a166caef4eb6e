// Package idle implements the idle accrual engine: passive income, clicks and purchases.
package idle

import (
	"fmt"
	"strings"
)

// CostFunc returns the price of the next unit given a counter.
// For helpers the counter is the number already owned; for the click upgrade
// it is the current click power. Implementations must be non-decreasing.
type CostFunc func(n int64) int64

// Cost kinds accepted by NewCostFunc.
const (
	CostFixed     = "fixed"
	CostLinear    = "linear"
	CostQuadratic = "quadratic"
)

// FixedCost always charges c.
func FixedCost(c int64) CostFunc {
	return func(int64) int64 { return c }
}

// LinearCost charges base + n*increment.
func LinearCost(base, increment int64) CostFunc {
	return func(n int64) int64 { return base + n*increment }
}

// QuadraticCost charges base * n^2.
func QuadraticCost(base int64) CostFunc {
	return func(n int64) int64 { return base * n * n }
}

// NewCostFunc builds a cost function from its configuration form.
func NewCostFunc(kind string, base, increment int64) (CostFunc, error) {
	if base < 0 || increment < 0 {
		return nil, fmt.Errorf("cost values must be >= 0 (base %d, increment %d)", base, increment)
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case CostFixed, "":
		if base <= 0 {
			return nil, fmt.Errorf("fixed cost must be > 0")
		}
		return FixedCost(base), nil
	case CostLinear:
		if base == 0 && increment == 0 {
			return nil, fmt.Errorf("linear cost needs base or increment > 0")
		}
		return LinearCost(base, increment), nil
	case CostQuadratic:
		if base <= 0 {
			return nil, fmt.Errorf("quadratic cost must have base > 0")
		}
		return QuadraticCost(base), nil
	default:
		return nil, fmt.Errorf("unknown cost kind %q (want %s, %s or %s)", kind, CostFixed, CostLinear, CostQuadratic)
	}
}
