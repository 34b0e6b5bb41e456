package knapsack

import (
	"fmt"
	"math"

	kerrors "github.com/tamirms/knapsack/errors"
	"github.com/tamirms/knapsack/internal/minknap"
)

// maxSum bounds the total profit, total weight and capacity so that the
// engine's bound arithmetic cannot overflow an int64.
const maxSum = math.MaxInt64 / 4

// Stats reports how much work a solve needed.
type Stats = minknap.Stats

// Solution is an optimal selection for a knapsack instance.
type Solution struct {
	Profit   int64
	Weight   int64
	Selected []bool // Selected[i] reports whether item i is taken
	Stats    Stats
}

// Solve returns an optimal solution of
//
//	maximize sum(profits[i]*x[i]) subject to sum(weights[i]*x[i]) <= capacity
//
// with x[i] in {0, 1}. The inputs are not modified.
//
// Returns kerrors.ErrInvalidInput for mismatched lengths, negative values or
// totals that could overflow. Returns kerrors.ErrStateSpaceExhausted or
// kerrors.ErrSortStackOverflow when the configured limits are too small for
// the instance. No partial solution is returned with an error.
func Solve(profits, weights []int64, capacity int64, opts ...SolveOption) (*Solution, error) {
	cfg := defaultSolveConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := validate(profits, weights, capacity); err != nil {
		return nil, err
	}
	if cfg.historyLen < 0 || cfg.historyLen > minknap.MaxHistoryLen {
		return nil, fmt.Errorf("%w: history length %d outside [1, %d]", kerrors.ErrInvalidInput, cfg.historyLen, minknap.MaxHistoryLen)
	}

	res, err := minknap.Solve(profits, weights, capacity, cfg.engineConfig(), cfg.logger)
	if err != nil {
		return nil, err
	}
	return &Solution{
		Profit:   res.Profit,
		Weight:   res.Weight,
		Selected: res.Selected,
		Stats:    res.Stats,
	}, nil
}

// SolveInstance solves inst. See Solve.
func SolveInstance(inst *Instance, opts ...SolveOption) (*Solution, error) {
	if inst == nil {
		return nil, fmt.Errorf("%w: nil instance", kerrors.ErrInvalidInput)
	}
	return Solve(inst.Profits, inst.Weights, inst.Capacity, opts...)
}

func validate(profits, weights []int64, capacity int64) error {
	if len(profits) != len(weights) {
		return fmt.Errorf("%w: %d profits but %d weights", kerrors.ErrInvalidInput, len(profits), len(weights))
	}
	if capacity < 0 || capacity > maxSum {
		return fmt.Errorf("%w: capacity %d", kerrors.ErrInvalidInput, capacity)
	}
	var psum, wsum int64
	for i := range profits {
		p, w := profits[i], weights[i]
		if p < 0 || w < 0 {
			return fmt.Errorf("%w: item %d has profit %d and weight %d", kerrors.ErrInvalidInput, i, p, w)
		}
		if p > maxSum-psum || w > maxSum-wsum {
			return fmt.Errorf("%w: totals exceed %d at item %d", kerrors.ErrInvalidInput, int64(maxSum), i)
		}
		psum += p
		wsum += w
	}
	return nil
}
