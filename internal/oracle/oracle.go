// Package oracle provides slow reference solvers for the 0-1 knapsack
// problem. They are used to cross-check the core solver in tests and in the
// hard-case search.
package oracle

import (
	"fmt"
	"math/bits"

	kerrors "github.com/tamirms/knapsack/errors"
)

const (
	// MaxEnumerateItems bounds Enumerate to 2^24 subsets.
	MaxEnumerateItems = 24

	// DefaultMaxCells bounds the table of the dynamic program.
	DefaultMaxCells = 1 << 26
)

// Enumerate returns the optimal profit and one optimal selection by trying
// every subset. Ties keep the subset found first in Gray-code order.
func Enumerate(profits, weights []int64, capacity int64) (int64, []bool, error) {
	n := len(profits)
	if n > MaxEnumerateItems {
		return 0, nil, fmt.Errorf("%w: %d items, enumeration limit %d", kerrors.ErrOracleTooLarge, n, MaxEnumerateItems)
	}

	var psum, wsum, best int64
	var bestMask uint32
	cur := uint32(0)
	for k := uint32(1); k < 1<<n; k++ {
		// Gray code: flip the lowest set bit position of k.
		j := bits.TrailingZeros32(k)
		cur ^= 1 << j
		if cur&(1<<j) != 0 {
			psum += profits[j]
			wsum += weights[j]
		} else {
			psum -= profits[j]
			wsum -= weights[j]
		}
		if wsum <= capacity && psum > best {
			best, bestMask = psum, cur
		}
	}

	sel := make([]bool, n)
	for j := range sel {
		sel[j] = bestMask&(1<<j) != 0
	}
	return best, sel, nil
}

// Table solves the problem with the classic O(n*c) dynamic program and
// reconstructs a selection from the decision table.
func Table(profits, weights []int64, capacity int64, maxCells int64) (int64, []bool, error) {
	n := len(profits)
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}
	if capacity < 0 || int64(n)*(capacity+1) > maxCells {
		return 0, nil, fmt.Errorf("%w: %d items x capacity %d exceeds %d cells",
			kerrors.ErrOracleTooLarge, n, capacity, maxCells)
	}

	cols := int(capacity) + 1
	dp := make([]int64, cols)
	take := make([]bool, n*cols)
	for i := 0; i < n; i++ {
		wi := weights[i]
		if wi > capacity {
			continue
		}
		row := take[i*cols : (i+1)*cols]
		for c := cols - 1; c >= int(wi); c-- {
			if v := dp[c-int(wi)] + profits[i]; v > dp[c] {
				dp[c] = v
				row[c] = true
			}
		}
	}

	sel := make([]bool, n)
	c := cols - 1
	for i := n - 1; i >= 0; i-- {
		if take[i*cols+c] {
			sel[i] = true
			c -= int(weights[i])
		}
	}
	return dp[cols-1], sel, nil
}

// Value returns only the optimal profit, using O(capacity) memory.
func Value(profits, weights []int64, capacity int64) (int64, error) {
	if capacity < 0 || capacity > DefaultMaxCells {
		return 0, fmt.Errorf("%w: capacity %d exceeds %d", kerrors.ErrOracleTooLarge, capacity, DefaultMaxCells)
	}
	dp := make([]int64, capacity+1)
	for i, wi := range weights {
		for c := capacity; c >= wi; c-- {
			if v := dp[c-wi] + profits[i]; v > dp[c] {
				dp[c] = v
			}
		}
	}
	return dp[capacity], nil
}
