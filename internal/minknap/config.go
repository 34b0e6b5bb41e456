// Package minknap implements Pisinger's minimal algorithm for the 0-1
// knapsack problem.
//
// The solver expands a core of items around the break item, keeping a
// dominance-pruned set of dynamic programming states that is reduced with
// upper bounds derived from the items bracketing the core. Items are only
// sorted as far as the core actually reaches. Each state remembers the
// decisions for the most recent HistoryLen items only; when the optimal
// state's decisions cannot be fully recovered, the problem is narrowed to the
// forgotten region and solved again.
//
// D. Pisinger, "A minimal algorithm for the 0-1 knapsack problem",
// Operations Research 45 (1997) 758-767.
package minknap

// Algorithm constants
const (
	// DefaultMaxStates is the default ceiling on the number of states.
	DefaultMaxStates = 400000

	// DefaultSortStack is the default capacity shared by both pending
	// interval stacks.
	DefaultSortStack = 200

	// MaxHistoryLen is the capacity of the decision history ring.
	MaxHistoryLen = 64

	// minMed is the range size above which the pivot is the median of a
	// sqrt(d)-strided sample instead of the median of three.
	minMed = 100

	// syncLen is the range length at which findVect switches from binary
	// search to a linear scan.
	syncLen = 5
)

// Supporting points for an exhausted side: the most efficient item
// imaginable on the left, the least efficient one on the right.
const (
	pMax = 1
	wMax = 0
	pMin = 0
	wMin = 1
)

type side int

const (
	left side = iota + 1
	right
)

type sortMode int

const (
	partiate sortMode = iota + 1
	sortAll
)

// Config bounds the resources of a single solve.
type Config struct {
	// MaxStates caps the number of states. A multiplication that could
	// exceed it aborts the solve with ErrStateSpaceExhausted.
	MaxStates int

	// SortStack is the number of pending intervals both stacks may hold
	// together, plus one. Overflow aborts with ErrSortStackOverflow.
	SortStack int

	// HistoryLen is the number of most recent item decisions each state
	// remembers, in [1, MaxHistoryLen].
	HistoryLen int
}

// DefaultConfig returns the configuration used by the original algorithm.
func DefaultConfig() Config {
	return Config{
		MaxStates:  DefaultMaxStates,
		SortStack:  DefaultSortStack,
		HistoryLen: MaxHistoryLen,
	}
}

func (c Config) normalized() Config {
	if c.MaxStates <= 0 {
		c.MaxStates = DefaultMaxStates
	}
	if c.SortStack <= 1 {
		c.SortStack = DefaultSortStack
	}
	if c.HistoryLen <= 0 || c.HistoryLen > MaxHistoryLen {
		c.HistoryLen = MaxHistoryLen
	}
	return c
}
