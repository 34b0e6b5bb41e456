package knapsack

import (
	"log/slog"

	"github.com/tamirms/knapsack/internal/minknap"
)

// SolveOption is a functional option for configuring a solve.
type SolveOption func(*solveConfig)

type solveConfig struct {
	maxStates  int
	sortStack  int
	historyLen int
	logger     *slog.Logger
}

func defaultSolveConfig() *solveConfig {
	return &solveConfig{
		maxStates:  minknap.DefaultMaxStates,
		sortStack:  minknap.DefaultSortStack,
		historyLen: minknap.MaxHistoryLen,
	}
}

// engineConfig converts the options to the core configuration.
func (c *solveConfig) engineConfig() minknap.Config {
	return minknap.Config{
		MaxStates:  c.maxStates,
		SortStack:  c.sortStack,
		HistoryLen: c.historyLen,
	}
}

// WithMaxStates bounds the number of states a single multiplication may
// produce. A solve that needs more fails with ErrStateSpaceExhausted.
func WithMaxStates(n int) SolveOption {
	return func(c *solveConfig) {
		c.maxStates = n
	}
}

// WithSortStack sets the capacity shared by the two pending-interval stacks.
func WithSortStack(n int) SolveOption {
	return func(c *solveConfig) {
		c.sortStack = n
	}
}

// WithHistoryLen sets how many recent item decisions each state records,
// between 1 and 64. Shorter histories trade memory for extra refinement
// rounds during reconstruction.
func WithHistoryLen(k int) SolveOption {
	return func(c *solveConfig) {
		c.historyLen = k
	}
}

// WithLogger sets the logger used for per-round debug records.
// A nil logger disables logging.
func WithLogger(l *slog.Logger) SolveOption {
	return func(c *solveConfig) {
		c.logger = l
	}
}
