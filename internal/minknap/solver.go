package minknap

import (
	"context"
	"log/slog"
)

// Stats reports how much work a solve needed.
type Stats struct {
	Rounds        int   // refinement rounds, 1 when the first reconstruction succeeds
	CoreSize      int   // items multiplied into the state set over all rounds
	TouchedItems  int   // items in the sorted window after the first round
	MaxStates     int   // largest state set produced by a multiplication, over all rounds
	StatesVisited int64 // sum of state set sizes over all multiplications
	SimpReduced   int64 // items dropped from pending intervals before sorting
	PITested      int64 // items tested by the supporting-line bound
	PIReduced     int64 // items rejected by the supporting-line bound
	Dantzig       int64 // Dantzig upper bound of the reduced problem
	Reduced       int   // items decided before the core solve started
}

// Result is the outcome of Solve.
type Result struct {
	Profit   int64
	Weight   int64
	Selected []bool
	Stats    Stats
}

// engine holds all per-call state of the algorithm. Positions are indices
// into items; ranges are inclusive [f, l] pairs.
type engine struct {
	cfg   Config
	items []item
	x     []bool

	ftouch, ltouch int
	s, t, b        int
	fpart, lpart   int
	fsort, lsort   int

	c, cstar     int64
	z, zstar     int64
	zwsum        int64
	ps, ws       int64
	pt, wt       int64
	dantzig, ub  int64
	psumb, wsumb int64

	vno    int
	vitem  [MaxHistoryLen]int
	ovitem [MaxHistoryLen]int
	ovect  history

	firstTime bool
	wellDef   bool
	improved  bool

	d      []state
	spare  []state
	stacks intervalStacks

	stats Stats
}

// Solve returns an optimal solution of the 0-1 knapsack problem
// max sum(p[j]*x[j]) subject to sum(w[j]*x[j]) <= capacity.
//
// Profits, weights and capacity must be non-negative and their sums must fit
// in an int64; callers validate this. The only errors are resource
// exhaustion (ErrStateSpaceExhausted, ErrSortStackOverflow) and internal
// invariant violations (ErrInvariant); no partial result is returned with
// them.
func Solve(profits, weights []int64, capacity int64, cfg Config, logger *slog.Logger) (*Result, error) {
	cfg = cfg.normalized()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	n := len(profits)
	res := &Result{Selected: make([]bool, n)}

	// Items that can never or must always be taken are decided up front.
	// This leaves only items with 0 < w <= capacity and p > 0 for the core,
	// which guarantees a break item with positive weight.
	var fixedP, fixedW, freeW int64
	free := make([]int, 0, n)
	for j := 0; j < n; j++ {
		switch {
		case weights[j] == 0 && profits[j] > 0:
			res.Selected[j] = true
			fixedP += profits[j]
		case weights[j] > capacity || profits[j] <= 0:
		default:
			free = append(free, j)
			freeW += weights[j]
		}
	}
	res.Stats.Reduced = n - len(free)

	if freeW <= capacity {
		for _, j := range free {
			res.Selected[j] = true
			fixedP += profits[j]
			fixedW += weights[j]
		}
		res.Profit, res.Weight = fixedP, fixedW
		return res, nil
	}

	e := &engine{
		cfg:    cfg,
		items:  copyProblem(profits, weights, free),
		x:      res.Selected,
		cstar:  capacity,
		d:      make([]state, 0, 64),
		spare:  make([]state, 0, 64),
		stacks: newIntervalStacks(cfg.SortStack),
	}
	if err := e.run(logger); err != nil {
		return nil, err
	}

	res.Profit = fixedP + e.zstar
	for j := range res.Selected {
		if res.Selected[j] {
			res.Weight += weights[j]
		}
	}
	e.stats.Reduced = res.Stats.Reduced
	res.Stats = e.stats
	return res, nil
}

// run drives the rounds: expand and reduce the core until the state set is
// empty or the incumbent meets the upper bound, then reconstruct, and repeat
// on a narrowed window while the reconstruction is ambiguous.
func (e *engine) run(logger *slog.Logger) error {
	e.fsort, e.lsort = len(e.items)-1, 0
	if err := e.partSort(0, len(e.items)-1, 0, partiate); err != nil {
		return err
	}
	e.findBreak()
	e.ub = e.dantzig
	e.stats.Dantzig = e.dantzig
	e.firstTime = true

	for {
		e.stats.Rounds++
		e.improved = false

		e.s = e.b - 1
		e.t = e.b
		e.initFirst(e.psumb, e.wsumb)
		e.initVect()
		if err := e.reduceSet(); err != nil {
			return err
		}

		for len(e.d) > 0 && e.z < e.ub {
			if e.t <= e.lsort {
				if e.hasChance(e.t, right) {
					if err := e.multiply(e.t, right); err != nil {
						return err
					}
				}
				e.t++
			}
			if err := e.reduceSet(); err != nil {
				return err
			}
			if e.s >= e.fsort {
				if e.hasChance(e.s, left) {
					if err := e.multiply(e.s, left); err != nil {
						return err
					}
				}
				e.s--
			}
			if err := e.reduceSet(); err != nil {
				return err
			}
		}

		if e.stats.Rounds == 1 {
			e.stats.TouchedItems = e.ltouch - e.ftouch + 1
		}
		if err := e.defineSolution(); err != nil {
			return err
		}
		if logger.Enabled(context.Background(), slog.LevelDebug) {
			logger.Debug("minknap round finished",
				"round", e.stats.Rounds,
				"welldefined", e.wellDef,
				"fsort", e.fsort,
				"lsort", e.lsort,
				"target", e.ub,
				"maxstates", e.stats.MaxStates)
		}
		if e.wellDef {
			return nil
		}
	}
}
