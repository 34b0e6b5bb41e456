// Package evolve searches for knapsack instances that are hard for the
// core solver, using a (1+λ) evolutionary strategy.
//
// Each generation mutates the current best instance, solves the mutants
// concurrently and keeps the one that needed the most work. A run of
// MaxPasses generations without improvement restarts the search from a
// fresh random instance. Every solution is cross-checked against the
// reference oracle; a disagreement is dumped to a corpus file and ends the
// search with kerrors.ErrSolverMismatch.
package evolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/tamirms/knapsack"
	kerrors "github.com/tamirms/knapsack/errors"
	"github.com/tamirms/knapsack/internal/gen"
	"github.com/tamirms/knapsack/internal/oracle"
)

// Candidate is an evaluated instance.
type Candidate struct {
	Instance    *knapsack.Instance
	Fingerprint knapsack.Fingerprint
	Profit      int64
	Stats       knapsack.Stats
	Generation  int
}

// Effort is the work measure the search maximizes.
func (c *Candidate) Effort() int64 {
	return c.Stats.StatesVisited
}

// Progress is one line of the search trace.
type Progress struct {
	Passes     int
	Generation int
	Best       int64 // effort of the parent
	New        int64 // effort of the best offspring
}

// Result summarizes a search.
type Result struct {
	// Hardest holds up to Keep distinct instances, hardest first.
	Hardest     []Candidate
	Trace       []Progress
	Generations int
	Restarts    int
	Evaluated   int
	Duplicates  int
}

type solveFunc func(*knapsack.Instance) (*knapsack.Solution, error)

type searcher struct {
	cfg    Config
	logger *slog.Logger
	solve  solveFunc
	rng    *rand.Rand
	seen   map[knapsack.Fingerprint]struct{}
	res    *Result
}

// Run searches until ctx is done or cfg.Generations generations have run.
// Cancellation is not an error: the instances found so far are returned.
func Run(ctx context.Context, cfg Config, logger *slog.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var opts []knapsack.SolveOption
	if cfg.MaxStates > 0 {
		opts = append(opts, knapsack.WithMaxStates(cfg.MaxStates))
	}
	if cfg.HistoryLen > 0 {
		opts = append(opts, knapsack.WithHistoryLen(cfg.HistoryLen))
	}
	s := newSearcher(cfg, logger, func(inst *knapsack.Instance) (*knapsack.Solution, error) {
		return knapsack.SolveInstance(inst, opts...)
	})
	return s.run(ctx)
}

func newSearcher(cfg Config, logger *slog.Logger, solve solveFunc) *searcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &searcher{
		cfg:    cfg,
		logger: logger,
		solve:  solve,
		rng:    gen.NewRNG("evolve", cfg.Seed),
		seen:   make(map[knapsack.Fingerprint]struct{}),
		res:    &Result{},
	}
}

func (s *searcher) run(ctx context.Context) (*Result, error) {
	first, err := s.fresh()
	if err != nil {
		return nil, err
	}
	evaluated, err := s.evaluateAll(ctx, []*knapsack.Instance{first}, 0)
	if err != nil {
		return s.finish(ctx, err)
	}
	best := evaluated[0]
	bestEffort := best.Effort()
	s.offer(evaluated)
	passes := 0

	for generation := 1; s.cfg.Generations == 0 || generation <= s.cfg.Generations; generation++ {
		if ctx.Err() != nil {
			break
		}

		var batch []*knapsack.Instance
		if passes > s.cfg.MaxPasses {
			s.res.Restarts++
			s.logger.Info("restarting search", "generation", generation, "best_effort", bestEffort)
			fresh, err := s.fresh()
			if err != nil {
				return nil, err
			}
			batch = []*knapsack.Instance{fresh}
			// The bar stays at zero until an instance beats it, even if the
			// fresh instance needed no work and best is still the old parent.
			bestEffort = 0
			passes = 0
		} else {
			batch = s.mutants(best.Instance)
		}

		evaluated, err := s.evaluateAll(ctx, batch, generation)
		if err != nil {
			return s.finish(ctx, err)
		}
		s.res.Generations = generation
		s.offer(evaluated)

		var newEffort int64
		var top *Candidate
		for i := range evaluated {
			if top == nil || evaluated[i].Effort() > top.Effort() {
				top = &evaluated[i]
			}
		}
		if top != nil {
			newEffort = top.Effort()
		}
		s.res.Trace = append(s.res.Trace, Progress{
			Passes:     passes,
			Generation: generation,
			Best:       bestEffort,
			New:        newEffort,
		})
		s.logger.Debug("generation finished",
			"generation", generation,
			"passes", passes,
			"best_effort", bestEffort,
			"new_effort", newEffort,
			"evaluated", len(evaluated))

		if top != nil && newEffort > bestEffort {
			best = *top
			bestEffort = newEffort
			passes = 0
			s.logger.Info("harder instance found", "generation", generation, "effort", newEffort, "fingerprint", top.Fingerprint.String())
		} else {
			passes++
		}
	}
	return s.res, nil
}

// finish turns cancellation into a normal return and passes other errors on.
func (s *searcher) finish(ctx context.Context, err error) (*Result, error) {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return s.res, nil
	}
	return nil, err
}

func (s *searcher) fresh() (*knapsack.Instance, error) {
	inst, err := gen.Generate(s.rng, s.cfg.genParams())
	if err != nil {
		return nil, err
	}
	s.seen[inst.Fingerprint()] = struct{}{}
	return inst, nil
}

// mutants draws Offspring mutants of parent, skipping instances already seen.
func (s *searcher) mutants(parent *knapsack.Instance) []*knapsack.Instance {
	mp := s.cfg.mutateParams()
	batch := make([]*knapsack.Instance, 0, s.cfg.Offspring)
	for range s.cfg.Offspring {
		m := gen.Mutate(s.rng, parent, mp)
		fp := m.Fingerprint()
		if _, dup := s.seen[fp]; dup {
			s.res.Duplicates++
			continue
		}
		s.seen[fp] = struct{}{}
		batch = append(batch, m)
	}
	return batch
}

// evaluateAll solves batch concurrently. Results keep the batch order.
func (s *searcher) evaluateAll(ctx context.Context, batch []*knapsack.Instance, generation int) ([]Candidate, error) {
	out := make([]Candidate, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, inst := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := s.evaluate(inst)
			if err != nil {
				return err
			}
			c.Generation = generation
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.res.Evaluated += len(batch)
	return out, nil
}

// evaluate solves inst and cross-checks the answer.
func (s *searcher) evaluate(inst *knapsack.Instance) (Candidate, error) {
	fp := inst.Fingerprint()
	sol, err := s.solve(inst)
	if err != nil {
		return Candidate{}, fmt.Errorf("solve instance %s: %w", fp, err)
	}
	if err := s.check(inst, sol); err != nil {
		path := filepath.Join(s.cfg.DumpDir, "mismatch-"+fp.String()+".knpc")
		if dumpErr := knapsack.WriteCorpus(path, []*knapsack.Instance{inst}); dumpErr != nil {
			return Candidate{}, errors.Join(err, fmt.Errorf("dump instance: %w", dumpErr))
		}
		s.logger.Warn("solver mismatch", "fingerprint", fp.String(), "dump", path, "error", err)
		return Candidate{}, fmt.Errorf("%w (instance dumped to %s)", err, path)
	}
	return Candidate{
		Instance:    inst,
		Fingerprint: fp,
		Profit:      sol.Profit,
		Stats:       sol.Stats,
	}, nil
}

// check verifies feasibility and, when the oracle can afford it, optimality.
func (s *searcher) check(inst *knapsack.Instance, sol *knapsack.Solution) error {
	if len(sol.Selected) != inst.Len() {
		return fmt.Errorf("%w: selection has %d entries for %d items", kerrors.ErrSolverMismatch, len(sol.Selected), inst.Len())
	}
	var p, w int64
	for i, taken := range sol.Selected {
		if taken {
			p += inst.Profits[i]
			w += inst.Weights[i]
		}
	}
	if p != sol.Profit || w != sol.Weight || w > inst.Capacity {
		return fmt.Errorf("%w: selection sums to (%d, %d), reported (%d, %d), capacity %d",
			kerrors.ErrSolverMismatch, p, w, sol.Profit, sol.Weight, inst.Capacity)
	}
	if s.cfg.OracleCells < 0 {
		return nil
	}
	want, _, err := oracle.Table(inst.Profits, inst.Weights, inst.Capacity, s.cfg.OracleCells)
	if errors.Is(err, kerrors.ErrOracleTooLarge) {
		return nil
	}
	if err != nil {
		return err
	}
	if want != sol.Profit {
		return fmt.Errorf("%w: profit %d, oracle %d", kerrors.ErrSolverMismatch, sol.Profit, want)
	}
	return nil
}

// offer merges evaluated candidates into the hardest list.
func (s *searcher) offer(evaluated []Candidate) {
	h := append(s.res.Hardest, evaluated...)
	slices.SortStableFunc(h, func(a, b Candidate) int {
		switch {
		case a.Effort() > b.Effort():
			return -1
		case a.Effort() < b.Effort():
			return 1
		}
		return 0
	})
	if len(h) > s.cfg.Keep {
		h = h[:s.cfg.Keep]
	}
	s.res.Hardest = h
}
