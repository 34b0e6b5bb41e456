package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamirms/knapsack"
	"github.com/tamirms/knapsack/internal/gen"
)

type benchFlags struct {
	classes    []string
	items      int
	rng        int64
	ratio      float64
	count      int
	seed       uint64
	cpuprofile string
}

type benchRow struct {
	class     gen.Class
	solves    int
	elapsed   time.Duration
	maxStates int
	core      int
	peakHeap  uint64
	peakRSS   uint64
}

func newBenchCmd(g *globalFlags) *cobra.Command {
	f := &benchFlags{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure solve time and peak memory per instance class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			classes := gen.Classes
			if len(f.classes) > 0 {
				classes = classes[:0:0]
				for _, name := range f.classes {
					c, err := gen.ParseClass(name)
					if err != nil {
						return err
					}
					classes = append(classes, c)
				}
			}

			if f.cpuprofile != "" {
				file, err := os.Create(f.cpuprofile)
				if err != nil {
					return fmt.Errorf("create CPU profile: %w", err)
				}
				defer file.Close()
				if err := pprof.StartCPUProfile(file); err != nil {
					return fmt.Errorf("start CPU profile: %w", err)
				}
				defer pprof.StopCPUProfile()
			}

			rows := make([]benchRow, 0, len(classes))
			for _, class := range classes {
				row, err := benchClass(class, f)
				if err != nil {
					return err
				}
				g.logger.Debug("class finished", "class", class, "elapsed", row.elapsed)
				rows = append(rows, row)
			}
			return printBench(cmd, f, rows)
		},
	}
	cmd.Flags().StringSliceVar(&f.classes, "class", nil, "classes to run (default all)")
	cmd.Flags().IntVar(&f.items, "items", 10_000, "items per instance")
	cmd.Flags().Int64Var(&f.rng, "range", 1000, "values are drawn from [1, range]")
	cmd.Flags().Float64Var(&f.ratio, "ratio", 0.5, "capacity as a fraction of the total weight")
	cmd.Flags().IntVar(&f.count, "count", 10, "instances per class")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&f.cpuprofile, "cpuprofile", "", "write a CPU profile of the solve phase to this file")
	return cmd
}

func benchClass(class gen.Class, f *benchFlags) (benchRow, error) {
	rng := gen.NewRNG("bench/"+string(class), f.seed)
	p := gen.Params{Class: class, Items: f.items, Range: f.rng, Ratio: f.ratio}
	insts := make([]*knapsack.Instance, f.count)
	for i := range insts {
		var err error
		if insts[i], err = gen.Generate(rng, p); err != nil {
			return benchRow{}, err
		}
	}

	row := benchRow{class: class}
	sampler := startMemSampler()
	start := time.Now()
	for i, inst := range insts {
		sol, err := knapsack.SolveInstance(inst)
		if err != nil {
			sampler.stop()
			return benchRow{}, fmt.Errorf("%s instance %d: %w", class, i, err)
		}
		row.solves++
		row.maxStates = max(row.maxStates, sol.Stats.MaxStates)
		row.core = max(row.core, sol.Stats.CoreSize)
	}
	row.elapsed = time.Since(start)
	row.peakHeap, row.peakRSS = sampler.stop()
	return row, nil
}

func printBench(cmd *cobra.Command, f *benchFlags, rows []benchRow) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "items=%d range=%d ratio=%.2f count=%d\t\n", f.items, f.rng, f.ratio, f.count)
	fmt.Fprintln(w, "class\tavg solve\tmax states\tmax core\tpeak heap\tpeak RSS\t")
	for _, r := range rows {
		var avg time.Duration
		if r.solves > 0 {
			avg = r.elapsed / time.Duration(r.solves)
		}
		fmt.Fprintf(w, "%s\t%v\t%d\t%d\t%.2f MB\t%.2f MB\t\n",
			r.class, avg.Round(time.Microsecond), r.maxStates, r.core,
			float64(r.peakHeap)/(1<<20), float64(r.peakRSS)/(1<<20))
	}
	return w.Flush()
}
