package main

import (
	"context"
	"encoding/csv"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamirms/knapsack"
	"github.com/tamirms/knapsack/internal/evolve"
)

type evolveFlags struct {
	config   string
	duration time.Duration
	output   string
	progress string
}

func newEvolveCmd(g *globalFlags) *cobra.Command {
	f := &evolveFlags{}
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Search for instances that make the solver work hardest",
		Long: `Evolve runs a (1+λ) search: each generation mutates the hardest
instance found so far and keeps the mutant that needed the most states.
Every answer is checked against a reference solver; a disagreement is
dumped as a corpus file into dump_dir and stops the search.

The search runs for the configured number of generations, until
--duration elapses, or until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := evolve.DefaultConfig()
			if f.config != "" {
				var err error
				if cfg, err = evolve.LoadConfig(f.config); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if f.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, f.duration)
				defer cancel()
			}

			res, err := evolve.Run(ctx, cfg, g.logger)
			if err != nil {
				return err
			}

			hardest := make([]*knapsack.Instance, len(res.Hardest))
			for i, c := range res.Hardest {
				hardest[i] = c.Instance
			}
			if err := knapsack.WriteCorpus(f.output, hardest); err != nil {
				return err
			}
			if f.progress != "" {
				if err := writeProgress(f.progress, res.Trace); err != nil {
					return err
				}
			}

			var top int64
			if len(res.Hardest) > 0 {
				top = res.Hardest[0].Effort()
			}
			g.logger.Info("search finished",
				"generations", res.Generations,
				"restarts", res.Restarts,
				"evaluated", res.Evaluated,
				"duplicates", res.Duplicates,
				"hardest_effort", top,
				"output", f.output)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "YAML search configuration (defaults when empty)")
	cmd.Flags().DurationVar(&f.duration, "duration", 0, "stop after this long (0 = no limit)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "hardest.knpc", "corpus file for the hardest instances")
	cmd.Flags().StringVar(&f.progress, "progress", "", "optional CSV file for the per-generation trace")
	return cmd
}

// writeProgress writes the trace as passes;generation;best;new;difference rows.
func writeProgress(path string, trace []evolve.Progress) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(file)
	w.Comma = ';'
	if err := w.Write([]string{"passes", "generation", "best", "new", "difference"}); err != nil {
		return err
	}
	for _, p := range trace {
		row := []string{
			strconv.Itoa(p.Passes),
			strconv.Itoa(p.Generation),
			strconv.FormatInt(p.Best, 10),
			strconv.FormatInt(p.New, 10),
			strconv.FormatInt(p.New-p.Best, 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
