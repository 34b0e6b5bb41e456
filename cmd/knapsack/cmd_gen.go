package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamirms/knapsack"
	"github.com/tamirms/knapsack/internal/gen"
)

type genFlags struct {
	class  string
	items  int
	rng    int64
	ratio  float64
	count  int
	seed   uint64
	output string
}

func newGenCmd(g *globalFlags) *cobra.Command {
	f := &genFlags{}
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate random instances into a corpus file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			class, err := gen.ParseClass(f.class)
			if err != nil {
				return err
			}
			if f.count < 0 {
				return fmt.Errorf("--count must not be negative")
			}
			rng := gen.NewRNG(string(class), f.seed)
			p := gen.Params{Class: class, Items: f.items, Range: f.rng, Ratio: f.ratio}
			insts := make([]*knapsack.Instance, f.count)
			for i := range insts {
				if insts[i], err = gen.Generate(rng, p); err != nil {
					return err
				}
			}
			if err := knapsack.WriteCorpus(f.output, insts); err != nil {
				return err
			}
			g.logger.Info("corpus written", "path", f.output, "class", class, "instances", f.count, "items", f.items)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.class, "class", string(gen.Uncorrelated), "instance class: uncorrelated, weakly, strongly, inverse, subset-sum or years")
	cmd.Flags().IntVar(&f.items, "items", 1000, "items per instance")
	cmd.Flags().Int64Var(&f.rng, "range", 1000, "values are drawn from [1, range]")
	cmd.Flags().Float64Var(&f.ratio, "ratio", 0.5, "capacity as a fraction of the total weight")
	cmd.Flags().IntVar(&f.count, "count", 1, "number of instances")
	cmd.Flags().Uint64Var(&f.seed, "seed", 1, "random seed")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "corpus file to write")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
