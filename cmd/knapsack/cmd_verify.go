package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamirms/knapsack"
	kerrors "github.com/tamirms/knapsack/errors"
	"github.com/tamirms/knapsack/internal/oracle"
)

func newVerifyCmd(g *globalFlags) *cobra.Command {
	var maxCells int64
	cmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Check corpus checksums and cross-check every instance against a reference solver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := knapsack.OpenCorpus(args[0])
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.Verify(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			var checked, skipped, failed int
			for i := range c.Len() {
				inst, err := c.Instance(i)
				if err != nil {
					return err
				}
				ok, err := crossCheck(inst, maxCells)
				switch {
				case errors.Is(err, kerrors.ErrOracleTooLarge):
					skipped++
					continue
				case err != nil:
					return fmt.Errorf("instance %d: %w", i, err)
				case !ok:
					failed++
					g.logger.Error("solver disagrees with oracle", "instance", i, "fingerprint", inst.Fingerprint().String())
				}
				checked++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d instances, %d checked, %d skipped, %d failed\n",
				args[0], c.Len(), checked, skipped, failed)
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d instances", kerrors.ErrSolverMismatch, failed, checked)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&maxCells, "max-cells", oracle.DefaultMaxCells, "largest items×capacity table the reference solver may build")
	return cmd
}

// crossCheck solves inst and compares the profit with the table oracle.
func crossCheck(inst *knapsack.Instance, maxCells int64) (bool, error) {
	want, _, err := oracle.Table(inst.Profits, inst.Weights, inst.Capacity, maxCells)
	if err != nil {
		return false, err
	}
	sol, err := knapsack.SolveInstance(inst)
	if err != nil {
		return false, err
	}
	var w int64
	for j, taken := range sol.Selected {
		if taken {
			w += inst.Weights[j]
		}
	}
	return sol.Profit == want && w <= inst.Capacity, nil
}
