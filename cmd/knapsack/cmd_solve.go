package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tamirms/knapsack"
)

type solveFlags struct {
	format     string
	maxStates  int
	sortStack  int
	historyLen int
	jsonOut    bool
}

func newSolveCmd(g *globalFlags) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve the instances in a text, JSON or corpus file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			insts, err := loadInstances(args[0], f.format)
			if err != nil {
				return err
			}
			opts := []knapsack.SolveOption{knapsack.WithLogger(g.logger)}
			if f.maxStates > 0 {
				opts = append(opts, knapsack.WithMaxStates(f.maxStates))
			}
			if f.sortStack > 0 {
				opts = append(opts, knapsack.WithSortStack(f.sortStack))
			}
			if f.historyLen > 0 {
				opts = append(opts, knapsack.WithHistoryLen(f.historyLen))
			}

			out := cmd.OutOrStdout()
			for i, inst := range insts {
				start := time.Now()
				sol, err := knapsack.SolveInstance(inst, opts...)
				if err != nil {
					return fmt.Errorf("instance %d: %w", i, err)
				}
				g.logger.Debug("solved", "instance", i, "items", inst.Len(), "elapsed", time.Since(start))
				if err := printSolution(out, i, sol, f.jsonOut); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.format, "format", "auto", "input format: auto, text, json or corpus")
	cmd.Flags().IntVar(&f.maxStates, "max-states", 0, "state limit per multiplication (0 = default)")
	cmd.Flags().IntVar(&f.sortStack, "sort-stack", 0, "pending interval stack capacity (0 = default)")
	cmd.Flags().IntVar(&f.historyLen, "history", 0, "decision history length, 1..64 (0 = default)")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "print solutions as JSON lines")
	return cmd
}

// loadInstances reads every instance in path. The auto format picks by
// extension: .json is JSON, .knpc is a corpus, anything else is text.
func loadInstances(path, format string) ([]*knapsack.Instance, error) {
	if format == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = "json"
		case ".knpc":
			format = "corpus"
		default:
			format = "text"
		}
	}
	switch format {
	case "text":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		inst, err := knapsack.ParseText(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []*knapsack.Instance{inst}, nil
	case "json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		inst, err := knapsack.ParseJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return []*knapsack.Instance{inst}, nil
	case "corpus":
		c, err := knapsack.OpenCorpus(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer c.Close()
		return c.Instances()
	}
	return nil, fmt.Errorf("unknown --format %q", format)
}

type solutionJSON struct {
	Instance int            `json:"instance"`
	Profit   int64          `json:"profit"`
	Weight   int64          `json:"weight"`
	Items    []int          `json:"items"`
	Stats    knapsack.Stats `json:"stats"`
}

func printSolution(w io.Writer, i int, sol *knapsack.Solution, asJSON bool) error {
	items := make([]int, 0)
	for j, taken := range sol.Selected {
		if taken {
			items = append(items, j)
		}
	}
	if asJSON {
		return json.NewEncoder(w).Encode(solutionJSON{
			Instance: i,
			Profit:   sol.Profit,
			Weight:   sol.Weight,
			Items:    items,
			Stats:    sol.Stats,
		})
	}
	_, err := fmt.Fprintf(w, "instance %d: profit %d weight %d items %v rounds %d core %d states %d\n",
		i, sol.Profit, sol.Weight, items, sol.Stats.Rounds, sol.Stats.CoreSize, sol.Stats.StatesVisited)
	return err
}
