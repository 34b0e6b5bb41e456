// Package knapsack solves the 0-1 knapsack problem exactly with Pisinger's
// minimal core algorithm (minknap).
//
// The solver grows a core of items around the break item of the greedy
// solution and keeps only undominated partial solutions, so instances with
// hundreds of thousands of items are usually solved after looking at a
// small fraction of them.
//
// # Basic Usage
//
//	sol, err := knapsack.Solve(profits, weights, capacity)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, taken := range sol.Selected {
//	    if taken {
//	        fmt.Println("item", i)
//	    }
//	}
//
// Instances can be read from text (ParseText) or JSON (ParseJSON) and
// stored in checksummed corpus files (WriteCorpus, OpenCorpus).
//
// # Package Structure
//
//   - Public API: knapsack.go (Solve, SolveInstance), solve_options.go (SolveOption)
//   - Instances: instance.go (Instance, text and JSON I/O, Fingerprint)
//   - Corpus files: corpus_header.go (layout), corpus_writer.go, corpus.go
//   - Core algorithm: internal/minknap/
//   - Reference solvers: internal/oracle/ (table DP, enumeration)
//   - Instance generation and hard-case search: internal/gen/, internal/evolve/
//   - Platform: fileio_*.go (preallocation, access hints)
package knapsack
