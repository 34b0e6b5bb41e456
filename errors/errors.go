// Package errors defines all exported error sentinels for the knapsack module.
//
// This is the single source of truth for error values. Both the top-level
// knapsack package and internal packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Solve errors
var (
	ErrInvalidInput        = errors.New("knapsack: invalid input")
	ErrStateSpaceExhausted = errors.New("knapsack: state space capacity exceeded")
	ErrSortStackOverflow   = errors.New("knapsack: interval stack full")
	ErrInvariant           = errors.New("knapsack: internal invariant violated")
)

// Corpus errors
var (
	ErrInvalidMagic    = errors.New("knapsack: invalid corpus magic number")
	ErrInvalidVersion  = errors.New("knapsack: unsupported corpus version")
	ErrTruncatedFile   = errors.New("knapsack: corpus file is truncated")
	ErrCorruptedCorpus = errors.New("knapsack: corpus data is corrupted")
	ErrChecksumFailed  = errors.New("knapsack: corpus checksum verification failed")
	ErrCorpusClosed    = errors.New("knapsack: corpus is closed")
)

// Harness errors
var (
	ErrSolverMismatch   = errors.New("knapsack: solver disagrees with reference oracle")
	ErrOracleTooLarge   = errors.New("knapsack: instance too large for reference oracle")
	ErrUnknownGenerator = errors.New("knapsack: unknown instance class")
	ErrInvalidConfig    = errors.New("knapsack: invalid configuration")
)
