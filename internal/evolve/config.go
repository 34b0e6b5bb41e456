package evolve

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	kerrors "github.com/tamirms/knapsack/errors"
	"github.com/tamirms/knapsack/internal/gen"
	"github.com/tamirms/knapsack/internal/oracle"
)

// Config controls a hard-case search. Zero values are replaced by the
// defaults of DefaultConfig when loaded from YAML.
type Config struct {
	// Instance shape for fresh instances.
	Class string  `yaml:"class"`
	Items int     `yaml:"items"`
	Range int64   `yaml:"range"`
	Ratio float64 `yaml:"ratio"`

	// Spread is the mutation width; offsets are drawn from [-Spread/2, Spread/2).
	Spread int64 `yaml:"spread"`
	Seed   uint64 `yaml:"seed"`

	// MaxPasses is how many generations without improvement are tolerated
	// before the search restarts from a fresh instance.
	MaxPasses int `yaml:"max_passes"`
	// Generations bounds the search; 0 runs until the context is done.
	Generations int `yaml:"generations"`
	// Offspring is the number of mutants evaluated per generation.
	Offspring int `yaml:"offspring"`
	Workers   int `yaml:"workers"`
	// Keep is how many of the hardest instances are returned.
	Keep int `yaml:"keep"`

	// DumpDir receives a corpus file for every instance on which the solver
	// disagrees with the reference oracle. Empty means the working directory.
	DumpDir string `yaml:"dump_dir"`
	// OracleCells bounds the table oracle; negative disables cross-checks.
	OracleCells int64 `yaml:"oracle_cells"`

	MaxStates  int `yaml:"max_states"`
	HistoryLen int `yaml:"history_len"`
}

// DefaultConfig mirrors the classic setup: 30 "years" items, capacity at
// 95% of the total, mutation width 25 and a restart after 1000 passes.
func DefaultConfig() Config {
	return Config{
		Class:       string(gen.Years),
		Items:       30,
		Range:       gen.YearsMax,
		Ratio:       0.95,
		Spread:      25,
		Seed:        53245235,
		MaxPasses:   1000,
		Offspring:   8,
		Workers:     4,
		Keep:        10,
		OracleCells: oracle.DefaultMaxCells,
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", kerrors.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, err := gen.ParseClass(c.Class); err != nil {
		return err
	}
	switch {
	case c.Items < 1:
		return fmt.Errorf("%w: items must be positive, got %d", kerrors.ErrInvalidConfig, c.Items)
	case c.Range < 1:
		return fmt.Errorf("%w: range must be positive, got %d", kerrors.ErrInvalidConfig, c.Range)
	case c.Ratio < 0 || c.Ratio > 1:
		return fmt.Errorf("%w: ratio %g outside [0, 1]", kerrors.ErrInvalidConfig, c.Ratio)
	case c.Spread < 1:
		return fmt.Errorf("%w: spread must be positive, got %d", kerrors.ErrInvalidConfig, c.Spread)
	case c.MaxPasses < 0:
		return fmt.Errorf("%w: max_passes must not be negative", kerrors.ErrInvalidConfig)
	case c.Generations < 0:
		return fmt.Errorf("%w: generations must not be negative", kerrors.ErrInvalidConfig)
	case c.Offspring < 1:
		return fmt.Errorf("%w: offspring must be positive, got %d", kerrors.ErrInvalidConfig, c.Offspring)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", kerrors.ErrInvalidConfig, c.Workers)
	case c.Keep < 1:
		return fmt.Errorf("%w: keep must be positive, got %d", kerrors.ErrInvalidConfig, c.Keep)
	case c.MaxStates < 0 || c.HistoryLen < 0:
		return fmt.Errorf("%w: solver limits must not be negative", kerrors.ErrInvalidConfig)
	}
	return nil
}

// class returns the parsed class; Validate has already accepted it.
func (c Config) class() gen.Class {
	cls, _ := gen.ParseClass(c.Class)
	return cls
}

func (c Config) genParams() gen.Params {
	return gen.Params{Class: c.class(), Items: c.Items, Range: c.Range, Ratio: c.Ratio}
}

func (c Config) mutateParams() gen.MutateParams {
	maxValue := c.Range
	if c.class() == gen.Years {
		maxValue = gen.YearsMax
	}
	return gen.MutateParams{Spread: c.Spread, MaxValue: maxValue, Ratio: c.Ratio}
}
