// Package gen generates 0-1 knapsack instances of the classic test classes
// and mutates existing instances for the hard-case search.
package gen

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/tamirms/knapsack"
	kerrors "github.com/tamirms/knapsack/errors"
)

// Class names an instance family.
type Class string

const (
	Uncorrelated Class = "uncorrelated"
	Weakly       Class = "weakly"
	Strongly     Class = "strongly"
	Inverse      Class = "inverse"
	SubsetSum    Class = "subset-sum"
	// Years draws subset-sum items in [1, YearsMax].
	Years Class = "years"
)

// YearsMax is the largest value of the Years class.
const YearsMax = 2009

// Classes lists every supported class in a stable order.
var Classes = []Class{Uncorrelated, Weakly, Strongly, Inverse, SubsetSum, Years}

// ParseClass resolves a class name, ignoring case.
func ParseClass(name string) (Class, error) {
	c := Class(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Classes {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", kerrors.ErrUnknownGenerator, name)
}

// Params describes one generated instance.
type Params struct {
	Class Class
	Items int
	// Range bounds the drawn values to [1, Range]. Years ignores it.
	Range int64
	// Ratio sets the capacity to this fraction of the total weight.
	Ratio float64
}

func (p Params) validate() error {
	if p.Items < 0 {
		return fmt.Errorf("%w: negative item count %d", kerrors.ErrInvalidConfig, p.Items)
	}
	if p.Class != Years && p.Range < 1 {
		return fmt.Errorf("%w: range %d must be at least 1", kerrors.ErrInvalidConfig, p.Range)
	}
	if p.Ratio < 0 || p.Ratio > 1 {
		return fmt.Errorf("%w: ratio %g outside [0, 1]", kerrors.ErrInvalidConfig, p.Ratio)
	}
	return nil
}

// NewRNG derives a reproducible generator from a stream name and a seed,
// so that workers and tests sharing a seed still get distinct streams.
func NewRNG(name string, seed uint64) *rand.Rand {
	h1, h2 := murmur3.Sum128WithSeed([]byte(name), uint32(seed)^uint32(seed>>32))
	return rand.New(rand.NewPCG(h1^seed, h2))
}

// Generate draws an instance of p.Class.
func Generate(rng *rand.Rand, p Params) (*knapsack.Instance, error) {
	class, err := ParseClass(string(p.Class))
	if err != nil {
		return nil, err
	}
	p.Class = class
	if err := p.validate(); err != nil {
		return nil, err
	}

	r := p.Range
	if p.Class == Years {
		r = YearsMax
	}
	spread := max(r/10, 1)
	inst := &knapsack.Instance{
		Profits: make([]int64, p.Items),
		Weights: make([]int64, p.Items),
	}
	for i := range p.Items {
		w := uniform(rng, 1, r)
		var v int64
		switch p.Class {
		case Uncorrelated:
			v = uniform(rng, 1, r)
		case Weakly:
			v = max(1, w+uniform(rng, -spread, spread))
		case Strongly:
			v = w + spread
		case Inverse:
			// Profits are drawn and weights follow them.
			v = w
			w = v + spread
		case SubsetSum, Years:
			v = w
		}
		inst.Profits[i] = v
		inst.Weights[i] = w
	}
	inst.Capacity = capacityFor(inst.Weights, p.Ratio)
	return inst, nil
}

// MutateParams controls Mutate.
type MutateParams struct {
	// Spread is the width of the uniform offset added to each value.
	Spread int64
	// MaxValue clamps mutated values to [1, MaxValue]; values below 1
	// leave the upper end unclamped.
	MaxValue int64
	// Ratio recomputes the capacity as in Generate.
	Ratio float64
}

// Mutate returns a perturbed copy of inst. Each item is kept unchanged with
// probability 2/n; otherwise its weight moves by a uniform offset in
// [-Spread/2, Spread/2) and is clamped to [1, MaxValue]. Items whose profit
// equals their weight keep that property; other profits are perturbed
// independently.
func Mutate(rng *rand.Rand, inst *knapsack.Instance, mp MutateParams) *knapsack.Instance {
	out := inst.Clone()
	n := out.Len()
	if n == 0 {
		return out
	}
	spread := max(mp.Spread, 1)
	hi := mp.MaxValue
	if hi < 1 {
		hi = math.MaxInt32
	}
	perturb := func(v int64) int64 {
		v += rng.Int64N(spread) - spread/2
		return min(max(v, 1), hi)
	}
	for i := range n {
		if rng.IntN(n) < 2 {
			continue
		}
		linked := out.Profits[i] == out.Weights[i]
		out.Weights[i] = perturb(out.Weights[i])
		if linked {
			out.Profits[i] = out.Weights[i]
		} else {
			out.Profits[i] = perturb(out.Profits[i])
		}
	}
	out.Capacity = capacityFor(out.Weights, mp.Ratio)
	return out
}

// capacityFor returns max(min weight, floor(total*ratio)), so at least one
// item always fits.
func capacityFor(weights []int64, ratio float64) int64 {
	if len(weights) == 0 {
		return 0
	}
	var total int64
	least := weights[0]
	for _, w := range weights {
		total += w
		least = min(least, w)
	}
	return max(least, int64(float64(total)*ratio))
}

func uniform(rng *rand.Rand, lo, hi int64) int64 {
	return lo + rng.Int64N(hi-lo+1)
}
