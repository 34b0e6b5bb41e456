package gen

import (
	"errors"
	"testing"

	"github.com/tamirms/knapsack"
	kerrors "github.com/tamirms/knapsack/errors"
)

func TestParseClass(t *testing.T) {
	for _, c := range Classes {
		got, err := ParseClass(string(c))
		if err != nil || got != c {
			t.Fatalf("ParseClass(%q) = %q, %v", c, got, err)
		}
	}
	if got, err := ParseClass(" Subset-Sum "); err != nil || got != SubsetSum {
		t.Fatalf("ParseClass is not case-insensitive: %q, %v", got, err)
	}
	if _, err := ParseClass("knight"); !errors.Is(err, kerrors.ErrUnknownGenerator) {
		t.Fatalf("err = %v, want ErrUnknownGenerator", err)
	}
}

func TestGenerateClasses(t *testing.T) {
	rng := NewRNG(t.Name(), 1)
	for _, c := range Classes {
		t.Run(string(c), func(t *testing.T) {
			inst, err := Generate(rng, Params{Class: c, Items: 500, Range: 1000, Ratio: 0.5})
			if err != nil {
				t.Fatal(err)
			}
			if err := inst.Validate(); err != nil {
				t.Fatal(err)
			}
			if inst.Len() != 500 {
				t.Fatalf("Len = %d, want 500", inst.Len())
			}
			maxValue := int64(1000)
			if c == Years {
				maxValue = YearsMax
			}
			for i := range inst.Profits {
				p, w := inst.Profits[i], inst.Weights[i]
				if p < 1 || w < 1 {
					t.Fatalf("item %d: (%d, %d) has a non-positive value", i, p, w)
				}
				switch c {
				case Uncorrelated, SubsetSum, Years:
					if w > maxValue || p > maxValue {
						t.Fatalf("item %d: (%d, %d) exceeds %d", i, p, w, maxValue)
					}
				case Strongly:
					if p != w+100 {
						t.Fatalf("item %d: profit %d, want weight+100", i, p)
					}
				case Inverse:
					if w != p+100 {
						t.Fatalf("item %d: weight %d, want profit+100", i, w)
					}
				case Weakly:
					if p < w-100 || p > w+100 {
						t.Fatalf("item %d: profit %d too far from weight %d", i, p, w)
					}
				}
				if (c == SubsetSum || c == Years) && p != w {
					t.Fatalf("item %d: profit %d differs from weight %d", i, p, w)
				}
			}
			if want := inst.TotalWeight() / 2; inst.Capacity < want-1 || inst.Capacity > want {
				t.Fatalf("capacity %d, want about %d", inst.Capacity, want)
			}
		})
	}
}

func TestGenerateCapacityAtLeastLightestItem(t *testing.T) {
	rng := NewRNG(t.Name(), 7)
	inst, err := Generate(rng, Params{Class: Years, Items: 30, Ratio: 0})
	if err != nil {
		t.Fatal(err)
	}
	least := inst.Weights[0]
	for _, w := range inst.Weights {
		least = min(least, w)
	}
	if inst.Capacity != least {
		t.Fatalf("capacity %d, want lightest weight %d", inst.Capacity, least)
	}
}

func TestGenerateRejectsBadParams(t *testing.T) {
	rng := NewRNG(t.Name(), 1)
	tests := []struct {
		name string
		p    Params
		want error
	}{
		{"unknown_class", Params{Class: "zigzag", Items: 1, Range: 10}, kerrors.ErrUnknownGenerator},
		{"negative_items", Params{Class: Uncorrelated, Items: -1, Range: 10}, kerrors.ErrInvalidConfig},
		{"zero_range", Params{Class: Uncorrelated, Items: 1, Range: 0}, kerrors.ErrInvalidConfig},
		{"ratio_above_one", Params{Class: Uncorrelated, Items: 1, Range: 10, Ratio: 1.5}, kerrors.ErrInvalidConfig},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Generate(rng, tc.p); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNewRNGStreams(t *testing.T) {
	a1, a2 := NewRNG("worker-0", 42), NewRNG("worker-0", 42)
	b := NewRNG("worker-1", 42)
	c := NewRNG("worker-0", 43)
	same, diffName, diffSeed := true, false, false
	for range 16 {
		x := a1.Uint64()
		if x != a2.Uint64() {
			same = false
		}
		if x != b.Uint64() {
			diffName = true
		}
		if x != c.Uint64() {
			diffSeed = true
		}
	}
	if !same {
		t.Fatal("equal name and seed gave different streams")
	}
	if !diffName || !diffSeed {
		t.Fatal("different names or seeds gave the same stream")
	}
}

func TestMutate(t *testing.T) {
	rng := NewRNG(t.Name(), 3)
	orig, err := Generate(rng, Params{Class: Years, Items: 200, Ratio: 0.95})
	if err != nil {
		t.Fatal(err)
	}
	snapshot := orig.Clone()
	mp := MutateParams{Spread: 25, MaxValue: YearsMax, Ratio: 0.95}
	out := Mutate(rng, orig, mp)

	if orig.Fingerprint() != snapshot.Fingerprint() {
		t.Fatal("Mutate modified its input")
	}
	changed := 0
	for i := range out.Weights {
		w := out.Weights[i]
		if w < 1 || w > YearsMax {
			t.Fatalf("item %d: weight %d outside [1, %d]", i, w, YearsMax)
		}
		if out.Profits[i] != w {
			t.Fatalf("item %d: subset-sum item lost profit == weight", i)
		}
		d := w - orig.Weights[i]
		if d < -12 || d > 12 {
			t.Fatalf("item %d: offset %d outside [-12, 12]", i, d)
		}
		if d != 0 {
			changed++
		}
	}
	if changed == 0 {
		t.Fatal("no item changed")
	}
	if want := capacityFor(out.Weights, 0.95); out.Capacity != want {
		t.Fatalf("capacity %d, want %d", out.Capacity, want)
	}

	if empty := Mutate(rng, &knapsack.Instance{}, mp); empty.Len() != 0 {
		t.Fatal("mutating an empty instance produced items")
	}
}
