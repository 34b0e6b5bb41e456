package minknap

import (
	"errors"
	"slices"
	"testing"

	kerrors "github.com/tamirms/knapsack/errors"
)

func newTestEngine(profits, weights []int64, capacity int64, cfg Config) *engine {
	cfg = cfg.normalized()
	slots := make([]int, len(profits))
	for i := range slots {
		slots[i] = i
	}
	return &engine{
		cfg:    cfg,
		items:  copyProblem(profits, weights, slots),
		x:      make([]bool, len(profits)),
		cstar:  capacity,
		stacks: newIntervalStacks(cfg.SortStack),
	}
}

func isSortedByEfficiency(items []item) bool {
	for i := 1; i < len(items); i++ {
		if compareItems(items[i-1], items[i]) < 0 {
			return false
		}
	}
	return true
}

func TestPartSortAllSorts(t *testing.T) {
	rng := newTestRNG(t)
	for _, n := range []int{1, 2, 3, 4, 7, 50, 101, 500, 3000} {
		profits, weights, capacity := randomInstance(rng, n, 1, 1000, 0.5)
		e := newTestEngine(profits, weights, capacity, DefaultConfig())
		if err := e.partSort(0, n-1, 0, sortAll); err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if !isSortedByEfficiency(e.items) {
			t.Fatalf("n=%d: items not sorted by efficiency", n)
		}
		slots := make([]int, n)
		for i, it := range e.items {
			slots[i] = it.slot
		}
		slices.Sort(slots)
		for i, s := range slots {
			if s != i {
				t.Fatalf("n=%d: items are not a permutation of the input", n)
			}
		}
	}
}

func TestPartSortFindsBreakItem(t *testing.T) {
	rng := newTestRNG(t)
	for iter := 0; iter < 200; iter++ {
		n := 2 + rng.IntN(2000)
		profits, weights, capacity := randomInstance(rng, n, 1, 10000, 0.1+0.8*rng.Float64())

		// Reference: fully sorted greedy prefix.
		ref := newTestEngine(profits, weights, capacity, DefaultConfig())
		if err := ref.partSort(0, n-1, 0, sortAll); err != nil {
			t.Fatal(err)
		}
		var wantP, wantW int64
		for _, it := range ref.items {
			if wantW+it.w > capacity {
				break
			}
			wantP += it.p
			wantW += it.w
		}

		e := newTestEngine(profits, weights, capacity, DefaultConfig())
		if err := e.partSort(0, n-1, 0, partiate); err != nil {
			t.Fatalf("iter %d: %v", iter, err)
		}
		if e.lpart-e.fpart+1 > 3 {
			t.Fatalf("iter %d: leaf [%d, %d] has more than three items", iter, e.fpart, e.lpart)
		}
		var total int64
		for _, w := range weights {
			total += w
		}
		if total <= capacity {
			continue
		}
		e.findBreak()
		if e.b < e.fpart || e.b > e.lpart {
			t.Fatalf("iter %d: break item %d outside leaf [%d, %d]", iter, e.b, e.fpart, e.lpart)
		}
		// Equal-efficiency items may be ordered differently, so only the
		// weight bound and the profit of the prefix are compared.
		if e.wsumb > capacity || e.wsumb+e.items[e.b].w <= capacity {
			t.Fatalf("iter %d: break prefix weight %d, break weight %d, capacity %d",
				iter, e.wsumb, e.items[e.b].w, capacity)
		}
		for i := 0; i < e.b; i++ {
			if compareItems(e.items[i], e.items[e.b]) < 0 {
				t.Fatalf("iter %d: item %d before break is less efficient than the break item", iter, i)
			}
		}
		for i := e.b + 1; i < n; i++ {
			if compareItems(e.items[i], e.items[e.b]) > 0 {
				t.Fatalf("iter %d: item %d after break is more efficient than the break item", iter, i)
			}
		}
		if e.dantzig < wantP {
			t.Fatalf("iter %d: Dantzig bound %d below greedy prefix %d", iter, e.dantzig, wantP)
		}
	}
}

func TestPartSortStackOverflow(t *testing.T) {
	rng := newTestRNG(t)
	profits, weights, capacity := randomInstance(rng, 5000, 1, 1000, 0.5)
	e := newTestEngine(profits, weights, capacity, Config{SortStack: 3})
	err := e.partSort(0, len(profits)-1, 0, partiate)
	if !errors.Is(err, kerrors.ErrSortStackOverflow) {
		t.Fatalf("err = %v, want ErrSortStackOverflow", err)
	}
}

func TestPartSortEqualEfficiency(t *testing.T) {
	// Every item has efficiency 2, so every comparison is a tie and the
	// scans are stopped only by the pivot value itself.
	for _, n := range []int{4, 150, 1000} {
		profits := make([]int64, n)
		weights := make([]int64, n)
		var total int64
		for j := range profits {
			weights[j] = int64(j%7 + 1)
			profits[j] = 2 * weights[j]
			total += weights[j]
		}
		for _, mode := range []sortMode{sortAll, partiate} {
			e := newTestEngine(profits, weights, total/2, DefaultConfig())
			if err := e.partSort(0, n-1, 0, mode); err != nil {
				t.Fatalf("n=%d mode=%d: %v", n, mode, err)
			}
			if mode == partiate {
				e.findBreak()
				if e.wsumb > total/2 || e.wsumb+e.items[e.b].w <= total/2 {
					t.Fatalf("n=%d: bad break prefix weight %d", n, e.wsumb)
				}
			}
		}
	}
}
