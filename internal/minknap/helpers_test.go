package minknap

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// randomInstance draws n items with profits and weights in [lo, hi] and a
// capacity of roughly ratio times the total weight.
func randomInstance(rng *rand.Rand, n int, lo, hi int64, ratio float64) ([]int64, []int64, int64) {
	profits := make([]int64, n)
	weights := make([]int64, n)
	var total int64
	for j := 0; j < n; j++ {
		profits[j] = lo + rng.Int64N(hi-lo+1)
		weights[j] = lo + rng.Int64N(hi-lo+1)
		total += weights[j]
	}
	return profits, weights, int64(float64(total) * ratio)
}

// checkResult verifies that res is a feasible selection with the reported
// profit and weight, and that the profit equals want.
func checkResult(t *testing.T, profits, weights []int64, capacity int64, res *Result, want int64) {
	t.Helper()
	if len(res.Selected) != len(profits) {
		t.Fatalf("len(Selected) = %d, want %d", len(res.Selected), len(profits))
	}
	var p, w int64
	for j, s := range res.Selected {
		if s {
			p += profits[j]
			w += weights[j]
		}
	}
	if p != res.Profit || w != res.Weight {
		t.Fatalf("selection sums (%d, %d) disagree with reported (%d, %d)", p, w, res.Profit, res.Weight)
	}
	if w > capacity {
		t.Fatalf("selection weight %d exceeds capacity %d", w, capacity)
	}
	if res.Profit != want {
		t.Fatalf("profit = %d, want %d", res.Profit, want)
	}
}
