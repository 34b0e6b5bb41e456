package knapsack

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

// randomTestInstance draws n items with values in [1, maxValue] and a
// capacity of half the total weight.
func randomTestInstance(rng *rand.Rand, n int, maxValue int64) *Instance {
	inst := &Instance{
		Profits: make([]int64, n),
		Weights: make([]int64, n),
	}
	for i := range n {
		inst.Profits[i] = 1 + rng.Int64N(maxValue)
		inst.Weights[i] = 1 + rng.Int64N(maxValue)
	}
	inst.Capacity = inst.TotalWeight() / 2
	return inst
}

func equalInstances(a, b *Instance) bool {
	if a.Capacity != b.Capacity || a.Len() != b.Len() {
		return false
	}
	for i := range a.Profits {
		if a.Profits[i] != b.Profits[i] || a.Weights[i] != b.Weights[i] {
			return false
		}
	}
	return true
}
