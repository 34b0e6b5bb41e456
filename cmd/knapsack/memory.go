package main

import (
	"runtime"
	"runtime/metrics"
	"sync/atomic"
	"syscall"
	"time"
)

// getMaxRSS returns the peak resident set size of the process in bytes.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// Linux reports kilobytes, macOS bytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// memSampler tracks peak heap and RSS every 10ms. runtime/metrics avoids the
// stop-the-world pause of ReadMemStats.
type memSampler struct {
	baseHeap uint64
	baseRSS  uint64
	peakHeap atomic.Uint64
	peakRSS  atomic.Uint64
	done     chan struct{}
	stopped  chan struct{}
}

func startMemSampler() *memSampler {
	runtime.GC()
	m := &memSampler{
		baseHeap: heapBytes(),
		baseRSS:  getMaxRSS(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	m.peakHeap.Store(m.baseHeap)
	m.peakRSS.Store(m.baseRSS)
	go m.loop()
	return m
}

func (m *memSampler) loop() {
	defer close(m.stopped)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *memSampler) sample() {
	storeMax(&m.peakHeap, heapBytes())
	storeMax(&m.peakRSS, getMaxRSS())
}

// stop ends sampling and returns the peak growth over the baseline.
func (m *memSampler) stop() (heap, rss uint64) {
	close(m.done)
	<-m.stopped
	m.sample()
	return m.peakHeap.Load() - m.baseHeap, m.peakRSS.Load() - m.baseRSS
}

func heapBytes() uint64 {
	s := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
	metrics.Read(s)
	return s[0].Value.Uint64()
}

func storeMax(v *atomic.Uint64, x uint64) {
	for {
		old := v.Load()
		if x <= old || v.CompareAndSwap(old, x) {
			return
		}
	}
}
