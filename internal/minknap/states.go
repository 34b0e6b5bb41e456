package minknap

import (
	"fmt"

	kerrors "github.com/tamirms/knapsack/errors"
)

// history is a ring of item decisions. Flag k refers to the item recorded in
// slot k of the engine's vitem ring. A slot is reused after HistoryLen
// multiplications, at which point the older decision is forgotten and can
// only be recovered by solving the narrowed problem again.
type history [MaxHistoryLen]bool

func (h history) with(slot int, taken bool) history {
	h[slot] = taken
	return h
}

// state is a partial solution: the sums of the break solution with some
// core items flipped. On the left of the break item a set flag means the
// item was removed, on the right that it was added.
type state struct {
	psum int64
	wsum int64
	hist history
}

// findVect returns the index of the last state with wsum <= ws, or -1 when
// every state is heavier. The set must be non-empty and sorted by wsum.
func findVect(set []state, ws int64) int {
	f, l := 0, len(set)-1
	if set[f].wsum > ws {
		return -1
	}
	if set[l].wsum <= ws {
		return l
	}
	for l-f > syncLen {
		m := f + (l-f)/2
		if set[m].wsum > ws {
			l = m - 1
		} else {
			f = m
		}
	}
	for set[l].wsum > ws {
		l--
	}
	return l
}

// initVect clears the decision history bookkeeping for a new round.
func (e *engine) initVect() {
	for i := range e.vitem {
		e.vitem[i] = -1
	}
	e.vno = e.cfg.HistoryLen - 1
}

// initFirst resets the state set to the single break solution state.
func (e *engine) initFirst(ps, ws int64) {
	e.d = append(e.d[:0], state{psum: ps, wsum: ws})
}

// multiply merges the state set with a copy of itself in which item h is
// flipped, keeping only the dominance frontier. Both copies are sorted by
// weight, so a single merge pass suffices. On equal weights the higher
// profit wins, and a state is only kept when its profit strictly exceeds
// that of every lighter state.
func (e *engine) multiply(h int, sd side) error {
	if len(e.d) == 0 {
		return nil
	}
	p, w := e.items[h].p, e.items[h].w
	if sd == left {
		p, w = -p, -w
	}
	if 2*len(e.d)+2 > e.cfg.MaxStates {
		return fmt.Errorf("%w: %d states before multiply, limit %d",
			kerrors.ErrStateSpaceExhausted, len(e.d), e.cfg.MaxStates)
	}

	e.vno++
	if e.vno == e.cfg.HistoryLen {
		e.vno = 0
	}
	slot := e.vno
	e.vitem[slot] = h

	set := e.d
	n := len(set)
	out := e.spare[:0]
	i, j := 0, 0
	for i < n || j < n {
		var cand state
		if j == n || (i < n && set[i].wsum <= set[j].wsum+w) {
			cand = state{psum: set[i].psum, wsum: set[i].wsum, hist: set[i].hist.with(slot, false)}
			i++
		} else {
			cand = state{psum: set[j].psum + p, wsum: set[j].wsum + w, hist: set[j].hist.with(slot, true)}
			j++
		}
		if len(out) == 0 {
			out = append(out, cand)
			continue
		}
		k := len(out) - 1
		if cand.psum > out[k].psum {
			if cand.wsum > out[k].wsum {
				out = append(out, cand)
			} else {
				out[k] = cand
			}
		}
	}

	e.spare = set
	e.d = out
	e.stats.CoreSize++
	e.stats.StatesVisited += int64(len(out))
	if len(out) > e.stats.MaxStates {
		e.stats.MaxStates = len(out)
	}
	return nil
}
