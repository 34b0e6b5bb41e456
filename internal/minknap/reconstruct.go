package minknap

import (
	"fmt"

	kerrors "github.com/tamirms/knapsack/errors"
)

// defineSolution applies the incumbent's remembered decisions to the
// caller's flags and undoes them on the incumbent's sums. If that leads back
// exactly to the break solution, every flip was remembered and the flags
// now hold an optimal solution. Otherwise some decisions were rotated out of
// the history; the window is narrowed to the items between the innermost
// remembered items and the engine is prepared to search that window for the
// remaining flips.
func (e *engine) defineSolution() error {
	if !e.improved {
		return fmt.Errorf("%w: round %d ended without a feasible incumbent", kerrors.ErrInvariant, e.stats.Rounds)
	}
	if e.firstTime {
		e.zstar = e.z
		e.firstTime = false
	}

	psum, wsum := e.z, e.zwsum
	f, l := e.fsort-1, e.lsort+1

	for j := 0; j < e.cfg.HistoryLen; j++ {
		i := e.ovitem[j]
		if i < 0 {
			continue
		}
		it := e.items[i]
		flipped := e.ovect[j]
		if e.x[it.slot] {
			if i > f {
				f = i
			}
			if flipped {
				psum += it.p
				wsum += it.w
				e.x[it.slot] = false
			}
		} else {
			if i < l {
				l = i
			}
			if flipped {
				psum -= it.p
				wsum -= it.w
				e.x[it.slot] = true
			}
		}
	}
	e.wellDef = psum == e.psumb && wsum == e.wsumb
	if e.wellDef {
		return nil
	}

	if f+1 <= e.fsort && l-1 >= e.lsort {
		return fmt.Errorf("%w: reconstruction window [%d, %d] did not shrink", kerrors.ErrInvariant, e.fsort, e.lsort)
	}
	e.fsort = f + 1
	e.lsort = l - 1
	e.stacks.reset()
	e.c = wsum
	e.z = psum - 1
	e.ub = psum
	return nil
}
