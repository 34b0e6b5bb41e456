package minknap

import (
	"fmt"

	kerrors "github.com/tamirms/knapsack/errors"
)

// improveSolution makes state v the incumbent.
func (e *engine) improveSolution(v *state) error {
	if v.wsum > e.c {
		return fmt.Errorf("%w: improving with infeasible state (wsum %d > c %d)", kerrors.ErrInvariant, v.wsum, e.c)
	}
	if v.psum <= e.z {
		return fmt.Errorf("%w: state profit %d does not improve %d", kerrors.ErrInvariant, v.psum, e.z)
	}
	e.z = v.psum
	e.zwsum = v.wsum
	e.ovect = v.hist
	e.ovitem = e.vitem
	e.improved = true
	return nil
}

// expandLeft makes sure the item just left of the core is sorted, pulling
// the next pending interval into the sorted window when needed, and returns
// the supporting item for the left side.
func (e *engine) expandLeft() (int64, int64, error) {
	if e.s >= e.fsort {
		return e.items[e.s].p, e.items[e.s].w, nil
	}
	if e.stacks.empty(left) {
		return pMax, wMax, nil
	}
	f, l := e.stacks.pop(left)
	if f < e.ftouch {
		e.ftouch = f
	}
	ps, ws := e.items[f].p, e.items[f].w
	f, l = e.simpReduce(left, f, l)
	if f <= l {
		if err := e.partSort(f, l, 0, sortAll); err != nil {
			return 0, 0, err
		}
		e.fsort = f
		ps, ws = e.items[e.s].p, e.items[e.s].w
	}
	return ps, ws, nil
}

// expandRight is the mirror image of expandLeft.
func (e *engine) expandRight() (int64, int64, error) {
	if e.t <= e.lsort {
		return e.items[e.t].p, e.items[e.t].w, nil
	}
	if e.stacks.empty(right) {
		return pMin, wMin, nil
	}
	f, l := e.stacks.pop(right)
	if l > e.ltouch {
		e.ltouch = l
	}
	pt, wt := e.items[l].p, e.items[l].w
	f, l = e.simpReduce(right, f, l)
	if f <= l {
		if err := e.partSort(f, l, 0, sortAll); err != nil {
			return 0, 0, err
		}
		e.lsort = l
		pt, wt = e.items[e.t].p, e.items[e.t].w
	}
	return pt, wt, nil
}

// reduceSet updates the incumbent from the best feasible state, extends the
// sorted window if the core reached its edge, and drops every state that
// cannot reach z+1 even if the rest of the problem were solved as a linear
// relaxation around the items bracketing the core.
func (e *engine) reduceSet() error {
	if len(e.d) == 0 {
		return nil
	}

	v := findVect(e.d, e.c)
	if v >= 0 && e.d[v].psum > e.z {
		if err := e.improveSolution(&e.d[v]); err != nil {
			return err
		}
	}

	c, z := e.c, e.z+1

	ps, ws, err := e.expandLeft()
	if err != nil {
		return err
	}
	pt, wt, err := e.expandRight()
	if err != nil {
		return err
	}

	// Feasible states may still add items from the right, infeasible ones
	// must remove items from the left.
	rt := det(z, c, pt, wt)
	rs := det(z, c, ps, ws)
	k := 0
	for i := range e.d {
		s := &e.d[i]
		var keep bool
		if i <= v {
			keep = det(s.psum, s.wsum, pt, wt).cmp(rt) >= 0
		} else {
			keep = det(s.psum, s.wsum, ps, ws).cmp(rs) >= 0
		}
		if keep {
			e.d[k] = *s
			k++
		}
	}
	e.d = e.d[:k]

	e.ps, e.ws = ps, ws
	e.pt, e.wt = pt, wt
	return nil
}
