package minknap

// findBreak locates the break item after partial sorting, fixes the break
// solution in the caller's flags, and derives the Dantzig bound and the
// greedy lower bound.
func (e *engine) findBreak() {
	var psum, wsum int64
	c := e.cstar
	i := 0
	for ; i < len(e.items) && wsum+e.items[i].w <= c; i++ {
		e.x[e.items[i].slot] = true
		psum += e.items[i].p
		wsum += e.items[i].w
	}

	e.fsort, e.lsort = e.fpart, e.lpart
	e.ftouch, e.ltouch = e.fpart, e.lpart
	e.b = i
	e.psumb, e.wsumb = psum, wsum
	e.dantzig = psum + mulDiv(c-wsum, e.items[i].p, e.items[i].w)

	r := c - wsum
	for j := i; j < len(e.items); j++ {
		e.x[e.items[j].slot] = false
		if e.items[j].w <= r {
			psum += e.items[j].p
			r -= e.items[j].w
		}
	}

	e.z = psum - 1
	e.zstar = 0
	e.c = e.cstar
}

// hasChance reports whether adding (right) or removing (left) item i can
// lead to a state better than the incumbent. It answers false only when
// every state lies below the supporting line through the item bracketing
// the core on that side.
func (e *engine) hasChance(i int, sd side) bool {
	if len(e.d) == 0 {
		return false
	}
	it := e.items[i]

	if sd == right {
		if e.d[0].wsum <= e.c-it.w {
			return true
		}
		p, w := e.ps, e.ws
		e.stats.PITested++
		pp := it.p - e.z - 1
		ww := it.w - e.c
		r := det(pp, ww, p, w).neg()
		for _, s := range e.d {
			if det(s.psum, s.wsum, p, w).cmp(r) >= 0 {
				return true
			}
		}
	} else {
		if e.d[len(e.d)-1].wsum > e.c+it.w {
			return true
		}
		p, w := e.pt, e.wt
		e.stats.PITested++
		pp := -it.p - e.z - 1
		ww := -it.w - e.c
		r := det(pp, ww, p, w).neg()
		for k := len(e.d) - 1; k >= 0; k-- {
			if det(e.d[k].psum, e.d[k].wsum, p, w).cmp(r) >= 0 {
				return true
			}
		}
	}
	e.stats.PIReduced++
	return false
}

// simpReduce filters a popped interval items[f..l] before it is sorted into
// the core. Items that cannot improve on the incumbent even fractionally
// against the break item are moved away from the sorted window; the
// remaining items are packed next to it. It returns the packed range, which
// is empty (f > l) when every item was reduced.
func (e *engine) simpReduce(sd side, f, l int) (int, int) {
	if len(e.d) == 0 {
		return l + 1, l
	}
	if l < f {
		return f, l
	}

	pb, wb := e.items[e.b].p, e.items[e.b].w
	q := det(e.z+1-e.psumb, e.c-e.wsumb, pb, wb)
	r := q.neg()
	i, j := f, l
	redu := 0
	if sd == left {
		k := e.fsort - 1
		for i <= j {
			if det(e.items[j].p, e.items[j].w, pb, wb).cmp(r) > 0 {
				e.swap(i, j)
				i++
				redu++
			} else {
				e.swap(j, k)
				j--
				k--
			}
		}
		f, l = k+1, e.fsort-1
	} else {
		k := e.lsort + 1
		for i <= j {
			if det(e.items[i].p, e.items[i].w, pb, wb).cmp(q) < 0 {
				e.swap(i, j)
				j--
				redu++
			} else {
				e.swap(i, k)
				i++
				k++
			}
		}
		f, l = e.lsort+1, k-1
	}
	e.stats.SimpReduced += int64(redu)
	return f, l
}
