package minknap

import (
	"fmt"
	"math"

	kerrors "github.com/tamirms/knapsack/errors"
)

// intervalStacks holds the unsorted ranges left behind by partial sorting.
// The left stack collects ranges more efficient than the break item, the
// right stack less efficient ones. The most recently pushed range on either
// side is the one adjacent to the sorted window. Both stacks share a single
// capacity, like two stacks growing toward each other in one array.
type intervalStacks struct {
	left  []interval
	right []interval
	limit int
}

func newIntervalStacks(limit int) intervalStacks {
	return intervalStacks{
		left:  make([]interval, 0, 16),
		right: make([]interval, 0, 16),
		limit: limit,
	}
}

func (st *intervalStacks) push(sd side, f, l int) error {
	if sd == left {
		st.left = append(st.left, interval{f, l})
	} else {
		st.right = append(st.right, interval{f, l})
	}
	if len(st.left)+len(st.right) >= st.limit-1 {
		return fmt.Errorf("%w: %d pending intervals", kerrors.ErrSortStackOverflow, len(st.left)+len(st.right))
	}
	return nil
}

func (st *intervalStacks) empty(sd side) bool {
	if sd == left {
		return len(st.left) == 0
	}
	return len(st.right) == 0
}

func (st *intervalStacks) pop(sd side) (f, l int) {
	var iv interval
	if sd == left {
		iv = st.left[len(st.left)-1]
		st.left = st.left[:len(st.left)-1]
	} else {
		iv = st.right[len(st.right)-1]
		st.right = st.right[:len(st.right)-1]
	}
	return iv.f, iv.l
}

func (st *intervalStacks) reset() {
	st.left = st.left[:0]
	st.right = st.right[:0]
}

// order3 sorts items f, m, l by decreasing efficiency, comparing f with m
// first and touching l only when there are more than two of them.
func (e *engine) order3(f, m, l, d int) {
	if d > 1 {
		if compareItems(e.items[f], e.items[m]) < 0 {
			e.swap(f, m)
		}
		if d > 2 && compareItems(e.items[m], e.items[l]) < 0 {
			e.swap(m, l)
			if compareItems(e.items[f], e.items[m]) < 0 {
				e.swap(f, m)
			}
		}
	}
}

// median selects the median r of the sample items[f1], items[f1+s], ...,
// items[l1] and arranges that items[f1] >= r >= items[l1], so both ends
// bound the scans of the following partition step.
func (e *engine) median(f1, l1, s int) item {
	n := (l1 - f1) / s
	f := f1
	l := f1 + s*n
	k := l
	q := f + s*(n/2)

	var r item
	for {
		d := (l-f+s)/s
		m := f + s*(d/2)
		e.order3(f, m, l, d)
		if d <= 3 {
			r = e.items[q]
			break
		}

		r = e.items[m]
		i, j := f, l
		for {
			for {
				i += s
				if i >= l || compareItems(e.items[i], r) <= 0 {
					break
				}
			}
			for {
				j -= s
				if j <= f || compareItems(e.items[j], r) >= 0 {
					break
				}
			}
			if i > j {
				break
			}
			e.swap(i, j)
		}

		if j <= q && q <= i {
			break
		}
		if i > q {
			l = j
		} else {
			f = i
		}
	}
	e.swap(k, l1)
	return r
}

// partSort partitions items[f..l] by efficiency. ws is the weight of all
// items before f in efficiency order.
//
// In partiate mode only the half containing the capacity boundary is
// refined; the other half is pushed on the matching pending stack. The
// recursion ends in a sorted range of at most three items that contains the
// break item, recorded as [fpart, lpart]. In sortAll mode the whole range is
// sorted.
func (e *engine) partSort(f, l int, ws int64, mode sortMode) error {
	d := l - f + 1
	if d < 1 {
		return fmt.Errorf("%w: negative interval [%d, %d] in partSort", kerrors.ErrInvariant, f, l)
	}

	var pivot item
	if d > minMed {
		pivot = e.median(f, l, int(math.Sqrt(float64(d))))
	} else if d > 1 {
		m := f + d/2
		e.order3(f, m, l, d)
		pivot = e.items[m]
	}

	if d > 3 {
		i, j := f, l
		wi := ws
		for {
			for {
				wi += e.items[i].w
				i++
				if i > l || compareItems(e.items[i], pivot) <= 0 {
					break
				}
			}
			for {
				j--
				if j < f || compareItems(e.items[j], pivot) >= 0 {
					break
				}
			}
			if i > j {
				break
			}
			e.swap(i, j)
		}

		if wi <= e.cstar {
			if mode == sortAll {
				if err := e.partSort(f, i-1, ws, mode); err != nil {
					return err
				}
			} else if err := e.stacks.push(left, f, i-1); err != nil {
				return err
			}
			if err := e.partSort(i, l, wi, mode); err != nil {
				return err
			}
		} else {
			if mode == sortAll {
				if err := e.partSort(i, l, wi, mode); err != nil {
					return err
				}
			} else if err := e.stacks.push(right, i, l); err != nil {
				return err
			}
			if err := e.partSort(f, i-1, ws, mode); err != nil {
				return err
			}
		}
	}

	if d <= 3 || mode == sortAll {
		e.fpart, e.lpart = f, l
	}
	return nil
}
