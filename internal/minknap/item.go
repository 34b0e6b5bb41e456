package minknap

// item is one entry of the internal item table. slot is the index of the
// item in the caller's input and output arrays.
type item struct {
	p    int64
	w    int64
	slot int
}

// interval is an unsorted range items[f..l] waiting on a pending stack.
type interval struct {
	f, l int
}

// compareItems orders items by decreasing efficiency: it returns +1 when a is
// strictly more efficient than b, -1 when strictly less, 0 on ties.
func compareItems(a, b item) int {
	return det(a.p, a.w, b.p, b.w).sign()
}

func (e *engine) swap(i, j int) {
	e.items[i], e.items[j] = e.items[j], e.items[i]
}

// copyProblem builds the internal item table.
func copyProblem(profits, weights []int64, slots []int) []item {
	items := make([]item, len(slots))
	for i, s := range slots {
		items[i] = item{p: profits[s], w: weights[s], slot: s}
	}
	return items
}
