package minknap

import "math/bits"

// int128 is a two's complement signed 128-bit integer. Products of a profit
// or weight sum with an item value need up to 126 bits, and every
// efficiency comparison must be exact.
type int128 struct {
	hi int64
	lo uint64
}

// mul128 returns a*b exactly.
func mul128(a, b int64) int128 {
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = -ua
	}
	if b < 0 {
		ub = -ub
	}
	hi, lo := bits.Mul64(ua, ub)
	r := int128{hi: int64(hi), lo: lo}
	if (a < 0) != (b < 0) {
		r = r.neg()
	}
	return r
}

func (x int128) neg() int128 {
	lo, borrow := bits.Sub64(0, x.lo, 0)
	hi := -x.hi - int64(borrow)
	return int128{hi: hi, lo: lo}
}

func (x int128) sub(y int128) int128 {
	lo, borrow := bits.Sub64(x.lo, y.lo, 0)
	return int128{hi: x.hi - y.hi - int64(borrow), lo: lo}
}

// cmp returns -1, 0 or +1.
func (x int128) cmp(y int128) int {
	switch {
	case x.hi < y.hi:
		return -1
	case x.hi > y.hi:
		return 1
	case x.lo < y.lo:
		return -1
	case x.lo > y.lo:
		return 1
	}
	return 0
}

func (x int128) sign() int {
	switch {
	case x.hi < 0:
		return -1
	case x.hi > 0 || x.lo != 0:
		return 1
	}
	return 0
}

// det returns a1*b2 - a2*b1. For two items, det(p1, w1, p2, w2) > 0 iff
// item 1 is strictly more efficient than item 2.
func det(a1, a2, b1, b2 int64) int128 {
	return mul128(a1, b2).sub(mul128(a2, b1))
}

// mulDiv returns floor(a*b/d) for a, b >= 0, d > 0 and a < d.
func mulDiv(a, b, d int64) int64 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	q, _ := bits.Div64(hi, lo, uint64(d))
	return int64(q)
}
