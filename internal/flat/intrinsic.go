package flat

import "math/bits"

// intrinsicFind locates the L2 sub-block containing rLocal by evaluating
// all seven stored prefix comparisons unconditionally and packing the
// results into a lane mask, then extracting the first hit with a single
// trailing-zero count — the same compare-all-lanes, movemask, tzcnt
// shape a real SSSE3/NEON compare-and-shuffle kernel uses, rendered in
// portable Go since no assembly ships in this module. Must return
// exactly what Linear and Binary return for every input (spec §4.5.3's
// strategy-agreement property).
func intrinsicFind(rec l12, l1 int, n uint64, wantZero, storesZero bool, rLocal uint64) int {
	var mask uint8
	for i := 0; i < 7; i++ {
		if subBlockBits(l1, i, n) == 0 {
			continue
		}
		storedPrefix := rec.L2(i)
		covered := subBlockBitsUpTo(l1, i, n)

		var cum uint64
		if wantZero == storesZero {
			cum = storedPrefix
		} else {
			cum = covered - storedPrefix
		}
		if cum >= rLocal {
			mask |= 1 << uint(i)
		}
	}
	if mask == 0 {
		return 7
	}
	return bits.TrailingZeros8(mask)
}
