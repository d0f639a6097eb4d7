package succinct

// searchStrategy identifies which in-block L2 search algorithm a
// SearchPolicy tag selects (spec §4.5.3, §4.6 step 4).
type searchStrategy uint8

const (
	strategyLinear searchStrategy = iota
	strategyBinary
	strategyIntrinsic
)

// SearchPolicy is a compile-time tag selecting the in-block L2 search
// strategy used by a select index's final localization step. All
// strategies must produce bit-identical results for every valid input
// (spec property P6); which one is fastest depends on the target
// platform and is a pure performance trade-off, never a correctness one.
type SearchPolicy interface {
	strategy() searchStrategy
}

// Linear scans the L2 prefix fields one at a time (spec §4.5.3, §4.6
// step 4). Portable, at most 7 (flat) or 127 (wide) iterations.
type Linear struct{}

func (Linear) strategy() searchStrategy { return strategyLinear }

// Binary runs a loop-based binary search over the L2 prefix fields (spec
// §4.5.3, §4.6 step 4); it is not an unrolled decision tree. Portable, at
// most 3 (flat) or 7 (wide) halving steps, followed by one final check of
// the chosen field.
type Binary struct{}

func (Binary) strategy() searchStrategy { return strategyBinary }

// Intrinsic evaluates all seven stored L2 prefix comparisons
// unconditionally, packs the results into a lane mask, and extracts the
// first hit with a single trailing-zero count — the compare-all-lanes,
// movemask, tzcnt shape a real SSSE3/NEON compare-and-shuffle kernel
// uses, rendered in portable Go since no assembly ships in this module.
// It is a compile-time SearchPolicy choice, not something ActiveISA
// gates at runtime: unlike the in-block popcount kernel (spec §6/§9),
// there is no spare guard-bit budget in the flat 128-bit packed record
// for a literal SIMD packed-lane compare. Flat-select only (spec
// §4.5.3); see WideSearchPolicy.
type Intrinsic struct{}

func (Intrinsic) strategy() searchStrategy { return strategyIntrinsic }

// WideSearchPolicy restricts wide rank/select to the two strategies spec
// §4.6 defines for it; Intrinsic is a flat-select-only concept (its byte
// shuffle is defined over the flat 128-bit packed record, which the wide
// summary does not use).
type WideSearchPolicy interface {
	SearchPolicy
	wideCompatible()
}

func (Linear) wideCompatible() {}
func (Binary) wideCompatible() {}
