package succinct

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/succinct/internal/simd"
)

// maxValidateProbes bounds how many positions Validate samples per
// invariant check, so the sweep stays proportional to construction cost
// instead of O(n) on a sequence near MaxBits.
const maxValidateProbes = 4096

// Validate builds classic, flat, and wide rank/select summaries over seq
// and checks the invariants spec §3 requires every variant to satisfy
// against each other and against the raw sequence:
//
//   - rank complementarity: Rank0(i) + Rank1(i) == i at every sampled i
//   - cross-variant agreement: classic, flat, and wide report identical
//     Rank1 at every sampled i, since all three summarize the same bits
//   - rank/select round trip: Select1(Rank1(i)+1) == i at every sampled
//     set bit
//   - each summary's total (Rank1(Len())) matches the sequence's raw
//     popcount, recomputed directly from words
//
// This is an opt-in diagnostic (spec §7's "no recoverable error path"
// applies to Rank/Select themselves, not to this sweep), grounded in the
// teacher's internal/bitset test style of asserting invariants directly
// rather than via mocks. When WithParallelBuild(workers) is supplied,
// both the three summaries' construction and the raw ground-truth
// popcount pass are sharded across workers goroutines.
func Validate(seq *BitSeq, opts ...Option) error {
	o := applyOptions(opts)
	n := seq.Len()
	want := rawPopcount(seq.Words(), n, o.parallelWorkers)

	cls := NewClassicRankSelect[OptForOne](seq, opts...)
	flt := NewFlatRankSelect[OptForOne, Linear](seq, opts...)
	wd := NewWideRankSelect[OptForOne, Linear](seq, opts...)

	if got := cls.Rank1(n); got != want {
		return fmt.Errorf("succinct: validate: classic total rank1 %d != raw popcount %d", got, want)
	}
	if got := flt.Rank1(n); got != want {
		return fmt.Errorf("succinct: validate: flat total rank1 %d != raw popcount %d", got, want)
	}
	if got := wd.Rank1(n); got != want {
		return fmt.Errorf("succinct: validate: wide total rank1 %d != raw popcount %d", got, want)
	}

	for _, i := range validateProbes(n) {
		c1, f1, w1 := cls.Rank1(i), flt.Rank1(i), wd.Rank1(i)
		if f1 != c1 {
			return fmt.Errorf("succinct: validate: flat rank1(%d)=%d disagrees with classic %d", i, f1, c1)
		}
		if w1 != c1 {
			return fmt.Errorf("succinct: validate: wide rank1(%d)=%d disagrees with classic %d", i, w1, c1)
		}
		if got := c1 + cls.Rank0(i); got != i {
			return fmt.Errorf("succinct: validate: rank0(%d)+rank1(%d) = %d != %d", i, i, got, i)
		}

		if i < n && seq.Get(i) {
			r := c1 + 1
			if got := cls.Select1(r); got != i {
				return fmt.Errorf("succinct: validate: select1(rank1(%d)+1)=%d != %d", i, got, i)
			}
		}
	}

	return nil
}

// validateProbes returns a bounded, evenly spaced set of positions in
// [0, n], always including both endpoints.
func validateProbes(n uint64) []uint64 {
	if n == 0 {
		return []uint64{0}
	}
	stride := (n + maxValidateProbes - 1) / maxValidateProbes
	if stride == 0 {
		stride = 1
	}
	probes := make([]uint64, 0, maxValidateProbes+2)
	for i := uint64(0); i <= n; i += stride {
		probes = append(probes, i)
	}
	if probes[len(probes)-1] != n {
		probes = append(probes, n)
	}
	return probes
}

// rawPopcount recomputes the sequence's total set-bit count directly
// from its backing words, sharding the full-word range across workers
// goroutines via simd.ParallelFor when workers > 1.
func rawPopcount(words []uint64, n uint64, workers int) uint64 {
	full := n / 64
	tailBits := n % 64

	var total uint64
	simd.ParallelFor(workers, int(full), func(lo, hi int) {
		atomic.AddUint64(&total, simd.PopcountWords(words[lo:hi]))
	})

	if tailBits > 0 {
		masked := words[full] & (uint64(1)<<tailBits - 1)
		total += simd.PopcountWords([]uint64{masked})
	}
	return total
}
