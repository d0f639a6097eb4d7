// Package flat implements the "flat" rank/select summary: a single level
// of 4096-bit L1 blocks, each packed into one 128-bit record holding a
// 40-bit absolute cumulative count plus seven 12-bit prefix sums over the
// block's eight 512-bit L2 sub-blocks (the eighth implied). Unlike
// classic there is no outer L0 level — 40 bits already covers BitSeq's
// full MaxBits range, so one flat array suffices. Grounded on spec
// §4.5.1-§4.5.4; the packed-record shape is internal/classic's l12
// record widened to a single 128-bit word, and the select-strategy
// dispatch mirrors internal/simd's kernel-indirection idiom.
package flat

import (
	"math/bits"

	"github.com/hupe1980/succinct/internal/bitops"
	"github.com/hupe1980/succinct/internal/simd"
)

const (
	L2Bits = 512
	L1Bits = 8 * L2Bits // 4096
	L2Words = L2Bits / 64 // 8
	L1Words = L1Bits / 64 // 64

	SampleRate = 8192

	l1Mask = (uint64(1) << 40) - 1
	l2Mask = uint64(0xfff)
)

// Strategy selects the in-block search used to locate the L2 sub-block
// containing a select target (spec §4.5.3). All three strategies must
// agree bit-for-bit; Strategy only changes how the answer is found.
type Strategy uint8

const (
	Linear Strategy = iota
	Binary
	Intrinsic
)

// l12 packs one L1 block's summary into 128 bits: l1 (40 bits, absolute
// cumulative stored-bit count) in the low bits of lo, followed by seven
// 12-bit l2 prefix-sum fields: two in the top 24 bits of lo, five in the
// low 60 bits of hi.
type l12 struct {
	lo, hi uint64
}

func packL12(l1 uint64, l2 [7]uint16) l12 {
	lo := (l1 & l1Mask) | (uint64(l2[0])&l2Mask)<<40 | (uint64(l2[1])&l2Mask)<<52
	hi := (uint64(l2[2]) & l2Mask) |
		(uint64(l2[3])&l2Mask)<<12 |
		(uint64(l2[4])&l2Mask)<<24 |
		(uint64(l2[5])&l2Mask)<<36 |
		(uint64(l2[6])&l2Mask)<<48
	return l12{lo: lo, hi: hi}
}

func (r l12) L1() uint64 {
	return r.lo & l1Mask
}

// L2 returns the prefix-sum popcount over sub-blocks [0, i] for i in
// [0, 6]; the 8th sub-block's contribution is never stored explicitly.
func (r l12) L2(i int) uint64 {
	switch i {
	case 0:
		return (r.lo >> 40) & l2Mask
	case 1:
		return (r.lo >> 52) & l2Mask
	default:
		return (r.hi >> uint((i-2)*12)) & l2Mask
	}
}

// Summary is the flat rank/select index over a fixed bit sequence.
type Summary struct {
	storesZero bool
	n          uint64
	numL1      int
	total      uint64 // stored-polarity count across the whole sequence

	l12 []l12

	samples [2][]uint32 // samples[b][t] = L1 block containing the (t*SampleRate+1)-th bit b
}

func numBlocks(n, blockBits uint64) int {
	if n == 0 {
		return 0
	}
	return int((n-1)/blockBits) + 1
}

func subBlockBits(l1Idx, subIdx int, n uint64) uint64 {
	blockStart := uint64(l1Idx)*L1Bits + uint64(subIdx)*L2Bits
	if blockStart >= n {
		return 0
	}
	rem := n - blockStart
	if rem > L2Bits {
		return L2Bits
	}
	return rem
}

func rangePopcount(words []uint64, wordStart int, bitLen uint64) uint64 {
	fullWords := bitLen / 64
	tail := bitLen % 64
	var c uint64
	if fullWords > 0 {
		c += simd.PopcountWords(words[wordStart : wordStart+int(fullWords)])
	}
	if tail > 0 {
		masked := words[wordStart+int(fullWords)] & (uint64(1)<<tail - 1)
		c += uint64(bits.OnesCount64(masked))
	}
	return c
}

// l1Stats holds the per-L1-block popcount results computed in Build's
// first pass: these depend only on the block's own bits, never on any
// running cumulative state, so computing them is embarrassingly
// parallel across blocks.
type l1Stats struct {
	ones, zeros uint64
	l2Prefix    [7]uint16
}

// computeL1Stats runs Build's popcount pass over every L1 block, fanned
// out across workers goroutines via simd.ParallelFor (the realization of
// WithParallelBuild for construction). workers <= 1 runs it inline.
func computeL1Stats(words []uint64, n uint64, storesZero bool, numL1, workers int) []l1Stats {
	stats := make([]l1Stats, numL1)
	simd.ParallelFor(workers, numL1, func(lo, hi int) {
		for l1 := lo; l1 < hi; l1++ {
			var ones [8]uint64
			for m := 0; m < 8; m++ {
				bitLen := subBlockBits(l1, m, n)
				if bitLen == 0 {
					continue
				}
				ones[m] = rangePopcount(words, l1*L1Words+m*L2Words, bitLen)
			}

			var blockOnes, blockBits uint64
			for m := 0; m < 8; m++ {
				blockOnes += ones[m]
				blockBits += subBlockBits(l1, m, n)
			}
			blockZeros := blockBits - blockOnes

			var stored [8]uint64
			for m := 0; m < 8; m++ {
				sub := subBlockBits(l1, m, n)
				if storesZero {
					stored[m] = sub - ones[m]
				} else {
					stored[m] = ones[m]
				}
			}

			var l2Prefix [7]uint16
			var run uint64
			for m := 0; m < 7; m++ {
				run += stored[m]
				l2Prefix[m] = uint16(run)
			}

			stats[l1] = l1Stats{ones: blockOnes, zeros: blockZeros, l2Prefix: l2Prefix}
		}
	})
	return stats
}

// Build constructs a Summary for a bit sequence of n bits backed by
// words. storesZero picks which polarity's counts are stored directly.
// workers fans the per-L1-block popcount pass (computeL1Stats) out
// across that many goroutines; the remaining cumulative-sum/sample
// bookkeeping pass is cheap and stays sequential.
func Build(words []uint64, n uint64, storesZero bool, workers int) *Summary {
	s := &Summary{
		storesZero: storesZero,
		n:          n,
		numL1:      numBlocks(n, L1Bits),
	}
	s.l12 = make([]l12, s.numL1)

	stats := computeL1Stats(words, n, storesZero, s.numL1, workers)

	var storedCum, oneCum, zeroCum uint64
	// nextThresh[b] is the occurrence count of bit b that triggers
	// recording the next sample: t=0 covers the 1st occurrence, t=1 the
	// (SampleRate+1)-th, and so on (spec §3). Must start at 1, not
	// SampleRate, or the first SampleRate-1 occurrences never get sampled.
	nextThresh := [2]uint64{1, 1}

	for l1 := 0; l1 < s.numL1; l1++ {
		st := stats[l1]
		s.l12[l1] = packL12(storedCum, st.l2Prefix)

		oneCum += st.ones
		zeroCum += st.zeros
		if storesZero {
			storedCum += st.zeros
		} else {
			storedCum += st.ones
		}

		for nextThresh[1] <= oneCum {
			s.samples[1] = append(s.samples[1], uint32(l1))
			nextThresh[1] += SampleRate
		}
		for nextThresh[0] <= zeroCum {
			s.samples[0] = append(s.samples[0], uint32(l1))
			nextThresh[0] += SampleRate
		}
	}

	s.total = storedCum
	return s
}

// RankStored returns the count of the stored-polarity bit among the
// first i bits; callers derive the complement via i - RankStored(i).
func (s *Summary) RankStored(words []uint64, i uint64) uint64 {
	if i == 0 {
		return 0
	}
	if i == s.n {
		return s.total
	}

	l1 := int(i / L1Bits)
	sub := int((i % L1Bits) / L2Bits)

	r := s.l12[l1].L1()
	if sub > 0 {
		r += s.l12[l1].L2(sub - 1)
	}

	off := l1*L1Words + sub*L2Words
	bitOff := i % L2Bits
	fullWords := bitOff / 64
	if fullWords > 0 {
		if s.storesZero {
			r += simd.PopcountZerosWords(words[off : off+int(fullWords)])
		} else {
			r += simd.PopcountWords(words[off : off+int(fullWords)])
		}
	}
	tail := bitOff % 64
	if tail > 0 {
		masked := words[off+int(fullWords)] & (uint64(1)<<tail - 1)
		ones := uint64(bits.OnesCount64(masked))
		if s.storesZero {
			r += tail - ones
		} else {
			r += ones
		}
	}
	return r
}

func (s *Summary) countAtL1Start(blk int, wantZero bool) uint64 {
	storedAbs := s.l12[blk].L1()
	if wantZero == s.storesZero {
		return storedAbs
	}
	return uint64(blk)*L1Bits - storedAbs
}

// SelectBit returns the 0-indexed position of the r-th (1-indexed)
// occurrence of bit value wantZero?0:1, or n if r exceeds that bit's
// total count. strategy picks how the in-block L2 search is performed;
// all three must agree.
func (s *Summary) SelectBit(words []uint64, strategy Strategy, wantZero bool, r uint64) uint64 {
	b := 1
	if wantZero {
		b = 0
	}
	samples := s.samples[b]

	// No sample exists when the whole sequence has fewer than
	// SampleRate occurrences of this bit; fall back to block 0.
	l1 := 0
	if len(samples) > 0 {
		idx := (r - 1) / SampleRate
		if idx >= uint64(len(samples)) {
			idx = uint64(len(samples)) - 1
		}
		l1 = int(samples[idx])
	}

	for l1+1 < s.numL1 && s.countAtL1Start(l1+1, wantZero) < r {
		l1++
	}
	total := s.total
	if wantZero != s.storesZero {
		total = s.n - s.total
	}
	if l1 >= s.numL1 || r > total {
		return s.n
	}
	rLocal := r - s.countAtL1Start(l1, wantZero)

	sub, before := s.findSubBlock(l1, strategy, wantZero, rLocal)
	localRemaining := rLocal - before

	off := l1*L1Words + sub*L2Words
	return bitops.ScanSelect(words, off, wantZero, localRemaining)
}

// findSubBlock returns the sub-block index (0..7) containing the rLocal
// -th occurrence within L1 block l1, and the count of that bit before
// the sub-block.
func (s *Summary) findSubBlock(l1 int, strategy Strategy, wantZero bool, rLocal uint64) (sub int, before uint64) {
	rec := s.l12[l1]

	cumWantZero := func(i int) uint64 {
		// cumulative wantZero-count over sub-blocks [0, i], i in [0,6]
		storedPrefix := rec.L2(i)
		coveredBits := subBlockBitsUpTo(l1, i, s.n)
		if wantZero == s.storesZero {
			return storedPrefix
		}
		return coveredBits - storedPrefix
	}

	switch strategy {
	case Binary:
		lo, hi := 0, 6
		for lo < hi {
			mid := (lo + hi) / 2
			if cumWantZero(mid) >= rLocal {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		if cumWantZero(lo) >= rLocal && subBlockBits(l1, lo, s.n) > 0 {
			sub = lo
		} else {
			sub = 7
		}
	case Intrinsic:
		sub = intrinsicFind(rec, l1, s.n, wantZero, s.storesZero, rLocal)
	default: // Linear
		sub = 0
		for sub < 7 {
			if subBlockBits(l1, sub, s.n) == 0 {
				break
			}
			if cumWantZero(sub) >= rLocal {
				break
			}
			sub++
		}
	}

	if sub == 0 {
		before = 0
	} else {
		before = cumWantZero(sub - 1)
	}
	return sub, before
}

func subBlockBitsUpTo(l1, i int, n uint64) uint64 {
	var total uint64
	for m := 0; m <= i; m++ {
		total += subBlockBits(l1, m, n)
	}
	return total
}

// SpaceUsage returns the byte footprint of the summary arrays.
func (s *Summary) SpaceUsage() (l12Bytes, sampleBytes uint64) {
	l12Bytes = uint64(len(s.l12)) * 16
	sampleBytes = uint64(len(s.samples[0])+len(s.samples[1])) * 4
	return
}
