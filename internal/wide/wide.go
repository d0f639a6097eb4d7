// Package wide implements the "wide" rank/select summary: plain
// (unpacked) []uint64/[]uint32 arrays instead of classic/flat's bit-packed
// records, trading memory for simplicity. L1 blocks are 65536 bits, each
// divided into 128 512-bit L2 sub-blocks; l1 holds the absolute
// cumulative stored-bit count at each L1 boundary, l2 holds, per L1
// block, the prefix-sum stored count over its first 127 sub-blocks (the
// 128th implied) so that locating a sub-block is a plain slice binary
// search rather than a bitfield unpack. Grounded on spec §4.6; internal
// structure mirrors internal/flat's with the packed l12 record replaced
// by plain slices, and no Intrinsic strategy (spec's wide variant never
// offers one).
package wide

import (
	"math/bits"

	"github.com/hupe1980/succinct/internal/bitops"
	"github.com/hupe1980/succinct/internal/simd"
)

const (
	L2Bits  = 512
	L1Bits  = 65536
	L2PerL1 = L1Bits / L2Bits // 128
	L2Words = L2Bits / 64     // 8
	L1Words = L1Bits / 64     // 1024

	SampleRate = 8192
)

// Strategy selects the in-block search used to locate the L2 sub-block
// containing a select target.
type Strategy uint8

const (
	Linear Strategy = iota
	Binary
)

// Summary is the wide rank/select index over a fixed bit sequence.
type Summary struct {
	storesZero bool
	n          uint64
	numL1      int
	total      uint64

	l1 []uint64 // len numL1; absolute cumulative stored count at block start
	l2 []uint32 // len numL1*(L2PerL1-1); per-block prefix sums over sub-blocks [0,126]

	samples [2][]uint32
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
	l2          [L2PerL1 - 1]uint32
}

// computeL1Stats runs Build's popcount pass over every L1 block, fanned
// out across workers goroutines via simd.ParallelFor (the realization of
// WithParallelBuild for construction). workers <= 1 runs it inline.
func computeL1Stats(words []uint64, n uint64, storesZero bool, numL1, workers int) []l1Stats {
	stats := make([]l1Stats, numL1)
	simd.ParallelFor(workers, numL1, func(lo, hi int) {
		for l1 := lo; l1 < hi; l1++ {
			var st l1Stats
			var blockOnes, blockBits, run uint64
			for m := 0; m < L2PerL1; m++ {
				bitLen := subBlockBits(l1, m, n)
				var ones uint64
				if bitLen > 0 {
					ones = rangePopcount(words, l1*L1Words+m*L2Words, bitLen)
				}
				blockOnes += ones
				blockBits += bitLen

				var stored uint64
				if storesZero {
					stored = bitLen - ones
				} else {
					stored = ones
				}
				if m < L2PerL1-1 {
					run += stored
					st.l2[m] = uint32(run)
				}
			}
			st.ones = blockOnes
			st.zeros = blockBits - blockOnes
			stats[l1] = st
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
	s.l1 = make([]uint64, s.numL1)
	s.l2 = make([]uint32, s.numL1*(L2PerL1-1))

	stats := computeL1Stats(words, n, storesZero, s.numL1, workers)

	var storedCum, oneCum, zeroCum uint64
	// nextThresh[b] is the occurrence count of bit b that triggers
	// recording the next sample: t=0 covers the 1st occurrence, t=1 the
	// (SampleRate+1)-th, and so on (spec §3). Must start at 1, not
	// SampleRate, or the first SampleRate-1 occurrences never get sampled.
	nextThresh := [2]uint64{1, 1}

	for l1 := 0; l1 < s.numL1; l1++ {
		s.l1[l1] = storedCum
		copy(s.l2[l1*(L2PerL1-1):(l1+1)*(L2PerL1-1)], stats[l1].l2[:])

		oneCum += stats[l1].ones
		zeroCum += stats[l1].zeros
		if storesZero {
			storedCum += stats[l1].zeros
		} else {
			storedCum += stats[l1].ones
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

func (s *Summary) l2At(l1, i int) uint64 {
	return uint64(s.l2[l1*(L2PerL1-1)+i])
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

	r := s.l1[l1]
	if sub > 0 {
		r += s.l2At(l1, sub-1)
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
	storedAbs := s.l1[blk]
	if wantZero == s.storesZero {
		return storedAbs
	}
	return uint64(blk)*L1Bits - storedAbs
}

// SelectBit returns the 0-indexed position of the r-th (1-indexed)
// occurrence of bit value wantZero?0:1, or n if r exceeds that bit's
// total count.
func (s *Summary) SelectBit(words []uint64, strategy Strategy, wantZero bool, r uint64) uint64 {
	b := 1
	if wantZero {
		b = 0
	}
	samples := s.samples[b]

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

func (s *Summary) findSubBlock(l1 int, strategy Strategy, wantZero bool, rLocal uint64) (sub int, before uint64) {
	last := L2PerL1 - 2 // highest stored-prefix index

	cumWantZero := func(i int) uint64 {
		storedPrefix := s.l2At(l1, i)
		covered := subBlockBitsUpTo(l1, i, s.n)
		if wantZero == s.storesZero {
			return storedPrefix
		}
		return covered - storedPrefix
	}

	switch strategy {
	case Binary:
		lo, hi := 0, last
		for lo < hi {
			mid := (lo + hi) / 2
			if cumWantZero(mid) >= rLocal {
				hi = mid
			} else {
				lo = mid + 1
			}
		}
		if cumWantZero(lo) >= rLocal {
			sub = lo
		} else {
			sub = L2PerL1 - 1
		}
	default: // Linear
		sub = 0
		for sub <= last {
			if subBlockBits(l1, sub, s.n) == 0 {
				break
			}
			if cumWantZero(sub) >= rLocal {
				break
			}
			sub++
		}
		if sub > last {
			sub = L2PerL1 - 1
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
func (s *Summary) SpaceUsage() (l1Bytes, l2Bytes, sampleBytes uint64) {
	l1Bytes = uint64(len(s.l1)) * 8
	l2Bytes = uint64(len(s.l2)) * 4
	sampleBytes = uint64(len(s.samples[0])+len(s.samples[1])) * 4
	return
}
