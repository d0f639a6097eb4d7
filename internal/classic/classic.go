// Package classic implements the "classic" rank/select summary: L0 blocks
// of 2^31 bits, each holding L1 blocks of 2048 bits, each packed into a
// single 64-bit record (l1: 32-bit cumulative count within the L0 block,
// l2[0..2]: three 10-bit raw popcounts of the block's first three 512-bit
// L2 sub-blocks, the fourth implied). Grounded directly on spec §4.3/§4.4
// — no teacher file builds a multi-level rank/select summary, so the
// control flow follows the spec pseudocode while the word-accumulation
// style (4-wide unrolled popcount, running accumulators) is carried over
// from internal/bitset's summary pass.
package classic

import (
	"github.com/hupe1980/succinct/internal/bitops"
	"github.com/hupe1980/succinct/internal/simd"
)

const (
	L2Bits = 512
	L1Bits = 4 * L2Bits // 2048
	L0Bits = 1 << 31
	L2Words = L2Bits / 64 // 8
	L1Words = L1Bits / 64 // 32
	L0PerL1 = L0Bits / L1Bits

	// SampleRate is the select sample spacing: the 1st, (SampleRate+1)-th,
	// (2*SampleRate+1)-th, ... occurrence of a bit value within an L0
	// block records the L1 block containing it.
	SampleRate = 8192
)

// l12 packs one L1 block's summary into 64 bits: l1 in the low 32 bits,
// three 10-bit l2 fields above it.
type l12 uint64

func packL12(l1 uint32, l2 [3]uint16) l12 {
	v := uint64(l1)
	v |= uint64(l2[0]&0x3ff) << 32
	v |= uint64(l2[1]&0x3ff) << 42
	v |= uint64(l2[2]&0x3ff) << 52
	return l12(v)
}

func (r l12) L1() uint64 {
	return uint64(r) & 0xffffffff
}

func (r l12) L2(i int) uint64 {
	return (uint64(r) >> uint(32+10*i)) & 0x3ff
}

// Summary is the classic three-level (L0/L1/L2) rank/select index over a
// fixed bit sequence. It stores cumulative counts of one polarity ("stored") plus
// two independently sampled select arrays, one per bit value, so that
// both Select(0, ...) and Select(1, ...) run in O(1) regardless of which
// polarity was chosen to minimize storage.
type Summary struct {
	storesZero bool
	n          uint64
	numL0      int
	numL1      int

	l0  []uint64 // len numL0+1; l0[k] = stored-count in first min(k*L0Bits, n) bits
	l12 []l12

	samples    [2][]uint32 // samples[b][t] = L1 block containing the (t*SampleRate+1)-th bit b
	samplesPos [2][]uint32 // len numL0+1; per-L0-block start offset into samples[b]
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
		c += uint64(popcount64(masked))
	}
	return c
}

func popcount64(w uint64) int {
	c := 0
	for w != 0 {
		w &= w - 1
		c++
	}
	return c
}

// l1Stats holds the per-L1-block popcount results computed in Build's
// first pass: these depend only on the block's own bits, never on any
// running cumulative state, so computing them is embarrassingly
// parallel across blocks.
type l1Stats struct {
	ones, zeros uint64
	l2Stored    [3]uint16
}

// computeL1Stats runs Build's popcount pass over every L1 block, fanned
// out across workers goroutines via simd.ParallelFor (the realization of
// WithParallelBuild for construction). workers <= 1 runs it inline.
func computeL1Stats(words []uint64, n uint64, storesZero bool, numL1, workers int) []l1Stats {
	stats := make([]l1Stats, numL1)
	simd.ParallelFor(workers, numL1, func(lo, hi int) {
		for l1 := lo; l1 < hi; l1++ {
			var l2Ones [4]uint64
			for m := 0; m < 4; m++ {
				bitLen := subBlockBits(l1, m, n)
				if bitLen == 0 {
					continue
				}
				l2Ones[m] = rangePopcount(words, l1*L1Words+m*L2Words, bitLen)
			}

			blockOnes := l2Ones[0] + l2Ones[1] + l2Ones[2] + l2Ones[3]
			blockBits := subBlockBits(l1, 0, n) + subBlockBits(l1, 1, n) + subBlockBits(l1, 2, n) + subBlockBits(l1, 3, n)
			blockZeros := blockBits - blockOnes

			var l2Stored [3]uint16
			for m := 0; m < 3; m++ {
				if storesZero {
					sub := subBlockBits(l1, m, n)
					l2Stored[m] = uint16(sub - l2Ones[m])
				} else {
					l2Stored[m] = uint16(l2Ones[m])
				}
			}

			stats[l1] = l1Stats{ones: blockOnes, zeros: blockZeros, l2Stored: l2Stored}
		}
	})
	return stats
}

// Build constructs a Summary over words (spec §4.2's word layout) for a
// bit sequence of n logical bits. storesZero selects which polarity's
// counts the L0/L12 levels store directly; the other is always derived
// via subtraction at rank time, or the block-level complement formula at
// select time (spec §4.3/§4.4). workers fans the per-L1-block popcount
// pass (computeL1Stats) out across that many goroutines; the remaining
// cumulative-sum/sample bookkeeping pass is cheap and stays sequential.
func Build(words []uint64, n uint64, storesZero bool, workers int) *Summary {
	s := &Summary{
		storesZero: storesZero,
		n:          n,
		numL0:      numBlocks(n, L0Bits),
		numL1:      numBlocks(n, L1Bits),
	}
	s.l0 = make([]uint64, s.numL0+1)
	s.l12 = make([]l12, s.numL1)
	s.samplesPos[0] = make([]uint32, s.numL0+1)
	s.samplesPos[1] = make([]uint32, s.numL0+1)

	stats := computeL1Stats(words, n, storesZero, s.numL1, workers)

	var storedCum, oneCum, zeroCum uint64
	l0Idx := 0
	l0Running := uint64(0)
	// nextThresh[b] is the occurrence count of bit b (relative to the
	// start of the current L0 block) that triggers recording the next
	// sample: t=0 covers the 1st occurrence, t=1 the (SampleRate+1)-th,
	// and so on (spec §3: samples_b[t] records the (t*SampleRate+1)-th
	// occurrence). It must start at 1, not SampleRate, or the first
	// SampleRate-1 occurrences of a block never get a sample at all.
	nextThresh := [2]uint64{1, 1}
	oneAtL0Start, zeroAtL0Start := uint64(0), uint64(0)

	for l1 := 0; l1 < s.numL1; l1++ {
		if l1 > 0 && l1%L0PerL1 == 0 {
			l0Idx++
			s.l0[l0Idx] = storedCum
			l0Running = storedCum
			s.samplesPos[0][l0Idx] = uint32(len(s.samples[0]))
			s.samplesPos[1][l0Idx] = uint32(len(s.samples[1]))
			oneAtL0Start, zeroAtL0Start = oneCum, zeroCum
			nextThresh = [2]uint64{1, 1}
		}

		st := stats[l1]
		s.l12[l1] = packL12(uint32(storedCum-l0Running), st.l2Stored)

		oneCum += st.ones
		zeroCum += st.zeros
		if storesZero {
			storedCum += st.zeros
		} else {
			storedCum += st.ones
		}

		for nextThresh[1] <= oneCum-oneAtL0Start {
			s.samples[1] = append(s.samples[1], uint32(l1))
			nextThresh[1] += SampleRate
		}
		for nextThresh[0] <= zeroCum-zeroAtL0Start {
			s.samples[0] = append(s.samples[0], uint32(l1))
			nextThresh[0] += SampleRate
		}
	}

	s.l0[s.numL0] = storedCum
	s.samplesPos[0][s.numL0] = uint32(len(s.samples[0]))
	s.samplesPos[1][s.numL0] = uint32(len(s.samples[1]))

	return s
}

// RankStored returns the count of the stored-polarity bit among the
// first i bits. Callers derive the complementary polarity's rank via
// i - RankStored(i), valid globally (spec §4.3: "rank_0(i) = i -
// rank_1(i) in all variants").
func (s *Summary) RankStored(words []uint64, i uint64) uint64 {
	if i == 0 {
		return 0
	}
	if i == s.n {
		return s.l0[s.numL0]
	}
	l0 := int(i / L0Bits)
	l1 := int(i / L1Bits)
	sub := int((i % L1Bits) / L2Bits)

	r := s.l0[l0] + s.l12[l1].L1()
	for k := 0; k < sub; k++ {
		r += s.l12[l1].L2(k)
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
		ones := uint64(popcount64(masked))
		if s.storesZero {
			r += tail - ones
		} else {
			r += ones
		}
	}
	return r
}

func (s *Summary) boundaryBits(k int) uint64 {
	if k < s.numL0 {
		return uint64(k) * L0Bits
	}
	return s.n
}

func (s *Summary) countAtL0(k int, wantZero bool) uint64 {
	stored := s.l0[k]
	if wantZero == s.storesZero {
		return stored
	}
	return s.boundaryBits(k) - stored
}

// SelectBit returns the 0-indexed position of the r-th (1-indexed)
// occurrence of bit value wantZero?0:1, or n if r exceeds the total
// count of that bit in the sequence. Precondition for r <= count is the
// caller's (spec §4.7); violating it only ever yields the n sentinel or
// a value within [0, n), never an out-of-range index.
func (s *Summary) SelectBit(words []uint64, wantZero bool, r uint64) uint64 {
	b := 1
	if wantZero {
		b = 0
	}

	l0 := -1
	for k := 0; k < s.numL0; k++ {
		if s.countAtL0(k+1, wantZero) >= r {
			l0 = k
			break
		}
	}
	if l0 == -1 {
		return s.n
	}

	samples := s.samples[b]
	samplesPos := s.samplesPos[b]

	rLocal0 := r - s.countAtL0(l0, wantZero) // count of wantZero before this L0 block

	l1BlockStart := l0 * L0PerL1
	l1BlockEnd := s.numL1
	if (l0+1)*L0PerL1 < l1BlockEnd {
		l1BlockEnd = (l0 + 1) * L0PerL1
	}

	// No sample was recorded for this L0 block when its own occurrence
	// count of the target bit never reached SampleRate; fall back to
	// starting the L1 walk at the block's first L1 block.
	l1 := l1BlockStart
	lo, hi := uint64(samplesPos[l0]), uint64(samplesPos[l0+1])
	if hi > lo {
		idx := (rLocal0 - 1) / SampleRate
		samplePos := lo + idx
		if samplePos > hi-1 {
			samplePos = hi - 1
		}
		l1 = int(samples[samplePos]) + int(((rLocal0-1)%SampleRate)/L1Bits)
	}

	if l1 < l1BlockStart {
		l1 = l1BlockStart
	}
	if l1 > l1BlockEnd-1 {
		l1 = l1BlockEnd - 1
	}

	countAtL1Start := func(blk int) uint64 {
		storedAbs := s.l0[l0] + s.l12[blk].L1()
		if wantZero == s.storesZero {
			return storedAbs
		}
		return uint64(blk)*L1Bits - storedAbs
	}

	for l1+1 < l1BlockEnd && countAtL1Start(l1+1) < r {
		l1++
	}
	rLocal := r - countAtL1Start(l1)

	return s.selectWithinL1(words, l1, wantZero, rLocal)
}

func (s *Summary) selectWithinL1(words []uint64, l1 int, wantZero bool, rLocal uint64) uint64 {
	rec := s.l12[l1]
	var cumStored, covered uint64
	l2 := 0
	for l2 < 3 {
		subBits := subBlockBits(l1, l2, s.n)
		if subBits == 0 {
			break
		}
		subStored := rec.L2(l2)
		newCumStored := cumStored + subStored
		newCovered := covered + subBits

		var cumWantZero uint64
		if wantZero == s.storesZero {
			cumWantZero = newCumStored
		} else {
			cumWantZero = newCovered - newCumStored
		}
		if cumWantZero >= rLocal {
			break
		}
		cumStored = newCumStored
		covered = newCovered
		l2++
	}

	var before uint64
	if wantZero == s.storesZero {
		before = cumStored
	} else {
		before = covered - cumStored
	}
	localRemaining := rLocal - before

	off := l1*L1Words + l2*L2Words
	return bitops.ScanSelect(words, off, wantZero, localRemaining)
}

// SpaceUsage returns the byte footprint of each summary array.
func (s *Summary) SpaceUsage() (l0Bytes, l12Bytes, sampleBytes, samplePosBytes uint64) {
	l0Bytes = uint64(len(s.l0)) * 8
	l12Bytes = uint64(len(s.l12)) * 8
	sampleBytes = uint64(len(s.samples[0])+len(s.samples[1])) * 4
	samplePosBytes = uint64(len(s.samplesPos[0])+len(s.samplesPos[1])) * 4
	return
}
