package succinct

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillPattern(s *BitSeq, pred func(i uint64) bool) {
	for i := uint64(0); i < s.Len(); i++ {
		s.Set(i, pred(i))
	}
}

func naiveRank1(s *BitSeq, i uint64) uint64 {
	var c uint64
	for k := uint64(0); k < i; k++ {
		if s.Get(k) {
			c++
		}
	}
	return c
}

func naiveSelect(s *BitSeq, want bool, r uint64) uint64 {
	var c uint64
	for i := uint64(0); i < s.Len(); i++ {
		if s.Get(i) == want {
			c++
			if c == r {
				return i
			}
		}
	}
	return s.Len()
}

func TestClassicRankAllZerosAllOnes(t *testing.T) {
	n := uint64(1_000_000)

	zeros := New(n)
	rk := NewClassicRank[OptForOne](zeros)
	assert.Equal(t, uint64(0), rk.Rank1(n))
	assert.Equal(t, n, rk.Rank0(n))

	ones := NewFilled(n, true)
	rk2 := NewClassicRank[OptForOne](ones)
	assert.Equal(t, n, rk2.Rank1(n))
	assert.Equal(t, uint64(0), rk2.Rank0(n))
}

func TestClassicRankSelectMod3(t *testing.T) {
	n := uint64(1) << 20
	s := New(n)
	fillPattern(s, func(i uint64) bool { return i%3 == 0 })

	rs := NewClassicRankSelect[OptForZero](s)
	for _, i := range []uint64{0, 1, 1000, n / 2, n} {
		assert.Equal(t, naiveRank1(s, i), rs.Rank1(i), "rank1(%d)", i)
		assert.Equal(t, i-naiveRank1(s, i), rs.Rank0(i), "rank0(%d)", i)
	}

	totalOnes := naiveRank1(s, n)
	for _, r := range []uint64{1, 2, 3, totalOnes / 2, totalOnes} {
		want := naiveSelect(s, true, r)
		got := rs.Select1(r)
		assert.Equal(t, want, got, "select1(%d)", r)
	}
}

// TestFlatRankSelectFibonacci seeds a bit pattern at Fibonacci-numbered
// positions and checks ordinary rank/select queries against it; this is
// a distinct scenario from the literal Fibonacci-payload bit-layout
// round trip in TestBitSeqFibonacciPayloadRoundTrip.
func TestFlatRankSelectFibonacci(t *testing.T) {
	n := uint64(100_000)
	s := New(n)
	a, b := uint64(0), uint64(1)
	for a < n {
		s.Set(a, true)
		a, b = b, a+b
	}

	rs := NewFlatRankSelect[OptForOne, Linear](s)
	for i := uint64(0); i <= n; i += 9973 {
		assert.Equal(t, naiveRank1(s, i), rs.Rank1(i))
	}

	total := naiveRank1(s, n)
	for r := uint64(1); r <= total; r += 3 {
		assert.Equal(t, naiveSelect(s, true, r), rs.Select1(r))
	}
}

func TestFlatStrategiesCrossCheckStrided(t *testing.T) {
	n := (uint64(1) << 32) + 4096
	s := New(n)

	r := rand.New(rand.NewSource(1))
	stride := n / 4000
	for i := uint64(0); i < n; i += stride {
		if r.Intn(2) == 1 {
			s.Set(i, true)
		}
	}

	linear := NewFlatRankSelect[OptForOne, Linear](s)
	binary := NewFlatRankSelect[OptForOne, Binary](s)
	intrin := NewFlatRankSelect[OptForOne, Intrinsic](s)

	for i := uint64(0); i < n; i += stride * 7 {
		want := linear.Rank1(i)
		assert.Equal(t, want, binary.Rank1(i), "binary rank mismatch at %d", i)
		assert.Equal(t, want, intrin.Rank1(i), "intrinsic rank mismatch at %d", i)
	}

	total := linear.Rank1(n)
	for r := uint64(1); r <= total && r < 5000; r++ {
		want := linear.Select1(r)
		assert.Equal(t, want, binary.Select1(r), "binary select mismatch at r=%d", r)
		assert.Equal(t, want, intrin.Select1(r), "intrinsic select mismatch at r=%d", r)
	}

	zerosLinear := NewFlatRankSelect[OptForZero, Linear](s)
	zerosBinary := NewFlatRankSelect[OptForZero, Binary](s)
	zerosIntrin := NewFlatRankSelect[OptForZero, Intrinsic](s)
	for i := uint64(0); i < n; i += stride * 7 {
		want := naiveRank1(s, i) // naiveRank1 counts set bits; s.Get(k) is the bit value, not polarity
		wantZero := i - want
		assert.Equal(t, wantZero, zerosLinear.Rank0(i), "zeros linear rank0 mismatch at %d", i)
		assert.Equal(t, wantZero, zerosBinary.Rank0(i), "zeros binary rank0 mismatch at %d", i)
		assert.Equal(t, wantZero, zerosIntrin.Rank0(i), "zeros intrinsic rank0 mismatch at %d", i)
	}

	totalZeros := zerosLinear.Rank0(n)
	for r := uint64(1); r <= totalZeros && r < 5000; r++ {
		want := naiveSelect(s, false, r)
		assert.Equal(t, want, zerosLinear.Select0(r), "zeros linear select0 mismatch at r=%d", r)
		assert.Equal(t, want, zerosBinary.Select0(r), "zeros binary select0 mismatch at r=%d", r)
		assert.Equal(t, want, zerosIntrin.Select0(r), "zeros intrinsic select0 mismatch at r=%d", r)
	}
}

func TestWideRankSelect(t *testing.T) {
	n := uint64(300_000)
	s := New(n)
	r := rand.New(rand.NewSource(42))
	for i := uint64(0); i < n; i++ {
		s.Set(i, r.Intn(5) == 0)
	}

	rs := NewWideRankSelect[OptForOne, Binary](s)
	for i := uint64(0); i <= n; i += 4001 {
		assert.Equal(t, naiveRank1(s, i), rs.Rank1(i))
	}
	total := rs.Rank1(n)
	for rnk := uint64(1); rnk <= total; rnk += 17 {
		assert.Equal(t, naiveSelect(s, true, rnk), rs.Select1(rnk))
	}
}

func TestResizeRoundTripWithRank(t *testing.T) {
	s := New(714_010)
	r := rand.New(rand.NewSource(5))
	for i := uint64(0); i < s.Len(); i++ {
		s.Set(i, r.Intn(2) == 1)
	}

	before := naiveRank1(s, s.Len())
	s.Resize(714_010+50000, false)
	s.Resize(714_010)

	require.Equal(t, uint64(714_010), s.Len())
	after := naiveRank1(s, s.Len())
	assert.Equal(t, before, after)

	rs := NewClassicRankSelect[OptForOne](s)
	assert.Equal(t, before, rs.Rank1(s.Len()))
}

func TestValidate(t *testing.T) {
	s := New(500_000)
	r := rand.New(rand.NewSource(9))
	for i := uint64(0); i < s.Len(); i++ {
		s.Set(i, r.Intn(2) == 1)
	}
	assert.NoError(t, Validate(s))
	assert.NoError(t, Validate(s, WithParallelBuild(4)))
}

// TestParallelBuildAgreesWithSequential exercises WithParallelBuild(n>1)
// directly at index-construction time (not just through Validate's own
// re-scan), across all three variants, checking that a parallel-built
// summary answers sampled rank and select queries identically to a
// sequential build of the same bits.
func TestParallelBuildAgreesWithSequential(t *testing.T) {
	n := uint64(900_003) // spans many L1 blocks for all three variants
	s := New(n)
	r := rand.New(rand.NewSource(21))
	for i := uint64(0); i < n; i++ {
		s.Set(i, r.Intn(2) == 1)
	}

	seqClassic := NewClassicRankSelect[OptForOne](s)
	parClassic := NewClassicRankSelect[OptForOne](s, WithParallelBuild(6))

	seqFlat := NewFlatRankSelect[OptForOne, Linear](s)
	parFlat := NewFlatRankSelect[OptForOne, Linear](s, WithParallelBuild(6))

	seqWide := NewWideRankSelect[OptForOne, Linear](s)
	parWide := NewWideRankSelect[OptForOne, Linear](s, WithParallelBuild(6))

	for i := uint64(0); i <= n; i += 977 {
		require.Equal(t, seqClassic.Rank1(i), parClassic.Rank1(i), "classic rank1(%d)", i)
		require.Equal(t, seqFlat.Rank1(i), parFlat.Rank1(i), "flat rank1(%d)", i)
		require.Equal(t, seqWide.Rank1(i), parWide.Rank1(i), "wide rank1(%d)", i)
	}

	total := seqClassic.Rank1(n)
	require.Equal(t, total, parClassic.Rank1(n))
	for rnk := uint64(1); rnk <= total; rnk += 131 {
		require.Equal(t, seqClassic.Select1(rnk), parClassic.Select1(rnk), "classic select1(%d)", rnk)
		require.Equal(t, seqFlat.Select1(rnk), parFlat.Select1(rnk), "flat select1(%d)", rnk)
		require.Equal(t, seqWide.Select1(rnk), parWide.Select1(rnk), "wide select1(%d)", rnk)
	}
}
