package wide

import (
	"math/rand"
	"testing"
)

func makeWords(n uint64, bits []bool) []uint64 {
	words := make([]uint64, (n+63)/64+1)
	for i, b := range bits {
		if b {
			words[uint64(i)/64] |= 1 << (uint64(i) % 64)
		}
	}
	return words
}

func randomBits(n uint64, seed int64) []bool {
	r := rand.New(rand.NewSource(seed))
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = r.Intn(2) == 1
	}
	return bits
}

func naiveRank1(bits []bool, i uint64) uint64 {
	var c uint64
	for k := uint64(0); k < i; k++ {
		if bits[k] {
			c++
		}
	}
	return c
}

func TestWideRank(t *testing.T) {
	sizes := []uint64{0, 1, 511, 512, 65535, 65536, 65537, 200_000}
	for _, n := range sizes {
		bits := randomBits(n, int64(n)+5)
		words := makeWords(n, bits)
		for _, storesZero := range []bool{true, false} {
			s := Build(words, n, storesZero, 1)
			for _, i := range []uint64{0, 1, n / 3, n / 2, n} {
				if n == 0 {
					continue
				}
				want := naiveRank1(bits, i)
				stored := s.RankStored(words, i)
				var got uint64
				if storesZero {
					got = i - stored
				} else {
					got = stored
				}
				if got != want {
					t.Fatalf("n=%d storesZero=%v rank1(%d) = %d, want %d", n, storesZero, i, got, want)
				}
			}
		}
	}
}

func TestWideSelectStrategiesAgree(t *testing.T) {
	n := uint64(150_000)
	bits := randomBits(n, 13)
	words := makeWords(n, bits)

	var ones, zeros []uint64
	for i, b := range bits {
		if b {
			ones = append(ones, uint64(i))
		} else {
			zeros = append(zeros, uint64(i))
		}
	}

	for _, storesZero := range []bool{true, false} {
		s := Build(words, n, storesZero, 1)

		for r := uint64(1); r <= uint64(len(ones)); r += 97 {
			want := ones[r-1]
			for _, strat := range []Strategy{Linear, Binary} {
				if got := s.SelectBit(words, strat, false, r); got != want {
					t.Fatalf("storesZero=%v strategy=%d Select1(%d) = %d, want %d", storesZero, strat, r, got, want)
				}
			}
		}
		for r := uint64(1); r <= uint64(len(zeros)); r += 101 {
			want := zeros[r-1]
			for _, strat := range []Strategy{Linear, Binary} {
				if got := s.SelectBit(words, strat, true, r); got != want {
					t.Fatalf("storesZero=%v strategy=%d Select0(%d) = %d, want %d", storesZero, strat, r, got, want)
				}
			}
		}
	}
}
