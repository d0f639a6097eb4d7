package succinct

import (
	"context"
	"time"

	"github.com/hupe1980/succinct/internal/flat"
)

func flatStrategy(s searchStrategy) flat.Strategy {
	switch s {
	case strategyBinary:
		return flat.Binary
	case strategyIntrinsic:
		return flat.Intrinsic
	default:
		return flat.Linear
	}
}

// FlatRank answers rank queries using the flat single-level 128-bit
// packed summary (spec §4.5). S is unused for rank (only select has a
// strategy) but kept on the type so FlatRank and FlatRankSelect share
// the same two type parameters.
type FlatRank[P Polarity, S SearchPolicy] struct {
	n       uint64
	words   []uint64
	summary *flat.Summary
}

// NewFlatRank builds a FlatRank over seq.
func NewFlatRank[P Polarity, S SearchPolicy](seq *BitSeq, opts ...Option) *FlatRank[P, S] {
	o := applyOptions(opts)
	var p P
	start := time.Now()

	summary := flat.Build(seq.Words(), seq.Len(), p.storesZero(), o.parallelWorkers)
	r := &FlatRank[P, S]{n: seq.Len(), words: seq.Words(), summary: summary}

	if o.logger != nil {
		l12, sample := summary.SpaceUsage()
		report := SpaceReport{L1L2Bytes: l12, SampleBytes: sample}
		o.logger.WithPolarity(p.storesZero()).LogBuild(context.Background(), "flat_rank", seq.Len(), report, time.Since(start))
	}
	return r
}

// Len returns the length, in bits, of the indexed sequence.
func (r *FlatRank[P, S]) Len() uint64 { return r.n }

// Rank1 returns the number of 1-bits in [0, i).
func (r *FlatRank[P, S]) Rank1(i uint64) uint64 {
	stored := r.summary.RankStored(r.words, i)
	var p P
	if p.storesZero() {
		return i - stored
	}
	return stored
}

// Rank0 returns the number of 0-bits in [0, i).
func (r *FlatRank[P, S]) Rank0(i uint64) uint64 {
	stored := r.summary.RankStored(r.words, i)
	var p P
	if p.storesZero() {
		return stored
	}
	return i - stored
}

// SpaceUsage reports the summary's auxiliary storage footprint.
func (r *FlatRank[P, S]) SpaceUsage() SpaceReport {
	l12, sample := r.summary.SpaceUsage()
	return SpaceReport{L1L2Bytes: l12, SampleBytes: sample}
}

// FlatRankSelect extends FlatRank with select queries. S fixes, at
// compile time, which in-block search the select path uses (spec
// §4.5.3): Linear, Binary, or Intrinsic. All three must agree bit for
// bit, so the choice is purely a performance knob.
type FlatRankSelect[P Polarity, S SearchPolicy] struct {
	FlatRank[P, S]
}

// NewFlatRankSelect builds a FlatRankSelect over seq.
func NewFlatRankSelect[P Polarity, S SearchPolicy](seq *BitSeq, opts ...Option) *FlatRankSelect[P, S] {
	return &FlatRankSelect[P, S]{FlatRank: *NewFlatRank[P, S](seq, opts...)}
}

// Select1 returns the position of the r-th (1-indexed) 1-bit, or Len()
// if fewer than r 1-bits exist.
func (rs *FlatRankSelect[P, S]) Select1(r uint64) uint64 {
	var s S
	return rs.summary.SelectBit(rs.words, flatStrategy(s.strategy()), false, r)
}

// Select0 returns the position of the r-th (1-indexed) 0-bit, or Len()
// if fewer than r 0-bits exist.
func (rs *FlatRankSelect[P, S]) Select0(r uint64) uint64 {
	var s S
	return rs.summary.SelectBit(rs.words, flatStrategy(s.strategy()), true, r)
}
