package succinct

import (
	"context"
	"time"

	"github.com/hupe1980/succinct/internal/wide"
)

func wideStrategy(s searchStrategy) wide.Strategy {
	if s == strategyBinary {
		return wide.Binary
	}
	return wide.Linear
}

// WideRank answers rank queries using the wide plain-slice summary (spec
// §4.6). S is constrained to WideSearchPolicy since wide offers no
// Intrinsic strategy.
type WideRank[P Polarity, S WideSearchPolicy] struct {
	n       uint64
	words   []uint64
	summary *wide.Summary
}

// NewWideRank builds a WideRank over seq.
func NewWideRank[P Polarity, S WideSearchPolicy](seq *BitSeq, opts ...Option) *WideRank[P, S] {
	o := applyOptions(opts)
	var p P
	start := time.Now()

	summary := wide.Build(seq.Words(), seq.Len(), p.storesZero(), o.parallelWorkers)
	r := &WideRank[P, S]{n: seq.Len(), words: seq.Words(), summary: summary}

	if o.logger != nil {
		l1, l2, sample := summary.SpaceUsage()
		report := SpaceReport{L1L2Bytes: l1 + l2, SampleBytes: sample}
		o.logger.WithPolarity(p.storesZero()).LogBuild(context.Background(), "wide_rank", seq.Len(), report, time.Since(start))
	}
	return r
}

// Len returns the length, in bits, of the indexed sequence.
func (r *WideRank[P, S]) Len() uint64 { return r.n }

// Rank1 returns the number of 1-bits in [0, i).
func (r *WideRank[P, S]) Rank1(i uint64) uint64 {
	stored := r.summary.RankStored(r.words, i)
	var p P
	if p.storesZero() {
		return i - stored
	}
	return stored
}

// Rank0 returns the number of 0-bits in [0, i).
func (r *WideRank[P, S]) Rank0(i uint64) uint64 {
	stored := r.summary.RankStored(r.words, i)
	var p P
	if p.storesZero() {
		return stored
	}
	return i - stored
}

// SpaceUsage reports the summary's auxiliary storage footprint.
func (r *WideRank[P, S]) SpaceUsage() SpaceReport {
	l1, l2, sample := r.summary.SpaceUsage()
	return SpaceReport{L1L2Bytes: l1 + l2, SampleBytes: sample}
}

// WideRankSelect extends WideRank with select queries.
type WideRankSelect[P Polarity, S WideSearchPolicy] struct {
	WideRank[P, S]
}

// NewWideRankSelect builds a WideRankSelect over seq.
func NewWideRankSelect[P Polarity, S WideSearchPolicy](seq *BitSeq, opts ...Option) *WideRankSelect[P, S] {
	return &WideRankSelect[P, S]{WideRank: *NewWideRank[P, S](seq, opts...)}
}

// Select1 returns the position of the r-th (1-indexed) 1-bit, or Len()
// if fewer than r 1-bits exist.
func (rs *WideRankSelect[P, S]) Select1(r uint64) uint64 {
	var s S
	return rs.summary.SelectBit(rs.words, wideStrategy(s.strategy()), false, r)
}

// Select0 returns the position of the r-th (1-indexed) 0-bit, or Len()
// if fewer than r 0-bits exist.
func (rs *WideRankSelect[P, S]) Select0(r uint64) uint64 {
	var s S
	return rs.summary.SelectBit(rs.words, wideStrategy(s.strategy()), true, r)
}
