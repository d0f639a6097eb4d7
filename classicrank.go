package succinct

import (
	"context"
	"time"

	"github.com/hupe1980/succinct/internal/classic"
)

// ClassicRank answers rank queries over a BitSeq using the classic
// three-level (L0/L1/L2) summary (spec §4.3). P fixes, at compile time,
// which bit value the summary stores counts for directly.
type ClassicRank[P Polarity] struct {
	n       uint64
	words   []uint64
	summary *classic.Summary
}

// NewClassicRank builds a ClassicRank over seq. seq must not be mutated
// for the lifetime of the returned index (spec §4.7, §9).
func NewClassicRank[P Polarity](seq *BitSeq, opts ...Option) *ClassicRank[P] {
	o := applyOptions(opts)
	var p P
	start := time.Now()

	summary := classic.Build(seq.Words(), seq.Len(), p.storesZero(), o.parallelWorkers)
	r := &ClassicRank[P]{n: seq.Len(), words: seq.Words(), summary: summary}

	if o.logger != nil {
		l0, l12, sample, samplePos := summary.SpaceUsage()
		report := SpaceReport{L0Bytes: l0, L1L2Bytes: l12, SampleBytes: sample, SamplePosBytes: samplePos}
		o.logger.WithPolarity(p.storesZero()).LogBuild(context.Background(), "classic_rank", seq.Len(), report, time.Since(start))
	}
	return r
}

// Len returns the length, in bits, of the indexed sequence.
func (r *ClassicRank[P]) Len() uint64 { return r.n }

// Rank1 returns the number of 1-bits in [0, i).
func (r *ClassicRank[P]) Rank1(i uint64) uint64 {
	stored := r.summary.RankStored(r.words, i)
	var p P
	if p.storesZero() {
		return i - stored
	}
	return stored
}

// Rank0 returns the number of 0-bits in [0, i).
func (r *ClassicRank[P]) Rank0(i uint64) uint64 {
	stored := r.summary.RankStored(r.words, i)
	var p P
	if p.storesZero() {
		return stored
	}
	return i - stored
}

// SpaceUsage reports the summary's auxiliary storage footprint.
func (r *ClassicRank[P]) SpaceUsage() SpaceReport {
	l0, l12, sample, samplePos := r.summary.SpaceUsage()
	return SpaceReport{L0Bytes: l0, L1L2Bytes: l12, SampleBytes: sample, SamplePosBytes: samplePos}
}

// ClassicRankSelect extends ClassicRank with select queries, backed by
// the same summary's per-bit sample arrays (spec §4.4).
type ClassicRankSelect[P Polarity] struct {
	ClassicRank[P]
}

// NewClassicRankSelect builds a ClassicRankSelect over seq.
func NewClassicRankSelect[P Polarity](seq *BitSeq, opts ...Option) *ClassicRankSelect[P] {
	return &ClassicRankSelect[P]{ClassicRank: *NewClassicRank[P](seq, opts...)}
}

// Select1 returns the position of the r-th (1-indexed) 1-bit, or Len()
// if fewer than r 1-bits exist (spec §4.4's sentinel-on-exhaustion rule).
func (rs *ClassicRankSelect[P]) Select1(r uint64) uint64 {
	return rs.summary.SelectBit(rs.words, false, r)
}

// Select0 returns the position of the r-th (1-indexed) 0-bit, or Len()
// if fewer than r 0-bits exist.
func (rs *ClassicRankSelect[P]) Select0(r uint64) uint64 {
	return rs.summary.SelectBit(rs.words, true, r)
}
