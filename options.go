package succinct

import "log/slog"

// buildOptions configures index construction. Functional options only
// ever touch runtime concerns (logging, build parallelism) — the
// polarity and search-policy compile-time tags are type parameters and
// are never configurable here (spec §9's monomorphization intent).
type buildOptions struct {
	logger          *Logger
	parallelWorkers int
}

// Option configures index construction.
type Option func(*buildOptions)

// WithLogger attaches a Logger that construction will report build
// timing and summary size to (see Logger.LogBuild). Pass nil to disable.
func WithLogger(logger *Logger) Option {
	return func(o *buildOptions) {
		o.logger = logger
	}
}

// WithLogLevel is a convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *buildOptions) {
		o.logger = NewTextLogger(level)
	}
}

// WithParallelBuild fans the per-L1-block popcount pass of
// ClassicRank/FlatRank/WideRank construction, and Validate's ground-truth
// re-scan, out across workers goroutines via simd.ParallelFor
// (golang.org/x/sync/errgroup underneath) whenever there is more than one
// block to process; there is no minimum sequence size (teacher precedent: vecgo's
// WithNumShards makes concurrency an opt-in functional option rather
// than an always-on default). The cumulative-sum/sample bookkeeping
// pass that follows stays sequential regardless, since it carries
// state between blocks. workers <= 1 disables parallelism.
func WithParallelBuild(workers int) Option {
	return func(o *buildOptions) {
		o.parallelWorkers = workers
	}
}

func applyOptions(opts []Option) buildOptions {
	o := buildOptions{
		logger:          NoopLogger(),
		parallelWorkers: 1,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
