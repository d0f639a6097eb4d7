package succinct

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with succinct-specific context. This provides
// structured logging with consistent field names across construction of
// every index variant.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler. If handler is
// nil, uses a default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output. Use this to
// disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithPolarity adds the polarity tag in use to the logger.
func (l *Logger) WithPolarity(storesZero bool) *Logger {
	polarity := "opt_for_one"
	if storesZero {
		polarity = "opt_for_zero"
	}
	return &Logger{Logger: l.Logger.With("polarity", polarity)}
}

// WithPolicy adds the in-block search policy in use to the logger.
func (l *Logger) WithPolicy(policy string) *Logger {
	return &Logger{Logger: l.Logger.With("policy", policy)}
}

// WithBits adds the bit-sequence length to the logger.
func (l *Logger) WithBits(n uint64) *Logger {
	return &Logger{Logger: l.Logger.With("bits", n)}
}

// WithBlocks adds an L1/L2 block count to the logger.
func (l *Logger) WithBlocks(l1Blocks, l2Blocks int) *Logger {
	return &Logger{Logger: l.Logger.With("l1_blocks", l1Blocks, "l2_blocks", l2Blocks)}
}

// LogBuild logs a completed index construction: size, summary footprint,
// and wall-clock duration. Construction is the only place this package
// logs at Info; rank/select queries never log (spec §5: wait-free, no
// I/O, no allocation on the hot path).
func (l *Logger) LogBuild(ctx context.Context, variant string, bits uint64, report SpaceReport, elapsed time.Duration) {
	l.InfoContext(ctx, "index built",
		"variant", variant,
		"bits", bits,
		"summary_bytes", report.Total(),
		"overhead_pct", report.OverheadPercent(bits),
		"elapsed", elapsed,
	)
}

// LogRangeCheck records a debug-only out-of-range observation. It is
// never called from a release build's hot path (spec §7).
func (l *Logger) LogRangeCheck(ctx context.Context, op string, index, limit uint64) {
	l.WarnContext(ctx, "out-of-range query observed",
		"op", op,
		"index", index,
		"limit", limit,
	)
}
