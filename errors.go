package succinct

import "fmt"

// ErrBitSeqTooLarge indicates a requested bit-sequence length exceeds
// MaxBits (spec §1, §7: "support for bit sequences longer than 2^40" is
// explicitly out of scope).
type ErrBitSeqTooLarge struct {
	Requested uint64
}

func (e *ErrBitSeqTooLarge) Error() string {
	return fmt.Sprintf("succinct: requested bit sequence length %d exceeds MaxBits (%d)", e.Requested, MaxBits)
}

// ErrOutOfRange reports a debug-mode-detected out-of-range query. Rank and
// select have no recoverable error path in release builds (spec §7); this
// type exists only for the debug assertions that can detect a violation
// cheaply, and for the one defined sentinel behavior (classic select
// returning n, which is not an error and does not use this type).
type ErrOutOfRange struct {
	// Op names the operation that detected the violation (e.g. "rank",
	// "select").
	Op string
	// Index is the offending position or rank.
	Index uint64
	// Limit is the bound Index was checked against.
	Limit uint64
	cause error
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("succinct: %s: index %d out of range (limit %d)", e.Op, e.Index, e.Limit)
}

func (e *ErrOutOfRange) Unwrap() error { return e.cause }
