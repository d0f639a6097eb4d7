package simd

import "golang.org/x/sync/errgroup"

// ParallelFor splits [0, n) into at most workers contiguous chunks and
// runs fn once per chunk concurrently via errgroup, blocking until every
// chunk finishes. workers <= 1, or n <= 1, runs fn synchronously inline
// with no goroutine fan-out. Callers partition independent per-block work
// across the [lo, hi) ranges fn receives; fn must not touch indices
// outside its own range.
func ParallelFor(workers, n int, fn func(lo, hi int)) {
	if workers <= 1 || n <= 1 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
