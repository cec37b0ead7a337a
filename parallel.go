package tiec

import "sync"

// parallelRanges splits [0, n) into contiguous ranges, one per worker, and
// calls fn(start, end) for each range concurrently. Every index is handled by
// exactly one goroutine, so a fn that writes only to its own indices produces
// output bitwise identical to a single sequential call fn(0, n).
// If workers <= 1 or n <= 1, fn runs once on the calling goroutine.
func parallelRanges(n, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 || n <= 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	perWorker := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > n {
			end = n
		}
		if start >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}

	wg.Wait()
}

// parallelEach calls fn(i) for every i in [0, n), using parallelRanges.
func parallelEach(n, workers int, fn func(i int)) {
	parallelRanges(n, workers, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
