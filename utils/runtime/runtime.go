package runtime

import "runtime"

// WorkerCount returns the number of goroutines to use for CPU bound tasks.
// A positive request is capped at GOMAXPROCS, otherwise one core is left
// for I/O.
func WorkerCount(requested int) int {
	cores := runtime.GOMAXPROCS(0)
	if requested > 0 {
		return min(requested, cores)
	}

	if cores == 1 {
		return 1
	}

	return cores - 1
}
