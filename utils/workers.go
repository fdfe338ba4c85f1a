package utils

import "runtime"

// AutoWorkers requests one worker per logical CPU
const AutoWorkers = -1

// MaxWorkers resolves a requested worker count. AutoWorkers (or any value
// below 1) resolves to runtime.NumCPU.
func MaxWorkers(requested int) int {
	if requested < 1 {
		return runtime.NumCPU()
	}
	return requested
}
