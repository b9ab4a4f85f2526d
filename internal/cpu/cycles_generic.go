//go:build !amd64 || gccgo || purego

package cpu

import "time"

const hasCycleCounter = false

// readCycleCounter falls back to time.Now() on targets without the assembly
// routine. Returns nanoseconds since an arbitrary point in time.
func readCycleCounter() int64 {
	return time.Now().UnixNano()
}
