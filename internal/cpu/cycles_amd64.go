//go:build amd64 && !gccgo && !purego

package cpu

const hasCycleCounter = true

// readCycleCounter reads the CPU timestamp counter using RDTSC.
// Implemented in cycles_amd64.s
//
//go:noescape
func readCycleCounter() int64
