package cpu

import (
	"sync"
	"time"
)

// ReadCycleCounter reads the CPU's cycle counter (TSC on amd64).
// On other targets it falls back to time.Now() in nanoseconds.
func ReadCycleCounter() int64 {
	return readCycleCounter()
}

// CyclesSince returns the number of cycles elapsed since the given start cycle count.
func CyclesSince(start int64) int64 {
	return ReadCycleCounter() - start
}

// CyclesToNanoseconds converts cycle count to approximate nanoseconds.
// The first call calibrates the counter against the wall clock, which takes
// about 10ms. The conversion is only meant for reporting.
func CyclesToNanoseconds(cycles int64) int64 {
	calibrateOnce.Do(calibrateCycleCounter)

	if cyclesPerNanosecond == 0 {
		// time.Now() fallback: cycles are already nanoseconds.
		return cycles
	}

	return int64(float64(cycles) / cyclesPerNanosecond)
}

var (
	calibrateOnce sync.Once

	// cyclesPerNanosecond is the calibrated counter frequency in cycles/ns.
	// Zero means no calibration was possible.
	cyclesPerNanosecond float64
)

const calibrationDuration = 10 * time.Millisecond

// calibrateCycleCounter measures cycles over a known wall-clock period.
func calibrateCycleCounter() {
	if !hasCycleCounter {
		return
	}

	start := time.Now()
	startCycles := ReadCycleCounter()

	for time.Since(start) < calibrationDuration {
		// Spin
	}

	cycles := ReadCycleCounter() - startCycles
	nanoseconds := time.Since(start).Nanoseconds()

	if nanoseconds > 0 && cycles > 0 {
		cyclesPerNanosecond = float64(cycles) / float64(nanoseconds)
	}
}
