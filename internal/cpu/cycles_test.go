package cpu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadCycleCounter(t *testing.T) {
	c1 := ReadCycleCounter()

	if !hasCycleCounter {
		time.Sleep(time.Microsecond)
	}

	c2 := ReadCycleCounter()

	assert.Greater(t, c2, c1, "cycle counter not monotonic")
}

func TestCyclesSince(t *testing.T) {
	start := ReadCycleCounter()

	for i := 0; i < 1000; i++ {
		_, _ = Invoke(0, 0)
	}

	if !hasCycleCounter {
		time.Sleep(time.Microsecond)
	}

	assert.Positive(t, CyclesSince(start))
}

func TestCyclesToNanoseconds(t *testing.T) {
	// Calibrate before timing so the calibration spin is not measured.
	CyclesToNanoseconds(0)

	start := ReadCycleCounter()
	timeStart := time.Now()

	time.Sleep(10 * time.Millisecond)

	cycles := CyclesSince(start)
	actualNanos := time.Since(timeStart).Nanoseconds()
	convertedNanos := CyclesToNanoseconds(cycles)

	// Loose tolerance: calibration, sleep precision and scheduler noise.
	ratio := float64(convertedNanos) / float64(actualNanos)
	if ratio < 0.5 || ratio > 2.0 {
		t.Errorf("cycle-to-nanosecond conversion off: got %d ns from cycles, actual %d ns (ratio %.2f)",
			convertedNanos, actualNanos, ratio)
	}
}

func BenchmarkReadCycleCounter(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = ReadCycleCounter()
	}
}
