// Package cpu issues the CPUID instruction on the logical core the calling
// thread is currently running on.
//
// Exactly one invocation strategy is compiled into a binary:
//
//   - "intrinsic": gccgo builds call __get_cpuid_count from <cpuid.h>.
//   - "asm": gc builds on 386 and amd64 use a Go assembly routine.
//   - "device": purego builds on Linux read /dev/cpu/N/cpuid.
//   - "unsupported": every other target; all calls fail.
//
// The package knows nothing about thread affinity. Callers that need a
// specific core pin the thread first (see internal/affinity).
package cpu

import "github.com/cwbudde/algo-cpuid/internal/cputypes"

// extendedBase is the first leaf of the extended range. Leaves at or above it
// are validated against the extended maximum.
const extendedBase = 0x80000000

// Invoke executes CPUID with EAX=leaf and ECX=subleaf.
//
// It returns ErrUnsupportedLeaf (as a *cputypes.Error) when the processor
// reports that the leaf is beyond the maximum of its range, and
// ErrUnsupportedPlatform when no strategy exists for the build target. On
// error the returned Registers are always zero.
func Invoke(leaf, subleaf uint32) (cputypes.Registers, error) {
	return invoke(leaf, subleaf)
}

// Strategy returns the name of the strategy compiled into this binary.
func Strategy() string {
	return strategy
}

// rangeBase returns the leaf whose EAX holds the maximum for leaf's range.
func rangeBase(leaf uint32) uint32 {
	return leaf & extendedBase
}

// leafSupported applies the same test as __get_cpuid: the range maximum must
// be non-zero and not below the requested leaf.
func leafSupported(leaf, maxLeaf uint32) bool {
	return maxLeaf != 0 && maxLeaf >= leaf
}

func unsupportedLeaf(leaf, subleaf uint32) (cputypes.Registers, error) {
	return cputypes.Registers{}, cputypes.NewError(cputypes.UnsupportedLeaf, leaf, subleaf, nil)
}
