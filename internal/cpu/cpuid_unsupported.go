//go:build !(386 || amd64) || (!gccgo && purego && !linux)

package cpu

import "github.com/cwbudde/algo-cpuid/internal/cputypes"

const strategy = "unsupported"

// invoke fails for targets without CPUID or without a way to reach it.
func invoke(leaf, subleaf uint32) (cputypes.Registers, error) {
	return cputypes.Registers{}, cputypes.NewError(cputypes.UnsupportedPlatform, leaf, subleaf, nil)
}
