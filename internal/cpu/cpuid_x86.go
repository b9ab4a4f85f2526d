//go:build (386 || amd64) && !gccgo && !purego

package cpu

import "github.com/cwbudde/algo-cpuid/internal/cputypes"

const strategy = "asm"

// cpuid executes the CPUID instruction with the given EAX and ECX inputs.
// Returns EAX, EBX, ECX, EDX outputs.
// Defined in cpuid_x86.s
func cpuid(eaxArg, ecxArg uint32) (eax, ebx, ecx, edx uint32)

func invoke(leaf, subleaf uint32) (cputypes.Registers, error) {
	maxLeaf, _, _, _ := cpuid(rangeBase(leaf), 0)
	if !leafSupported(leaf, maxLeaf) {
		return unsupportedLeaf(leaf, subleaf)
	}

	eax, ebx, ecx, edx := cpuid(leaf, subleaf)

	return cputypes.Registers{EAX: eax, EBX: ebx, ECX: ecx, EDX: edx}, nil
}
