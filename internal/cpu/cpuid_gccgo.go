//go:build (386 || amd64) && gccgo

package cpu

import "github.com/cwbudde/algo-cpuid/internal/cputypes"

const strategy = "intrinsic"

// getCpuidCount is defined in cpuid_gccgo_x86.c. It returns 0 when the leaf
// is above the maximum the processor reports.
//
//extern algocpuidGetCpuidCount
func getCpuidCount(leaf, subleaf uint32, eax, ebx, ecx, edx *uint32) int32

func invoke(leaf, subleaf uint32) (cputypes.Registers, error) {
	var r cputypes.Registers
	if getCpuidCount(leaf, subleaf, &r.EAX, &r.EBX, &r.ECX, &r.EDX) == 0 {
		return unsupportedLeaf(leaf, subleaf)
	}

	return r, nil
}
