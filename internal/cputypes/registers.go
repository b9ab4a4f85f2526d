package cputypes

import "fmt"

// Registers holds the four output registers of one CPUID invocation.
// The field names are positional; what the bits mean is up to the caller.
type Registers struct {
	EAX uint32
	EBX uint32
	ECX uint32
	EDX uint32
}

// Array returns the registers in EAX, EBX, ECX, EDX order.
func (r Registers) Array() [4]uint32 {
	return [4]uint32{r.EAX, r.EBX, r.ECX, r.EDX}
}

func (r Registers) String() string {
	return fmt.Sprintf("eax=%#08x ebx=%#08x ecx=%#08x edx=%#08x", r.EAX, r.EBX, r.ECX, r.EDX)
}
