package algocpuid

import "github.com/cwbudde/algo-cpuid/internal/cputypes"

// Registers holds EAX, EBX, ECX and EDX as returned by one CPUID execution.
// The canonical definition is in internal/cputypes.
type Registers = cputypes.Registers
