//go:build !linux && !windows

package affinity

import "github.com/cwbudde/algo-cpuid/internal/cputypes"

// No thread affinity primitive is wired up for this OS. Pinned queries fail
// with AffinityUnsupported instead of silently running on an arbitrary core.
const supported = false

type mask struct{}

const maxCores = 0

func platformGetMask() (mask, error) {
	return mask{}, cputypes.ErrAffinityUnsupported
}

func platformSetMask(mask) error {
	return cputypes.ErrAffinityUnsupported
}

func singleMask(int) (mask, error) {
	return mask{}, cputypes.ErrAffinityUnsupported
}

func maskCores(mask) []int {
	return nil
}
