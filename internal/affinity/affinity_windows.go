//go:build windows

package affinity

import (
	"math/bits"
	"unsafe"

	"golang.org/x/sys/windows"
)

const supported = true

// mask covers one processor group. Cores in other groups are not addressable.
type mask = uintptr

const maxCores = bits.UintSize

var (
	modkernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procSetThreadAffinityMask  = modkernel32.NewProc("SetThreadAffinityMask")
	procGetProcessAffinityMask = modkernel32.NewProc("GetProcessAffinityMask")
)

// swapThreadMask installs m and returns the mask it replaced.
func swapThreadMask(m uintptr) (uintptr, error) {
	prev, _, err := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), m)
	if prev == 0 {
		return 0, err
	}

	return prev, nil
}

// platformGetMask has no direct Win32 equivalent: the thread mask is only
// returned by SetThreadAffinityMask. The process mask is swapped in to read
// it and the previous mask swapped straight back.
func platformGetMask() (mask, error) {
	var procMask, sysMask uintptr

	ok, _, err := procGetProcessAffinityMask.Call(
		uintptr(windows.CurrentProcess()),
		uintptr(unsafe.Pointer(&procMask)),
		uintptr(unsafe.Pointer(&sysMask)),
	)
	if ok == 0 {
		return 0, err
	}

	prev, err := swapThreadMask(procMask)
	if err != nil {
		return 0, err
	}

	if prev != procMask {
		if _, err := swapThreadMask(prev); err != nil {
			return 0, err
		}
	}

	return prev, nil
}

func platformSetMask(m mask) error {
	_, err := swapThreadMask(m)
	return err
}

func singleMask(core int) (mask, error) {
	if core < 0 || core >= maxCores {
		return 0, windows.ERROR_INVALID_PARAMETER
	}

	return 1 << uint(core), nil
}

func maskCores(m mask) []int {
	cores := make([]int, 0, bits.OnesCount(uint(m)))
	for i := 0; i < maxCores; i++ {
		if m&(1<<uint(i)) != 0 {
			cores = append(cores, i)
		}
	}

	return cores
}
