//go:build linux

package affinity

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

const supported = true

type mask = unix.CPUSet

const maxCores = int(unsafe.Sizeof(unix.CPUSet{})) * 8

// pid 0 addresses the calling thread, not the whole process.
func platformGetMask() (mask, error) {
	var m unix.CPUSet
	if err := unix.SchedGetaffinity(0, &m); err != nil {
		return m, err
	}

	return m, nil
}

func platformSetMask(m mask) error {
	return unix.SchedSetaffinity(0, &m)
}

func singleMask(core int) (mask, error) {
	var m unix.CPUSet
	if core < 0 || core >= maxCores {
		return m, unix.EINVAL
	}

	m.Set(core)

	return m, nil
}

func maskCores(m mask) []int {
	cores := make([]int, 0, m.Count())
	for i := 0; i < maxCores && len(cores) < cap(cores); i++ {
		if m.IsSet(i) {
			cores = append(cores, i)
		}
	}

	return cores
}
