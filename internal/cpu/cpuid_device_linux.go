//go:build (386 || amd64) && !gccgo && purego && linux

package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/cwbudde/algo-cpuid/internal/cputypes"
)

const strategy = "device"

// devicePath is the Linux cpuid driver node for a logical core. Reading 16
// bytes at offset leaf|subleaf<<32 executes CPUID on that core.
func devicePath(cpu int) string {
	return fmt.Sprintf("/dev/cpu/%d/cpuid", cpu)
}

// currentCPU returns the logical core the calling thread runs on.
func currentCPU() (int, error) {
	var cpu uint32

	_, _, errno := unix.RawSyscall(unix.SYS_GETCPU, uintptr(unsafe.Pointer(&cpu)), 0, 0)
	if errno != 0 {
		return 0, errno
	}

	return int(cpu), nil
}

func invoke(leaf, subleaf uint32) (cputypes.Registers, error) {
	cpu, err := currentCPU()
	if err != nil {
		return cputypes.Registers{}, cputypes.NewError(cputypes.UnsupportedPlatform, leaf, subleaf,
			fmt.Errorf("getcpu: %w", err))
	}

	path := devicePath(cpu)

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return cputypes.Registers{}, cputypes.NewError(cputypes.UnsupportedPlatform, leaf, subleaf,
			&fs.PathError{Op: "open", Path: path, Err: err})
	}
	defer unix.Close(fd)

	limits, err := readDevice(fd, rangeBase(leaf), 0)
	if err != nil {
		return cputypes.Registers{}, cputypes.NewError(cputypes.UnsupportedPlatform, leaf, subleaf,
			&fs.PathError{Op: "read", Path: path, Err: err})
	}

	if !leafSupported(leaf, limits.EAX) {
		return unsupportedLeaf(leaf, subleaf)
	}

	r, err := readDevice(fd, leaf, subleaf)
	if err != nil {
		return cputypes.Registers{}, cputypes.NewError(cputypes.UnsupportedPlatform, leaf, subleaf,
			&fs.PathError{Op: "read", Path: path, Err: err})
	}

	return r, nil
}

func readDevice(fd int, leaf, subleaf uint32) (cputypes.Registers, error) {
	var buf [16]byte

	n, err := unix.Pread(fd, buf[:], int64(uint64(subleaf)<<32|uint64(leaf)))
	if err != nil {
		return cputypes.Registers{}, err
	}

	if n != len(buf) {
		return cputypes.Registers{}, io.ErrUnexpectedEOF
	}

	return cputypes.Registers{
		EAX: binary.LittleEndian.Uint32(buf[0:]),
		EBX: binary.LittleEndian.Uint32(buf[4:]),
		ECX: binary.LittleEndian.Uint32(buf[8:]),
		EDX: binary.LittleEndian.Uint32(buf[12:]),
	}, nil
}
