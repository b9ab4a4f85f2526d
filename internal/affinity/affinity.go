// Package affinity restricts the calling OS thread to one logical core for the
// duration of an action and puts the thread's previous affinity back
// afterwards, on every exit path.
//
// Affinity is per OS thread, so every function here acts on the thread the
// calling goroutine currently runs on. Enter and Exit must be called from a
// goroutine locked with runtime.LockOSThread; Run takes care of that itself.
package affinity

import (
	"errors"
	"runtime"

	"github.com/cwbudde/algo-cpuid/internal/cputypes"
)

// Platform primitives. Replaced in tests.
var (
	getMask = platformGetMask
	setMask = platformSetMask
)

// Supported reports whether the host exposes thread affinity control.
func Supported() bool {
	return supported
}

// MaxCores is the number of logical cores a mask can address.
func MaxCores() int {
	return maxCores
}

// Snapshot is the set of logical cores a thread may run on.
type Snapshot struct {
	m mask
}

// Cores lists the logical cores in the snapshot in ascending order.
func (s Snapshot) Cores() []int {
	return maskCores(s.m)
}

// Equal reports whether both snapshots select the same cores.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.m == o.m
}

// Current returns the affinity of the calling thread.
func Current() (Snapshot, error) {
	if !supported {
		return Snapshot{}, affinityError(cputypes.AffinityUnsupported, cputypes.NoCore, nil)
	}

	m, err := getMask()
	if err != nil {
		return Snapshot{}, affinityError(cputypes.AffinityQueryFailed, cputypes.NoCore, err)
	}

	return Snapshot{m: m}, nil
}

// Scope is an active pin of the calling thread to a single core. The saved
// affinity never leaves the Scope.
type Scope struct {
	core   int
	saved  mask
	active bool
}

// Enter saves the calling thread's affinity and restricts the thread to core.
//
// Nothing needs restoring when Enter fails: it either fails before changing
// anything or the single OS call that would change the mask did not take
// effect.
func Enter(core int) (*Scope, error) {
	if !supported {
		return nil, affinityError(cputypes.AffinityUnsupported, core, nil)
	}

	saved, err := getMask()
	if err != nil {
		return nil, affinityError(cputypes.AffinityQueryFailed, core, err)
	}

	target, err := singleMask(core)
	if err != nil {
		return nil, affinityError(cputypes.AffinitySetFailed, core, err)
	}

	if err := setMask(target); err != nil {
		return nil, affinityError(cputypes.AffinitySetFailed, core, err)
	}

	return &Scope{core: core, saved: saved, active: true}, nil
}

// Core returns the core the scope pinned to.
func (s *Scope) Core() int {
	return s.core
}

// Exit restores the affinity saved by Enter. Calling Exit again after a
// successful restore is a no-op.
func (s *Scope) Exit() error {
	if !s.active {
		return nil
	}

	if err := setMask(s.saved); err != nil {
		return affinityError(cputypes.AffinityRestoreFailed, s.core, err)
	}

	s.active = false

	return nil
}

// Run pins a dedicated OS thread to core, calls fn on it and restores the
// thread's affinity before returning. Run blocks until all of that is done.
//
// A failed restore takes priority over fn's result. If fn failed as well, both
// errors are joined with the restore failure first. The goroutine then exits
// still locked to its thread, so the runtime destroys the mispinned thread
// instead of handing it to other goroutines.
func Run(core int, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		runtime.LockOSThread()

		restored, err := pinned(core, fn)
		if restored {
			runtime.UnlockOSThread()
		}

		done <- err
	}()

	return <-done
}

// pinned runs fn inside a Scope. restored is false only when the thread may
// have been left with the wrong affinity.
func pinned(core int, fn func() error) (restored bool, err error) {
	scope, err := Enter(core)
	if err != nil {
		return true, err
	}

	defer func() {
		if rerr := scope.Exit(); rerr != nil {
			restored = false
			if err != nil {
				err = errors.Join(rerr, err)
			} else {
				err = rerr
			}

			return
		}

		restored = true
	}()

	return false, fn()
}

func affinityError(kind cputypes.Kind, core int, err error) *cputypes.Error {
	return &cputypes.Error{Kind: kind, Core: core, Err: err}
}
