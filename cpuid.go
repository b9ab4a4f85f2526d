// Package algocpuid executes the x86 CPUID instruction and returns the raw
// EAX, EBX, ECX and EDX results, optionally on a specific logical core.
//
// Unpinned queries run on whatever core the OS scheduler has the calling
// thread on. Pinned queries save the thread's affinity, restrict it to the
// requested core, execute CPUID and restore the saved affinity, so feature
// bits can be compared between cores of heterogeneous or virtualized
// systems.
//
// The package does not interpret the returned bits and does not cache them.
package algocpuid

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-cpuid/internal/affinity"
	"github.com/cwbudde/algo-cpuid/internal/cpu"
)

// Replaced in tests.
var (
	invoke    = cpu.Invoke
	runPinned = affinity.Run
)

// Query executes CPUID for leaf on the current logical core.
func Query(leaf uint32) (Registers, error) {
	return QuerySub(leaf, 0)
}

// QuerySub executes CPUID for leaf with ECX set to subleaf, for leaves that
// enumerate sub-pages (caches, extended features, topology).
func QuerySub(leaf, subleaf uint32) (Registers, error) {
	r, err := invoke(leaf, subleaf)
	if err != nil {
		return Registers{}, err
	}

	return r, nil
}

// QueryOn executes CPUID for leaf on logical core core.
//
// See QuerySubOn for the error contract.
func QueryOn(core int, leaf uint32) (Registers, error) {
	return QuerySubOn(core, leaf, 0)
}

// QuerySubOn executes CPUID for leaf and subleaf on logical core core.
//
// Errors carry one of the Kinds of this package. When the query succeeded but
// the thread's original affinity could not be restored, the error has Kind
// AffinityRestoreFailed, its Registers field points at the result and the
// result is also returned. In every other failure the returned Registers are
// zero.
func QuerySubOn(core int, leaf, subleaf uint32) (Registers, error) {
	if cpu.Strategy() == "unsupported" {
		return Registers{}, &Error{Kind: UnsupportedPlatform, Leaf: leaf, Subleaf: subleaf, Core: core}
	}

	var (
		regs     Registers
		queryErr error
	)

	err := runPinned(core, func() error {
		regs, queryErr = invoke(leaf, subleaf)
		return queryErr
	})
	if err == nil {
		log().WithFields(logrus.Fields{"core": core, "leaf": leaf, "subleaf": subleaf}).Debug("pinned CPUID query")
		return regs, nil
	}

	annotate(err, leaf, subleaf, core)

	var e *Error
	if errors.As(err, &e) && e.Kind == AffinityRestoreFailed {
		log().WithError(err).WithField("core", core).Warn("thread affinity not restored after pinned CPUID query")

		if queryErr == nil {
			r := regs
			e.Registers = &r

			return regs, err
		}
	}

	return Registers{}, err
}

// Strategy names the CPUID invocation strategy compiled into this binary:
// "asm", "intrinsic", "device" or "unsupported".
func Strategy() string {
	return cpu.Strategy()
}

// AffinitySupported reports whether pinned queries can work on this host.
func AffinitySupported() bool {
	return affinity.Supported()
}

// annotate fills in the query coordinates on every *Error in err, including
// the members of a joined error.
func annotate(err error, leaf, subleaf uint32, core int) {
	switch e := err.(type) {
	case *Error:
		e.Leaf, e.Subleaf, e.Core = leaf, subleaf, core
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			annotate(inner, leaf, subleaf, core)
		}
	}
}
