package cputypes

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure of a CPUID query.
type Kind uint8

const (
	// UnsupportedPlatform: the binary was built for a target without CPUID.
	UnsupportedPlatform Kind = iota + 1
	// UnsupportedLeaf: the processor does not implement the requested leaf.
	UnsupportedLeaf
	// AffinityUnsupported: pinning was requested but the host has no
	// thread affinity control.
	AffinityUnsupported
	// AffinityQueryFailed: the calling thread's affinity could not be read.
	AffinityQueryFailed
	// AffinitySetFailed: the thread could not be restricted to the core.
	AffinitySetFailed
	// AffinityRestoreFailed: the saved affinity could not be put back.
	AffinityRestoreFailed
)

// Sentinel errors, one per Kind. Every *Error matches the sentinel of its
// Kind with errors.Is.
var (
	ErrUnsupportedPlatform = errors.New("algocpuid: CPUID is only supported on x86")
	ErrUnsupportedLeaf     = errors.New("algocpuid: requested CPUID leaf not supported")
	ErrAffinityUnsupported = errors.New("algocpuid: CPU affinity control not supported on this host")
	ErrAffinityQuery       = errors.New("algocpuid: unable to get CPU affinity")
	ErrAffinitySet         = errors.New("algocpuid: unable to set CPU affinity")
	ErrAffinityRestore     = errors.New("algocpuid: unable to restore CPU affinity")
)

func (k Kind) String() string {
	switch k {
	case UnsupportedPlatform:
		return "UnsupportedPlatform"
	case UnsupportedLeaf:
		return "UnsupportedLeaf"
	case AffinityUnsupported:
		return "AffinityUnsupported"
	case AffinityQueryFailed:
		return "AffinityQueryFailed"
	case AffinitySetFailed:
		return "AffinitySetFailed"
	case AffinityRestoreFailed:
		return "AffinityRestoreFailed"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Sentinel returns the sentinel error for k, or nil for an unknown kind.
func (k Kind) Sentinel() error {
	switch k {
	case UnsupportedPlatform:
		return ErrUnsupportedPlatform
	case UnsupportedLeaf:
		return ErrUnsupportedLeaf
	case AffinityUnsupported:
		return ErrAffinityUnsupported
	case AffinityQueryFailed:
		return ErrAffinityQuery
	case AffinitySetFailed:
		return ErrAffinitySet
	case AffinityRestoreFailed:
		return ErrAffinityRestore
	default:
		return nil
	}
}

// NoCore is the Core value of errors from unpinned queries.
const NoCore = -1

// Error describes a failed query.
type Error struct {
	Kind    Kind
	Leaf    uint32
	Subleaf uint32
	// Core is the requested logical core, or NoCore.
	Core int
	// Registers is set only for AffinityRestoreFailed when the query itself
	// had already succeeded.
	Registers *Registers
	// Err is the OS diagnostic, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder

	if s := e.Kind.Sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString("algocpuid: " + e.Kind.String())
	}

	fmt.Fprintf(&b, " (leaf %#x", e.Leaf)
	if e.Subleaf != 0 {
		fmt.Fprintf(&b, ", subleaf %#x", e.Subleaf)
	}
	if e.Core != NoCore {
		fmt.Fprintf(&b, ", core %d", e.Core)
	}
	b.WriteByte(')')

	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && target == s
}

// NewError builds an *Error for an unpinned query.
func NewError(kind Kind, leaf, subleaf uint32, err error) *Error {
	return &Error{Kind: kind, Leaf: leaf, Subleaf: subleaf, Core: NoCore, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}
